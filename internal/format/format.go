// Package format renders currency amounts, quantities and timestamps for report output.
package format

import (
	"math"
	"strings"
	"time"

	money "github.com/Rhymond/go-money"
	"github.com/portfolio-report/internal/types"
	"github.com/shopspring/decimal"
)

// currencyFraction is the number of fractional digits every report amount carries
const currencyFraction = 2

// separators holds the grouping conventions of one language
type separators struct {
	thousand string
	decimal  string
	template string
}

var languageSeparators = map[types.Language]separators{
	types.LanguageEN: {thousand: ",", decimal: ".", template: "$1"},
	types.LanguagePT: {thousand: ".", decimal: ",", template: "$ 1"},
}

// Currency renders value in the given currency with exactly two fractional digits.
// The symbol comes from the currency table, separators and placement from the language.
// Halves round away from zero.
func Currency(value decimal.Decimal, code types.CurrencyCode, lang types.Language) string {
	sep, ok := languageSeparators[lang]
	if !ok {
		sep = languageSeparators[types.LanguageEN]
	}

	// money.New never returns a nil currency, unknown codes get an empty grapheme
	grapheme := money.New(0, string(code)).Currency().Grapheme

	f := money.NewFormatter(currencyFraction, sep.decimal, sep.thousand, grapheme, sep.template)
	minor := value.Round(currencyFraction).Shift(currencyFraction)
	if minor.Abs().GreaterThan(maxMinorUnits) {
		return formatWide(f, minor)
	}
	return f.Format(minor.IntPart())
}

// maxMinorUnits is the largest minor-unit amount money.Formatter can take as an int64
var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// formatWide applies f's grouping and template to an amount beyond the int64 range
func formatWide(f *money.Formatter, minor decimal.Decimal) string {
	digits := minor.Abs().BigInt().String()
	whole, frac := digits[:len(digits)-f.Fraction], digits[len(digits)-f.Fraction:]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(f.Thousand)
		}
		b.WriteRune(r)
	}
	b.WriteString(f.Decimal)
	b.WriteString(frac)

	out := strings.Replace(f.Template, "1", b.String(), 1)
	out = strings.Replace(out, "$", f.Grapheme, 1)
	if minor.IsNegative() {
		out = "-" + out
	}
	return out
}

// Quantity renders a holding quantity with four fixed decimals
func Quantity(q decimal.Decimal) string {
	return q.StringFixed(4)
}

// Amount renders an allocation quantity in its shortest exact form ("1.5", "1000")
func Amount(q decimal.Decimal) string {
	return q.String()
}

// Timestamp renders an instant in its own location.
// Portuguese reads 05/03/2024 14:07, English reads 3/5/2024, 2:07 PM.
func Timestamp(t time.Time, lang types.Language) string {
	if lang == types.LanguagePT {
		return t.Format("02/01/2006 15:04")
	}
	return t.Format("1/2/2006, 3:04 PM")
}
