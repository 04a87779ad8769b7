// Package htmlrender renders the single-flow HTML report: one self-contained document
// with inline styles, an embedded logo and no scripts.
package htmlrender

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"github.com/portfolio-report/internal/classify"
	"github.com/portfolio-report/internal/format"
	"github.com/portfolio-report/internal/layout"
	"github.com/portfolio-report/internal/locale"
	"github.com/portfolio-report/internal/logging"
	"github.com/portfolio-report/internal/models"
	"github.com/portfolio-report/internal/rules"
	"github.com/portfolio-report/internal/valuation"
)

//go:embed report.html.tmpl
var reportTemplate string

var tmpl = template.Must(template.New("report").Parse(reportTemplate))

// emptyWallet stands in for a card whose first member has no wallet address
const emptyWallet = "0x..."

type row struct {
	Label     string
	Quantity  string
	UnitPrice string
	Total     string
}

type card struct {
	Name   string
	Type   string
	Lines  []string
	Wallet string
}

type view struct {
	Lang          string
	Title         string
	Generated     string
	Logo          template.URL
	Labels        *locale.Labels
	Total         string
	AssetCount    int
	ProtocolCount int
	Rows          []row
	Cards         []card
}

// Renderer renders reports to HTML. It is safe for concurrent use.
type Renderer struct {
	classifier *classify.Classifier
	logger     *logging.Logger
}

// NewRenderer creates an HTML renderer
func NewRenderer(classifier *classify.Classifier, logger *logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Renderer{
		classifier: classifier,
		logger:     logger.WithField("component", "html_renderer"),
	}
}

// Render produces the HTML document of a valid report input
func (r *Renderer) Render(in *models.ReportInput) (string, error) {
	labels := locale.For(in.Language)
	lines, total := valuation.Aggregate(in.Holdings, in.Prices)
	groups := valuation.GroupByProtocol(in.Allocations, r.classifier)

	v := view{
		Lang:          labels.HTMLLang,
		Title:         labels.Title,
		Generated:     labels.GeneratedLine(format.Timestamp(in.GeneratedAt, in.Language)),
		Logo:          r.logoURI(in.Logo),
		Labels:        labels,
		Total:         format.Currency(total, in.Currency, in.Language),
		AssetCount:    len(in.Holdings),
		ProtocolCount: len(groups),
	}

	for _, l := range lines {
		v.Rows = append(v.Rows, row{
			Label:     l.Label,
			Quantity:  format.Quantity(l.Quantity),
			UnitPrice: format.Currency(l.UnitPrice, in.Currency, in.Language),
			Total:     format.Currency(l.TotalValue, in.Currency, in.Language),
		})
	}

	for _, g := range groups {
		c := card{
			Name:   strings.ToUpper(g.ProtocolName),
			Type:   g.RawCategory,
			Wallet: rules.DisplayWallet(g.Members[0].WalletAddress),
		}
		if c.Type == "" {
			c.Type = labels.CardTypeDefault
		}
		if c.Wallet == "" {
			c.Wallet = emptyWallet
		}
		for _, m := range g.Members {
			c.Lines = append(c.Lines, rules.AllocationAmount(m, r.classifier.Classify(m.RawCategory), labels))
		}
		v.Cards = append(v.Cards, c)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("failed to execute report template: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"bytes": buf.Len(),
		"cards": len(v.Cards),
	}).Debug("html rendered")

	return buf.String(), nil
}

// logoURI embeds the logo as a data URI; an undecodable logo is dropped
func (r *Renderer) logoURI(logo []byte) template.URL {
	if len(logo) == 0 {
		return ""
	}
	info, err := layout.DecodeImage(logo)
	if err != nil {
		r.logger.WithError(err).Warn("logo omitted")
		return ""
	}
	mime := "image/png"
	if info.Format == "JPG" {
		mime = "image/jpeg"
	}
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(logo))
}
