package pdfrender

import (
	"github.com/portfolio-report/internal/classify"
	"github.com/portfolio-report/internal/format"
	"github.com/portfolio-report/internal/layout"
	"github.com/portfolio-report/internal/locale"
	"github.com/portfolio-report/internal/models"
	"github.com/portfolio-report/internal/rules"
	"github.com/portfolio-report/internal/valuation"
	"github.com/shopspring/decimal"
)

const (
	margin      = 20.0
	valueOffset = 25.0
	lineHeight  = 5.0
	rowHeight   = 8.0

	// each extra wrapped line in a table cell adds this much to the row
	cellLineHeight = 4.5

	headerBandHeight = 50.0
	logoWidth        = 80.0
	logoHeight       = 20.0
	logoTop          = 8.0
	titleBaseline    = 35.0
	stampBaseline    = 43.0

	sectionTitleGap  = 10.0
	summaryTitleGap  = 5.0
	categoryTitleGap = 8.0
	afterTableGap    = 15.0
	memberGap        = 3.0
	linkedMemberGap  = 8.0
	categoryGap      = 5.0

	footerTextOffset = 10.0
	footerPageOffset = 6.0

	logoImage = "logo"
)

var (
	colorBand      = layout.Color{R: 10, G: 10, B: 10}
	colorWhite     = layout.Color{R: 255, G: 255, B: 255}
	colorBlack     = layout.Color{}
	colorLightGray = layout.Color{R: 200, G: 200, B: 200}
	colorPurple    = layout.Hex("#9945FF")
	colorCyan      = layout.Hex("#00CED1")
	colorGreen     = layout.Hex("#14F195")
	colorGold      = layout.Hex("#FFD700")
	colorGray      = layout.Hex("#808080")
	colorBeige     = layout.Hex("#F5F5DC")

	columnWidths = [4]float64{45, 35, 45, 45}
)

func font(style string, size float64) layout.Font {
	return layout.Font{Family: "Helvetica", Style: style, Size: size}
}

// builder lays out one report onto a fresh paginator
type builder struct {
	in         *models.ReportInput
	labels     *locale.Labels
	classifier *classify.Classifier
	p          *layout.Paginator
	m          *measurer
	withLogo   bool
}

func (b *builder) build() (*layout.Document, error) {
	b.header()
	if err := b.summary(); err != nil {
		return nil, err
	}
	if err := b.protocols(); err != nil {
		return nil, err
	}

	doc := b.p.Document()
	if err := doc.Finalize(b.footer); err != nil {
		return nil, err
	}
	return doc, nil
}

func (b *builder) header() {
	g := b.p.Geometry()
	b.p.Add(layout.Rect{X: 0, Y: 0, W: g.Width, H: headerBandHeight, Fill: colorBand})
	if b.withLogo {
		b.p.Add(layout.Image{
			Name: logoImage,
			X:    (g.Width - logoWidth) / 2,
			Y:    logoTop,
			W:    logoWidth,
			H:    logoHeight,
		})
	}
	b.p.Add(layout.Text{
		X: g.Width / 2, Y: titleBaseline,
		Value: b.labels.Title,
		Font:  font("B", 22), Color: colorWhite, Align: layout.AlignCenter,
	})
	b.p.Add(layout.Text{
		X: g.Width / 2, Y: stampBaseline,
		Value: b.labels.GeneratedLine(format.Timestamp(b.in.GeneratedAt, b.in.Language)),
		Font:  font("", 10), Color: colorLightGray, Align: layout.AlignCenter,
	})
}

func (b *builder) sectionTitle(text string, gap float64, keepWith float64) error {
	if _, err := b.p.EnsureSpace(gap + keepWith); err != nil {
		return err
	}
	b.p.Add(layout.Text{
		X: margin, Y: b.p.Y(),
		Value: text,
		Font:  font("B", 16), Color: colorPurple, Align: layout.AlignLeft,
	})
	b.p.Skip(gap)
	return nil
}

func (b *builder) summary() error {
	lines, total := valuation.Aggregate(b.in.Holdings, b.in.Prices)
	lines = valuation.SortByValueDesc(lines)

	// title stays with the column header and first row
	if err := b.sectionTitle(b.labels.Summary, summaryTitleGap, 2*rowHeight); err != nil {
		return err
	}

	head := b.labels.SummaryColumns(b.in.Currency)
	if err := b.row(b.tableRow(head[:], font("B", 10)), colorWhite, colorPurple); err != nil {
		return err
	}

	for _, line := range lines {
		if err := b.bodyRow([]string{
			line.Label,
			format.Quantity(line.Quantity),
			b.money(line.UnitPrice),
			b.money(line.TotalValue),
		}, font("", 10), colorBeige, head); err != nil {
			return err
		}
	}

	if err := b.bodyRow([]string{"", "", b.labels.Total, b.money(total)}, font("B", 10), colorGold, head); err != nil {
		return err
	}

	b.p.Skip(afterTableGap)
	return nil
}

// measuredRow is a table row with every cell broken to its column width
type measuredRow struct {
	cells  []string
	lines  [][]string
	font   layout.Font
	height float64
}

// tableRow wraps each cell to its column; the row grows to its tallest cell
func (b *builder) tableRow(cells []string, f layout.Font) measuredRow {
	r := measuredRow{cells: cells, lines: make([][]string, len(cells)), font: f}
	tallest := 1
	for i, value := range cells {
		r.lines[i] = b.m.wrap(f, value, columnWidths[i]-2*b.m.cellPadding())
		if n := len(r.lines[i]); n > tallest {
			tallest = n
		}
	}
	r.height = rowHeight + float64(tallest-1)*cellLineHeight
	return r
}

// bodyRow draws a table row, repeating the column header first when the row opens a page.
// A row that does not fit an empty continuation page is left for Reserve to report.
func (b *builder) bodyRow(cells []string, f layout.Font, fill layout.Color, head [4]string) error {
	r := b.tableRow(cells, f)
	if !b.p.Fits(r.height) && !b.p.AtTop() {
		b.p.Break()
		if err := b.row(b.tableRow(head[:], font("B", 10)), colorWhite, colorPurple); err != nil {
			return err
		}
	}
	return b.row(r, colorBlack, fill)
}

func (b *builder) row(r measuredRow, text, fill layout.Color) error {
	y, err := b.p.Reserve(r.height)
	if err != nil {
		return err
	}
	x := margin
	for i, value := range r.cells {
		b.p.Add(layout.Cell{
			X: x, Y: y, W: columnWidths[i], H: r.height,
			Value:      value,
			Lines:      r.lines[i],
			LineHeight: cellLineHeight,
			Font:       r.font, Color: text, Fill: fill, Align: layout.AlignCenter,
		})
		x += columnWidths[i]
	}
	return nil
}

func (b *builder) money(v decimal.Decimal) string {
	return format.Currency(v, b.in.Currency, b.in.Language)
}

func (b *builder) protocols() error {
	sections := valuation.GroupAllocations(b.in.Allocations, b.classifier)
	if len(sections) == 0 {
		return nil
	}

	if err := b.sectionTitle(b.labels.Protocols, sectionTitleGap, categoryTitleGap+lineHeight); err != nil {
		return err
	}

	for _, section := range sections {
		if _, err := b.p.EnsureSpace(categoryTitleGap + lineHeight); err != nil {
			return err
		}
		b.p.Add(layout.Text{
			X: margin, Y: b.p.Y(),
			Value: rules.SectionLabel(section.Category, section.RawCategory, b.labels),
			Font:  font("B", 13), Color: colorGreen, Align: layout.AlignLeft,
		})
		b.p.Skip(categoryTitleGap)

		for _, group := range section.Groups {
			if err := b.group(group); err != nil {
				return err
			}
		}
		b.p.Skip(categoryGap)
	}
	return nil
}

func (b *builder) group(group models.ProtocolGroup) error {
	if err := b.field(b.labels.ProtocolLabel, group.ProtocolName, colorBlack, ""); err != nil {
		return err
	}
	for _, rec := range group.Members {
		amount := rules.AllocationAmount(rec, group.Category, b.labels)
		if err := b.field(b.labels.AssetLabel, amount, colorBlack, ""); err != nil {
			return err
		}
		if err := b.field(b.labels.WalletLabel, rules.DisplayWallet(rec.WalletAddress), colorBlack, ""); err != nil {
			return err
		}
		if rec.ProtocolURL == "" {
			b.p.Skip(memberGap)
			continue
		}
		if err := b.field(b.labels.SiteLabel, rec.ProtocolURL, colorCyan, rec.ProtocolURL); err != nil {
			return err
		}
		b.p.Skip(linkedMemberGap - lineHeight)
	}
	return nil
}

// field draws a bold label and its value on one line
func (b *builder) field(label, value string, valueColor layout.Color, link string) error {
	y, err := b.p.Reserve(lineHeight)
	if err != nil {
		return err
	}
	b.p.Add(layout.Text{
		X: margin, Y: y,
		Value: label,
		Font:  font("B", 10), Color: colorBlack, Align: layout.AlignLeft,
	})
	b.p.Add(layout.Text{
		X: margin + valueOffset, Y: y,
		Value: value,
		Font:  font("", 10), Color: valueColor, Align: layout.AlignLeft,
		Link: link,
	})
	return nil
}

func (b *builder) footer(page *layout.Page, number, total int) {
	g := b.p.Geometry()
	page.Add(layout.Text{
		X: g.Width / 2, Y: g.Height - footerTextOffset,
		Value: b.labels.Footer,
		Font:  font("", 8), Color: colorGray, Align: layout.AlignCenter,
	})
	page.Add(layout.Text{
		X: g.Width / 2, Y: g.Height - footerPageOffset,
		Value: b.labels.PageOf(number, total),
		Font:  font("", 8), Color: colorGray, Align: layout.AlignCenter,
	})
}
