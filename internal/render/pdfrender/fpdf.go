package pdfrender

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/portfolio-report/internal/layout"
	"github.com/portfolio-report/internal/logging"
)

const creator = "portfolio-report"

// rasterImage is an image available for Image ops
type rasterImage struct {
	data []byte
	info layout.ImageInfo
}

// emit replays a finalized page model onto an fpdf document.
// Metadata dates are fixed to stamp so equal inputs give byte-identical output.
func emit(doc *layout.Document, title string, stamp time.Time, images map[string]rasterImage, logger *logging.Logger) ([]byte, error) {
	g := doc.Geometry
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: g.Width, Ht: g.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetTitle(title, true)
	pdf.SetCreator(creator, true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	names := make([]string, 0, len(images))
	for name := range images {
		names = append(names, name)
	}
	sort.Strings(names)

	registered := make(map[string]rasterImage, len(images))
	for _, name := range names {
		img := images[name]
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: img.info.Format}, bytes.NewReader(img.data))
		if err := pdf.Error(); err != nil {
			// fpdf rejects some decodable PNGs (interlaced, 16-bit); drop the image, keep the page
			logger.WithError(err).WithField("image", name).Warn("image omitted")
			pdf.ClearError()
			continue
		}
		registered[name] = img
	}

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, op := range page.Ops {
			switch o := op.(type) {
			case layout.Rect:
				pdf.SetFillColor(o.Fill.R, o.Fill.G, o.Fill.B)
				pdf.Rect(o.X, o.Y, o.W, o.H, "F")
			case layout.Image:
				img, ok := registered[o.Name]
				if !ok {
					continue
				}
				pdf.ImageOptions(o.Name, o.X, o.Y, o.W, o.H, false, fpdf.ImageOptions{ImageType: img.info.Format}, 0, "")
			case layout.Text:
				drawText(pdf, tr, o)
			case layout.Cell:
				drawCell(pdf, tr, o)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawCell(pdf *fpdf.Fpdf, tr func(string) string, c layout.Cell) {
	pdf.SetFont(c.Font.Family, c.Font.Style, c.Font.Size)
	pdf.SetTextColor(c.Color.R, c.Color.G, c.Color.B)
	pdf.SetFillColor(c.Fill.R, c.Fill.G, c.Fill.B)
	pdf.SetDrawColor(colorLightGray.R, colorLightGray.G, colorLightGray.B)

	if len(c.Lines) <= 1 {
		pdf.SetXY(c.X, c.Y)
		pdf.CellFormat(c.W, c.H, tr(c.Value), "1", 0, string(c.Align), true, 0, "")
		return
	}

	pdf.Rect(c.X, c.Y, c.W, c.H, "FD")
	top := c.Y + (c.H-float64(len(c.Lines))*c.LineHeight)/2
	for i, line := range c.Lines {
		pdf.SetXY(c.X, top+float64(i)*c.LineHeight)
		pdf.CellFormat(c.W, c.LineHeight, tr(line), "", 0, string(c.Align), false, 0, "")
	}
}

func drawText(pdf *fpdf.Fpdf, tr func(string) string, t layout.Text) {
	pdf.SetFont(t.Font.Family, t.Font.Style, t.Font.Size)
	pdf.SetTextColor(t.Color.R, t.Color.G, t.Color.B)

	s := tr(t.Value)
	w := pdf.GetStringWidth(s)
	x := t.X
	switch t.Align {
	case layout.AlignCenter:
		x -= w / 2
	case layout.AlignRight:
		x -= w
	}
	pdf.Text(x, t.Y, s)

	if t.Link != "" {
		pdf.LinkString(x, t.Y-3, w, lineHeight, t.Link)
	}
}
