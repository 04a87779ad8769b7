package pdfrender

import (
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/portfolio-report/internal/layout"
)

// measurer sizes text with the same core-font metrics and cp1252 translation the
// backend draws with. It is not safe for concurrent use; each build owns one.
type measurer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newMeasurer() *measurer {
	pdf := fpdf.New("P", "mm", "A4", "")
	return &measurer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// width returns the rendered width of s in mm
func (m *measurer) width(f layout.Font, s string) float64 {
	m.pdf.SetFont(f.Family, f.Style, f.Size)
	return m.pdf.GetStringWidth(m.tr(s))
}

// cellPadding is the horizontal inset fpdf applies inside a cell
func (m *measurer) cellPadding() float64 {
	return m.pdf.GetCellMargin()
}

// wrap breaks s into lines no wider than w. Lines break at spaces; a single word wider
// than w is broken between runes. Text that already fits is returned unchanged.
func (m *measurer) wrap(f layout.Font, s string, w float64) []string {
	if m.width(f, s) <= w {
		return []string{s}
	}

	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		for m.width(f, word) > w {
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			head, rest := m.fit(f, word, w)
			lines = append(lines, head)
			word = rest
		}
		if word == "" {
			continue
		}

		if line == "" {
			line = word
			continue
		}
		if candidate := line + " " + word; m.width(f, candidate) <= w {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// fit splits word after its longest prefix no wider than w, keeping at least one rune
func (m *measurer) fit(f layout.Font, word string, w float64) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && m.width(f, string(runes[:n+1])) <= w {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
