package layout

import (
	"fmt"
)

// Color is an RGB triple
type Color struct {
	R, G, B int
}

// Hex parses "#RRGGBB"; malformed input yields black
func Hex(s string) Color {
	var c Color
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return Color{}
	}
	return c
}

// Font selects a family, style ("", "B") and point size
type Font struct {
	Family string
	Style  string
	Size   float64
}

// Align is a horizontal alignment
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Op is one drawing operation on a page
type Op interface {
	op()
}

// Text draws a single line with its baseline at Y. X is the left edge, centre or right
// edge depending on Align. A non-empty Link makes the text's box a clickable URL.
type Text struct {
	X, Y  float64
	Value string
	Font  Font
	Color Color
	Align Align
	Link  string
}

// Rect fills a rectangle
type Rect struct {
	X, Y, W, H float64
	Fill       Color
}

// Cell is a bordered, filled table cell with its top-left corner at X,Y.
// Lines holds Value broken to the cell width; more than one line is drawn as a
// vertically centred block with LineHeight spacing.
type Cell struct {
	X, Y, W, H float64
	Value      string
	Lines      []string
	LineHeight float64
	Font       Font
	Color      Color
	Fill       Color
	Align      Align
}

// Image places a registered image
type Image struct {
	Name       string
	X, Y, W, H float64
}

func (Text) op()  {}
func (Rect) op()  {}
func (Cell) op()  {}
func (Image) op() {}

// Page is the ordered operation list of one page
type Page struct {
	Number int
	Ops    []Op
}

// Add appends an operation
func (p *Page) Add(op Op) {
	p.Ops = append(p.Ops, op)
}

// Document is the complete page list of a fixed-layout render
type Document struct {
	Geometry  Geometry
	Pages     []*Page
	finalized bool
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Finalize runs stamp once per page with the page's 1-based number and the final page
// count. It runs after layout is complete, so every stamp sees the same total.
func (d *Document) Finalize(stamp func(page *Page, number, total int)) error {
	if d.finalized {
		return fmt.Errorf("document already finalized")
	}
	total := len(d.Pages)
	for i, p := range d.Pages {
		stamp(p, i+1, total)
	}
	d.finalized = true
	return nil
}

// Finalized reports whether Finalize has run
func (d *Document) Finalized() bool {
	return d.finalized
}
