package layout

import (
	apperrors "github.com/portfolio-report/internal/errors"
)

// Paginator is the layout cursor of one render call: current page and vertical offset.
// It is not safe for concurrent use and must not be reused across renders.
type Paginator struct {
	geom Geometry
	doc  *Document
	page *Page
	y    float64
}

// NewPaginator starts a document on page 1 with the cursor below the header band
func NewPaginator(geom Geometry) *Paginator {
	first := &Page{Number: 1}
	return &Paginator{
		geom: geom,
		doc:  &Document{Geometry: geom, Pages: []*Page{first}},
		page: first,
		y:    geom.FirstPageTop,
	}
}

// Y returns the current vertical offset
func (p *Paginator) Y() float64 {
	return p.y
}

// PageIndex returns the 1-based index of the current page
func (p *Paginator) PageIndex() int {
	return p.page.Number
}

// Page returns the current page
func (p *Paginator) Page() *Page {
	return p.page
}

// Geometry returns the page frame
func (p *Paginator) Geometry() Geometry {
	return p.geom
}

// Fits reports whether a block of height h fits below the cursor on the current page.
// A block ending exactly at the body bottom fits.
func (p *Paginator) Fits(h float64) bool {
	return p.y+h <= p.geom.BodyBottom()
}

// AtTop reports whether nothing has been laid out on the current continuation page
func (p *Paginator) AtTop() bool {
	return p.page.Number > 1 && p.y == p.geom.TopMargin
}

// Break opens a new page and moves the cursor to its top margin
func (p *Paginator) Break() {
	next := &Page{Number: len(p.doc.Pages) + 1}
	p.doc.Pages = append(p.doc.Pages, next)
	p.page = next
	p.y = p.geom.TopMargin
}

// EnsureSpace breaks to a new page when a block of height h does not fit, without
// advancing the cursor. It reports whether a break happened.
func (p *Paginator) EnsureSpace(h float64) (bool, error) {
	if h > p.geom.Capacity() {
		return false, apperrors.NewLayoutOverflowError(h, p.geom.Capacity())
	}
	if p.Fits(h) {
		return false, nil
	}
	p.Break()
	return true, nil
}

// Reserve claims a block of height h, breaking first when it does not fit.
// It returns the offset the block starts at and advances the cursor past it.
func (p *Paginator) Reserve(h float64) (float64, error) {
	if _, err := p.EnsureSpace(h); err != nil {
		return 0, err
	}
	top := p.y
	p.y += h
	return top, nil
}

// Skip advances the cursor by dy without a break check
func (p *Paginator) Skip(dy float64) {
	p.y += dy
}

// Add appends an operation to the current page
func (p *Paginator) Add(op Op) {
	p.page.Add(op)
}

// Document returns the page list laid out so far
func (p *Paginator) Document() *Document {
	return p.doc
}
