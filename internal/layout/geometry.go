// Package layout implements the page model and pagination cursor of the fixed-layout report.
// All distances are millimetres; Y grows downwards from the top edge.
package layout

// Geometry is the fixed page frame of a document
type Geometry struct {
	Width        float64
	Height       float64
	TopMargin    float64 // body start on every page after the first
	BottomMargin float64
	FirstPageTop float64 // body start on page 1, below the header band
}

// A4 is the portrait A4 frame with a 50mm header band on page 1
var A4 = Geometry{
	Width:        210,
	Height:       297,
	TopMargin:    30,
	BottomMargin: 25,
	FirstPageTop: 65,
}

// BodyBottom is the lowest Y a content block may reach
func (g Geometry) BodyBottom() float64 {
	return g.Height - g.BottomMargin
}

// Capacity is the body height of an empty continuation page
func (g Geometry) Capacity() float64 {
	return g.Height - g.TopMargin - g.BottomMargin
}
