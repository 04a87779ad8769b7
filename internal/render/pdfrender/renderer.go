// Package pdfrender renders the paginated, fixed-coordinate report.
//
// Rendering runs in two stages. The builder lays every block out onto a page model
// through a layout.Paginator and finalizes it with the "page i / N" footer once N is
// known. The backend then replays the model onto an fpdf document.
package pdfrender

import (
	"github.com/portfolio-report/internal/classify"
	"github.com/portfolio-report/internal/layout"
	"github.com/portfolio-report/internal/locale"
	"github.com/portfolio-report/internal/logging"
	"github.com/portfolio-report/internal/models"
)

// Result is a rendered PDF
type Result struct {
	Content   []byte
	PageCount int
}

// Renderer renders reports to PDF. It holds only immutable tables and is safe for
// concurrent use; every call gets its own paginator.
type Renderer struct {
	classifier *classify.Classifier
	geometry   layout.Geometry
	logger     *logging.Logger
}

// NewRenderer creates an A4 renderer
func NewRenderer(classifier *classify.Classifier, logger *logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Renderer{
		classifier: classifier,
		geometry:   layout.A4,
		logger:     logger.WithField("component", "pdf_renderer"),
	}
}

// Layout builds the finalized page model of a report. The input must already be valid.
func (r *Renderer) Layout(in *models.ReportInput) (*layout.Document, error) {
	_, hasLogo := r.logo(in)
	return r.layout(in, hasLogo)
}

func (r *Renderer) layout(in *models.ReportInput, hasLogo bool) (*layout.Document, error) {
	b := &builder{
		in:         in,
		labels:     locale.For(in.Language),
		classifier: r.classifier,
		p:          layout.NewPaginator(r.geometry),
		m:          newMeasurer(),
		withLogo:   hasLogo,
	}
	return b.build()
}

// Render lays out and encodes a report. An absent or undecodable logo leaves its
// region empty; nothing else changes.
func (r *Renderer) Render(in *models.ReportInput) (*Result, error) {
	images := map[string]rasterImage{}
	img, hasLogo := r.logo(in)
	if hasLogo {
		images[logoImage] = img
	}

	doc, err := r.layout(in, hasLogo)
	if err != nil {
		return nil, err
	}

	content, err := emit(doc, locale.For(in.Language).Title, in.GeneratedAt, images, r.logger)
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(map[string]interface{}{
		"pages": doc.PageCount(),
		"bytes": len(content),
	}).Debug("pdf rendered")

	return &Result{Content: content, PageCount: doc.PageCount()}, nil
}

func (r *Renderer) logo(in *models.ReportInput) (rasterImage, bool) {
	if len(in.Logo) == 0 {
		return rasterImage{}, false
	}
	info, err := layout.DecodeImage(in.Logo)
	if err != nil {
		r.logger.WithError(err).Warn("logo omitted")
		return rasterImage{}, false
	}
	return rasterImage{data: in.Logo, info: info}, true
}
