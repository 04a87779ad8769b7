// Package report is the entry point of the rendering engine: it validates a report
// input and dispatches it to the PDF or HTML renderer.
package report

import (
	"fmt"

	"github.com/portfolio-report/internal/classify"
	apperrors "github.com/portfolio-report/internal/errors"
	"github.com/portfolio-report/internal/logging"
	"github.com/portfolio-report/internal/models"
	"github.com/portfolio-report/internal/render/htmlrender"
	"github.com/portfolio-report/internal/render/pdfrender"
	"github.com/portfolio-report/internal/types"
)

// Document is a finished render
type Document struct {
	Target    types.RenderTarget
	Content   []byte
	PageCount int // 1 for HTML
}

// ContentType returns the MIME type of the document
func (d *Document) ContentType() string {
	return d.Target.ContentType()
}

// Engine renders reports. It holds no per-call state and is safe for concurrent use.
type Engine struct {
	pdf  *pdfrender.Renderer
	html *htmlrender.Renderer
}

// NewEngine creates an engine with the default classification rules
func NewEngine(logger *logging.Logger) *Engine {
	classifier := classify.Default()
	return &Engine{
		pdf:  pdfrender.NewRenderer(classifier, logger),
		html: htmlrender.NewRenderer(classifier, logger),
	}
}

// Validate checks the caller contract. It runs before any layout work.
func Validate(in *models.ReportInput) error {
	if in == nil {
		return apperrors.NewInvalidParameterError("input", "must not be nil")
	}
	if !in.Language.IsValid() {
		return apperrors.NewInvalidLanguageError(string(in.Language))
	}
	if !in.Currency.IsValid() {
		return apperrors.NewInvalidCurrencyError(string(in.Currency))
	}
	for i, h := range in.Holdings {
		if h.Quantity.IsNegative() {
			return apperrors.NewNegativeQuantityError(i, h.AssetKey, h.Quantity.String())
		}
	}
	if in.GeneratedAt.IsZero() {
		return apperrors.NewInvalidParameterError("generatedAt", "must be set")
	}
	return nil
}

// Render validates the input and renders it for target
func (e *Engine) Render(target types.RenderTarget, in *models.ReportInput) (*Document, error) {
	switch target {
	case types.TargetPDF:
		return e.RenderPDF(in)
	case types.TargetHTML:
		return e.RenderHTML(in)
	default:
		return nil, apperrors.NewInvalidParameterError("target", fmt.Sprintf("unsupported target %q", target))
	}
}

// RenderPDF renders the paginated document
func (e *Engine) RenderPDF(in *models.ReportInput) (*Document, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	res, err := e.pdf.Render(in)
	if err != nil {
		return nil, err
	}
	return &Document{Target: types.TargetPDF, Content: res.Content, PageCount: res.PageCount}, nil
}

// RenderHTML renders the flow document
func (e *Engine) RenderHTML(in *models.ReportInput) (*Document, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	out, err := e.html.Render(in)
	if err != nil {
		return nil, err
	}
	return &Document{Target: types.TargetHTML, Content: []byte(out), PageCount: 1}, nil
}
