package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/portfolio-report/internal/models"
	"github.com/portfolio-report/internal/service"
	"github.com/portfolio-report/internal/types"
)

// handleRenderPDF handles POST /api/reports/pdf
func (s *Server) handleRenderPDF(w http.ResponseWriter, r *http.Request) {
	s.handleRender(w, r, types.TargetPDF)
}

// handleRenderHTML handles POST /api/reports/html
func (s *Server) handleRenderHTML(w http.ResponseWriter, r *http.Request) {
	s.handleRender(w, r, types.TargetHTML)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request, target types.RenderTarget) {
	if s.config.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	}

	var in models.ReportInput
	if err := parseJSONBody(r, &in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge, "Request body too large", map[string]interface{}{
				"limit": tooLarge.Limit,
			})
			return
		}
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", map[string]interface{}{
			"reason": err.Error(),
		})
		return
	}

	// Tags are matched case-insensitively; anything else is left for validation to reject
	if lang, ok := types.ParseLanguage(string(in.Language)); ok {
		in.Language = lang
	}
	if cur, ok := types.ParseCurrency(string(in.Currency)); ok {
		in.Currency = cur
	}

	result, err := s.reportService.Generate(r.Context(), &service.GenerateReportInput{Target: target, Report: in})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	cacheStatus := "MISS"
	if result.Cached {
		cacheStatus = "HIT"
	}

	w.Header().Set("Content-Type", result.ContentType())
	w.Header().Set("X-Report-ID", result.ReportID)
	w.Header().Set("X-Page-Count", strconv.Itoa(result.PageCount))
	w.Header().Set("X-Report-Cache", cacheStatus)
	if target == types.TargetPDF {
		w.Header().Set("Content-Disposition", `inline; filename="portfolio-report.pdf"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Content)
}

// handleGetReport handles GET /api/reports/{id}
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	report, err := s.reportService.GetReport(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.reportService.Stats())
}
