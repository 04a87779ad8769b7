package api

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/portfolio-report/internal/errors"
	"github.com/portfolio-report/internal/models"
	"github.com/portfolio-report/internal/service"
	"github.com/portfolio-report/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `{
	"holdings": [{"assetKey": "bitcoin", "quantity": "0.5", "displayName": "Bitcoin"}],
	"prices": {"bitcoin": {"unitPrice": "60000"}},
	"allocations": [{
		"primaryAsset": "ETH", "primaryQuantity": "2", "secondaryAsset": "DAI", "secondaryQuantity": "1000",
		"protocolName": "Aave", "rawCategory": "Lending", "walletAddress": "0xabc"
	}],
	"language": "PT",
	"currency": "brl",
	"generatedAt": "2025-01-02T09:30:00Z"
}`

func postReport(server *Server, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.ServiceError {
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Error
}

func TestRenderPDF_Headers(t *testing.T) {
	var got *service.GenerateReportInput
	server := NewServer(testConfig(), &mockReportService{
		generateFunc: func(ctx context.Context, input *service.GenerateReportInput) (*service.GenerateReportResult, error) {
			got = input
			return &service.GenerateReportResult{ReportID: "r-1", Target: input.Target, Content: []byte("%PDF-"), PageCount: 3, Cached: true}, nil
		},
	}, nil)

	w := postReport(server, "/api/reports/pdf", sampleBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "r-1", w.Header().Get("X-Report-ID"))
	assert.Equal(t, "3", w.Header().Get("X-Page-Count"))
	assert.Equal(t, "HIT", w.Header().Get("X-Report-Cache"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "portfolio-report.pdf")
	assert.Equal(t, "%PDF-", w.Body.String())

	require.NotNil(t, got)
	assert.Equal(t, types.TargetPDF, got.Target)
	assert.Equal(t, types.LanguagePT, got.Report.Language)
	assert.Equal(t, types.CurrencyBRL, got.Report.Currency)
	assert.Equal(t, "1000", got.Report.Allocations[0].SecondaryAmount().String())
}

func TestRenderHTML_EndToEnd(t *testing.T) {
	server := createEngineServer()

	w := postReport(server, "/api/reports/html", sampleBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "MISS", w.Header().Get("X-Report-Cache"))
	assert.Equal(t, "1", w.Header().Get("X-Page-Count"))

	body := w.Body.String()
	assert.Contains(t, body, `lang="pt-BR"`)
	assert.Contains(t, body, "R$ 30.000,00")
	assert.Contains(t, body, "Aave")
}

func TestRenderPDF_EndToEnd(t *testing.T) {
	server := createEngineServer()

	w := postReport(server, "/api/reports/pdf", sampleBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	assert.NotEmpty(t, w.Header().Get("X-Report-ID"))
}

func TestRender_InvalidJSON(t *testing.T) {
	server := createTestServer()

	w := postReport(server, "/api/reports/pdf", "invalid json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrCodeInvalidInput, decodeError(t, w).Code)
}

func TestRender_UnknownField(t *testing.T) {
	server := createTestServer()

	w := postReport(server, "/api/reports/html", `{"holdings": [], "theme": "dark"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRender_BodyTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBodyBytes = 64
	server := NewServer(cfg, &mockReportService{}, nil)

	w := postReport(server, "/api/reports/pdf", sampleBody)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, ErrCodeRequestTooLarge, decodeError(t, w).Code)
}

func TestRender_InputViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{
			name: "unsupported language",
			body: `{"language": "fr", "currency": "USD"}`,
			code: apperrors.CodeInvalidLanguage,
		},
		{
			name: "unsupported currency",
			body: `{"language": "en", "currency": "JPY"}`,
			code: apperrors.CodeInvalidCurrency,
		},
		{
			name: "negative quantity",
			body: `{"language": "en", "currency": "USD", "holdings": [{"assetKey": "btc", "quantity": "-1"}]}`,
			code: apperrors.CodeNegativeQuantity,
		},
	}

	server := createEngineServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postReport(server, "/api/reports/pdf", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestRender_InternalErrorsAreOpaque(t *testing.T) {
	server := NewServer(testConfig(), &mockReportService{
		generateFunc: func(ctx context.Context, input *service.GenerateReportInput) (*service.GenerateReportResult, error) {
			return nil, apperrors.NewLayoutOverflowError(400, 242)
		},
	}, nil)

	w := postReport(server, "/api/reports/pdf", sampleBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, apperrors.CodeLayoutOverflow, resp.Code)
	assert.Equal(t, "An internal error occurred", resp.Message)
	assert.Nil(t, resp.Details)
}

func TestGetReport(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest("GET", "/api/reports/5b2f8f7e-8d1c-4a57-b6c1-0f6f3b7f9a10", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var report models.Report
	require.NoError(t, json.NewDecoder(w.Body).Decode(&report))
	assert.Equal(t, "5b2f8f7e-8d1c-4a57-b6c1-0f6f3b7f9a10", report.ID)
}

func TestGetReport_NotFound(t *testing.T) {
	server := createEngineServer()

	req := httptest.NewRequest("GET", "/api/reports/5b2f8f7e-8d1c-4a57-b6c1-0f6f3b7f9a10", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.CodeNotFound, decodeError(t, w).Code)
}

func TestStats(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest("GET", "/api/stats", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var stats service.RenderStats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, int64(7), stats.TotalServed)
}

func TestCompression(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	plain, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Contains(t, string(plain), "healthy")
}

func TestConcurrentRequests(t *testing.T) {
	server := createTestServer()

	done := make(chan int, 10)
	for i := 0; i < 10; i++ {
		go func() {
			w := postReport(server, "/api/reports/html", sampleBody)
			done <- w.Code
		}()
	}

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, <-done)
	}
}
