package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/portfolio-report/internal/logging"
	"github.com/portfolio-report/internal/models"
	"github.com/portfolio-report/internal/report"
	"github.com/portfolio-report/internal/service"
	"github.com/stretchr/testify/assert"
)

// Mock service for testing
type mockReportService struct {
	generateFunc  func(ctx context.Context, input *service.GenerateReportInput) (*service.GenerateReportResult, error)
	getReportFunc func(ctx context.Context, id string) (*models.Report, error)
}

func (m *mockReportService) Generate(ctx context.Context, input *service.GenerateReportInput) (*service.GenerateReportResult, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, input)
	}
	return &service.GenerateReportResult{
		ReportID:  "5b2f8f7e-8d1c-4a57-b6c1-0f6f3b7f9a10",
		Target:    input.Target,
		Content:   []byte("document"),
		PageCount: 2,
	}, nil
}

func (m *mockReportService) GetReport(ctx context.Context, id string) (*models.Report, error) {
	if m.getReportFunc != nil {
		return m.getReportFunc(ctx, id)
	}
	return &models.Report{ID: id, PageCount: 2}, nil
}

func (m *mockReportService) Stats() *service.RenderStats {
	return &service.RenderStats{TotalServed: 7, ByTarget: map[string]int64{"pdf": 7}}
}

func testConfig() *ServerConfig {
	return &ServerConfig{
		Host:              "localhost",
		Port:              "0",
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             1000,
		MaxBodyBytes:      1 << 20,
	}
}

// createTestServer creates a server backed by a mock service
func createTestServer() *Server {
	return NewServer(testConfig(), &mockReportService{}, logging.Discard())
}

// createEngineServer creates a server backed by the real engine without stores
func createEngineServer() *Server {
	svc := service.NewReportService(report.NewEngine(logging.Discard()), service.ReportServiceOptions{}, logging.Discard())
	return NewServer(testConfig(), svc, logging.Discard())
}

func TestHealth(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"portfolio-report"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest("OPTIONS", "/api/reports/pdf", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Page-Count")
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), ErrCodeInternalError)
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := testConfig()
	cfg.RequestsPerSecond = 0.001
	cfg.Burst = 2
	server := NewServer(cfg, &mockReportService{}, logging.Discard())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/api/stats", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Other clients and the health check are unaffected
	req := httptest.NewRequest("GET", "/api/stats", nil)
	req.RemoteAddr = "198.51.100.1:4444"
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/health", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", clientID(req))

	req.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", clientID(req))
}
