// Package service orchestrates report generation: fingerprinting, caching,
// rendering and best-effort archival.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio-report/internal/circuitbreaker"
	apperrors "github.com/portfolio-report/internal/errors"
	"github.com/portfolio-report/internal/logging"
	"github.com/portfolio-report/internal/models"
	"github.com/portfolio-report/internal/report"
	"github.com/portfolio-report/internal/retry"
	"github.com/portfolio-report/internal/storage"
	"github.com/portfolio-report/internal/types"
	"github.com/portfolio-report/internal/valuation"
)

// Repository interfaces for dependency injection

// DocumentCache stores rendered documents by input fingerprint
type DocumentCache interface {
	Get(ctx context.Context, target types.RenderTarget, fingerprint string) (*storage.CachedDocument, error)
	Set(ctx context.Context, fingerprint string, doc *storage.CachedDocument) error
}

// ReportRepository archives report metadata
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
}

// RenderEventRepository records render analytics
type RenderEventRepository interface {
	Insert(ctx context.Context, events ...*models.RenderEvent) error
}

// ReportServiceOptions configures a ReportService. Nil stores are disabled.
type ReportServiceOptions struct {
	Cache       DocumentCache
	Reports     ReportRepository
	Events      RenderEventRepository
	Monitor     *RenderMonitor
	Breakers    *circuitbreaker.Manager
	DefaultLogo []byte
	Location    *time.Location
	Retry       *retry.RetryConfig
	Now         func() time.Time
}

// ReportService generates reports
type ReportService struct {
	engine   *report.Engine
	cache    DocumentCache
	reports  ReportRepository
	events   RenderEventRepository
	monitor  *RenderMonitor
	breakers *circuitbreaker.Manager
	logo     []byte
	loc      *time.Location
	retry    *retry.RetryConfig
	now      func() time.Time
	logger   *logging.Logger

	pending sync.WaitGroup
}

// NewReportService creates a new report service
func NewReportService(engine *report.Engine, opts ReportServiceOptions, logger *logging.Logger) *ReportService {
	s := &ReportService{
		engine:   engine,
		cache:    opts.Cache,
		reports:  opts.Reports,
		events:   opts.Events,
		monitor:  opts.Monitor,
		breakers: opts.Breakers,
		logo:     opts.DefaultLogo,
		loc:      opts.Location,
		retry:    opts.Retry,
		now:      opts.Now,
		logger:   logger,
	}
	if s.monitor == nil {
		s.monitor = NewRenderMonitor()
	}
	if s.breakers == nil {
		s.breakers = circuitbreaker.NewManager()
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.retry == nil {
		s.retry = retry.DefaultRetryConfig()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	return s
}

// GenerateReportInput represents a render request
type GenerateReportInput struct {
	Target types.RenderTarget `json:"target"`
	Report models.ReportInput `json:"report"`
}

// GenerateReportResult is a served document
type GenerateReportResult struct {
	ReportID    string             `json:"reportId"`
	Fingerprint string             `json:"fingerprint"`
	Target      types.RenderTarget `json:"target"`
	Content     []byte             `json:"-"`
	PageCount   int                `json:"pageCount"`
	Cached      bool               `json:"cached"`
}

// ContentType returns the MIME type of the served document
func (r *GenerateReportResult) ContentType() string {
	return r.Target.ContentType()
}

// Generate renders the requested report or serves it from the cache.
// Input violations are returned before any rendering, caching or archival.
func (s *ReportService) Generate(ctx context.Context, input *GenerateReportInput) (*GenerateReportResult, error) {
	start := time.Now()

	if input == nil {
		return nil, apperrors.NewInvalidParameterError("input", "must not be nil")
	}
	if !input.Target.IsValid() {
		return nil, apperrors.NewInvalidParameterError("target", "must be pdf or html")
	}

	in := s.resolve(input.Report)
	if err := report.Validate(&in); err != nil {
		return nil, err
	}

	fingerprint, err := Fingerprint(input.Target, &in)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to fingerprint report input", err)
	}

	logger := s.logger.WithFields(map[string]interface{}{
		"target":      string(input.Target),
		"fingerprint": fingerprint[:12],
	})

	if cached := s.lookup(ctx, input.Target, fingerprint, logger); cached != nil {
		result := &GenerateReportResult{
			ReportID:    cached.ReportID,
			Fingerprint: fingerprint,
			Target:      cached.Target,
			Content:     cached.Content,
			PageCount:   cached.PageCount,
			Cached:      true,
		}
		s.finish(ctx, result, &in, time.Since(start), logger)
		return result, nil
	}

	doc, err := s.engine.Render(input.Target, &in)
	if err != nil {
		s.monitor.RecordFailure()
		return nil, err
	}

	result := &GenerateReportResult{
		ReportID:    uuid.NewString(),
		Fingerprint: fingerprint,
		Target:      doc.Target,
		Content:     doc.Content,
		PageCount:   doc.PageCount,
	}

	if s.cache != nil {
		err := s.cache.Set(ctx, fingerprint, &storage.CachedDocument{
			ReportID:  result.ReportID,
			Target:    result.Target,
			PageCount: result.PageCount,
			Content:   result.Content,
		})
		if err != nil {
			logger.WithError(err).Warn("failed to cache rendered report")
		}
	}

	s.archive(ctx, result, &in, logger)
	s.finish(ctx, result, &in, time.Since(start), logger)
	return result, nil
}

// resolve fills the server-side defaults into a copy of the input
func (s *ReportService) resolve(in models.ReportInput) models.ReportInput {
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = s.now().Truncate(time.Minute)
	}
	in.GeneratedAt = in.GeneratedAt.In(s.loc)
	if len(in.Logo) == 0 && len(s.logo) > 0 {
		in.Logo = s.logo
	}
	return in
}

func (s *ReportService) lookup(ctx context.Context, target types.RenderTarget, fingerprint string, logger *logging.Logger) *storage.CachedDocument {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx, target, fingerprint)
	if err != nil {
		logger.WithError(err).Warn("report cache unavailable, rendering")
		return nil
	}
	return cached
}

func (s *ReportService) archive(ctx context.Context, result *GenerateReportResult, in *models.ReportInput, logger *logging.Logger) {
	if s.reports == nil {
		return
	}
	_, total := valuation.Aggregate(in.Holdings, in.Prices)
	row := &models.Report{
		ID:              result.ReportID,
		Fingerprint:     result.Fingerprint,
		Target:          result.Target,
		Language:        in.Language,
		Currency:        in.Currency,
		PageCount:       result.PageCount,
		ByteSize:        len(result.Content),
		TotalValue:      total,
		HoldingCount:    len(in.Holdings),
		AllocationCount: len(in.Allocations),
		GeneratedAt:     in.GeneratedAt,
	}

	s.background(ctx, logger, "archive", func(ctx context.Context) error {
		return s.reports.Create(ctx, row)
	})
}

func (s *ReportService) finish(ctx context.Context, result *GenerateReportResult, in *models.ReportInput, elapsed time.Duration, logger *logging.Logger) {
	s.monitor.Record(result.Target, elapsed, result.Cached)

	logger.WithFields(map[string]interface{}{
		"report_id":  result.ReportID,
		"pages":      result.PageCount,
		"bytes":      len(result.Content),
		"cached":     result.Cached,
		"elapsed_ms": elapsed.Milliseconds(),
	}).Info("report served")

	if s.events == nil {
		return
	}
	event := &models.RenderEvent{
		ReportID:        result.ReportID,
		Target:          result.Target,
		Language:        in.Language,
		Currency:        in.Currency,
		PageCount:       result.PageCount,
		ByteSize:        len(result.Content),
		HoldingCount:    len(in.Holdings),
		AllocationCount: len(in.Allocations),
		Duration:        elapsed,
		Cached:          result.Cached,
		RenderedAt:      s.now().UTC(),
	}
	s.background(ctx, logger, "events", func(ctx context.Context) error {
		return s.events.Insert(ctx, event)
	})
}

// background runs a best-effort write to store with retry, detached from the
// request's cancellation. Writes are skipped while the store's circuit is open.
func (s *ReportService) background(ctx context.Context, logger *logging.Logger, store string, fn func(ctx context.Context) error) {
	ctx = logging.WithLogger(context.WithoutCancel(ctx), logger)
	breaker := s.breakers.GetOrCreate(store, nil)

	cfg := *s.retry
	cfg.ShouldRetry = func(err error) bool {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			return false
		}
		return s.retry.ShouldRetry == nil || s.retry.ShouldRetry(err)
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		err := retry.WithRetry(ctx, &cfg, func(ctx context.Context, attempt int) error {
			return breaker.Execute(ctx, fn)
		})
		if err != nil {
			logger.WithError(err).WithField("store", store).Error("best-effort write failed")
		}
	}()
}

// Wait blocks until every pending archive and event write has finished
func (s *ReportService) Wait() {
	s.pending.Wait()
}

// GetReport returns archived report metadata
func (s *ReportService) GetReport(ctx context.Context, id string) (*models.Report, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewInvalidParameterError("id", "must be a UUID")
	}
	if s.reports == nil {
		return nil, apperrors.NewNotFoundError("report", id)
	}
	return s.reports.GetByID(ctx, id)
}

// Stats returns render statistics since startup
func (s *ReportService) Stats() *RenderStats {
	stats := s.monitor.Stats()
	stats.Stores = s.breakers.GetAllStats()
	return stats
}

// Fingerprint returns the hex SHA-256 of the canonical JSON of a resolved request
func Fingerprint(target types.RenderTarget, in *models.ReportInput) (string, error) {
	payload, err := json.Marshal(struct {
		Target types.RenderTarget  `json:"target"`
		Input  *models.ReportInput `json:"input"`
	}{target, in})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
