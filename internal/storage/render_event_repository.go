package storage

import (
	"context"
	"fmt"

	"github.com/portfolio-report/internal/models"
)

// RenderEventRepository writes render analytics to ClickHouse
type RenderEventRepository struct {
	db *ClickHouseDB
}

// NewRenderEventRepository creates a new render event repository
func NewRenderEventRepository(db *ClickHouseDB) *RenderEventRepository {
	return &RenderEventRepository{db: db}
}

// Insert appends events in a single batch
func (r *RenderEventRepository) Insert(ctx context.Context, events ...*models.RenderEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := r.db.Conn().PrepareBatch(ctx, `
		INSERT INTO render_events (
			report_id, target, language, currency, page_count, byte_size,
			holding_count, allocation_count, duration_ms, cached, rendered_at
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, e := range events {
		err := batch.Append(
			e.ReportID,
			string(e.Target),
			string(e.Language),
			string(e.Currency),
			uint32(e.PageCount),       // #nosec G115 - page counts are small
			uint64(e.ByteSize),        // #nosec G115 - sizes are non-negative
			uint32(e.HoldingCount),    // #nosec G115 - counts are non-negative
			uint32(e.AllocationCount), // #nosec G115 - counts are non-negative
			uint32(e.Duration.Milliseconds()),
			e.Cached,
			e.RenderedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to append render event: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}

// CountByTarget returns the number of render events per target since the table was created
func (r *RenderEventRepository) CountByTarget(ctx context.Context) (map[string]uint64, error) {
	rows, err := r.db.Conn().Query(ctx, `
		SELECT target, count() AS renders
		FROM render_events
		GROUP BY target
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count render events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]uint64)
	for rows.Next() {
		var target string
		var renders uint64
		if err := rows.Scan(&target, &renders); err != nil {
			return nil, fmt.Errorf("failed to scan render count: %w", err)
		}
		counts[target] = renders
	}
	return counts, rows.Err()
}
