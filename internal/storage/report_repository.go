package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	apperrors "github.com/portfolio-report/internal/errors"
	"github.com/portfolio-report/internal/models"
	"github.com/shopspring/decimal"
)

// ReportRepository archives report metadata in Postgres
type ReportRepository struct {
	db *PostgresDB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *PostgresDB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a report row. CreatedAt is assigned by the database.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (
			id, fingerprint, target, language, currency,
			page_count, byte_size, total_value, holding_count, allocation_count, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9, $10, $11)
		RETURNING created_at
	`

	err := r.db.Pool().QueryRow(ctx, query,
		report.ID,
		report.Fingerprint,
		string(report.Target),
		string(report.Language),
		string(report.Currency),
		report.PageCount,
		report.ByteSize,
		report.TotalValue.String(),
		report.HoldingCount,
		report.AllocationCount,
		report.GeneratedAt,
	).Scan(&report.CreatedAt)
	if err != nil {
		return apperrors.NewDatabaseError("create report", err)
	}
	return nil
}

// GetByID returns the archived report, or a NOT_FOUND error
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	query := `
		SELECT id, fingerprint, target, language, currency,
		       page_count, byte_size, total_value::text, holding_count, allocation_count,
		       generated_at, created_at
		FROM reports
		WHERE id = $1
	`

	var report models.Report
	var totalValue string
	err := r.db.Pool().QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.Fingerprint,
		&report.Target,
		&report.Language,
		&report.Currency,
		&report.PageCount,
		&report.ByteSize,
		&totalValue,
		&report.HoldingCount,
		&report.AllocationCount,
		&report.GeneratedAt,
		&report.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("report", id)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("get report", err)
	}

	report.TotalValue, err = decimal.NewFromString(totalValue)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get report", fmt.Errorf("invalid total_value %q: %w", totalValue, err))
	}
	return &report, nil
}

// ListByFingerprint returns every archived render of the same input, newest first
func (r *ReportRepository) ListByFingerprint(ctx context.Context, fingerprint string) ([]*models.Report, error) {
	query := `
		SELECT id, target, page_count, byte_size, created_at
		FROM reports
		WHERE fingerprint = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool().Query(ctx, query, fingerprint)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list reports", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		report := &models.Report{Fingerprint: fingerprint}
		if err := rows.Scan(&report.ID, &report.Target, &report.PageCount, &report.ByteSize, &report.CreatedAt); err != nil {
			return nil, apperrors.NewDatabaseError("scan report", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("list reports", err)
	}
	return reports, nil
}
