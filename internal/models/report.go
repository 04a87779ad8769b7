package models

import (
	"time"

	"github.com/portfolio-report/internal/types"
	"github.com/shopspring/decimal"
)

// ReportInput is the caller-supplied snapshot a single render works from.
// Logo holds raw PNG or JPEG bytes (base64 in JSON) and may be empty.
type ReportInput struct {
	Holdings    []HoldingRecord    `json:"holdings"`
	Prices      PriceLookup        `json:"prices"`
	Allocations []AllocationRecord `json:"allocations"`
	Language    types.Language     `json:"language"`
	Currency    types.CurrencyCode `json:"currency"`
	Logo        []byte             `json:"logo,omitempty"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// Report is the archived metadata of a generated document
type Report struct {
	ID              string             `json:"id" db:"id"`
	Fingerprint     string             `json:"fingerprint" db:"fingerprint"`
	Target          types.RenderTarget `json:"target" db:"target"`
	Language        types.Language     `json:"language" db:"language"`
	Currency        types.CurrencyCode `json:"currency" db:"currency"`
	PageCount       int                `json:"pageCount" db:"page_count"`
	ByteSize        int                `json:"byteSize" db:"byte_size"`
	TotalValue      decimal.Decimal    `json:"totalValue" db:"total_value"`
	HoldingCount    int                `json:"holdingCount" db:"holding_count"`
	AllocationCount int                `json:"allocationCount" db:"allocation_count"`
	GeneratedAt     time.Time          `json:"generatedAt" db:"generated_at"`
	CreatedAt       time.Time          `json:"createdAt" db:"created_at"`
}

// RenderEvent is one row of render analytics
type RenderEvent struct {
	ReportID        string
	Target          types.RenderTarget
	Language        types.Language
	Currency        types.CurrencyCode
	PageCount       int
	ByteSize        int
	HoldingCount    int
	AllocationCount int
	Duration        time.Duration
	Cached          bool
	RenderedAt      time.Time
}
