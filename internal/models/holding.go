package models

import (
	"github.com/shopspring/decimal"
)

// HoldingRecord represents one owned asset position
type HoldingRecord struct {
	AssetKey    string          `json:"assetKey"`
	Quantity    decimal.Decimal `json:"quantity"`
	DisplayName string          `json:"displayName,omitempty"`
}

// Label returns the display name when present, otherwise the asset key
func (h HoldingRecord) Label() string {
	if h.DisplayName != "" {
		return h.DisplayName
	}
	return h.AssetKey
}

// PriceQuote is the current unit price of an asset in the reporting currency
type PriceQuote struct {
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// PriceLookup maps asset keys to price quotes.
// A missing key is valid and resolves to a zero price.
type PriceLookup map[string]PriceQuote

// Lookup returns the unit price for an asset key, or zero when absent
func (p PriceLookup) Lookup(assetKey string) decimal.Decimal {
	if q, ok := p[assetKey]; ok {
		return q.UnitPrice
	}
	return decimal.Zero
}

// ValuedLine is a holding joined with its price
type ValuedLine struct {
	Label      string          `json:"label"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalValue decimal.Decimal `json:"totalValue"`
}
