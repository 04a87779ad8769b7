package models

import (
	"github.com/portfolio-report/internal/types"
	"github.com/shopspring/decimal"
)

// AllocationRecord represents one position held inside an external protocol
// (pool, lending market, stake, farm, exchange or wallet).
// SecondaryAsset is set only for dual-token positions.
type AllocationRecord struct {
	PrimaryAsset      string           `json:"primaryAsset"`
	PrimaryQuantity   decimal.Decimal  `json:"primaryQuantity"`
	SecondaryAsset    string           `json:"secondaryAsset,omitempty"`
	SecondaryQuantity *decimal.Decimal `json:"secondaryQuantity,omitempty"`
	ProtocolName      string           `json:"protocolName"`
	RawCategory       string           `json:"rawCategory"`
	WalletAddress     string           `json:"walletAddress"`
	ProtocolURL       string           `json:"protocolUrl,omitempty"`
}

// IsDualToken reports whether the record holds two assets at once
func (a AllocationRecord) IsDualToken() bool {
	return a.SecondaryAsset != ""
}

// SecondaryAmount returns the secondary quantity, zero when unset
func (a AllocationRecord) SecondaryAmount() decimal.Decimal {
	if a.SecondaryQuantity == nil {
		return decimal.Zero
	}
	return *a.SecondaryQuantity
}

// ProtocolGroup holds the allocation records of one protocol.
// RawCategory is the first member's raw category string.
type ProtocolGroup struct {
	ProtocolName string             `json:"protocolName"`
	Category     types.Category     `json:"category"`
	RawCategory  string             `json:"rawCategory"`
	Members      []AllocationRecord `json:"members"`
}

// CategorySection is an ordered run of protocol groups sharing a canonical category.
// Other sections are split per raw category string.
type CategorySection struct {
	Category    types.Category  `json:"category"`
	RawCategory string          `json:"rawCategory"`
	Groups      []ProtocolGroup `json:"groups"`
}
