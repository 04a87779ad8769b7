package rules

import (
	"strings"
	"testing"

	"github.com/portfolio-report/internal/locale"
	"github.com/portfolio-report/internal/models"
	"github.com/portfolio-report/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dualRecord() models.AllocationRecord {
	q2 := decimal.NewFromInt(1000)
	return models.AllocationRecord{
		PrimaryAsset:      "ETH",
		PrimaryQuantity:   decimal.RequireFromString("1.5"),
		SecondaryAsset:    "USDC",
		SecondaryQuantity: &q2,
	}
}

func TestAllocationAmount(t *testing.T) {
	pt := locale.For(types.LanguagePT)
	en := locale.For(types.LanguageEN)

	tests := []struct {
		name     string
		rec      models.AllocationRecord
		category types.Category
		labels   *locale.Labels
		want     string
	}{
		{"lending pt", dualRecord(), types.CategoryLending, pt, "Fornecido: 1.5 ETH   /   Tomado: 1000 USDC"},
		{"lending en", dualRecord(), types.CategoryLending, en, "Lend: 1.5 ETH   /   Borrow: 1000 USDC"},
		{"pool", dualRecord(), types.CategoryLiquidityPool, en, "1.5 ETH + 1000 USDC"},
		{"other dual falls back to pool format", dualRecord(), types.CategoryStaking, pt, "1.5 ETH + 1000 USDC"},
		{
			"single token ignores category",
			models.AllocationRecord{PrimaryAsset: "SOL", PrimaryQuantity: decimal.NewFromInt(42)},
			types.CategoryLending, en, "42 SOL",
		},
		{
			"missing secondary quantity renders zero",
			models.AllocationRecord{PrimaryAsset: "ETH", PrimaryQuantity: decimal.NewFromInt(1), SecondaryAsset: "DAI"},
			types.CategoryLiquidityPool, en, "1 ETH + 0 DAI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllocationAmount(tt.rec, tt.category, tt.labels))
		})
	}
}

func TestSectionLabel(t *testing.T) {
	pt := locale.For(types.LanguagePT)

	assert.Equal(t, "Pools de Liquidez", SectionLabel(types.CategoryLiquidityPool, "pool", pt))
	assert.Equal(t, "Bridge Xyz", SectionLabel(types.CategoryOther, "Bridge Xyz", pt))
}

func TestDisplayWallet(t *testing.T) {
	checksummed := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}
	for _, addr := range checksummed {
		assert.Equal(t, addr, DisplayWallet(strings.ToLower(addr)))
		assert.Equal(t, addr, DisplayWallet(" "+addr+" "))
	}

	assert.Equal(t, "vitalik.eth", DisplayWallet("vitalik.eth"))
	assert.Equal(t, "Binance main account", DisplayWallet("Binance main account"))
	assert.Equal(t, "", DisplayWallet(""))
}
