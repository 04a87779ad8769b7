package htmlrender

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/portfolio-report/internal/classify"
	"github.com/portfolio-report/internal/logging"
	"github.com/portfolio-report/internal/models"
	"github.com/portfolio-report/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer() *Renderer {
	return NewRenderer(classify.Default(), logging.Discard())
}

func sampleInput(lang types.Language) *models.ReportInput {
	usdc := decimal.NewFromInt(1000)
	return &models.ReportInput{
		Holdings: []models.HoldingRecord{
			{AssetKey: "solana", Quantity: decimal.NewFromInt(10), DisplayName: "Solana"},
			{AssetKey: "bitcoin", Quantity: decimal.RequireFromString("0.5"), DisplayName: "Bitcoin"},
		},
		Prices: models.PriceLookup{
			"solana":  {UnitPrice: decimal.NewFromInt(150)},
			"bitcoin": {UnitPrice: decimal.NewFromInt(60000)},
		},
		Allocations: []models.AllocationRecord{
			{
				PrimaryAsset: "ETH", PrimaryQuantity: decimal.RequireFromString("1.5"),
				SecondaryAsset: "USDC", SecondaryQuantity: &usdc,
				ProtocolName: "Aave", RawCategory: "Empréstimo",
				WalletAddress: "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359",
			},
			{
				PrimaryAsset: "ETH", PrimaryQuantity: decimal.NewFromInt(2),
				SecondaryAsset: "DAI", SecondaryQuantity: &usdc,
				ProtocolName: "Aave", RawCategory: "Pool de Liquidez",
			},
			{
				PrimaryAsset: "SOL", PrimaryQuantity: decimal.NewFromInt(42),
				ProtocolName: "Marinade", RawCategory: "Staking",
			},
		},
		Language:    lang,
		Currency:    types.CurrencyBRL,
		GeneratedAt: time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC),
	}
}

func TestRenderStructure(t *testing.T) {
	out, err := newTestRenderer().Render(sampleInput(types.LanguagePT))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `<html lang="pt-BR">`)
	assert.Contains(t, out, "Gerado em: 05/03/2024 14:07")
	assert.Contains(t, out, "R$ 31.500,00")
	assert.Contains(t, out, `<div class="stat-value">2</div>`)
	assert.Equal(t, 2, strings.Count(out, `class="protocol-card"`))
	assert.Contains(t, out, "AAVE")
	assert.Contains(t, out, "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "<img")
}

func TestSummaryKeepsInputOrder(t *testing.T) {
	out, err := newTestRenderer().Render(sampleInput(types.LanguageEN))
	require.NoError(t, err)

	solana := strings.Index(out, "<td>Solana</td>")
	bitcoin := strings.Index(out, "<td>Bitcoin</td>")
	require.NotEqual(t, -1, solana)
	require.NotEqual(t, -1, bitcoin)
	assert.Less(t, solana, bitcoin, "flow summary is not sorted")
	assert.Contains(t, out, "<td>R$150.00</td>")
}

func TestCardUsesFirstRawCategoryAndPerMemberRule(t *testing.T) {
	out, err := newTestRenderer().Render(sampleInput(types.LanguageEN))
	require.NoError(t, err)

	assert.Contains(t, out, `<div class="info-value">Empréstimo</div>`)
	assert.Contains(t, out, "Lend: 1.5 ETH   /   Borrow: 1000 USDC")
	assert.Contains(t, out, "2 ETH &#43; 1000 DAI")
	assert.Contains(t, out, "42 SOL")
	assert.Contains(t, out, `<div class="wallet-address">0x...</div>`)
}

func TestCardFallbacksForEmptyFields(t *testing.T) {
	tests := []struct {
		lang types.Language
		want string
	}{
		{types.LanguagePT, "Pool de Liquidez"},
		{types.LanguageEN, "Liquidity Pool"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			in := sampleInput(tt.lang)
			in.Allocations = []models.AllocationRecord{
				{PrimaryAsset: "ETH", PrimaryQuantity: decimal.NewFromInt(1), ProtocolName: "Curve"},
			}

			out, err := newTestRenderer().Render(in)
			require.NoError(t, err)

			assert.Contains(t, out, `<div class="info-value">`+tt.want+`</div>`)
			assert.Contains(t, out, `<div class="wallet-address">0x...</div>`)
		})
	}
}

func TestDynamicTextIsEscaped(t *testing.T) {
	in := sampleInput(types.LanguageEN)
	in.Allocations[2].ProtocolName = `<script>alert("x")</script>`
	in.Holdings[0].DisplayName = `<img src=x onerror=alert(1)>`

	out, err := newTestRenderer().Render(in)
	require.NoError(t, err)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "<img src=x")
	assert.Contains(t, out, "&lt;SCRIPT&gt;")
}

func TestLogoEmbeddedAsDataURI(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 1))))

	in := sampleInput(types.LanguageEN)
	in.Logo = buf.Bytes()
	out, err := newTestRenderer().Render(in)
	require.NoError(t, err)
	assert.Contains(t, out, `<img src="data:image/png;base64,`)

	in.Logo = []byte("garbage")
	out, err = newTestRenderer().Render(in)
	require.NoError(t, err)
	assert.NotContains(t, out, "<img")
}

func TestRenderIsIdempotent(t *testing.T) {
	r := newTestRenderer()
	in := sampleInput(types.LanguagePT)

	first, err := r.Render(in)
	require.NoError(t, err)
	second, err := r.Render(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEmptyReportHasNoProtocolSection(t *testing.T) {
	in := sampleInput(types.LanguageEN)
	in.Holdings = nil
	in.Allocations = nil

	out, err := newTestRenderer().Render(in)
	require.NoError(t, err)

	assert.NotContains(t, out, "protocol-card")
	assert.NotContains(t, out, "ASSETS IN PROTOCOLS")
	assert.Contains(t, out, "R$0.00")
}
