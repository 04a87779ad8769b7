// Package locale holds the static label tables used by both report renderers.
package locale

import (
	"fmt"

	"github.com/portfolio-report/internal/types"
)

// Labels is the full set of user-facing strings for one language
type Labels struct {
	HTMLLang string

	Title     string
	Generated string
	Summary   string
	Total     string
	Protocols string

	ColumnAsset     string
	ColumnQuantity  string
	ColumnUnitPrice string // formatted with the currency code
	ColumnTotal     string // formatted with the currency code

	Categories map[types.Category]string

	ProtocolLabel string
	AssetLabel    string
	WalletLabel   string
	SiteLabel     string

	Lend   string
	Borrow string

	Footer string
	Page   string

	// Flow document only
	StatTotalValue  string
	StatAssets      string
	StatProtocols   string
	CardType        string
	CardTypeDefault string
	CardTokens      string
	CardWallet      string
	FlowColQuantity string
	FlowColPrice    string
	FlowColTotal    string
}

var portuguese = &Labels{
	HTMLLang:        "pt-BR",
	Title:           "RELATÓRIO DE PORTFÓLIO CRIPTO",
	Generated:       "Gerado em",
	Summary:         "RESUMO DO PORTFÓLIO",
	Total:           "TOTAL:",
	Protocols:       "ATIVOS LOCALIZADOS EM PROTOCOLOS",
	ColumnAsset:     "Criptomoeda",
	ColumnQuantity:  "Quantidade",
	ColumnUnitPrice: "Valor Unitário (%s)",
	ColumnTotal:     "Valor Total (%s)",
	Categories: map[types.Category]string{
		types.CategoryLiquidityPool: "Pools de Liquidez",
		types.CategoryLending:       "Protocolos de Empréstimo",
		types.CategoryStaking:       "Staking",
		types.CategoryYieldFarming:  "Yield Farming",
		types.CategoryExchange:      "Corretoras / Exchanges",
		types.CategoryWallet:        "Carteiras",
	},
	ProtocolLabel:   "Protocolo:",
	AssetLabel:      "Ativo:",
	WalletLabel:     "Carteira:",
	SiteLabel:       "Site:",
	Lend:            "Fornecido",
	Borrow:          "Tomado",
	Footer:          "Cryptfolio Arcade - Gerencie seu portfólio cripto com facilidade!",
	Page:            "Página",
	StatTotalValue:  "Valor Total",
	StatAssets:      "Ativos",
	StatProtocols:   "Protocolos",
	CardType:        "Tipo",
	CardTypeDefault: "Pool de Liquidez",
	CardTokens:      "Tokens Alocados",
	CardWallet:      "Carteira Conectada",
	FlowColQuantity: "Qtd.",
	FlowColPrice:    "Preço (Unit)",
	FlowColTotal:    "Total",
}

var english = &Labels{
	HTMLLang:        "en",
	Title:           "CRYPTO PORTFOLIO REPORT",
	Generated:       "Generated at",
	Summary:         "PORTFOLIO SUMMARY",
	Total:           "TOTAL:",
	Protocols:       "ASSETS IN PROTOCOLS",
	ColumnAsset:     "Cryptocurrency",
	ColumnQuantity:  "Quantity",
	ColumnUnitPrice: "Unit Price (%s)",
	ColumnTotal:     "Total Value (%s)",
	Categories: map[types.Category]string{
		types.CategoryLiquidityPool: "Liquidity Pools",
		types.CategoryLending:       "Lending Protocols",
		types.CategoryStaking:       "Staking",
		types.CategoryYieldFarming:  "Yield Farming",
		types.CategoryExchange:      "Exchanges",
		types.CategoryWallet:        "Wallets",
	},
	ProtocolLabel:   "Protocol:",
	AssetLabel:      "Asset:",
	WalletLabel:     "Wallet:",
	SiteLabel:       "Website:",
	Lend:            "Lend",
	Borrow:          "Borrow",
	Footer:          "Cryptfolio Arcade - Manage your crypto portfolio with ease!",
	Page:            "Page",
	StatTotalValue:  "Total Value",
	StatAssets:      "Assets",
	StatProtocols:   "Protocols",
	CardType:        "Type",
	CardTypeDefault: "Liquidity Pool",
	CardTokens:      "Allocated Tokens",
	CardWallet:      "Connected Wallet",
	FlowColQuantity: "Qty.",
	FlowColPrice:    "Price (Unit)",
	FlowColTotal:    "Total",
}

// For returns the label table of a language. Callers validate the language first;
// anything unsupported falls back to English.
func For(lang types.Language) *Labels {
	if lang == types.LanguagePT {
		return portuguese
	}
	return english
}

// SummaryColumns returns the four summary table headers for a currency
func (l *Labels) SummaryColumns(code types.CurrencyCode) [4]string {
	return [4]string{
		l.ColumnAsset,
		l.ColumnQuantity,
		fmt.Sprintf(l.ColumnUnitPrice, code),
		fmt.Sprintf(l.ColumnTotal, code),
	}
}

// GeneratedLine returns "<Generated>: <stamp>"
func (l *Labels) GeneratedLine(stamp string) string {
	return l.Generated + ": " + stamp
}

// PageOf returns the footer page counter, e.g. "Página 2 / 5"
func (l *Labels) PageOf(page, total int) string {
	return fmt.Sprintf("%s %d / %d", l.Page, page, total)
}
