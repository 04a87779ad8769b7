// Package types provides common type definitions for the portfolio report engine.
package types

import "strings"

// Language represents a supported report language
type Language string

const (
	// LanguagePT represents Brazilian Portuguese
	LanguagePT Language = "pt"
	// LanguageEN represents English
	LanguageEN Language = "en"
)

// Languages lists every supported language in a stable order
var Languages = []Language{LanguagePT, LanguageEN}

// IsValid reports whether the language is one of the supported values
func (l Language) IsValid() bool {
	switch l {
	case LanguagePT, LanguageEN:
		return true
	default:
		return false
	}
}

// ParseLanguage normalizes a caller-supplied language tag.
// Returns false when the tag is outside the closed enumeration.
func ParseLanguage(s string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	return l, l.IsValid()
}

// CurrencyCode represents a supported reporting currency
type CurrencyCode string

const (
	// CurrencyUSD represents the US dollar
	CurrencyUSD CurrencyCode = "USD"
	// CurrencyBRL represents the Brazilian real
	CurrencyBRL CurrencyCode = "BRL"
	// CurrencyEUR represents the euro
	CurrencyEUR CurrencyCode = "EUR"
)

// Currencies lists every supported currency in a stable order
var Currencies = []CurrencyCode{CurrencyUSD, CurrencyBRL, CurrencyEUR}

// IsValid reports whether the currency is one of the supported values
func (c CurrencyCode) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyBRL, CurrencyEUR:
		return true
	default:
		return false
	}
}

// ParseCurrency normalizes a caller-supplied currency code ("usd" and "USD" are equal).
func ParseCurrency(s string) (CurrencyCode, bool) {
	c := CurrencyCode(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.IsValid()
}

// Category represents the canonical protocol category of an allocation
type Category string

const (
	// CategoryLiquidityPool represents liquidity pool positions
	CategoryLiquidityPool Category = "liquidity_pool"
	// CategoryLending represents lending market positions
	CategoryLending Category = "lending"
	// CategoryStaking represents staked positions
	CategoryStaking Category = "staking"
	// CategoryYieldFarming represents yield farms
	CategoryYieldFarming Category = "yield_farming"
	// CategoryExchange represents balances held on exchanges
	CategoryExchange Category = "exchange"
	// CategoryWallet represents plain wallet holdings
	CategoryWallet Category = "wallet"
	// CategoryOther represents anything the classifier could not match
	CategoryOther Category = "other"
)

// RenderTarget represents the output format of a report
type RenderTarget string

const (
	// TargetPDF represents the paginated fixed-layout document
	TargetPDF RenderTarget = "pdf"
	// TargetHTML represents the single-flow markup document
	TargetHTML RenderTarget = "html"
)

// IsValid reports whether the target is supported
func (t RenderTarget) IsValid() bool {
	return t == TargetPDF || t == TargetHTML
}

// ContentType returns the MIME type of documents rendered for the target
func (t RenderTarget) ContentType() string {
	if t == TargetPDF {
		return "application/pdf"
	}
	return "text/html; charset=utf-8"
}

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}
