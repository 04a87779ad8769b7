// Package rules holds the business rules shared by the fixed-layout and flow renderers.
// Both renderers call these functions so their outputs can never disagree.
package rules

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/portfolio-report/internal/format"
	"github.com/portfolio-report/internal/locale"
	"github.com/portfolio-report/internal/models"
	"github.com/portfolio-report/internal/types"
)

// AllocationAmount renders the asset line of an allocation record.
//
//	single token:  "1.5 ETH"
//	lending pair:  "Lend: 1.5 ETH   /   Borrow: 1000 USDC"
//	any other pair: "1.5 ETH + 1000 USDC"
func AllocationAmount(rec models.AllocationRecord, category types.Category, labels *locale.Labels) string {
	primary := fmt.Sprintf("%s %s", format.Amount(rec.PrimaryQuantity), rec.PrimaryAsset)
	if !rec.IsDualToken() {
		return primary
	}

	secondary := fmt.Sprintf("%s %s", format.Amount(rec.SecondaryAmount()), rec.SecondaryAsset)
	if category == types.CategoryLending {
		return fmt.Sprintf("%s: %s   /   %s: %s", labels.Lend, primary, labels.Borrow, secondary)
	}
	return primary + " + " + secondary
}

// SectionLabel returns the heading of a category section.
// Other has no localized label and shows the raw category string instead.
func SectionLabel(category types.Category, raw string, labels *locale.Labels) string {
	if label, ok := labels.Categories[category]; ok {
		return label
	}
	return raw
}

// DisplayWallet normalizes a wallet address for display. Hex addresses are shown in
// their EIP-55 checksummed form; anything else (ENS names, exchange account labels)
// is shown trimmed but otherwise untouched.
func DisplayWallet(address string) string {
	trimmed := strings.TrimSpace(address)
	if common.IsHexAddress(trimmed) {
		return common.HexToAddress(trimmed).Hex()
	}
	return trimmed
}
