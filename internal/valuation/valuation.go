// Package valuation joins holdings with prices and groups protocol allocations.
package valuation

import (
	"sort"

	"github.com/portfolio-report/internal/classify"
	"github.com/portfolio-report/internal/models"
	"github.com/portfolio-report/internal/types"
	"github.com/shopspring/decimal"
)

// UnknownProtocol names the group of allocation records without a protocol name
const UnknownProtocol = "Unknown"

// Aggregate values every holding at its looked-up price, keeping input order.
// A holding without a quote is valued at zero.
func Aggregate(holdings []models.HoldingRecord, prices models.PriceLookup) ([]models.ValuedLine, decimal.Decimal) {
	lines := make([]models.ValuedLine, 0, len(holdings))
	total := decimal.Zero

	for _, h := range holdings {
		price := prices.Lookup(h.AssetKey)
		value := h.Quantity.Mul(price)
		lines = append(lines, models.ValuedLine{
			Label:      h.Label(),
			Quantity:   h.Quantity,
			UnitPrice:  price,
			TotalValue: value,
		})
		total = total.Add(value)
	}

	return lines, total
}

// SortByValueDesc returns a copy of lines ordered by descending total value.
// Equal values keep their input order.
func SortByValueDesc(lines []models.ValuedLine) []models.ValuedLine {
	sorted := make([]models.ValuedLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalValue.GreaterThan(sorted[j].TotalValue)
	})
	return sorted
}

// GroupAllocations groups records by canonical category in first-seen order, then by
// protocol name in first-seen order within each category. Members keep source order.
// Records classified as Other are sectioned by their raw category string, so each
// unmatched label keeps its own heading.
func GroupAllocations(records []models.AllocationRecord, classifier *classify.Classifier) []models.CategorySection {
	var sections []models.CategorySection
	sectionIdx := make(map[string]int)
	groupIdx := make(map[string]map[string]int)

	for _, rec := range records {
		category := classifier.Classify(rec.RawCategory)
		key := sectionKey(category, rec.RawCategory)

		si, ok := sectionIdx[key]
		if !ok {
			si = len(sections)
			sectionIdx[key] = si
			groupIdx[key] = make(map[string]int)
			sections = append(sections, models.CategorySection{
				Category:    category,
				RawCategory: rec.RawCategory,
			})
		}

		name := protocolKey(rec)
		section := &sections[si]
		gi, ok := groupIdx[key][name]
		if !ok {
			gi = len(section.Groups)
			groupIdx[key][name] = gi
			section.Groups = append(section.Groups, models.ProtocolGroup{
				ProtocolName: name,
				Category:     category,
				RawCategory:  rec.RawCategory,
			})
		}
		section.Groups[gi].Members = append(section.Groups[gi].Members, rec)
	}

	return sections
}

func sectionKey(category types.Category, raw string) string {
	if category == types.CategoryOther {
		return string(category) + ":" + raw
	}
	return string(category)
}

// GroupByProtocol groups records by protocol name only, in first-seen order.
// The group's category fields come from its first member.
func GroupByProtocol(records []models.AllocationRecord, classifier *classify.Classifier) []models.ProtocolGroup {
	var groups []models.ProtocolGroup
	idx := make(map[string]int)

	for _, rec := range records {
		name := protocolKey(rec)
		gi, ok := idx[name]
		if !ok {
			gi = len(groups)
			idx[name] = gi
			groups = append(groups, models.ProtocolGroup{
				ProtocolName: name,
				Category:     classifier.Classify(rec.RawCategory),
				RawCategory:  rec.RawCategory,
			})
		}
		groups[gi].Members = append(groups[gi].Members, rec)
	}

	return groups
}

func protocolKey(rec models.AllocationRecord) string {
	if rec.ProtocolName == "" {
		return UnknownProtocol
	}
	return rec.ProtocolName
}
