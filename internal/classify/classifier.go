// Package classify maps free-text protocol category labels onto the canonical taxonomy.
package classify

import (
	"strings"

	"github.com/portfolio-report/internal/types"
)

// Rule maps any of a set of lower-case substrings to one canonical category
type Rule struct {
	Category   types.Category
	Substrings []string
}

// DefaultRules is the match order used for every report.
// Order matters: "Pool de Empréstimo" contains both "pool" and "empr" and must land in
// the liquidity pool section.
var DefaultRules = []Rule{
	{Category: types.CategoryLiquidityPool, Substrings: []string{"liqui", "pool"}},
	{Category: types.CategoryLending, Substrings: []string{"lend", "empr"}},
	{Category: types.CategoryStaking, Substrings: []string{"stak"}},
	{Category: types.CategoryYieldFarming, Substrings: []string{"farm"}},
	{Category: types.CategoryExchange, Substrings: []string{"corr", "exch"}},
	{Category: types.CategoryWallet, Substrings: []string{"wall", "cart"}},
}

// Classifier evaluates an ordered rule list top to bottom; the first rule with a
// matching substring wins. A Classifier is immutable and safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// New creates a classifier over a private copy of rules
func New(rules []Rule) *Classifier {
	copied := make([]Rule, len(rules))
	for i, r := range rules {
		copied[i] = Rule{
			Category:   r.Category,
			Substrings: append([]string(nil), r.Substrings...),
		}
	}
	return &Classifier{rules: copied}
}

// Default returns a classifier over DefaultRules
func Default() *Classifier {
	return New(DefaultRules)
}

// Classify returns the canonical category of a raw category label.
// Labels matching no rule are CategoryOther.
func (c *Classifier) Classify(raw string) types.Category {
	lowered := strings.ToLower(raw)
	for _, rule := range c.rules {
		for _, sub := range rule.Substrings {
			if strings.Contains(lowered, sub) {
				return rule.Category
			}
		}
	}
	return types.CategoryOther
}
