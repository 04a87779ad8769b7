package classify

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/portfolio-report/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := Default()

	tests := []struct {
		raw  string
		want types.Category
	}{
		{"Liquidity Pool", types.CategoryLiquidityPool},
		{"Pool de Liquidez", types.CategoryLiquidityPool},
		{"Pool de Empréstimo", types.CategoryLiquidityPool},
		{"Lending", types.CategoryLending},
		{"Empréstimo", types.CategoryLending},
		{"LENDING MARKET", types.CategoryLending},
		{"Staking", types.CategoryStaking},
		{"Liquid Staking", types.CategoryLiquidityPool},
		{"Yield Farming", types.CategoryYieldFarming},
		{"Corretora", types.CategoryExchange},
		{"Exchange", types.CategoryExchange},
		{"Carteira", types.CategoryWallet},
		{"Hardware Wallet", types.CategoryWallet},
		{"Bridge", types.CategoryOther},
		{"", types.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.raw))
		})
	}
}

func TestRuleOrderIsObservable(t *testing.T) {
	reversed := make([]Rule, len(DefaultRules))
	for i, r := range DefaultRules {
		reversed[len(DefaultRules)-1-i] = r
	}

	assert.Equal(t, types.CategoryLiquidityPool, Default().Classify("Pool de Empréstimo"))
	assert.Equal(t, types.CategoryLending, New(reversed).Classify("Pool de Empréstimo"))
}

func TestNewCopiesRules(t *testing.T) {
	rules := []Rule{{Category: types.CategoryStaking, Substrings: []string{"stak"}}}
	c := New(rules)

	rules[0].Substrings[0] = "zzz"

	assert.Equal(t, types.CategoryStaking, c.Classify("staking"))
}

// Property: classification is pure and always agrees with the first matching rule
func TestClassifyFirstMatchProperty(t *testing.T) {
	c := Default()
	properties := gopter.NewProperties(nil)

	fragments := gen.OneConstOf("pool", "LEND", "empr", "stak", "Farm", "corr", "exch", "wall", "cart", "liqui", "x", " ", "é")

	properties.Property("classify agrees with first matching rule", prop.ForAll(
		func(parts []string) bool {
			raw := ""
			for _, p := range parts {
				raw += p
			}

			first := c.Classify(raw)
			if first != c.Classify(raw) {
				return false
			}

			expected := types.CategoryOther
			lowered := []rune{}
			for _, r := range raw {
				if r >= 'A' && r <= 'Z' {
					r += 'a' - 'A'
				}
				lowered = append(lowered, r)
			}
		rules:
			for _, rule := range DefaultRules {
				for _, sub := range rule.Substrings {
					if containsRunes(lowered, []rune(sub)) {
						expected = rule.Category
						break rules
					}
				}
			}
			return first == expected
		},
		gen.SliceOf(fragments),
	))

	properties.TestingRun(t)
}

func containsRunes(haystack, needle []rune) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
