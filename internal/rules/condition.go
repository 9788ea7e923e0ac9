package rules

import (
	"path"
	"strings"

	"github.com/shopspring/decimal"
)

// ConditionKind tags a MatchCondition variant.
type ConditionKind string

const (
	CondKeywordSet  ConditionKind = "keyword_set"
	CondGlobPattern ConditionKind = "glob_pattern"
	CondAmountRange ConditionKind = "amount_range"
)

// MatchCondition is a tagged variant over the three condition kinds a
// rule can declare. Exactly one payload field is meaningful per Kind.
type MatchCondition struct {
	Kind     ConditionKind
	Keywords []string
	Patterns []string
	Range    AmountRange
}

// matchInput is what a condition is evaluated against.
type matchInput struct {
	description string // lower-cased transaction description
	glCode      string // normalized GL segment code
	amount      decimal.Decimal
}

// evaluate is the single dispatcher over condition kinds.
func (c MatchCondition) evaluate(in matchInput) bool {
	switch c.Kind {
	case CondKeywordSet:
		for _, keyword := range c.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(in.description, strings.ToLower(keyword)) {
				return true
			}
		}
		return false
	case CondGlobPattern:
		for _, pattern := range c.Patterns {
			// Pattern validity is checked at catalog construction.
			if ok, _ := path.Match(pattern, in.glCode); ok {
				return true
			}
		}
		return false
	case CondAmountRange:
		return c.Range.Contains(in.amount)
	default:
		return false
	}
}

// conditions expands a rule's declarative fields into its condition
// variants: keyword and glob conditions are selectors (at least one
// must hit), the amount range is a constraint (must hold when set).
func (r Rule) conditions() (selectors, constraints []MatchCondition) {
	if len(r.Keywords) > 0 {
		selectors = append(selectors, MatchCondition{Kind: CondKeywordSet, Keywords: r.Keywords})
	}
	if len(r.GLPatterns) > 0 {
		selectors = append(selectors, MatchCondition{Kind: CondGlobPattern, Patterns: r.GLPatterns})
	}
	if r.AmountRange != nil {
		constraints = append(constraints, MatchCondition{Kind: CondAmountRange, Range: *r.AmountRange})
	}
	return selectors, constraints
}

// matches reports whether the rule applies to the input: at least one
// selector condition hits AND every constraint holds. A rule with no
// selectors matches nothing.
func (r Rule) matches(in matchInput) bool {
	selectors, constraints := r.conditions()
	if len(selectors) == 0 {
		return false
	}

	hit := false
	for _, sel := range selectors {
		if sel.evaluate(in) {
			hit = true
			break
		}
	}
	if !hit {
		return false
	}

	for _, con := range constraints {
		if !con.evaluate(in) {
			return false
		}
	}
	return true
}
