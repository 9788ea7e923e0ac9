// Package rules implements the deterministic classification engine: an
// ordered catalog of declarative rules matched against transactions
// and their resolved accounts.
package rules

import (
	"fmt"
	"path"

	"github.com/shopspring/decimal"

	"fjacquet/treasury-docs/internal/docerror"
	"fjacquet/treasury-docs/internal/models"
)

// AmountRange bounds a rule to transactions whose signed amount falls
// within [Min, Max].
type AmountRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Contains reports whether amount falls within the range, inclusive.
func (r AmountRange) Contains(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(r.Min) && amount.LessThanOrEqual(r.Max)
}

// Rule is one declarative classification rule. Rules are plain data
// loaded from configuration, never executable code; the store converts
// its file format into this shape.
type Rule struct {
	ID          string
	Name        string
	Keywords    []string
	GLPatterns  []string
	AmountRange *AmountRange
	Category    models.Category
	Subcategory string
	Priority    int
	Active      bool
}

// Catalog is an immutable, ordered rule set. Reloading produces a new
// Catalog value; an in-flight batch keeps classifying against the one
// it was started with.
type Catalog struct {
	rules []Rule
}

// NewCatalog validates and freezes an ordered rule list. Declaration
// order is significant: it is the tie-break for equal priorities.
func NewCatalog(ruleList []Rule) (Catalog, error) {
	seen := make(map[string]bool, len(ruleList))
	for _, rule := range ruleList {
		if rule.ID == "" {
			return Catalog{}, &docerror.PolicyError{
				Policy: "rule catalog",
				Reason: fmt.Sprintf("rule '%s' has no rule_id", rule.Name),
			}
		}
		if seen[rule.ID] {
			return Catalog{}, &docerror.PolicyError{
				Policy: "rule catalog",
				Reason: fmt.Sprintf("duplicate rule_id '%s'", rule.ID),
			}
		}
		seen[rule.ID] = true

		if !models.ValidCategory(string(rule.Category)) {
			return Catalog{}, &docerror.PolicyError{
				Policy: "rule catalog",
				Reason: fmt.Sprintf("rule '%s' has unknown category '%s'", rule.ID, rule.Category),
			}
		}
		for _, pattern := range rule.GLPatterns {
			if _, err := path.Match(pattern, "000000"); err != nil {
				return Catalog{}, &docerror.PolicyError{
					Policy: "rule catalog",
					Reason: fmt.Sprintf("rule '%s' has invalid gl pattern '%s'", rule.ID, pattern),
				}
			}
		}
		if rule.AmountRange != nil && rule.AmountRange.Min.GreaterThan(rule.AmountRange.Max) {
			return Catalog{}, &docerror.PolicyError{
				Policy: "rule catalog",
				Reason: fmt.Sprintf("rule '%s' amount range min exceeds max", rule.ID),
			}
		}
	}

	frozen := make([]Rule, len(ruleList))
	copy(frozen, ruleList)
	return Catalog{rules: frozen}, nil
}

// Rules returns a copy of the ordered rule list.
func (c Catalog) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Len returns the number of rules in the catalog.
func (c Catalog) Len() int {
	return len(c.rules)
}
