package rules

import (
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/treasury-docs/internal/logging"
	"fjacquet/treasury-docs/internal/models"
)

// Engine evaluates the rule catalog against transactions. Classify is
// a pure function of its inputs and the catalog the engine was built
// with, so repeated runs yield identical results.
type Engine struct {
	catalog Catalog
	logger  logging.Logger
}

// NewEngine creates an Engine over an immutable rule catalog.
func NewEngine(catalog Catalog, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Engine{catalog: catalog, logger: logger}
}

// Classify returns the highest-priority matching rule's classification,
// with equal priorities broken by declaration order (first declared
// wins). No match returns the unclassified result; it never errors.
func (e *Engine) Classify(tx models.Transaction, resolved models.ResolvedAccount) models.ClassificationResult {
	in := matchInput{
		description: strings.ToLower(tx.Description),
		glCode:      resolved.GLCode(),
		amount:      tx.Amount,
	}

	var best *Rule
	for i := range e.catalog.rules {
		rule := &e.catalog.rules[i]
		if !rule.Active || !rule.matches(in) {
			continue
		}
		// Strict comparison keeps the first-declared rule on ties.
		if best == nil || rule.Priority > best.Priority {
			best = rule
		}
	}

	if best == nil {
		e.logger.Debug("No classification rule matched",
			logging.Field{Key: "transaction_id", Value: tx.ID},
			logging.Field{Key: "reason", Value: "no_rule_matched"})
		return models.Unclassified()
	}

	e.logger.Debug("Transaction classified by rule",
		logging.Field{Key: "transaction_id", Value: tx.ID},
		logging.Field{Key: "rule_id", Value: best.ID},
		logging.Field{Key: "category", Value: string(best.Category)})

	return models.ClassificationResult{
		Category:    best.Category,
		Subcategory: best.Subcategory,
		Source:      models.SourceRuleMatch,
		RuleID:      best.ID,
		Risk:        RiskFor(best.Category, tx.Amount),
	}
}

// Category base risk, adjusted upward by amount below.
var categoryRisk = map[models.Category]models.RiskLevel{
	models.CategoryOperating:          models.RiskLow,
	models.CategoryAdministrative:     models.RiskLow,
	models.CategoryInterest:           models.RiskLow,
	models.CategoryCapital:            models.RiskMedium,
	models.CategoryVendor:             models.RiskMedium,
	models.CategoryPrincipalRepayment: models.RiskMedium,
	models.CategoryPersonnel:          models.RiskHigh,
}

var (
	riskHighThreshold   = decimal.NewFromInt(100000)
	riskMediumThreshold = decimal.NewFromInt(50000)
)

// RiskFor derives a review risk level from category and absolute
// amount. High-value transactions escalate the category's base risk.
func RiskFor(category models.Category, amount decimal.Decimal) models.RiskLevel {
	base, ok := categoryRisk[category]
	if !ok {
		base = models.RiskMedium
	}

	abs := amount.Abs()
	switch {
	case abs.GreaterThanOrEqual(riskHighThreshold):
		return models.RiskHigh
	case abs.GreaterThanOrEqual(riskMediumThreshold):
		if base == models.RiskLow {
			return models.RiskMedium
		}
		return models.RiskHigh
	default:
		return base
	}
}
