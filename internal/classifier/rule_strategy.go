package classifier

import (
	"context"

	"fjacquet/treasury-docs/internal/models"
	"fjacquet/treasury-docs/internal/rules"
)

// RuleStrategy classifies with the deterministic rule engine. It is
// always available and never errors.
type RuleStrategy struct {
	engine *rules.Engine
}

// NewRuleStrategy creates a RuleStrategy over the given engine.
func NewRuleStrategy(engine *rules.Engine) *RuleStrategy {
	return &RuleStrategy{engine: engine}
}

// Name returns the name of this strategy.
func (s *RuleStrategy) Name() string {
	return "Rule"
}

// Classify delegates to the rule engine. The context is unused; rule
// matching is in-memory and pure.
func (s *RuleStrategy) Classify(_ context.Context, tx models.Transaction, resolved models.ResolvedAccount) (models.ClassificationResult, error) {
	return s.engine.Classify(tx, resolved), nil
}
