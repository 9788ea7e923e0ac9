// Package classifier composes the classification strategies: the
// deterministic rule engine, always available, and an optional
// model-backed fallback wrapping an external text-classification call.
package classifier

import (
	"context"

	"fjacquet/treasury-docs/internal/models"
)

// Strategy is a method for classifying transactions. Each strategy
// implements one approach (rule matching, external model).
type Strategy interface {
	// Classify attempts to classify a transaction using this strategy.
	// A strategy that cannot produce a category returns the
	// unclassified result; an error means the strategy itself failed
	// (only the model strategy can).
	Classify(ctx context.Context, tx models.Transaction, resolved models.ResolvedAccount) (models.ClassificationResult, error)

	// Name returns the strategy name for logging and debugging.
	Name() string
}
