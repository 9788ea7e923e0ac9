package classifier

import (
	"context"

	"fjacquet/treasury-docs/internal/logging"
	"fjacquet/treasury-docs/internal/models"
)

// FallbackClassifier composes the rule strategy with an optional model
// strategy. The model runs only when rules leave a transaction
// unclassified; a model failure keeps the unclassified result and is
// logged distinctly from a genuine no-rule-matched case so operators
// can tell engine gaps from service outages.
type FallbackClassifier struct {
	primary  Strategy
	fallback Strategy // nil when the model feature is disabled
	logger   logging.Logger
}

// NewFallbackClassifier builds the composed classifier. Pass a nil
// fallback to run rules only.
func NewFallbackClassifier(primary, fallback Strategy, logger logging.Logger) *FallbackClassifier {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &FallbackClassifier{primary: primary, fallback: fallback, logger: logger}
}

// Name returns the name of the composed classifier.
func (c *FallbackClassifier) Name() string {
	return "Fallback"
}

// Classify never fails the batch: any strategy error degrades to the
// unclassified result.
func (c *FallbackClassifier) Classify(ctx context.Context, tx models.Transaction, resolved models.ResolvedAccount) (models.ClassificationResult, error) {
	result, err := c.primary.Classify(ctx, tx, resolved)
	if err != nil {
		// The rule strategy does not error; guard anyway.
		c.logger.WithError(err).Warn("Primary classification strategy failed",
			logging.Field{Key: "strategy", Value: c.primary.Name()},
			logging.Field{Key: "transaction_id", Value: tx.ID})
		result = models.Unclassified()
	}
	if result.IsClassified() || c.fallback == nil {
		return result, nil
	}

	modelResult, err := c.fallback.Classify(ctx, tx, resolved)
	if err != nil {
		c.logger.WithError(err).Warn("Model fallback unavailable, keeping unclassified result",
			logging.Field{Key: "strategy", Value: c.fallback.Name()},
			logging.Field{Key: "transaction_id", Value: tx.ID},
			logging.Field{Key: "reason", Value: "model_unavailable"})
		return result, nil
	}
	if !modelResult.IsClassified() {
		return result, nil
	}

	c.logger.Debug("Transaction classified by model fallback",
		logging.Field{Key: "transaction_id", Value: tx.ID},
		logging.Field{Key: "category", Value: string(modelResult.Category)})
	return modelResult, nil
}
