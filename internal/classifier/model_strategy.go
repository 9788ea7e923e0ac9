package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fjacquet/treasury-docs/internal/docerror"
	"fjacquet/treasury-docs/internal/logging"
	"fjacquet/treasury-docs/internal/models"
	"fjacquet/treasury-docs/internal/rules"
)

// ModelStrategy classifies through an external model call. The service
// is treated as untrusted: every call runs under a bounded timeout and
// every failure mode translates to a ModelUnavailableError.
type ModelStrategy struct {
	client  ModelClient
	timeout time.Duration
	logger  logging.Logger
}

// NewModelStrategy creates a ModelStrategy with the given call timeout.
func NewModelStrategy(client ModelClient, timeout time.Duration, logger logging.Logger) *ModelStrategy {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ModelStrategy{client: client, timeout: timeout, logger: logger}
}

// Name returns the name of this strategy.
func (s *ModelStrategy) Name() string {
	return "Model"
}

// Classify sends the transaction to the external model and validates
// the response against the category domain. An out-of-domain category
// is a failure, not a new category.
func (s *ModelStrategy) Classify(ctx context.Context, tx models.Transaction, resolved models.ResolvedAccount) (models.ClassificationResult, error) {
	if s.client == nil {
		return models.Unclassified(), &docerror.ModelUnavailableError{Reason: "no model client configured"}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Classify(callCtx, ModelRequest{
		Description:    tx.Description,
		Amount:         tx.Amount,
		AccountSummary: accountSummary(resolved),
	})
	if err != nil {
		return models.Unclassified(), &docerror.ModelUnavailableError{Reason: "model call failed", Err: err}
	}

	category := strings.TrimSpace(resp.Category)
	if !models.ValidCategory(category) {
		return models.Unclassified(), &docerror.ModelUnavailableError{
			Reason: fmt.Sprintf("model returned out-of-domain category '%s'", category),
		}
	}

	subcategory := strings.TrimSpace(resp.Subcategory)
	if subcategory == "" {
		subcategory = "General"
	}

	return models.ClassificationResult{
		Category:    models.Category(category),
		Subcategory: subcategory,
		Source:      models.SourceModelMatch,
		Risk:        rules.RiskFor(models.Category(category), tx.Amount),
	}, nil
}

// accountSummary renders the resolved segment descriptions for the
// model prompt.
func accountSummary(resolved models.ResolvedAccount) string {
	parts := make([]string, 0, models.SegmentCount)
	for _, seg := range resolved.Segments {
		if seg.Kind == models.SegmentFuture1 || seg.Kind == models.SegmentFuture2 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", seg.Kind, seg.Description))
	}
	return strings.Join(parts, ", ")
}
