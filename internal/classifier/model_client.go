package classifier

import (
	"context"

	"github.com/shopspring/decimal"
)

// ModelRequest is the boundary contract sent to the external model.
type ModelRequest struct {
	Description    string
	Amount         decimal.Decimal
	AccountSummary string
}

// ModelResponse is what the external model must resolve to. Category
// is validated against the fixed domain by the caller; any other shape
// is a classification failure, not a crash.
type ModelResponse struct {
	Category    string
	Subcategory string
}

// ModelClient is the interface to an external text-classification
// service. This abstraction keeps the core pipeline testable without
// network calls and leaves the provider choice open.
type ModelClient interface {
	Classify(ctx context.Context, req ModelRequest) (ModelResponse, error)
}
