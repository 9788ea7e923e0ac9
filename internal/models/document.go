package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind selects the output document type.
type DocumentKind string

const (
	DocumentTreasuryReceipt DocumentKind = "treasury_receipt"
	DocumentPaymentVoucher  DocumentKind = "payment_voucher"
)

// Group is a partition of classified transactions sharing a COA
// segment prefix. Members are appended during grouping and the group
// is never mutated afterwards.
type Group struct {
	Segments       []string // normalized segment prefix, first-seen order preserved
	TransactionIDs []string
	Total          decimal.Decimal
}

// Key returns the dotted group key.
func (g Group) Key() string {
	return strings.Join(g.Segments, ".")
}

// IsBalanced reports whether the signed member amounts net to zero.
// A nonzero total where zero is expected is reportable, not fatal.
func (g Group) IsBalanced() bool {
	return g.Total.IsZero()
}

// Review flags carried on output documents.
const (
	FlagUnresolvedSegment = "unresolved account segment"
	FlagUnclassified      = "unclassified - manual review"
	FlagValidationFailed  = "validation failed"
	FlagUnbalancedGroup   = "group total does not net to zero"
)

// LineItem is one transaction's contribution to an output document.
type LineItem struct {
	TransactionID string
	Amount        decimal.Decimal
	Description   string
	Category      Category
	Subcategory   string
}

// AccountDescriptions carries the human-readable segment descriptions
// for a document's account prefix.
type AccountDescriptions struct {
	Entity      string
	CostCenter  string
	GLAccount   string
	BudgetGroup string
}

// OutputDocument is the terminal artifact of the pipeline, handed to
// an external formatter. Immutable once assembled.
type OutputDocument struct {
	Number         string
	Kind           DocumentKind
	GroupKey       string
	Account        AccountDescriptions
	Classification ClassificationResult
	Approval       ApprovalChain
	Valid          bool
	Violations     []Violation
	Flags          []string
	Lines          []LineItem
	Total          decimal.Decimal
	GeneratedAt    time.Time
}

// AmountWithDirection renders the net total under the presentation
// convention: non-negative totals are debits, negative totals credits
// shown as their absolute value.
func (d OutputDocument) AmountWithDirection() (decimal.Decimal, string) {
	if d.Total.IsNegative() {
		return d.Total.Abs(), "Credit"
	}
	return d.Total, "Debit"
}
