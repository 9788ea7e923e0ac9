// Package models provides the data structures used throughout the application.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SegmentKind identifies one positional component of a COA account key.
type SegmentKind string

// The six account segments, in key order.
const (
	SegmentEntity      SegmentKind = "entity"
	SegmentCostCenter  SegmentKind = "cost_center"
	SegmentGLAccount   SegmentKind = "gl_account"
	SegmentBudgetGroup SegmentKind = "budget_group"
	SegmentFuture1     SegmentKind = "future1"
	SegmentFuture2     SegmentKind = "future2"
)

// SegmentCount is the number of segments in a complete account key.
const SegmentCount = 6

// SegmentOrder returns the segment kinds in account key position order.
func SegmentOrder() [SegmentCount]SegmentKind {
	return [SegmentCount]SegmentKind{
		SegmentEntity,
		SegmentCostCenter,
		SegmentGLAccount,
		SegmentBudgetGroup,
		SegmentFuture1,
		SegmentFuture2,
	}
}

// SegmentWidth returns the zero-padded code width for a segment kind.
// Codes are normalized to these widths at both load and lookup time.
func SegmentWidth(kind SegmentKind) int {
	switch kind {
	case SegmentEntity:
		return 3
	case SegmentCostCenter:
		return 7
	case SegmentGLAccount:
		return 6
	case SegmentBudgetGroup:
		return 1
	case SegmentFuture1, SegmentFuture2:
		return 6
	default:
		return 0
	}
}

// CodeEntry is a single row of COA reference data: a normalized code
// and its description, unique per (segment kind, code).
type CodeEntry struct {
	Kind        SegmentKind
	Code        string
	Description string
}

// AccountKey is the ordered sequence of raw segment codes identifying
// an account. A well-formed key has exactly SegmentCount elements;
// elements are raw strings before normalization.
type AccountKey []string

// String joins the raw segments with dots, matching the input notation.
func (k AccountKey) String() string {
	return strings.Join(k, ".")
}

// ResolvedSegment is one account segment after catalog lookup. Known is
// false when the code was not found in the reference data; Description
// then falls back to the normalized code itself.
type ResolvedSegment struct {
	Kind        SegmentKind
	Code        string // normalized
	Description string
	Known       bool
}

// ResolvedAccount is an AccountKey with every segment looked up against
// the Reference Catalog. Partial resolution is a valid state, not an
// error; unknown segments are flagged, never dropped.
type ResolvedAccount struct {
	Key      AccountKey
	Segments [SegmentCount]ResolvedSegment
}

// IsFullyResolved reports whether every segment matched a catalog entry.
func (ra ResolvedAccount) IsFullyResolved() bool {
	for _, seg := range ra.Segments {
		if !seg.Known {
			return false
		}
	}
	return true
}

// UnknownSegments returns the kinds of segments that did not resolve.
func (ra ResolvedAccount) UnknownSegments() []SegmentKind {
	var unknown []SegmentKind
	for _, seg := range ra.Segments {
		if !seg.Known {
			unknown = append(unknown, seg.Kind)
		}
	}
	return unknown
}

// Segment returns the resolved segment of the given kind.
func (ra ResolvedAccount) Segment(kind SegmentKind) ResolvedSegment {
	for _, seg := range ra.Segments {
		if seg.Kind == kind {
			return seg
		}
	}
	return ResolvedSegment{Kind: kind}
}

// GLCode returns the normalized GL account code, the segment the rule
// engine matches glob patterns against.
func (ra ResolvedAccount) GLCode() string {
	return ra.Segment(SegmentGLAccount).Code
}

// Transaction is one parsed input record. The pipeline treats it as
// read-only: positive amounts are debits, negative amounts credits.
type Transaction struct {
	ID              string
	Key             AccountKey
	Amount          decimal.Decimal
	Description     string
	CounterpartyRef string
}

// IsDebit reports the direction of the transaction under the signed
// amount convention.
func (t Transaction) IsDebit() bool {
	return !t.Amount.IsNegative()
}
