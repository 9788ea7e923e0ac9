// Package grouper partitions resolved transactions into document
// groups by a configurable COA segment prefix.
package grouper

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/treasury-docs/internal/docerror"
	"fjacquet/treasury-docs/internal/models"
)

// DefaultKeyWidth groups on the first four segments (entity, cost
// center, GL account, budget group). Full six-segment grouping is a
// known limitation of the current key; the width is configurable
// rather than hard-coded so budget-group splits can be revisited.
const DefaultKeyWidth = 4

// Member pairs a transaction with its resolved account, the grouping
// input produced by the per-transaction pipeline stage.
type Member struct {
	Transaction models.Transaction
	Resolved    models.ResolvedAccount
}

// Grouper builds groups keyed on the first keyWidth normalized
// segments, preserving first-seen order of distinct keys.
type Grouper struct {
	keyWidth int
}

// New creates a Grouper. Width must be between 1 and the segment
// count.
func New(keyWidth int) (*Grouper, error) {
	if keyWidth < 1 || keyWidth > models.SegmentCount {
		return nil, &docerror.PolicyError{
			Policy: "grouping",
			Reason: fmt.Sprintf("key width %d outside 1..%d", keyWidth, models.SegmentCount),
		}
	}
	return &Grouper{keyWidth: keyWidth}, nil
}

// Group partitions members into groups. Each group's total is the
// exact signed sum of member amounts; re-grouping the same members
// yields identical groups.
func (g *Grouper) Group(members []Member) []models.Group {
	index := make(map[string]int)
	var groups []models.Group

	for _, m := range members {
		segments := make([]string, g.keyWidth)
		for i := 0; i < g.keyWidth; i++ {
			segments[i] = m.Resolved.Segments[i].Code
		}
		key := strings.Join(segments, ".")

		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, models.Group{
				Segments: segments,
				Total:    decimal.Zero,
			})
		}
		groups[pos].TransactionIDs = append(groups[pos].TransactionIDs, m.Transaction.ID)
		groups[pos].Total = groups[pos].Total.Add(m.Transaction.Amount)
	}
	return groups
}
