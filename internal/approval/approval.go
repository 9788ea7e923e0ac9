// Package approval maps (category, amount) to an ordered approval
// chain per configured thresholds. A classification table, not a live
// workflow engine: there is no persisted current step.
package approval

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fjacquet/treasury-docs/internal/docerror"
	"fjacquet/treasury-docs/internal/models"
)

// Tier pairs a minimum amount with an approval level. Tiers are
// evaluated highest minimum first.
type Tier struct {
	MinAmount decimal.Decimal
	Level     models.ApprovalLevel
}

// Policy is the externally supplied approval configuration: amount
// tiers plus the ordered approver chain for each level.
type Policy struct {
	Tiers  []Tier
	Chains map[models.ApprovalLevel][]string
}

// DefaultPolicy returns the standard thresholds and chains.
func DefaultPolicy() Policy {
	return Policy{
		Tiers: []Tier{
			{MinAmount: decimal.NewFromInt(100000), Level: models.ApprovalExecutive},
			{MinAmount: decimal.NewFromInt(10000), Level: models.ApprovalHigh},
			{MinAmount: decimal.Zero, Level: models.ApprovalStandard},
		},
		Chains: map[models.ApprovalLevel][]string{
			models.ApprovalStandard: {
				models.RoleDepartmentHead,
				models.RoleFinanceProcessing,
			},
			models.ApprovalHigh: {
				models.RoleDepartmentHead,
				models.RoleFinanceDirector,
				models.RoleFinanceProcessing,
			},
			models.ApprovalExecutive: {
				models.RoleDepartmentHead,
				models.RoleFinanceDirector,
				models.RoleExecutive,
				models.RoleFinanceProcessing,
			},
		},
	}
}

// Resolver resolves approval chains. Pure: the same (category, amount)
// always yields the same chain for a given policy.
type Resolver struct {
	policy Policy
}

// NewResolver validates the policy shape: every tier's level must have
// a non-empty chain, and a zero-minimum tier must exist so every
// amount resolves.
func NewResolver(policy Policy) (*Resolver, error) {
	if len(policy.Tiers) == 0 {
		return nil, &docerror.PolicyError{Policy: "approval", Reason: "no tiers configured"}
	}
	hasFloor := false
	for _, tier := range policy.Tiers {
		if tier.MinAmount.IsZero() {
			hasFloor = true
		}
		chain, ok := policy.Chains[tier.Level]
		if !ok || len(chain) == 0 {
			return nil, &docerror.PolicyError{
				Policy: "approval",
				Reason: fmt.Sprintf("no approver chain for level '%s'", tier.Level),
			}
		}
	}
	if !hasFloor {
		return nil, &docerror.PolicyError{Policy: "approval", Reason: "no zero-minimum tier"}
	}
	return &Resolver{policy: policy}, nil
}

// Resolve returns the approval chain for a classified amount. The
// absolute amount is compared, so a 120,000 credit routes the same as
// a 120,000 debit. The category parameter is part of the contract for
// future category-specific tiers; the default policy keys on amount
// alone.
func (r *Resolver) Resolve(category models.Category, amount decimal.Decimal) models.ApprovalChain {
	abs := amount.Abs()

	best := r.policy.Tiers[0]
	found := false
	for _, tier := range r.policy.Tiers {
		if abs.GreaterThanOrEqual(tier.MinAmount) {
			if !found || tier.MinAmount.GreaterThan(best.MinAmount) {
				best = tier
				found = true
			}
		}
	}

	steps := r.policy.Chains[best.Level]
	chain := models.ApprovalChain{
		Level: best.Level,
		Steps: make([]string, len(steps)),
	}
	copy(chain.Steps, steps)
	return chain
}
