// Package validation applies threshold, GL-nature, and compliance
// checks to classified transactions.
package validation

import (
	"fmt"
	"path"

	"github.com/shopspring/decimal"

	"fjacquet/treasury-docs/internal/docerror"
	"fjacquet/treasury-docs/internal/models"
)

// CategoryPolicy holds the validation rules for one category.
// GL patterns are globs matched against the normalized GL code; an
// empty pattern list means no nature metadata for that side.
type CategoryPolicy struct {
	MaxAmount            decimal.Decimal
	AllowedGLPatterns    []string
	ProhibitedGLPatterns []string
	ComplianceChecks     []string
	RequiresCounterparty bool
}

// Policy is the full validation configuration. Business policy, not
// engine logic: supplied externally and reloadable between runs.
type Policy struct {
	Categories         map[models.Category]CategoryPolicy
	HighValueThreshold decimal.Decimal
}

// DefaultPolicy returns the built-in validation table: per-category
// amount caps, expense/asset GL nature expectations, and the standard
// compliance check lists.
func DefaultPolicy() Policy {
	return Policy{
		HighValueThreshold: decimal.NewFromInt(50000),
		Categories: map[models.Category]CategoryPolicy{
			models.CategoryOperating: {
				MaxAmount:            decimal.NewFromInt(50000),
				AllowedGLPatterns:    []string{"6*"},
				ProhibitedGLPatterns: []string{"1*", "2*", "3*"},
				ComplianceChecks:     []string{"budget_approval"},
			},
			models.CategoryCapital: {
				MaxAmount:            decimal.NewFromInt(1000000),
				AllowedGLPatterns:    []string{"1*"},
				ProhibitedGLPatterns: []string{"6*"},
				ComplianceChecks:     []string{"budget_approval", "asset_approval", "depreciation_setup"},
			},
			models.CategoryVendor: {
				MaxAmount:            decimal.NewFromInt(200000),
				AllowedGLPatterns:    []string{"6*", "2*"},
				ProhibitedGLPatterns: []string{"1*", "3*"},
				ComplianceChecks:     []string{"budget_approval", "vendor_verification", "contract_validation"},
				RequiresCounterparty: true,
			},
			models.CategoryPersonnel: {
				MaxAmount:            decimal.NewFromInt(500000),
				AllowedGLPatterns:    []string{"6*"},
				ProhibitedGLPatterns: []string{"1*", "2*", "3*"},
				ComplianceChecks:     []string{"budget_approval", "hr_approval", "payroll_validation"},
			},
			models.CategoryAdministrative: {
				MaxAmount:            decimal.NewFromInt(25000),
				AllowedGLPatterns:    []string{"6*"},
				ProhibitedGLPatterns: []string{"1*", "2*", "3*"},
				ComplianceChecks:     []string{"budget_approval"},
			},
		},
	}
}

// validate checks the policy shape at construction time. A malformed
// table is a programmer or operator error, not a business violation.
func (p Policy) validate() error {
	if p.HighValueThreshold.IsNegative() {
		return &docerror.PolicyError{Policy: "validation", Reason: "negative high value threshold"}
	}
	for category, cp := range p.Categories {
		if !models.ValidCategory(string(category)) {
			return &docerror.PolicyError{
				Policy: "validation",
				Reason: fmt.Sprintf("unknown category '%s'", category),
			}
		}
		if cp.MaxAmount.IsNegative() {
			return &docerror.PolicyError{
				Policy: "validation",
				Reason: fmt.Sprintf("negative max amount for category '%s'", category),
			}
		}
		for _, pattern := range append(append([]string{}, cp.AllowedGLPatterns...), cp.ProhibitedGLPatterns...) {
			if _, err := path.Match(pattern, "000000"); err != nil {
				return &docerror.PolicyError{
					Policy: "validation",
					Reason: fmt.Sprintf("invalid gl pattern '%s' for category '%s'", pattern, category),
				}
			}
		}
	}
	return nil
}
