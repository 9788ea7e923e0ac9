package validation

import (
	"fmt"
	"path"

	"fjacquet/treasury-docs/internal/logging"
	"fjacquet/treasury-docs/internal/models"
)

// Violation codes.
const (
	CodeAmountThreshold    = "amount_threshold"
	CodeGLNature           = "gl_nature"
	CodeMissingCounterpart = "missing_counterparty"
)

// Validator runs the configured checks against classified
// transactions. Business-rule violations accumulate on the result and
// never raise; only a malformed policy errors, at construction.
type Validator struct {
	policy Policy
	logger logging.Logger
}

// NewValidator creates a Validator, rejecting malformed policies.
func NewValidator(policy Policy, logger logging.Logger) (*Validator, error) {
	if err := policy.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Validator{policy: policy, logger: logger}, nil
}

// Validate applies, in order: amount threshold, GL-nature consistency,
// and compliance checks. All applicable checks run even after the
// first failure; IsValid is the AND of the error-severity outcomes.
func (v *Validator) Validate(tx models.Transaction, resolved models.ResolvedAccount, class models.ClassificationResult) models.ValidationResult {
	var violations []models.Violation

	cp, hasPolicy := v.policy.Categories[class.Category]

	// 1. Amount threshold per category.
	if hasPolicy && cp.MaxAmount.IsPositive() && tx.Amount.Abs().GreaterThan(cp.MaxAmount) {
		violations = append(violations, models.Violation{
			Code: CodeAmountThreshold,
			Message: fmt.Sprintf("amount %s exceeds %s limit for category %s",
				tx.Amount.Abs().StringFixed(2), cp.MaxAmount.StringFixed(2), class.Category),
			Severity: models.SeverityError,
		})
	}

	// 2. GL-nature consistency, when nature metadata is present.
	if hasPolicy {
		violations = append(violations, v.checkGLNature(resolved.GLCode(), class.Category, cp)...)
	}

	// 3. Compliance checks.
	if hasPolicy && cp.RequiresCounterparty && tx.CounterpartyRef == "" {
		violations = append(violations, models.Violation{
			Code:     CodeMissingCounterpart,
			Message:  fmt.Sprintf("category %s requires a counterparty reference", class.Category),
			Severity: models.SeverityError,
		})
	}

	valid := true
	for _, violation := range violations {
		if violation.Severity == models.SeverityError {
			valid = false
			break
		}
	}

	result := models.ValidationResult{
		IsValid:          valid,
		Violations:       violations,
		ComplianceChecks: v.complianceChecks(tx, cp, hasPolicy),
	}
	if !valid {
		v.logger.Debug("Transaction failed validation",
			logging.Field{Key: "transaction_id", Value: tx.ID},
			logging.Field{Key: "violations", Value: len(violations)})
	}
	return result
}

// checkGLNature verifies the GL segment against the category's
// allowed/prohibited patterns. Prohibited hits are errors; a GL code
// outside the allowed set is a warning, since reference data often
// lags new accounts.
func (v *Validator) checkGLNature(glCode string, category models.Category, cp CategoryPolicy) []models.Violation {
	var violations []models.Violation
	if glCode == "" {
		return nil
	}

	for _, pattern := range cp.ProhibitedGLPatterns {
		if ok, _ := path.Match(pattern, glCode); ok {
			violations = append(violations, models.Violation{
				Code: CodeGLNature,
				Message: fmt.Sprintf("gl account %s is prohibited for category %s (pattern %s)",
					glCode, category, pattern),
				Severity: models.SeverityError,
			})
			return violations
		}
	}

	if len(cp.AllowedGLPatterns) == 0 {
		return nil
	}
	for _, pattern := range cp.AllowedGLPatterns {
		if ok, _ := path.Match(pattern, glCode); ok {
			return nil
		}
	}
	return append(violations, models.Violation{
		Code: CodeGLNature,
		Message: fmt.Sprintf("gl account %s is outside the expected accounts for category %s",
			glCode, category),
		Severity: models.SeverityWarning,
	})
}

// complianceChecks lists the named checks a downstream reviewer must
// complete for this transaction.
func (v *Validator) complianceChecks(tx models.Transaction, cp CategoryPolicy, hasPolicy bool) []string {
	var checks []string
	if hasPolicy {
		checks = append(checks, cp.ComplianceChecks...)
	} else {
		checks = append(checks, "budget_approval")
	}
	if v.policy.HighValueThreshold.IsPositive() && tx.Amount.Abs().GreaterThanOrEqual(v.policy.HighValueThreshold) {
		checks = append(checks, "high_value_approval")
	}
	return checks
}
