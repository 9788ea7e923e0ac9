package models

// Severity grades a validation violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation is one itemized validation failure.
type Violation struct {
	Code     string
	Message  string
	Severity Severity
}

// ValidationResult is the outcome of one validation pass over a
// classified transaction. All applicable checks run even after the
// first failure; IsValid is the AND of every error-severity check.
type ValidationResult struct {
	IsValid          bool
	Violations       []Violation
	ComplianceChecks []string
}

// Errors returns only the error-severity violations.
func (vr ValidationResult) Errors() []Violation {
	var errs []Violation
	for _, v := range vr.Violations {
		if v.Severity == SeverityError {
			errs = append(errs, v)
		}
	}
	return errs
}
