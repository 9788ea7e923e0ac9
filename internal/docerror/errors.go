// Package docerror defines the typed errors shared across the document
// pipeline. Load and consistency errors are fatal; everything else is
// reported on the artifact that carries it.
package docerror

import "fmt"

// ReferenceLoadError reports missing or malformed COA reference data.
// Fatal: the run aborts before any transaction is processed.
type ReferenceLoadError struct {
	Segment string
	Reason  string
	Err     error
}

func (e *ReferenceLoadError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("reference data load failed for segment '%s': %s", e.Segment, e.Reason)
	}
	return fmt.Sprintf("reference data load failed: %s", e.Reason)
}

func (e *ReferenceLoadError) Unwrap() error {
	return e.Err
}

// MalformedKeyError reports an account key without exactly six
// segments. Fatal per transaction; the run continues for others.
type MalformedKeyError struct {
	Key      string
	Segments int
}

func (e *MalformedKeyError) Error() string {
	return fmt.Sprintf("malformed account key '%s': expected 6 segments, got %d", e.Key, e.Segments)
}

// ModelUnavailableError reports a failed external model call: timeout,
// transport failure, or an out-of-domain response. Never fatal; the
// transaction degrades to unclassified.
type ModelUnavailableError struct {
	Reason string
	Err    error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model classification unavailable: %s", e.Reason)
}

func (e *ModelUnavailableError) Unwrap() error {
	return e.Err
}

// ConsistencyError reports a pipeline wiring defect, such as the
// assembler referencing a transaction id missing from its indices.
// Fatal: halt and report rather than produce a silently wrong document.
type ConsistencyError struct {
	Stage   string
	Subject string
	Reason  string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("internal consistency error in %s for '%s': %s", e.Stage, e.Subject, e.Reason)
}

// PolicyError reports a malformed configuration table (thresholds,
// approval chains). Programmer or operator error, raised at
// construction time, never during per-transaction processing.
type PolicyError struct {
	Policy string
	Reason string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("invalid %s policy: %s", e.Policy, e.Reason)
}
