// Package assembler turns grouped, classified transactions into
// structured output documents. Pure transformation; formatting is an
// external concern.
package assembler

import (
	"fmt"
	"time"

	"fjacquet/treasury-docs/internal/docerror"
	"fjacquet/treasury-docs/internal/models"
)

// Indices carry the per-transaction pipeline results the assembler
// joins against. A group member missing from any index is an internal
// consistency error, not a data problem.
type Indices struct {
	Transactions    map[string]models.Transaction
	Resolved        map[string]models.ResolvedAccount
	Classifications map[string]models.ClassificationResult
	Validations     map[string]models.ValidationResult
	Approvals       map[string]models.ApprovalChain
}

// Assembler builds output documents of one kind. Documents are
// numbered sequentially within a run.
type Assembler struct {
	kind models.DocumentKind
	now  func() time.Time
	seq  int
}

// New creates an Assembler for the given document kind. A nil clock
// defaults to time.Now.
func New(kind models.DocumentKind, now func() time.Time) *Assembler {
	if now == nil {
		now = time.Now
	}
	return &Assembler{kind: kind, now: now}
}

// Assemble builds one document from a group and its indices. It fails
// only on a missing transaction id, which indicates a pipeline wiring
// defect upstream; the error halts the run rather than producing a
// silently wrong document.
func (a *Assembler) Assemble(group models.Group, idx Indices) (models.OutputDocument, error) {
	if len(group.TransactionIDs) == 0 {
		return models.OutputDocument{}, &docerror.ConsistencyError{
			Stage:   "assembler",
			Subject: group.Key(),
			Reason:  "group has no members",
		}
	}

	var (
		lines      []models.LineItem
		violations []models.Violation
		flags      []string
		valid      = true
		unresolved = false
	)

	first, err := a.lookup(group, idx, group.TransactionIDs[0])
	if err != nil {
		return models.OutputDocument{}, err
	}

	classification := first.classification
	chain := first.approval

	for _, id := range group.TransactionIDs {
		member, err := a.lookup(group, idx, id)
		if err != nil {
			return models.OutputDocument{}, err
		}

		lines = append(lines, models.LineItem{
			TransactionID: id,
			Amount:        member.tx.Amount,
			Description:   member.tx.Description,
			Category:      member.classification.Category,
			Subcategory:   member.classification.Subcategory,
		})
		violations = append(violations, member.validation.Violations...)
		if !member.validation.IsValid {
			valid = false
		}
		if !member.resolved.IsFullyResolved() {
			unresolved = true
		}
		if !member.classification.IsClassified() {
			classification = member.classification
		}
		if levelRank(member.approval.Level) > levelRank(chain.Level) {
			chain = member.approval
		}
	}

	if unresolved {
		flags = append(flags, models.FlagUnresolvedSegment)
	}
	if !classification.IsClassified() {
		flags = append(flags, models.FlagUnclassified)
	}
	if !valid {
		flags = append(flags, models.FlagValidationFailed)
	}
	if a.kind == models.DocumentTreasuryReceipt && !group.IsBalanced() {
		flags = append(flags, models.FlagUnbalancedGroup)
	}

	a.seq++
	generated := a.now()
	return models.OutputDocument{
		Number:         a.documentNumber(generated),
		Kind:           a.kind,
		GroupKey:       group.Key(),
		Account:        accountDescriptions(first.resolved),
		Classification: classification,
		Approval:       chain,
		Valid:          valid,
		Violations:     violations,
		Flags:          flags,
		Lines:          lines,
		Total:          group.Total,
		GeneratedAt:    generated,
	}, nil
}

// memberData is one joined row across the indices.
type memberData struct {
	tx             models.Transaction
	resolved       models.ResolvedAccount
	classification models.ClassificationResult
	validation     models.ValidationResult
	approval       models.ApprovalChain
}

func (a *Assembler) lookup(group models.Group, idx Indices, id string) (memberData, error) {
	missing := func(index string) error {
		return &docerror.ConsistencyError{
			Stage:   "assembler",
			Subject: id,
			Reason:  fmt.Sprintf("transaction missing from %s index (group %s)", index, group.Key()),
		}
	}

	var m memberData
	var ok bool
	if m.tx, ok = idx.Transactions[id]; !ok {
		return m, missing("transaction")
	}
	if m.resolved, ok = idx.Resolved[id]; !ok {
		return m, missing("resolution")
	}
	if m.classification, ok = idx.Classifications[id]; !ok {
		return m, missing("classification")
	}
	if m.validation, ok = idx.Validations[id]; !ok {
		return m, missing("validation")
	}
	if m.approval, ok = idx.Approvals[id]; !ok {
		return m, missing("approval")
	}
	return m, nil
}

func (a *Assembler) documentNumber(generated time.Time) string {
	prefix := "TR"
	if a.kind == models.DocumentPaymentVoucher {
		prefix = "PV"
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, generated.Format("20060102"), a.seq)
}

func levelRank(level models.ApprovalLevel) int {
	switch level {
	case models.ApprovalExecutive:
		return 3
	case models.ApprovalHigh:
		return 2
	case models.ApprovalStandard:
		return 1
	default:
		return 0
	}
}

func accountDescriptions(resolved models.ResolvedAccount) models.AccountDescriptions {
	return models.AccountDescriptions{
		Entity:      resolved.Segment(models.SegmentEntity).Description,
		CostCenter:  resolved.Segment(models.SegmentCostCenter).Description,
		GLAccount:   resolved.Segment(models.SegmentGLAccount).Description,
		BudgetGroup: resolved.Segment(models.SegmentBudgetGroup).Description,
	}
}
