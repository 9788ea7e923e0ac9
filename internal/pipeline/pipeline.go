// Package pipeline wires the classification, validation, and grouping
// stages into a single batch run over in-memory transactions.
package pipeline

import (
	"context"

	"fjacquet/treasury-docs/internal/assembler"
	"fjacquet/treasury-docs/internal/classifier"
	"fjacquet/treasury-docs/internal/grouper"
	"fjacquet/treasury-docs/internal/logging"
	"fjacquet/treasury-docs/internal/models"
	"fjacquet/treasury-docs/internal/resolver"
	"fjacquet/treasury-docs/internal/validation"

	approvalpkg "fjacquet/treasury-docs/internal/approval"
)

// SkippedTransaction records a transaction excluded from grouping
// because of a structural error (malformed account key). Reported
// individually; the run continues for other transactions.
type SkippedTransaction struct {
	TransactionID string
	Key           string
	Err           error
}

// Result is the outcome of one batch run.
type Result struct {
	Documents []models.OutputDocument
	Skipped   []SkippedTransaction
}

// Pipeline composes the stages. Per-transaction steps share no mutable
// state, so the batch stage may run them concurrently; grouping and
// assembly run after a single synchronization point.
type Pipeline struct {
	resolver   *resolver.AccountResolver
	classifier classifier.Strategy
	validator  *validation.Validator
	approver   *approvalpkg.Resolver
	grouper    *grouper.Grouper
	assembler  *assembler.Assembler
	logger     logging.Logger
	workers    int
}

// New assembles a Pipeline. workers bounds the per-transaction stage
// concurrency; values below 2 select sequential processing.
func New(
	res *resolver.AccountResolver,
	cls classifier.Strategy,
	val *validation.Validator,
	app *approvalpkg.Resolver,
	grp *grouper.Grouper,
	asm *assembler.Assembler,
	workers int,
	logger logging.Logger,
) *Pipeline {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Pipeline{
		resolver:   res,
		classifier: cls,
		validator:  val,
		approver:   app,
		grouper:    grp,
		assembler:  asm,
		logger:     logger,
		workers:    workers,
	}
}

// Run processes a batch: resolve, classify, validate, and route each
// transaction, then group and assemble documents. Only internal
// consistency errors from assembly abort the run.
func (p *Pipeline) Run(ctx context.Context, transactions []models.Transaction) (Result, error) {
	outcomes := p.processAll(ctx, transactions)

	var result Result
	idx := assembler.Indices{
		Transactions:    make(map[string]models.Transaction, len(transactions)),
		Resolved:        make(map[string]models.ResolvedAccount, len(transactions)),
		Classifications: make(map[string]models.ClassificationResult, len(transactions)),
		Validations:     make(map[string]models.ValidationResult, len(transactions)),
		Approvals:       make(map[string]models.ApprovalChain, len(transactions)),
	}
	var members []grouper.Member

	for _, out := range outcomes {
		if out.err != nil {
			p.logger.WithError(out.err).Warn("Transaction excluded from grouping",
				logging.Field{Key: "transaction_id", Value: out.tx.ID},
				logging.Field{Key: "key", Value: out.tx.Key.String()})
			result.Skipped = append(result.Skipped, SkippedTransaction{
				TransactionID: out.tx.ID,
				Key:           out.tx.Key.String(),
				Err:           out.err,
			})
			continue
		}

		idx.Transactions[out.tx.ID] = out.tx
		idx.Resolved[out.tx.ID] = out.resolved
		idx.Classifications[out.tx.ID] = out.classification
		idx.Validations[out.tx.ID] = out.validation
		idx.Approvals[out.tx.ID] = out.approval
		members = append(members, grouper.Member{Transaction: out.tx, Resolved: out.resolved})
	}

	for _, group := range p.grouper.Group(members) {
		doc, err := p.assembler.Assemble(group, idx)
		if err != nil {
			return Result{}, err
		}
		result.Documents = append(result.Documents, doc)
	}

	p.logger.Info("Batch processed",
		logging.Field{Key: "transactions", Value: len(transactions)},
		logging.Field{Key: "documents", Value: len(result.Documents)},
		logging.Field{Key: "skipped", Value: len(result.Skipped)})
	return result, nil
}

// outcome is the per-transaction stage result.
type outcome struct {
	tx             models.Transaction
	resolved       models.ResolvedAccount
	classification models.ClassificationResult
	validation     models.ValidationResult
	approval       models.ApprovalChain
	err            error
}

// processOne runs stages 2-6 for one transaction. Structural errors
// are the only failure; classification degradation and validation
// violations are recorded on the outcome, not raised.
func (p *Pipeline) processOne(ctx context.Context, tx models.Transaction) outcome {
	resolved, err := p.resolver.Resolve(tx.Key)
	if err != nil {
		return outcome{tx: tx, err: err}
	}

	classification, err := p.classifier.Classify(ctx, tx, resolved)
	if err != nil {
		// The composed classifier degrades internally; a strategy used
		// directly may still error. Never abort the batch for it.
		p.logger.WithError(err).Warn("Classification degraded to unclassified",
			logging.Field{Key: "transaction_id", Value: tx.ID})
		classification = models.Unclassified()
	}

	return outcome{
		tx:             tx,
		resolved:       resolved,
		classification: classification,
		validation:     p.validator.Validate(tx, resolved, classification),
		approval:       p.approver.Resolve(classification.Category, tx.Amount),
	}
}
