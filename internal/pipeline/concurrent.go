package pipeline

import (
	"context"
	"sync"

	"fjacquet/treasury-docs/internal/logging"
	"fjacquet/treasury-docs/internal/models"
)

// sequentialThreshold keeps small batches on the sequential path where
// worker pool overhead outweighs any gain.
const sequentialThreshold = 50

// processAll runs the per-transaction stage over the batch, preserving
// input order in the returned outcomes.
func (p *Pipeline) processAll(ctx context.Context, transactions []models.Transaction) []outcome {
	if p.workers < 2 || len(transactions) < sequentialThreshold {
		return p.processSequential(ctx, transactions)
	}
	return p.processConcurrent(ctx, transactions)
}

func (p *Pipeline) processSequential(ctx context.Context, transactions []models.Transaction) []outcome {
	outcomes := make([]outcome, 0, len(transactions))
	for _, tx := range transactions {
		outcomes = append(outcomes, p.processOne(ctx, tx))
	}
	return outcomes
}

// indexedOutcome preserves the original position of each result.
type indexedOutcome struct {
	index   int
	outcome outcome
}

// processConcurrent fans the batch out over a bounded worker pool.
// Transactions are independent during this stage, so ordering only
// matters for reassembly of the result slice.
func (p *Pipeline) processConcurrent(ctx context.Context, transactions []models.Transaction) []outcome {
	type job struct {
		index int
		tx    models.Transaction
	}

	jobs := make(chan job, p.workers)
	results := make(chan indexedOutcome, len(transactions))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- indexedOutcome{index: j.index, outcome: p.processOne(ctx, j.tx)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, tx := range transactions {
			select {
			case jobs <- job{index: i, tx: tx}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make([]outcome, len(transactions))
	count := 0
	for r := range results {
		outcomes[r.index] = r.outcome
		count++
	}

	// Context cancellation can leave unsubmitted slots; fill them so
	// callers still see a structural record per transaction.
	if count < len(transactions) {
		for i := range outcomes {
			if outcomes[i].tx.ID == "" && i < len(transactions) {
				outcomes[i] = outcome{tx: transactions[i], err: ctx.Err()}
			}
		}
	}

	p.logger.Debug("Concurrent stage completed",
		logging.Field{Key: "transactions", Value: len(transactions)},
		logging.Field{Key: "workers", Value: p.workers})
	return outcomes
}
