package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"fjacquet/treasury-docs/internal/models"
)

// transactionRecord is the CSV shape of one already-parsed
// transaction. The account column carries the dotted six-segment key;
// signed amounts follow the debit-positive convention.
type transactionRecord struct {
	ID              string `csv:"id"`
	Account         string `csv:"account"`
	Amount          string `csv:"amount"`
	Description     string `csv:"description"`
	CounterpartyRef string `csv:"counterparty_ref"`
}

// LoadTransactions reads a transaction batch file. Amount parsing
// failures are per-record errors; free-text parsing beyond splitting
// the dotted key is not this system's job.
func (s *Store) LoadTransactions(path string) ([]models.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open transactions file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var records []transactionRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("could not parse transactions file %s: %w", path, err)
	}

	transactions := make([]models.Transaction, 0, len(records))
	for i, record := range records {
		amount, err := decimal.NewFromString(strings.ReplaceAll(record.Amount, ",", ""))
		if err != nil {
			return nil, fmt.Errorf("record %d: invalid amount '%s': %w", i+1, record.Amount, err)
		}
		id := record.ID
		if id == "" {
			id = fmt.Sprintf("TX-%04d", i+1)
		}
		transactions = append(transactions, models.Transaction{
			ID:              id,
			Key:             models.AccountKey(strings.Split(record.Account, ".")),
			Amount:          amount,
			Description:     record.Description,
			CounterpartyRef: record.CounterpartyRef,
		})
	}
	return transactions, nil
}
