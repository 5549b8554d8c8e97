package providers

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a normalized record read from a bank or card export.
// Transactions are never mutated after they are read.
type Transaction struct {
	ID          string          // Stable identifier from the source system
	Date        time.Time       // Posting date, midnight UTC
	Amount      decimal.Decimal // Negative = money out
	Description string
	AccountName string
	IsExpense   bool // false for income, refunds, payments
}

// String renders the transaction the way the confirmation prompt shows it
func (t Transaction) String() string {
	return fmt.Sprintf("%s: %s @ [%s] %s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		t.AccountName,
		t.Description,
	)
}

// TransactionSource decodes one export format into normalized transactions
type TransactionSource interface {
	// Source identification
	Name() string        // "mint", "chase"
	DisplayName() string // "Mint", "Chase"

	// ReadTransactions decodes every record in r. Any decode failure is
	// returned as an error; partial results are never returned.
	ReadTransactions(ctx context.Context, r io.Reader) ([]Transaction, error)
}

// ReadFile opens path and decodes it with the given source
func ReadFile(ctx context.Context, source TransactionSource, path string) ([]Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	txns, err := source.ReadTransactions(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s transactions from %s: %w", source.DisplayName(), path, err)
	}
	return txns, nil
}

// CalendarDate truncates t to midnight UTC of its UTC calendar day
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
