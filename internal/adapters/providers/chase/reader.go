// Package chase reads Chase credit card CSV exports.
//
// Chase exports carry no transaction identifier, so each row gets a
// deterministic UUIDv5 derived from its content and its occurrence count.
// Re-exporting the same statement yields the same IDs.
package chase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/splitwise-sync/internal/adapters/providers"
)

const (
	dateLayout         = "01/02/2006"
	DefaultAccountName = "Chase"
)

var rowNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.chase.com/transactions"))

// Column headers in a Chase export
const (
	colTransactionDate = "Transaction Date"
	colDescription     = "Description"
	colAmount          = "Amount"
)

var requiredColumns = []string{colTransactionDate, colDescription, colAmount}

// Source implements providers.TransactionSource for Chase CSV exports
type Source struct {
	accountName string
}

// NewSource creates a Chase source. Exports don't name the card, so every
// transaction is attributed to accountName.
func NewSource(accountName string) *Source {
	if accountName == "" {
		accountName = DefaultAccountName
	}
	return &Source{accountName: accountName}
}

// Name returns the source identifier
func (s *Source) Name() string {
	return "chase"
}

// DisplayName returns the human-readable name
func (s *Source) DisplayName() string {
	return "Chase"
}

// ReadTransactions decodes a Chase CSV export
func (s *Source) ReadTransactions(ctx context.Context, r io.Reader) ([]providers.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty chase export")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	seen := make(map[string]int)
	var txns []providers.Transaction

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		txn, err := s.parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		key := strings.Join(row, "\x1f")
		txn.ID = uuid.NewSHA1(rowNamespace, []byte(fmt.Sprintf("%s#%d", key, seen[key]))).String()
		seen[key]++

		txns = append(txns, txn)
	}

	return txns, nil
}

func (s *Source) parseRow(row []string, columns map[string]int) (providers.Transaction, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, err := time.Parse(dateLayout, field(colTransactionDate))
	if err != nil {
		return providers.Transaction{}, fmt.Errorf("invalid transaction date %q: %w", field(colTransactionDate), err)
	}

	amount, err := decimal.NewFromString(field(colAmount))
	if err != nil {
		return providers.Transaction{}, fmt.Errorf("invalid amount %q: %w", field(colAmount), err)
	}

	return providers.Transaction{
		Date:        date,
		Amount:      amount,
		Description: field(colDescription),
		AccountName: s.accountName,
		IsExpense:   amount.IsNegative(),
	}, nil
}
