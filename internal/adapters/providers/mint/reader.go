// Package mint reads Mint transaction exports.
//
// The export is a JSON array of transaction objects as returned by Mint's
// transactions API. Only the fields needed for reconciliation are decoded.
package mint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/splitwise-sync/internal/adapters/providers"
)

const dateLayout = "2006-01-02"

// Record is the subset of a Mint transaction we care about
type Record struct {
	Type        string           `json:"type"`
	ID          string           `json:"id"`
	AccountID   string           `json:"accountId"`
	AccountRef  AccountRef       `json:"accountRef"`
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Category    Category         `json:"category"`
	Amount      *decimal.Decimal `json:"amount"` // required
	Status      string           `json:"status"`
	IsExpense   *bool            `json:"isExpense"` // required
	IsPending   bool             `json:"isPending"`
	ParentID    *string          `json:"parentId"`
}

// AccountRef identifies the originating account
type AccountRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Category is Mint's own categorization
type Category struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ParentName string `json:"parentName"`
}

// Source implements providers.TransactionSource for Mint JSON exports
type Source struct{}

// NewSource creates a Mint source
func NewSource() *Source {
	return &Source{}
}

// Name returns the source identifier
func (s *Source) Name() string {
	return "mint"
}

// DisplayName returns the human-readable name
func (s *Source) DisplayName() string {
	return "Mint"
}

// ReadTransactions decodes a Mint JSON export
func (s *Source) ReadTransactions(ctx context.Context, r io.Reader) ([]providers.Transaction, error) {
	dec := json.NewDecoder(r)

	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode mint export: %w", err)
	}
	// The export is exactly one array
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode mint export: trailing data after transaction array")
	}

	txns := make([]providers.Transaction, 0, len(records))
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		txn, err := rec.toTransaction()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		txns = append(txns, txn)
	}

	return txns, nil
}

func (rec Record) toTransaction() (providers.Transaction, error) {
	if rec.ID == "" {
		return providers.Transaction{}, fmt.Errorf("missing id")
	}
	if rec.Amount == nil {
		return providers.Transaction{}, fmt.Errorf("transaction %s: missing amount", rec.ID)
	}
	if rec.IsExpense == nil {
		return providers.Transaction{}, fmt.Errorf("transaction %s: missing isExpense", rec.ID)
	}

	date, err := time.Parse(dateLayout, rec.Date)
	if err != nil {
		return providers.Transaction{}, fmt.Errorf("transaction %s: invalid date %q: %w", rec.ID, rec.Date, err)
	}

	return providers.Transaction{
		ID:          rec.ID,
		Date:        date,
		Amount:      *rec.Amount,
		Description: rec.Description,
		AccountName: rec.AccountRef.Name,
		IsExpense:   *rec.IsExpense,
	}, nil
}
