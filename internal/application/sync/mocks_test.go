package sync

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/splitwise-sync/internal/adapters/providers"
	"github.com/eshaffer321/splitwise-sync/internal/adapters/splitwise"
)

// MockLedger is a testify mock of the Splitwise ledger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) ListExpenses(ctx context.Context, req splitwise.ListExpensesRequest) ([]splitwise.Expense, error) {
	args := m.Called(ctx, req)
	expenses, _ := args.Get(0).([]splitwise.Expense)
	return expenses, args.Error(1)
}

func (m *MockLedger) CreateExpense(ctx context.Context, req splitwise.CreateExpenseRequest) ([]splitwise.Expense, error) {
	args := m.Called(ctx, req)
	expenses, _ := args.Get(0).([]splitwise.Expense)
	return expenses, args.Error(1)
}

// createdRequests returns every CreateExpense request in call order
func (m *MockLedger) createdRequests() []splitwise.CreateExpenseRequest {
	var reqs []splitwise.CreateExpenseRequest
	for _, call := range m.Calls {
		if call.Method == "CreateExpense" {
			reqs = append(reqs, call.Arguments.Get(1).(splitwise.CreateExpenseRequest))
		}
	}
	return reqs
}

// MockPrompter is a testify mock of the confirmation prompt
type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) Confirm(txn providers.Transaction) (bool, error) {
	args := m.Called(txn)
	return args.Bool(0), args.Error(1)
}

// mintTxn is the JSON shape of one record in a Mint export
type mintTxn struct {
	ID          string     `json:"id"`
	Date        string     `json:"date"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	IsExpense   bool       `json:"isExpense"`
	AccountRef  accountRef `json:"accountRef"`
}

type accountRef struct {
	Name string `json:"name"`
}

// writeMintFile writes a Mint export and returns its path
func writeMintFile(t *testing.T, txns ...mintTxn) string {
	t.Helper()
	if txns == nil {
		txns = []mintTxn{}
	}
	data, err := json.Marshal(txns)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "transactions.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func market(id string) mintTxn {
	return mintTxn{
		ID:          id,
		Date:        "2024-03-01",
		Description: "Market",
		Amount:      -45.00,
		IsExpense:   true,
		AccountRef:  accountRef{Name: "Checking"},
	}
}

func expense(id int64, cost string, date time.Time, details string) splitwise.Expense {
	e := splitwise.Expense{ID: &id, Cost: &cost, Date: &date}
	if details != "" {
		e.Details = &details
	}
	return e
}

func march(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}
