package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eshaffer321/splitwise-sync/internal/adapters/providers"
	"github.com/eshaffer321/splitwise-sync/internal/adapters/splitwise"
	"github.com/eshaffer321/splitwise-sync/internal/domain/filter"
	"github.com/eshaffer321/splitwise-sync/internal/domain/matcher"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/storage"
)

const (
	// DefaultExpenseLimit caps the snapshot fetched at the start of a run
	DefaultExpenseLimit = 10000

	// CurrencyCode is used for every created expense
	CurrencyCode = "USD"
)

// Ledger is the remote expense store. *splitwise.Client implements it.
type Ledger interface {
	ListExpenses(ctx context.Context, req splitwise.ListExpensesRequest) ([]splitwise.Expense, error)
	CreateExpense(ctx context.Context, req splitwise.CreateExpenseRequest) ([]splitwise.Expense, error)
}

// Prompter asks the operator whether a transaction should be synced.
// An error is treated as a decline.
type Prompter interface {
	Confirm(txn providers.Transaction) (bool, error)
}

// SnapshotPolicy controls whether the expense snapshot changes during a run
type SnapshotPolicy string

const (
	// SnapshotStatic keeps the snapshot fetched at the start of the run
	SnapshotStatic SnapshotPolicy = "static"
	// SnapshotAppendCreated adds each created expense to the snapshot, so a
	// file listing the same purchase twice only creates it once
	SnapshotAppendCreated SnapshotPolicy = "append"
)

// ParseSnapshotPolicy maps a flag/config value to a policy. Empty is static.
func ParseSnapshotPolicy(s string) (SnapshotPolicy, error) {
	switch SnapshotPolicy(s) {
	case "", SnapshotStatic:
		return SnapshotStatic, nil
	case SnapshotAppendCreated:
		return SnapshotAppendCreated, nil
	default:
		return "", fmt.Errorf("unknown snapshot policy %q (want %q or %q)", s, SnapshotStatic, SnapshotAppendCreated)
	}
}

// Options holds sync configuration
type Options struct {
	FilePath       string
	GroupID        int64
	Criteria       filter.Criteria
	AssumeYes      bool // Skip the confirmation prompt
	DryRun         bool // Never call CreateExpense
	SnapshotPolicy SnapshotPolicy
	ExpenseLimit   int // 0 = DefaultExpenseLimit
}

// Result holds sync results
type Result struct {
	RunID        string // Correlates log lines and stored history
	StorageRunID int64  // 0 when storage is disabled

	SnapshotCount   int // Expenses in the group at the start of the run
	ReadCount       int // Transactions in the file
	ConsideredCount int // Transactions left after filtering
	CreatedCount    int
	DryRunCount     int // Confirmed but not created because of DryRun
	DuplicateCount  int
	DeclinedCount   int
	ErrorCount      int

	Created []splitwise.Expense
	Errors  []error
}

// ItemError is a failure to create the expense for one transaction
type ItemError struct {
	TransactionID string
	Err           error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("transaction %s: %v", e.TransactionID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// Orchestrator runs the sync process
type Orchestrator struct {
	source   providers.TransactionSource
	ledger   Ledger
	prompter Prompter
	matcher  *matcher.Matcher
	storage  storage.Repository
	logger   *slog.Logger

	runID int64 // storage run ID of the current run
}

// NewOrchestrator creates a new sync orchestrator. prompter may be nil when
// every run uses AssumeYes; repo may be nil to disable history.
func NewOrchestrator(
	source providers.TransactionSource,
	ledger Ledger,
	prompter Prompter,
	m *matcher.Matcher,
	repo storage.Repository,
	logger *slog.Logger,
) *Orchestrator {
	if m == nil {
		m = matcher.NewMatcher(matcher.DefaultConfig())
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		source:   source,
		ledger:   ledger,
		prompter: prompter,
		matcher:  m,
		storage:  repo,
		logger:   logger,
	}
}
