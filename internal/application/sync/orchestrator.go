package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/splitwise-sync/internal/adapters/providers"
	"github.com/eshaffer321/splitwise-sync/internal/adapters/splitwise"
	"github.com/eshaffer321/splitwise-sync/internal/domain/filter"
	"github.com/eshaffer321/splitwise-sync/internal/domain/matcher"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/storage"
)

// Run executes a full sync: read the file, fetch the group's expenses,
// filter, then confirm and create each missing expense in order.
//
// Only a read or snapshot failure aborts the run. Per-transaction create
// failures are logged, collected in Result.Errors, and the run continues.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := o.validate(opts); err != nil {
		return nil, err
	}

	policy := opts.SnapshotPolicy
	if policy == "" {
		policy = SnapshotStatic
	}

	result := &Result{
		RunID:  uuid.NewString(),
		Errors: make([]error, 0),
	}
	logger := o.logger.With("run_id", result.RunID)

	logger.Debug("Starting sync",
		"source", o.source.DisplayName(),
		"file", opts.FilePath,
		"group_id", opts.GroupID,
		"dry_run", opts.DryRun,
		"assume_yes", opts.AssumeYes,
		"snapshot_policy", string(policy),
	)

	o.startRun(result, opts, policy)

	// 1. Read transactions
	txns, err := providers.ReadFile(ctx, o.source, opts.FilePath)
	if err != nil {
		o.failRun(err)
		return nil, err
	}
	result.ReadCount = len(txns)
	logger.Info("Read transactions", "count", len(txns), "file", opts.FilePath)

	// 2. Fetch the snapshot of existing expenses
	snapshot, err := o.fetchSnapshot(ctx, opts)
	if err != nil {
		o.failRun(err)
		return nil, err
	}
	result.SnapshotCount = len(snapshot)
	logger.Info("Found expenses in Splitwise group", "count", len(snapshot), "group_id", opts.GroupID)

	// 3. Filter
	candidates := filter.Apply(txns, opts.Criteria)
	result.ConsideredCount = len(candidates)
	logger.Debug("Filtered transactions", "considered", len(candidates), "read", len(txns))

	// 4. Per item, in order
	for _, txn := range candidates {
		snapshot = o.processTransaction(ctx, logger, txn, snapshot, opts, policy, result)
	}

	// 5. Done
	o.completeRun(result)

	logger.Info("Sync complete",
		"created", result.CreatedCount,
		"dry_run", result.DryRunCount,
		"duplicates", result.DuplicateCount,
		"declined", result.DeclinedCount,
		"errors", result.ErrorCount,
	)

	return result, nil
}

func (o *Orchestrator) validate(opts Options) error {
	if o.source == nil {
		return errors.New("no transaction source configured")
	}
	if o.ledger == nil {
		return errors.New("no ledger configured")
	}
	if opts.GroupID <= 0 {
		return fmt.Errorf("invalid group ID %d", opts.GroupID)
	}
	if !opts.AssumeYes && o.prompter == nil {
		return errors.New("confirmation required but no prompter configured")
	}
	return nil
}

// fetchSnapshot lists the group's expenses once for the whole run
func (o *Orchestrator) fetchSnapshot(ctx context.Context, opts Options) ([]splitwise.Expense, error) {
	limit := opts.ExpenseLimit
	if limit <= 0 {
		limit = DefaultExpenseLimit
	}
	groupID := opts.GroupID

	start := time.Now()
	expenses, err := o.ledger.ListExpenses(ctx, splitwise.ListExpensesRequest{
		GroupID: &groupID,
		Limit:   &limit,
	})
	o.logger.Debug("Listed expenses", "group_id", groupID, "limit", limit, "duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expenses for group %d: %w", groupID, err)
	}

	return expenses, nil
}

// processTransaction handles one candidate and returns the snapshot to use
// for the next one
func (o *Orchestrator) processTransaction(
	ctx context.Context,
	logger *slog.Logger,
	txn providers.Transaction,
	snapshot []splitwise.Expense,
	opts Options,
	policy SnapshotPolicy,
	result *Result,
) []splitwise.Expense {
	logger = logger.With("transaction_id", txn.ID)

	// Duplicates are skipped without asking
	if match := o.matcher.FindMatch(snapshot, txn); match != nil {
		result.DuplicateCount++
		logger.Debug("Skipping transaction already in Splitwise",
			"expense_id", match.Expense.IDValue(),
			"match", string(match.Kind),
			"days_delta", match.DaysDelta,
			"amount_delta", match.AmountDelta.String(),
		)
		o.recordDuplicate(txn, match)
		return snapshot
	}

	if !opts.AssumeYes {
		ok, err := o.prompter.Confirm(txn)
		if err != nil {
			logger.Warn("Prompt failed, skipping transaction", "error", err)
		}
		if err != nil || !ok {
			result.DeclinedCount++
			o.recordOutcome(txn, storage.OutcomeDeclined, 0, "")
			return snapshot
		}
	}

	req := NewCreateRequest(txn, opts.GroupID)

	if opts.DryRun {
		result.DryRunCount++
		logger.Info("Dry run: would create expense",
			"cost", req.Cost,
			"description", req.Description,
			"date", req.Date.Format("2006-01-02"),
		)
		o.recordOutcome(txn, storage.OutcomeDryRun, 0, "")
		return snapshot
	}

	start := time.Now()
	created, err := o.ledger.CreateExpense(ctx, req)
	o.logAPICall(txn.ID, "CreateExpense", req, created, err, time.Since(start).Milliseconds())

	if err != nil {
		result.ErrorCount++
		result.Errors = append(result.Errors, &ItemError{TransactionID: txn.ID, Err: err})
		logger.Error("Failed creating expense", "error", err)
		o.recordOutcome(txn, storage.OutcomeFailed, 0, err.Error())
		return snapshot
	}

	result.CreatedCount++
	result.Created = append(result.Created, created...)

	var expenseID int64
	if len(created) > 0 {
		expenseID = created[0].IDValue()
	}
	logger.Info("Created expense", "expense_id", expenseID, "cost", req.Cost, "description", req.Description)
	o.recordOutcome(txn, storage.OutcomeCreated, expenseID, "")

	if policy == SnapshotAppendCreated {
		snapshot = append(snapshot, created...)
	}
	return snapshot
}

// NewCreateRequest builds the expense for a transaction: an equal split in
// the group, paid by the authenticated user, tagged with its provenance
func NewCreateRequest(txn providers.Transaction, groupID int64) splitwise.CreateExpenseRequest {
	details := matcher.ProvenanceTag(txn.ID)
	return splitwise.CreateExpenseRequest{
		Cost:           txn.Amount.Neg().StringFixed(2),
		Description:    txn.Description,
		Details:        &details,
		Date:           providers.CalendarDate(txn.Date),
		RepeatInterval: "never",
		CurrencyCode:   CurrencyCode,
		GroupID:        groupID,
		SplitEqually:   true,
	}
}
