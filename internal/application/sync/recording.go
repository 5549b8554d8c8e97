package sync

import (
	"encoding/json"
	"fmt"

	"github.com/eshaffer321/splitwise-sync/internal/adapters/providers"
	"github.com/eshaffer321/splitwise-sync/internal/domain/matcher"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/storage"
)

// Recording and audit trail functions for the sync orchestrator.
// Storage failures are logged and never abort a run.

func (o *Orchestrator) startRun(result *Result, opts Options, policy SnapshotPolicy) {
	o.runID = 0
	if o.storage == nil {
		return
	}

	runID, err := o.storage.StartSyncRun(&storage.SyncRun{
		RunUUID:        result.RunID,
		Source:         o.source.Name(),
		FilePath:       opts.FilePath,
		GroupID:        opts.GroupID,
		DryRun:         opts.DryRun,
		AssumeYes:      opts.AssumeYes,
		SnapshotPolicy: string(policy),
	})
	if err != nil {
		o.logger.Warn("Failed to start sync run tracking", "error", err)
		return
	}

	o.runID = runID
	result.StorageRunID = runID
}

func (o *Orchestrator) failRun(cause error) {
	if o.storage == nil || o.runID == 0 {
		return
	}
	if err := o.storage.FailSyncRun(o.runID, cause.Error()); err != nil {
		o.logger.Warn("Failed to record sync run failure", "run_id", o.runID, "error", err)
	}
}

func (o *Orchestrator) completeRun(result *Result) {
	if o.storage == nil || o.runID == 0 {
		return
	}

	err := o.storage.CompleteSyncRun(o.runID, storage.RunCounts{
		TransactionsRead:       result.ReadCount,
		TransactionsConsidered: result.ConsideredCount,
		Created:                result.CreatedCount,
		DryRunCount:            result.DryRunCount,
		Duplicates:             result.DuplicateCount,
		Declined:               result.DeclinedCount,
		Failed:                 result.ErrorCount,
	})
	if err != nil {
		o.logger.Warn("Failed to complete sync run", "run_id", o.runID, "error", err)
	}
}

func (o *Orchestrator) recordDuplicate(txn providers.Transaction, match *matcher.MatchResult) {
	o.saveRecord(txn, storage.OutcomeDuplicate, match.Expense.IDValue(), string(match.Kind), "")
}

func (o *Orchestrator) recordOutcome(txn providers.Transaction, outcome storage.Outcome, expenseID int64, errMsg string) {
	o.saveRecord(txn, outcome, expenseID, "", errMsg)
}

func (o *Orchestrator) saveRecord(txn providers.Transaction, outcome storage.Outcome, expenseID int64, matchKind, errMsg string) {
	if o.storage == nil || o.runID == 0 {
		return
	}

	record := &storage.SyncRecord{
		RunID:           o.runID,
		TransactionID:   txn.ID,
		TransactionDate: providers.CalendarDate(txn.Date),
		Amount:          txn.Amount.StringFixed(2),
		Description:     txn.Description,
		AccountName:     txn.AccountName,
		Outcome:         outcome,
		ExpenseID:       expenseID,
		MatchKind:       matchKind,
		ErrorMessage:    errMsg,
	}
	if err := o.storage.SaveRecord(record); err != nil {
		o.logger.Error("Failed to save sync record", "transaction_id", txn.ID, "error", err)
	}
}

// logAPICall logs a write call to the database for audit trail
func (o *Orchestrator) logAPICall(transactionID, method string, request, response interface{}, err error, durationMs int64) {
	if o.storage == nil || o.runID == 0 {
		return // No storage or no run ID, skip logging
	}

	requestJSON, marshalErr := json.Marshal(request)
	if marshalErr != nil {
		o.logger.Warn("Failed to marshal request for API log", "method", method, "error", marshalErr)
		requestJSON = []byte(fmt.Sprintf(`{"error": "failed to marshal: %v"}`, marshalErr))
	}

	responseJSON, marshalErr := json.Marshal(response)
	if marshalErr != nil {
		o.logger.Warn("Failed to marshal response for API log", "method", method, "error", marshalErr)
		responseJSON = []byte(fmt.Sprintf(`{"error": "failed to marshal: %v"}`, marshalErr))
	}

	errStr := ""
	if err != nil {
		errStr = err.Error()
	}

	apiCall := &storage.APICall{
		RunID:         o.runID,
		TransactionID: transactionID,
		Method:        method,
		RequestJSON:   string(requestJSON),
		ResponseJSON:  string(responseJSON),
		Error:         errStr,
		DurationMs:    durationMs,
	}

	if err := o.storage.LogAPICall(apiCall); err != nil {
		o.logger.Warn("Failed to log API call", "method", method, "error", err)
	}
}
