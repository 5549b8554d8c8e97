package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// Run statuses
const (
	RunStatusRunning             = "running"
	RunStatusCompleted           = "completed"
	RunStatusCompletedWithErrors = "completed_with_errors"
	RunStatusFailed              = "failed"
)

// Outcome is what happened to one considered transaction
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeDryRun    Outcome = "dry-run"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeDeclined  Outcome = "declined"
	OutcomeFailed    Outcome = "failed"
)

// SyncRun represents a sync run record
type SyncRun struct {
	ID             int64      `json:"id"`
	RunUUID        string     `json:"run_uuid"`
	Source         string     `json:"source"`
	FilePath       string     `json:"file_path"`
	GroupID        int64      `json:"group_id"`
	DryRun         bool       `json:"dry_run"`
	AssumeYes      bool       `json:"assume_yes"`
	SnapshotPolicy string     `json:"snapshot_policy"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Status         string     `json:"status"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	RunCounts
}

// RunCounts are the tallies written when a run completes
type RunCounts struct {
	TransactionsRead       int `json:"transactions_read"`
	TransactionsConsidered int `json:"transactions_considered"`
	Created                int `json:"created"`
	DryRunCount            int `json:"dry_run_count"`
	Duplicates             int `json:"duplicates"`
	Declined               int `json:"declined"`
	Failed                 int `json:"failed"`
}

// SyncRecord is the outcome of one transaction within a run
type SyncRecord struct {
	ID              int64     `json:"id"`
	RunID           int64     `json:"run_id"`
	TransactionID   string    `json:"transaction_id"`
	TransactionDate time.Time `json:"transaction_date"`
	Amount          string    `json:"amount"` // Fixed 2-decimal string, source sign
	Description     string    `json:"description"`
	AccountName     string    `json:"account_name"`
	Outcome         Outcome   `json:"outcome"`
	ExpenseID       int64     `json:"expense_id,omitempty"` // Created or matched expense
	MatchKind       string    `json:"match_kind,omitempty"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	RecordedAt      time.Time `json:"recorded_at"`
}

// APICall represents a logged API call
type APICall struct {
	ID            int64     `json:"id"`
	RunID         int64     `json:"run_id"`
	TransactionID string    `json:"transaction_id"`
	Method        string    `json:"method"`
	RequestJSON   string    `json:"request_json"`
	ResponseJSON  string    `json:"response_json"`
	Error         string    `json:"error,omitempty"`
	DurationMs    int64     `json:"duration_ms"`
	Timestamp     time.Time `json:"timestamp"`
}

// Stats contains aggregate statistics
type Stats struct {
	TotalRuns     int                    `json:"total_runs"`
	FailedRuns    int                    `json:"failed_runs"`
	TotalRecords  int                    `json:"total_records"`
	OutcomeCounts map[Outcome]int        `json:"outcome_counts"`
	CreatedAmount string                 `json:"created_amount"` // Sum of created expense costs
	SourceStats   map[string]SourceStats `json:"source_stats"`
}

// SourceStats contains per-source statistics
type SourceStats struct {
	Runs    int `json:"runs"`
	Created int `json:"created"`
}
