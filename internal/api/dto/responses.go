package dto

import (
	"encoding/json"
	"time"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Storage   string `json:"storage"`
	Timestamp string `json:"timestamp"`
}

// SyncRunResponse represents a sync run in API responses.
type SyncRunResponse struct {
	ID                     int64  `json:"id"`
	RunUUID                string `json:"run_uuid"`
	Source                 string `json:"source"`
	FilePath               string `json:"file_path"`
	GroupID                int64  `json:"group_id"`
	DryRun                 bool   `json:"dry_run"`
	AssumeYes              bool   `json:"assume_yes"`
	SnapshotPolicy         string `json:"snapshot_policy"`
	StartedAt              string `json:"started_at"`
	CompletedAt            string `json:"completed_at,omitempty"`
	TransactionsRead       int    `json:"transactions_read"`
	TransactionsConsidered int    `json:"transactions_considered"`
	Created                int    `json:"created"`
	DryRunCount            int    `json:"dry_run_count"`
	Duplicates             int    `json:"duplicates"`
	Declined               int    `json:"declined"`
	Failed                 int    `json:"failed"`
	Status                 string `json:"status"`
	ErrorMessage           string `json:"error_message,omitempty"`
}

// SyncRunListResponse is returned when listing sync runs.
type SyncRunListResponse struct {
	Runs  []SyncRunResponse `json:"runs"`
	Count int               `json:"count"`
}

// SyncRecordResponse is the outcome of one transaction within a run.
type SyncRecordResponse struct {
	TransactionID   string `json:"transaction_id"`
	TransactionDate string `json:"transaction_date"`
	Amount          string `json:"amount"`
	Description     string `json:"description"`
	AccountName     string `json:"account_name"`
	Outcome         string `json:"outcome"`
	ExpenseID       int64  `json:"expense_id,omitempty"`
	MatchKind       string `json:"match_kind,omitempty"`
	ErrorMessage    string `json:"error_message,omitempty"`
}

// SyncRecordListResponse is returned when listing a run's records.
type SyncRecordListResponse struct {
	RunID   int64                `json:"run_id"`
	Records []SyncRecordResponse `json:"records"`
	Count   int                  `json:"count"`
}

// APICallResponse is one audited write to Splitwise.
type APICallResponse struct {
	TransactionID string          `json:"transaction_id"`
	Method        string          `json:"method"`
	Request       json.RawMessage `json:"request,omitempty"`
	Response      json.RawMessage `json:"response,omitempty"`
	Error         string          `json:"error,omitempty"`
	DurationMs    int64           `json:"duration_ms"`
	Timestamp     string          `json:"timestamp,omitempty"`
}

// APICallListResponse is returned when listing a run's API calls.
type APICallListResponse struct {
	RunID int64             `json:"run_id"`
	Calls []APICallResponse `json:"calls"`
	Count int               `json:"count"`
}

// SourceStatsResponse contains per-source statistics.
type SourceStatsResponse struct {
	Source  string `json:"source"`
	Runs    int    `json:"runs"`
	Created int    `json:"created"`
}

// StatsResponse is returned by the stats endpoint.
type StatsResponse struct {
	TotalRuns     int                   `json:"total_runs"`
	FailedRuns    int                   `json:"failed_runs"`
	TotalRecords  int                   `json:"total_records"`
	OutcomeCounts map[string]int        `json:"outcome_counts"`
	CreatedAmount string                `json:"created_amount"`
	SourceStats   []SourceStatsResponse `json:"source_stats"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse(storageEnabled bool) HealthResponse {
	storage := "disabled"
	if storageEnabled {
		storage = "enabled"
	}
	return HealthResponse{
		Status:    "ok",
		Storage:   storage,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
