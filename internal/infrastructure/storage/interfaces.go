package storage

// Repository defines the complete storage interface.
// This interface allows swapping implementations and makes testing with
// mocks straightforward.
type Repository interface {
	SyncRunRepository
	RecordRepository
	APICallRepository
	Close() error
}

// SyncRunRepository handles sync run tracking
type SyncRunRepository interface {
	// StartSyncRun records the start of a sync run and returns the run ID
	StartSyncRun(run *SyncRun) (int64, error)

	// CompleteSyncRun records the final counts of a sync run
	CompleteSyncRun(runID int64, counts RunCounts) error

	// FailSyncRun marks a run that aborted before processing finished
	FailSyncRun(runID int64, errMsg string) error

	// ListSyncRuns returns recent sync runs, newest first
	ListSyncRuns(limit int) ([]SyncRun, error)

	// GetSyncRun retrieves a sync run by ID. Returns ErrNotFound if missing.
	GetSyncRun(runID int64) (*SyncRun, error)
}

// RecordRepository handles per-transaction outcomes
type RecordRepository interface {
	// SaveRecord stores the outcome of one considered transaction
	SaveRecord(record *SyncRecord) error

	// ListRecords returns the records of a run in processing order
	ListRecords(runID int64) ([]SyncRecord, error)

	// GetStats returns aggregate statistics across all runs
	GetStats() (*Stats, error)
}

// APICallRepository handles write-call auditing
type APICallRepository interface {
	// LogAPICall logs a Splitwise API call
	LogAPICall(call *APICall) error

	// GetAPICallsByRunID retrieves all API calls for a specific sync run
	GetAPICallsByRunID(runID int64) ([]APICall, error)
}
