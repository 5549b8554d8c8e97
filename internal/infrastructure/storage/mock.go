package storage

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	runs      map[int64]*SyncRun
	records   []SyncRecord
	apiCalls  []APICall
	nextRunID int64
	nextRecID int64

	// Hooks for test assertions
	StartSyncRunCalled    bool
	CompleteSyncRunCalled bool
	FailSyncRunCalled     bool
	SaveRecordCalled      bool
	LastSavedRecord       *SyncRecord
	LogAPICallCalled      bool

	// Error injection for testing error paths
	StartSyncRunErr    error
	CompleteSyncRunErr error
	FailSyncRunErr     error
	SaveRecordErr      error
	LogAPICallErr      error
	GetStatsErr        error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		runs:      make(map[int64]*SyncRun),
		nextRunID: 1,
		nextRecID: 1,
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// StartSyncRun stores a new run in memory
func (m *MockRepository) StartSyncRun(run *SyncRun) (int64, error) {
	m.StartSyncRunCalled = true
	if m.StartSyncRunErr != nil {
		return 0, m.StartSyncRunErr
	}

	copied := *run
	copied.ID = m.nextRunID
	copied.Status = RunStatusRunning
	if copied.StartedAt.IsZero() {
		copied.StartedAt = time.Now().UTC()
	}
	m.runs[copied.ID] = &copied
	m.nextRunID++
	return copied.ID, nil
}

// CompleteSyncRun updates counts on a stored run
func (m *MockRepository) CompleteSyncRun(runID int64, counts RunCounts) error {
	m.CompleteSyncRunCalled = true
	if m.CompleteSyncRunErr != nil {
		return m.CompleteSyncRunErr
	}
	run, ok := m.runs[runID]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	run.RunCounts = counts
	run.CompletedAt = &now
	run.Status = RunStatusCompleted
	if counts.Failed > 0 {
		run.Status = RunStatusCompletedWithErrors
	}
	return nil
}

// FailSyncRun marks a stored run as failed
func (m *MockRepository) FailSyncRun(runID int64, errMsg string) error {
	m.FailSyncRunCalled = true
	if m.FailSyncRunErr != nil {
		return m.FailSyncRunErr
	}
	run, ok := m.runs[runID]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	run.CompletedAt = &now
	run.Status = RunStatusFailed
	run.ErrorMessage = errMsg
	return nil
}

// ListSyncRuns returns runs newest first
func (m *MockRepository) ListSyncRuns(limit int) ([]SyncRun, error) {
	if limit <= 0 {
		limit = 50
	}
	runs := make([]SyncRun, 0, len(m.runs))
	for _, r := range m.runs {
		runs = append(runs, *r)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID > runs[j].ID })
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// GetSyncRun retrieves a run by ID
func (m *MockRepository) GetSyncRun(runID int64) (*SyncRun, error) {
	run, ok := m.runs[runID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *run
	return &copied, nil
}

// SaveRecord appends a record
func (m *MockRepository) SaveRecord(record *SyncRecord) error {
	m.SaveRecordCalled = true
	m.LastSavedRecord = record
	if m.SaveRecordErr != nil {
		return m.SaveRecordErr
	}
	record.ID = m.nextRecID
	m.nextRecID++
	m.records = append(m.records, *record)
	return nil
}

// ListRecords returns the records of one run
func (m *MockRepository) ListRecords(runID int64) ([]SyncRecord, error) {
	result := make([]SyncRecord, 0)
	for _, r := range m.records {
		if r.RunID == runID {
			result = append(result, r)
		}
	}
	return result, nil
}

// GetStats computes statistics from the in-memory data
func (m *MockRepository) GetStats() (*Stats, error) {
	if m.GetStatsErr != nil {
		return nil, m.GetStatsErr
	}

	stats := &Stats{
		OutcomeCounts: make(map[Outcome]int),
		SourceStats:   make(map[string]SourceStats),
	}

	for _, run := range m.runs {
		stats.TotalRuns++
		if run.Status == RunStatusFailed {
			stats.FailedRuns++
		}
		ss := stats.SourceStats[run.Source]
		ss.Runs++
		ss.Created += run.Created
		stats.SourceStats[run.Source] = ss
	}

	total := decimal.Zero
	for _, r := range m.records {
		stats.TotalRecords++
		stats.OutcomeCounts[r.Outcome]++
		if r.Outcome == OutcomeCreated {
			d, err := decimal.NewFromString(r.Amount)
			if err != nil {
				return nil, fmt.Errorf("invalid stored amount %q: %w", r.Amount, err)
			}
			total = total.Add(d.Neg())
		}
	}
	stats.CreatedAmount = total.StringFixed(2)

	return stats, nil
}

// LogAPICall appends an API call
func (m *MockRepository) LogAPICall(call *APICall) error {
	m.LogAPICallCalled = true
	if m.LogAPICallErr != nil {
		return m.LogAPICallErr
	}
	m.apiCalls = append(m.apiCalls, *call)
	return nil
}

// GetAPICallsByRunID retrieves API calls for a sync run
func (m *MockRepository) GetAPICallsByRunID(runID int64) ([]APICall, error) {
	var result []APICall
	for _, call := range m.apiCalls {
		if call.RunID == runID {
			result = append(result, call)
		}
	}
	return result, nil
}

// Helper methods for tests

// GetAllRecords returns every stored record
func (m *MockRepository) GetAllRecords() []SyncRecord {
	return append([]SyncRecord(nil), m.records...)
}

// GetAllAPICalls returns every logged API call
func (m *MockRepository) GetAllAPICalls() []APICall {
	return append([]APICall(nil), m.apiCalls...)
}

// Reset clears all data and hooks
func (m *MockRepository) Reset() {
	*m = *NewMockRepository()
}
