package storage

import (
	"database/sql"
	"errors"
	"time"
)

const syncRunColumns = `
	id, run_uuid, source, file_path, group_id, dry_run, assume_yes,
	snapshot_policy, started_at, completed_at, transactions_read,
	transactions_considered, created_count, dry_run_count, duplicate_count,
	declined_count, failed_count, status, error_message`

// StartSyncRun records the start of a sync run
func (s *Storage) StartSyncRun(run *SyncRun) (int64, error) {
	startedAt := run.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}
	policy := run.SnapshotPolicy
	if policy == "" {
		policy = "static"
	}

	query := `
		INSERT INTO sync_runs
		(run_uuid, source, file_path, group_id, dry_run, assume_yes, snapshot_policy, started_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		run.RunUUID,
		run.Source,
		run.FilePath,
		run.GroupID,
		run.DryRun,
		run.AssumeYes,
		policy,
		startedAt,
		RunStatusRunning,
	)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// CompleteSyncRun records the completion of a sync run
func (s *Storage) CompleteSyncRun(runID int64, counts RunCounts) error {
	status := RunStatusCompleted
	if counts.Failed > 0 {
		status = RunStatusCompletedWithErrors
	}

	query := `
		UPDATE sync_runs
		SET completed_at = ?,
		    transactions_read = ?,
		    transactions_considered = ?,
		    created_count = ?,
		    dry_run_count = ?,
		    duplicate_count = ?,
		    declined_count = ?,
		    failed_count = ?,
		    status = ?
		WHERE id = ?
	`

	_, err := s.db.Exec(query,
		time.Now().UTC(),
		counts.TransactionsRead,
		counts.TransactionsConsidered,
		counts.Created,
		counts.DryRunCount,
		counts.Duplicates,
		counts.Declined,
		counts.Failed,
		status,
		runID,
	)
	return err
}

// FailSyncRun marks a run as aborted
func (s *Storage) FailSyncRun(runID int64, errMsg string) error {
	query := `
		UPDATE sync_runs
		SET completed_at = ?, status = ?, error_message = ?
		WHERE id = ?
	`
	_, err := s.db.Exec(query, time.Now().UTC(), RunStatusFailed, errMsg, runID)
	return err
}

// ListSyncRuns returns recent sync runs, newest first
func (s *Storage) ListSyncRuns(limit int) ([]SyncRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`SELECT `+syncRunColumns+` FROM sync_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	runs := make([]SyncRun, 0)
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// GetSyncRun retrieves a sync run by ID
func (s *Storage) GetSyncRun(runID int64) (*SyncRun, error) {
	row := s.db.QueryRow(`SELECT `+syncRunColumns+` FROM sync_runs WHERE id = ?`, runID)
	run, err := scanSyncRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSyncRun(sc scanner) (*SyncRun, error) {
	var run SyncRun
	var completedAt sql.NullTime

	err := sc.Scan(
		&run.ID,
		&run.RunUUID,
		&run.Source,
		&run.FilePath,
		&run.GroupID,
		&run.DryRun,
		&run.AssumeYes,
		&run.SnapshotPolicy,
		&run.StartedAt,
		&completedAt,
		&run.TransactionsRead,
		&run.TransactionsConsidered,
		&run.Created,
		&run.DryRunCount,
		&run.Duplicates,
		&run.Declined,
		&run.Failed,
		&run.Status,
		&run.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	return &run, nil
}
