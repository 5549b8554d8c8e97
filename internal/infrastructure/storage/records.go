package storage

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SaveRecord stores the outcome of one considered transaction
func (s *Storage) SaveRecord(record *SyncRecord) error {
	recordedAt := record.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO sync_records
	(run_id, transaction_id, transaction_date, amount, description, account_name,
	 outcome, expense_id, match_kind, error_message, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		record.RunID,
		record.TransactionID,
		record.TransactionDate,
		record.Amount,
		record.Description,
		record.AccountName,
		string(record.Outcome),
		record.ExpenseID,
		record.MatchKind,
		record.ErrorMessage,
		recordedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err == nil {
		record.ID = id
		record.RecordedAt = recordedAt
	}
	return err
}

// ListRecords returns the records of a run in processing order
func (s *Storage) ListRecords(runID int64) ([]SyncRecord, error) {
	query := `
	SELECT id, run_id, transaction_id, transaction_date, amount, description,
	       account_name, outcome, expense_id, match_kind, error_message, recorded_at
	FROM sync_records
	WHERE run_id = ?
	ORDER BY id ASC
	`

	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	records := make([]SyncRecord, 0)
	for rows.Next() {
		var rec SyncRecord
		var outcome string
		err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.TransactionID,
			&rec.TransactionDate,
			&rec.Amount,
			&rec.Description,
			&rec.AccountName,
			&outcome,
			&rec.ExpenseID,
			&rec.MatchKind,
			&rec.ErrorMessage,
			&rec.RecordedAt,
		)
		if err != nil {
			return nil, err
		}
		rec.Outcome = Outcome(outcome)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetStats returns aggregate statistics across all runs
func (s *Storage) GetStats() (*Stats, error) {
	stats := &Stats{
		OutcomeCounts: make(map[Outcome]int),
		SourceStats:   make(map[string]SourceStats),
	}

	err := s.db.QueryRow(`
	SELECT
		COUNT(*) as total,
		COUNT(CASE WHEN status = 'failed' THEN 1 END) as failed
	FROM sync_runs
	`).Scan(&stats.TotalRuns, &stats.FailedRuns)
	if err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}

	if err := s.outcomeStats(stats); err != nil {
		return nil, fmt.Errorf("failed to load outcome stats: %w", err)
	}
	if err := s.createdAmount(stats); err != nil {
		return nil, fmt.Errorf("failed to sum created amounts: %w", err)
	}
	if err := s.sourceStats(stats); err != nil {
		return nil, fmt.Errorf("failed to load source stats: %w", err)
	}

	return stats, nil
}

func (s *Storage) outcomeStats(stats *Stats) error {
	rows, err := s.db.Query(`SELECT outcome, COUNT(*) FROM sync_records GROUP BY outcome`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return err
		}
		stats.OutcomeCounts[Outcome(outcome)] = count
		stats.TotalRecords += count
	}
	return rows.Err()
}

// createdAmount sums in Go; SQLite would round the amounts through REAL
func (s *Storage) createdAmount(stats *Stats) error {
	rows, err := s.db.Query(`SELECT amount FROM sync_records WHERE outcome = ?`, string(OutcomeCreated))
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	total := decimal.Zero
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return err
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return fmt.Errorf("invalid stored amount %q: %w", amount, err)
		}
		total = total.Add(d.Neg())
	}
	if err := rows.Err(); err != nil {
		return err
	}

	stats.CreatedAmount = total.StringFixed(2)
	return nil
}

func (s *Storage) sourceStats(stats *Stats) error {
	rows, err := s.db.Query(`
	SELECT
		r.source,
		COUNT(*) as runs,
		COALESCE(SUM(r.created_count), 0) as created
	FROM sync_runs r
	GROUP BY r.source
	`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var source string
		var ss SourceStats
		if err := rows.Scan(&source, &ss.Runs, &ss.Created); err != nil {
			return err
		}
		stats.SourceStats[source] = ss
	}
	return rows.Err()
}
