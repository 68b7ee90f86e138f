package store

import (
	"fmt"
	"time"
)

// Run is one recorded pipeline run.
type Run struct {
	ID           int64      `json:"id"`
	JobID        string     `json:"job_id"`
	Filenames    string     `json:"filenames"`
	TotalBytes   int64      `json:"total_bytes"`
	RowsIn       int        `json:"rows_in"`
	RowsOut      int        `json:"rows_out"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// CreateRun records the start of a pipeline run and returns its row id.
func (s *Store) CreateRun(jobID, filenames string, totalBytes int64) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO runs (job_id, filenames, total_bytes, status)
		VALUES (?, ?, ?, 'processing')
	`, jobID, filenames, totalBytes)
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	return id, nil
}

// CompleteRun finalizes a run record.
func (s *Store) CompleteRun(id int64, rowsIn, rowsOut int, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE runs SET
			rows_in = ?,
			rows_out = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, rowsIn, rowsOut, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, job_id, filenames, total_bytes, rows_in, rows_out,
		       status, error_message, started_at, completed_at
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r := &Run{}
		if err := rows.Scan(&r.ID, &r.JobID, &r.Filenames, &r.TotalBytes,
			&r.RowsIn, &r.RowsOut, &r.Status, &r.ErrorMessage,
			&r.StartedAt, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
