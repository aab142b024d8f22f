package store

import (
	"fmt"

	"github.com/Fukuemon/receipt-checker/internal/model"
)

// RunLog 照合実行 1 回分の履歴
type RunLog struct {
	ID              int64  `json:"id"`
	RunID           string `json:"runId"`
	ReceiptFilename string `json:"receiptFilename"`
	Status          string `json:"status"` // processing / completed / failed
	ErrorMessage    string `json:"errorMessage"`
	Mismatched      int    `json:"mismatched"`
	CalendarOnly    int    `json:"calendarOnly"`
	IbowOnly        int    `json:"ibowOnly"`
	Matched         int    `json:"matched"`
	AlertsSent      int    `json:"alertsSent"`
	StartedAt       string `json:"startedAt"`
	CompletedAt     string `json:"completedAt"`
}

// CreateRunLog 実行履歴を作成し、run_logs.id を返す
func (s *Store) CreateRunLog(runID, receiptFilename string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO run_logs (run_id, receipt_filename, status)
		VALUES (?, ?, 'processing')
	`, runID, receiptFilename)
	if err != nil {
		return 0, fmt.Errorf("failed to create run log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run log id: %w", err)
	}
	return id, nil
}

// CompleteRunLog 実行完了を記録する
func (s *Store) CompleteRunLog(id int64, summary model.Summary, alertsSent int) error {
	_, err := s.db.Exec(`
		UPDATE run_logs SET
			status = 'completed',
			mismatched_count = ?,
			calendar_only_count = ?,
			ibow_only_count = ?,
			matched_count = ?,
			alerts_sent = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, summary.Mismatched, summary.CalendarOnly, summary.IbowOnly, summary.Matched, alertsSent, id)
	if err != nil {
		return fmt.Errorf("failed to complete run log: %w", err)
	}
	return nil
}

// FailRunLog 実行失敗を記録する
func (s *Store) FailRunLog(id int64, message string) error {
	_, err := s.db.Exec(`
		UPDATE run_logs SET
			status = 'failed',
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, message, id)
	if err != nil {
		return fmt.Errorf("failed to mark run log as failed: %w", err)
	}
	return nil
}

// ListRuns 新しい順に実行履歴を返す
func (s *Store) ListRuns(limit int) ([]RunLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, run_id, receipt_filename, status, error_message,
		       mismatched_count, calendar_only_count, ibow_only_count, matched_count,
		       alerts_sent, started_at, COALESCE(completed_at, '')
		FROM run_logs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunLog
	for rows.Next() {
		var r RunLog
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.ReceiptFilename, &r.Status, &r.ErrorMessage,
			&r.Mismatched, &r.CalendarOnly, &r.IbowOnly, &r.Matched,
			&r.AlertsSent, &r.StartedAt, &r.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run log: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LastRun 直近の実行履歴を返す。履歴がなければ nil
func (s *Store) LastRun() (*RunLog, error) {
	runs, err := s.ListRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
