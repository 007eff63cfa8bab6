package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type DateEditStatus string

const (
	DateEditSuccess DateEditStatus = "success"
	DateEditFailed  DateEditStatus = "failed"
)

// DateEdit is one attempt to persist dates dragged on the chart.
type DateEdit struct {
	ID           int64          `json:"id"`
	TaskID       int64          `json:"task_id"`
	StartDate    string         `json:"start_date"`
	EndDate      string         `json:"end_date"`
	Status       DateEditStatus `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type DateEditRepository struct {
	db *sql.DB
}

func NewDateEditRepository(db *sql.DB) *DateEditRepository {
	return &DateEditRepository{db: db}
}

func (r *DateEditRepository) Create(ctx context.Context, edit *DateEdit) (int64, error) {
	query := `
		INSERT INTO date_edits (task_id, start_date, end_date, status, error_message)
        VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		edit.TaskID,
		edit.StartDate,
		edit.EndDate,
		edit.Status,
		edit.ErrorMessage,
	)
	if err != nil {
		return 0, fmt.Errorf("create date edit: %w", err)
	}

	return result.LastInsertId()
}

func (r *DateEditRepository) List(ctx context.Context, limit int) ([]DateEdit, error) {
	query := `
		SELECT id, task_id, start_date, end_date, status, COALESCE(error_message, ''), created_at
		FROM date_edits ORDER BY id DESC LIMIT ?
	`
	return r.query(ctx, query, limit)
}

func (r *DateEditRepository) ListByTask(ctx context.Context, taskID int64) ([]DateEdit, error) {
	query := `
		SELECT id, task_id, start_date, end_date, status, COALESCE(error_message, ''), created_at
		FROM date_edits WHERE task_id = ? ORDER BY id DESC
	`
	return r.query(ctx, query, taskID)
}

func (r *DateEditRepository) query(ctx context.Context, query string, args ...any) ([]DateEdit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Error trying to get date edits: %w", err)
	}
	defer rows.Close()

	edits := []DateEdit{}
	for rows.Next() {
		var e DateEdit
		if err := rows.Scan(
			&e.ID,
			&e.TaskID,
			&e.StartDate,
			&e.EndDate,
			&e.Status,
			&e.ErrorMessage,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		edits = append(edits, e)
	}

	return edits, rows.Err()
}
