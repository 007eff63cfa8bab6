package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SavedView is the filter/window/mode a named Gantt view was last left in.
type SavedView struct {
	Name      string
	ProjectID int64
	DateFrom  string
	DateTo    string
	ViewMode  string
}

type SavedViewRepository struct {
	db *sql.DB
}

func NewSavedViewRepository(db *sql.DB) *SavedViewRepository {
	return &SavedViewRepository{db: db}
}

func (r *SavedViewRepository) Save(ctx context.Context, view SavedView) error {
	query := `
		INSERT INTO saved_views (name, project_id, date_from, date_to, view_mode)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			project_id = excluded.project_id,
			date_from = excluded.date_from,
			date_to = excluded.date_to,
			view_mode = excluded.view_mode,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.ExecContext(ctx, query, view.Name, view.ProjectID, view.DateFrom, view.DateTo, view.ViewMode); err != nil {
		return fmt.Errorf("save view %q: %w", view.Name, err)
	}
	return nil
}

// Load returns false when no view was saved under name.
func (r *SavedViewRepository) Load(ctx context.Context, name string) (SavedView, bool, error) {
	query := `SELECT name, project_id, date_from, date_to, view_mode FROM saved_views WHERE name = ?`

	var v SavedView
	err := r.db.QueryRowContext(ctx, query, name).Scan(&v.Name, &v.ProjectID, &v.DateFrom, &v.DateTo, &v.ViewMode)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedView{}, false, nil
	}
	if err != nil {
		return SavedView{}, false, fmt.Errorf("Error trying to get view %q: %w", name, err)
	}
	return v, true, nil
}
