package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "gantt.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDateEditRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewDateEditRepository(newTestDB(t))

	if _, err := repo.Create(ctx, &DateEdit{TaskID: 42, StartDate: "2024-03-05 00:00:00", EndDate: "2024-03-07 00:00:00", Status: DateEditSuccess}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := repo.Create(ctx, &DateEdit{TaskID: 42, StartDate: "2024-03-08 00:00:00", EndDate: "2024-03-01 00:00:00", Status: DateEditFailed, ErrorMessage: "end before start"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := repo.Create(ctx, &DateEdit{TaskID: 7, StartDate: "2024-03-01 00:00:00", EndDate: "2024-03-02 00:00:00", Status: DateEditSuccess}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	edits, err := repo.ListByTask(ctx, 42)
	if err != nil {
		t.Fatalf("ListByTask failed: %v", err)
	}
	if len(edits) != 2 {
		t.Fatalf("expected 2 edits for task 42, got %d", len(edits))
	}
	if edits[0].Status != DateEditFailed || edits[0].ErrorMessage != "end before start" {
		t.Errorf("expected newest edit first, got %+v", edits[0])
	}
	if edits[1].ErrorMessage != "" {
		t.Errorf("expected empty error message, got %q", edits[1].ErrorMessage)
	}

	all, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 || all[0].TaskID != 7 {
		t.Errorf("unexpected List result: %+v", all)
	}
}

func TestSavedViewRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSavedViewRepository(newTestDB(t))

	if _, ok, err := repo.Load(ctx, "default"); err != nil || ok {
		t.Fatalf("expected no saved view, got ok=%v err=%v", ok, err)
	}

	view := SavedView{Name: "default", ProjectID: 3, DateFrom: "2024-03-01", DateTo: "2024-03-31", ViewMode: "Week"}
	if err := repo.Save(ctx, view); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	view.ProjectID = 0
	view.ViewMode = "Month"
	if err := repo.Save(ctx, view); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, ok, err := repo.Load(ctx, "default")
	if err != nil || !ok {
		t.Fatalf("Load failed: ok=%v err=%v", ok, err)
	}
	if got != view {
		t.Errorf("expected %+v, got %+v", view, got)
	}
}
