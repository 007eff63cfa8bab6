package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/TWRT/project-gantt/internal/client"
	"github.com/TWRT/project-gantt/internal/models"
)

const (
	ProjectModel = "project.project"
	TaskModel    = "project.task"

	FieldStart   = "gantt_start_date"
	FieldEnd     = "gantt_end_date"
	FieldProject = "project_id"

	// RecordLimit caps every search_read issued by the loader.
	RecordLimit = 10000
)

var (
	ProjectFields = []string{"id", "name"}
	TaskFields    = []string{"name", FieldStart, FieldEnd, "progress", FieldProject}
)

// TaskFilter selects the tasks shown on the chart. ProjectId 0 means every project.
type TaskFilter struct {
	ProjectId int64
	Window    models.DateWindow
}

// TaskDomain builds the search domain for f. Tasks must carry both dates and
// overlap the window, whose bounds are whole days.
func TaskDomain(f TaskFilter) models.Domain {
	domain := models.Domain{
		{Field: FieldStart, Operator: "!=", Value: false},
		{Field: FieldEnd, Operator: "!=", Value: false},
		{Field: FieldEnd, Operator: ">=", Value: f.Window.FromString() + " 00:00:00"},
		{Field: FieldStart, Operator: "<=", Value: f.Window.ToString() + " 23:59:59"},
	}
	if f.ProjectId != 0 {
		domain = append(domain, models.Condition{Field: FieldProject, Operator: "=", Value: f.ProjectId})
	}
	return domain
}

type Loader struct {
	store client.RecordStore
	limit int
	group singleflight.Group
}

func NewLoader(store client.RecordStore) *Loader {
	return &Loader{store: store, limit: RecordLimit}
}

// LoadProjects lists every project. Concurrent callers share one fetch.
func (l *Loader) LoadProjects(ctx context.Context) ([]models.Project, error) {
	v, err, _ := l.group.Do("projects", func() (any, error) {
		projects := []models.Project{}
		err := l.store.SearchRead(ctx, ProjectModel, models.Domain{}, ProjectFields, models.SearchOptions{Limit: l.limit}, &projects)
		return projects, err
	})
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	return append([]models.Project(nil), v.([]models.Project)...), nil
}

func (l *Loader) LoadTasks(ctx context.Context, filter TaskFilter) ([]models.TaskRecord, error) {
	records := []models.TaskRecord{}
	err := l.store.SearchRead(ctx, TaskModel, TaskDomain(filter), TaskFields, models.SearchOptions{Limit: l.limit}, &records)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return records, nil
}
