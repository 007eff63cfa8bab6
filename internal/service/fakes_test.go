package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	json "github.com/goccy/go-json"

	"github.com/TWRT/project-gantt/internal/chart"
	"github.com/TWRT/project-gantt/internal/models"
)

type searchCall struct {
	Model  string
	Domain models.Domain
	Fields []string
	Opts   models.SearchOptions
}

type writeCall struct {
	Model  string
	Ids    []int64
	Values map[string]any
}

type fakeStore struct {
	mu       sync.Mutex
	projects []map[string]any
	tasks    []map[string]any
	searches []searchCall
	writes   []writeCall
	writeErr error
	writeFn  func(call writeCall) error
	searchFn func(call searchCall) error
}

func (f *fakeStore) SearchRead(ctx context.Context, model string, domain models.Domain, fields []string, opts models.SearchOptions, out any) error {
	call := searchCall{Model: model, Domain: domain, Fields: fields, Opts: opts}
	f.mu.Lock()
	f.searches = append(f.searches, call)
	fn := f.searchFn
	rows := f.tasks
	if model == ProjectModel {
		rows = f.projects
	}
	f.mu.Unlock()

	if fn != nil {
		if err := fn(call); err != nil {
			return err
		}
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	f.mu.Lock()
	data, err := json.Marshal(rows)
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Write records the call and, when it succeeds, applies the values to the
// stored rows so later searches see them.
func (f *fakeStore) Write(ctx context.Context, model string, ids []int64, values map[string]any) error {
	call := writeCall{Model: model, Ids: ids, Values: values}
	f.mu.Lock()
	f.writes = append(f.writes, call)
	fn, err := f.writeFn, f.writeErr
	f.mu.Unlock()

	if fn != nil {
		if ferr := fn(call); ferr != nil {
			err = ferr
		}
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.tasks {
		for _, id := range ids {
			if row["id"] == id {
				for k, v := range values {
					row[k] = v
				}
			}
		}
	}
	return nil
}

func (f *fakeStore) projectSearches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.searches {
		if c.Model == ProjectModel {
			n++
		}
	}
	return n
}

func (f *fakeStore) taskSearches() []searchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []searchCall
	for _, c := range f.searches {
		if c.Model == TaskModel {
			out = append(out, c)
		}
	}
	return out
}

type fakeNotifier struct {
	mu    sync.Mutex
	notes []models.Notification
}

func (n *fakeNotifier) Notify(message string, severity models.Severity) models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	note := models.Notification{Message: message, Type: severity}
	n.notes = append(n.notes, note)
	return note
}

func (n *fakeNotifier) bySeverity(sev models.Severity) []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []models.Notification
	for _, note := range n.notes {
		if note.Type == sev {
			out = append(out, note)
		}
	}
	return out
}

type fakeNavigator struct {
	actions []models.Action
}

func (n *fakeNavigator) DoAction(ctx context.Context, action models.Action) error {
	n.actions = append(n.actions, action)
	return nil
}

// countingLibrary builds SVG widgets and counts how many it built.
type countingLibrary struct {
	built atomic.Int32
}

func (l *countingLibrary) New(tasks []models.ChartTask, opts chart.Options) (chart.Widget, error) {
	l.built.Add(1)
	return chart.SVGLibrary{}.New(tasks, opts)
}

type brokenLibrary struct{}

func (brokenLibrary) New(tasks []models.ChartTask, opts chart.Options) (chart.Widget, error) {
	return nil, errors.New("frappe-gantt not loaded")
}

func taskRow(id int64, name, start, end string, progress any, projectId int64) map[string]any {
	row := map[string]any{
		"id":               id,
		"name":             name,
		"gantt_start_date": start,
		"gantt_end_date":   end,
		"progress":         progress,
		"project_id":       false,
	}
	if projectId != 0 {
		row["project_id"] = []any{projectId, "Project"}
	}
	return row
}
