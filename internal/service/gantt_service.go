package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/TWRT/project-gantt/internal/chart"
	"github.com/TWRT/project-gantt/internal/client"
	"github.com/TWRT/project-gantt/internal/models"
	"github.com/TWRT/project-gantt/internal/repository"
)

var (
	ErrNoChartLibrary = errors.New("no chart library configured")
	ErrNotRendered    = errors.New("gantt chart not rendered")
	ErrTaskNotFound   = errors.New("task not on chart")
	ErrEndBeforeStart = errors.New("the end date must be after the start date")
	ErrWriteRejected  = errors.New("task date write rejected")
	ErrClosed         = errors.New("gantt view closed")
)

const (
	msgLibraryUnavailable = "Could not load the Gantt chart library."
	msgDatesUpdated       = "Dates updated."
	msgUpdateFailed       = "Could not update the task."
	msgInvalidTaskDates   = "Some tasks have invalid dates and could not be shown."
)

type EditJournal interface {
	Create(ctx context.Context, edit *repository.DateEdit) (int64, error)
	List(ctx context.Context, limit int) ([]repository.DateEdit, error)
	ListByTask(ctx context.Context, taskID int64) ([]repository.DateEdit, error)
}

type ViewStore interface {
	Save(ctx context.Context, view repository.SavedView) error
	Load(ctx context.Context, name string) (repository.SavedView, bool, error)
}

type GanttOptions struct {
	ViewName string
	Chart    chart.Options
	Now      func() time.Time
}

// ViewUpdate changes any subset of the filter, window and zoom mode.
type ViewUpdate struct {
	ProjectId *int64
	DateFrom  *string
	DateTo    *string
	ViewMode  *string
}

type span struct {
	start time.Time
	end   time.Time
}

// GanttService binds the store's tasks to one chart widget. Confirmed tasks
// mirror the store; pending spans are drags awaiting the write result.
type GanttService struct {
	loader    *Loader
	store     client.RecordStore
	library   chart.Library
	navigator client.Navigator
	notifier  client.Notifier
	journal   EditJournal
	views     ViewStore
	logger    *log.Logger
	viewName  string

	mu           sync.Mutex
	chartOpts    chart.Options
	phase        models.Phase
	projectId    int64
	window       models.DateWindow
	mode         models.ViewMode
	projects     []models.Project
	confirmed    []models.ChartTask
	pending      map[int64]span
	widget       chart.Widget
	gen          uint64
	cancelReload context.CancelFunc
}

func NewGanttService(
	loader *Loader,
	store client.RecordStore,
	library chart.Library,
	navigator client.Navigator,
	notifier client.Notifier,
	journal EditJournal,
	views ViewStore,
	logger *log.Logger,
	opts GanttOptions,
) (*GanttService, error) {
	if library == nil {
		return nil, ErrNoChartLibrary
	}
	if loader == nil || store == nil || navigator == nil || notifier == nil {
		return nil, errors.New("gantt service: loader, store, navigator and notifier are required")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	name := opts.ViewName
	if name == "" {
		name = "default"
	}
	chartOpts := opts.Chart
	if chartOpts.Popup == nil {
		chartOpts.Popup = chart.RenderPopup
	}
	mode := chartOpts.ViewMode
	if mode == "" {
		mode = models.ViewModeMonth
	}

	return &GanttService{
		loader:    loader,
		store:     store,
		library:   library,
		navigator: navigator,
		notifier:  notifier,
		journal:   journal,
		views:     views,
		logger:    logger,
		viewName:  name,
		chartOpts: chartOpts,
		phase:     models.PhaseUninitialized,
		window:    models.MonthWindow(now()),
		mode:      mode,
		pending:   map[int64]span{},
	}, nil
}

// Init restores the saved view, loads projects then tasks, and builds the widget.
func (s *GanttService) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.phase == models.PhaseClosed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.phase = models.PhaseLoading
	s.mu.Unlock()

	s.restoreView(ctx)

	if _, err := s.Projects(ctx); err != nil {
		return err
	}
	return s.reload(ctx)
}

// Projects refetches the project list. Concurrent callers share one fetch.
func (s *GanttService) Projects(ctx context.Context) ([]models.Project, error) {
	projects, err := s.loader.LoadProjects(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	return append([]models.Project{}, projects...), nil
}

func (s *GanttService) restoreView(ctx context.Context) {
	if s.views == nil {
		return
	}
	saved, ok, err := s.views.Load(ctx, s.viewName)
	if err != nil {
		s.logger.Warn("could not restore saved view", "view", s.viewName, "err", err)
		return
	}
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectId = saved.ProjectID
	if w, err := models.ParseDateWindow(saved.DateFrom, saved.DateTo); err == nil {
		s.window = w
	} else {
		s.logger.Warn("ignoring saved date window", "view", s.viewName, "err", err)
	}
	if m, err := models.ParseViewMode(saved.ViewMode); err == nil {
		s.mode = m
	}
	s.logger.Debug("restored view", "view", s.viewName, "project_id", s.projectId, "mode", s.mode)
}

// buildWidget creates the widget from the confirmed tasks. Callers hold mu.
// A library failure is final: the phase stays unavailable and no retry is made.
func (s *GanttService) buildWidget() error {
	opts := s.chartOpts
	opts.ViewMode = s.mode
	widget, err := s.library.New(s.confirmed, opts)
	if err != nil {
		s.phase = models.PhaseUnavailable
		s.notifier.Notify(msgLibraryUnavailable, models.SeverityDanger)
		s.logger.Error("chart library unavailable", "err", err)
		return fmt.Errorf("%w: %v", chart.ErrLibraryUnavailable, err)
	}
	s.widget = widget
	s.phase = models.PhaseRendered
	s.logger.Info("gantt chart rendered", "tasks", len(s.confirmed), "mode", s.mode)
	return nil
}

// needsWidget reports whether a reload should create the widget. Callers hold mu.
func (s *GanttService) needsWidget() bool {
	return s.widget == nil && s.phase != models.PhaseUnavailable && s.phase != models.PhaseClosed
}

// reload refetches tasks for the current filter. A newer reload cancels and
// supersedes an older one; superseded results are dropped. The first
// reload that completes builds the widget, even with an empty task list.
func (s *GanttService) reload(ctx context.Context) error {
	s.mu.Lock()
	if s.phase == models.PhaseClosed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.cancelReload != nil {
		s.cancelReload()
	}
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(ctx)
	s.cancelReload = cancel
	filter := TaskFilter{ProjectId: s.projectId, Window: s.window}
	prevPhase := s.phase
	if s.phase == models.PhaseRendered {
		s.phase = models.PhaseLoading
	}
	s.mu.Unlock()
	defer cancel()

	records, err := s.loader.LoadTasks(ctx, filter)
	var tasks []models.ChartTask
	var tsErr *TimestampError
	if err == nil {
		tasks, err = MapTasks(records)
		if errors.As(err, &tsErr) {
			s.notifier.Notify(msgInvalidTaskDates, models.SeverityDanger)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.logger.Debug("dropping superseded reload", "generation", gen)
		return nil
	}
	s.cancelReload = nil
	if s.phase == models.PhaseLoading && prevPhase == models.PhaseRendered {
		s.phase = models.PhaseRendered
	}
	if err != nil {
		// bad rows leave the confirmed list as is, but the chart still comes up
		if tsErr != nil && s.needsWidget() {
			if werr := s.buildWidget(); werr != nil {
				return errors.Join(err, werr)
			}
		}
		return err
	}

	s.confirmed = tasks
	s.logger.Info("loaded tasks", "count", len(tasks), "project_id", filter.ProjectId,
		"from", filter.Window.FromString(), "to", filter.Window.ToString())

	if s.needsWidget() {
		if err := s.buildWidget(); err != nil {
			return err
		}
		s.reapplyPending()
		return nil
	}
	if s.widget == nil {
		return nil
	}
	s.widget.Refresh(tasks)
	s.reapplyPending()
	if err := s.widget.ChangeViewMode(s.mode); err != nil {
		return err
	}
	s.phase = models.PhaseRendered
	return nil
}

// reapplyPending redraws the spans of writes still in flight over the
// refreshed widget. Spans whose task left the chart are dropped. Callers hold mu.
func (s *GanttService) reapplyPending() {
	s.widget.ClearProvisional()
	for id, sp := range s.pending {
		if err := s.widget.SetProvisional(models.TaskKey(id), sp.start, sp.end); err != nil {
			s.logger.Debug("dropping pending span", "task_id", id, "err", err)
			delete(s.pending, id)
		}
	}
}

func (s *GanttService) Reload(ctx context.Context) error {
	return s.reload(ctx)
}

// UpdateView applies u and refreshes the widget in place with one query.
func (s *GanttService) UpdateView(ctx context.Context, u ViewUpdate) error {
	var (
		mode   models.ViewMode
		window models.DateWindow
		err    error
	)
	if u.ProjectId != nil && *u.ProjectId < 0 {
		return fmt.Errorf("invalid project id %d", *u.ProjectId)
	}
	if u.ViewMode != nil {
		if mode, err = models.ParseViewMode(*u.ViewMode); err != nil {
			return err
		}
	}

	s.mu.Lock()
	if u.DateFrom != nil || u.DateTo != nil {
		from, to := s.window.FromString(), s.window.ToString()
		if u.DateFrom != nil {
			from = *u.DateFrom
		}
		if u.DateTo != nil {
			to = *u.DateTo
		}
		if window, err = models.ParseDateWindow(from, to); err != nil {
			s.mu.Unlock()
			return err
		}
		s.window = window
	}
	if u.ProjectId != nil {
		s.projectId = *u.ProjectId
	}
	if u.ViewMode != nil {
		s.mode = mode
	}
	projectId, window, mode := s.projectId, s.window, s.mode
	s.mu.Unlock()

	s.saveView(ctx, projectId, window, mode)
	return s.reload(ctx)
}

func (s *GanttService) SetProject(ctx context.Context, projectId int64) error {
	return s.UpdateView(ctx, ViewUpdate{ProjectId: &projectId})
}

func (s *GanttService) SetDateWindow(ctx context.Context, from, to string) error {
	return s.UpdateView(ctx, ViewUpdate{DateFrom: &from, DateTo: &to})
}

func (s *GanttService) SetViewMode(ctx context.Context, mode string) error {
	return s.UpdateView(ctx, ViewUpdate{ViewMode: &mode})
}

func (s *GanttService) saveView(ctx context.Context, projectId int64, window models.DateWindow, mode models.ViewMode) {
	if s.views == nil {
		return
	}
	err := s.views.Save(ctx, repository.SavedView{
		Name:      s.viewName,
		ProjectID: projectId,
		DateFrom:  window.FromString(),
		DateTo:    window.ToString(),
		ViewMode:  string(mode),
	})
	if err != nil {
		s.logger.Warn("could not save view", "view", s.viewName, "err", err)
	}
}

func (s *GanttService) findConfirmed(taskID int64) int {
	for i, t := range s.confirmed {
		if t.RecordId == taskID {
			return i
		}
	}
	return -1
}

// Click opens the task's form view in the current context.
func (s *GanttService) Click(ctx context.Context, taskID int64) error {
	s.mu.Lock()
	found := s.findConfirmed(taskID) >= 0
	s.mu.Unlock()
	if !found {
		return fmt.Errorf("%w: %d", ErrTaskNotFound, taskID)
	}

	return s.navigator.DoAction(ctx, models.Action{
		Type:     "ir.actions.act_window",
		ResModel: TaskModel,
		ResId:    taskID,
		Views:    []models.ViewRef{{Type: "form"}},
		Target:   "current",
	})
}

func (s *GanttService) Popup(taskID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.widget == nil {
		return "", ErrNotRendered
	}
	html, err := s.widget.Popup(models.TaskKey(taskID))
	if errors.Is(err, chart.ErrUnknownTask) {
		return "", fmt.Errorf("%w: %d", ErrTaskNotFound, taskID)
	}
	return html, err
}

// ChangeDates persists a drag. The widget shows the new span at once; the
// store write decides whether it is committed or rolled back by a reload.
func (s *GanttService) ChangeDates(ctx context.Context, taskID int64, start, end time.Time) error {
	start, end = start.UTC(), end.UTC()

	s.mu.Lock()
	if s.widget == nil {
		s.mu.Unlock()
		return ErrNotRendered
	}
	if s.findConfirmed(taskID) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrTaskNotFound, taskID)
	}
	if err := s.widget.SetProvisional(models.TaskKey(taskID), start, end); err != nil {
		s.mu.Unlock()
		return err
	}
	s.pending[taskID] = span{start: start, end: end}
	s.mu.Unlock()

	startStr, endStr := FormatStoreTime(start), FormatStoreTime(end)

	var writeErr error
	if end.Before(start) {
		writeErr = ErrEndBeforeStart
	} else {
		writeErr = s.store.Write(ctx, TaskModel, []int64{taskID}, map[string]any{
			FieldStart: startStr,
			FieldEnd:   endStr,
		})
	}
	s.record(ctx, taskID, startStr, endStr, writeErr)

	if writeErr == nil {
		committed := s.commit(taskID)
		s.notifier.Notify(msgDatesUpdated, models.SeveritySuccess)
		s.logger.Info("task dates updated", "task_id", taskID, "start", startStr, "end", endStr)
		if !committed {
			// another write's failure dropped this span; fetch what the store holds now
			return s.reload(ctx)
		}
		return nil
	}

	s.notifier.Notify(msgUpdateFailed, models.SeverityDanger)
	s.logger.Warn("task date write failed, reloading", "task_id", taskID, "err", writeErr)

	s.mu.Lock()
	s.pending = map[int64]span{}
	if s.widget != nil {
		s.widget.ClearProvisional()
		s.widget.Refresh(s.confirmed)
	}
	s.mu.Unlock()

	if err := s.reload(ctx); err != nil {
		return errors.Join(fmt.Errorf("%w: %w", ErrWriteRejected, writeErr), fmt.Errorf("reload after failed write: %w", err))
	}
	return fmt.Errorf("%w: %w", ErrWriteRejected, writeErr)
}

// commit moves a pending span into the confirmed list. It reports false when
// the span was dropped while the write was in flight.
func (s *GanttService) commit(taskID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[taskID]
	if !ok {
		return false
	}
	delete(s.pending, taskID)
	if i := s.findConfirmed(taskID); i >= 0 {
		s.confirmed[i].Start = p.start
		s.confirmed[i].End = p.end
	}
	if s.widget == nil {
		return true
	}
	s.widget.Refresh(s.confirmed)
	s.reapplyPending()
	return true
}

func (s *GanttService) record(ctx context.Context, taskID int64, start, end string, writeErr error) {
	if s.journal == nil {
		return
	}
	edit := &repository.DateEdit{
		TaskID:    taskID,
		StartDate: start,
		EndDate:   end,
		Status:    repository.DateEditSuccess,
	}
	if writeErr != nil {
		edit.Status = repository.DateEditFailed
		edit.ErrorMessage = writeErr.Error()
	}
	if _, err := s.journal.Create(ctx, edit); err != nil {
		s.logger.Warn("could not journal date edit", "task_id", taskID, "err", err)
	}
}

// Edits lists journaled date writes, newest first. taskID 0 lists all.
func (s *GanttService) Edits(ctx context.Context, taskID int64, limit int) ([]repository.DateEdit, error) {
	if s.journal == nil {
		return []repository.DateEdit{}, nil
	}
	if taskID != 0 {
		return s.journal.ListByTask(ctx, taskID)
	}
	if limit <= 0 {
		limit = 100
	}
	return s.journal.List(ctx, limit)
}

// Reconfigure swaps layout options on the live widget, keeping the view mode.
func (s *GanttService) Reconfigure(opts chart.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if opts.Popup == nil {
		opts.Popup = s.chartOpts.Popup
	}
	s.chartOpts = opts
	if s.widget != nil {
		s.widget.SetOptions(opts)
	}
	s.logger.Info("chart options reloaded", "bar_height", opts.BarHeight, "padding", opts.Padding, "column_width", opts.ColumnWidth)
}

func (s *GanttService) RenderSVG(w io.Writer) error {
	s.mu.Lock()
	widget := s.widget
	s.mu.Unlock()
	if widget == nil {
		return ErrNotRendered
	}
	return widget.Render(w)
}

func (s *GanttService) State() models.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.confirmed
	if s.widget != nil {
		tasks = s.widget.Tasks()
	}
	pending := make([]string, 0, len(s.pending))
	for id := range s.pending {
		pending = append(pending, models.TaskKey(id))
	}
	sort.Strings(pending)

	return models.ViewState{
		Phase:     s.phase,
		ProjectId: s.projectId,
		DateFrom:  s.window.FromString(),
		DateTo:    s.window.ToString(),
		ViewMode:  s.mode,
		Projects:  append([]models.Project{}, s.projects...),
		Tasks:     append([]models.ChartTask{}, tasks...),
		Pending:   pending,
	}
}

// Close cancels any reload in flight and tears the widget down.
func (s *GanttService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelReload != nil {
		s.cancelReload()
		s.cancelReload = nil
	}
	s.phase = models.PhaseClosed
	if s.widget == nil {
		return nil
	}
	err := s.widget.Close()
	s.widget = nil
	return err
}
