package chart

import (
	"fmt"
	"io"
	"sync"
	"time"

	svg "github.com/ajstarks/svgo"

	"github.com/TWRT/project-gantt/internal/models"
)

const (
	colorBackground = "#ffffff"
	colorGrid       = "#e0e0e0"
	colorHeaderText = "#555555"
	colorBar        = "#a3a3ff"
	colorProgress   = "#6f6fd8"
	colorLabel      = "#333333"
	colorProvStroke = "#d9534f"
)

type span struct {
	start time.Time
	end   time.Time
}

// SVGLibrary builds widgets that draw the chart as a static SVG document.
type SVGLibrary struct{}

func (SVGLibrary) New(tasks []models.ChartTask, opts Options) (Widget, error) {
	w := &SVGWidget{
		opts:        opts.withDefaults(),
		provisional: map[string]span{},
	}
	if _, err := models.ParseViewMode(string(w.opts.ViewMode)); err != nil {
		return nil, err
	}
	w.Refresh(tasks)
	return w, nil
}

type SVGWidget struct {
	mu          sync.RWMutex
	opts        Options
	tasks       []models.ChartTask
	provisional map[string]span
	closed      bool
}

func (w *SVGWidget) Refresh(tasks []models.ChartTask) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tasks = append([]models.ChartTask(nil), tasks...)
	for id := range w.provisional {
		if w.indexOf(id) < 0 {
			delete(w.provisional, id)
		}
	}
}

func (w *SVGWidget) ChangeViewMode(mode models.ViewMode) error {
	mode, err := models.ParseViewMode(string(mode))
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.opts.ViewMode = mode
	w.mu.Unlock()
	return nil
}

// SetOptions replaces the layout options; the current view mode is kept.
func (w *SVGWidget) SetOptions(opts Options) {
	w.mu.Lock()
	defer w.mu.Unlock()
	mode := w.opts.ViewMode
	w.opts = opts.withDefaults()
	w.opts.ViewMode = mode
}

func (w *SVGWidget) SetProvisional(id string, start, end time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownTask, id)
	}
	w.provisional[id] = span{start: start.UTC(), end: end.UTC()}
	return nil
}

func (w *SVGWidget) ClearProvisional() {
	w.mu.Lock()
	w.provisional = map[string]span{}
	w.mu.Unlock()
}

func (w *SVGWidget) Tasks() []models.ChartTask {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.displayed()
}

func (w *SVGWidget) ViewMode() models.ViewMode {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.opts.ViewMode
}

func (w *SVGWidget) Popup(id string) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, t := range w.displayed() {
		if t.Id == id {
			return w.opts.Popup(t), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTask, id)
}

func (w *SVGWidget) Close() error {
	w.mu.Lock()
	w.closed = true
	w.tasks = nil
	w.provisional = map[string]span{}
	w.mu.Unlock()
	return nil
}

func (w *SVGWidget) indexOf(id string) int {
	for i, t := range w.tasks {
		if t.Id == id {
			return i
		}
	}
	return -1
}

// displayed returns the tasks with provisional spans applied. Callers hold mu.
func (w *SVGWidget) displayed() []models.ChartTask {
	out := make([]models.ChartTask, len(w.tasks))
	for i, t := range w.tasks {
		if s, ok := w.provisional[t.Id]; ok {
			t.Start, t.End = s.start, s.end
		}
		out[i] = t
	}
	return out
}

func (w *SVGWidget) Render(out io.Writer) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrWidgetClosed
	}

	tasks := w.displayed()
	opts := w.opts
	cols := columns(tasks, opts.ViewMode)
	rowHeight := opts.BarHeight + opts.Padding

	width := opts.LabelWidth + (len(cols)-1)*opts.ColumnWidth
	height := opts.HeaderHeight + len(tasks)*rowHeight + opts.Padding/2

	canvas := svg.New(out)
	canvas.Start(width, height, `class="gantt"`)
	canvas.Rect(0, 0, width, height, fmt.Sprintf("fill:%s", colorBackground))

	for i := 0; i < len(cols)-1; i++ {
		x := opts.LabelWidth + i*opts.ColumnWidth
		canvas.Line(x, opts.HeaderHeight-10, x, height, fmt.Sprintf("stroke:%s;stroke-width:1", colorGrid))
		if i%labelEvery(opts.ViewMode, opts.ColumnWidth) == 0 {
			canvas.Text(x+2, opts.HeaderHeight-16, columnLabel(cols[i], opts.ViewMode),
				fmt.Sprintf("fill:%s;font-size:10px;font-family:sans-serif", colorHeaderText))
		}
	}

	for i, t := range tasks {
		y := opts.HeaderHeight + opts.Padding/2 + i*rowHeight
		x1 := opts.LabelWidth + xOffset(cols, t.Start, opts.ColumnWidth)
		x2 := opts.LabelWidth + xOffset(cols, t.End, opts.ColumnWidth)
		barW := x2 - x1
		if barW < 2 {
			barW = 2
		}

		canvas.Group(fmt.Sprintf(`class="bar-wrapper %s"`, t.CustomClass), fmt.Sprintf(`data-id="%s"`, t.Id))
		canvas.Title(t.Name)
		canvas.Text(8, y+opts.BarHeight*2/3, truncate(t.Name, opts.LabelWidth/7),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif", colorLabel))

		barStyle := fmt.Sprintf("fill:%s", colorBar)
		if _, ok := w.provisional[t.Id]; ok {
			barStyle += fmt.Sprintf(";stroke:%s;stroke-width:1.5;stroke-dasharray:4 2", colorProvStroke)
		}
		canvas.Roundrect(x1, y, barW, opts.BarHeight, 3, 3, `class="bar"`, barStyle)

		progress := clampProgress(t.Progress)
		if progressW := int(float64(barW) * progress / 100); progressW > 0 {
			canvas.Roundrect(x1, y, progressW, opts.BarHeight, 3, 3, `class="bar-progress"`, fmt.Sprintf("fill:%s", colorProgress))
		}
		canvas.Gend()
	}

	canvas.End()
	return nil
}

func clampProgress(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
