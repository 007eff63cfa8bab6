// Package chart defines the Gantt widget capability the adapter drives and
// ships an SVG implementation of it.
package chart

import (
	"errors"
	"io"
	"time"

	"github.com/TWRT/project-gantt/internal/models"
)

var (
	ErrLibraryUnavailable = errors.New("gantt chart library unavailable")
	ErrUnknownTask        = errors.New("task not on chart")
	ErrWidgetClosed       = errors.New("widget closed")
)

// PopupFunc renders the detail fragment shown for a bar.
type PopupFunc func(task models.ChartTask) string

type Options struct {
	ViewMode     models.ViewMode `yaml:"view_mode"`
	BarHeight    int             `yaml:"bar_height"`
	Padding      int             `yaml:"padding"`
	ColumnWidth  int             `yaml:"column_width"`
	HeaderHeight int             `yaml:"header_height"`
	LabelWidth   int             `yaml:"label_width"`
	Popup        PopupFunc       `yaml:"-"`
}

func DefaultOptions() Options {
	return Options{
		ViewMode:     models.ViewModeMonth,
		BarHeight:    24,
		Padding:      18,
		ColumnWidth:  36,
		HeaderHeight: 50,
		LabelWidth:   180,
		Popup:        RenderPopup,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ViewMode == "" {
		o.ViewMode = d.ViewMode
	}
	if o.BarHeight <= 0 {
		o.BarHeight = d.BarHeight
	}
	if o.Padding <= 0 {
		o.Padding = d.Padding
	}
	if o.ColumnWidth <= 0 {
		o.ColumnWidth = d.ColumnWidth
	}
	if o.HeaderHeight <= 0 {
		o.HeaderHeight = d.HeaderHeight
	}
	if o.LabelWidth <= 0 {
		o.LabelWidth = d.LabelWidth
	}
	if o.Popup == nil {
		o.Popup = d.Popup
	}
	return o
}

// Widget is a live chart instance. Provisional spans are what the user
// dragged but the store has not confirmed yet.
type Widget interface {
	Refresh(tasks []models.ChartTask)
	ChangeViewMode(mode models.ViewMode) error
	SetOptions(opts Options)
	SetProvisional(id string, start, end time.Time) error
	ClearProvisional()
	Tasks() []models.ChartTask
	ViewMode() models.ViewMode
	Popup(id string) (string, error)
	Render(w io.Writer) error
	Close() error
}

type Library interface {
	New(tasks []models.ChartTask, opts Options) (Widget, error)
}
