package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrUnknownViewMode = errors.New("unknown view mode")
	ErrInvalidWindow   = errors.New("invalid date window")
)

type ViewMode string

const (
	ViewModeQuarterDay ViewMode = "Quarter Day"
	ViewModeHalfDay    ViewMode = "Half Day"
	ViewModeDay        ViewMode = "Day"
	ViewModeWeek       ViewMode = "Week"
	ViewModeMonth      ViewMode = "Month"
	ViewModeYear       ViewMode = "Year"
)

var viewModes = []ViewMode{
	ViewModeQuarterDay,
	ViewModeHalfDay,
	ViewModeDay,
	ViewModeWeek,
	ViewModeMonth,
	ViewModeYear,
}

func ViewModes() []ViewMode {
	return append([]ViewMode(nil), viewModes...)
}

// ParseViewMode accepts the canonical names case-insensitively.
func ParseViewMode(s string) (ViewMode, error) {
	for _, m := range viewModes {
		if strings.EqualFold(string(m), strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownViewMode, s)
}

// DateWindow is an inclusive calendar-day range.
type DateWindow struct {
	From time.Time
	To   time.Time
}

func ParseDateWindow(from, to string) (DateWindow, error) {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return DateWindow{}, fmt.Errorf("%w: date_from %q", ErrInvalidWindow, from)
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return DateWindow{}, fmt.Errorf("%w: date_to %q", ErrInvalidWindow, to)
	}
	if t.Before(f) {
		return DateWindow{}, fmt.Errorf("%w: %s is before %s", ErrInvalidWindow, to, from)
	}
	return DateWindow{From: f, To: t}, nil
}

// MonthWindow spans the calendar month containing now.
func MonthWindow(now time.Time) DateWindow {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return DateWindow{From: first, To: last}
}

func (w DateWindow) FromString() string {
	return w.From.Format(DateLayout)
}

func (w DateWindow) ToString() string {
	return w.To.Format(DateLayout)
}

type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseLoading       Phase = "loading"
	PhaseRendered      Phase = "rendered"
	PhaseUnavailable   Phase = "unavailable"
	PhaseClosed        Phase = "closed"
)

// ViewState is a snapshot of what the Gantt view currently shows.
type ViewState struct {
	Phase     Phase       `json:"phase"`
	ProjectId int64       `json:"project_id"`
	DateFrom  string      `json:"date_from"`
	DateTo    string      `json:"date_to"`
	ViewMode  ViewMode    `json:"view_mode"`
	Projects  []Project   `json:"projects"`
	Tasks     []ChartTask `json:"tasks"`
	Pending   []string    `json:"pending"`
}
