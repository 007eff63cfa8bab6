package chart

import (
	"time"

	"github.com/TWRT/project-gantt/internal/models"
)

// floorUnit truncates t to the start of the mode's column unit.
func floorUnit(t time.Time, mode models.ViewMode) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch mode {
	case models.ViewModeWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case models.ViewModeMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case models.ViewModeYear:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return day
}

func nextUnit(t time.Time, mode models.ViewMode) time.Time {
	switch mode {
	case models.ViewModeQuarterDay:
		return t.Add(6 * time.Hour)
	case models.ViewModeHalfDay:
		return t.Add(12 * time.Hour)
	case models.ViewModeWeek:
		return t.AddDate(0, 0, 7)
	case models.ViewModeMonth:
		return t.AddDate(0, 1, 0)
	case models.ViewModeYear:
		return t.AddDate(1, 0, 0)
	}
	return t.AddDate(0, 0, 1)
}

// columns returns column boundaries covering every task with one unit of
// slack on each side. The result always has at least two entries.
func columns(tasks []models.ChartTask, mode models.ViewMode) []time.Time {
	var lo, hi time.Time
	for i, t := range tasks {
		if i == 0 || t.Start.Before(lo) {
			lo = t.Start
		}
		if i == 0 || t.End.After(hi) {
			hi = t.End
		}
		if t.Start.After(hi) {
			hi = t.Start
		}
	}
	if len(tasks) == 0 {
		lo = time.Now().UTC()
		hi = lo
	}

	first := floorUnit(lo, mode)
	first = first.Add(-nextUnit(first, mode).Sub(first))
	first = floorUnit(first, mode)

	cols := []time.Time{first}
	for c := first; !c.After(hi); {
		c = nextUnit(c, mode)
		cols = append(cols, c)
	}
	return append(cols, nextUnit(cols[len(cols)-1], mode))
}

// xOffset interpolates t linearly inside the column that contains it.
func xOffset(cols []time.Time, t time.Time, colWidth int) int {
	if t.Before(cols[0]) {
		return 0
	}
	for i := 0; i < len(cols)-1; i++ {
		if t.Before(cols[i+1]) {
			unit := cols[i+1].Sub(cols[i])
			frac := float64(t.Sub(cols[i])) / float64(unit)
			return i*colWidth + int(frac*float64(colWidth))
		}
	}
	return (len(cols) - 1) * colWidth
}

func columnLabel(t time.Time, mode models.ViewMode) string {
	switch mode {
	case models.ViewModeQuarterDay, models.ViewModeHalfDay:
		return t.Format("02 15h")
	case models.ViewModeWeek:
		return t.Format("02 Jan")
	case models.ViewModeMonth:
		return t.Format("Jan 2006")
	case models.ViewModeYear:
		return t.Format("2006")
	}
	return t.Format("02")
}

// labelEvery thins header labels so they do not overlap at narrow widths.
func labelEvery(mode models.ViewMode, colWidth int) int {
	approx := 40
	switch mode {
	case models.ViewModeMonth:
		approx = 56
	case models.ViewModeQuarterDay, models.ViewModeHalfDay:
		approx = 48
	}
	n := (approx + colWidth - 1) / colWidth
	if n < 1 {
		return 1
	}
	return n
}
