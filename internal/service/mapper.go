package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/TWRT/project-gantt/internal/models"
)

// StoreTimeLayout is the store's naive datetime format; values are UTC.
const StoreTimeLayout = "2006-01-02 15:04:05"

type TimestampError struct {
	TaskId int64
	Field  string
	Value  string
	Err    error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("task %d: invalid %s %q: %v", e.TaskId, e.Field, e.Value, e.Err)
}

func (e *TimestampError) Unwrap() error {
	return e.Err
}

func ParseStoreTime(s string) (time.Time, error) {
	return time.ParseInLocation(StoreTimeLayout, strings.TrimSpace(s), time.UTC)
}

func FormatStoreTime(t time.Time) string {
	return t.UTC().Format(StoreTimeLayout)
}

func StyleClass(projectId int64) string {
	if projectId == 0 {
		return "pgc-task-none"
	}
	return "pgc-task-" + strconv.FormatInt(projectId, 10)
}

func MapTask(rec models.TaskRecord) (models.ChartTask, error) {
	start, err := ParseStoreTime(rec.GanttStartDate.Value)
	if err != nil {
		return models.ChartTask{}, &TimestampError{TaskId: rec.Id, Field: FieldStart, Value: rec.GanttStartDate.Value, Err: err}
	}
	end, err := ParseStoreTime(rec.GanttEndDate.Value)
	if err != nil {
		return models.ChartTask{}, &TimestampError{TaskId: rec.Id, Field: FieldEnd, Value: rec.GanttEndDate.Value, Err: err}
	}

	progress := 0.0
	if rec.Progress.Valid {
		progress = rec.Progress.Value
	}

	return models.ChartTask{
		Id:          models.TaskKey(rec.Id),
		RecordId:    rec.Id,
		Name:        rec.Name,
		Start:       start,
		End:         end,
		Progress:    progress,
		CustomClass: StyleClass(rec.ProjectId.Id),
	}, nil
}

// MapTasks converts every record or fails the whole batch on the first bad timestamp.
func MapTasks(records []models.TaskRecord) ([]models.ChartTask, error) {
	tasks := make([]models.ChartTask, len(records))
	for i, rec := range records {
		task, err := MapTask(rec)
		if err != nil {
			return nil, err
		}
		tasks[i] = task
	}
	return tasks, nil
}
