package models

import (
	"strconv"
	"time"
)

type Project struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

// TaskRecord is a project.task row as the store returns it.
type TaskRecord struct {
	Id             int64          `json:"id"`
	Name           string         `json:"name"`
	GanttStartDate OptionalString `json:"gantt_start_date"`
	GanttEndDate   OptionalString `json:"gantt_end_date"`
	Progress       OptionalFloat  `json:"progress"`
	ProjectId      Many2One       `json:"project_id"`
}

// ChartTask is the shape handed to the chart widget.
type ChartTask struct {
	Id          string    `json:"id"`
	RecordId    int64     `json:"record_id"`
	Name        string    `json:"name"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Progress    float64   `json:"progress"`
	CustomClass string    `json:"custom_class"`
}

func TaskKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
