package models

import (
	"time"

	json "github.com/goccy/go-json"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type Notification struct {
	Id        string    `json:"id"`
	Message   string    `json:"message"`
	Type      Severity  `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// ViewRef is one [view_id, view_type] pair; a zero ViewId encodes as false.
type ViewRef struct {
	ViewId int64
	Type   string
}

func (v ViewRef) MarshalJSON() ([]byte, error) {
	if v.ViewId == 0 {
		return json.Marshal([]any{false, v.Type})
	}
	return json.Marshal([]any{v.ViewId, v.Type})
}

// Action describes a window action the host navigates to.
type Action struct {
	Type     string    `json:"type"`
	ResModel string    `json:"res_model"`
	ResId    int64     `json:"res_id"`
	Views    []ViewRef `json:"views"`
	Target   string    `json:"target"`
}
