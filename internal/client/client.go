package client

import (
	"context"

	"github.com/TWRT/project-gantt/internal/models"
)

// RecordStore is the generic search-read / write contract of the store.
// SearchRead decodes the matching rows into out, which must be a pointer to a slice.
type RecordStore interface {
	SearchRead(ctx context.Context, model string, domain models.Domain, fields []string, opts models.SearchOptions, out any) error
	Write(ctx context.Context, model string, ids []int64, values map[string]any) error
}

type Navigator interface {
	DoAction(ctx context.Context, action models.Action) error
}

type Notifier interface {
	Notify(message string, severity models.Severity) models.Notification
}
