// Package host holds the in-process stand-ins for the host application's
// notification and navigation services. The browser front end polls both.
package host

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TWRT/project-gantt/internal/models"
)

const defaultNotificationCap = 200

// Notifications is a bounded feed of transient toasts.
type Notifications struct {
	mu    sync.Mutex
	items []models.Notification
	limit int
	now   func() time.Time
}

func NewNotifications(limit int) *Notifications {
	if limit <= 0 {
		limit = defaultNotificationCap
	}
	return &Notifications{limit: limit, now: time.Now}
}

func (n *Notifications) Notify(message string, severity models.Severity) models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	// v7 ids sort by creation time, so they double as the poll cursor
	note := models.Notification{
		Id:        uuid.Must(uuid.NewV7()).String(),
		Message:   message,
		Type:      severity,
		CreatedAt: n.now().UTC(),
	}
	n.items = append(n.items, note)
	if over := len(n.items) - n.limit; over > 0 {
		n.items = append([]models.Notification(nil), n.items[over:]...)
	}
	return note
}

// Since returns the notifications posted after the one with id afterID,
// including when that one has already been evicted. An empty id returns the
// whole feed.
func (n *Notifications) Since(afterID string) []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := []models.Notification{}
	for _, item := range n.items {
		if afterID == "" || item.Id > afterID {
			out = append(out, item)
		}
	}
	return out
}
