package handlers

import (
	"net/http"

	"github.com/TWRT/project-gantt/internal/host"
)

// HostHandler exposes the notification feed and navigation queue to the
// browser front end, which polls both.
type HostHandler struct {
	notifications *host.Notifications
	actions       *host.Actions
}

func NewHostHandler(notifications *host.Notifications, actions *host.Actions) *HostHandler {
	return &HostHandler{
		notifications: notifications,
		actions:       actions,
	}
}

func (h *HostHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": h.notifications.Since(r.URL.Query().Get("since")),
	})
}

func (h *HostHandler) GetActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"actions": h.actions.Drain(),
	})
}
