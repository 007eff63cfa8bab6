package api

import (
	"net/http"

	"github.com/TWRT/project-gantt/internal/api/handlers"
	"github.com/TWRT/project-gantt/internal/host"
	"github.com/TWRT/project-gantt/internal/service"
)

func SetupRouter(ganttService *service.GanttService, notifications *host.Notifications, actions *host.Actions) *http.ServeMux {
	mux := http.NewServeMux()

	ganttHandler := handlers.NewGanttHandler(ganttService)
	hostHandler := handlers.NewHostHandler(notifications, actions)

	mux.HandleFunc("GET /gantt", ganttHandler.GetState)
	mux.HandleFunc("GET /gantt/projects", ganttHandler.GetProjects)
	mux.HandleFunc("GET /gantt/tasks", ganttHandler.GetTasks)
	mux.HandleFunc("GET /gantt/chart.svg", ganttHandler.GetChart)
	mux.HandleFunc("GET /gantt/tasks/{id}/popup", ganttHandler.GetPopup)
	mux.HandleFunc("POST /gantt/tasks/{id}/click", ganttHandler.ClickTask)
	mux.HandleFunc("POST /gantt/tasks/{id}/dates", ganttHandler.ChangeDates)
	mux.HandleFunc("PUT /gantt/view", ganttHandler.UpdateView)
	mux.HandleFunc("POST /gantt/reload", ganttHandler.Reload)
	mux.HandleFunc("GET /gantt/edits", ganttHandler.GetEdits)

	mux.HandleFunc("GET /notifications", hostHandler.GetNotifications)
	mux.HandleFunc("GET /actions", hostHandler.GetActions)

	return mux
}
