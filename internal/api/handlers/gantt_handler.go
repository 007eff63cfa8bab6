package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/TWRT/project-gantt/internal/chart"
	"github.com/TWRT/project-gantt/internal/client/odoo"
	"github.com/TWRT/project-gantt/internal/models"
	"github.com/TWRT/project-gantt/internal/service"
)

type ChangeDatesRequestBody struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type UpdateViewRequestBody struct {
	ProjectId *int64  `json:"project_id"`
	DateFrom  *string `json:"date_from"`
	DateTo    *string `json:"date_to"`
	ViewMode  *string `json:"view_mode"`
}

type GanttHandler struct {
	ganttService *service.GanttService
}

func NewGanttHandler(ganttService *service.GanttService) *GanttHandler {
	return &GanttHandler{
		ganttService: ganttService,
	}
}

func (h *GanttHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ganttService.State())
}

// GetProjects refetches the filter options; concurrent pollers share one store call.
func (h *GanttHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.ganttService.Projects(r.Context())
	if err != nil {
		writeError(w, statusFor(err), "Error trying to get projects: ", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"projects": projects,
	})
}

func (h *GanttHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	state := h.ganttService.State()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tasks":   state.Tasks,
		"pending": state.Pending,
	})
}

func (h *GanttHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.ganttService.RenderSVG(&buf); err != nil {
		writeError(w, statusFor(err), "Error trying to render the chart: ", err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *GanttHandler) GetPopup(w http.ResponseWriter, r *http.Request) {
	taskId, ok := taskIdFromPath(w, r)
	if !ok {
		return
	}
	html, err := h.ganttService.Popup(taskId)
	if err != nil {
		writeError(w, statusFor(err), "Error trying to render the popup: ", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func (h *GanttHandler) ClickTask(w http.ResponseWriter, r *http.Request) {
	taskId, ok := taskIdFromPath(w, r)
	if !ok {
		return
	}
	if err := h.ganttService.Click(r.Context(), taskId); err != nil {
		writeError(w, statusFor(err), "Error trying to open the task: ", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "opened",
	})
}

func (h *GanttHandler) ChangeDates(w http.ResponseWriter, r *http.Request) {
	taskId, ok := taskIdFromPath(w, r)
	if !ok {
		return
	}

	var reqBody ChangeDatesRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		writeError(w, http.StatusBadRequest, "JSON error: ", err)
		return
	}
	if reqBody.Start.IsZero() || reqBody.End.IsZero() {
		writeError(w, http.StatusBadRequest, "", errors.New("start and end are required"))
		return
	}

	if err := h.ganttService.ChangeDates(r.Context(), taskId, reqBody.Start, reqBody.End); err != nil {
		writeError(w, statusFor(err), "Error trying to update the task dates: ", err)
		return
	}
	writeJSON(w, http.StatusOK, h.ganttService.State())
}

func (h *GanttHandler) UpdateView(w http.ResponseWriter, r *http.Request) {
	var reqBody UpdateViewRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		writeError(w, http.StatusBadRequest, "JSON error: ", err)
		return
	}
	if reqBody.ProjectId != nil && *reqBody.ProjectId < 0 {
		writeError(w, http.StatusBadRequest, "", errors.New("project_id must not be negative"))
		return
	}

	err := h.ganttService.UpdateView(r.Context(), service.ViewUpdate{
		ProjectId: reqBody.ProjectId,
		DateFrom:  reqBody.DateFrom,
		DateTo:    reqBody.DateTo,
		ViewMode:  reqBody.ViewMode,
	})
	if err != nil {
		writeError(w, statusFor(err), "Error trying to update the view: ", err)
		return
	}
	writeJSON(w, http.StatusOK, h.ganttService.State())
}

func (h *GanttHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.ganttService.Reload(r.Context()); err != nil {
		writeError(w, statusFor(err), "Error trying to reload tasks: ", err)
		return
	}
	writeJSON(w, http.StatusOK, h.ganttService.State())
}

// GetEdits lists journaled date writes; ?task_id narrows to one task.
func (h *GanttHandler) GetEdits(w http.ResponseWriter, r *http.Request) {
	var taskId int64
	if v := r.URL.Query().Get("task_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "", errors.New("invalid task_id: "+v))
			return
		}
		taskId = id
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "", errors.New("invalid limit: "+v))
			return
		}
		limit = n
	}

	edits, err := h.ganttService.Edits(r.Context(), taskId, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error trying to list edits: ", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"edits": edits,
	})
}

func taskIdFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "", errors.New("invalid task id: "+raw))
		return 0, false
	}
	return id, true
}

func statusFor(err error) int {
	var remote *odoo.RemoteError
	switch {
	case errors.Is(err, service.ErrWriteRejected):
		return http.StatusConflict
	case errors.Is(err, service.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnknownViewMode), errors.Is(err, models.ErrInvalidWindow):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotRendered), errors.Is(err, service.ErrClosed),
		errors.Is(err, chart.ErrLibraryUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &remote), errors.Is(err, odoo.ErrAuthentication):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, prefix string, err error) {
	writeJSON(w, status, map[string]string{
		"error": prefix + err.Error(),
	})
}
