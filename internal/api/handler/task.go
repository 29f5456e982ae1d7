package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fixdesk/fixdesk/internal/api/middleware"
	"github.com/fixdesk/fixdesk/internal/api/request"
	"github.com/fixdesk/fixdesk/internal/api/response"
	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/live"
	"github.com/fixdesk/fixdesk/internal/service"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
)

// TaskHandler handles task operations.
type TaskHandler struct {
	hub *live.Hub
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(hub *live.Hub) *TaskHandler {
	return &TaskHandler{hub: hub}
}

func (h *TaskHandler) service(r *http.Request) *service.TaskService {
	db := middleware.GetDB(r.Context())
	return service.NewTaskService(sqlite.NewTaskRepository(db), sqlite.NewAuditRepository(db), siteEvents(h.hub, r))
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.service(r).Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, task)
}

// UpdateTask handles PATCH /tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateTaskRequest
	if !decode(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	task, err := h.service(r).Update(r.Context(), chi.URLParam(r, "id"), service.UpdateTaskInput{
		Name:         req.Name,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		AssigneeName: req.AssigneeName,
		OrderIndex:   req.OrderIndex,
		StartTime:    req.StartTime,
		ExpectedTime: req.ExpectedTime,
		EndTime:      req.EndTime,
	}, middleware.GetActor(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, task)
}
