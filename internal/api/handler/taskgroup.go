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

// TaskGroupHandler handles task group operations.
type TaskGroupHandler struct {
	hub *live.Hub
}

// NewTaskGroupHandler creates a new TaskGroupHandler.
func NewTaskGroupHandler(hub *live.Hub) *TaskGroupHandler {
	return &TaskGroupHandler{hub: hub}
}

func (h *TaskGroupHandler) service(r *http.Request) *service.TaskGroupService {
	db := middleware.GetDB(r.Context())
	return service.NewTaskGroupService(
		sqlite.NewTaskGroupRepository(db),
		sqlite.NewAuditRepository(db),
		siteEvents(h.hub, r),
	)
}

// ListTaskGroups handles GET /task-groups.
func (h *TaskGroupHandler) ListTaskGroups(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)

	groups, total, err := h.service(r).List(r.Context(), service.ListTaskGroupsInput{
		Type:    request.ParseGroupType(r),
		Page:    pagination.Page,
		PerPage: pagination.PerPage,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	if groups == nil {
		groups = []*domain.TaskGroup{}
	}

	response.Paginated(w, groups, pagination.Page, pagination.PerPage, total)
}

// GetTaskGroup handles GET /task-groups/{id}.
func (h *TaskGroupHandler) GetTaskGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.service(r).Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, withTasks(group))
}

// CreateTaskGroup handles POST /task-groups.
func (h *TaskGroupHandler) CreateTaskGroup(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTaskGroupRequest
	if !decode(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	input := service.CreateTaskGroupInput{GroupName: req.GroupName, Type: req.Type}
	for _, t := range req.Tasks {
		taskType, _ := domain.ParseTaskType(t.Type)
		input.Tasks = append(input.Tasks, service.CreateTaskInput{
			Name:         t.Name,
			Description:  t.Description,
			Type:         taskType,
			Status:       t.Status,
			Priority:     t.Priority,
			AssigneeName: t.AssigneeName,
			OrderIndex:   t.OrderIndex,
			ExpectedTime: t.ExpectedTime,
		})
	}

	group, err := h.service(r).Create(r.Context(), input, middleware.GetActor(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, withTasks(group))
}

// DeleteTaskGroup handles DELETE /task-groups/{id}.
func (h *TaskGroupHandler) DeleteTaskGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.service(r).Delete(r.Context(), chi.URLParam(r, "id"), middleware.GetActor(r.Context())); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// ApplySuggested handles POST /task-groups/{id}/suggested/apply.
func (h *TaskGroupHandler) ApplySuggested(w http.ResponseWriter, r *http.Request) {
	group, err := h.service(r).ApplySuggested(r.Context(), chi.URLParam(r, "id"), middleware.GetActor(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, withTasks(group))
}

// withTasks guarantees the tasks array is encoded as [] rather than null.
func withTasks(g *domain.TaskGroup) *domain.TaskGroup {
	if g.Tasks == nil {
		g.Tasks = []*domain.Task{}
	}
	return g
}
