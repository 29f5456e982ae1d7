package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fixdesk/fixdesk/internal/api/middleware"
	"github.com/fixdesk/fixdesk/internal/api/request"
	"github.com/fixdesk/fixdesk/internal/api/response"
	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/service"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
)

// AuditHandler handles audit log operations.
type AuditHandler struct{}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler() *AuditHandler {
	return &AuditHandler{}
}

func (h *AuditHandler) service(r *http.Request) *service.AuditService {
	db := middleware.GetDB(r.Context())
	return service.NewAuditService(sqlite.NewAuditRepository(db), sqlite.NewTaskRepository(db))
}

// GetTaskHistory handles GET /tasks/{id}/history.
func (h *AuditHandler) GetTaskHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service(r).GetTaskHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	if entries == nil {
		entries = []*domain.AuditEntry{}
	}

	response.OK(w, entries)
}

// QueryAuditLog handles GET /audit.
func (h *AuditHandler) QueryAuditLog(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)
	queryParams := request.ParseAuditQuery(r)

	entries, total, err := h.service(r).Query(r.Context(), service.QueryInput{
		EntityType: queryParams.EntityType,
		Action:     queryParams.Action,
		ChangedBy:  queryParams.ChangedBy,
		StartTime:  queryParams.StartTime,
		EndTime:    queryParams.EndTime,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	if entries == nil {
		entries = []*domain.AuditEntry{}
	}

	response.Paginated(w, entries, pagination.Page, pagination.PerPage, total)
}
