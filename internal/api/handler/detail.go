package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fixdesk/fixdesk/internal/api/middleware"
	"github.com/fixdesk/fixdesk/internal/api/response"
	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/live"
	"github.com/fixdesk/fixdesk/internal/service"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
)

// DetailHandler handles the per-type task detail endpoints.
type DetailHandler struct {
	hub *live.Hub
}

// NewDetailHandler creates a new DetailHandler.
func NewDetailHandler(hub *live.Hub) *DetailHandler {
	return &DetailHandler{hub: hub}
}

func (h *DetailHandler) service(r *http.Request) *service.DetailService {
	db := middleware.GetDB(r.Context())
	return service.NewDetailService(
		sqlite.NewTaskRepository(db),
		sqlite.NewDetailRepository(db),
		sqlite.NewDeviceRepository(db),
		sqlite.NewAuditRepository(db),
		siteEvents(h.hub, r),
	)
}

// GetInstallation handles GET /installation-tasks/{taskId}.
func (h *DetailHandler) GetInstallation(w http.ResponseWriter, r *http.Request) {
	d, err := h.service(r).GetInstallation(r.Context(), chi.URLParam(r, "taskId"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, d)
}

// PutInstallation handles PUT /installation-tasks/{taskId}.
func (h *DetailHandler) PutInstallation(w http.ResponseWriter, r *http.Request) {
	var d domain.InstallTaskDetail
	if !decode(w, r, &d) {
		return
	}
	d.TaskID = chi.URLParam(r, "taskId")

	saved, err := h.service(r).SaveInstallation(r.Context(), &d, middleware.GetActor(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, saved)
}

// GetWarranty handles GET /warranty-tasks/{taskId}.
func (h *DetailHandler) GetWarranty(w http.ResponseWriter, r *http.Request) {
	d, err := h.service(r).GetWarranty(r.Context(), chi.URLParam(r, "taskId"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, d)
}

// PutWarranty handles PUT /warranty-tasks/{taskId}.
func (h *DetailHandler) PutWarranty(w http.ResponseWriter, r *http.Request) {
	var d domain.WarrantyTaskDetail
	if !decode(w, r, &d) {
		return
	}
	d.TaskID = chi.URLParam(r, "taskId")

	saved, err := h.service(r).SaveWarranty(r.Context(), &d, middleware.GetActor(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, saved)
}

// ConfirmWarranty handles POST /warranty-tasks/{taskId}/confirm.
func (h *DetailHandler) ConfirmWarranty(w http.ResponseWriter, r *http.Request) {
	d, err := h.service(r).ConfirmWarranty(r.Context(), chi.URLParam(r, "taskId"), middleware.GetActor(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, d)
}

// GetRepair handles GET /repair-tasks/{taskId}.
func (h *DetailHandler) GetRepair(w http.ResponseWriter, r *http.Request) {
	d, err := h.service(r).GetRepair(r.Context(), chi.URLParam(r, "taskId"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, d)
}

// PutRepair handles PUT /repair-tasks/{taskId}.
func (h *DetailHandler) PutRepair(w http.ResponseWriter, r *http.Request) {
	var d domain.RepairTaskDetail
	if !decode(w, r, &d) {
		return
	}
	d.TaskID = chi.URLParam(r, "taskId")
	if d.Parts == nil {
		d.Parts = []domain.RepairPart{}
	}

	saved, err := h.service(r).SaveRepair(r.Context(), &d, middleware.GetActor(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, saved)
}
