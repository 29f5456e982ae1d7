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

// DeviceHandler handles device operations.
type DeviceHandler struct {
	hub *live.Hub
}

// NewDeviceHandler creates a new DeviceHandler.
func NewDeviceHandler(hub *live.Hub) *DeviceHandler {
	return &DeviceHandler{hub: hub}
}

func (h *DeviceHandler) service(r *http.Request) *service.DeviceService {
	db := middleware.GetDB(r.Context())
	return service.NewDeviceService(
		sqlite.NewDeviceRepository(db),
		sqlite.NewTaskGroupRepository(db),
		sqlite.NewAuditRepository(db),
		siteEvents(h.hub, r),
	)
}

// ListDevices handles GET /devices.
func (h *DeviceHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)

	devices, total, err := h.service(r).List(r.Context(), service.ListDevicesInput{
		Status:  request.ParseDeviceStatus(r),
		Page:    pagination.Page,
		PerPage: pagination.PerPage,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	if devices == nil {
		devices = []*domain.Device{}
	}

	response.Paginated(w, devices, pagination.Page, pagination.PerPage, total)
}

// GetDevice handles GET /devices/{id}.
func (h *DeviceHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	device, err := h.service(r).Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, device)
}

// CreateDevice handles POST /devices.
func (h *DeviceHandler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	var req request.CreateDeviceRequest
	if !decode(w, r, &req) {
		return
	}
	if rejectFields(w, req.Validate()) {
		return
	}

	device, err := h.service(r).Create(r.Context(), service.CreateDeviceInput{
		Name:              req.Name,
		Code:              req.Code,
		Model:             req.Model,
		Manufacturer:      req.Manufacturer,
		Status:            req.Status,
		UnderWarranty:     req.UnderWarranty,
		WarrantyExpiresAt: req.WarrantyExpiresAt,
		Area:              req.Area,
		Building:          req.Building,
		Floor:             req.Floor,
		Room:              req.Room,
	}, middleware.GetActor(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, device)
}

// UpdateDevice handles PATCH /devices/{id}.
func (h *DeviceHandler) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateDeviceRequest
	if !decode(w, r, &req) {
		return
	}
	if rejectFields(w, req.Validate()) {
		return
	}

	device, err := h.service(r).Update(r.Context(), chi.URLParam(r, "id"), service.UpdateDeviceInput{
		Name:              req.Name,
		Model:             req.Model,
		Manufacturer:      req.Manufacturer,
		Status:            req.Status,
		UnderWarranty:     req.UnderWarranty,
		WarrantyExpiresAt: req.WarrantyExpiresAt,
		Area:              req.Area,
		Building:          req.Building,
		Floor:             req.Floor,
		Room:              req.Room,
	}, middleware.GetActor(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, device)
}

// ReplaceDevice handles POST /devices/{id}/replace. The response is the
// replacement task group.
func (h *DeviceHandler) ReplaceDevice(w http.ResponseWriter, r *http.Request) {
	var req request.ReplaceDeviceRequest
	if !decode(w, r, &req) {
		return
	}
	if rejectFields(w, req.Validate()) {
		return
	}

	group, err := h.service(r).Replace(r.Context(), chi.URLParam(r, "id"), service.ReplaceDeviceInput{
		NewDeviceID: req.NewDeviceID,
		Reason:      req.Reason,
	}, middleware.GetActor(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, withTasks(group))
}

// ConfirmAvailability handles POST /devices/{id}/confirm-availability.
func (h *DeviceHandler) ConfirmAvailability(w http.ResponseWriter, r *http.Request) {
	device, err := h.service(r).ConfirmAvailability(r.Context(), chi.URLParam(r, "id"), middleware.GetActor(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, device)
}
