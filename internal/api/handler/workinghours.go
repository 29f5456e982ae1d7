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

// WorkingHoursHandler handles shift and holiday configuration.
type WorkingHoursHandler struct{}

// NewWorkingHoursHandler creates a new WorkingHoursHandler.
func NewWorkingHoursHandler() *WorkingHoursHandler {
	return &WorkingHoursHandler{}
}

func (h *WorkingHoursHandler) service(r *http.Request) *service.WorkingHoursService {
	return service.NewWorkingHoursService(sqlite.NewWorkingHoursRepository(middleware.GetDB(r.Context())))
}

// GetConfig handles GET /working-hours.
func (h *WorkingHoursHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service(r).Config(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	if cfg.Shifts == nil {
		cfg.Shifts = []*domain.Shift{}
	}
	if cfg.Holidays == nil {
		cfg.Holidays = []*domain.Holiday{}
	}
	response.OK(w, cfg)
}

// GetOfficeHours handles GET /shifts/office-hours.
func (h *WorkingHoursHandler) GetOfficeHours(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.service(r).OfficeHours(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	if shifts == nil {
		shifts = []*domain.Shift{}
	}
	response.OK(w, shifts)
}

// CreateShift handles POST /shifts.
func (h *WorkingHoursHandler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req request.ShiftRequest
	if !decode(w, r, &req) {
		return
	}

	shift, err := h.service(r).CreateShift(r.Context(), req.Shift(""))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, shift)
}

// UpdateShift handles PUT /shifts/{id}.
func (h *WorkingHoursHandler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var req request.ShiftRequest
	if !decode(w, r, &req) {
		return
	}

	shift, err := h.service(r).UpdateShift(r.Context(), req.Shift(chi.URLParam(r, "id")))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, shift)
}

// ListHolidays handles GET /holidays.
func (h *WorkingHoursHandler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.service(r).ListHolidays(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	if holidays == nil {
		holidays = []*domain.Holiday{}
	}
	response.OK(w, holidays)
}

// CreateHoliday handles POST /holidays.
func (h *WorkingHoursHandler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req request.HolidayRequest
	if !decode(w, r, &req) {
		return
	}

	holiday, err := h.service(r).CreateHoliday(r.Context(), req.Holiday())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, holiday)
}

// DeleteHoliday handles DELETE /holidays/{id}.
func (h *WorkingHoursHandler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.service(r).DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}
