package handler

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fixdesk/fixdesk/internal/api/middleware"
	"github.com/fixdesk/fixdesk/internal/api/request"
	"github.com/fixdesk/fixdesk/internal/api/response"
	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/live"
	"github.com/fixdesk/fixdesk/internal/metrics"
	"github.com/fixdesk/fixdesk/internal/service"
	"github.com/fixdesk/fixdesk/internal/sheet"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
)

// maxImportSize bounds the multipart body of an inventory import.
const maxImportSize = 10 << 20

// SparePartHandler handles inventory operations.
type SparePartHandler struct {
	hub *live.Hub
}

// NewSparePartHandler creates a new SparePartHandler.
func NewSparePartHandler(hub *live.Hub) *SparePartHandler {
	return &SparePartHandler{hub: hub}
}

func (h *SparePartHandler) service(r *http.Request) *service.SparePartService {
	db := middleware.GetDB(r.Context())
	return service.NewSparePartService(sqlite.NewSparePartRepository(db), sqlite.NewAuditRepository(db), siteEvents(h.hub, r))
}

// ListSpareParts handles GET /spare-parts.
func (h *SparePartHandler) ListSpareParts(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)

	parts, total, err := h.service(r).List(r.Context(), service.ListSparePartsInput{
		Filter:  request.ParseSparePartFilter(r),
		Page:    pagination.Page,
		PerPage: pagination.PerPage,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	if parts == nil {
		parts = []*domain.SparePart{}
	}

	response.Paginated(w, parts, pagination.Page, pagination.PerPage, total)
}

// GetSummary handles GET /spare-parts/summary.
func (h *SparePartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service(r).Summary(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, summary)
}

// GetSparePart handles GET /spare-parts/{id}.
func (h *SparePartHandler) GetSparePart(w http.ResponseWriter, r *http.Request) {
	part, err := h.service(r).Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, part)
}

// CreateSparePart handles POST /spare-parts.
func (h *SparePartHandler) CreateSparePart(w http.ResponseWriter, r *http.Request) {
	var req request.SparePartRequest
	if !decode(w, r, &req) {
		return
	}
	if rejectFields(w, req.Validate(true)) {
		return
	}

	part, err := h.service(r).Create(r.Context(), toSparePartInput(req), middleware.GetActor(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, part)
}

// UpdateSparePart handles PATCH /spare-parts/{id}.
func (h *SparePartHandler) UpdateSparePart(w http.ResponseWriter, r *http.Request) {
	var req request.SparePartRequest
	if !decode(w, r, &req) {
		return
	}
	if rejectFields(w, req.Validate(false)) {
		return
	}

	part, err := h.service(r).Update(r.Context(), chi.URLParam(r, "id"), toSparePartInput(req), middleware.GetActor(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, part)
}

// ImportSpareParts handles POST /spare-parts/import with a multipart "file"
// field holding an xlsx workbook.
func (h *SparePartHandler) ImportSpareParts(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		response.Error(w, domain.NewFieldValidationError(map[string]string{"file": "multipart form with an xlsx file is required"}))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		response.Error(w, domain.NewFieldValidationError(map[string]string{"file": "file is required"}))
		return
	}
	defer file.Close()

	parts, err := sheet.Parse(file)
	if err != nil {
		response.Error(w, err)
		return
	}

	result, err := h.service(r).Import(r.Context(), parts, middleware.GetActor(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	metrics.RecordImport(len(parts))

	response.OK(w, result)
}

// ExportSpareParts handles GET /spare-parts/export.
func (h *SparePartHandler) ExportSpareParts(w http.ResponseWriter, r *http.Request) {
	parts, err := h.service(r).All(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	var buf bytes.Buffer
	if err := sheet.Export(&buf, parts); err != nil {
		response.Error(w, domain.NewInternalError(err))
		return
	}

	response.Download(w, sheet.ContentType, "inventory-"+middleware.GetSite(r.Context())+".xlsx", buf.Bytes())
}

func toSparePartInput(req request.SparePartRequest) service.SparePartInput {
	return service.SparePartInput{
		Name:         req.Name,
		Category:     req.Category,
		MachineType:  req.MachineType,
		Quantity:     req.Quantity,
		MinThreshold: req.MinThreshold,
		Unit:         req.Unit,
		Supplier:     req.Supplier,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
	}
}
