package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/fixdesk/fixdesk/internal/api/middleware"
	"github.com/fixdesk/fixdesk/internal/api/request"
	"github.com/fixdesk/fixdesk/internal/api/response"
	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/handoff"
	"github.com/fixdesk/fixdesk/internal/metrics"
)

// HandoffHandler passes the "open this part" signal from one view to another.
type HandoffHandler struct {
	store handoff.Store
	now   func() time.Time
}

// NewHandoffHandler creates a new HandoffHandler.
func NewHandoffHandler(store handoff.Store) *HandoffHandler {
	return &HandoffHandler{store: store, now: time.Now}
}

// PutOpenPart handles PUT /handoffs/open-part.
func (h *HandoffHandler) PutOpenPart(w http.ResponseWriter, r *http.Request) {
	var req request.OpenPartRequest
	if !decode(w, r, &req) {
		return
	}
	if rejectFields(w, req.Validate()) {
		return
	}

	signal := handoff.OpenPart{PartID: req.PartID, Timestamp: h.now().UTC()}
	ctx := r.Context()
	if err := h.store.Put(ctx, middleware.GetSite(ctx), middleware.GetActor(ctx), signal); err != nil {
		response.Error(w, domain.NewInternalError(err))
		return
	}

	response.OK(w, signal)
}

// ConsumeOpenPart handles POST /handoffs/open-part/consume. A signal is
// returned at most once; expired or missing signals are a 404.
func (h *HandoffHandler) ConsumeOpenPart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := middleware.GetActor(ctx)

	signal, err := h.store.Consume(ctx, middleware.GetSite(ctx), actor)
	switch {
	case errors.Is(err, handoff.ErrNotFound):
		metrics.RecordHandoff(false)
		response.Error(w, domain.NewHandoffNotFoundError(actor))
		return
	case err != nil:
		response.Error(w, domain.NewInternalError(err))
		return
	}

	metrics.RecordHandoff(true)
	response.OK(w, signal)
}
