package handler

import (
	"net/http"
	"strings"

	"github.com/fixdesk/fixdesk/internal/api/middleware"
	"github.com/fixdesk/fixdesk/internal/api/request"
	"github.com/fixdesk/fixdesk/internal/api/response"
	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/live"
)

// LiveHandler serves the live update channel.
type LiveHandler struct {
	hub *live.Hub
}

// NewLiveHandler creates a new LiveHandler.
func NewLiveHandler(hub *live.Hub) *LiveHandler {
	return &LiveHandler{hub: hub}
}

// Subscribe handles GET /live. The token comes from the "token" query
// parameter or a bearer Authorization header.
func (h *LiveHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token := q.Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	token = strings.TrimSpace(token)

	fields := map[string]string{}
	if token == "" {
		fields["token"] = "token is required"
	}
	role := q.Get("role")
	if !domain.Role(role).IsValid() {
		fields["role"] = "role must be one of admin, manager, technician, staff"
	}
	if rejectFields(w, fields) {
		return
	}

	h.hub.Serve(w, r, middleware.GetSite(r.Context()), token, role)
}

// Notify handles POST /notifications.
func (h *LiveHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var req request.NotificationRequest
	if !decode(w, r, &req) {
		return
	}
	if rejectFields(w, req.Validate()) {
		return
	}

	evt := live.Notification(strings.TrimSpace(req.Message), req.Roles...)
	h.hub.Publish(middleware.GetSite(r.Context()), evt)

	response.JSON(w, http.StatusAccepted, evt)
}
