// Package handler implements the HTTP handlers of the fixdesk API. Handlers
// build their site-scoped repositories and services per request from the
// database placed in the context by middleware.SiteContext.
package handler

import (
	"net/http"

	"github.com/fixdesk/fixdesk/internal/api/middleware"
	"github.com/fixdesk/fixdesk/internal/api/request"
	"github.com/fixdesk/fixdesk/internal/api/response"
	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/live"
	"github.com/fixdesk/fixdesk/internal/service"
)

// siteEvents publishes change notifications for the request's site.
func siteEvents(hub *live.Hub, r *http.Request) service.Events {
	if hub == nil {
		return service.NopEvents{}
	}
	return live.SiteEvents{Hub: hub, Site: middleware.GetSite(r.Context())}
}

// decode reads the JSON body into v and reports a validation error on failure.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := request.DecodeJSON(r, v); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return false
	}
	return true
}

// rejectFields writes a field validation error when fields is non-empty.
func rejectFields(w http.ResponseWriter, fields map[string]string) bool {
	if len(fields) == 0 {
		return false
	}
	response.Error(w, domain.NewFieldValidationError(fields))
	return true
}
