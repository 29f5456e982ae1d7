package handler

import (
	"net/http"
	"slices"

	"github.com/fixdesk/fixdesk/internal/api/response"
	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/handoff"
	"github.com/fixdesk/fixdesk/internal/live"
	"github.com/fixdesk/fixdesk/internal/store"
)

// HealthReport is the body of GET /v1/health.
type HealthReport struct {
	// Status is "ok", or "degraded" when the site directory cannot be read.
	Status          string `json:"status"`
	Sites           int    `json:"sites"`
	LiveSubscribers int    `json:"live_subscribers"`
	// Handoff names the open-part hand-off backend: memory or redis.
	Handoff string `json:"handoff"`
}

// SystemHandler serves the server-wide routes that need no site.
type SystemHandler struct {
	manager  *store.Manager
	hub      *live.Hub
	handoffs handoff.Store
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(manager *store.Manager, hub *live.Hub, handoffs handoff.Store) *SystemHandler {
	return &SystemHandler{manager: manager, hub: hub, handoffs: handoffs}
}

// Health handles GET /v1/health. A degraded server answers 503 with the
// same report.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	report := HealthReport{
		Status:          "ok",
		LiveSubscribers: h.hub.Count(),
		Handoff:         handoffBackend(h.handoffs),
	}

	sites, err := h.manager.ListSites()
	if err != nil {
		report.Status = "degraded"
		response.JSON(w, http.StatusServiceUnavailable, report)
		return
	}
	report.Sites = len(sites)
	response.OK(w, report)
}

func handoffBackend(s handoff.Store) string {
	switch s.(type) {
	case *handoff.RedisStore:
		return "redis"
	case *handoff.MemoryStore:
		return "memory"
	default:
		return "custom"
	}
}

// ListSites handles GET /v1/sites. Names are sorted.
func (h *SystemHandler) ListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := h.manager.ListSites()
	if err != nil {
		response.Error(w, domain.NewInternalError(err))
		return
	}
	if sites == nil {
		sites = []string{}
	}
	slices.Sort(sites)
	response.OK(w, sites)
}
