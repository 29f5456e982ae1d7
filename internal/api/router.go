package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fixdesk/fixdesk/internal/api/handler"
	"github.com/fixdesk/fixdesk/internal/api/middleware"
	"github.com/fixdesk/fixdesk/internal/handoff"
	"github.com/fixdesk/fixdesk/internal/live"
	"github.com/fixdesk/fixdesk/internal/store"
)

// Options holds the collaborators the router wires into its handlers.
type Options struct {
	Manager *store.Manager
	Hub     *live.Hub
	Handoff handoff.Store
	Logger  *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	hub := opts.Hub
	if hub == nil {
		hub = live.NewHub(logger)
	}
	handoffs := opts.Handoff
	if handoffs == nil {
		handoffs = handoff.NewMemoryStore(handoff.DefaultTTL)
	}

	r := chi.NewRouter()

	// Global middleware chain. Actor runs before Logging so request logs
	// carry the caller.
	r.Use(middleware.Recovery(logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Actor)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)

	// Initialize handlers
	systemHandler := handler.NewSystemHandler(opts.Manager, hub, handoffs)
	groupHandler := handler.NewTaskGroupHandler(hub)
	taskHandler := handler.NewTaskHandler(hub)
	auditHandler := handler.NewAuditHandler()
	detailHandler := handler.NewDetailHandler(hub)
	deviceHandler := handler.NewDeviceHandler(hub)
	partHandler := handler.NewSparePartHandler(hub)
	handoffHandler := handler.NewHandoffHandler(handoffs)
	userHandler := handler.NewUserHandler()
	hoursHandler := handler.NewWorkingHoursHandler()
	liveHandler := handler.NewLiveHandler(hub)

	// System routes (no site context needed)
	r.Get("/v1/health", systemHandler.Health)
	r.Get("/v1/sites", systemHandler.ListSites)
	r.Handle("/metrics", promhttp.Handler())

	// Site-scoped routes
	r.Route("/v1/sites/{site}", func(r chi.Router) {
		r.Use(middleware.SiteContext(opts.Manager))

		// Task groups
		r.Get("/task-groups", groupHandler.ListTaskGroups)
		r.Post("/task-groups", groupHandler.CreateTaskGroup)
		r.Get("/task-groups/{id}", groupHandler.GetTaskGroup)
		r.Delete("/task-groups/{id}", groupHandler.DeleteTaskGroup)
		r.Post("/task-groups/{id}/suggested/apply", groupHandler.ApplySuggested)

		// Tasks
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Patch("/tasks/{id}", taskHandler.UpdateTask)

		// Per-type task details
		r.Get("/installation-tasks/{taskId}", detailHandler.GetInstallation)
		r.Put("/installation-tasks/{taskId}", detailHandler.PutInstallation)
		r.Get("/warranty-tasks/{taskId}", detailHandler.GetWarranty)
		r.Put("/warranty-tasks/{taskId}", detailHandler.PutWarranty)
		r.Post("/warranty-tasks/{taskId}/confirm", detailHandler.ConfirmWarranty)
		r.Get("/repair-tasks/{taskId}", detailHandler.GetRepair)
		r.Put("/repair-tasks/{taskId}", detailHandler.PutRepair)

		// Devices
		r.Get("/devices", deviceHandler.ListDevices)
		r.Post("/devices", deviceHandler.CreateDevice)
		r.Get("/devices/{id}", deviceHandler.GetDevice)
		r.Patch("/devices/{id}", deviceHandler.UpdateDevice)
		r.Post("/devices/{id}/replace", deviceHandler.ReplaceDevice)
		r.Post("/devices/{id}/confirm-availability", deviceHandler.ConfirmAvailability)

		// Inventory
		r.Get("/spare-parts", partHandler.ListSpareParts)
		r.Post("/spare-parts", partHandler.CreateSparePart)
		r.Get("/spare-parts/summary", partHandler.GetSummary)
		r.Get("/spare-parts/export", partHandler.ExportSpareParts)
		r.Post("/spare-parts/import", partHandler.ImportSpareParts)
		r.Get("/spare-parts/{id}", partHandler.GetSparePart)
		r.Patch("/spare-parts/{id}", partHandler.UpdateSparePart)

		// Cross-view hand-off
		r.Put("/handoffs/open-part", handoffHandler.PutOpenPart)
		r.Post("/handoffs/open-part/consume", handoffHandler.ConsumeOpenPart)

		// Users
		r.Get("/users", userHandler.ListUsers)
		r.Post("/users", userHandler.CreateUser)
		r.Get("/users/{id}", userHandler.GetUser)

		// Working hours
		r.Get("/working-hours", hoursHandler.GetConfig)
		r.Post("/shifts", hoursHandler.CreateShift)
		r.Get("/shifts/office-hours", hoursHandler.GetOfficeHours)
		r.Put("/shifts/{id}", hoursHandler.UpdateShift)
		r.Get("/holidays", hoursHandler.ListHolidays)
		r.Post("/holidays", hoursHandler.CreateHoliday)
		r.Delete("/holidays/{id}", hoursHandler.DeleteHoliday)

		// Audit
		r.Get("/tasks/{id}/history", auditHandler.GetTaskHistory)
		r.Get("/audit", auditHandler.QueryAuditLog)

		// Live updates
		r.Get("/live", liveHandler.Subscribe)
		r.Post("/notifications", liveHandler.Notify)
	})

	return r
}
