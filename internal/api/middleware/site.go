package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/fixdesk/fixdesk/internal/api/response"
	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/store"
)

const (
	// SiteKey is the context key for the site name.
	SiteKey contextKey = "site"
	// DBKey is the context key for the database connection.
	DBKey contextKey = "db"
)

// Valid site name pattern: alphanumeric, hyphens, underscores, 1-64 chars.
var validSiteName = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// SiteContext middleware validates the site name and injects the DB connection.
func SiteContext(manager *store.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			site := chi.URLParam(r, "site")

			if !validSiteName.MatchString(site) {
				response.Error(w, domain.NewValidationError([]string{
					"Invalid site name. Must be 1-64 alphanumeric characters, hyphens, or underscores.",
				}))
				return
			}

			// Get or create database connection
			db, err := manager.GetDB(site)
			if err != nil {
				response.Error(w, domain.NewInternalError(err))
				return
			}

			ctx := context.WithValue(r.Context(), SiteKey, site)
			ctx = context.WithValue(ctx, DBKey, db)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSite retrieves the site name from context.
func GetSite(ctx context.Context) string {
	if site, ok := ctx.Value(SiteKey).(string); ok {
		return site
	}
	return ""
}

// GetDB retrieves the database connection from context.
func GetDB(ctx context.Context) *sql.DB {
	if db, ok := ctx.Value(DBKey).(*sql.DB); ok {
		return db
	}
	return nil
}
