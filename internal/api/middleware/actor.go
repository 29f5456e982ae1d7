package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const (
	// ActorKey is the context key for the acting user.
	ActorKey contextKey = "actor"
	// ActorHeader is the HTTP header naming the acting user.
	ActorHeader = "X-Fixdesk-Actor"
	// DefaultActor is used when no actor header is provided.
	DefaultActor = "anonymous"
)

// Actor middleware extracts the X-Fixdesk-Actor header and adds it to context.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := r.Header.Get(ActorHeader)
		if actor == "" {
			actor = DefaultActor
		}

		ctx := context.WithValue(r.Context(), ActorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActor retrieves the acting user from context.
func GetActor(ctx context.Context) string {
	if actor, ok := ctx.Value(ActorKey).(string); ok {
		return actor
	}
	return DefaultActor
}
