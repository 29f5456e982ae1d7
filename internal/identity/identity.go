// Package identity derives the operator identity used by the fd CLI. The
// actor name is sent in the X-Fixdesk-Actor header, lands in audit log
// entries and scopes cross-view hand-offs.
package identity

import (
	"fmt"
	"os"
	"os/user"

	"github.com/google/uuid"
)

const (
	// FallbackUser is used when the user cannot be determined
	FallbackUser = "unknown"
	// FallbackHostname is used when the hostname cannot be determined
	FallbackHostname = "localhost"
)

// Actor returns the default actor name in the format user@hostname.
//
// Examples:
//   - minh@line3-tablet
//   - ops@kiosk-b2
func Actor() string {
	return ActorWithOverrides(getUser(), getHostname())
}

// ActorWithOverrides returns the actor name using the provided values,
// applying fallbacks for any empty values.
func ActorWithOverrides(usr, hostname string) string {
	if usr == "" {
		usr = FallbackUser
	}
	if hostname == "" {
		hostname = FallbackHostname
	}

	return fmt.Sprintf("%s@%s", usr, hostname)
}

// SessionToken returns a fresh token identifying one live subscription.
// Reusing a token with the same role replaces the earlier subscription.
func SessionToken() string {
	return uuid.NewString()
}

// getUser returns the current user's username.
// It first checks the USER environment variable, then falls back to user.Current().
func getUser() string {
	if usr := os.Getenv("USER"); usr != "" {
		return usr
	}

	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}

	return ""
}

// getHostname returns the system hostname.
func getHostname() string {
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}
	return ""
}
