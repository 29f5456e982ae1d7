// Package handoff stores one-shot "open this part" signals between dashboard
// views. A signal is written by one view, consumed at most once by another,
// and expires on its own when nobody picks it up.
package handoff

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is how long an unconsumed signal stays available.
const DefaultTTL = 30 * time.Second

// ErrNotFound is returned when no live signal exists for the actor.
var ErrNotFound = errors.New("handoff: not found")

// OpenPart asks the inventory view to open a part's edit form.
type OpenPart struct {
	PartID    string    `json:"part_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Store keeps at most one pending signal per site and actor.
type Store interface {
	Put(ctx context.Context, site, actor string, signal OpenPart) error
	// Consume returns the signal and removes it atomically.
	Consume(ctx context.Context, site, actor string) (OpenPart, error)
	Close() error
}

func storeKey(site, actor string) string {
	return "fixdesk:handoff:open-part:" + site + ":" + actor
}
