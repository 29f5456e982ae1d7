// Package idgen generates the short prefixed identifiers used for every
// fixdesk entity (for example "tg-1f0c9a2b" for a task group).
package idgen

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Entity prefixes.
const (
	PrefixTaskGroup = "tg"
	PrefixTask      = "tk"
	PrefixDevice    = "dv"
	PrefixSparePart = "sp"
	PrefixUser      = "us"
	PrefixShift     = "sh"
	PrefixHoliday   = "hd"
)

// IDLength is the number of hex characters after the prefix.
const IDLength = 8

// Generate creates a new unique ID in the format "<prefix>-xxxxxxxx".
func Generate(prefix string) (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate ID: %w", err)
	}
	hex := strings.ReplaceAll(u.String(), "-", "")
	return fmt.Sprintf("%s-%s", prefix, hex[:IDLength]), nil
}

// MustGenerate creates a new unique ID, panicking on error.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(err)
	}
	return id
}
