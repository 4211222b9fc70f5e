// Package snapshot stores rendered element output. Snapshots capture
// the HTML a render pass produced for a given attribute set, for
// sharing and for regression review. The dev server can publish a
// snapshot per request; stores keep them in memory or in S3.
package snapshot

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// ErrNotFound is returned when a snapshot ID does not exist.
var ErrNotFound = errors.New("snapshot: not found")

// Snapshot is one captured render.
type Snapshot struct {
	// ID is the store-assigned identifier.
	ID string

	// Element is the element name that was rendered.
	Element string

	// HTML is the captured fragment.
	HTML string

	// TakenAt is when the snapshot was captured.
	TakenAt time.Time
}

// Store persists snapshots.
type Store interface {
	// Save stores snap, assigning its ID, and returns the ID.
	Save(ctx context.Context, snap *Snapshot) (string, error)

	// Get retrieves a snapshot by ID. Returns ErrNotFound when the ID
	// is unknown.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// Delete removes a snapshot. Deleting an unknown ID is not an
	// error.
	Delete(ctx context.Context, id string) error
}

// newID generates a random snapshot identifier.
func newID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failure means the process is in serious trouble;
		// fall back to a time-based ID rather than storing nothing.
		return hex.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))[:32]
	}
	return hex.EncodeToString(b)
}
