// Package artifact implements the short-lived binary artifact store that
// decouples large outputs (generated PDFs, workbook exports) from the
// synchronous reply cycle. Advisors stage bytes and embed only a reference
// in the textual reply; the download boundary fetches by id.
//
// Two implementations share one interface: an in-process map for single
// instance deployments, and a Redis-backed store for deployments where the
// chat and download requests may land on different processes.
package artifact

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Fetch when no record exists for the id, either
// because the id was never staged or the record's retention expired.
var ErrNotFound = errors.New("artifact not found")

// Record is one staged binary artifact. Records are immutable after
// creation; re-fetching the same id always yields the same bytes, which the
// download boundary relies on for client-side retries.
type Record struct {
	ID        string    // Unguessable identifier (UUID)
	Kind      string    // "pdf" or "report:<format>"
	Domain    string    // Domain tag that produced the artifact
	Bytes     []byte    // The binary payload
	CreatedAt time.Time // Staging time
}

// Store stages binary artifacts for later retrieval.
//
// Stage always succeeds against a healthy store and returns a fresh id; it
// never overwrites an existing record. Fetch is idempotent and
// side-effect-free.
type Store interface {
	// Stage inserts the bytes under a fresh unguessable id and returns it.
	Stage(ctx context.Context, bytes []byte, kind, domain string) (string, error)

	// Fetch returns the record staged under id, or ErrNotFound.
	Fetch(ctx context.Context, id string) (*Record, error)
}
