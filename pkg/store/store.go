// Package store persists computed layouts so they can be fetched again by
// ID.
//
// The HTTP server saves every layout it computes and serves it back under
// GET /v1/layouts/{id}. Three backends implement [Store]:
//   - [MemoryStore]: in-process map, for tests and single-instance servers
//   - [FileStore]: one JSON file per record, for local use
//   - [MongoStore]: MongoDB collection with a TTL index, for deployments
//
// Records expire. Get never returns an expired record; Cleanup removes them
// eagerly where the backend cannot do so on its own.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/umlflow/pkg/flow"
	"github.com/matzehuels/umlflow/pkg/layout"
)

// ErrNotFound is returned by Get when no live record has the given ID.
var ErrNotFound = errors.New("layout record not found")

// DefaultTTL is how long a record is kept.
const DefaultTTL = 30 * 24 * time.Hour

// Record is a stored layout.
type Record struct {
	ID          string         `json:"id" bson:"_id"`
	DiagramHash string         `json:"diagramHash" bson:"diagram_hash"`
	ConfigHash  string         `json:"configHash" bson:"config_hash"`
	Result      *layout.Result `json:"result" bson:"result"`
	Diagram     *flow.Diagram  `json:"diagram,omitempty" bson:"diagram,omitempty"` // kept for re-rendering
	CreatedAt   time.Time      `json:"createdAt" bson:"created_at"`
	ExpiresAt   time.Time      `json:"expiresAt" bson:"expires_at"`
}

// IsExpired reports whether the record is past its expiry at now.
func (r *Record) IsExpired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

// NewRecord wraps res in a record with a fresh random ID. A non-positive
// ttl uses DefaultTTL.
func NewRecord(res *layout.Result, diagramHash, configHash string, ttl time.Duration) *Record {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now().UTC()
	return &Record{
		ID:          uuid.NewString(),
		DiagramHash: diagramHash,
		ConfigHash:  configHash,
		Result:      res,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

// Store is the interface for layout record backends.
type Store interface {
	// Get returns the record with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Put inserts or replaces a record.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired records (may be a no-op).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
