package cache

import "context"

// Store is the pluggable backend for artifact persistence.
//
// Keys are canonical artifact names ("routes.http.json"); values are the
// serialized artifact envelopes. Implementations must guarantee that Put is
// atomic with respect to concurrent Get calls on the same name: a reader
// observes either the previous bytes or the new bytes in full, never a torn
// write.
//
// Example implementations:
//   - FSStore: local filesystem with write-then-rename swaps (canonical)
//   - objectstore.Store: NATS JetStream ObjectStore mirror for fleet
//     distribution (object replacement is atomic per revision)
//
// All Store implementations must be safe for concurrent use.
type Store interface {
	// Put atomically replaces the artifact stored under name
	Put(ctx context.Context, name string, data []byte) error

	// Get retrieves the artifact bytes for name. Returns an error wrapping
	// ErrArtifactNotFound when no artifact exists under that name.
	Get(ctx context.Context, name string) ([]byte, error)

	// List returns all stored artifact names in lexicographic order
	List(ctx context.Context) ([]string, error)

	// Delete removes the artifact under name. Deleting a missing artifact
	// is not an error (idempotent).
	Delete(ctx context.Context, name string) error

	// Identity returns the stable canonical handle for name (a file path
	// for filesystem stores, an addressable object name for remote ones).
	// The handle is what Invalidators receive after a swap.
	Identity(name string) string
}
