// Package objectstore provides a NATS JetStream ObjectStore-backed artifact
// store, used to mirror warmed cache artifacts to a worker fleet.
//
// The mirror is a distribution channel, not the canonical cache: the
// filesystem store stays authoritative, and a mirror push happens only
// after the local swap has committed. Object replacement in JetStream is
// atomic per revision, so fleet readers observe whole artifacts only.
package objectstore

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/citomni/kernel/cache"
	"github.com/citomni/kernel/errors"
)

// Config defines the mirror bucket
type Config struct {
	// Bucket is the ObjectStore bucket name holding mirrored artifacts
	Bucket string `json:"bucket"`

	// Description annotates the bucket on creation
	Description string `json:"description,omitempty"`

	// Replicas is the JetStream replication factor (0 uses the server
	// default)
	Replicas int `json:"replicas,omitempty"`
}

// Validate checks the mirror configuration
func (c Config) Validate() error {
	if c.Bucket == "" {
		return errors.WrapInvalid(errors.ErrMirrorUnavailable, "Config", "Validate",
			"mirror bucket name is required")
	}
	return nil
}

// Store mirrors artifacts into a NATS ObjectStore bucket. It implements
// cache.Store so warm tooling can treat the mirror like any other backend.
type Store struct {
	bucket     jetstream.ObjectStore
	bucketName string
	logger     *slog.Logger
}

var _ cache.Store = (*Store)(nil)

// New creates or binds the mirror bucket on a JetStream context
func New(ctx context.Context, js jetstream.JetStream, cfg Config, logger *slog.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bucket, err := js.CreateOrUpdateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      cfg.Bucket,
		Description: cfg.Description,
		Replicas:    cfg.Replicas,
	})
	if err != nil {
		return nil, errors.WrapTransient(
			fmt.Errorf("%w: %v", errors.ErrMirrorUnavailable, err),
			"Store", "New", "bind mirror bucket")
	}

	return NewWithBucket(bucket, cfg.Bucket, logger), nil
}

// NewWithBucket wraps an existing ObjectStore bucket. Tests and callers
// that manage bucket lifecycle themselves use this directly.
func NewWithBucket(bucket jetstream.ObjectStore, bucketName string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{bucket: bucket, bucketName: bucketName, logger: logger}
}

// Put replaces the mirrored artifact under name
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	if _, err := s.bucket.PutBytes(ctx, name, data); err != nil {
		return errors.WrapTransient(
			fmt.Errorf("%w: %v", errors.ErrMirrorUnavailable, err),
			"Store", "Put", "mirror artifact")
	}
	s.logger.Debug("artifact mirrored", "bucket", s.bucketName, "name", name, "bytes", len(data))
	return nil
}

// Get retrieves a mirrored artifact
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := s.bucket.GetBytes(ctx, name)
	if stderrors.Is(err, jetstream.ErrObjectNotFound) {
		return nil, errors.WrapFatal(errors.ErrArtifactNotFound, "Store", "Get",
			fmt.Sprintf("no mirrored artifact at %s", s.Identity(name)))
	}
	if err != nil {
		return nil, errors.WrapTransient(
			fmt.Errorf("%w: %v", errors.ErrMirrorUnavailable, err),
			"Store", "Get", "fetch mirrored artifact")
	}
	return data, nil
}

// List returns all mirrored artifact names in lexicographic order
func (s *Store) List(ctx context.Context) ([]string, error) {
	infos, err := s.bucket.List(ctx)
	if stderrors.Is(err, jetstream.ErrNoObjectsFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapTransient(
			fmt.Errorf("%w: %v", errors.ErrMirrorUnavailable, err),
			"Store", "List", "list mirrored artifacts")
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.Deleted {
			continue
		}
		names = append(names, info.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a mirrored artifact; missing objects are ignored
func (s *Store) Delete(ctx context.Context, name string) error {
	err := s.bucket.Delete(ctx, name)
	if err != nil && !stderrors.Is(err, jetstream.ErrObjectNotFound) {
		return errors.WrapTransient(
			fmt.Errorf("%w: %v", errors.ErrMirrorUnavailable, err),
			"Store", "Delete", "delete mirrored artifact")
	}
	return nil
}

// Identity returns the addressable handle of a mirrored artifact
func (s *Store) Identity(name string) string {
	return fmt.Sprintf("nats-obj://%s/%s", s.bucketName, name)
}
