package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/citomni/kernel/errors"
	"github.com/citomni/kernel/types"
)

// Writer serializes validated composition results and swaps them into the
// store. It owns the invalidation ordering: external caches are signalled
// only after a swap has committed.
type Writer struct {
	store        Store
	invalidators []Invalidator
	logger       *slog.Logger
}

// PersistOptions control one persist call
type PersistOptions struct {
	// Overwrite allows replacing an existing artifact. When false and an
	// artifact already exists under the canonical name, the persist is a
	// no-op returning the existing artifact.
	Overwrite bool

	// Invalidate signals external compiled caches after the swap commits
	Invalidate bool
}

// NewWriter creates a cache writer over a store. Invalidators are optional;
// with none registered, swaps commit silently.
func NewWriter(store Store, logger *slog.Logger, invalidators ...Invalidator) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{store: store, invalidators: invalidators, logger: logger}
}

// Persist serializes one composition result and atomically swaps it onto
// the canonical artifact identity. The payload must already be validated:
// Persist is the point of no return, so nothing structurally unchecked may
// reach it.
func (w *Writer) Persist(
	ctx context.Context,
	kind types.Kind,
	mode types.Mode,
	payload map[string]any,
	opts PersistOptions,
) (types.CacheArtifact, error) {
	if err := kind.Validate(); err != nil {
		return types.CacheArtifact{}, err
	}
	if err := mode.Validate(); err != nil {
		return types.CacheArtifact{}, err
	}

	name := types.ArtifactName(kind, mode)
	identity := w.store.Identity(name)

	if !opts.Overwrite {
		if existing, err := w.store.Get(ctx, name); err == nil {
			w.logger.Info("artifact exists, overwrite disabled",
				"kind", string(kind), "mode", string(mode), "identity", identity)
			var artifact types.CacheArtifact
			if err := json.Unmarshal(existing, &artifact); err != nil {
				return types.CacheArtifact{}, errors.WrapFatal(
					fmt.Errorf("%w: %v", errors.ErrArtifactCorrupt, err),
					"Writer", "Persist", "decode existing artifact")
			}
			return artifact, nil
		} else if !stderrors.Is(err, errors.ErrArtifactNotFound) {
			return types.CacheArtifact{}, err
		}
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return types.CacheArtifact{}, errors.WrapFatal(
			fmt.Errorf("%w: %v", errors.ErrCacheWrite, err),
			"Writer", "Persist", "serialize composition result")
	}

	artifact := types.CacheArtifact{
		Kind:      kind,
		Mode:      mode,
		Payload:   payloadJSON,
		WrittenAt: time.Now().UTC(),
		Identity:  identity,
	}

	data, err := json.Marshal(artifact)
	if err != nil {
		return types.CacheArtifact{}, errors.WrapFatal(
			fmt.Errorf("%w: %v", errors.ErrCacheWrite, err),
			"Writer", "Persist", "serialize artifact envelope")
	}

	if err := w.store.Put(ctx, name, data); err != nil {
		return types.CacheArtifact{}, err
	}

	w.logger.Info("artifact persisted",
		"kind", string(kind), "mode", string(mode),
		"identity", identity, "bytes", len(data))

	// Invalidation strictly follows the committed swap. An invalidator
	// failure does not roll anything back — the new artifact is already
	// canonical — but it must surface so operators can flush by hand.
	if opts.Invalidate {
		for _, inv := range w.invalidators {
			if err := inv.Invalidate(ctx, identity); err != nil {
				return artifact, errors.WrapTransient(err, "Writer", "Persist",
					"signal external cache invalidation")
			}
		}
	}

	return artifact, nil
}
