package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/citomni/kernel/errors"
	"github.com/citomni/kernel/types"
)

// Loader reads previously warmed artifacts at process start. It performs no
// merge computation and never triggers a rebuild: an absent artifact is a
// fatal boot condition that must propagate to whatever boots the process.
//
// Loaded payloads are memoized per (kind, mode) for the process lifetime —
// artifacts are immutable until the next explicit build, so one decode
// serves every reader. Returned payloads are shared and must be treated as
// read-only.
type Loader struct {
	store  Store
	logger *slog.Logger

	mu     sync.RWMutex
	loaded map[string]loadedArtifact
}

type loadedArtifact struct {
	artifact types.CacheArtifact
	payload  map[string]any
}

// NewLoader creates a runtime loader over a store
func NewLoader(store Store, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		store:  store,
		logger: logger,
		loaded: make(map[string]loadedArtifact),
	}
}

// Load returns the composition result for one kind/mode pair along with its
// artifact envelope. The first call per pair reads and verifies the
// canonical artifact; subsequent calls serve the memoized snapshot.
func (l *Loader) Load(ctx context.Context, kind types.Kind, mode types.Mode) (map[string]any, types.CacheArtifact, error) {
	if err := kind.Validate(); err != nil {
		return nil, types.CacheArtifact{}, err
	}
	if err := mode.Validate(); err != nil {
		return nil, types.CacheArtifact{}, err
	}

	name := types.ArtifactName(kind, mode)

	l.mu.RLock()
	if entry, ok := l.loaded[name]; ok {
		l.mu.RUnlock()
		return entry.payload, entry.artifact, nil
	}
	l.mu.RUnlock()

	data, err := l.store.Get(ctx, name)
	if err != nil {
		return nil, types.CacheArtifact{}, err
	}

	if err := verifyEnvelope(data); err != nil {
		return nil, types.CacheArtifact{}, err
	}

	var artifact types.CacheArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, types.CacheArtifact{}, errors.WrapFatal(
			fmt.Errorf("%w: %v", errors.ErrArtifactCorrupt, err),
			"Loader", "Load", "decode artifact envelope")
	}

	// An artifact answering for the wrong kind or mode means the cache
	// directory is mislaid or was tampered with; trusting it would boot the
	// process under another universe's snapshot.
	if artifact.Kind != kind || artifact.Mode != mode {
		return nil, types.CacheArtifact{}, errors.WrapFatal(
			fmt.Errorf("%w: artifact %s answers for %s/%s",
				errors.ErrArtifactCorrupt, name, artifact.Kind, artifact.Mode),
			"Loader", "Load", "verify artifact identity")
	}

	var payload map[string]any
	if err := json.Unmarshal(artifact.Payload, &payload); err != nil {
		return nil, types.CacheArtifact{}, errors.WrapFatal(
			fmt.Errorf("%w: %v", errors.ErrArtifactCorrupt, err),
			"Loader", "Load", "decode artifact payload")
	}

	l.mu.Lock()
	l.loaded[name] = loadedArtifact{artifact: artifact, payload: payload}
	l.mu.Unlock()

	l.logger.Info("artifact loaded",
		"kind", string(kind), "mode", string(mode), "identity", artifact.Identity)
	return payload, artifact, nil
}

// Reset drops all memoized snapshots. Only operational tooling that warms
// and then re-reads within one process has any use for this; a serving
// runtime restarts to pick up new artifacts.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded = make(map[string]loadedArtifact)
}
