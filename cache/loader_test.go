package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citomni/kernel/errors"
	"github.com/citomni/kernel/types"
)

func TestLoader_MissingArtifactIsFatal(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	loader := NewLoader(store, nil)
	_, _, err = loader.Load(context.Background(), types.KindRoutes, types.ModeHTTP)
	assert.ErrorIs(t, err, errors.ErrArtifactNotFound,
		"an unwarmed cache must fail the boot, never fall back to an empty structure")
}

func TestLoader_CorruptArtifactRejected(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "config.http.json"), []byte(`{"kind": "config"`), 0600))

	_, _, err = NewLoader(store, nil).Load(context.Background(), types.KindConfig, types.ModeHTTP)
	assert.ErrorIs(t, err, errors.ErrArtifactCorrupt)
}

func TestLoader_EnvelopeSchemaEnforced(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir)
	require.NoError(t, err)

	// Well-formed JSON, but no payload and an unknown kind.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.http.json"),
		[]byte(`{"kind":"templates","mode":"http","written_at":"x","identity":"y"}`), 0600))

	_, _, err = NewLoader(store, nil).Load(context.Background(), types.KindConfig, types.ModeHTTP)
	assert.ErrorIs(t, err, errors.ErrArtifactCorrupt)
}

func TestLoader_KindModeMismatchRejected(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	// A cli artifact sitting under the http canonical name.
	writer := NewWriter(store, nil)
	artifact, err := writer.Persist(ctx, types.KindConfig, types.ModeCLI,
		map[string]any{"jobs": true}, PersistOptions{Overwrite: true})
	require.NoError(t, err)

	data, err := store.Get(ctx, types.ArtifactName(types.KindConfig, types.ModeCLI))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.http.json"), data, 0600))
	_ = artifact

	_, _, err = NewLoader(store, nil).Load(ctx, types.KindConfig, types.ModeHTTP)
	assert.ErrorIs(t, err, errors.ErrArtifactCorrupt)
}

func TestLoader_MemoizesPerKindMode(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	writer := NewWriter(store, nil)
	_, err = writer.Persist(ctx, types.KindServices, types.ModeHTTP,
		map[string]any{"router": "Kernel\\Router"}, PersistOptions{Overwrite: true})
	require.NoError(t, err)

	loader := NewLoader(store, nil)
	first, _, err := loader.Load(ctx, types.KindServices, types.ModeHTTP)
	require.NoError(t, err)

	// Replace the artifact behind the loader's back; the memoized snapshot
	// must keep serving until the process restarts (or Reset for tooling).
	_, err = writer.Persist(ctx, types.KindServices, types.ModeHTTP,
		map[string]any{"router": "Other\\Router"}, PersistOptions{Overwrite: true})
	require.NoError(t, err)

	second, _, err := loader.Load(ctx, types.KindServices, types.ModeHTTP)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	loader.Reset()
	third, _, err := loader.Load(ctx, types.KindServices, types.ModeHTTP)
	require.NoError(t, err)
	assert.Equal(t, "Other\\Router", third["router"])
}

func TestLoader_RejectsUnknownKindAndMode(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	loader := NewLoader(store, nil)

	_, _, err = loader.Load(context.Background(), types.Kind("bad"), types.ModeHTTP)
	assert.ErrorIs(t, err, errors.ErrUnknownKind)
	_, _, err = loader.Load(context.Background(), types.KindConfig, types.Mode("bad"))
	assert.ErrorIs(t, err, errors.ErrUnknownMode)
}
