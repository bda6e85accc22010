package layer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citomni/kernel/errors"
	"github.com/citomni/kernel/types"
)

func TestLoadManifest_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"providers": ["vendor/citomni/auth", "vendor/citomni/blog"],
		"environment": "dev"
	}`), 0600))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor/citomni/auth", "vendor/citomni/blog"}, m.Providers)
	assert.Equal(t, "dev", m.Environment)
}

func TestLoadManifest_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
providers:
  - vendor/citomni/auth
app: config
`), 0600))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor/citomni/auth"}, m.Providers)
	assert.Equal(t, "config", m.App)
	assert.Empty(t, m.Environment)
}

func TestManifest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		manifest Manifest
		sentinel error
	}{
		{"empty ref", Manifest{Providers: []string{""}}, errors.ErrLayerNotFound},
		{"absolute ref", Manifest{Providers: []string{"/etc/providers"}}, errors.ErrLayerNotFound},
		{"escaping ref", Manifest{Providers: []string{"../outside"}}, errors.ErrLayerNotFound},
		{"duplicate ref", Manifest{Providers: []string{"vendor/a", "vendor/a"}}, errors.ErrDuplicateLayer},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.ErrorIs(t, test.manifest.Validate(), test.sentinel)
		})
	}

	assert.NoError(t, Manifest{Providers: []string{"vendor/a", "vendor/b"}}.Validate())
}

func TestManifest_BuildCollector(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor/citomni/auth"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "config"), 0755))

	writeSlot(t, filepath.Join(root, "vendor/citomni/auth"), "config.http.json",
		`{"auth": {"ttl": 3600}}`)
	writeSlot(t, filepath.Join(root, "config"), "config.http.json",
		`{"timezone": "Europe/Copenhagen"}`)
	writeSlot(t, filepath.Join(root, "config"), "config.http.dev.json",
		`{"debug": true}`)

	baseline := NewMapSource("baseline", types.LayerBaseline).
		SetSlot(types.ModeHTTP, types.KindConfig, map[string]any{"timezone": "UTC", "debug": false})

	m := Manifest{Providers: []string{"vendor/citomni/auth"}, Environment: "dev"}
	c, err := m.BuildCollector(root, baseline, nil)
	require.NoError(t, err)

	layers, err := c.Collect(types.ModeHTTP, types.KindConfig)
	require.NoError(t, err)
	require.Len(t, layers, 4)
	assert.Equal(t, types.LayerBaseline, layers[0].Kind)
	assert.Equal(t, types.LayerProvider, layers[1].Kind)
	assert.Equal(t, types.LayerAppBase, layers[2].Kind)
	assert.Equal(t, types.LayerAppEnv, layers[3].Kind)
	assert.Equal(t, true, layers[3].Payload["debug"])
}

func TestManifest_BuildCollector_RequiresBaseline(t *testing.T) {
	_, err := Manifest{}.BuildCollector(t.TempDir(), nil, nil)
	assert.Error(t, err)
}
