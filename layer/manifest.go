package layer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/citomni/kernel/errors"
	"github.com/citomni/kernel/types"
)

// Manifest is the application's layer declaration: which providers
// contribute, in which order, where the app's own slot files live, and
// which environment overlay (if any) applies. Provider order in this file
// is the composition order; it is never inferred from names.
type Manifest struct {
	// Providers lists provider directories relative to the application root,
	// in composition order
	Providers []string `json:"providers" yaml:"providers"`

	// App is the directory holding the application's slot files, relative
	// to the application root. Defaults to "config".
	App string `json:"app,omitempty" yaml:"app,omitempty"`

	// Environment selects the per-environment overlay slots
	// ("config.http.<env>.json" next to the app base slots). Empty means no
	// overlay layer.
	Environment string `json:"environment,omitempty" yaml:"environment,omitempty"`
}

// DefaultAppDir is where application slot files live when the manifest does
// not say otherwise
const DefaultAppDir = "config"

// LoadManifest reads and decodes a manifest file (JSON or YAML by extension)
func LoadManifest(path string) (Manifest, error) {
	var m Manifest

	data, err := os.ReadFile(path)
	if err != nil {
		return m, errors.WrapInvalid(err, "Manifest", "LoadManifest", "read manifest file")
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return m, errors.WrapInvalid(err, "Manifest", "LoadManifest", "decode manifest")
	}

	if err := m.Validate(); err != nil {
		return m, err
	}
	return m, nil
}

// Validate checks manifest shape: provider refs must be non-empty relative
// paths, listed at most once
func (m Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Providers))
	for i, ref := range m.Providers {
		if ref == "" {
			return errors.WrapInvalid(errors.ErrLayerNotFound, "Manifest", "Validate",
				fmt.Sprintf("provider %d has an empty reference", i))
		}
		if filepath.IsAbs(ref) || strings.HasPrefix(filepath.ToSlash(filepath.Clean(ref)), "..") {
			return errors.WrapInvalid(errors.ErrLayerNotFound, "Manifest", "Validate",
				fmt.Sprintf("provider %q must be a relative path inside the application root", ref))
		}
		if seen[ref] {
			return errors.WrapInvalid(errors.ErrDuplicateLayer, "Manifest", "Validate",
				fmt.Sprintf("provider %q is listed twice", ref))
		}
		seen[ref] = true
	}
	return nil
}

// BuildCollector assembles the ordered source list for an application root:
// the given baseline source, a DirSource per listed provider, the app base
// DirSource, and the environment overlay source when the manifest selects
// one.
func (m Manifest) BuildCollector(root string, baseline Source, logger *slog.Logger) (*Collector, error) {
	if baseline == nil {
		return nil, errors.WrapFatal(errors.ErrLayerNotFound, "Manifest", "BuildCollector",
			"baseline source is required")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	appDir := m.App
	if appDir == "" {
		appDir = DefaultAppDir
	}

	sources := make([]Source, 0, len(m.Providers)+3)
	sources = append(sources, baseline)
	for _, ref := range m.Providers {
		sources = append(sources, NewDirSource(ref, types.LayerProvider, filepath.Join(root, ref)))
	}
	sources = append(sources, NewDirSource("app", types.LayerAppBase, filepath.Join(root, appDir)))
	if m.Environment != "" {
		sources = append(sources, NewEnvDirSource(
			"app:"+m.Environment, filepath.Join(root, appDir), m.Environment))
	}

	return NewCollector(sources, logger)
}
