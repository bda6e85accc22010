package layer

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/citomni/kernel/types"
)

const (
	// Safety limits for slot files
	maxSlotSize  = 10 << 20 // 10MB max slot file size
	maxSlotDepth = 100      // Maximum nesting depth
)

// slotExtensions lists the accepted slot file extensions in probe order.
// JSON is canonical; YAML is accepted on the authoring side only.
var slotExtensions = []string{".json", ".yaml", ".yml"}

// DirSource reads slot payloads from files in a directory. A slot for
// (kind, mode) lives in "<dir>/<kind>.<mode>.json" or the YAML equivalents.
// A missing file means the slot is absent; an unreadable or malformed file
// is an error.
type DirSource struct {
	name   string
	role   types.LayerKind
	dir    string
	suffix string
}

// NewDirSource creates a directory-backed source
func NewDirSource(name string, role types.LayerKind, dir string) *DirSource {
	return &DirSource{name: name, role: role, dir: dir}
}

// NewEnvDirSource creates the per-environment overlay source. Overlay slots
// live next to the app base slots, carrying the environment token before the
// extension: "config.http.dev.json".
func NewEnvDirSource(name, dir, env string) *DirSource {
	return &DirSource{name: name, role: types.LayerAppEnv, dir: dir, suffix: env}
}

// Name identifies the source
func (s *DirSource) Name() string { return s.name }

// Role returns the source's layer kind
func (s *DirSource) Role() types.LayerKind { return s.role }

// Slot reads and decodes the payload file for a mode/kind pair
func (s *DirSource) Slot(mode types.Mode, kind types.Kind) (map[string]any, bool, error) {
	base := SlotName(kind, mode)
	if s.suffix != "" {
		base = base + "." + s.suffix
	}
	for _, ext := range slotExtensions {
		path := filepath.Join(s.dir, base+ext)
		data, err := safeReadSlot(path)
		if stderrors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, false, &MalformedPayloadError{Source: s.name, Slot: base + ext, Err: err}
		}

		payload, err := decodeSlot(path, data)
		if err != nil {
			return nil, false, &MalformedPayloadError{Source: s.name, Slot: base + ext, Err: err}
		}
		return payload, true, nil
	}
	return nil, false, nil
}

// Exists reports whether the source directory is present at all. The
// Collector uses this to distinguish "provider contributes nothing" from
// "listed provider does not exist".
func (s *DirSource) Exists() bool {
	info, err := os.Stat(s.dir)
	return err == nil && info.IsDir()
}

// safeReadSlot reads a slot file with size and file-type validation
func safeReadSlot(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", path)
	}
	if info.Size() > maxSlotSize {
		return nil, fmt.Errorf("slot file too large: %d bytes > %d", info.Size(), maxSlotSize)
	}
	return os.ReadFile(path)
}

// decodeSlot decodes a slot file into a mapping, by extension
func decodeSlot(path string, data []byte) (map[string]any, error) {
	var payload map[string]any

	switch filepath.Ext(path) {
	case ".json":
		if err := validateDepth(data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		normalized, err := normalizeYAML(payload, 1)
		if err != nil {
			return nil, err
		}
		payload = normalized
	default:
		return nil, fmt.Errorf("unsupported slot extension: %s", filepath.Ext(path))
	}

	if payload == nil {
		return nil, fmt.Errorf("payload is not a mapping")
	}
	return payload, nil
}

// validateDepth checks JSON nesting depth so a malicious slot file cannot
// exhaust the stack during decode or merge
func validateDepth(data []byte) error {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(data); i++ {
		b := data[i]

		if escaped {
			escaped = false
			continue
		}
		if b == '\\' && inString {
			escaped = true
			continue
		}
		if b == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch b {
		case '{', '[':
			depth++
			if depth > maxSlotDepth {
				return fmt.Errorf("nesting too deep: %d > %d", depth, maxSlotDepth)
			}
		case '}', ']':
			depth--
			if depth < 0 {
				return stderrors.New("malformed JSON: unbalanced brackets")
			}
		}
	}

	if depth != 0 {
		return fmt.Errorf("malformed JSON: unclosed brackets (depth=%d)", depth)
	}
	return nil
}

// normalizeYAML rewrites YAML-decoded values so payloads are shaped exactly
// like JSON-decoded ones: nested mappings as map[string]any, sequences as
// []any. Non-string mapping keys are stringified. The walk enforces the
// same nesting bound as the JSON path, so an over-deep slot fails cleanly
// regardless of format instead of exhausting the stack during merge.
func normalizeYAML(m map[string]any, depth int) (map[string]any, error) {
	if depth > maxSlotDepth {
		return nil, fmt.Errorf("nesting too deep: %d > %d", depth, maxSlotDepth)
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		nv, err := normalizeYAMLValue(v, depth+1)
		if err != nil {
			return nil, err
		}
		out[k] = nv
	}
	return out, nil
}

func normalizeYAMLValue(v any, depth int) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		return normalizeYAML(val, depth)
	case map[any]any:
		if depth > maxSlotDepth {
			return nil, fmt.Errorf("nesting too deep: %d > %d", depth, maxSlotDepth)
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			nv, err := normalizeYAMLValue(item, depth+1)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprintf("%v", k)] = nv
		}
		return out, nil
	case []any:
		if depth > maxSlotDepth {
			return nil, fmt.Errorf("nesting too deep: %d > %d", depth, maxSlotDepth)
		}
		out := make([]any, len(val))
		for i, item := range val {
			nv, err := normalizeYAMLValue(item, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	default:
		return v, nil
	}
}
