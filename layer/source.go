package layer

import (
	"fmt"

	"github.com/citomni/kernel/types"
)

// Source is one layer's payload provider. Implementations must be pure
// retrieval: no side effects on read, no merging, no mutation of returned
// data by the caller's standards (the Collector clones nothing; compose
// does its own cloning).
type Source interface {
	// Name identifies the source for error reporting, e.g. "citomni/auth"
	Name() string

	// Role returns the source's layer kind (baseline, provider, app_base,
	// app_env)
	Role() types.LayerKind

	// Slot returns the payload for one mode/kind pair. The second return
	// reports whether the slot exists at all; an absent slot contributes
	// nothing and is not an error.
	Slot(mode types.Mode, kind types.Kind) (map[string]any, bool, error)
}

// slotKey addresses one payload within a source
type slotKey struct {
	mode types.Mode
	kind types.Kind
}

// SlotName returns the conventional slot file name for a mode/kind pair,
// without extension: "config.http", "services.cli", ...
func SlotName(kind types.Kind, mode types.Mode) string {
	return fmt.Sprintf("%s.%s", kind, mode)
}

// MapSource serves slots from in-memory data. The vendor baseline ships this
// way (compiled into the binary), and tests use it to stage layer sets
// without touching disk.
type MapSource struct {
	name  string
	role  types.LayerKind
	slots map[slotKey]map[string]any
}

// NewMapSource creates an in-memory source with no slots
func NewMapSource(name string, role types.LayerKind) *MapSource {
	return &MapSource{
		name:  name,
		role:  role,
		slots: make(map[slotKey]map[string]any),
	}
}

// SetSlot installs or replaces the payload for one mode/kind pair
func (s *MapSource) SetSlot(mode types.Mode, kind types.Kind, payload map[string]any) *MapSource {
	s.slots[slotKey{mode: mode, kind: kind}] = payload
	return s
}

// Name identifies the source
func (s *MapSource) Name() string { return s.name }

// Role returns the source's layer kind
func (s *MapSource) Role() types.LayerKind { return s.role }

// Slot returns the in-memory payload for a mode/kind pair
func (s *MapSource) Slot(mode types.Mode, kind types.Kind) (map[string]any, bool, error) {
	payload, ok := s.slots[slotKey{mode: mode, kind: kind}]
	if !ok {
		return nil, false, nil
	}
	return payload, true, nil
}
