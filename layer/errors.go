package layer

import (
	"fmt"

	"github.com/citomni/kernel/errors"
	"github.com/citomni/kernel/types"
)

// ResolutionError reports a listed layer whose payload source could not be
// located or read. Position is the layer's index in the ordered source list
// for the failing build, so tooling can point at the exact manifest entry.
type ResolutionError struct {
	Mode     types.Mode
	Kind     types.Kind
	Position int
	Ref      string
	Err      error
}

// Error implements the error interface
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("layer %d (%s) unresolvable for %s/%s: %v",
		e.Position, e.Ref, e.Mode, e.Kind, e.Err)
}

// Unwrap returns the underlying error, chaining through to ErrLayerNotFound
func (e *ResolutionError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return errors.ErrLayerNotFound
}

// MalformedPayloadError reports a slot whose decoded payload is not a
// mapping where one is required.
type MalformedPayloadError struct {
	Source string
	Slot   string
	Err    error
}

// Error implements the error interface
func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("source %s slot %s: %v", e.Source, e.Slot, e.Err)
}

// Unwrap returns ErrMalformedPayload so callers can branch with errors.Is
func (e *MalformedPayloadError) Unwrap() error {
	return errors.ErrMalformedPayload
}
