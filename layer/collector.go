package layer

import (
	"fmt"
	"log/slog"

	"github.com/citomni/kernel/errors"
	"github.com/citomni/kernel/types"
)

// resolvable is implemented by sources that can exist or not exist as a
// whole, independent of any single slot. A listed source that does not
// exist fails collection; a source with no slot for the requested pair
// simply contributes nothing.
type resolvable interface {
	Exists() bool
}

// Collector walks an ordered source list and returns the contributing
// payloads for one (mode, kind) pair. The source order is fixed at
// construction and is the composition order: baseline, providers as listed,
// app base, app env overlay.
type Collector struct {
	sources []Source
	logger  *slog.Logger
}

// NewCollector creates a collector over a fixed ordered source list.
// The order of the slice is the composition order.
func NewCollector(sources []Source, logger *slog.Logger) (*Collector, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := checkRoleOrder(sources); err != nil {
		return nil, err
	}
	return &Collector{sources: sources, logger: logger}, nil
}

// checkRoleOrder enforces the fixed role sequence: one baseline first, then
// zero or more providers, at most one app base, at most one env overlay.
func checkRoleOrder(sources []Source) error {
	rank := map[types.LayerKind]int{
		types.LayerBaseline: 0,
		types.LayerProvider: 1,
		types.LayerAppBase:  2,
		types.LayerAppEnv:   3,
	}

	if len(sources) == 0 || sources[0].Role() != types.LayerBaseline {
		return errors.WrapInvalid(errors.ErrDuplicateLayer, "Collector", "NewCollector",
			"source list must start with the baseline")
	}

	prev := -1
	counts := make(map[types.LayerKind]int)
	for _, src := range sources {
		r, ok := rank[src.Role()]
		if !ok {
			return errors.WrapInvalid(errors.ErrMalformedPayload, "Collector", "NewCollector",
				fmt.Sprintf("source %s has unknown role %q", src.Name(), src.Role()))
		}
		if r < prev {
			return errors.WrapInvalid(errors.ErrDuplicateLayer, "Collector", "NewCollector",
				fmt.Sprintf("source %s (%s) out of role order", src.Name(), src.Role()))
		}
		prev = r
		counts[src.Role()]++
	}

	for _, role := range []types.LayerKind{types.LayerBaseline, types.LayerAppBase, types.LayerAppEnv} {
		if counts[role] > 1 {
			return errors.WrapInvalid(errors.ErrDuplicateLayer, "Collector", "NewCollector",
				fmt.Sprintf("at most one %s source is allowed, got %d", role, counts[role]))
		}
	}
	return nil
}

// Collect returns the ordered layer payloads for one mode/kind pair.
// Sources with no slot for the pair are omitted entirely rather than
// carried as empty placeholders; the remaining layers keep their source
// positions as order values, so the total-order invariant holds per build.
func (c *Collector) Collect(mode types.Mode, kind types.Kind) ([]types.Layer, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	layers := make([]types.Layer, 0, len(c.sources))
	for i, src := range c.sources {
		if r, ok := src.(resolvable); ok && !r.Exists() {
			return nil, &ResolutionError{
				Mode:     mode,
				Kind:     kind,
				Position: i,
				Ref:      src.Name(),
				Err:      errors.ErrLayerNotFound,
			}
		}

		payload, ok, err := src.Slot(mode, kind)
		if err != nil {
			return nil, &ResolutionError{
				Mode:     mode,
				Kind:     kind,
				Position: i,
				Ref:      src.Name(),
				Err:      err,
			}
		}
		if !ok {
			c.logger.Debug("layer slot absent",
				"source", src.Name(),
				"mode", string(mode),
				"kind", string(kind))
			continue
		}

		l := types.Layer{
			Kind:    src.Role(),
			Order:   i,
			Name:    src.Name(),
			Payload: payload,
		}
		if err := l.Validate(); err != nil {
			return nil, err
		}
		layers = append(layers, l)
	}

	if err := types.CheckOrder(layers); err != nil {
		return nil, err
	}

	c.logger.Debug("layers collected",
		"mode", string(mode),
		"kind", string(kind),
		"count", len(layers))
	return layers, nil
}

// Sources exposes the ordered source list for diagnostics
func (c *Collector) Sources() []Source {
	out := make([]Source, len(c.sources))
	copy(out, c.sources)
	return out
}
