package types

import (
	"fmt"

	"github.com/citomni/kernel/errors"
)

// LayerKind identifies the role of a layer in the fixed composition order
type LayerKind string

// Layer kind constants, in composition order
const (
	LayerBaseline LayerKind = "baseline"
	LayerProvider LayerKind = "provider"
	LayerAppBase  LayerKind = "app_base"
	LayerAppEnv   LayerKind = "app_env"
)

// Layer is one ordered, independently authored source of partial
// configuration, routes, or services. Order is total per build invocation:
// baseline first, providers in listed order, app base, then the optional
// environment overlay. The ordering is explicit contract surface; it is
// never inferred from names.
type Layer struct {
	Kind    LayerKind      `json:"kind"`
	Order   int            `json:"order"`
	Name    string         `json:"name"`
	Payload map[string]any `json:"payload"`
}

// Validate checks layer identity and payload shape. A nil payload is invalid:
// layers that contribute nothing are omitted entirely, never carried as
// placeholders that would occupy an order position.
func (l Layer) Validate() error {
	switch l.Kind {
	case LayerBaseline, LayerProvider, LayerAppBase, LayerAppEnv:
	default:
		return errors.WrapInvalid(errors.ErrMalformedPayload, "Layer", "Validate",
			fmt.Sprintf("unknown layer kind %q", string(l.Kind)))
	}
	if l.Name == "" {
		return errors.WrapInvalid(errors.ErrMalformedPayload, "Layer", "Validate",
			"layer name cannot be empty")
	}
	if l.Payload == nil {
		return errors.WrapInvalid(errors.ErrMalformedPayload, "Layer", "Validate",
			fmt.Sprintf("layer %s has no payload", l.Name))
	}
	return nil
}

// CheckOrder verifies the total-order invariant over an ordered layer list:
// positions strictly increase and no two layers claim the same position.
func CheckOrder(layers []Layer) error {
	seen := make(map[int]string, len(layers))
	prev := -1
	for _, l := range layers {
		if name, dup := seen[l.Order]; dup {
			return errors.WrapInvalid(errors.ErrDuplicateLayer, "Layer", "CheckOrder",
				fmt.Sprintf("layers %s and %s both claim order %d", name, l.Name, l.Order))
		}
		seen[l.Order] = l.Name
		if l.Order <= prev {
			return errors.WrapInvalid(errors.ErrDuplicateLayer, "Layer", "CheckOrder",
				fmt.Sprintf("layer %s order %d does not increase past %d", l.Name, l.Order, prev))
		}
		prev = l.Order
	}
	return nil
}
