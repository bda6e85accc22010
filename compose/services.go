package compose

import (
	"github.com/citomni/kernel/types"
)

// MergeServices unions service registries using the left-wins chaining
// algebra. Starting from the baseline, each provider registry p in listed
// order is applied as acc = p ∪ acc, and the application registry last as
// acc = app ∪ acc, where ∪ keeps the left operand's entry on identifier
// collision.
//
// The resulting precedence is derived purely from that mechanical rule:
// the last-listed provider beats earlier providers beats baseline, and the
// application beats all providers and the baseline.
//
// Unlike config and route composition, definitions win whole: when a
// provider and the baseline both define an identifier, the winning
// ServiceDefinition is used verbatim and their options are never merged.
func MergeServices(baseline types.ServiceRegistry, providers []types.ServiceRegistry, app types.ServiceRegistry) types.ServiceRegistry {
	acc := cloneRegistry(baseline)
	for _, p := range providers {
		acc = Union(p, acc)
	}
	return Union(app, acc)
}

// Union combines two registries, keeping the left operand's definition
// whenever an identifier exists in both. The result is a fresh registry;
// neither operand is mutated.
func Union(left, right types.ServiceRegistry) types.ServiceRegistry {
	result := cloneRegistry(right)
	for id, def := range left {
		result[id] = cloneValue(def)
	}
	return result
}

func cloneRegistry(r types.ServiceRegistry) types.ServiceRegistry {
	result := make(types.ServiceRegistry, len(r))
	for id, def := range r {
		result[id] = cloneValue(def)
	}
	return result
}
