package compose

import (
	"github.com/citomni/kernel/types"
)

// MergeRoutes deep-merges an ordered list of route tables into one table.
// The algebra is identical to MergeConfig; only the key vocabulary differs:
// top-level keys are literal request paths plus the reserved pattern key.
//
// Because a route entry is a mapping, a later layer may override a single
// field (say, the controller) while inheriting the rest of the entry from an
// earlier layer. Authors wanting a full replacement must redeclare every
// field.
//
// The pattern key's value is a list, so the list-replace rule applies: a
// later layer that declares types.PatternKey replaces the entire ordered
// pattern list. There is no per-pattern merging; an application that wants
// to add one pattern on top of provider-supplied ones must redeclare the
// full list. That is a documented sharp edge of the algebra, not a defect.
func MergeRoutes(layers []types.RouteTable) types.RouteTable {
	result := make(types.RouteTable)
	for _, layer := range layers {
		result = deepMerge(result, layer)
	}
	return result
}
