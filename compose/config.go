package compose

// MergeConfig deep-merges an ordered list of configuration trees into one
// tree using last-wins semantics. For each key of each successive layer:
// if both the accumulated value and the incoming value are mappings, the
// merge recurses; otherwise the incoming value (list or scalar) replaces the
// accumulated value wholesale.
//
// Layer order is the only tie-break. Every key-level decision is independent
// of sibling keys, so map iteration order cannot affect the outcome.
func MergeConfig(layers []map[string]any) map[string]any {
	result := make(map[string]any)
	for _, layer := range layers {
		result = deepMerge(result, layer)
	}
	return result
}

// deepMerge merges override into base, returning a fresh map. Neither input
// is mutated.
func deepMerge(base, override map[string]any) map[string]any {
	result := make(map[string]any, len(base)+len(override))

	for k, v := range base {
		result[k] = cloneValue(v)
	}

	for k, v := range override {
		incoming, incomingIsMap := v.(map[string]any)

		// An explicitly empty mapping is an override, not an absence: it
		// clears whatever subtree the accumulated result had at this key.
		if incomingIsMap && len(incoming) > 0 {
			if existing, ok := result[k].(map[string]any); ok {
				result[k] = deepMerge(existing, incoming)
				continue
			}
		}

		result[k] = cloneValue(v)
	}

	return result
}

// cloneValue deep-copies mappings and lists so composition results never
// alias layer payloads. Scalars are immutable and pass through.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		clone := make(map[string]any, len(val))
		for k, item := range val {
			clone[k] = cloneValue(item)
		}
		return clone
	case []any:
		clone := make([]any, len(val))
		for i, item := range val {
			clone[i] = cloneValue(item)
		}
		return clone
	default:
		return v
	}
}
