package types

import (
	"fmt"
)

// PatternKey is the reserved top-level route table key holding the ordered
// list of pattern routes. It is not a literal request path; route authors
// cannot claim it for a path entry.
const PatternKey = "@patterns"

// RouteTable is a merged routing table: literal request paths mapped to
// route entry mappings, plus the reserved PatternKey holding an ordered list
// of pattern routes. Tables stay map-shaped through composition so the deep
// merge algebra applies uniformly; DecodeRouteEntry produces the typed view
// after validation.
type RouteTable = map[string]any

// RouteEntry is the typed view of one literal-path route. Controller is a
// symbol reference (fully qualified type or class name), Action names the
// handler method, and Methods is the non-empty set of accepted verbs.
type RouteEntry struct {
	Path       string         `json:"path"`
	Controller string         `json:"controller"`
	Action     string         `json:"action"`
	Methods    []string       `json:"methods"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// PatternRoute is one entry of the ordered pattern list. Patterns are
// evaluated strictly in list order at dispatch time; composition preserves
// that order and replaces the list wholesale when a later layer redeclares it.
type PatternRoute struct {
	Pattern    string   `json:"pattern"`
	Controller string   `json:"controller"`
	Action     string   `json:"action"`
	Methods    []string `json:"methods"`
}

// DecodeRouteEntry converts a raw merged route value into its typed view.
// The path parameter is the table key the value was found under.
func DecodeRouteEntry(path string, raw any) (RouteEntry, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return RouteEntry{}, fmt.Errorf("route %s: entry is %T, want mapping", path, raw)
	}

	entry := RouteEntry{Path: path}
	if v, ok := m["controller"].(string); ok {
		entry.Controller = v
	}
	if v, ok := m["action"].(string); ok {
		entry.Action = v
	}
	entry.Methods = stringSlice(m["methods"])
	if meta, ok := m["metadata"].(map[string]any); ok {
		entry.Metadata = meta
	}
	return entry, nil
}

// DecodePatternRoute converts one raw pattern list item into its typed view.
// The index parameter is the item's position in the ordered list.
func DecodePatternRoute(index int, raw any) (PatternRoute, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return PatternRoute{}, fmt.Errorf("pattern[%d]: entry is %T, want mapping", index, raw)
	}

	var pr PatternRoute
	if v, ok := m["pattern"].(string); ok {
		pr.Pattern = v
	}
	if v, ok := m["controller"].(string); ok {
		pr.Controller = v
	}
	if v, ok := m["action"].(string); ok {
		pr.Action = v
	}
	pr.Methods = stringSlice(m["methods"])
	return pr, nil
}

// stringSlice converts a decoded JSON/YAML list value into []string,
// returning nil when the value is absent or not a homogeneous string list.
func stringSlice(raw any) []string {
	switch v := raw.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}
