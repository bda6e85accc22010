package types

import (
	"fmt"
)

// ServiceRegistry maps service identifiers to raw service definitions.
// A raw definition is either a bare class reference (string) or a mapping
// with "class" and optional "options" keys. Registries stay raw through
// composition: the left-wins union replaces whole definitions per identifier
// and never reaches into options.
type ServiceRegistry = map[string]any

// ServiceDefinition is the typed view of one service registry entry.
// Options are strictly declarative data: scalars, lists, and nested mappings
// thereof. Executable or opaque values are rejected at validation time.
type ServiceDefinition struct {
	Class   string         `json:"class"`
	Options map[string]any `json:"options,omitempty"`
}

// ParseServiceDefinition converts a raw registry value into its typed view.
// Bare strings are shorthand for a definition with no options.
func ParseServiceDefinition(id string, raw any) (ServiceDefinition, error) {
	switch v := raw.(type) {
	case string:
		return ServiceDefinition{Class: v}, nil
	case map[string]any:
		def := ServiceDefinition{}
		if class, ok := v["class"].(string); ok {
			def.Class = class
		}
		if opts, ok := v["options"].(map[string]any); ok {
			def.Options = opts
		}
		return def, nil
	default:
		return ServiceDefinition{}, fmt.Errorf("service %s: definition is %T, want string or mapping", id, raw)
	}
}
