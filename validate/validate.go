// Package validate performs structural validation of composed artifacts
// before they are considered buildable.
//
// Validation is exhaustive per build: every violation found is collected and
// reported, not just the first, so a misconfigured layer set can be fixed in
// one pass. All checks are structural — required fields present, types
// correct, no executable payloads. Semantic meaning of configuration values
// is deliberately not validated.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/citomni/kernel/errors"
	"github.com/citomni/kernel/types"
)

// Origin records which layer last wrote a top-level key of a composition
// result: the layer's name and its position in the ordered layer list.
type Origin struct {
	Layer    string `json:"layer"`
	Position int    `json:"position"`
}

// Violation represents one structural validation failure. Path identifies
// the offending key, route path, pattern index, or service identifier.
// Layer and Position name the layer that last wrote the offending key, so
// a misconfigured layer can be fixed without searching the whole stack;
// Position is meaningful only when Layer is non-empty.
//
// Error codes are standardized:
//   - "required": a mandatory field is missing or empty
//   - "type": a value doesn't have the expected shape
//   - "option": a service option value is not declarative data
type Violation struct {
	Kind     types.Kind `json:"kind"`
	Path     string     `json:"path"`
	Layer    string     `json:"layer,omitempty"`
	Position int        `json:"position,omitempty"`
	Message  string     `json:"message"`
	Code     string     `json:"code"`
}

// Error aggregates every violation found in one validation pass
type Error struct {
	Kind       types.Kind
	Violations []Violation
	sentinel   error
}

// Error implements the error interface
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s artifact failed validation with %d violation(s):", e.Kind, len(e.Violations))
	for _, v := range e.Violations {
		if v.Layer != "" {
			fmt.Fprintf(&sb, "\n  - %s: %s (layer %d: %s)", v.Path, v.Message, v.Position, v.Layer)
		} else {
			fmt.Fprintf(&sb, "\n  - %s: %s", v.Path, v.Message)
		}
	}
	return sb.String()
}

// Unwrap returns the kind's sentinel so callers can branch with errors.Is
func (e *Error) Unwrap() error {
	return e.sentinel
}

// Validate structurally checks a composed artifact of the given kind.
// The result parameter is the raw composition result: a configuration tree,
// route table, or service registry. Returns nil when the artifact is
// buildable, or an *Error carrying every violation found.
func Validate(kind types.Kind, result map[string]any) error {
	return ValidateWithOrigins(kind, result, nil)
}

// ValidateWithOrigins is Validate with layer provenance. The origins map
// relates each top-level key of the composition result to the layer that
// last wrote it; every violation is annotated with that layer's name and
// ordered position. A nil map leaves violations unattributed.
func ValidateWithOrigins(kind types.Kind, result map[string]any, origins map[string]Origin) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	if result == nil {
		return errors.WrapInvalid(errors.ErrMalformedPayload, "Validator", "Validate",
			fmt.Sprintf("%s composition result is nil", kind))
	}

	var violations []Violation
	var sentinel error

	switch kind {
	case types.KindConfig:
		// A configuration tree has no structural requirement beyond being a
		// mapping, which the signature already guarantees. Arbitrary depth
		// and shape are permitted by design.
		return nil
	case types.KindRoutes:
		violations = validateRoutes(result)
		sentinel = errors.ErrMissingRouteField
	case types.KindServices:
		violations = validateServices(result)
		sentinel = errors.ErrUnresolvableService
	}

	if len(violations) == 0 {
		return nil
	}

	for i := range violations {
		if origin, ok := origins[originKey(kind, violations[i].Path)]; ok {
			violations[i].Layer = origin.Layer
			violations[i].Position = origin.Position
		}
	}

	// Deterministic report order regardless of map iteration.
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Path != violations[j].Path {
			return violations[i].Path < violations[j].Path
		}
		return violations[i].Code < violations[j].Code
	})

	return &Error{Kind: kind, Violations: violations, sentinel: sentinel}
}

// originKey reduces a violation path to the top-level key it was found
// under, which is the granularity layer provenance is tracked at: pattern
// refs collapse to the reserved pattern key, service option paths to the
// service identifier.
func originKey(kind types.Kind, path string) string {
	switch kind {
	case types.KindRoutes:
		if strings.HasPrefix(path, types.PatternKey) {
			return types.PatternKey
		}
	case types.KindServices:
		if i := strings.Index(path, ".options."); i >= 0 {
			return path[:i]
		}
	}
	return path
}

// validateRoutes checks every literal-path entry and every pattern list item
func validateRoutes(table types.RouteTable) []Violation {
	var violations []Violation

	for path, raw := range table {
		if path == types.PatternKey {
			violations = append(violations, validatePatterns(raw)...)
			continue
		}

		entry, err := types.DecodeRouteEntry(path, raw)
		if err != nil {
			violations = append(violations, Violation{
				Kind:    types.KindRoutes,
				Path:    path,
				Message: err.Error(),
				Code:    "type",
			})
			continue
		}
		violations = append(violations, checkRouteFields(path, entry.Controller, entry.Action, entry.Methods)...)
	}

	return violations
}

// validatePatterns checks the reserved pattern list: it must be a list, and
// every item must carry the same required fields as a literal route.
func validatePatterns(raw any) []Violation {
	items, ok := raw.([]any)
	if !ok {
		return []Violation{{
			Kind:    types.KindRoutes,
			Path:    types.PatternKey,
			Message: fmt.Sprintf("pattern group is %T, want ordered list", raw),
			Code:    "type",
		}}
	}

	var violations []Violation
	for i, item := range items {
		ref := fmt.Sprintf("%s[%d]", types.PatternKey, i)
		pr, err := types.DecodePatternRoute(i, item)
		if err != nil {
			violations = append(violations, Violation{
				Kind:    types.KindRoutes,
				Path:    ref,
				Message: err.Error(),
				Code:    "type",
			})
			continue
		}
		if pr.Pattern == "" {
			violations = append(violations, Violation{
				Kind:    types.KindRoutes,
				Path:    ref,
				Message: "pattern is required",
				Code:    "required",
			})
		}
		violations = append(violations, checkRouteFields(ref, pr.Controller, pr.Action, pr.Methods)...)
	}
	return violations
}

// checkRouteFields enforces the shared route entry requirements: a resolvable
// controller, an action, and a non-empty methods set.
func checkRouteFields(ref, controller, action string, methods []string) []Violation {
	var violations []Violation
	if controller == "" {
		violations = append(violations, Violation{
			Kind:    types.KindRoutes,
			Path:    ref,
			Message: "controller is required",
			Code:    "required",
		})
	}
	if action == "" {
		violations = append(violations, Violation{
			Kind:    types.KindRoutes,
			Path:    ref,
			Message: "action is required",
			Code:    "required",
		})
	}
	if len(methods) == 0 {
		violations = append(violations, Violation{
			Kind:    types.KindRoutes,
			Path:    ref,
			Message: "methods must be a non-empty list of strings",
			Code:    "required",
		})
	}
	for _, m := range methods {
		if m == "" {
			violations = append(violations, Violation{
				Kind:    types.KindRoutes,
				Path:    ref,
				Message: "methods must not contain empty entries",
				Code:    "type",
			})
			break
		}
	}
	return violations
}

// validateServices checks every definition: a usable class reference and
// strictly declarative option values
func validateServices(registry types.ServiceRegistry) []Violation {
	var violations []Violation

	for id, raw := range registry {
		def, err := types.ParseServiceDefinition(id, raw)
		if err != nil {
			violations = append(violations, Violation{
				Kind:    types.KindServices,
				Path:    id,
				Message: err.Error(),
				Code:    "type",
			})
			continue
		}
		if def.Class == "" {
			violations = append(violations, Violation{
				Kind:    types.KindServices,
				Path:    id,
				Message: "class reference is required",
				Code:    "required",
			})
		}
		for key, value := range def.Options {
			if !isDeclarative(value) {
				violations = append(violations, Violation{
					Kind:    types.KindServices,
					Path:    fmt.Sprintf("%s.options.%s", id, key),
					Message: fmt.Sprintf("option value of type %T is not scalar, list, or mapping", value),
					Code:    "option",
				})
			}
		}
	}

	return violations
}

// isDeclarative reports whether a value is pure inert data: a scalar, a list
// of declarative values, or a string-keyed mapping of declarative values.
// Anything else (functions, channels, arbitrary structs) would smuggle
// executable or opaque payloads into a layer and is rejected.
func isDeclarative(v any) bool {
	switch val := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	case []any:
		for _, item := range val {
			if !isDeclarative(item) {
				return false
			}
		}
		return true
	case []string:
		return true
	case map[string]any:
		for _, item := range val {
			if !isDeclarative(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
