package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citomni/kernel/errors"
	"github.com/citomni/kernel/types"
)

func validRoute() map[string]any {
	return map[string]any{
		"controller": "PageController",
		"action":     "index",
		"methods":    []any{"GET"},
	}
}

func TestValidate_ConfigAnyShape(t *testing.T) {
	assert.NoError(t, Validate(types.KindConfig, map[string]any{
		"deeply": map[string]any{"nested": map[string]any{"values": []any{1, "two", nil}}},
	}))
	assert.NoError(t, Validate(types.KindConfig, map[string]any{}))
}

func TestValidate_NilResult(t *testing.T) {
	err := Validate(types.KindRoutes, nil)
	assert.ErrorIs(t, err, errors.ErrMalformedPayload)
}

func TestValidate_UnknownKind(t *testing.T) {
	err := Validate(types.Kind("templates"), map[string]any{})
	assert.ErrorIs(t, err, errors.ErrUnknownKind)
}

func TestValidate_RoutesValid(t *testing.T) {
	table := types.RouteTable{
		"/":        validRoute(),
		"/contact": validRoute(),
		types.PatternKey: []any{
			map[string]any{"pattern": "/blog/{slug}", "controller": "BlogController", "action": "show", "methods": []any{"GET"}},
		},
	}
	assert.NoError(t, Validate(types.KindRoutes, table))
}

func TestValidate_RoutesMissingFields(t *testing.T) {
	table := types.RouteTable{
		"/a": map[string]any{"action": "index", "methods": []any{"GET"}},         // no controller
		"/b": map[string]any{"controller": "C", "methods": []any{"GET"}},         // no action
		"/c": map[string]any{"controller": "C", "action": "index"},               // no methods
		"/d": map[string]any{"controller": "C", "action": "index", "methods": []any{}}, // empty methods
	}

	err := Validate(types.KindRoutes, table)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingRouteField)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Violations, 4, "validation must be exhaustive, not fail-first")

	// Deterministic report ordering by path.
	paths := make([]string, len(ve.Violations))
	for i, v := range ve.Violations {
		paths[i] = v.Path
	}
	assert.Equal(t, []string{"/a", "/b", "/c", "/d"}, paths)
}

func TestValidate_RouteEntryNotMapping(t *testing.T) {
	err := Validate(types.KindRoutes, types.RouteTable{"/x": "PageController::index"})
	require.Error(t, err)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Violations, 1)
	assert.Equal(t, "type", ve.Violations[0].Code)
}

func TestValidate_PatternViolationsReportIndex(t *testing.T) {
	table := types.RouteTable{
		types.PatternKey: []any{
			map[string]any{"pattern": "/ok/{x}", "controller": "C", "action": "a", "methods": []any{"GET"}},
			map[string]any{"controller": "C", "action": "a", "methods": []any{"GET"}}, // no pattern
			map[string]any{"pattern": "/no-methods/{x}", "controller": "C", "action": "a"},
		},
	}

	err := Validate(types.KindRoutes, table)
	require.Error(t, err)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Violations, 2)
	assert.Equal(t, types.PatternKey+"[1]", ve.Violations[0].Path)
	assert.Equal(t, types.PatternKey+"[2]", ve.Violations[1].Path)
}

func TestValidate_PatternGroupNotList(t *testing.T) {
	err := Validate(types.KindRoutes, types.RouteTable{
		types.PatternKey: map[string]any{"pattern": "/x"},
	})
	require.Error(t, err)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Violations, 1)
	assert.Equal(t, "type", ve.Violations[0].Code)
}

func TestValidate_WithOriginsAnnotatesViolations(t *testing.T) {
	table := types.RouteTable{
		"/a": map[string]any{"action": "index", "methods": []any{"GET"}},
		types.PatternKey: []any{
			map[string]any{"controller": "C", "action": "a", "methods": []any{"GET"}}, // no pattern
		},
	}
	origins := map[string]Origin{
		"/a":             {Layer: "app", Position: 2},
		types.PatternKey: {Layer: "citomni/auth", Position: 1},
	}

	err := ValidateWithOrigins(types.KindRoutes, table, origins)
	require.Error(t, err)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Violations, 2)

	byPath := map[string]Violation{}
	for _, v := range ve.Violations {
		byPath[v.Path] = v
	}
	assert.Equal(t, "app", byPath["/a"].Layer)
	assert.Equal(t, 2, byPath["/a"].Position)
	assert.Equal(t, "citomni/auth", byPath[types.PatternKey+"[0]"].Layer)
	assert.Equal(t, 1, byPath[types.PatternKey+"[0]"].Position)

	assert.Contains(t, ve.Error(), "(layer 2: app)")
}

func TestValidate_WithOriginsServiceOptionAttribution(t *testing.T) {
	registry := types.ServiceRegistry{
		"hooked": map[string]any{
			"class":   "App\\Service",
			"options": map[string]any{"callback": func() {}},
		},
	}

	err := ValidateWithOrigins(types.KindServices, registry, map[string]Origin{
		"hooked": {Layer: "citomni/payments", Position: 3},
	})
	require.Error(t, err)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Violations, 1)
	assert.Equal(t, "hooked.options.callback", ve.Violations[0].Path)
	assert.Equal(t, "citomni/payments", ve.Violations[0].Layer)
	assert.Equal(t, 3, ve.Violations[0].Position)
}

func TestValidate_NoOriginsLeavesViolationsUnattributed(t *testing.T) {
	err := Validate(types.KindRoutes, types.RouteTable{
		"/a": map[string]any{"action": "index", "methods": []any{"GET"}},
	})
	require.Error(t, err)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, ve.Violations[0].Layer)
}

func TestValidate_ServicesValid(t *testing.T) {
	registry := types.ServiceRegistry{
		"router": "Kernel\\Service\\Router",
		"mailer": map[string]any{
			"class": "Kernel\\Service\\Mailer",
			"options": map[string]any{
				"transport": "smtp",
				"retries":   3,
				"hosts":     []any{"mx1", "mx2"},
				"auth":      map[string]any{"user": "no-reply"},
			},
		},
	}
	assert.NoError(t, Validate(types.KindServices, registry))
}

func TestValidate_ServiceMissingClass(t *testing.T) {
	registry := types.ServiceRegistry{
		"broken": map[string]any{"options": map[string]any{"x": 1}},
	}

	err := Validate(types.KindServices, registry)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnresolvableService)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Violations, 1)
	assert.Equal(t, "broken", ve.Violations[0].Path)
	assert.Equal(t, "required", ve.Violations[0].Code)
}

func TestValidate_ServiceExecutableOptionRejected(t *testing.T) {
	registry := types.ServiceRegistry{
		"hooked": map[string]any{
			"class": "App\\Service",
			"options": map[string]any{
				"callback": func() {},
			},
		},
	}

	err := Validate(types.KindServices, registry)
	require.Error(t, err)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Violations, 1)
	assert.Equal(t, "hooked.options.callback", ve.Violations[0].Path)
	assert.Equal(t, "option", ve.Violations[0].Code)
}

func TestValidate_ServiceNestedOpaqueOptionRejected(t *testing.T) {
	registry := types.ServiceRegistry{
		"svc": map[string]any{
			"class": "App\\Service",
			"options": map[string]any{
				"nested": map[string]any{"deep": []any{make(chan int)}},
			},
		},
	}

	err := Validate(types.KindServices, registry)
	require.Error(t, err)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "svc.options.nested", ve.Violations[0].Path)
}

func TestValidate_ServiceDefinitionWrongType(t *testing.T) {
	err := Validate(types.KindServices, types.ServiceRegistry{"svc": 42})
	require.Error(t, err)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "type", ve.Violations[0].Code)
}
