// Package errors provides standardized error handling patterns for the
// CitOmni kernel.
//
// # Overview
//
// The errors package implements a three-class error classification system for
// the layered composition pipeline: Transient (temporary I/O conditions),
// Invalid (bad layer input or malformed artifacts, non-retryable), and Fatal
// (unrecoverable, abort with nothing written).
//
// Every failure in the build/warm/load path maps onto one of the standard
// error variables below, so operational tooling can branch on errors.Is
// instead of matching error strings.
//
// # Error Classification
//
//   - Transient: the artifact mirror being unreachable; re-running the build
//     is always safe because builds are all-or-nothing
//   - Invalid: unresolvable layers, non-mapping payloads, route entries with
//     missing fields, service definitions with executable option values
//   - Fatal: failed atomic writes, missing or corrupt canonical artifacts at
//     boot; these must propagate and abort
//
// The classification system integrates with Go's standard error handling,
// supporting errors.Is(), errors.As(), and error wrapping chains.
//
// # Quick Start
//
// Return standard error variables for known conditions:
//
//	if payload == nil {
//	    return errors.ErrLayerNotFound
//	}
//
// Wrap errors with component context before crossing package boundaries:
//
//	return errors.WrapInvalid(err, "Collector", "Collect", "resolve provider slot")
package errors
