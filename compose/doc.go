// Package compose implements the three merge algebras of the CitOmni kernel.
//
// Config and route composition share one algebra: deep last-wins per key,
// applied over an ordered layer list. Mappings recurse, lists replace
// wholesale, scalars overwrite, and an explicitly empty mapping clears the
// subtree it overrides.
//
// Service composition uses a deliberately different algebra: a left-wins
// union chained per layer step (acc = provider ∪ acc for each provider in
// listed order, then acc = app ∪ acc). The net precedence — later providers
// beat earlier ones, the application beats everything — falls out of the
// mechanical rule rather than being stated as policy. Definitions replace
// whole; options are never deep-merged.
//
// The two algebras are kept as separate, independently testable functions on
// purpose. Forcing them through one generic merge would conflate last-wins
// with left-wins and leak one algebra's edge cases into the other.
//
// All functions are pure: inputs are never mutated, results share no memory
// with any layer payload, and output depends only on layer order, never on
// map iteration order.
package compose
