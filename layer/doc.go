// Package layer retrieves the ordered layer payloads that feed composition.
//
// A layer source exposes one "slot" per execution mode and artifact kind: a
// pure data structure with no executable content and no side effects when
// read. Slot absence means "this layer contributes nothing for this kind",
// never an error. Sources come in four roles with a fixed composition order:
// the vendor baseline first, each listed provider in the exact order the
// application lists them, the application base, and finally the optional
// per-environment overlay.
//
// The Collector walks that ordered source list for one (mode, kind) pair and
// returns the contributing payloads as types.Layer values. It performs no
// merging; compose owns the algebras. A listed provider whose payload source
// cannot be resolved aborts collection with a ResolutionError carrying the
// provider's position in the list.
//
// Two source implementations ship here: MapSource wraps in-memory slot data
// (vendor baselines compiled into a binary, tests), and DirSource reads slot
// files named "<kind>.<mode>.json" (or .yaml/.yml) from a directory.
package layer
