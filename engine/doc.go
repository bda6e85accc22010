// Package engine orchestrates artifact builds: it collects the ordered
// layer list, applies the merge algebra of each artifact kind, validates
// the composed result, and hands it to the cache writer for the atomic
// swap.
//
// The build path is build-time only. A serving runtime never reaches into
// this package; it reads finished artifacts through cache.Loader and
// nothing else. Keeping the split hard is what makes runtime reads cheap
// and deterministic.
//
// Build computes one (kind, mode) result in memory. BuildAll computes all
// kinds of one mode concurrently. Warm is BuildAll plus persistence: every
// artifact of the mode is composed, validated, swapped, and optionally
// mirrored to a fleet distribution store.
package engine
