// Package cache persists composition results as durable, directly loadable
// artifacts and loads them back at process start.
//
// # Write discipline
//
// The Writer never overwrites an artifact in place. Every persist writes to
// a uniquely named temporary identity in the same directory, syncs it, and
// atomically renames it onto the canonical identity. A failure anywhere in
// that sequence leaves the previous artifact fully intact; a concurrent
// reader observes either the fully-previous or fully-new artifact, never an
// intermediate state. If two builds race, the last swap wins — the
// operation is idempotent and all-or-nothing, so no cross-process locking
// is needed.
//
// After a swap commits, the Writer signals any registered Invalidators with
// the old canonical identity so external compiled caches recompile from the
// fresh content. Invalidation strictly follows the swap; inverting the
// order would open a window where stale compiled output and fresh content
// disagree.
//
// # Load discipline
//
// The Loader reads the canonical artifact directly and performs no merge
// computation. A missing artifact is a fatal boot condition surfaced as
// ErrArtifactNotFound: the loader never falls back to an empty or
// baseline-only structure, since running under silently-defaulted
// configuration without any operator signal is worse than refusing to
// start. Loaded payloads are immutable for the process lifetime and are
// shared read-only across unbounded concurrent readers.
package cache
