// Package kernel assembles an application's effective configuration, route
// table, and service registry from ordered contribution layers, and serves
// the results as immutable per-mode cache artifacts.
//
// # Philosophy: Compose Once, Read Forever
//
// The kernel splits an application's life into two phases with nothing in
// between:
//
// Build phase (deployments, cache warms):
//   - Collect the ordered layer list: vendor baseline, providers in listed
//     order, application base, optional environment overlay
//   - Merge each artifact kind under its own algebra
//   - Validate the composed result exhaustively
//   - Swap the serialized artifact into the cache atomically
//   - Signal external compiled caches after the swap commits
//
// Run phase (every request, every command):
//   - Load the finished artifact
//   - Nothing else: no recomputation, no layer access, no fallback
//
// A runtime that cannot load its artifact fails; it never quietly rebuilds.
// Composition cost is paid at deployment time and never again.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│             Engine                  │  Build orchestration
//	│   (collect, merge, validate, swap)  │  per (kind, mode)
//	└─────────────────────────────────────┘
//	           ↓ collects via
//	┌─────────────────────────────────────┐
//	│         Layer Sources               │  baseline, providers,
//	│   (manifest, dirs, in-memory)       │  app base, env overlay
//	└─────────────────────────────────────┘
//	           ↓ merged and validated into
//	┌─────────────────────────────────────┐
//	│        Cache Artifacts              │  config/routes/services
//	│  (atomic swap, invalidation,        │  × http/cli
//	│   optional fleet mirror)            │
//	└─────────────────────────────────────┘
//
// Two execution modes exist, http and cli, and they share nothing: each
// mode has its own layer slots, its own builds, and its own artifacts. Six
// artifacts cover an application completely.
//
// # Merge Algebras
//
// Each artifact kind composes under its own rules:
//
//   - Configuration: recursive last-wins. Mappings merge key-wise, lists
//     replace wholesale, scalars overwrite. An explicit empty mapping
//     clears the subtree beneath it.
//   - Routes: the same algebra keyed by literal path, plus the reserved
//     "@patterns" key holding an ordered pattern list that later layers
//     replace wholesale.
//   - Services: left-wins union chaining. Later layers win identifier
//     collisions and the winning definition is used verbatim; options are
//     never merged across layers.
//
// # Packages
//
// Composition pipeline:
//   - layer: layer sources, provider manifest, ordered collection
//   - compose: the three merge algebras
//   - validate: exhaustive structural validation of composed results
//   - engine: build orchestration, warm passes, build metrics
//
// Artifact handling:
//   - cache: atomic filesystem store, writer, invalidation, runtime loader
//   - cache/objectstore: NATS JetStream ObjectStore mirror for fleets
//
// Infrastructure:
//   - types: artifact kinds, modes, layers, route and service shapes
//   - errors: structured error classification
//   - metric: Prometheus metrics
//
// # Usage
//
// Warming a deployment:
//
//	manifest, _ := layer.LoadManifest("citomni.json")
//	collector, _ := manifest.BuildCollector(root, baseline, logger)
//	writer := cache.NewWriter(store, logger, invalidator)
//	eng := engine.New(collector, writer, metrics, logger)
//	eng.Warm(ctx, types.ModeHTTP, engine.WarmOptions{Overwrite: true, Invalidate: true})
//
// Booting a runtime:
//
//	loader := cache.NewLoader(store, logger)
//	cfg, _, err := loader.Load(ctx, types.KindConfig, types.ModeHTTP)
//	if err != nil {
//	    // fail closed: a runtime never recomputes
//	}
//
// # Design Principles
//
// Determinism:
//   - Identical layer lists produce byte-identical artifacts
//   - Layer order is explicit contract surface, never inferred
//
// Fail closed:
//   - A failed build leaves the previous artifact untouched and readable
//   - Validation reports every violation of a pass, not just the first
//
// Atomicity:
//   - Artifact swaps are write-then-rename; readers never see torn bytes
//   - External cache invalidation strictly follows the committed swap
package kernel
