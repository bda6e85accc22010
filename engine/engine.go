package engine

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/citomni/kernel/cache"
	"github.com/citomni/kernel/compose"
	"github.com/citomni/kernel/errors"
	"github.com/citomni/kernel/layer"
	"github.com/citomni/kernel/metric"
	"github.com/citomni/kernel/pkg/retry"
	"github.com/citomni/kernel/types"
	"github.com/citomni/kernel/validate"
)

// Engine composes artifacts from an ordered layer list and persists them
// through a cache writer. One Engine serves both modes; the mode is a
// build parameter, never engine state.
type Engine struct {
	collector *layer.Collector
	writer    *cache.Writer
	metrics   *metric.Metrics
	logger    *slog.Logger
}

// WarmOptions control a warm pass over one mode's artifacts
type WarmOptions struct {
	// Overwrite replaces artifacts that already exist. When false, an
	// existing artifact is left untouched and returned as-is.
	Overwrite bool

	// Invalidate signals external compiled caches after each swap commits
	Invalidate bool

	// Mirror, when set, receives a copy of every persisted artifact
	// envelope after the local swap has committed. Mirror failures do not
	// fail the warm: the canonical store already holds the new artifact.
	Mirror cache.Store
}

// New creates a build engine. The writer may be nil for validate-only use,
// in which case Warm returns an error but Build and BuildAll work normally.
func New(collector *layer.Collector, writer *cache.Writer, metrics *metric.Metrics, logger *slog.Logger) *Engine {
	if metrics == nil {
		metrics = metric.NewMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		collector: collector,
		writer:    writer,
		metrics:   metrics,
		logger:    logger,
	}
}

// Build composes and validates one (kind, mode) artifact in memory. The
// returned map is freshly built and owned by the caller; nothing is
// persisted. Any failure — a missing layer, a malformed payload, a
// validation violation — aborts the build with no partial result.
func (e *Engine) Build(ctx context.Context, mode types.Mode, kind types.Kind) (map[string]any, error) {
	start := time.Now()

	result, err := e.build(ctx, mode, kind)

	status := "success"
	if err != nil {
		status = "failure"
	}
	e.metrics.BuildsTotal.WithLabelValues(string(kind), string(mode), status).Inc()
	e.metrics.BuildDuration.WithLabelValues(string(kind), string(mode)).
		Observe(time.Since(start).Seconds())

	return result, err
}

func (e *Engine) build(ctx context.Context, mode types.Mode, kind types.Kind) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapTransient(err, "Engine", "Build", "build cancelled")
	}

	layers, err := e.collector.Collect(mode, kind)
	if err != nil {
		return nil, err
	}
	e.metrics.LayersComposed.WithLabelValues(string(kind), string(mode)).
		Observe(float64(len(layers)))

	result := e.merge(kind, layers)

	if err := validate.ValidateWithOrigins(kind, result, layerOrigins(layers)); err != nil {
		var verr *validate.Error
		if stderrors.As(err, &verr) {
			e.metrics.ValidationViolations.WithLabelValues(string(kind), string(mode)).
				Add(float64(len(verr.Violations)))
		}
		return nil, err
	}

	return result, nil
}

// layerOrigins maps each top-level key to the layer that last wrote it.
// Under every merge algebra the later writer of a key is the one whose
// contribution survives at that key, so last-writer attribution points a
// violation report at the layer to fix.
func layerOrigins(layers []types.Layer) map[string]validate.Origin {
	origins := make(map[string]validate.Origin)
	for _, l := range layers {
		for k := range l.Payload {
			origins[k] = validate.Origin{Layer: l.Name, Position: l.Order}
		}
	}
	return origins
}

// merge applies the kind's merge algebra to the ordered layer list
func (e *Engine) merge(kind types.Kind, layers []types.Layer) map[string]any {
	switch kind {
	case types.KindServices:
		return e.mergeServices(layers)
	case types.KindRoutes:
		tables := make([]types.RouteTable, len(layers))
		for i, l := range layers {
			tables[i] = types.RouteTable(l.Payload)
		}
		return compose.MergeRoutes(tables)
	default:
		payloads := make([]map[string]any, len(layers))
		for i, l := range layers {
			payloads[i] = l.Payload
		}
		return compose.MergeConfig(payloads)
	}
}

// mergeServices partitions the ordered layers by role and applies the
// left-wins union chain. The environment overlay, when present, folds in
// last and therefore wins over everything beneath it.
func (e *Engine) mergeServices(layers []types.Layer) types.ServiceRegistry {
	var baseline, app, env types.ServiceRegistry
	var providers []types.ServiceRegistry

	for _, l := range layers {
		switch l.Kind {
		case types.LayerBaseline:
			baseline = types.ServiceRegistry(l.Payload)
		case types.LayerProvider:
			providers = append(providers, types.ServiceRegistry(l.Payload))
		case types.LayerAppBase:
			app = types.ServiceRegistry(l.Payload)
		case types.LayerAppEnv:
			env = types.ServiceRegistry(l.Payload)
		}
	}

	merged := compose.MergeServices(baseline, providers, app)
	if env != nil {
		merged = compose.Union(env, merged)
	}
	return merged
}

// BuildAll composes and validates every artifact kind of one mode
// concurrently. Kinds are independent, so builds run in parallel; the
// first failure cancels the remaining builds and is returned.
func (e *Engine) BuildAll(ctx context.Context, mode types.Mode) (map[types.Kind]map[string]any, error) {
	kinds := types.Kinds()
	results := make([]map[string]any, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			result, err := e.Build(gctx, mode, kind)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[types.Kind]map[string]any, len(kinds))
	for i, kind := range kinds {
		out[kind] = results[i]
	}
	return out, nil
}

// Warm builds every artifact of one mode and swaps the results into the
// store. Builds run concurrently; swaps happen sequentially in kind order
// so the on-disk commit sequence is deterministic. A failed build leaves
// every previously persisted artifact untouched.
func (e *Engine) Warm(ctx context.Context, mode types.Mode, opts WarmOptions) ([]types.CacheArtifact, error) {
	if e.writer == nil {
		return nil, errors.WrapInvalid(errors.ErrCacheWrite, "Engine", "Warm",
			"no cache writer configured")
	}

	buildID := uuid.New().String()
	logger := e.logger.With("build_id", buildID, "mode", string(mode))
	logger.Info("warm started", "overwrite", opts.Overwrite, "invalidate", opts.Invalidate)

	results, err := e.BuildAll(ctx, mode)
	if err != nil {
		logger.Error("warm aborted, nothing persisted", "error", err)
		return nil, err
	}

	artifacts := make([]types.CacheArtifact, 0, len(results))
	for _, kind := range types.Kinds() {
		artifact, err := e.writer.Persist(ctx, kind, mode, results[kind], cache.PersistOptions{
			Overwrite:  opts.Overwrite,
			Invalidate: opts.Invalidate,
		})
		if err != nil {
			return artifacts, err
		}
		e.metrics.CacheSwapsTotal.WithLabelValues(string(kind), string(mode)).Inc()
		artifacts = append(artifacts, artifact)

		if opts.Mirror != nil {
			if err := e.mirror(ctx, opts.Mirror, artifact); err != nil {
				logger.Warn("mirror push failed, canonical artifact unaffected",
					"kind", string(kind), "error", err)
			}
		}
	}

	logger.Info("warm completed", "artifacts", len(artifacts))
	return artifacts, nil
}

// mirror pushes one committed artifact envelope to the distribution store,
// retrying transient failures with backoff
func (e *Engine) mirror(ctx context.Context, store cache.Store, artifact types.CacheArtifact) error {
	data, err := json.Marshal(artifact)
	if err != nil {
		return errors.WrapFatal(
			fmt.Errorf("%w: %v", errors.ErrCacheWrite, err),
			"Engine", "mirror", "serialize artifact envelope")
	}
	name := types.ArtifactName(artifact.Kind, artifact.Mode)
	return retry.Do(ctx, retry.DefaultConfig(), func() error {
		return store.Put(ctx, name, data)
	})
}
