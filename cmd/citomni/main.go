// Package main implements the entry point for the CitOmni kernel tool.
// It composes an application's configuration, route table, and service
// registry from their ordered layers and warms the per-mode cache
// artifacts the runtime boots from.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/citomni/kernel/cache"
	"github.com/citomni/kernel/cache/objectstore"
	"github.com/citomni/kernel/engine"
	"github.com/citomni/kernel/layer"
	"github.com/citomni/kernel/metric"
	"github.com/citomni/kernel/types"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "citomni"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Build failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting CitOmni artifact build",
		"version", Version,
		"build_time", BuildTime,
		"root", cliCfg.Root,
		"manifest", cliCfg.ManifestPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng, err := buildEngine(cliCfg, logger)
	if err != nil {
		return err
	}

	modes, err := resolveModes(cliCfg.Mode)
	if err != nil {
		return err
	}

	if cliCfg.Validate {
		for _, mode := range modes {
			if cliCfg.Kind != "all" {
				if _, err := eng.Build(ctx, mode, types.Kind(cliCfg.Kind)); err != nil {
					return err
				}
				slog.Info("Composition is valid", "mode", string(mode), "kind", cliCfg.Kind)
				continue
			}
			if _, err := eng.BuildAll(ctx, mode); err != nil {
				return err
			}
			slog.Info("Composition is valid", "mode", string(mode))
		}
		return nil
	}

	opts := engine.WarmOptions{
		Overwrite:  cliCfg.Overwrite,
		Invalidate: cliCfg.Invalidate,
	}
	if cliCfg.MirrorURL != "" {
		mirror, cleanup, err := connectMirror(ctx, cliCfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()
		opts.Mirror = mirror
	}

	for _, mode := range modes {
		artifacts, err := eng.Warm(ctx, mode, opts)
		if err != nil {
			return err
		}
		for _, a := range artifacts {
			slog.Info("Artifact ready",
				"kind", string(a.Kind), "mode", string(a.Mode), "identity", a.Identity)
		}
	}
	return nil
}

// buildEngine assembles the layer collector, cache writer, and metrics
// from CLI configuration
func buildEngine(cliCfg *CLIConfig, logger *slog.Logger) (*engine.Engine, error) {
	manifest, err := layer.LoadManifest(filepath.Join(cliCfg.Root, cliCfg.ManifestPath))
	if err != nil {
		return nil, err
	}

	baseline := layer.NewDirSource("vendor/baseline", types.LayerBaseline,
		filepath.Join(cliCfg.Root, cliCfg.BaselineDir))

	collector, err := manifest.BuildCollector(cliCfg.Root, baseline, logger)
	if err != nil {
		return nil, err
	}

	store, err := cache.NewFSStore(filepath.Join(cliCfg.Root, cliCfg.CacheDir))
	if err != nil {
		return nil, err
	}
	writer := cache.NewWriter(store, logger, cache.NewLogInvalidator(logger))

	registry := metric.NewRegistry()
	return engine.New(collector, writer, registry.Metrics, logger), nil
}

// resolveModes expands the -mode flag into the mode list to build
func resolveModes(mode string) ([]types.Mode, error) {
	if mode == "all" {
		return types.Modes(), nil
	}
	m := types.Mode(mode)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return []types.Mode{m}, nil
}

// connectMirror dials NATS and binds the fleet distribution bucket
func connectMirror(ctx context.Context, cliCfg *CLIConfig, logger *slog.Logger) (cache.Store, func(), error) {
	nc, err := nats.Connect(cliCfg.MirrorURL, nats.Name(appName))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mirror NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create JetStream context: %w", err)
	}

	mirror, err := objectstore.New(ctx, js, objectstore.Config{
		Bucket:      cliCfg.MirrorBucket,
		Description: "CitOmni composed artifacts",
	}, logger)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}

	logger.Info("Artifact mirroring enabled",
		"url", cliCfg.MirrorURL, "bucket", cliCfg.MirrorBucket)
	return mirror, nc.Close, nil
}
