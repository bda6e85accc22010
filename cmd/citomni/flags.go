package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	Root         string
	ManifestPath string
	BaselineDir  string
	CacheDir     string
	Mode         string
	Kind         string
	LogLevel     string
	LogFormat    string
	Overwrite    bool
	Invalidate   bool
	MirrorURL    string
	MirrorBucket string
	ShowVersion  bool
	ShowHelp     bool
	Validate     bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.StringVar(&cfg.Root, "root",
		getEnv("CITOMNI_ROOT", "."),
		"Application root directory (env: CITOMNI_ROOT)")

	flag.StringVar(&cfg.ManifestPath, "manifest",
		getEnv("CITOMNI_MANIFEST", "citomni.json"),
		"Path to provider manifest, relative to root (env: CITOMNI_MANIFEST)")

	flag.StringVar(&cfg.BaselineDir, "baseline",
		getEnv("CITOMNI_BASELINE", "vendor/citomni/baseline"),
		"Vendor baseline layer directory, relative to root (env: CITOMNI_BASELINE)")

	flag.StringVar(&cfg.CacheDir, "cache-dir",
		getEnv("CITOMNI_CACHE_DIR", "var/cache"),
		"Artifact cache directory, relative to root (env: CITOMNI_CACHE_DIR)")

	flag.StringVar(&cfg.Mode, "mode",
		getEnv("CITOMNI_MODE", "all"),
		"Execution mode to build: http, cli, all (env: CITOMNI_MODE)")

	flag.StringVar(&cfg.Kind, "kind",
		getEnv("CITOMNI_KIND", "all"),
		"Artifact kind to validate: config, routes, services, all (env: CITOMNI_KIND)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("CITOMNI_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: CITOMNI_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("CITOMNI_LOG_FORMAT", "json"),
		"Log format: json, text (env: CITOMNI_LOG_FORMAT)")

	flag.BoolVar(&cfg.Overwrite, "overwrite",
		getEnvBool("CITOMNI_OVERWRITE", true),
		"Replace existing artifacts (env: CITOMNI_OVERWRITE)")

	flag.BoolVar(&cfg.Invalidate, "invalidate",
		getEnvBool("CITOMNI_INVALIDATE", true),
		"Signal external compiled caches after each swap (env: CITOMNI_INVALIDATE)")

	flag.StringVar(&cfg.MirrorURL, "mirror-url",
		getEnv("CITOMNI_MIRROR_URL", ""),
		"NATS URL for fleet artifact mirroring, empty to disable (env: CITOMNI_MIRROR_URL)")

	flag.StringVar(&cfg.MirrorBucket, "mirror-bucket",
		getEnv("CITOMNI_MIRROR_BUCKET", "citomni-artifacts"),
		"ObjectStore bucket for mirrored artifacts (env: CITOMNI_MIRROR_BUCKET)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	flag.BoolVar(&cfg.Validate, "validate", false, "Compose and validate without persisting anything")

	// Custom usage
	flag.Usage = func() {
		printDetailedHelp()
	}

	flag.Parse()

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if _, err := os.Stat(cfg.Root); err != nil {
		return fmt.Errorf("root directory not found: %s", cfg.Root)
	}

	validModes := []string{"http", "cli", "all"}
	if !contains(validModes, cfg.Mode) {
		return fmt.Errorf("invalid mode: %s", cfg.Mode)
	}

	validKinds := []string{"config", "routes", "services", "all"}
	if !contains(validKinds, cfg.Kind) {
		return fmt.Errorf("invalid kind: %s", cfg.Kind)
	}
	if cfg.Kind != "all" && !cfg.Validate {
		return fmt.Errorf("-kind requires -validate: a warm always builds every kind")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - Layered artifact composition

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Warm every artifact of both modes
  %s --root=/srv/app

  # Compose and validate only, nothing written
  %s --validate

  # Warm http artifacts and mirror them to a fleet bucket
  %s --mode=http --mirror-url=nats://localhost:4222

  # Run with environment variables
  export CITOMNI_ROOT=/srv/app
  export CITOMNI_LOG_LEVEL=debug
  %s

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Utility function to check if slice contains string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
