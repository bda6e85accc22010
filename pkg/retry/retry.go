// Package retry provides exponential backoff for transient kernel operations
package retry

import (
	"context"
	stderrors "errors"
	"math/rand"
	"time"

	"github.com/citomni/kernel/errors"
)

// Config provides retry configuration
type Config struct {
	MaxAttempts  int           // Maximum number of attempts (0 runs once)
	InitialDelay time.Duration // Initial delay between attempts
	MaxDelay     time.Duration // Maximum delay between attempts
	Multiplier   float64       // Backoff multiplier (typically 2.0)
	AddJitter    bool          // Add randomness to prevent thundering herd
}

// DefaultConfig returns sensible defaults for retry operations
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		AddJitter:    true,
	}
}

// Do executes fn with exponential backoff. Only errors classified as
// transient are retried; invalid and fatal errors surface immediately,
// since re-running a build with a malformed layer or a corrupt artifact
// cannot change the outcome.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 100 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 5 * time.Second
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2.0
	}
	if cfg.MaxDelay < cfg.InitialDelay {
		cfg.MaxDelay = cfg.InitialDelay
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !errors.IsTransient(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		wait := delay
		if cfg.AddJitter {
			// Up to 25% random reduction so a fleet warming at once
			// does not hammer the mirror in lockstep.
			wait -= time.Duration(rand.Float64() * 0.25 * float64(delay))
		}

		select {
		case <-ctx.Done():
			return stderrors.Join(ctx.Err(), lastErr)
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return lastErr
}
