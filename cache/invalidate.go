package cache

import (
	"context"
	"log/slog"
)

// Invalidator is notified after an artifact swap commits, carrying the old
// canonical identity. Implementations signal external compiled caches (an
// opcode cache, a CDN edge, a pre-parsed template cache) to drop anything
// keyed to that identity so subsequent loads recompile from fresh content.
//
// Invalidators run strictly after the swap is durable. They must tolerate
// identities they have never seen (first write, already-evicted entries).
type Invalidator interface {
	Invalidate(ctx context.Context, identity string) error
}

// InvalidatorFunc adapts a plain function to the Invalidator interface
type InvalidatorFunc func(ctx context.Context, identity string) error

// Invalidate calls the wrapped function
func (f InvalidatorFunc) Invalidate(ctx context.Context, identity string) error {
	return f(ctx, identity)
}

// LogInvalidator records invalidation signals without acting on them. It is
// the default when no external compiled cache is wired, keeping the signal
// visible in logs for operators.
type LogInvalidator struct {
	logger *slog.Logger
}

// NewLogInvalidator creates a logging invalidator
func NewLogInvalidator(logger *slog.Logger) *LogInvalidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogInvalidator{logger: logger}
}

// Invalidate logs the identity that external caches should drop
func (li *LogInvalidator) Invalidate(_ context.Context, identity string) error {
	li.logger.Info("external cache invalidation signalled", "identity", identity)
	return nil
}
