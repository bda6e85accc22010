package retry

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citomni/kernel/errors"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransient(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		if calls < 3 {
			return errors.WrapTransient(errors.ErrMirrorUnavailable, "Store", "Put", "push")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		return errors.WrapTransient(errors.ErrMirrorUnavailable, "Store", "Put", "push")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, stderrors.Is(err, errors.ErrMirrorUnavailable))
}

func TestDoDoesNotRetryNonTransient(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		return errors.WrapInvalid(errors.ErrMalformedPayload, "Layer", "Validate", "decode")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, fastConfig(), func() error {
		calls++
		return errors.WrapTransient(errors.ErrMirrorUnavailable, "Store", "Put", "push")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, stderrors.Is(err, context.Canceled))
}
