package utils_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravtsov/checkout-service/pkg/utils"
)

var fastRetry = utils.RetryConfig{
	MaxAttempts:  3,
	InitialDelay: time.Millisecond,
	Multiplier:   2,
}

func TestRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := utils.Retry(fastRetry, func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_RecoversAfterFailures(t *testing.T) {
	calls := 0
	err := utils.Retry(fastRetry, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	lastErr := errors.New("still down")
	calls := 0
	err := utils.Retry(fastRetry, func() error {
		calls++
		return lastErr
	})

	assert.ErrorIs(t, err, lastErr)
	assert.Equal(t, 3, calls)
}

func TestRetry_PermanentErrorShortCircuits(t *testing.T) {
	permanent := errors.New("bad request")
	calls := 0
	err := utils.Retry(fastRetry, func() error {
		calls++
		return fmt.Errorf("wrapped: %w", permanent)
	}, permanent)

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}
