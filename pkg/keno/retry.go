package keno

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for retry operations.
var (
	kenoRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keno_retries_total",
		Help: "Total number of vendor retry attempts",
	})

	kenoRetryExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keno_retry_exhausted_total",
		Help: "Total number of times vendor retry attempts were exhausted",
	})
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (including the initial
	// request). 1 disables retries.
	MaxAttempts int

	// InitialBackoff is the initial backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff.
	BackoffMultiplier float64
}

// retryWithBackoff executes fn with exponential backoff retry logic.
// Only transport-kind errors are retried; application errors are
// deterministic and returned immediately. Context cancellation aborts the
// backoff wait. Jitter (±20%) avoids thundering herd on vendor recovery.
func retryWithBackoff(ctx context.Context, logger zerolog.Logger, cfg RetryConfig, fn func() error) error {
	var lastErr error
	backoff := cfg.InitialBackoff

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 1 {
				logger.Info().
					Int("attempt", attempt).
					Msg("Vendor request succeeded after retry")
			}
			return nil
		}

		lastErr = err

		if !retriable(err) {
			return lastErr
		}

		if attempt >= cfg.MaxAttempts {
			break
		}

		kenoRetriesTotal.Inc()

		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))

		logger.Warn().
			Int("attempt", attempt).
			Dur("backoff", jitter).
			Msg("Retrying vendor request after backoff")

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(jitter):
		}

		backoff = time.Duration(float64(backoff) * cfg.BackoffMultiplier)
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	if cfg.MaxAttempts <= 1 {
		// Retries disabled: report the failure as-is.
		return lastErr
	}

	kenoRetryExhaustedTotal.Inc()
	logger.Warn().
		Int("max_attempts", cfg.MaxAttempts).
		Msg("Vendor retry attempts exhausted")

	return fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, cfg.MaxAttempts, lastErr)
}
