package booking

import (
	"context"
	"errors"
	"time"

	"coolserve/services/geo"

	"go.uber.org/zap"
)

// WithBackoff runs fn up to attempts times, sleeping with exponential
// delay between tries. Only transient failures (NetworkError,
// RateLimitError) are retried; everything else returns immediately.
func WithBackoff(ctx context.Context, logger *zap.Logger, attempts int, baseDelay time.Duration, fn func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		delay := baseDelay * time.Duration(1<<(attempt-1))
		logger.Warn("transient failure, backing off",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}

func isTransient(err error) bool {
	var netErr *NetworkError
	var rateErr *geo.RateLimitError
	return errors.As(err, &netErr) || errors.As(err, &rateErr)
}
