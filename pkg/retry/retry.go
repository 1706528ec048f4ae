package retry

import (
	"context"
	"math"
	"math/rand"
	"time"

	apperrors "github.com/hallgrim/parapet/pkg/errors"
	"github.com/hallgrim/parapet/pkg/logging"
)

// Config configures retry behavior
type Config struct {
	MaxAttempts  int                                `json:"maxAttempts"`
	InitialDelay time.Duration                      `json:"initialDelay"`
	MaxDelay     time.Duration                      `json:"maxDelay"`
	Multiplier   float64                            `json:"multiplier"`
	Jitter       bool                               `json:"jitter"`
	ShouldRetry  func(*apperrors.ParapetError) bool `json:"-"`
}

// DefaultConfig provides sensible retry defaults
var DefaultConfig = Config{
	MaxAttempts:  3,
	InitialDelay: 1 * time.Second,
	MaxDelay:     30 * time.Second,
	Multiplier:   2.0,
	Jitter:       true,
	ShouldRetry:  DefaultShouldRetry,
}

// NetworkConfig is optimized for network operations
var NetworkConfig = Config{
	MaxAttempts:  5,
	InitialDelay: 500 * time.Millisecond,
	MaxDelay:     10 * time.Second,
	Multiplier:   1.5,
	Jitter:       true,
	ShouldRetry:  NetworkShouldRetry,
}

// Func is a function that can be retried
type Func func(attempt int) error

// WithBackoff executes a function with exponential backoff retry logic
func WithBackoff(ctx context.Context, config Config, fn Func) error {
	logger := logging.GetDefaultLogger().WithComponent("retry")

	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		startTime := time.Now()
		err := fn(attempt)
		duration := time.Since(startTime)

		if err == nil {
			if attempt > 1 {
				logger.Info("Operation succeeded after %d attempts (took %v)", attempt, duration)
			}
			return nil
		}

		lastErr = err

		var perr *apperrors.ParapetError
		if pe, ok := err.(*apperrors.ParapetError); ok {
			perr = pe
		} else {
			perr = apperrors.Wrap(err, apperrors.ErrorInternal, "RETRY_OPERATION_FAILED", "Operation failed during retry")
		}

		logger.Warn("Attempt %d/%d failed (took %v): %s",
			attempt, config.MaxAttempts, duration, perr.Error())

		if !config.ShouldRetry(perr) {
			logger.Info("Not retrying due to error type: %s", perr.Category)
			return perr
		}

		if attempt >= config.MaxAttempts {
			break
		}

		if ctx.Err() != nil {
			return apperrors.Wrap(ctx.Err(), apperrors.ErrorTimeout, "RETRY_CANCELLED", "Retry cancelled due to context")
		}

		delay := calculateDelay(attempt, config)
		logger.Debug("Waiting %v before attempt %d", delay, attempt+1)

		select {
		case <-ctx.Done():
			return apperrors.Wrap(ctx.Err(), apperrors.ErrorTimeout, "RETRY_CANCELLED", "Retry cancelled due to context")
		case <-time.After(delay):
		}
	}

	if perr, ok := lastErr.(*apperrors.ParapetError); ok {
		return perr.WithContext("retryAttempts", config.MaxAttempts)
	}

	return apperrors.Wrap(lastErr, apperrors.ErrorInternal, "RETRY_EXHAUSTED",
		"All retry attempts failed").
		WithContext("maxAttempts", config.MaxAttempts).
		WithUserAction("The operation failed after multiple attempts. Check your connection and try again")
}

// calculateDelay calculates the delay for the next retry attempt
func calculateDelay(attempt int, config Config) time.Duration {
	delay := time.Duration(float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(attempt-1)))

	if delay > config.MaxDelay {
		delay = config.MaxDelay
	}

	// Jitter prevents thundering herd
	if config.Jitter {
		jitter := time.Duration(rand.Float64() * float64(delay) * 0.1)
		delay = delay + jitter
	}

	return delay
}

// DefaultShouldRetry is the default retry predicate
func DefaultShouldRetry(err *apperrors.ParapetError) bool {
	if err == nil {
		return false
	}

	switch err.Category {
	case apperrors.ErrorAuth, apperrors.ErrorValidation, apperrors.ErrorPermission:
		return false
	case apperrors.ErrorNetwork, apperrors.ErrorTimeout, apperrors.ErrorAPI:
		return true
	default:
		return err.Recoverable
	}
}

// NetworkShouldRetry determines if network errors should be retried
func NetworkShouldRetry(err *apperrors.ParapetError) bool {
	if err == nil {
		return false
	}

	switch err.Category {
	case apperrors.ErrorNetwork, apperrors.ErrorTimeout:
		return true
	case apperrors.ErrorAuth, apperrors.ErrorValidation, apperrors.ErrorPermission:
		return false
	case apperrors.ErrorAPI:
		return err.IsCode("SERVER_ERROR") ||
			err.IsCode("RATE_LIMITED") ||
			err.IsCode("SERVICE_UNAVAILABLE")
	default:
		return err.Recoverable
	}
}

// NetworkOperation retries a network operation with network retry config
func NetworkOperation(ctx context.Context, name string, fn Func) error {
	logger := logging.GetDefaultLogger().WithOperation(name)

	startTime := time.Now()
	err := WithBackoff(ctx, NetworkConfig, fn)
	duration := time.Since(startTime)

	if err != nil {
		logger.Error("Operation %s failed after %v: %v", name, duration, err)
	}

	return err
}

// Operation retries an operation with default retry config
func Operation(ctx context.Context, name string, fn Func) error {
	logger := logging.GetDefaultLogger().WithOperation(name)

	err := WithBackoff(ctx, DefaultConfig, fn)
	if err != nil {
		logger.Error("Operation %s failed: %v", name, err)
	}

	return err
}
