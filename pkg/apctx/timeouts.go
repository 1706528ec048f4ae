package apctx

import (
	"context"
	"time"

	apperrors "github.com/hallgrim/parapet/pkg/errors"
)

// TimeoutConfig holds timeout configuration for different operations
type TimeoutConfig struct {
	Default    time.Duration
	API        time.Duration
	Preference time.Duration
	Flush      time.Duration
	UI         time.Duration
}

// DefaultTimeouts provides sensible defaults for different operation types
var DefaultTimeouts = TimeoutConfig{
	Default:    5 * time.Second,
	API:        3 * time.Second,
	Preference: 3 * time.Second,  // Preference reads/writes are background work
	Flush:      10 * time.Second, // Assignment flush covers multiple calls
	UI:         2 * time.Second,
}

// OperationType represents different types of operations that need timeouts
type OperationType string

const (
	OpDefault    OperationType = "default"
	OpAPI        OperationType = "api"
	OpPreference OperationType = "preference"
	OpFlush      OperationType = "flush"
	OpUI         OperationType = "ui"
)

// WithTimeout creates a context with timeout based on operation type
func WithTimeout(parent context.Context, opType OperationType) (context.Context, context.CancelFunc) {
	timeout := getTimeoutForOperation(opType)
	if timeout == 0 {
		ctx, cancel := context.WithCancel(parent)
		return ctx, cancel
	}
	return context.WithTimeout(parent, timeout)
}

// WithAPITimeout creates a context with the API operation timeout
func WithAPITimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return WithTimeout(parent, OpAPI)
}

// WithPreferenceTimeout creates a context with the preference operation timeout
func WithPreferenceTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return WithTimeout(parent, OpPreference)
}

// WithFlushTimeout creates a context with the assignment flush timeout
func WithFlushTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return WithTimeout(parent, OpFlush)
}

func getTimeoutForOperation(opType OperationType) time.Duration {
	switch opType {
	case OpAPI:
		return DefaultTimeouts.API
	case OpPreference:
		return DefaultTimeouts.Preference
	case OpFlush:
		return DefaultTimeouts.Flush
	case OpUI:
		return DefaultTimeouts.UI
	default:
		return DefaultTimeouts.Default
	}
}

// HandleTimeout converts a context error into a structured timeout error.
// Returns nil when the context has not expired.
func HandleTimeout(ctx context.Context, opType OperationType) *apperrors.ParapetError {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return apperrors.TimeoutError("OPERATION_TIMEOUT",
			"Operation timed out").
			WithContext("operation", string(opType)).
			WithContext("timeout", getTimeoutForOperation(opType).String())
	case context.Canceled:
		return apperrors.New(apperrors.ErrorInternal, "OPERATION_CANCELLED",
			"Operation was cancelled").
			WithContext("operation", string(opType))
	default:
		return nil
	}
}
