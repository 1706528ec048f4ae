package errors

import (
	"fmt"
	"time"
)

// ErrorCategory represents different types of errors that can occur
type ErrorCategory string

const (
	ErrorNetwork    ErrorCategory = "network"
	ErrorAuth       ErrorCategory = "auth"
	ErrorValidation ErrorCategory = "validation"
	ErrorConfig     ErrorCategory = "config"
	ErrorAPI        ErrorCategory = "api"
	ErrorTimeout    ErrorCategory = "timeout"
	ErrorPermission ErrorCategory = "permission"
	ErrorInternal   ErrorCategory = "internal"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityLow      ErrorSeverity = "low"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityHigh     ErrorSeverity = "high"
	SeverityCritical ErrorSeverity = "critical"
)

// ParapetError represents a structured error with comprehensive metadata
type ParapetError struct {
	Category    ErrorCategory          `json:"category"`
	Severity    ErrorSeverity          `json:"severity"`
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	Cause       error                  `json:"cause,omitempty"`
	Recoverable bool                   `json:"recoverable"`
	UserAction  string                 `json:"userAction,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
	Context     map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *ParapetError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *ParapetError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for error chains
func (e *ParapetError) Is(target error) bool {
	if t, ok := target.(*ParapetError); ok {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new ParapetError with the specified parameters
func New(category ErrorCategory, code, message string) *ParapetError {
	return &ParapetError{
		Category:    category,
		Severity:    SeverityMedium,
		Code:        code,
		Message:     message,
		Recoverable: false,
		Timestamp:   time.Now(),
	}
}

// Wrap creates a new ParapetError that wraps an existing error
func Wrap(err error, category ErrorCategory, code, message string) *ParapetError {
	return &ParapetError{
		Category:    category,
		Severity:    SeverityMedium,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: false,
		Timestamp:   time.Now(),
	}
}

// ValidationError creates a validation-related error
func ValidationError(code, message string) *ParapetError {
	return New(ErrorValidation, code, message).
		WithSeverity(SeverityMedium).
		WithUserAction("Please check your input and try again")
}

// ConfigError creates a configuration-related error
func ConfigError(code, message string) *ParapetError {
	return New(ErrorConfig, code, message).
		WithSeverity(SeverityHigh).
		WithUserAction("Please check your parapet configuration")
}

// TimeoutError creates a timeout-related error
func TimeoutError(code, message string) *ParapetError {
	return New(ErrorTimeout, code, message).
		WithSeverity(SeverityMedium).
		AsRecoverable().
		WithUserAction("The operation timed out. Please try again")
}

// WithContext adds contextual information to the error
func (e *ParapetError) WithContext(key string, value interface{}) *ParapetError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause sets the underlying cause of this error
func (e *ParapetError) WithCause(cause error) *ParapetError {
	e.Cause = cause
	return e
}

// WithUserAction sets a suggested user action for resolving the error
func (e *ParapetError) WithUserAction(action string) *ParapetError {
	e.UserAction = action
	return e
}

// WithSeverity sets the severity level
func (e *ParapetError) WithSeverity(severity ErrorSeverity) *ParapetError {
	e.Severity = severity
	return e
}

// WithDetails adds additional details to the error
func (e *ParapetError) WithDetails(details string) *ParapetError {
	e.Details = details
	return e
}

// AsRecoverable marks the error as recoverable
func (e *ParapetError) AsRecoverable() *ParapetError {
	e.Recoverable = true
	return e
}

// IsRecoverable returns true if the error can be recovered from
func (e *ParapetError) IsRecoverable() bool {
	return e.Recoverable
}

// IsCategory checks if the error belongs to a specific category
func (e *ParapetError) IsCategory(category ErrorCategory) bool {
	return e.Category == category
}

// IsCode checks if the error has a specific code
func (e *ParapetError) IsCode(code string) bool {
	return e.Code == code
}
