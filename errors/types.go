package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Registry errors
	ErrCodeRegistryUnavailable ErrorCode = "REGISTRY_UNAVAILABLE"
	ErrCodeEnvironmentNotFound ErrorCode = "ENVIRONMENT_NOT_FOUND"

	// Watcher errors
	ErrCodeWatchSetup ErrorCode = "WATCH_SETUP"

	// Process control errors
	ErrCodeSignalFailed   ErrorCode = "SIGNAL_FAILED"
	ErrCodeAlreadyRunning ErrorCode = "ALREADY_RUNNING"

	// Alert delivery errors
	ErrCodeAlertDelivery ErrorCode = "ALERT_DELIVERY"

	// General errors
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
)

// SentinelError represents a structured error with context
type SentinelError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *SentinelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SentinelError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *SentinelError) WithDetail(key string, value interface{}) *SentinelError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *SentinelError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new SentinelError
func New(code ErrorCode, message string) *SentinelError {
	return &SentinelError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a SentinelError
func Wrap(err error, code ErrorCode, message string) *SentinelError {
	return &SentinelError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific SentinelError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	sentinelErr, ok := err.(*SentinelError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return sentinelErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	sentinelErr, ok := err.(*SentinelError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return sentinelErr.Code
}
