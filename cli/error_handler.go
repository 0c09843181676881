package cli

import (
	"fmt"
	"os"

	"github.com/grovetools/sentinel/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(os.Stderr, "❌ Configuration not found. Create one with 'sentinel config init'.\n")
		return err

	case errors.ErrCodeEnvironmentNotFound:
		if sentErr, ok := err.(*errors.SentinelError); ok {
			fmt.Fprintf(os.Stderr, "❌ Environment '%s' not found in the registry\n", sentErr.Details["environment"])
			fmt.Fprintf(os.Stderr, "Run 'sentinel status' to see known environments.\n")
		}
		return err

	case errors.ErrCodeAlreadyRunning:
		if sentErr, ok := err.(*errors.SentinelError); ok {
			fmt.Fprintf(os.Stderr, "❌ Monitor already running with PID %v\n", sentErr.Details["pid"])
			fmt.Fprintf(os.Stderr, "Stop it first, or attach with 'sentinel status'.\n")
		}
		return err

	case errors.ErrCodeRegistryUnavailable:
		fmt.Fprintf(os.Stderr, "❌ Registry directory could not be read\n")
		return err

	default:
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)

		// If verbose mode, show full error details
		if h.Verbose {
			if sentErr, ok := err.(*errors.SentinelError); ok {
				fmt.Fprintf(os.Stderr, "\nError details:\n%s\n", sentErr.ToJSON())
			}
		}
		return err
	}
}
