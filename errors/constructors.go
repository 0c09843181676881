package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *SentinelError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *SentinelError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// RegistryUnavailable creates a registry access error
func RegistryUnavailable(dir string, err error) *SentinelError {
	return Wrap(err, ErrCodeRegistryUnavailable,
		fmt.Sprintf("registry directory %s is not readable", dir)).
		WithDetail("dir", dir)
}

// EnvironmentNotFound creates an unknown environment error
func EnvironmentNotFound(id string) *SentinelError {
	return New(ErrCodeEnvironmentNotFound, fmt.Sprintf("environment '%s' not found in the current snapshot", id)).
		WithDetail("id", id)
}

// WatchSetup creates a filesystem watch setup error.
// This condition is recoverable: the monitor degrades to timer-only polling.
func WatchSetup(dir string, err error) *SentinelError {
	return Wrap(err, ErrCodeWatchSetup,
		fmt.Sprintf("failed to watch registry directory %s", dir)).
		WithDetail("dir", dir)
}

// SignalFailed creates a process signaling error
func SignalFailed(pid int, err error) *SentinelError {
	return Wrap(err, ErrCodeSignalFailed, fmt.Sprintf("failed to signal process %d", pid)).
		WithDetail("pid", pid)
}

// AlreadyRunning creates an error for a second monitor instance
func AlreadyRunning(pid int) *SentinelError {
	return New(ErrCodeAlreadyRunning, fmt.Sprintf("monitor already running with PID %d", pid)).
		WithDetail("pid", pid)
}
