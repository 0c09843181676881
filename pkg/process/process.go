// Package process provides liveness probing and advisory signaling for
// environment processes recorded in the registry.
package process

import (
	"fmt"
	"os"
	"syscall"
)

// IsAlive checks if a process with the given PID is still running.
// It uses a signal-sending method that is cross-platform for Unix-like
// systems (macOS, Linux).
//
// The result is derived from the PID alone and must be recomputed on every
// registry scan: PIDs are reused by the kernel, so a stale registry entry
// can probe as alive when an unrelated process now owns the PID. Callers
// tolerate this as a known limitation.
func IsAlive(pid int) bool {
	// PID 0 or less is invalid.
	if pid <= 0 {
		return false
	}

	// Find the process. This doesn't fail on Unix if the process doesn't exist.
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false // Should not happen on Unix-like systems.
	}

	// On Unix, sending signal 0 to a process checks for its existence without
	// actually sending a signal. If the process exists but we don't have
	// permission, err is EPERM, but it's still alive.
	err = proc.Signal(syscall.Signal(0))
	return err == nil || os.IsPermission(err)
}

// Terminate asks an environment's main process to shut down by sending
// SIGHUP. Delivery is best-effort and advisory: the environment runner is
// responsible for cleaning up its registry files once it actually exits,
// which the monitor observes on a later scan.
func Terminate(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}
	if err := proc.Signal(syscall.SIGHUP); err != nil {
		return fmt.Errorf("failed to signal process %d: %w", pid, err)
	}
	return nil
}
