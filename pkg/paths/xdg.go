// Package paths provides XDG-compliant path resolution for sentinel.
//
// Resolution order:
// 1. SENTINEL_HOME (portable root) → $SENTINEL_HOME/{config,state,cache}
// 2. XDG env vars → $XDG_*_HOME/sentinel
// 3. Platform defaults → ~/.config/sentinel, ~/.local/state/sentinel, etc.
//
// The registry directory is a separate concern: it is written by the
// environment runner, not by sentinel, and lives at ~/.dev-runner unless
// overridden with SENTINEL_REGISTRY.
package paths

import (
	"os"
	"path/filepath"
)

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if home := os.Getenv("SENTINEL_HOME"); home != "" {
		return filepath.Join(home, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if home := os.Getenv("SENTINEL_HOME"); home != "" {
		return filepath.Join(home, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// ConfigDir returns the sentinel configuration directory.
// Used for config files like sentinel.yml.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "sentinel")
}

// StateDir returns the sentinel state directory.
// Used for runtime state, UI prefs, logs.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "sentinel")
}

// LogDir returns the directory sentinel writes its log files to.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// RegistryDir returns the environment registry directory watched by the
// monitor. The registry is owned by the external environment runner;
// sentinel only reads it.
//
// Resolution order:
// 1. SENTINEL_REGISTRY env var (explicit override for tests/demos)
// 2. ~/.dev-runner (the runner's fixed location)
func RegistryDir() string {
	if dir := os.Getenv("SENTINEL_REGISTRY"); dir != "" {
		return dir
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".dev-runner")
	}
	return ""
}

// RuntimeDir returns the sentinel runtime directory for sockets and pipes.
// Uses XDG_RUNTIME_DIR when available (Linux), falls back to StateDir (macOS).
func RuntimeDir() string {
	if home := os.Getenv("SENTINEL_HOME"); home != "" {
		return filepath.Join(home, "run")
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "sentinel")
	}
	return StateDir()
}

// SocketPath returns the path to the monitor's unix socket.
func SocketPath() string {
	return filepath.Join(RuntimeDir(), "sentinel.sock")
}

// PidFilePath returns the path to the monitor PID file.
func PidFilePath() string {
	return filepath.Join(StateDir(), "sentinel.pid")
}

// StateFilePath returns the path to the persisted UI preferences file.
func StateFilePath() string {
	return filepath.Join(StateDir(), "state.toml")
}

// EnsureDirs creates all sentinel-owned directories if they don't exist.
// The registry directory is deliberately excluded: it belongs to the
// environment runner and its absence is a valid quiescent state.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		StateDir(),
		LogDir(),
		RuntimeDir(),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
