// Package state persists small UI preferences across monitor runs:
// which environments are collapsed, which theme is active. Losing the
// file costs nothing but a few keystrokes, so writes are best-effort.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/grovetools/sentinel/pkg/paths"
	"github.com/pelletier/go-toml/v2"
)

// State is the persisted preference set.
type State struct {
	Theme         string   `toml:"theme,omitempty"`
	CollapsedEnvs []string `toml:"collapsed_envs,omitempty"`
}

// Load reads the state file. A missing file yields a zero State.
func Load() (State, error) {
	return LoadFrom(paths.StateFilePath())
}

// LoadFrom reads state from an explicit path.
func LoadFrom(path string) (State, error) {
	var st State
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, fmt.Errorf("read state file: %w", err)
	}
	if err := toml.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("parse state file: %w", err)
	}
	return st, nil
}

// Save writes the state file, creating its directory if needed.
func Save(st State) error {
	return SaveTo(paths.StateFilePath(), st)
}

// SaveTo writes state to an explicit path.
func SaveTo(path string, st State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := toml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Collapsed reports whether the environment is marked collapsed.
func (s State) Collapsed(envID string) bool {
	for _, id := range s.CollapsedEnvs {
		if id == envID {
			return true
		}
	}
	return false
}

// ToggleCollapsed flips the collapsed mark for the environment and
// reports the new value. The list stays sorted so saves are stable.
func (s *State) ToggleCollapsed(envID string) bool {
	for i, id := range s.CollapsedEnvs {
		if id == envID {
			s.CollapsedEnvs = append(s.CollapsedEnvs[:i], s.CollapsedEnvs[i+1:]...)
			return false
		}
	}
	s.CollapsedEnvs = append(s.CollapsedEnvs, envID)
	sort.Strings(s.CollapsedEnvs)
	return true
}
