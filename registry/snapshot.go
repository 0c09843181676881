package registry

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/grovetools/sentinel/pkg/process"
)

// Snapshot is an immutable, timestamped reconstruction of every environment
// and unit in the registry at one point in time. It is the only value
// exchanged between the scanner, the transition engine, and presentation
// layers; consumers re-render wholesale on each new one.
type Snapshot struct {
	Taken        time.Time     `json:"taken"`
	Environments []Environment `json:"environments"`
}

// Environment returns the environment with the given id, or nil.
func (s *Snapshot) Environment(id string) *Environment {
	for i := range s.Environments {
		if s.Environments[i].ID == id {
			return &s.Environments[i]
		}
	}
	return nil
}

// TotalUnits counts units across all environments.
func (s *Snapshot) TotalUnits() int {
	n := 0
	for i := range s.Environments {
		n += len(s.Environments[i].Units)
	}
	return n
}

// BuildSnapshot performs one full, non-recursive scan of the registry
// directory. It is total: a missing registry directory is a valid quiescent
// state and yields an empty snapshot, and a malformed entry drops only
// itself, never the scan.
//
// Each file is read at most once: the listing is partitioned into meta and
// status candidates up front, environments are built from their meta files,
// then every status file is attached to its environment by id prefix.
func BuildSnapshot(dir string) Snapshot {
	snap := Snapshot{Taken: time.Now()}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return snap
	}

	type statusFile struct {
		envID string
		unit  string
		path  string
	}

	envs := make(map[string]*Environment)
	var statuses []statusFile

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		if envID, unit, ok := splitStatusName(name); ok {
			statuses = append(statuses, statusFile{envID: envID, unit: unit, path: filepath.Join(dir, name)})
			continue
		}

		if !isMetaName(name) {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		env, err := parseMeta(name, string(content))
		if err != nil {
			// Malformed meta file: skip this environment, keep scanning.
			continue
		}
		envs[name] = env
	}

	for _, sf := range statuses {
		env, ok := envs[sf.envID]
		if !ok {
			// Orphaned status file; its environment is gone or malformed.
			continue
		}
		content, err := os.ReadFile(sf.path)
		if err != nil {
			continue
		}
		unit := parseUnit(sf.unit, string(content))
		if port, ok := env.PortFor(unit.Name); ok {
			unit.Port = port
		}
		env.Units = append(env.Units, unit)
	}

	for _, env := range envs {
		// Liveness is derived fresh on every scan, never cached: the PID may
		// have been reused by an unrelated process since the last one.
		env.Alive = process.IsAlive(env.PID)
		sort.Slice(env.Units, func(i, j int) bool {
			return env.Units[i].Name < env.Units[j].Name
		})
		snap.Environments = append(snap.Environments, *env)
	}

	// Stable order by id keeps rendering deterministic; diffing keys by id,
	// so ordering carries no semantics.
	sort.Slice(snap.Environments, func(i, j int) bool {
		return snap.Environments[i].ID < snap.Environments[j].ID
	})

	return snap
}
