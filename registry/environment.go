package registry

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Unit is one named sub-process of an environment, reporting a single
// current state through its status file.
type Unit struct {
	Name   string `json:"name"`
	State  State  `json:"state"`
	Detail string `json:"detail,omitempty"`
	Port   uint16 `json:"port,omitempty"` // 0 when no port is mapped
}

// Environment is one registered runner instance, identified by the hex name
// of its meta file.
type Environment struct {
	ID        string            `json:"id"`
	Dir       string            `json:"dir"`
	PID       int               `json:"pid"`
	StartedAt int64             `json:"started_at,omitempty"` // unix seconds, 0 if unknown
	Ports     map[string]uint16 `json:"ports,omitempty"`      // lowercase unit-name prefix → port
	Alive     bool              `json:"alive"`
	Units     []Unit            `json:"units"`
}

// DisplayName is the short human name derived from the project directory.
func (e *Environment) DisplayName() string {
	name := filepath.Base(e.Dir)
	if name == "." || name == "/" || name == "" {
		return "unknown"
	}
	return name
}

// PortFor looks up the port associated with a unit by name. Ports come from
// `*_PORT` keys in the meta file (e.g. SERVER_PORT → "server").
func (e *Environment) PortFor(unitName string) (uint16, bool) {
	port, ok := e.Ports[unitName]
	return port, ok
}

// Unit returns the named unit, or nil if the environment doesn't have it.
func (e *Environment) Unit(name string) *Unit {
	for i := range e.Units {
		if e.Units[i].Name == name {
			return &e.Units[i]
		}
	}
	return nil
}

// Elapsed renders the time since the environment started as a short
// human-readable string, or "" when the start time is unknown.
func (e *Environment) Elapsed(now time.Time) string {
	if e.StartedAt <= 0 {
		return ""
	}
	secs := now.Unix() - e.StartedAt
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%dh %dm", secs/3600, (secs%3600)/60)
	default:
		return fmt.Sprintf("%dd", secs/86400)
	}
}

// isMetaName reports whether a registry filename is an environment meta
// file: non-empty, hex characters only. The hex-only rule implies no dots
// and no leading dot.
func isMetaName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// splitStatusName decomposes a status filename into (envID, unitName).
// Both the current form `<id>.<unit>.status` and the legacy dotted form
// `.<id>.<unit>.status` are accepted. The unit name itself must not
// contain a dot.
func splitStatusName(name string) (envID, unit string, ok bool) {
	rest, found := strings.CutSuffix(name, ".status")
	if !found {
		return "", "", false
	}
	// Legacy convention hides the file with a leading dot.
	rest = strings.TrimPrefix(rest, ".")

	id, unitName, found := strings.Cut(rest, ".")
	if !found || id == "" || unitName == "" {
		return "", "", false
	}
	if strings.Contains(unitName, ".") || !isMetaName(id) {
		return "", "", false
	}
	return id, unitName, true
}

// parseMeta builds an Environment (without units or liveness) from the
// KEY=VALUE content of a meta file. A meta file missing DIR or PID is
// malformed; the error drops just this environment from the scan.
func parseMeta(id, content string) (*Environment, error) {
	env := &Environment{
		ID:    id,
		Ports: make(map[string]uint16),
	}
	havePID := false

	for _, line := range strings.Split(content, "\n") {
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		switch {
		case key == "DIR":
			env.Dir = value
		case key == "PID":
			pid, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("bad PID %q: %w", value, err)
			}
			env.PID = pid
			havePID = true
		case key == "STARTED":
			if started, err := strconv.ParseInt(value, 10, 64); err == nil {
				env.StartedAt = started
			}
		case strings.HasSuffix(key, "_PORT"):
			if port, err := strconv.ParseUint(value, 10, 16); err == nil {
				prefix := strings.ToLower(strings.TrimSuffix(key, "_PORT"))
				env.Ports[prefix] = uint16(port)
			}
		}
		// Unknown keys are ignored.
	}

	if env.Dir == "" {
		return nil, fmt.Errorf("meta file %s missing DIR", id)
	}
	if !havePID {
		return nil, fmt.Errorf("meta file %s missing PID", id)
	}
	return env, nil
}

// parseUnit builds a Unit from status file content. The unit name comes
// from the filename, never the content. An empty file yields KindNone.
func parseUnit(name, content string) Unit {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Unit{Name: name, State: StateNone}
	}

	token, detail, found := strings.Cut(trimmed, ": ")
	if !found {
		return Unit{Name: name, State: ParseState(trimmed)}
	}
	return Unit{Name: name, State: ParseState(token), Detail: detail}
}
