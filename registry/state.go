// Package registry parses the on-disk environment registry into typed
// entities and builds immutable snapshots of it.
//
// The registry is a flat directory written by the external environment
// runner: one hex-named meta file per environment plus one status file per
// unit. Sentinel only ever reads it; every snapshot is a full, from-scratch
// reconstruction of the directory contents.
package registry

// StateKind identifies the well-known unit states plus two sentinel cases:
// KindNone for a missing or empty status file and KindOther for an
// unrecognized state keyword.
type StateKind uint8

const (
	KindNone StateKind = iota
	KindStarting
	KindBuilding
	KindRunning
	KindReady
	KindFailed
	KindStopped
	KindOther
)

// State is the reported state of a unit. For KindOther, Raw holds the
// unrecognized state keyword verbatim; for every other kind Raw is empty.
type State struct {
	Kind StateKind `json:"kind"`
	Raw  string    `json:"raw,omitempty"`
}

// Convenience constructors for the closed set of states.
var (
	StateNone     = State{Kind: KindNone}
	StateStarting = State{Kind: KindStarting}
	StateBuilding = State{Kind: KindBuilding}
	StateRunning  = State{Kind: KindRunning}
	StateReady    = State{Kind: KindReady}
	StateFailed   = State{Kind: KindFailed}
	StateStopped  = State{Kind: KindStopped}
)

// Other returns an open-ended state carrying the raw keyword.
func Other(raw string) State {
	return State{Kind: KindOther, Raw: raw}
}

// ParseState maps a raw state token to a State. Matching is case-sensitive;
// anything outside the six well-known keywords is preserved verbatim.
func ParseState(token string) State {
	switch token {
	case "starting":
		return StateStarting
	case "building":
		return StateBuilding
	case "running":
		return StateRunning
	case "ready":
		return StateReady
	case "failed":
		return StateFailed
	case "stopped":
		return StateStopped
	default:
		return Other(token)
	}
}

// String returns the state keyword as it appears in status files.
// KindNone renders as an empty string.
func (s State) String() string {
	switch s.Kind {
	case KindStarting:
		return "starting"
	case KindBuilding:
		return "building"
	case KindRunning:
		return "running"
	case KindReady:
		return "ready"
	case KindFailed:
		return "failed"
	case KindStopped:
		return "stopped"
	case KindOther:
		return s.Raw
	default:
		return ""
	}
}

// Indicator returns the single-rune display glyph for the state.
func (s State) Indicator() string {
	switch s.Kind {
	case KindStarting:
		return "◌"
	case KindBuilding:
		return "◑"
	case KindRunning, KindReady:
		return "●"
	case KindFailed:
		return "✗"
	case KindOther:
		return "◆"
	default: // KindNone, KindStopped
		return "○"
	}
}

// IsActive reports whether the state represents a unit doing work.
func (s State) IsActive() bool {
	switch s.Kind {
	case KindStarting, KindBuilding, KindRunning, KindReady:
		return true
	}
	return false
}

// VariantEqual compares two states by kind only, except that two KindOther
// states also compare their raw keywords. Detail text never participates:
// it lives on the Unit, not the State.
func (s State) VariantEqual(o State) bool {
	if s.Kind != o.Kind {
		return false
	}
	if s.Kind == KindOther {
		return s.Raw == o.Raw
	}
	return true
}
