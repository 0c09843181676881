// Package notify turns snapshot diffs into deduplicated, prioritized,
// mute-filtered alert intents.
package notify

import (
	"github.com/grovetools/sentinel/registry"
)

// UnitKey identifies one unit globally. Unit names are only unique within
// an environment, so the environment id disambiguates same-named units
// across environments.
type UnitKey struct {
	EnvID string `json:"env_id"`
	Unit  string `json:"unit"`
}

func (k UnitKey) String() string {
	return k.EnvID + "/" + k.Unit
}

// Transition is one notable state change for a unit between two consecutive
// snapshots. It is ephemeral: produced and consumed within one dispatch
// cycle, never persisted.
type Transition struct {
	Key    UnitKey
	From   registry.State
	To     registry.State
	Detail string // detail text of the new state, for banner bodies
	New    bool   // unit appeared for the first time (post-first-load)
}

// Engine classifies units between consecutive snapshots. It carries exactly
// one piece of state: the unit states of the most recently accepted
// snapshot. It is not safe for concurrent use; the reconciliation loop is
// its single owner.
type Engine struct {
	prev      map[UnitKey]registry.State
	firstLoad bool
}

// NewEngine creates an Engine with no prior snapshot.
func NewEngine() *Engine {
	return &Engine{firstLoad: true}
}

// Reconcile diffs a new snapshot against the previously accepted one and
// returns the notification-eligible transitions in registry scan order.
//
// The first call records the snapshot and returns nothing, whatever the
// unit states are: alerting on everything that already existed at startup
// would just be a notification storm.
//
// Units are compared by state variant, not full state: detail text mutates
// constantly during builds without representing a phase change. A move
// between None and Other (in either direction) is also excluded — both mean
// "no confident signal" and the difference is noise.
//
// Units present before but absent now are dropped silently; the environment's
// disappearance is visible in the snapshot itself.
func (e *Engine) Reconcile(snap registry.Snapshot) []Transition {
	current := make(map[UnitKey]registry.State, len(e.prev))
	var transitions []Transition

	for i := range snap.Environments {
		env := &snap.Environments[i]
		for j := range env.Units {
			unit := &env.Units[j]
			key := UnitKey{EnvID: env.ID, Unit: unit.Name}
			current[key] = unit.State

			if e.firstLoad {
				continue
			}

			old, existed := e.prev[key]
			switch {
			case !existed:
				transitions = append(transitions, Transition{
					Key:    key,
					From:   registry.StateNone,
					To:     unit.State,
					Detail: unit.Detail,
					New:    true,
				})
			case old.VariantEqual(unit.State):
				// Unchanged (detail differences ignored).
			case noneOtherPair(old, unit.State):
				// None↔Other flapping is not a notifiable transition.
			default:
				transitions = append(transitions, Transition{
					Key:    key,
					From:   old,
					To:     unit.State,
					Detail: unit.Detail,
				})
			}
		}
	}

	e.prev = current
	e.firstLoad = false
	return transitions
}

// noneOtherPair reports whether the two states are None and Other in either
// order.
func noneOtherPair(a, b registry.State) bool {
	return (a.Kind == registry.KindNone && b.Kind == registry.KindOther) ||
		(a.Kind == registry.KindOther && b.Kind == registry.KindNone)
}
