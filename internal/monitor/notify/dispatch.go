package notify

import (
	"strings"

	"github.com/grovetools/sentinel/registry"
)

// Sound names the system sound to play for a batch, by severity class.
// The values match macOS system sound names; other platforms map them to
// their own equivalents in the sink.
type Sound string

const (
	SoundNone      Sound = ""
	SoundSubmarine Sound = "Submarine" // starting, building
	SoundPing      Sound = "Ping"      // ready, running
	SoundBasso     Sound = "Basso"     // failed
)

// priority ranks sounds so one failed unit outranks any number of ready
// ones in the same batch.
func (s Sound) priority() int {
	switch s {
	case SoundBasso:
		return 3
	case SoundPing:
		return 2
	case SoundSubmarine:
		return 1
	default:
		return 0
	}
}

// soundFor maps a target state to its sound class. Stopped, None, and Other
// carry no confident signal worth alerting on and map to SoundNone, which
// also excludes them from speech and banners.
func soundFor(state registry.State) Sound {
	switch state.Kind {
	case registry.KindStarting, registry.KindBuilding:
		return SoundSubmarine
	case registry.KindReady, registry.KindRunning:
		return SoundPing
	case registry.KindFailed:
		return SoundBasso
	default:
		return SoundNone
	}
}

// Banner is one desktop notification request.
type Banner struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Plan is the alert intent for one reconciliation batch: at most one sound,
// at most one combined speech line, and any number of independent banners.
// It contains no side effects; the sink executes it.
type Plan struct {
	Sound   Sound
	Speech  string
	Banners []Banner
}

// Empty reports whether the plan carries nothing to deliver.
func (p Plan) Empty() bool {
	return p.Sound == SoundNone && p.Speech == "" && len(p.Banners) == 0
}

// Dispatch filters a batch of transitions through the mute policy view and
// composes the alert plan.
//
// Sound and banner muting are evaluated independently per event: an event
// can be sound-suppressed but still produce a banner, and vice versa. Across
// the surviving sound-eligible events only the single highest-priority sound
// is kept, and their speech fragments are joined into one utterance — many
// units transitioning in the same cycle must not queue up overlapping audio.
// Banners are never combined.
func Dispatch(transitions []Transition, view PolicyView) Plan {
	var plan Plan
	var speeches []string

	for _, tr := range transitions {
		sound := soundFor(tr.To)
		if sound == SoundNone {
			continue
		}

		if !view.BannerMutedFor(tr.Key) {
			body := tr.To.String()
			if tr.Detail != "" {
				body += ": " + tr.Detail
			}
			plan.Banners = append(plan.Banners, Banner{Title: tr.Key.Unit, Body: body})
		}

		if view.SoundMutedFor(tr.Key) {
			continue
		}
		speeches = append(speeches, tr.Key.Unit+" "+tr.To.String())
		if sound.priority() > plan.Sound.priority() {
			plan.Sound = sound
		}
	}

	plan.Speech = strings.Join(speeches, ", ")
	return plan
}
