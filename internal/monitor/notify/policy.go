package notify

import (
	"encoding/json"
	"sort"
	"sync"
)

// Policy is the process-lifetime mute configuration: two global axes (sound,
// banner) and two per-unit sets. It is mutated by user input on the
// presentation side and read by the dispatcher on the reconciliation loop,
// so every access goes through the mutex. Nothing is persisted across
// restarts.
type Policy struct {
	mu              sync.Mutex
	soundMuted      bool
	bannerMuted     bool
	unitSoundMuted  map[UnitKey]struct{}
	unitBannerMuted map[UnitKey]struct{}
}

// NewPolicy returns a Policy with nothing muted.
func NewPolicy() *Policy {
	return &Policy{
		unitSoundMuted:  make(map[UnitKey]struct{}),
		unitBannerMuted: make(map[UnitKey]struct{}),
	}
}

// ToggleGlobalSound flips the global sound mute and returns the new value.
func (p *Policy) ToggleGlobalSound() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.soundMuted = !p.soundMuted
	return p.soundMuted
}

// ToggleGlobalBanner flips the global banner mute and returns the new value.
func (p *Policy) ToggleGlobalBanner() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bannerMuted = !p.bannerMuted
	return p.bannerMuted
}

// ToggleUnitSound flips the sound mute for one unit and returns whether the
// unit is now muted.
func (p *Policy) ToggleUnitSound(key UnitKey) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.unitSoundMuted[key]; ok {
		delete(p.unitSoundMuted, key)
		return false
	}
	p.unitSoundMuted[key] = struct{}{}
	return true
}

// ToggleUnitBanner flips the banner mute for one unit and returns whether
// the unit is now muted.
func (p *Policy) ToggleUnitBanner(key UnitKey) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.unitBannerMuted[key]; ok {
		delete(p.unitBannerMuted, key)
		return false
	}
	p.unitBannerMuted[key] = struct{}{}
	return true
}

// View returns an immutable copy of the policy, read atomically. The
// dispatcher evaluates a whole batch against one view so no event ever sees
// a half-updated policy; a toggle landing mid-batch simply applies from the
// next dispatch.
func (p *Policy) View() PolicyView {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := PolicyView{
		SoundMuted:      p.soundMuted,
		BannerMuted:     p.bannerMuted,
		unitSoundMuted:  make(map[UnitKey]struct{}, len(p.unitSoundMuted)),
		unitBannerMuted: make(map[UnitKey]struct{}, len(p.unitBannerMuted)),
	}
	for k := range p.unitSoundMuted {
		v.unitSoundMuted[k] = struct{}{}
	}
	for k := range p.unitBannerMuted {
		v.unitBannerMuted[k] = struct{}{}
	}
	return v
}

// PolicyView is a point-in-time copy of a Policy.
type PolicyView struct {
	SoundMuted      bool
	BannerMuted     bool
	unitSoundMuted  map[UnitKey]struct{}
	unitBannerMuted map[UnitKey]struct{}
}

// SoundMutedFor reports whether sound (and speech, which shares the axis)
// is suppressed for the unit.
func (v PolicyView) SoundMutedFor(key UnitKey) bool {
	if v.SoundMuted {
		return true
	}
	_, ok := v.unitSoundMuted[key]
	return ok
}

// BannerMutedFor reports whether banners are suppressed for the unit.
func (v PolicyView) BannerMutedFor(key UnitKey) bool {
	if v.BannerMuted {
		return true
	}
	_, ok := v.unitBannerMuted[key]
	return ok
}

// MarshalJSON renders the view for the read-only status API.
func (v PolicyView) MarshalJSON() ([]byte, error) {
	keys := func(m map[UnitKey]struct{}) []string {
		out := make([]string, 0, len(m))
		for k := range m {
			out = append(out, k.String())
		}
		sort.Strings(out)
		return out
	}
	return json.Marshal(struct {
		GlobalSoundMuted  bool     `json:"global_sound_muted"`
		GlobalBannerMuted bool     `json:"global_banner_muted"`
		MutedSoundUnits   []string `json:"muted_sound_units"`
		MutedBannerUnits  []string `json:"muted_banner_units"`
	}{
		GlobalSoundMuted:  v.SoundMuted,
		GlobalBannerMuted: v.BannerMuted,
		MutedSoundUnits:   keys(v.unitSoundMuted),
		MutedBannerUnits:  keys(v.unitBannerMuted),
	})
}
