package notify

import (
	"testing"

	"github.com/grovetools/sentinel/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tr(envID, unitName string, to registry.State, detail string) Transition {
	return Transition{
		Key:    UnitKey{EnvID: envID, Unit: unitName},
		From:   registry.StateBuilding,
		To:     to,
		Detail: detail,
	}
}

func TestDispatchSingleTransition(t *testing.T) {
	plan := Dispatch([]Transition{tr("abc123", "server", registry.StateReady, "")}, NewPolicy().View())

	assert.Equal(t, SoundPing, plan.Sound)
	assert.Equal(t, "server ready", plan.Speech)
	require.Len(t, plan.Banners, 1)
	assert.Equal(t, "server", plan.Banners[0].Title)
	assert.Equal(t, "ready", plan.Banners[0].Body)
}

func TestDispatchBatchSoundPriority(t *testing.T) {
	plan := Dispatch([]Transition{
		tr("abc123", "web", registry.StateReady, ""),
		tr("abc123", "api", registry.StateFailed, "exit 1"),
		tr("abc123", "db", registry.StateStarting, ""),
	}, NewPolicy().View())

	assert.Equal(t, SoundBasso, plan.Sound, "failed outranks ready and starting")
	assert.Equal(t, "web ready, api failed, db starting", plan.Speech)
	assert.Len(t, plan.Banners, 3, "banners are never combined")
}

func TestDispatchSilentStates(t *testing.T) {
	for _, state := range []registry.State{registry.StateStopped, registry.StateNone, registry.Other("weird")} {
		plan := Dispatch([]Transition{tr("abc123", "server", state, "")}, NewPolicy().View())
		assert.True(t, plan.Empty(), "state %q should produce nothing", state)
	}
}

func TestDispatchBannerDetail(t *testing.T) {
	plan := Dispatch([]Transition{tr("abc123", "server", registry.StateBuilding, "step 2/3")}, NewPolicy().View())
	require.Len(t, plan.Banners, 1)
	assert.Equal(t, "building: step 2/3", plan.Banners[0].Body)
}

func TestMuteIndependence(t *testing.T) {
	event := []Transition{tr("abc123", "server", registry.StateReady, "")}

	t.Run("global sound mute keeps the banner", func(t *testing.T) {
		p := NewPolicy()
		p.ToggleGlobalSound()

		plan := Dispatch(event, p.View())
		assert.Equal(t, SoundNone, plan.Sound)
		assert.Empty(t, plan.Speech, "speech shares the sound axis")
		assert.Len(t, plan.Banners, 1)
	})

	t.Run("global banner mute keeps the sound", func(t *testing.T) {
		p := NewPolicy()
		p.ToggleGlobalBanner()

		plan := Dispatch(event, p.View())
		assert.Equal(t, SoundPing, plan.Sound)
		assert.Equal(t, "server ready", plan.Speech)
		assert.Empty(t, plan.Banners)
	})
}

func TestPerUnitMute(t *testing.T) {
	key := UnitKey{EnvID: "abc123", Unit: "server"}
	other := UnitKey{EnvID: "abc123", Unit: "vite"}
	batch := []Transition{
		tr("abc123", "server", registry.StateFailed, ""),
		tr("abc123", "vite", registry.StateReady, ""),
	}

	p := NewPolicy()
	assert.True(t, p.ToggleUnitSound(key))

	plan := Dispatch(batch, p.View())
	assert.Equal(t, SoundPing, plan.Sound, "muted failed unit no longer outranks the ready one")
	assert.Equal(t, "vite ready", plan.Speech)
	assert.Len(t, plan.Banners, 2, "sound mute leaves both banners intact")

	// Unmuting restores the failed sound.
	assert.False(t, p.ToggleUnitSound(key))
	plan = Dispatch(batch, p.View())
	assert.Equal(t, SoundBasso, plan.Sound)

	// Banner mute for one unit leaves the other's banner.
	assert.True(t, p.ToggleUnitBanner(other))
	plan = Dispatch(batch, p.View())
	require.Len(t, plan.Banners, 1)
	assert.Equal(t, "server", plan.Banners[0].Title)
}

func TestPolicyViewIsolation(t *testing.T) {
	p := NewPolicy()
	view := p.View()

	// Mutations after taking the view must not leak into it.
	p.ToggleGlobalSound()
	p.ToggleUnitBanner(UnitKey{EnvID: "abc123", Unit: "server"})

	assert.False(t, view.SoundMuted)
	assert.False(t, view.BannerMutedFor(UnitKey{EnvID: "abc123", Unit: "server"}))
}

func TestDeliverPlan(t *testing.T) {
	rec := &recordingSink{}
	Deliver(rec, Plan{
		Sound:   SoundBasso,
		Speech:  "api failed",
		Banners: []Banner{{Title: "api", Body: "failed"}, {Title: "web", Body: "ready"}},
	})

	assert.Equal(t, []Sound{SoundBasso}, rec.sounds)
	assert.Equal(t, []string{"api failed"}, rec.speech)
	assert.Len(t, rec.banners, 2)

	// An empty plan touches nothing.
	rec = &recordingSink{}
	Deliver(rec, Plan{})
	assert.Empty(t, rec.sounds)
	assert.Empty(t, rec.speech)
	assert.Empty(t, rec.banners)
}

type recordingSink struct {
	sounds  []Sound
	speech  []string
	banners []Banner
}

func (r *recordingSink) PlaySound(s Sound) { r.sounds = append(r.sounds, s) }

func (r *recordingSink) Speak(text string) { r.speech = append(r.speech, text) }

func (r *recordingSink) SendBanner(b Banner) { r.banners = append(r.banners, b) }
