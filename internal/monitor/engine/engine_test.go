package engine

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/grovetools/sentinel/errors"
	"github.com/grovetools/sentinel/internal/monitor/notify"
	"github.com/grovetools/sentinel/internal/monitor/watcher"
	"github.com/grovetools/sentinel/registry"
	"github.com/grovetools/sentinel/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink records delivered plans so tests can assert on what actually
// reached the alert layer.
type captureSink struct {
	mu      sync.Mutex
	sounds  []notify.Sound
	speech  []string
	banners []notify.Banner
}

func (c *captureSink) PlaySound(s notify.Sound) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sounds = append(c.sounds, s)
}

func (c *captureSink) Speak(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speech = append(c.speech, text)
}

func (c *captureSink) SendBanner(b notify.Banner) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.banners = append(c.banners, b)
}

func (c *captureSink) snapshot() (sounds []notify.Sound, speech []string, banners []notify.Banner) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notify.Sound(nil), c.sounds...),
		append([]string(nil), c.speech...),
		append([]notify.Banner(nil), c.banners...)
}

// startEngine runs an engine over a registry fixture with a fast fallback
// timer and returns it with its capture sink.
func startEngine(t *testing.T, dir string) (*Engine, *captureSink) {
	t.Helper()

	sink := &captureSink{}
	eng := New(dir, watcher.New(dir, 50*time.Millisecond), sink)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go eng.Run(ctx)

	return eng, sink
}

// waitForSnapshot polls the store until the predicate holds.
func waitForSnapshot(t *testing.T, eng *Engine, pred func(registry.Snapshot) bool) registry.Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := eng.Store().Latest()
		if pred(snap) {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("snapshot predicate never satisfied")
	return registry.Snapshot{}
}

func TestEndToEndScenario(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteMeta(t, dir, "abc123", "/p", 1, "SERVER_PORT=3000")
	testutil.WriteStatus(t, dir, "abc123", "server", "building: step 1/3")

	eng, sink := startEngine(t, dir)

	// First scan: one environment, one building unit, and no alerts —
	// startup state is suppressed by design.
	snap := waitForSnapshot(t, eng, func(s registry.Snapshot) bool {
		return len(s.Environments) == 1
	})
	env := snap.Environment("abc123")
	require.NotNil(t, env)
	require.Len(t, env.Units, 1)
	assert.Equal(t, "server", env.Units[0].Name)
	assert.Equal(t, registry.StateBuilding, env.Units[0].State)
	assert.Equal(t, "step 1/3", env.Units[0].Detail)
	assert.Equal(t, uint16(3000), env.Units[0].Port)

	sounds, speech, banners := sink.snapshot()
	assert.Empty(t, sounds, "first load must not alert")
	assert.Empty(t, speech)
	assert.Empty(t, banners)

	// The unit becomes ready: expect the Ping-class sound and one banner.
	testutil.WriteStatus(t, dir, "abc123", "server", "ready")
	waitForSnapshot(t, eng, func(s registry.Snapshot) bool {
		env := s.Environment("abc123")
		return env != nil && len(env.Units) == 1 && env.Units[0].State == registry.StateReady
	})

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if sounds, _, _ := sink.snapshot(); len(sounds) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	sounds, speech, banners = sink.snapshot()
	require.Len(t, sounds, 1)
	assert.Equal(t, notify.SoundPing, sounds[0])
	require.Len(t, speech, 1)
	assert.Equal(t, "server ready", speech[0])
	require.Len(t, banners, 1)
	assert.Equal(t, "server", banners[0].Title)
	assert.Equal(t, "ready", banners[0].Body)
}

func TestEnvironmentRemoval(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteMeta(t, dir, "abc123", "/p", 1)
	testutil.WriteStatus(t, dir, "abc123", "server", "ready")

	eng, sink := startEngine(t, dir)
	waitForSnapshot(t, eng, func(s registry.Snapshot) bool {
		return len(s.Environments) == 1
	})

	// The runner exits and removes its files; the environment vanishes from
	// the snapshot without producing alerts.
	testutil.RemoveStatus(t, dir, "abc123", "server")
	require.NoError(t, os.Remove(filepath.Join(dir, "abc123")))

	waitForSnapshot(t, eng, func(s registry.Snapshot) bool {
		return len(s.Environments) == 0
	})
	sounds, _, banners := sink.snapshot()
	assert.Empty(t, sounds)
	assert.Empty(t, banners)
}

func TestControlSurfaceToggles(t *testing.T) {
	dir := t.TempDir()
	eng, _ := startEngine(t, dir)

	assert.True(t, eng.ToggleGlobalSound())
	assert.True(t, eng.PolicyView().SoundMuted)
	assert.False(t, eng.ToggleGlobalSound())

	key := notify.UnitKey{EnvID: "abc123", Unit: "server"}
	assert.True(t, eng.ToggleUnitBanner(key))
	assert.True(t, eng.PolicyView().BannerMutedFor(key))
	assert.False(t, eng.PolicyView().SoundMutedFor(key), "axes stay independent")
}

func TestMutedDispatchStillPublishes(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteMeta(t, dir, "abc123", "/p", 1)
	testutil.WriteStatus(t, dir, "abc123", "server", "building")

	eng, sink := startEngine(t, dir)
	waitForSnapshot(t, eng, func(s registry.Snapshot) bool {
		return len(s.Environments) == 1
	})

	eng.ToggleGlobalSound()
	eng.ToggleGlobalBanner()

	testutil.WriteStatus(t, dir, "abc123", "server", "failed: exit 1")
	snap := waitForSnapshot(t, eng, func(s registry.Snapshot) bool {
		env := s.Environment("abc123")
		return env != nil && len(env.Units) == 1 && env.Units[0].State == registry.StateFailed
	})

	// Snapshots keep flowing while everything is muted.
	assert.Equal(t, registry.StateFailed, snap.Environment("abc123").Units[0].State)
	sounds, speech, banners := sink.snapshot()
	assert.Empty(t, sounds)
	assert.Empty(t, speech)
	assert.Empty(t, banners)
}

func TestTerminateUnknownEnvironment(t *testing.T) {
	dir := t.TempDir()
	eng, _ := startEngine(t, dir)

	err := eng.Terminate("feed00")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeEnvironmentNotFound))
}

func TestTerminateDeadEnvironmentIsNoop(t *testing.T) {
	dir := t.TempDir()
	// A reaped child's PID reliably probes dead.
	testutil.WriteMeta(t, dir, "abc123", "/p", reapedPID(t))

	eng, _ := startEngine(t, dir)
	waitForSnapshot(t, eng, func(s registry.Snapshot) bool {
		return len(s.Environments) == 1
	})

	assert.NoError(t, eng.Terminate("abc123"))
}

// reapedPID returns the PID of an already-exited, reaped child process.
func reapedPID(t *testing.T) int {
	t.Helper()
	cmd := exec.Command("true")
	require.NoError(t, cmd.Start())
	require.NoError(t, cmd.Wait())
	return cmd.Process.Pid
}
