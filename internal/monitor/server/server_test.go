package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grovetools/sentinel/internal/monitor/engine"
	"github.com/grovetools/sentinel/internal/monitor/notify"
	"github.com/grovetools/sentinel/internal/monitor/watcher"
	"github.com/grovetools/sentinel/registry"
	"github.com/grovetools/sentinel/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, registryDir string) (*http.Client, *engine.Engine) {
	t.Helper()

	source := watcher.New(registryDir, 50*time.Millisecond)
	eng := engine.New(registryDir, source, notify.NopSink{})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go eng.Run(ctx)

	socketPath := filepath.Join(t.TempDir(), "monitor.sock")
	srv := New(eng)
	go func() {
		_ = srv.ListenAndServe(socketPath)
	}()
	t.Cleanup(func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	})

	// Wait for the socket to appear.
	require.Eventually(t, func() bool {
		_, err := os.Stat(socketPath)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	client := &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", socketPath)
			},
		},
	}
	return client, eng
}

func TestHealthEndpoint(t *testing.T) {
	client, _ := startServer(t, t.TempDir())

	resp, err := client.Get("http://unix/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestSnapshotEndpoint(t *testing.T) {
	registryDir := t.TempDir()
	testutil.WriteMeta(t, registryDir, "abc123", "/tmp/proj", os.Getpid(), "SERVER_PORT=3000")
	testutil.WriteStatus(t, registryDir, "abc123", "server", "ready")

	client, eng := startServer(t, registryDir)

	// Wait until the engine has picked up the environment.
	require.Eventually(t, func() bool {
		return len(eng.Store().Latest().Environments) == 1
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := client.Get("http://unix/api/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var snap registry.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.Len(t, snap.Environments, 1)
	env := snap.Environments[0]
	assert.Equal(t, "abc123", env.ID)
	assert.True(t, env.Alive)
	require.Len(t, env.Units, 1)
	assert.Equal(t, "server", env.Units[0].Name)
	assert.Equal(t, registry.KindReady, env.Units[0].State.Kind)
	assert.Equal(t, uint16(3000), env.Units[0].Port)
}

func TestPolicyEndpoint(t *testing.T) {
	client, eng := startServer(t, t.TempDir())

	eng.ToggleGlobalSound()
	eng.ToggleUnitBanner(notify.UnitKey{EnvID: "abc123", Unit: "server"})

	resp, err := client.Get("http://unix/api/policy")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var policy struct {
		GlobalSoundMuted  bool     `json:"global_sound_muted"`
		GlobalBannerMuted bool     `json:"global_banner_muted"`
		MutedBannerUnits  []string `json:"muted_banner_units"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&policy))
	assert.True(t, policy.GlobalSoundMuted)
	assert.False(t, policy.GlobalBannerMuted)
	assert.Equal(t, []string{"abc123/server"}, policy.MutedBannerUnits)
}
