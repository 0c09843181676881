package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(s *Source) {
	for {
		select {
		case <-s.Triggers():
		default:
			return
		}
	}
}

func TestCoalescing(t *testing.T) {
	s := New(t.TempDir(), time.Hour)
	defer s.Close()

	// Many triggers with no consumer collapse into a single pending one.
	for i := 0; i < 10; i++ {
		s.Kick()
	}

	count := 0
	for {
		select {
		case <-s.Triggers():
			count++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 1, count)
}

func TestInitialTrigger(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	select {
	case <-s.Triggers():
	case <-time.After(2 * time.Second):
		t.Fatal("expected an immediate trigger on startup")
	}
}

func TestFilesystemEventTriggers(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, time.Hour)
	require.NotNil(t, s.fs, "fsnotify should be available in tests")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	// Swallow the startup trigger before mutating the directory.
	select {
	case <-s.Triggers():
	case <-time.After(2 * time.Second):
		t.Fatal("no startup trigger")
	}
	drain(s)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc123"), []byte("DIR=/p\nPID=1\n"), 0644))

	select {
	case <-s.Triggers():
	case <-time.After(3 * time.Second):
		t.Fatal("expected a trigger after a registry write")
	}
}

func TestTimerFallbackWithoutWatch(t *testing.T) {
	// Point at a directory that doesn't exist: watch setup fails and the
	// source degrades to timer-only polling.
	missing := filepath.Join(t.TempDir(), "not-yet-created")
	s := New(missing, 50*time.Millisecond)
	assert.Nil(t, s.fs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	// Startup trigger plus at least one tick.
	for i := 0; i < 2; i++ {
		select {
		case <-s.Triggers():
		case <-time.After(2 * time.Second):
			t.Fatal("timer-only source stopped producing triggers")
		}
	}
}
