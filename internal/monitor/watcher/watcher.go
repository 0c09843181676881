// Package watcher merges filesystem events and a fallback timer into a
// single trigger stream that asks the monitor for a fresh registry scan.
package watcher

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/sentinel/logging"
	"github.com/sirupsen/logrus"
)

// DefaultInterval is the fallback rescan period used when the config does
// not override it. It also bounds the damage of missed filesystem events.
const DefaultInterval = 2 * time.Second

// Source produces rescan triggers for the registry directory. Two producers
// feed it: an fsnotify watch on the directory and a fixed-period ticker.
// Triggers carry no payload — every one means "do a full rescan" — so they
// coalesce freely: the channel holds at most one pending trigger and extra
// ones are dropped.
type Source struct {
	dir      string
	interval time.Duration
	triggers chan struct{}
	fs       *fsnotify.Watcher // nil when degraded to timer-only polling
	logger   *logrus.Entry
}

// New creates a Source for the given registry directory. Filesystem watch
// setup failure is not fatal: the Source degrades to timer-only polling,
// which is the designed fallback for exactly this case.
func New(dir string, interval time.Duration) *Source {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Source{
		dir:      dir,
		interval: interval,
		triggers: make(chan struct{}, 1),
		logger:   logging.NewLogger("watcher"),
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to create filesystem watcher, falling back to timer-only polling")
		return s
	}
	if err := fs.Add(dir); err != nil {
		// The registry directory may not exist yet; the timer covers the gap
		// until it does.
		s.logger.WithError(err).WithField("dir", dir).Warn("Failed to watch registry directory, falling back to timer-only polling")
		fs.Close()
		return s
	}

	s.fs = fs
	return s
}

// Triggers returns the merged trigger channel. Each receive requests one
// full rescan of the registry.
func (s *Source) Triggers() <-chan struct{} {
	return s.triggers
}

// Kick enqueues a trigger immediately, e.g. for a user-requested refresh.
func (s *Source) Kick() {
	s.trigger()
}

// Run pumps both producers into the trigger channel until the context is
// cancelled. An initial trigger is emitted immediately so the first
// snapshot doesn't wait a full tick.
func (s *Source) Run(ctx context.Context) {
	defer s.Close()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.trigger()

	// Timer-only mode when the filesystem watch could not be set up.
	var events chan fsnotify.Event
	var errors chan error
	if s.fs != nil {
		events = s.fs.Events
		errors = s.fs.Errors
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.trigger()
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			// Any create/write/remove/rename in the registry warrants a full
			// rescan; the payload doesn't matter, only that something changed.
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				s.logger.WithFields(logrus.Fields{"file": event.Name, "op": event.Op.String()}).Debug("Registry changed")
				s.trigger()
			}
		case err, ok := <-errors:
			if !ok {
				errors = nil
				continue
			}
			// Watch errors degrade quality, not correctness: the ticker still
			// drives rescans.
			s.logger.WithError(err).Warn("Filesystem watcher error")
		}
	}
}

// trigger performs a latest-wins send: if a trigger is already pending the
// new one is redundant and dropped, since a rescan is idempotent.
func (s *Source) trigger() {
	select {
	case s.triggers <- struct{}{}:
	default:
	}
}

// Close releases the filesystem watcher, if any.
func (s *Source) Close() error {
	if s.fs == nil {
		return nil
	}
	return s.fs.Close()
}
