// Package store holds the latest accepted snapshot for the monitor.
// It is thread-safe and supports pub/sub so presentation layers can react
// to new snapshots without polling.
package store

import (
	"sync"

	"github.com/grovetools/sentinel/registry"
)

// Store publishes snapshots from the reconciliation loop to any number of
// readers. Readers only ever see fully built snapshots; the engine's
// internal prior-snapshot state never leaves the engine.
type Store struct {
	mu          sync.RWMutex
	latest      registry.Snapshot
	subscribers map[chan registry.Snapshot]struct{}
}

// New creates a new Store instance.
func New() *Store {
	return &Store{
		subscribers: make(map[chan registry.Snapshot]struct{}),
	}
}

// Latest returns the most recently published snapshot. The zero snapshot is
// returned before the first publish.
func (s *Store) Latest() registry.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Publish replaces the latest snapshot and notifies subscribers.
func (s *Store) Publish(snap registry.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = snap

	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Non-blocking send so a slow reader can't stall the
			// reconciliation loop; it will catch up on the next publish.
		}
	}
}

// Subscribe creates a new subscription channel for published snapshots.
func (s *Store) Subscribe() chan registry.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan registry.Snapshot, 8)
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(ch chan registry.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[ch]; ok {
		delete(s.subscribers, ch)
		close(ch)
	}
}
