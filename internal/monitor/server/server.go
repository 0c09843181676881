// Package server exposes the monitor's state read-only over a unix socket.
// Other tools (and `sentinel status`) read snapshots without attaching to
// the TUI; all mutation stays on the in-process control surface.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/grovetools/sentinel/internal/monitor/engine"
	"github.com/grovetools/sentinel/logging"
	"github.com/sirupsen/logrus"
)

// Server serves the monitor's snapshot and policy state as JSON over a unix
// socket.
type Server struct {
	logger *logrus.Entry
	server *http.Server
	engine *engine.Engine
}

// New creates a new Server instance.
func New(eng *engine.Engine) *Server {
	return &Server{
		logger: logging.NewLogger("server"),
		engine: eng,
	}
}

// ListenAndServe starts serving on the given unix socket path. It blocks
// until the server stops or fails.
func (s *Server) ListenAndServe(socketPath string) error {
	// Cleanup stale socket
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}

	// Set restrictive permissions on socket
	if err := os.Chmod(socketPath, 0600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/snapshot", s.handleGetSnapshot)
	mux.HandleFunc("/api/policy", s.handleGetPolicy)
	mux.HandleFunc("/api/stream", s.handleStream)

	s.server = &http.Server{Handler: mux}

	s.logger.WithField("socket", socketPath).Info("Monitor listening")
	return s.server.Serve(listener)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleGetSnapshot returns the latest accepted snapshot as JSON.
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Store().Latest()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

// handleGetPolicy returns the current mute policy as JSON.
func (s *Server) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.engine.PolicyView())
}

// handleStream provides Server-Sent Events for new snapshots. Clients
// re-render wholesale on each event, mirroring the full-rescan semantics of
// the monitor itself.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.engine.Store().Subscribe()
	defer s.engine.Store().Unsubscribe(ch)

	// Send the current snapshot immediately so the client has data before
	// the next reconciliation cycle.
	if data, err := json.Marshal(s.engine.Store().Latest()); err == nil {
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	s.logger.Debug("SSE client connected")

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
