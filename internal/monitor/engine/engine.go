// Package engine runs the reconciliation loop: trigger → rescan → diff →
// dispatch → publish. It also exposes the control surface that presentation
// layers use to mutate the mute policy and signal environments.
package engine

import (
	"context"

	"github.com/grovetools/sentinel/errors"
	"github.com/grovetools/sentinel/internal/monitor/notify"
	"github.com/grovetools/sentinel/internal/monitor/store"
	"github.com/grovetools/sentinel/internal/monitor/watcher"
	"github.com/grovetools/sentinel/logging"
	"github.com/grovetools/sentinel/pkg/process"
	"github.com/grovetools/sentinel/registry"
	"github.com/sirupsen/logrus"
)

// Engine owns the single reconciliation cycle. The transition engine's
// prior-snapshot state is private to this loop; everything readers need is
// published through the store.
type Engine struct {
	registryDir string
	source      *watcher.Source
	store       *store.Store
	transitions *notify.Engine
	policy      *notify.Policy
	sink        notify.Sink
	logger      *logrus.Entry
}

// New wires an Engine for the given registry directory. The sink receives
// whatever the dispatcher decides; pass notify.NopSink to silence delivery
// without disturbing the pipeline.
func New(registryDir string, source *watcher.Source, sink notify.Sink) *Engine {
	return &Engine{
		registryDir: registryDir,
		source:      source,
		store:       store.New(),
		transitions: notify.NewEngine(),
		policy:      notify.NewPolicy(),
		sink:        sink,
		logger:      logging.NewLogger("engine"),
	}
}

// Store returns the snapshot store presentation layers read from.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Run consumes triggers and reconciles until the context is cancelled. The
// trigger source is started here so a bare Engine is inert until Run.
func (e *Engine) Run(ctx context.Context) {
	go e.source.Run(ctx)

	e.logger.WithField("registry", e.registryDir).Info("Monitoring registry")

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.source.Triggers():
			e.reconcile()
		}
	}
}

// reconcile performs one full cycle. Nothing in here is allowed to
// terminate the process: scan errors shrink the snapshot, delivery errors
// stay inside the sink.
func (e *Engine) reconcile() {
	snap := registry.BuildSnapshot(e.registryDir)

	transitions := e.transitions.Reconcile(snap)
	if len(transitions) > 0 {
		plan := notify.Dispatch(transitions, e.policy.View())
		e.logger.WithFields(logrus.Fields{
			"transitions": len(transitions),
			"sound":       string(plan.Sound),
			"banners":     len(plan.Banners),
		}).Debug("Dispatching alerts")
		notify.Deliver(e.sink, plan)
	}

	e.store.Publish(snap)
}

// Refresh requests an immediate rescan, e.g. for the TUI's refresh key.
func (e *Engine) Refresh() {
	e.source.Kick()
}

// PolicyView returns an atomic copy of the current mute policy.
func (e *Engine) PolicyView() notify.PolicyView {
	return e.policy.View()
}

// ToggleGlobalSound flips the global sound mute and returns the new value.
func (e *Engine) ToggleGlobalSound() bool {
	return e.policy.ToggleGlobalSound()
}

// ToggleGlobalBanner flips the global banner mute and returns the new value.
func (e *Engine) ToggleGlobalBanner() bool {
	return e.policy.ToggleGlobalBanner()
}

// ToggleUnitSound flips the sound mute for one unit.
func (e *Engine) ToggleUnitSound(key notify.UnitKey) bool {
	return e.policy.ToggleUnitSound(key)
}

// ToggleUnitBanner flips the banner mute for one unit.
func (e *Engine) ToggleUnitBanner(key notify.UnitKey) bool {
	return e.policy.ToggleUnitBanner(key)
}

// Terminate sends the environment's main process an advisory shutdown
// signal. No in-memory state changes: the environment disappears from
// snapshots only once the external runner actually exits and removes its
// registry files.
func (e *Engine) Terminate(envID string) error {
	snap := e.store.Latest()
	env := snap.Environment(envID)
	if env == nil {
		return errors.EnvironmentNotFound(envID)
	}
	if !env.Alive {
		// Already gone; the next scan will notice the files disappearing.
		return nil
	}
	if err := process.Terminate(env.PID); err != nil {
		e.logger.WithError(err).WithField("pid", env.PID).Warn("Failed to signal environment")
		return errors.SignalFailed(env.PID, err)
	}
	e.logger.WithFields(logrus.Fields{"env": envID, "pid": env.PID}).Info("Sent termination signal")
	return nil
}
