package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/JohilMehra/studysync/internal/domain"
)

// StateReconciler periodically advances session lifecycle states. Sessions
// whose start time passed become active; sessions past their end time become
// ended, even when the host never ended them explicitly.
type StateReconciler struct {
	sessions domain.SessionRepository
	notify   func(ctx context.Context)
	interval time.Duration
	clock    clockwork.Clock
	stopCh   chan struct{}
}

// NewStateReconciler creates the background job. notify is called after any
// sweep that changed at least one session, so live session lists re-fetch.
func NewStateReconciler(sessions domain.SessionRepository, notify func(ctx context.Context), clock clockwork.Clock) *StateReconciler {
	return &StateReconciler{
		sessions: sessions,
		notify:   notify,
		interval: 30 * time.Second,
		clock:    clock,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the reconciliation loop until Stop is called.
func (r *StateReconciler) Start(ctx context.Context) {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			r.sweep(ctx)
		case <-r.stopCh:
			slog.Info("Session state reconciler stopped")
			return
		case <-ctx.Done():
			slog.Info("Session state reconciler context cancelled")
			return
		}
	}
}

// Stop gracefully stops the reconciliation loop.
func (r *StateReconciler) Stop() {
	close(r.stopCh)
}

func (r *StateReconciler) sweep(ctx context.Context) {
	started, ended, err := r.sessions.AdvanceStates(ctx, r.clock.Now().UTC())
	if err != nil {
		slog.Error("Session state sweep failed", "error", err)
		return
	}

	if started == 0 && ended == 0 {
		return
	}

	slog.Info("Session states advanced", "started", started, "ended", ended)
	if r.notify != nil {
		r.notify(ctx)
	}
}
