package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/tagwm/internal/platform"
)

// WindowSource is the part of a display backend the reconciler needs.
type WindowSource interface {
	// Native lists windows that exist on the display.
	Native() ([]platform.NativeID, error)
	// Bound lists windows the manager believes it owns.
	Bound() []platform.NativeID
	// Forget drops a window the display no longer has.
	Forget(platform.NativeID)
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically checks for state drift and corrects it. A
// missed DestroyNotify would otherwise leave a phantom window in its tag.
type Reconciler struct {
	interval time.Duration
	source   WindowSource
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, source WindowSource) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		source:   source,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single reconciliation pass and returns the number
// of windows dropped.
func (r *Reconciler) reconcile() (pruned int) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	bound := r.source.Bound()
	if len(bound) == 0 {
		return 0
	}

	actual, err := r.source.Native()
	if err != nil {
		r.logger.Error("reconciler: failed to list windows", "error", err)
		return 0
	}

	exists := make(map[platform.NativeID]bool, len(actual))
	for _, n := range actual {
		exists[n] = true
	}

	for _, n := range bound {
		if exists[n] {
			continue
		}
		r.logger.Info("reconciler: dropping vanished window", "window", uint32(n))
		r.source.Forget(n)
		pruned++
	}
	return pruned
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() int {
	return r.reconcile()
}
