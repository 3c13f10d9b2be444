// Package worker runs the portal's background jobs.
package worker

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/t1112000/seatly-fe/internal/pkg/logger"
)

// WorkspaceStore is the part of workspace.Store the sweeper needs.
type WorkspaceStore interface {
	Sweep(idle time.Duration) int
	Len() int
}

// WorkspaceSweeper drops workspaces whose session has been idle for longer
// than the configured TTL.
type WorkspaceSweeper struct {
	store    WorkspaceStore
	idle     time.Duration
	interval time.Duration
	gauge    prometheus.Gauge
}

// NewWorkspaceSweeper returns a sweeper running every interval.  gauge may
// be nil.
func NewWorkspaceSweeper(store WorkspaceStore, idle, interval time.Duration, gauge prometheus.Gauge) *WorkspaceSweeper {
	return &WorkspaceSweeper{store: store, idle: idle, interval: interval, gauge: gauge}
}

// Start blocks until ctx is cancelled.
func (w *WorkspaceSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("workspace sweeper started", zap.Duration("idle_ttl", w.idle), zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info("workspace sweeper stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *WorkspaceSweeper) sweep() int {
	n := w.store.Sweep(w.idle)
	left := w.store.Len()
	if w.gauge != nil {
		w.gauge.Set(float64(left))
	}
	if n > 0 {
		logger.Debug("idle workspaces dropped", zap.Int("dropped", n), zap.Int("live", left))
	}
	return n
}
