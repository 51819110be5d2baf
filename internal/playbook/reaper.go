// internal/playbook/reaper.go
package playbook

import (
	"context"
	"time"

	"playbook-engine/internal/common/config"
	"playbook-engine/internal/common/logger"
	"playbook-engine/internal/common/metrics"
	"playbook-engine/internal/store"
)

// Reaper periodically fails PENDING records whose worker never called back.
// Without it a record whose callback was lost would stay PENDING forever.
type Reaper struct {
	playbooks store.PlaybookStore
	ttl       time.Duration
	interval  time.Duration
	logger    logger.Logger
}

func NewReaper(playbooks store.PlaybookStore, cfg config.WorkerConfig, log logger.Logger) *Reaper {
	return &Reaper{
		playbooks: playbooks,
		ttl:       time.Duration(cfg.PendingTTL) * time.Minute,
		interval:  time.Duration(cfg.ReapInterval) * time.Minute,
		logger:    log.WithFields(map[string]interface{}{"component": "pending-reaper"}),
	}
}

// Run blocks until ctx is cancelled, sweeping on every tick.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("pending reaper started", map[string]interface{}{
		"ttlMinutes":      r.ttl.Minutes(),
		"intervalMinutes": r.interval.Minutes(),
	})

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("pending reaper stopped", nil)
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep fails every PENDING record older than the TTL.
func (r *Reaper) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-r.ttl)
	reaped, err := r.playbooks.FailPendingBefore(ctx, cutoff)
	if err != nil {
		r.logger.Error("pending sweep failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if reaped > 0 {
		metrics.PlaybooksReaped.Add(float64(reaped))
		r.logger.Warn("stale pending playbooks failed", map[string]interface{}{
			"count":      reaped,
			"olderThan":  cutoff,
			"ttlMinutes": r.ttl.Minutes(),
		})
	}
}
