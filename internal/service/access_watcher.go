package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/internal/schedule"
)

type instanceLister interface {
	List(ctx context.Context, filter models.InstanceFilter) ([]models.GroupInstance, error)
}

type accessStateRecorder interface {
	SetAccessStates(counts map[schedule.AccessState]int, at time.Time)
}

// AccessWatcher periodically classifies nearby sessions and publishes the per-state counts.
// Request paths never read its results.
type AccessWatcher struct {
	instances instanceLister
	metrics   accessStateRecorder
	clock     schedule.Clock
	policy    schedule.WindowPolicy
	logger    *zap.Logger

	lookBehind time.Duration
	lookAhead  time.Duration
}

// NewAccessWatcher creates a watcher over sessions from yesterday to a week ahead.
func NewAccessWatcher(instances instanceLister, metrics accessStateRecorder, clock schedule.Clock, policy schedule.WindowPolicy, logger *zap.Logger) *AccessWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = schedule.SystemClock{}
	}
	return &AccessWatcher{
		instances:  instances,
		metrics:    metrics,
		clock:      clock,
		policy:     policy,
		logger:     logger,
		lookBehind: 24 * time.Hour,
		lookAhead:  7 * 24 * time.Hour,
	}
}

// Tick evaluates every session in range at one instant.
func (w *AccessWatcher) Tick(ctx context.Context) error {
	now := w.clock.Now()
	items, err := w.instances.List(ctx, models.InstanceFilter{
		DateFrom: schedule.FormatDate(now.Add(-w.lookBehind)),
		DateTo:   schedule.FormatDate(now.Add(w.lookAhead)),
	})
	if err != nil {
		return fmt.Errorf("list sessions for access watcher: %w", err)
	}

	counts := w.Count(items, now)
	if w.metrics != nil {
		w.metrics.SetAccessStates(counts, now)
	}
	w.logger.Debug("access states evaluated",
		zap.Int("sessions", len(items)),
		zap.Int("join", counts[schedule.StateJoin]),
		zap.Int("countdown", counts[schedule.StateCountdown]),
		zap.Int("past", counts[schedule.StatePast]),
	)
	return nil
}

// Count groups items by access state at now.
func (w *AccessWatcher) Count(items []models.GroupInstance, now time.Time) map[schedule.AccessState]int {
	counts := map[schedule.AccessState]int{
		schedule.StateCountdown: 0,
		schedule.StateJoin:      0,
		schedule.StatePast:      0,
	}
	for _, inst := range items {
		counts[w.policy.Evaluate(inst, now).State]++
	}
	return counts
}
