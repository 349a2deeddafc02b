package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one run of a periodic job.
type Task func(context.Context) error

// TickerConfig configures a periodic runner.
type TickerConfig struct {
	Interval   time.Duration
	RunOnStart bool
	Logger     *zap.Logger
}

// Ticker runs a task on a fixed interval in a single goroutine. Runs never overlap.
type Ticker struct {
	name       string
	task       Task
	interval   time.Duration
	runOnStart bool
	logger     *zap.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	runs    int
	fails   int
}

// NewTicker builds a runner for task.
func NewTicker(name string, task Task, cfg TickerConfig) *Ticker {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Ticker{
		name:       name,
		task:       task,
		interval:   cfg.Interval,
		runOnStart: cfg.RunOnStart,
		logger:     cfg.Logger,
	}
}

// Start begins ticking. Safe to call once.
func (t *Ticker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return
	}
	t.ctx, t.cancel = context.WithCancel(ctx)
	t.wg.Add(1)
	go t.loop()
	t.started = true
	t.logger.Sugar().Infow("ticker started", "job", t.name, "interval", t.interval.String())
}

// Stop cancels the loop and waits for an in-flight run to return.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.started {
		t.mu.Unlock()
		return
	}
	t.cancel()
	t.mu.Unlock()
	t.wg.Wait()
	t.logger.Sugar().Infow("ticker stopped", "job", t.name)
}

// Stats returns the number of runs and failed runs so far.
func (t *Ticker) Stats() (runs, fails int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runs, t.fails
}

func (t *Ticker) loop() {
	defer t.wg.Done()
	if t.runOnStart {
		t.run()
	}
	timer := time.NewTicker(t.interval)
	defer timer.Stop()
	for {
		select {
		case <-t.ctx.Done():
			return
		case <-timer.C:
			t.run()
		}
	}
}

func (t *Ticker) run() {
	err := t.task(t.ctx)
	t.mu.Lock()
	t.runs++
	if err != nil {
		t.fails++
	}
	t.mu.Unlock()
	if err != nil && t.ctx.Err() == nil {
		t.logger.Sugar().Warnw("job run failed", "job", t.name, "error", err)
	}
}
