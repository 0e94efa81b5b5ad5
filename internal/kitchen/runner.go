package kitchen

import (
	"context"
	"sync"
	"time"

	"kitchensim/internal/logger"
)

// TickSource lists the sessions the runner drives.
type TickSource interface {
	Sessions() []*GameSession
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithInterval sets the wall-clock time between ticks. Each tick advances
// sessions by one second of session time.
func WithInterval(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.interval = d
	}
}

// WithOnTick registers a hook called after each session ticks.
func WithOnTick(fn func(*GameSession)) RunnerOption {
	return func(r *Runner) {
		r.onTick = fn
	}
}

// Runner ticks every live session in the background.
type Runner struct {
	source   TickSource
	log      *logger.Logger
	interval time.Duration
	onTick   func(*GameSession)

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewRunner(source TickSource, log *logger.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		source:   source,
		log:      log,
		interval: TickInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins the tick loop. Non-blocking.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		r.log.Warn("session runner already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true
	r.done = make(chan struct{})

	go r.loop(childCtx, r.done)
	r.log.Info("session runner started (interval=%s)", r.interval)
}

// Stop halts the loop and waits for the current tick to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.cancel()
	r.running = false
	done := r.done
	r.mu.Unlock()

	<-done
	r.log.Info("session runner stopped")
}

func (r *Runner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.TickAll()
		}
	}
}

// TickAll advances every session that has not ended.
func (r *Runner) TickAll() {
	for _, s := range r.source.Sessions() {
		if s.Ended() {
			continue
		}
		s.Tick()
		if r.onTick != nil {
			r.onTick(s)
		}
	}
}
