package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/playok/compliancemon/internal/board"
	"github.com/playok/compliancemon/internal/logging"
	"github.com/playok/compliancemon/internal/model"
	"github.com/playok/compliancemon/internal/reconcile"
	"github.com/playok/compliancemon/internal/telemetry"
)

// RefreshInterval is the fixed time between two scheduled passes.
const RefreshInterval = 15 * time.Second

// Runner performs one reconciliation pass.
type Runner interface {
	Run(ctx context.Context, passID string) (reconcile.Outcome, error)
}

// State is the scheduler lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateStopped State = "stopped"
)

// Scheduler runs a reconciliation pass immediately on Start and then once
// per interval until Stop. Passes are independent: a slow pass does not
// delay the next tick, so passes may overlap and the last one to finish
// wins the board.
type Scheduler struct {
	runner   Runner
	board    *board.Board
	interval time.Duration
	log      logrus.FieldLogger
	metrics  *telemetry.Metrics

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Scheduler) { s.log = logging.Component(l, "scheduler") }
}

// WithMetrics sets the Prometheus metrics to update.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// withInterval overrides the refresh interval. Tests only.
func withInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// New creates an idle scheduler that publishes to b.
func New(runner Runner, b *board.Board, opts ...Option) *Scheduler {
	s := &Scheduler{
		runner:   runner,
		board:    b,
		interval: RefreshInterval,
		log:      logging.Component(nil, "scheduler"),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Interval returns the refresh interval.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Start runs one pass immediately and then one per interval.
// A scheduler can be started once.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateRunning:
		return ErrAlreadyStarted
	case StateStopped:
		return ErrStopped
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = StateRunning
	s.done = make(chan struct{})

	go s.loop(ctx, s.done)
	s.log.WithField("interval", s.interval).Info("started")
	return nil
}

// Stop cancels the timer. Passes already in flight finish but their
// results are dropped. Stop is idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateStopped {
		return
	}
	prev := s.state
	s.state = StateStopped
	if s.cancel != nil {
		s.cancel()
	}
	if prev == StateRunning {
		s.log.Info("stopped")
	}
}

// Done is closed when the timer loop has exited. It is nil before Start.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	// Run once immediately
	s.spawn(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.spawn(ctx)
		}
	}
}

// spawn starts a pass unless the scheduler was stopped. The pass itself is
// not tied to ctx so a stop never interrupts fetches mid-flight.
func (s *Scheduler) spawn(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	go func() {
		snap := s.pass(context.WithoutCancel(ctx))
		if ctx.Err() != nil {
			s.count("discarded")
			s.log.WithField("pass_id", snap.PassID).Debug("pass finished after stop, result discarded")
			return
		}
		s.publish(snap)
	}()
}

// RunOnce runs a single pass outside the timer and publishes it.
func (s *Scheduler) RunOnce(ctx context.Context) *model.Snapshot {
	snap := s.pass(ctx)
	s.publish(snap)
	return snap
}

func (s *Scheduler) pass(ctx context.Context) *model.Snapshot {
	passID := uuid.NewString()
	started := time.Now()

	out, err := s.runner.Run(ctx, passID)

	snap := &model.Snapshot{
		PassID:     passID,
		StartedAt:  started.UTC(),
		FinishedAt: time.Now().UTC(),
		Sources:    out.Sources,
	}
	if s.metrics != nil {
		s.metrics.PassDuration.Observe(time.Since(started).Seconds())
	}
	if err != nil || out.View == nil {
		s.log.WithField("pass_id", passID).WithError(err).Warn("pass failed")
		snap.Error = reconcile.UserMessage
		return snap
	}
	snap.View = out.View
	return snap
}

func (s *Scheduler) publish(snap *model.Snapshot) {
	if snap.OK() {
		s.count("ok")
		if s.metrics != nil {
			s.metrics.UnknownFields.Set(float64(snap.View.UnknownCount()))
		}
	} else {
		s.count("failed")
	}
	if s.board != nil {
		s.board.Publish(snap)
	}
}

func (s *Scheduler) count(result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Passes.WithLabelValues(result).Inc()
}

// SchedulerError is returned for lifecycle misuse.
type SchedulerError struct {
	msg string
}

func (e *SchedulerError) Error() string { return e.msg }

var (
	ErrAlreadyStarted = &SchedulerError{"scheduler already started"}
	ErrStopped        = &SchedulerError{"scheduler stopped"}
)
