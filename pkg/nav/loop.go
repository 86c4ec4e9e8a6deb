package nav

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrLoopStopped is returned when an event is dispatched to a loop that is no
// longer running, or when Run is called twice.
var ErrLoopStopped = errors.New("navigation loop stopped")

// Event is a unit of work run on the loop goroutine.
type Event func(*Controller)

type request struct {
	fn   Event
	quit bool
	done chan struct{}
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithClock sets the clock used for the autoplay ticker.
func WithClock(c Clock) LoopOption {
	return func(l *Loop) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithInterval sets the autoplay period.
func WithInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithLoopLogger sets the loop logger.
func WithLoopLogger(lg *zap.Logger) LoopOption {
	return func(l *Loop) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// Loop serializes every mutation of one Controller: dispatched events and
// autoplay ticks run one at a time on the goroutine that calls Run. The loop
// holds the autoplay ticker while autoplay is on and releases it when
// autoplay turns off or Run returns, whatever the reason.
type Loop struct {
	ctrl     *Controller
	clock    Clock
	interval time.Duration
	logger   *zap.Logger

	requests chan request
	stopped  chan struct{}
	started  atomic.Bool

	// owned by the Run goroutine
	ticker Ticker
	quit   bool
}

// NewLoop wraps ctrl. The loop takes ownership: when Run returns the
// controller is closed.
func NewLoop(ctrl *Controller, opts ...LoopOption) *Loop {
	l := &Loop{
		ctrl:     ctrl,
		clock:    SystemClock(),
		interval: DefaultInterval,
		logger:   zap.NewNop(),
		requests: make(chan request),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run processes events until ctx is done or Quit is dispatched. It returns
// nil after Quit and ctx.Err() after cancellation.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrLoopStopped
	}
	defer close(l.stopped)
	defer l.ctrl.Close()
	defer l.releaseTimer()

	for {
		l.syncTimer()
		if l.quit {
			l.logger.Debug("navigation loop quit")
			return nil
		}

		select {
		case <-ctx.Done():
			l.logger.Debug("navigation loop cancelled", zap.Error(ctx.Err()))
			return ctx.Err()
		case req := <-l.requests:
			if req.quit {
				l.quit = true
			} else if req.fn != nil {
				req.fn(l.ctrl)
			}
			// Timer state is settled before the caller is released.
			l.syncTimer()
			close(req.done)
		case <-l.tickC():
			l.ctrl.Advance()
		}
	}
}

// Dispatch runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Dispatch(ctx context.Context, fn Event) error {
	return l.send(ctx, request{fn: fn, done: make(chan struct{})})
}

// Quit asks Run to return after the current event.
func (l *Loop) Quit(ctx context.Context) error {
	return l.send(ctx, request{quit: true, done: make(chan struct{})})
}

// State returns a snapshot taken on the loop goroutine.
func (l *Loop) State(ctx context.Context) (State, error) {
	var s State
	err := l.Dispatch(ctx, func(c *Controller) { s = c.State() })
	return s, err
}

// Timers reports how many autoplay tickers are live: 0 or 1.
func (l *Loop) Timers(ctx context.Context) (int, error) {
	var n int
	err := l.Dispatch(ctx, func(*Controller) {
		if l.ticker != nil {
			n = 1
		}
	})
	return n, err
}

// Done is closed once Run has returned and the ticker is released.
func (l *Loop) Done() <-chan struct{} { return l.stopped }

func (l *Loop) send(ctx context.Context, req request) error {
	select {
	case l.requests <- req:
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-req.done:
		return nil
	case <-l.stopped:
		return ErrLoopStopped
	}
}

// syncTimer acquires or releases the ticker to match the autoplay flag.
// Toggling twice within one event never creates a ticker.
func (l *Loop) syncTimer() {
	want := l.ctrl.Autoplay() && !l.ctrl.Closed() && !l.quit
	switch {
	case want && l.ticker == nil:
		l.ticker = l.clock.NewTicker(l.interval)
		l.logger.Debug("autoplay timer started", zap.Duration("interval", l.interval))
	case !want && l.ticker != nil:
		l.releaseTimer()
	}
}

func (l *Loop) releaseTimer() {
	if l.ticker == nil {
		return
	}
	l.ticker.Stop()
	l.ticker = nil
	l.logger.Debug("autoplay timer stopped")
}

func (l *Loop) tickC() <-chan time.Time {
	if l.ticker == nil {
		return nil
	}
	return l.ticker.C()
}
