// Package nav holds the deck navigation state machine and the adapters that
// drive it: the key map, the autoplay ticker and a run-to-completion loop.
//
// A Controller is not safe for concurrent use. Every mutation is expected to
// come from one event loop (Bubble Tea's Update, or Loop.Run), so events are
// handled one at a time and renderers only ever see completed transitions.
package nav

import (
	"errors"

	"go.uber.org/zap"
)

// ErrNoSlides is returned by NewController when the deck is empty.
var ErrNoSlides = errors.New("deck must contain at least one slide")

// State is a snapshot of the navigation state.
type State struct {
	Index      int
	SlideCount int
	Autoplay   bool
}

// Progress returns (Index+1)/SlideCount, which lies in (0, 1].
func (s State) Progress() float64 {
	if s.SlideCount <= 0 {
		return 0
	}
	return float64(s.Index+1) / float64(s.SlideCount)
}

// AtFirst reports whether the first slide is showing.
func (s State) AtFirst() bool { return s.Index == 0 }

// AtLast reports whether the last slide is showing.
func (s State) AtLast() bool { return s.Index == s.SlideCount-1 }

// Renderer paints a state. It is called after every operation that changed
// the index or the autoplay flag.
type Renderer interface {
	Render(State)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(State)

// Render calls f(s).
func (f RendererFunc) Render(s State) { f(s) }

// Option configures a Controller.
type Option func(*Controller)

// WithRenderer registers a renderer.
func WithRenderer(r Renderer) Option {
	return func(c *Controller) {
		if r != nil {
			c.renderers = append(c.renderers, r)
		}
	}
}

// WithLogger sets the logger used for transition tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStart mounts the controller at index i (clamped) instead of 0.
func WithStart(i int) Option {
	return func(c *Controller) { c.index = Clamp(i, c.count) }
}

// Controller owns the index and autoplay flag of one mounted deck.
type Controller struct {
	count     int
	index     int
	autoplay  bool
	closed    bool
	renderers []Renderer
	logger    *zap.Logger
}

// NewController mounts a deck of slideCount slides at index 0 with autoplay off.
func NewController(slideCount int, opts ...Option) (*Controller, error) {
	if slideCount < 1 {
		return nil, ErrNoSlides
	}
	c := &Controller{
		count:  slideCount,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Clamp constrains i to [0, n-1].
func Clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Wrap maps i onto [0, n-1] modulo n.
func Wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// GotoSlide moves to slide i, clamped into range. Out-of-range input is never
// rejected.
func (c *Controller) GotoSlide(i int) {
	c.setIndex(Clamp(i, c.count), "goto")
}

// Next moves one slide forward and stops at the last slide.
func (c *Controller) Next() { c.GotoSlide(c.index + 1) }

// Prev moves one slide back and stops at the first slide.
func (c *Controller) Prev() { c.GotoSlide(c.index - 1) }

// First jumps to the first slide.
func (c *Controller) First() { c.GotoSlide(0) }

// Last jumps to the last slide.
func (c *Controller) Last() { c.GotoSlide(c.count - 1) }

// Advance is the autoplay step: one slide forward, wrapping from the last
// slide back to the first. Manual navigation uses Next, which clamps.
func (c *Controller) Advance() {
	c.setIndex(Wrap(c.index+1, c.count), "advance")
}

// ToggleAutoplay flips the autoplay flag.
func (c *Controller) ToggleAutoplay() {
	c.SetAutoplay(!c.autoplay)
}

// SetAutoplay sets the autoplay flag.
func (c *Controller) SetAutoplay(on bool) {
	if c.closed || c.autoplay == on {
		return
	}
	c.autoplay = on
	c.logger.Debug("autoplay changed", zap.Bool("autoplay", on))
	c.paint()
}

func (c *Controller) setIndex(i int, op string) {
	if c.closed || i == c.index {
		return
	}
	c.logger.Debug("slide changed", zap.String("op", op), zap.Int("from", c.index), zap.Int("to", i))
	c.index = i
	c.paint()
}

func (c *Controller) paint() {
	s := c.State()
	for _, r := range c.renderers {
		r.Render(s)
	}
}

// Index returns the current slide index.
func (c *Controller) Index() int { return c.index }

// SlideCount returns the number of slides.
func (c *Controller) SlideCount() int { return c.count }

// Autoplay reports whether autoplay is on.
func (c *Controller) Autoplay() bool { return c.autoplay }

// Progress returns (index+1)/slideCount.
func (c *Controller) Progress() float64 { return c.State().Progress() }

// State returns a snapshot of the navigation state.
func (c *Controller) State() State {
	return State{Index: c.index, SlideCount: c.count, Autoplay: c.autoplay}
}

// Close tears the deck down. Later mutations are ignored and renderers are
// never called again. Close is idempotent.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.renderers = nil
	c.logger.Debug("deck unmounted", zap.Int("index", c.index))
}

// Closed reports whether Close has been called.
func (c *Controller) Closed() bool { return c.closed }
