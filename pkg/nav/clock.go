package nav

import "time"

// DefaultInterval is the autoplay period.
const DefaultInterval = 5 * time.Second

// Ticker is a cancellable recurring timer.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers. Tests substitute a manual clock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// SystemClock returns a Clock backed by time.Ticker.
func SystemClock() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTicker struct{ t *time.Ticker }

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }
