package hardware

import (
	"time"
)

// limiter keeps the emulation running at the refresh rate of the video mode
type limiter struct {
	tick *time.Ticker
	rate float64
}

func newLimiter(hz float64) *limiter {
	l := &limiter{}
	l.setRate(hz)
	return l
}

// change the number of Wait() calls allowed per second. a rate of zero or less
// removes the limit
func (l *limiter) setRate(hz float64) {
	if l.tick != nil {
		l.tick.Stop()
		l.tick = nil
	}
	l.rate = hz
	if hz <= 0 {
		return
	}
	l.tick = time.NewTicker(time.Duration(float64(time.Second) / hz))
}

// Wait blocks until the next tick of the limiter
func (l *limiter) Wait() {
	if l.tick == nil {
		return
	}
	<-l.tick.C
}

func (l *limiter) stop() {
	l.setRate(0)
}
