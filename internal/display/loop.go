package display

import (
	"context"
	"time"
)

// DefaultTickInterval is the cooperative tick period.
const DefaultTickInterval = 10 * time.Millisecond

// Loop drives a Display from a ticker.
type Loop struct {
	display  *Display
	interval time.Duration
	observe  func(elapsed time.Duration)
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithTickObserver is called after every tick with the time it took.
func WithTickObserver(fn func(elapsed time.Duration)) LoopOption {
	return func(l *Loop) { l.observe = fn }
}

// NewLoop returns a loop ticking d every interval.
func NewLoop(d *Display, interval time.Duration, opts ...LoopOption) *Loop {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	l := &Loop{display: d, interval: interval}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run ticks until ctx is cancelled, then blanks the strip.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	start := time.Now()
	l.tick(0)
	for {
		select {
		case <-ctx.Done():
			return l.display.Blank()
		case t := <-ticker.C:
			l.tick(t.Sub(start))
		}
	}
}

func (l *Loop) tick(now time.Duration) {
	begin := time.Now()
	l.display.Tick(now)
	if l.observe != nil {
		l.observe(time.Since(begin))
	}
}
