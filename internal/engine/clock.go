package engine

import (
	"sync"
	"time"

	"github.com/buildworks/scrollfx/internal/carousel"
)

// SimClock drives carousel timers from simulated time so offline recordings
// match what a viewer would see in real time.
type SimClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*simTicker
}

func NewSimClock(start time.Time) *SimClock {
	return &SimClock{now: start}
}

// Timers is a carousel.TimerFactory bound to the clock
func (c *SimClock) Timers(d time.Duration) carousel.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &simTicker{c: make(chan time.Time, 1), every: d, next: c.now.Add(d)}
	c.tickers = append(c.tickers, t)
	return t
}

// Advance moves the clock to now and fires every ticker that fell due.
// Like time.Ticker, ticks are dropped when the receiver lags.
func (c *SimClock) Advance(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Before(c.now) {
		return
	}
	c.now = now

	live := c.tickers[:0]
	for _, t := range c.tickers {
		if t.isStopped() {
			continue
		}
		for !t.next.After(now) {
			select {
			case t.c <- t.next:
			default:
			}
			t.next = t.next.Add(t.every)
		}
		live = append(live, t)
	}
	c.tickers = live
}

func (c *SimClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

type simTicker struct {
	c     chan time.Time
	every time.Duration
	next  time.Time

	mu      sync.Mutex
	stopped bool
}

func (t *simTicker) C() <-chan time.Time { return t.c }

func (t *simTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *simTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
