// Package carousel holds the testimonial rotator and the FAQ accordion.
package carousel

import "time"

const DefaultInterval = 5500 * time.Millisecond

// Ticker is a host interval timer
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TimerFactory acquires a ticker firing every d
type TimerFactory func(d time.Duration) Ticker

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop() { r.t.Stop() }

// RealTimers is the TimerFactory backed by time.Ticker
func RealTimers(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Rotator cycles through items on a timer. Any manual navigation pauses
// auto-advance for the rest of its life.
type Rotator struct {
	count    int
	interval time.Duration
	timers   TimerFactory

	active int
	paused bool
	ticker Ticker
}

func NewRotator(count int, interval time.Duration, timers TimerFactory) *Rotator {
	if timers == nil {
		timers = RealTimers
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Rotator{count: count, interval: interval, timers: timers}
}

// Start acquires the auto-advance timer
func (r *Rotator) Start() {
	if r.ticker != nil || r.paused || r.count < 2 {
		return
	}
	r.ticker = r.timers(r.interval)
}

// Stop releases the timer. Safe to call repeatedly.
func (r *Rotator) Stop() {
	if r.ticker == nil {
		return
	}
	r.ticker.Stop()
	r.ticker = nil
}

// Poll consumes pending timer ticks without blocking and reports whether
// the active item changed.
func (r *Rotator) Poll() bool {
	if r.ticker == nil {
		return false
	}
	changed := false
	for {
		select {
		case <-r.ticker.C():
			r.active = (r.active + 1) % r.count
			changed = true
		default:
			return changed
		}
	}
}

func (r *Rotator) Next() { r.Goto(r.active + 1) }
func (r *Rotator) Prev() { r.Goto(r.active - 1) }

// Goto selects item i (wrapping) and pauses auto-advance
func (r *Rotator) Goto(i int) {
	r.paused = true
	r.Stop()
	if r.count == 0 {
		return
	}
	r.active = ((i % r.count) + r.count) % r.count
}

func (r *Rotator) Active() int { return r.active }
func (r *Rotator) Count() int { return r.count }
func (r *Rotator) Paused() bool { return r.paused }
func (r *Rotator) Running() bool { return r.ticker != nil }

// Accordion keeps at most one row open; -1 means none.
type Accordion struct {
	count int
	open  int
}

func NewAccordion(count, open int) *Accordion {
	if open < -1 || open >= count {
		open = -1
	}
	return &Accordion{count: count, open: open}
}

// Toggle opens row i, or closes it when it is already open
func (a *Accordion) Toggle(i int) {
	if i < 0 || i >= a.count {
		return
	}
	if a.open == i {
		a.open = -1
		return
	}
	a.open = i
}

func (a *Accordion) Open() int { return a.open }
func (a *Accordion) IsOpen(i int) bool { return a.open == i }
func (a *Accordion) Count() int { return a.count }
