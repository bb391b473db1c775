package carousel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	c       chan time.Time
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }
func (f *fakeTicker) Stop() { f.stopped = true }

type fakeTimers struct {
	tickers []*fakeTicker
	periods []time.Duration
}

func (f *fakeTimers) New(d time.Duration) Ticker {
	t := &fakeTicker{c: make(chan time.Time, 8)}
	f.tickers = append(f.tickers, t)
	f.periods = append(f.periods, d)
	return t
}

func (f *fakeTimers) live() int {
	n := 0
	for _, t := range f.tickers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func TestRotatorAutoAdvance(t *testing.T) {
	timers := &fakeTimers{}
	r := NewRotator(3, DefaultInterval, timers.New)

	assert.False(t, r.Poll())

	r.Start()
	r.Start()
	require.Len(t, timers.tickers, 1)
	assert.Equal(t, 5500*time.Millisecond, timers.periods[0])

	tick := timers.tickers[0]
	tick.c <- time.Now()
	assert.True(t, r.Poll())
	assert.Equal(t, 1, r.Active())

	tick.c <- time.Now()
	tick.c <- time.Now()
	assert.True(t, r.Poll())
	assert.Equal(t, 0, r.Active())
	assert.False(t, r.Poll())

	r.Stop()
	r.Stop()
	assert.Equal(t, 0, timers.live())
	assert.False(t, r.Running())
}

func TestManualNavigationPausesForever(t *testing.T) {
	timers := &fakeTimers{}
	r := NewRotator(3, time.Second, timers.New)
	r.Start()

	r.Prev()
	assert.Equal(t, 2, r.Active())
	assert.True(t, r.Paused())
	assert.Equal(t, 0, timers.live())

	r.Start()
	assert.Len(t, timers.tickers, 1, "paused rotator never re-acquires a timer")

	r.Next()
	assert.Equal(t, 0, r.Active())
	r.Goto(7)
	assert.Equal(t, 1, r.Active())
}

func TestSingleItemNeverRotates(t *testing.T) {
	timers := &fakeTimers{}
	r := NewRotator(1, time.Second, timers.New)
	r.Start()
	assert.Empty(t, timers.tickers)
	assert.False(t, r.Poll())
}

func TestAccordion(t *testing.T) {
	a := NewAccordion(4, 0)
	assert.True(t, a.IsOpen(0))

	a.Toggle(0)
	assert.Equal(t, -1, a.Open())

	a.Toggle(2)
	assert.Equal(t, 2, a.Open())

	a.Toggle(3)
	assert.Equal(t, 3, a.Open())
	assert.False(t, a.IsOpen(2))

	a.Toggle(9)
	assert.Equal(t, 3, a.Open())

	assert.Equal(t, -1, NewAccordion(4, 4).Open())
}
