package smoothscroll

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWheelEasesToTarget(t *testing.T) {
	s := New(DefaultOptions)
	s.SetLimit(5000)
	now := time.Unix(0, 0)

	s.Wheel(300, now)
	assert.Equal(t, 300.0, s.Target())
	assert.True(t, s.Moving())

	prev := 0.0
	for ms := 16; ms < 1050; ms += 16 {
		y := s.Tick(now.Add(time.Duration(ms) * time.Millisecond))
		assert.GreaterOrEqual(t, y, prev)
		assert.LessOrEqual(t, y, 300.0)
		prev = y
	}
	assert.Equal(t, 300.0, s.Tick(now.Add(1050*time.Millisecond)))
	assert.False(t, s.Moving())
}

func TestWheelAccumulatesAndClamps(t *testing.T) {
	s := New(DefaultOptions)
	s.SetLimit(500)
	now := time.Unix(0, 0)

	s.Wheel(300, now)
	s.Wheel(300, now.Add(100*time.Millisecond))
	assert.Equal(t, 500.0, s.Target())

	s.Wheel(-2000, now.Add(200*time.Millisecond))
	assert.Equal(t, 0.0, s.Target())

	s.Wheel(math.NaN(), now)
	assert.Equal(t, 0.0, s.Target())
}

func TestOutCubicMidpoint(t *testing.T) {
	s := New(Options{Duration: time.Second})
	s.SetLimit(1000)
	now := time.Unix(0, 0)

	s.ScrollTo(1000, false, now)
	assert.InDelta(t, 875, s.Tick(now.Add(500*time.Millisecond)), 1e-9)
}

func TestReducedJumps(t *testing.T) {
	s := New(Options{Duration: time.Second, Reduced: true})
	s.SetLimit(1000)

	s.Wheel(250, time.Unix(0, 0))
	assert.Equal(t, 250.0, s.Position())
	assert.False(t, s.Moving())
}

func TestLockIgnoresWheel(t *testing.T) {
	s := New(DefaultOptions)
	s.SetLimit(1000)
	now := time.Unix(0, 0)

	s.Lock(true)
	s.Wheel(250, now)
	assert.Equal(t, 0.0, s.Target())

	s.ScrollTo(400, true, now)
	assert.Equal(t, 400.0, s.Position())

	s.Lock(false)
	s.Wheel(100, now)
	assert.Equal(t, 500.0, s.Target())
}

func TestSetLimitClamps(t *testing.T) {
	s := New(DefaultOptions)
	s.SetLimit(1000)
	s.ScrollTo(900, true, time.Unix(0, 0))

	s.SetLimit(600)
	assert.Equal(t, 600.0, s.Position())
	assert.Equal(t, 600.0, s.Target())
}
