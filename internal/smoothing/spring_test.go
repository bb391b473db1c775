package smoothing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const frame = time.Second / 60

func TestDefaultParamsAreOverdamped(t *testing.T) {
	assert.InDelta(t, math.Sqrt(112.5), DefaultParams.AngularFrequency(), 1e-9)
	assert.Greater(t, DefaultParams.DampingRatio(), 1.0)
}

func TestSpringConvergesWithoutOvershoot(t *testing.T) {
	s := NewSpring(DefaultParams)
	s.Reset(0)
	s.SetTarget(1)
	assert.Equal(t, Tracking, s.State())

	prev := s.Position()
	for i := 0; i < 600; i++ {
		pos := s.Step(frame)
		assert.LessOrEqual(t, pos, 1+1e-9, "tick %d overshoots", i)
		assert.GreaterOrEqual(t, pos, prev-1e-12, "tick %d moves away from target", i)
		prev = pos
	}

	assert.InDelta(t, 1.0, s.Position(), 1e-3)
	assert.InDelta(t, 0.0, s.Velocity(), 1e-3)
	assert.Equal(t, Idle, s.State())
}

func TestSpringIrregularTicks(t *testing.T) {
	s := NewSpring(DefaultParams)
	s.Reset(0.2)
	s.SetTarget(0.8)

	steps := []time.Duration{4 * time.Millisecond, 33 * time.Millisecond, 16 * time.Millisecond, 120 * time.Millisecond}
	for i := 0; i < 200; i++ {
		pos := s.Step(steps[i%len(steps)])
		assert.LessOrEqual(t, pos, 0.8+1e-9)
	}
	assert.InDelta(t, 0.8, s.Position(), 1e-3)
}

func TestSpringReversal(t *testing.T) {
	s := NewSpring(DefaultParams)
	s.Reset(0)
	s.SetTarget(1)
	for i := 0; i < 10; i++ {
		s.Step(frame)
	}
	s.SetTarget(0)
	for i := 0; i < 600; i++ {
		s.Step(frame)
	}
	assert.InDelta(t, 0.0, s.Position(), 1e-3)
}

func TestSpringSnap(t *testing.T) {
	s := NewSpring(DefaultParams)
	s.Snap = true
	s.Reset(0)
	s.SetTarget(0.75)

	assert.Equal(t, 0.75, s.Position())
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, 0.75, s.Step(frame))
}

func TestSpringIdleOnUnchangedTarget(t *testing.T) {
	s := NewSpring(DefaultParams)
	s.Reset(0.5)
	s.SetTarget(0.5)
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, 0.5, s.Step(frame))
}

func TestSpringNaNTarget(t *testing.T) {
	s := NewSpring(DefaultParams)
	s.Reset(math.NaN())
	assert.Equal(t, 0.0, s.Position())
	s.SetTarget(math.Inf(1))
	assert.Equal(t, 0.0, s.Target())
}
