package reveal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRevealEntrance(t *testing.T) {
	r := New("about.heading", 0, false)
	now := time.Unix(0, 0)

	r.Observe(0.2, now)
	assert.Equal(t, Hidden, r.State())
	assert.Equal(t, Initial, r.Sample(now))

	r.Observe(0.3, now)
	assert.Equal(t, Animating, r.State())

	prev := r.Sample(now)
	for ms := 16; ms < 700; ms += 16 {
		s := r.Sample(now.Add(time.Duration(ms) * time.Millisecond))
		assert.GreaterOrEqual(t, s.Opacity, prev.Opacity)
		assert.LessOrEqual(t, s.Y, prev.Y)
		assert.LessOrEqual(t, s.Blur, prev.Blur)
		prev = s
	}

	assert.Equal(t, Final, r.Sample(now.Add(700*time.Millisecond)))
	assert.Equal(t, Shown, r.State())
	assert.Greater(t, r.Frames(), 0)

	// Once: leaving the viewport keeps it shown
	r.Observe(0, now.Add(time.Second))
	assert.Equal(t, Final, r.Sample(now.Add(time.Second)))
}

func TestRevealDelay(t *testing.T) {
	r := New("about.copy", 80*time.Millisecond, false)
	now := time.Unix(0, 0)
	r.Observe(1, now)

	assert.Equal(t, Initial, r.Sample(now.Add(50*time.Millisecond)))
	s := r.Sample(now.Add(200 * time.Millisecond))
	assert.Greater(t, s.Opacity, 0.0)
	assert.Less(t, s.Opacity, 1.0)
}

func TestRevealRepeats(t *testing.T) {
	r := New("x", 0, false)
	r.Once = false
	now := time.Unix(0, 0)

	r.Observe(1, now)
	r.Sample(now.Add(time.Second))
	r.Observe(0, now.Add(time.Second))
	assert.Equal(t, Hidden, r.State())
}

func TestReducedMotionShowsFinalState(t *testing.T) {
	r := New("contact.form", 100*time.Millisecond, true)
	now := time.Unix(0, 0)

	assert.Equal(t, Final, r.Sample(now))
	r.Observe(0, now)
	r.Observe(1, now)
	for ms := 0; ms < 1000; ms += 16 {
		assert.Equal(t, Final, r.Sample(now.Add(time.Duration(ms)*time.Millisecond)))
	}
	assert.Equal(t, 0, r.Frames())
}

func TestStyleStrings(t *testing.T) {
	assert.Equal(t, "blur(6px)", Initial.Filter())
	assert.Equal(t, "none", Final.Filter())
	assert.Equal(t, "translateY(14px)", Initial.Transform())
}
