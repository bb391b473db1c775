package progress

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressStartEndEndStart(t *testing.T) {
	// Region 1000..1500, viewport 800: progress 0 at scroll 200, 1 at scroll 1500
	s := NewSource(Region{Top: 1000, Height: 500}, StartEndEndStart, 800)

	tests := []struct {
		scroll float64
		want   float64
	}{
		{200, 0},
		{850, 0.5},
		{1500, 1},
		{0, -200.0 / 1300},
		{2800, 2},
	}

	for _, tt := range tests {
		s.Scroll(tt.scroll)
		assert.InDelta(t, tt.want, s.Progress(), 1e-12, "scroll=%v", tt.scroll)
	}
}

func TestProgressStickyRegion(t *testing.T) {
	// Featured projects: 3 viewports tall, tracked start-start to end-end
	s := NewSource(Region{Top: 720, Height: 3 * 720}, StartStartEndEnd, 720)

	s.Scroll(720)
	assert.Equal(t, 0.0, s.Progress())

	s.Scroll(720 + 720)
	assert.InDelta(t, 0.5, s.Progress(), 1e-12)
	assert.InDelta(t, 1.5, s.Scaled(3), 1e-12)

	s.Scroll(10000)
	assert.Equal(t, 3.0, s.Scaled(3), "page signal clamps to [0,n]")
}

func TestProgressZeroExtent(t *testing.T) {
	// Region exactly one viewport tall with start-start/end-end has no travel
	s := NewSource(Region{Top: 0, Height: 720}, StartStartEndEnd, 720)
	s.Scroll(100)
	assert.Equal(t, 0.0, s.Progress())
}

func TestProgressNonFinite(t *testing.T) {
	s := NewSource(Region{Top: 0, Height: 500}, StartEndEndStart, 800)
	s.Scroll(math.NaN())
	assert.Equal(t, 0.0, s.Progress())
}

func TestResizeShiftsBounds(t *testing.T) {
	s := NewSource(Region{Top: 1000, Height: 500}, StartEndEndStart, 800)
	start, _ := s.Bounds()
	assert.Equal(t, 200.0, start)

	s.Resize(400)
	start, end := s.Bounds()
	assert.Equal(t, 600.0, start)
	assert.Equal(t, 1500.0, end)
}

func TestParseOffset(t *testing.T) {
	o, err := ParseOffset("start end", "end start")
	require.NoError(t, err)
	assert.Equal(t, StartEndEndStart, o)

	o, err = ParseOffset("0.5 center", "1 0.25")
	require.NoError(t, err)
	assert.Equal(t, Offset{Start: Intersection{0.5, 0.5}, End: Intersection{1, 0.25}}, o)

	_, err = ParseOffset("start", "end end")
	assert.Error(t, err)
	_, err = ParseOffset("top end", "end end")
	assert.Error(t, err)
}

func TestVisible(t *testing.T) {
	s := NewSource(Region{Top: 1000, Height: 500}, StartEndEndStart, 800)

	s.Scroll(0)
	assert.Equal(t, 0.0, s.Visible())

	s.Scroll(450)
	assert.InDelta(t, 0.5, s.Visible(), 1e-12)

	s.Scroll(1000)
	assert.Equal(t, 1.0, s.Visible())
}
