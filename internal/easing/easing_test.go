package easing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutCubic(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"start", 0, 0},
		{"mid", 0.5, 0.875},
		{"end", 1, 1},
		{"before start", -1, 0},
		{"after end", 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, OutCubic(tt.input), 1e-9)
		})
	}
}

func TestInOutCubicSymmetric(t *testing.T) {
	for x := 0.0; x <= 0.5; x += 0.05 {
		assert.InDelta(t, 1-InOutCubic(1-x), InOutCubic(x), 1e-9, "x=%v", x)
	}
}

func TestBezierLinear(t *testing.T) {
	// cubic-bezier(0,0,1,1) is the identity
	b := NewBezier(0, 0, 1, 1)
	for x := 0.0; x <= 1; x += 0.1 {
		assert.InDelta(t, x, b.Ease(x), 1e-6)
	}
}

func TestBezierExpoOut(t *testing.T) {
	assert.Equal(t, 0.0, ExpoOut.Ease(0))
	assert.Equal(t, 1.0, ExpoOut.Ease(1))

	prev := 0.0
	for x := 0.01; x <= 1; x += 0.01 {
		y := ExpoOut.Ease(x)
		assert.GreaterOrEqual(t, y, prev-1e-9, "monotonic at %v", x)
		assert.LessOrEqual(t, y, 1+1e-9)
		prev = y
	}

	// Strongly front-loaded: well past 80% by a third of the way
	assert.Greater(t, ExpoOut.Ease(1.0/3), 0.8)
}

func TestBezierStandardMidpoint(t *testing.T) {
	y := Standard.Ease(0.5)
	assert.Greater(t, y, 0.5)
	assert.Less(t, y, 0.9)
}
