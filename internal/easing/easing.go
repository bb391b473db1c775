// Package easing holds the timing curves used by time-based transitions.
// Every function maps t in [0,1] to eased progress in [0,1].
package easing

import "math"

// Func is an easing curve
type Func func(t float64) float64

// Linear returns t unchanged
func Linear(t float64) float64 {
	return clamp01(t)
}

// OutCubic starts fast and settles slowly: 1 - (1-t)^3
func OutCubic(t float64) float64 {
	t = clamp01(t)
	return 1 - math.Pow(1-t, 3)
}

// InOutCubic applies smooth easing at both ends
func InOutCubic(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Bezier is a CSS cubic-bezier timing function with endpoints (0,0) and (1,1)
type Bezier struct {
	cx, bx, ax float64
	cy, by, ay float64
}

// NewBezier builds cubic-bezier(x1, y1, x2, y2). x1 and x2 must lie in [0,1].
func NewBezier(x1, y1, x2, y2 float64) *Bezier {
	b := &Bezier{}
	b.cx = 3 * x1
	b.bx = 3*(x2-x1) - b.cx
	b.ax = 1 - b.cx - b.bx
	b.cy = 3 * y1
	b.by = 3*(y2-y1) - b.cy
	b.ay = 1 - b.cy - b.by
	return b
}

var (
	// ExpoOut is cubic-bezier(0.16, 1, 0.3, 1), the reveal entrance curve
	ExpoOut = NewBezier(0.16, 1, 0.3, 1)
	// Standard is cubic-bezier(0.4, 0, 0.2, 1), the default colour/opacity transition
	Standard = NewBezier(0.4, 0, 0.2, 1)
	// EaseOut is cubic-bezier(0, 0, 0.58, 1)
	EaseOut = NewBezier(0, 0, 0.58, 1)
)

func (b *Bezier) sampleX(t float64) float64 { return ((b.ax*t+b.bx)*t + b.cx) * t }
func (b *Bezier) sampleY(t float64) float64 { return ((b.ay*t+b.by)*t + b.cy) * t }
func (b *Bezier) slopeX(t float64) float64 { return (3*b.ax*t+2*b.bx)*t + b.cx }

// solveX finds the curve parameter whose x equals x: Newton steps first,
// bisection when the slope is too flat.
func (b *Bezier) solveX(x float64) float64 {
	const epsilon = 1e-7

	t := x
	for i := 0; i < 8; i++ {
		err := b.sampleX(t) - x
		if math.Abs(err) < epsilon {
			return t
		}
		d := b.slopeX(t)
		if math.Abs(d) < 1e-6 {
			break
		}
		t -= err / d
	}

	lo, hi := 0.0, 1.0
	t = x
	for lo < hi {
		xt := b.sampleX(t)
		if math.Abs(xt-x) < epsilon {
			return t
		}
		if x > xt {
			lo = t
		} else {
			hi = t
		}
		next := (lo + hi) / 2
		if next == t {
			break
		}
		t = next
	}
	return t
}

// Ease evaluates the timing function at t
func (b *Bezier) Ease(t float64) float64 {
	t = clamp01(t)
	if t == 0 || t == 1 {
		return t
	}
	return b.sampleY(b.solveX(t))
}

// Lerp performs linear interpolation between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(t float64) float64 {
	if t < 0 || math.IsNaN(t) {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
