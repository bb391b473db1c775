package curve

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrTooFewPoints   = errors.New("curve needs at least 2 points")
	ErrLengthMismatch = errors.New("curve inputs and outputs differ in length")
	ErrNonIncreasing  = errors.New("curve inputs must be strictly increasing")
	ErrMixedUnits     = errors.New("curve outputs mix kinds or units")
	ErrInvalidColor   = errors.New("colour channel out of range")
)

// Keyframe is one breakpoint of a curve
type Keyframe struct {
	Input  float64
	Output Value
}

// Curve is an immutable piecewise-linear mapping from progress to a value
type Curve struct {
	name   string
	points []Keyframe
}

// New validates the breakpoints and builds a curve
func New(name string, inputs []float64, outputs []Value) (*Curve, error) {
	if len(inputs) != len(outputs) {
		return nil, fmt.Errorf("%s: %w (%d inputs, %d outputs)", name, ErrLengthMismatch, len(inputs), len(outputs))
	}
	if len(inputs) < 2 {
		return nil, fmt.Errorf("%s: %w", name, ErrTooFewPoints)
	}

	points := make([]Keyframe, len(inputs))
	for i := range inputs {
		if math.IsNaN(inputs[i]) || math.IsInf(inputs[i], 0) {
			return nil, fmt.Errorf("%s: input %d is not finite", name, i)
		}
		if i > 0 && inputs[i] <= inputs[i-1] {
			return nil, fmt.Errorf("%s: %w (%g after %g)", name, ErrNonIncreasing, inputs[i], inputs[i-1])
		}
		if err := outputs[i].check(); err != nil {
			return nil, fmt.Errorf("%s: output %d: %w", name, i, err)
		}
		if !outputs[i].compatible(outputs[0]) {
			return nil, fmt.Errorf("%s: %w (%s vs %s)", name, ErrMixedUnits, outputs[i], outputs[0])
		}
		points[i] = Keyframe{Input: inputs[i], Output: outputs[i]}
	}

	return &Curve{name: name, points: points}, nil
}

// Parse builds a curve from textual outputs such as "-4%" or "rgba(0,0,0,0.5)"
func Parse(name string, inputs []float64, outputs []string) (*Curve, error) {
	values := make([]Value, len(outputs))
	for i, s := range outputs {
		v, err := ParseValue(s)
		if err != nil {
			return nil, fmt.Errorf("%s: output %d: %w", name, i, err)
		}
		values[i] = v
	}
	return New(name, inputs, values)
}

// Must panics on invalid breakpoints. Only for literals in tests and built-ins.
func Must(c *Curve, err error) *Curve {
	if err != nil {
		panic(err)
	}
	return c
}

// Constant returns a flat curve that always yields v
func Constant(name string, v Value) *Curve {
	return &Curve{name: name, points: []Keyframe{{Input: 0, Output: v}, {Input: 1, Output: v}}}
}

func (c *Curve) Name() string { return c.name }

// Points returns a copy of the breakpoints
func (c *Curve) Points() []Keyframe {
	out := make([]Keyframe, len(c.points))
	copy(out, c.points)
	return out
}

// Domain returns the first and last input
func (c *Curve) Domain() (float64, float64) {
	return c.points[0].Input, c.points[len(c.points)-1].Input
}

// Shift returns a copy with every input moved by dx
func (c *Curve) Shift(dx float64) *Curve {
	points := c.Points()
	for i := range points {
		points[i].Input += dx
	}
	return &Curve{name: c.name, points: points}
}

// Evaluate maps x through the curve. Values outside the domain clamp to the
// boundary outputs; a non-finite x is read as 0.
func Evaluate(c *Curve, x float64) Value {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		x = 0
	}

	first, last := c.points[0], c.points[len(c.points)-1]
	if x <= first.Input {
		return first.Output
	}
	if x >= last.Input {
		return last.Output
	}

	// First breakpoint strictly greater than x; x lies in [i-1, i]
	i := sort.Search(len(c.points), func(i int) bool { return c.points[i].Input > x })
	prev, next := c.points[i-1], c.points[i]

	t := (x - prev.Input) / (next.Input - prev.Input)
	return mix(prev.Output, next.Output, t)
}

// Evaluate is the method form of the package-level Evaluate
func (c *Curve) Evaluate(x float64) Value {
	return Evaluate(c, x)
}

// Mix interpolates between two values. Incompatible values switch at t=0.5.
func Mix(a, b Value, t float64) Value {
	if !a.compatible(b) {
		if t < 0.5 {
			return a
		}
		return b
	}
	return mix(a, b, t)
}

func mix(a, b Value, t float64) Value {
	if a.Kind == KindColor {
		return Value{
			Kind: KindColor,
			Color: RGBA{
				R: lerp(a.Color.R, b.Color.R, t),
				G: lerp(a.Color.G, b.Color.G, t),
				B: lerp(a.Color.B, b.Color.B, t),
				A: lerp(a.Color.A, b.Color.A, t),
			},
		}
	}
	return Value{Kind: KindNumber, Num: lerp(a.Num, b.Num, t), Unit: a.Unit}
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
