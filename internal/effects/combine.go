package effects

import (
	"fmt"
	"strings"

	"github.com/buildworks/scrollfx/internal/curve"
)

// Combinator derives one output from values already evaluated in a bundle
type Combinator interface {
	Name() string
	Combine(b Bundle) string
}

// FilterPart maps a CSS filter function onto a bundle parameter
type FilterPart struct {
	Func  string // brightness, contrast, blur, saturate...
	Param string
}

// Filter joins filter functions, e.g. "brightness(1.03) contrast(1.04)".
// Parts whose parameter is missing from the bundle are skipped.
type Filter struct {
	Out   string
	Parts []FilterPart
}

func (f Filter) Name() string { return f.Out }

func (f Filter) Combine(b Bundle) string {
	parts := make([]string, 0, len(f.Parts))
	for _, p := range f.Parts {
		v, ok := b.Get(p.Param)
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", p.Func, v))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// Transform builds a transform expression from translate/scale/rotate
// parameters. Empty parameter names are left out.
type Transform struct {
	Out    string
	X      string
	Y      string
	Scale  string
	Rotate string
}

func (t Transform) Name() string { return t.Out }

func (t Transform) Combine(b Bundle) string {
	var parts []string

	if t.X != "" || t.Y != "" {
		x := lengthOr(b, t.X, curve.UnitPixel)
		y := lengthOr(b, t.Y, curve.UnitPixel)
		parts = append(parts, fmt.Sprintf("translate(%s, %s)", x, y))
	}
	if t.Scale != "" {
		if v, ok := b.Get(t.Scale); ok {
			parts = append(parts, fmt.Sprintf("scale(%s)", v))
		}
	}
	if t.Rotate != "" {
		parts = append(parts, fmt.Sprintf("rotate(%s)", lengthOr(b, t.Rotate, curve.UnitDegree)))
	}

	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

func lengthOr(b Bundle, name string, unit curve.Unit) curve.Value {
	if v, ok := b.Get(name); ok {
		return v
	}
	return curve.Length(0, unit)
}

// Func adapts a plain function into a Combinator
type Func struct {
	Out string
	Fn  func(b Bundle) string
}

func (f Func) Name() string { return f.Out }
func (f Func) Combine(b Bundle) string { return f.Fn(b) }
