package curve

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind distinguishes scalar outputs from colour outputs
type Kind int

const (
	KindNumber Kind = iota
	KindColor
)

// Unit is the suffix carried by a scalar value ("" for unitless)
type Unit string

const (
	UnitNone    Unit = ""
	UnitPercent Unit = "%"
	UnitPixel   Unit = "px"
	UnitDegree  Unit = "deg"
)

// RGBA holds colour channels: R, G, B in 0..255 and A in 0..1
type RGBA struct {
	R, G, B, A float64
}

// Value is a single curve output
type Value struct {
	Kind  Kind
	Num   float64
	Unit  Unit
	Color RGBA
}

// Number returns a unitless scalar value
func Number(v float64) Value {
	return Value{Kind: KindNumber, Num: v}
}

// Length returns a scalar value with a unit suffix
func Length(v float64, u Unit) Value {
	return Value{Kind: KindNumber, Num: v, Unit: u}
}

// Color returns a colour value
func Color(r, g, b, a float64) Value {
	return Value{Kind: KindColor, Color: RGBA{R: r, G: g, B: b, A: a}}
}

// ParseValue parses "1.06", "-4%", "10px", "0.4deg", "rgba(255, 214, 160, 0.10)",
// "rgb(10, 20, 30)" and "#rrggbb".
func ParseValue(s string) (Value, error) {
	str := strings.TrimSpace(strings.ToLower(s))
	if str == "" {
		return Value{}, fmt.Errorf("empty value")
	}

	switch {
	case strings.HasPrefix(str, "rgba(") || strings.HasPrefix(str, "rgb("):
		return parseRGB(str)
	case strings.HasPrefix(str, "#"):
		return parseHex(str)
	}

	unit := UnitNone
	for _, u := range []Unit{UnitPercent, UnitPixel, UnitDegree} {
		if strings.HasSuffix(str, string(u)) {
			unit = u
			str = strings.TrimSpace(strings.TrimSuffix(str, string(u)))
			break
		}
	}

	n, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid value %q: %w", s, err)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Value{}, fmt.Errorf("invalid value %q: not finite", s)
	}
	return Value{Kind: KindNumber, Num: n, Unit: unit}, nil
}

func parseRGB(str string) (Value, error) {
	open := strings.IndexByte(str, '(')
	if !strings.HasSuffix(str, ")") || open < 0 {
		return Value{}, fmt.Errorf("invalid colour %q", str)
	}
	parts := strings.Split(str[open+1:len(str)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Value{}, fmt.Errorf("invalid colour %q: expected 3 or 4 channels", str)
	}

	ch := []float64{0, 0, 0, 1}
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid colour %q: %w", str, err)
		}
		ch[i] = n
	}
	v := Color(ch[0], ch[1], ch[2], ch[3])
	if err := v.check(); err != nil {
		return Value{}, fmt.Errorf("invalid colour %q: %w", str, err)
	}
	return v, nil
}

// check rejects non-finite numbers and colour channels outside 0..255 with
// alpha outside 0..1
func (v Value) check() error {
	if v.Kind != KindColor {
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return fmt.Errorf("value %g is not finite", v.Num)
		}
		return nil
	}
	c := v.Color
	for _, ch := range []float64{c.R, c.G, c.B} {
		if !(ch >= 0 && ch <= 255) {
			return fmt.Errorf("%w: %g not in 0..255", ErrInvalidColor, ch)
		}
	}
	if !(c.A >= 0 && c.A <= 1) {
		return fmt.Errorf("%w: alpha %g not in 0..1", ErrInvalidColor, c.A)
	}
	return nil
}

func parseHex(str string) (Value, error) {
	hex := strings.TrimPrefix(str, "#")
	if len(hex) != 6 {
		return Value{}, fmt.Errorf("invalid colour %q", str)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Value{}, fmt.Errorf("invalid colour %q: %w", str, err)
	}
	return Color(float64(n>>16&0xff), float64(n>>8&0xff), float64(n&0xff), 1), nil
}

// MustParse is ParseValue for literals known to be valid
func MustParse(s string) Value {
	v, err := ParseValue(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String formats the value the way a style property expects it
func (v Value) String() string {
	if v.Kind == KindColor {
		return fmt.Sprintf("rgba(%s, %s, %s, %s)",
			formatFloat(math.Round(v.Color.R)), formatFloat(math.Round(v.Color.G)),
			formatFloat(math.Round(v.Color.B)), formatFloat(v.Color.A))
	}
	return formatFloat(v.Num) + string(v.Unit)
}

// Float returns the scalar magnitude (alpha for colours)
func (v Value) Float() float64 {
	if v.Kind == KindColor {
		return v.Color.A
	}
	return v.Num
}

// compatible reports whether two values can share a curve
func (v Value) compatible(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	return v.Kind == KindColor || v.Unit == o.Unit
}

func formatFloat(f float64) string {
	// Trim float noise so "0.1+0.2" style results print stably
	s := strconv.FormatFloat(f, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
