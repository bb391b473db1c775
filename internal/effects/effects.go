package effects

import (
	"sort"

	"github.com/buildworks/scrollfx/internal/curve"
)

// Signal names the progress signal a track reads
type Signal string

const (
	SignalRaw    Signal = "raw"    // unsmoothed region progress
	SignalSmooth Signal = "smooth" // spring-filtered region progress
	SignalPage   Signal = "page"   // region progress stretched to [0, items]
)

// Inputs carries one tick's progress signals for a section
type Inputs struct {
	Raw    float64
	Smooth float64
	Page   float64
}

func (in Inputs) Get(s Signal) float64 {
	switch s {
	case SignalSmooth:
		return in.Smooth
	case SignalPage:
		return in.Page
	default:
		return in.Raw
	}
}

// Track is one animatable property of a section
type Track struct {
	Name   string
	Signal Signal
	Curve  *curve.Curve
	// Reduced replaces Curve when reduced motion is requested
	Reduced *curve.Curve
	// Motion marks position/scale/rotation/blur tracks; without an explicit
	// Reduced curve they are frozen under reduced motion.
	Motion bool

	still *curve.Curve
}

// NewTrack builds a track and precomputes its reduced-motion form
func NewTrack(name string, signal Signal, c, reduced *curve.Curve, motion bool) Track {
	t := Track{Name: name, Signal: signal, Curve: c, Reduced: reduced, Motion: motion}
	if reduced == nil && motion {
		lo, hi := c.Domain()
		t.still = curve.Constant(name, curve.Evaluate(c, (lo+hi)/2))
	}
	return t
}

func (t Track) curveFor(reduced bool) *curve.Curve {
	switch {
	case !reduced:
		return t.Curve
	case t.Reduced != nil:
		return t.Reduced
	case t.still != nil:
		return t.still
	default:
		return t.Curve
	}
}

// Section groups the tracks and derived outputs of one page section
type Section struct {
	Name    string
	Tracks  []Track
	Derived []Combinator
}

// Build evaluates every track against the tick's inputs
func (s *Section) Build(in Inputs, reduced bool) Bundle {
	b := Bundle{
		Section:  s.Name,
		Progress: in.Raw,
		Values:   make(map[string]curve.Value, len(s.Tracks)),
		derived:  s.Derived,
	}
	for _, t := range s.Tracks {
		b.Values[t.Name] = curve.Evaluate(t.curveFor(reduced), in.Get(t.Signal))
	}
	return b
}

// Bundle is the set of current parameter values for one section.
// Derived outputs are computed from Values on every read.
type Bundle struct {
	Section  string
	Progress float64
	Values   map[string]curve.Value

	derived []Combinator
}

func (b Bundle) Get(name string) (curve.Value, bool) {
	v, ok := b.Values[name]
	return v, ok
}

// Float returns the magnitude of name, or def when the bundle lacks it
func (b Bundle) Float(name string, def float64) float64 {
	if v, ok := b.Values[name]; ok {
		return v.Float()
	}
	return def
}

// String returns the formatted value of name, or "" when absent
func (b Bundle) String(name string) string {
	if v, ok := b.Values[name]; ok {
		return v.String()
	}
	return ""
}

// Set stores a value computed outside the section's tracks
func (b Bundle) Set(name string, v curve.Value) {
	b.Values[name] = v
}

// Names returns the parameter names in sorted order
func (b Bundle) Names() []string {
	names := make([]string, 0, len(b.Values))
	for n := range b.Values {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Derived evaluates the named combinator against the current values
func (b Bundle) Derived(name string) (string, bool) {
	for _, c := range b.derived {
		if c.Name() == name {
			return c.Combine(b), true
		}
	}
	return "", false
}

// DerivedNames lists the combinators attached to the bundle
func (b Bundle) DerivedNames() []string {
	names := make([]string, len(b.derived))
	for i, c := range b.derived {
		names[i] = c.Name()
	}
	return names
}

// Combinator returns the named combinator so presentation can read its
// parameters directly
func (b Bundle) Combinator(name string) (Combinator, bool) {
	for _, c := range b.derived {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}
