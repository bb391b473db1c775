// Package smoothing filters a raw progress signal through a damped spring so
// transforms driven by it do not look steppy.
package smoothing

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Params configures the spring in physical terms
type Params struct {
	Stiffness float64
	Damping   float64
	Mass      float64
	RestDelta float64 // distance to target under which the spring may settle
	RestSpeed float64 // speed under which the spring may settle
}

// DefaultParams is the final call-to-action tuning: heavy damping, no bounce
var DefaultParams = Params{
	Stiffness: 90,
	Damping:   24,
	Mass:      0.8,
	RestDelta: 1e-4,
	RestSpeed: 1e-3,
}

// AngularFrequency returns sqrt(k/m)
func (p Params) AngularFrequency() float64 {
	if p.Mass <= 0 {
		return 0
	}
	return math.Sqrt(p.Stiffness / p.Mass)
}

// DampingRatio returns c / (2*sqrt(k*m)). Values >= 1 never oscillate.
func (p Params) DampingRatio() float64 {
	km := p.Stiffness * p.Mass
	if km <= 0 {
		return 1
	}
	return p.Damping / (2 * math.Sqrt(km))
}

// State of the filter
type State int

const (
	Idle State = iota
	Tracking
)

func (s State) String() string {
	if s == Tracking {
		return "tracking"
	}
	return "idle"
}

// Spring tracks a target value. Its state is private to one tracked region and
// must be Reset when the region mounts.
type Spring struct {
	params Params
	pos    float64
	vel    float64
	target float64
	state  State

	// Snap makes the position follow the target with no motion (reduced motion)
	Snap bool
}

func NewSpring(p Params) *Spring {
	if p.RestDelta <= 0 {
		p.RestDelta = DefaultParams.RestDelta
	}
	if p.RestSpeed <= 0 {
		p.RestSpeed = DefaultParams.RestSpeed
	}
	return &Spring{params: p}
}

// Reset places the spring at rest on pos
func (s *Spring) Reset(pos float64) {
	pos = finite(pos)
	s.pos, s.vel, s.target = pos, 0, pos
	s.state = Idle
}

// SetTarget feeds a new raw sample
func (s *Spring) SetTarget(x float64) {
	x = finite(x)
	s.target = x
	if s.Snap {
		s.pos, s.vel = x, 0
		s.state = Idle
		return
	}
	if x != s.pos || s.vel != 0 {
		s.state = Tracking
	}
}

// Step advances the filter by the time elapsed since the previous tick and
// returns the filtered position.
func (s *Spring) Step(dt time.Duration) float64 {
	if s.state == Idle || dt <= 0 {
		return s.pos
	}

	spring := harmonica.NewSpring(dt.Seconds(), s.params.AngularFrequency(), s.params.DampingRatio())
	s.pos, s.vel = spring.Update(s.pos, s.vel, s.target)

	if math.Abs(s.target-s.pos) < s.params.RestDelta && math.Abs(s.vel) < s.params.RestSpeed {
		s.pos, s.vel = s.target, 0
		s.state = Idle
	}
	return s.pos
}

func (s *Spring) Position() float64 { return s.pos }
func (s *Spring) Velocity() float64 { return s.vel }
func (s *Spring) Target() float64 { return s.target }
func (s *Spring) State() State { return s.state }

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
