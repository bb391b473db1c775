// Package smoothscroll eases the document scroll position toward wheel and
// anchor targets.
package smoothscroll

import (
	"math"
	"time"

	"github.com/buildworks/scrollfx/internal/easing"
)

// Options configures a Scroller
type Options struct {
	Duration   time.Duration
	Multiplier float64     // wheel delta multiplier
	Easing     easing.Func // defaults to OutCubic
	// Reduced disables easing; scroll input jumps straight to its target
	Reduced bool
}

var DefaultOptions = Options{
	Duration:   1050 * time.Millisecond,
	Multiplier: 1,
	Easing:     easing.OutCubic,
}

type Scroller struct {
	opts Options

	pos    float64
	from   float64
	target float64
	limit  float64
	start  time.Time
	moving bool
	locked bool
}

func New(opts Options) *Scroller {
	if opts.Easing == nil {
		opts.Easing = easing.OutCubic
	}
	if opts.Multiplier == 0 {
		opts.Multiplier = 1
	}
	return &Scroller{opts: opts}
}

// SetLimit sets the maximum scroll position and clamps the current state
func (s *Scroller) SetLimit(limit float64) {
	s.limit = math.Max(limit, 0)
	s.target = s.clamp(s.target)
	s.pos = s.clamp(s.pos)
}

// Lock ignores wheel input while held, e.g. when an overlay menu is open
func (s *Scroller) Lock(locked bool) { s.locked = locked }

func (s *Scroller) Locked() bool { return s.locked }

// Wheel adds a wheel delta to the target
func (s *Scroller) Wheel(dy float64, now time.Time) {
	if s.locked || math.IsNaN(dy) || math.IsInf(dy, 0) {
		return
	}
	s.animate(s.target+dy*s.opts.Multiplier, now, false)
}

// ScrollTo moves to y, easing unless immediate is set
func (s *Scroller) ScrollTo(y float64, immediate bool, now time.Time) {
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return
	}
	s.animate(y, now, immediate)
}

func (s *Scroller) animate(y float64, now time.Time, immediate bool) {
	y = s.clamp(y)
	s.target = y
	if immediate || s.opts.Reduced || s.opts.Duration <= 0 {
		s.pos = y
		s.moving = false
		return
	}
	s.from = s.pos
	s.start = now
	s.moving = s.pos != y
}

// Tick advances the animation and returns the current position
func (s *Scroller) Tick(now time.Time) float64 {
	if !s.moving {
		return s.pos
	}
	t := float64(now.Sub(s.start)) / float64(s.opts.Duration)
	if t >= 1 {
		s.pos = s.target
		s.moving = false
		return s.pos
	}
	s.pos = s.from + (s.target-s.from)*s.opts.Easing(t)
	return s.pos
}

func (s *Scroller) Position() float64 { return s.pos }
func (s *Scroller) Target() float64 { return s.target }
func (s *Scroller) Moving() bool { return s.moving }
func (s *Scroller) Limit() float64 { return s.limit }

func (s *Scroller) clamp(y float64) float64 {
	return math.Min(math.Max(y, 0), s.limit)
}
