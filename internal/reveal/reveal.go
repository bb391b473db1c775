// Package reveal animates elements in once they scroll into view.
package reveal

import (
	"fmt"
	"time"

	"github.com/buildworks/scrollfx/internal/easing"
)

const (
	DefaultDuration = 700 * time.Millisecond
	// DefaultAmount is the visible fraction that triggers the entrance
	DefaultAmount = 0.28
)

// Style is the presentation state of a revealed element
type Style struct {
	Opacity float64
	Y       float64 // px
	Blur    float64 // px
}

var (
	Initial = Style{Opacity: 0, Y: 14, Blur: 6}
	Final   = Style{Opacity: 1, Y: 0, Blur: 0}
)

// Filter formats the blur as a filter expression
func (s Style) Filter() string {
	if s.Blur == 0 {
		return "none"
	}
	return fmt.Sprintf("blur(%.3gpx)", s.Blur)
}

func (s Style) Transform() string {
	return fmt.Sprintf("translateY(%.3gpx)", s.Y)
}

type State int

const (
	Hidden State = iota
	Animating
	Shown
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Animating:
		return "animating"
	default:
		return "shown"
	}
}

// Reveal is the entrance state machine of one element
type Reveal struct {
	ID       string
	Delay    time.Duration
	Duration time.Duration
	Amount   float64
	// Once keeps the element shown after the first entrance
	Once bool

	reduced  bool
	state    State
	start    time.Time
	animated int
}

// New returns a reveal with the default timing. Under reduced motion the
// element is shown immediately and never animates.
func New(id string, delay time.Duration, reduced bool) *Reveal {
	r := &Reveal{
		ID:       id,
		Delay:    delay,
		Duration: DefaultDuration,
		Amount:   DefaultAmount,
		Once:     true,
		reduced:  reduced,
	}
	if reduced {
		r.state = Shown
	}
	return r
}

// Observe feeds the visible fraction of the element
func (r *Reveal) Observe(visible float64, now time.Time) {
	if r.reduced {
		return
	}
	switch r.state {
	case Hidden:
		if visible >= r.Amount {
			r.state = Animating
			r.start = now.Add(r.Delay)
		}
	case Animating, Shown:
		if !r.Once && visible <= 0 {
			r.state = Hidden
		}
	}
}

// Sample returns the style at now and advances the state machine
func (r *Reveal) Sample(now time.Time) Style {
	switch r.state {
	case Hidden:
		return Initial
	case Shown:
		return Final
	}

	elapsed := now.Sub(r.start)
	if elapsed <= 0 {
		return Initial
	}
	if elapsed >= r.Duration {
		r.state = Shown
		return Final
	}

	r.animated++
	t := easing.ExpoOut.Ease(float64(elapsed) / float64(r.Duration))
	return Style{
		Opacity: easing.Lerp(Initial.Opacity, Final.Opacity, t),
		Y:       easing.Lerp(Initial.Y, Final.Y, t),
		Blur:    easing.Lerp(Initial.Blur, Final.Blur, t),
	}
}

func (r *Reveal) State() State { return r.state }

// Frames counts the intermediate styles produced so far
func (r *Reveal) Frames() int { return r.animated }
