package engine

import (
	"time"

	"github.com/buildworks/scrollfx/internal/effects"
	"github.com/buildworks/scrollfx/internal/reveal"
)

// Frame is everything presentation needs for one tick
type Frame struct {
	Seq      uint64
	Time     time.Time
	ScrollY  float64
	Scrolled bool // nav bar passed its threshold
	MenuOpen bool
	Sections []SectionFrame
}

// SectionFrame is the output of one section for one tick
type SectionFrame struct {
	ID       string
	Progress float64 // raw region progress
	Smooth   float64
	Page     float64
	Bundle   effects.Bundle

	// Active is the selected item of a sticky section, -1 otherwise
	Active  int
	Changed bool

	Carousel int // active testimonial, -1 without a carousel
	FAQ      int // open FAQ row, -1 when closed or absent

	Reveals map[string]reveal.Style
}

// Section returns the frame of the named section
func (f Frame) Section(id string) (SectionFrame, bool) {
	for _, s := range f.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return SectionFrame{}, false
}
