package scene

import "github.com/buildworks/scrollfx/internal/progress"

// Layout places the sections of a program for one viewport height
type Layout struct {
	Viewport float64
	Extent   float64 // document height in pixels
	Limit    float64 // maximum scroll position

	regions map[string]progress.Region
}

// Layout stacks sections in document order. Aliased sections reuse the
// region they name.
func (p *Program) Layout(viewportHeight float64) Layout {
	l := Layout{Viewport: viewportHeight, regions: make(map[string]progress.Region, len(p.Sections)+1)}

	var top float64
	for _, s := range p.Sections {
		if s.Region != "" {
			continue
		}
		h := s.Height * viewportHeight
		l.regions[s.ID] = progress.Region{Top: top, Height: h}
		top += h
	}
	l.Extent = top
	l.Limit = max(top-viewportHeight, 0)
	l.regions[RegionPage] = progress.Region{Top: 0, Height: top}

	for _, s := range p.Sections {
		if s.Region != "" {
			l.regions[s.ID] = l.regions[s.Region]
		}
	}
	return l
}

// Region returns the placement of a section
func (l Layout) Region(id string) (progress.Region, bool) {
	r, ok := l.regions[id]
	return r, ok
}

// RevealRegion places a reveal element inside its section
func (l Layout) RevealRegion(section string, r Reveal) progress.Region {
	sec := l.regions[section]
	return progress.Region{Top: sec.Top + r.At*l.Viewport, Height: r.Height * l.Viewport}
}

// Anchor returns the scroll position that brings a section to the top of
// the viewport, clamped to the scroll limit.
func (l Layout) Anchor(id string) (float64, bool) {
	r, ok := l.regions[id]
	if !ok {
		return 0, false
	}
	return min(max(r.Top, 0), l.Limit), true
}
