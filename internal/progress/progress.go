// Package progress turns a scroll position into a normalized progress signal
// for one tracked region of the page.
package progress

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Region is a tracked element, in scroll-extent pixels
type Region struct {
	Top    float64
	Height float64
}

// Intersection pairs an edge of the target region with an edge of the viewport.
// Both are fractions: 0 = start, 0.5 = center, 1 = end.
type Intersection struct {
	Target    float64
	Container float64
}

// Offset defines when progress is 0 (Start) and when it is 1 (End)
type Offset struct {
	Start Intersection
	End   Intersection
}

var (
	// StartStartEndEnd tracks a sticky region from its top hitting the viewport
	// top until its bottom hits the viewport bottom.
	StartStartEndEnd = Offset{Start: Intersection{0, 0}, End: Intersection{1, 1}}
	// StartEndEndStart tracks a region for as long as any part of it is visible.
	StartEndEndStart = Offset{Start: Intersection{0, 1}, End: Intersection{1, 0}}
	// StartStartEndStart tracks a region from its top at the viewport top until
	// it has fully scrolled off.
	StartStartEndStart = Offset{Start: Intersection{0, 0}, End: Intersection{1, 0}}
)

// ParseOffset reads a pair of framer-style intersections such as
// ("start end", "end start") or ("0 1", "1 0").
func ParseOffset(start, end string) (Offset, error) {
	s, err := parseIntersection(start)
	if err != nil {
		return Offset{}, err
	}
	e, err := parseIntersection(end)
	if err != nil {
		return Offset{}, err
	}
	return Offset{Start: s, End: e}, nil
}

func parseIntersection(s string) (Intersection, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Intersection{}, fmt.Errorf("offset %q: expected \"<target> <container>\"", s)
	}
	t, err := parseEdge(fields[0])
	if err != nil {
		return Intersection{}, fmt.Errorf("offset %q: %w", s, err)
	}
	c, err := parseEdge(fields[1])
	if err != nil {
		return Intersection{}, fmt.Errorf("offset %q: %w", s, err)
	}
	return Intersection{Target: t, Container: c}, nil
}

func parseEdge(s string) (float64, error) {
	switch s {
	case "start":
		return 0, nil
	case "center":
		return 0.5, nil
	case "end":
		return 1, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("unknown edge %q", s)
	}
	return f, nil
}

// Source produces the progress signal for one region. It is updated on every
// scroll event and on viewport resize.
type Source struct {
	region   Region
	offset   Offset
	viewport float64
	scroll   float64
}

func NewSource(region Region, offset Offset, viewportHeight float64) *Source {
	return &Source{region: region, offset: offset, viewport: viewportHeight}
}

// Resize updates the viewport height; boundaries shift with it
func (s *Source) Resize(viewportHeight float64) { s.viewport = viewportHeight }

// SetRegion replaces the tracked region after a layout change
func (s *Source) SetRegion(r Region) { s.region = r }

// Scroll records the latest scroll position
func (s *Source) Scroll(y float64) { s.scroll = y }

func (s *Source) Region() Region { return s.region }

// Bounds returns the scroll positions mapped to progress 0 and 1
func (s *Source) Bounds() (startY, endY float64) {
	return s.edge(s.offset.Start), s.edge(s.offset.End)
}

func (s *Source) edge(i Intersection) float64 {
	return s.region.Top + i.Target*s.region.Height - i.Container*s.viewport
}

// Progress returns the raw, unclamped progress. A zero-extent region or any
// non-finite input yields 0.
func (s *Source) Progress() float64 {
	startY, endY := s.Bounds()
	extent := endY - startY
	if extent == 0 || math.IsNaN(extent) || math.IsInf(extent, 0) {
		return 0
	}
	p := (s.scroll - startY) / extent
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return p
}

// Scaled maps progress onto [0, n] for regions shared by n items
func (s *Source) Scaled(n int) float64 {
	return Scale(s.Progress(), n)
}

// Scale clamps p to [0,1] and stretches it to [0,n]
func Scale(p float64, n int) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(1, p)) * float64(n)
}

// Visible returns the fraction of the region inside the viewport, in [0,1]
func (s *Source) Visible() float64 {
	if s.region.Height <= 0 {
		return 0
	}
	top := math.Max(s.region.Top, s.scroll)
	bottom := math.Min(s.region.Top+s.region.Height, s.scroll+s.viewport)
	if bottom <= top {
		return 0
	}
	return (bottom - top) / s.region.Height
}
