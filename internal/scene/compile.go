package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/buildworks/scrollfx/internal/curve"
	"github.com/buildworks/scrollfx/internal/effects"
	"github.com/buildworks/scrollfx/internal/progress"
	"github.com/buildworks/scrollfx/internal/selector"
	"github.com/buildworks/scrollfx/internal/smoothing"
)

// RegionPage aliases the whole document
const RegionPage = "page"

const (
	defaultScrollDuration = 1050 * time.Millisecond
	defaultGradeFade      = 700 * time.Millisecond
)

var ErrInvalid = errors.New("invalid scene")

// Program is a validated scene ready to drive a page
type Program struct {
	Name     string
	Viewport Viewport
	Bias     float64
	Scroll   Scroll
	Nav      Nav
	Sections []*Plan
}

// Plan is one compiled section
type Plan struct {
	ID     string
	Height float64 // viewport units, 0 for aliased sections
	Region string  // alias target, "" for own region
	Offset progress.Offset
	Spring *smoothing.Params // nil when the section has no smooth signal

	Items  int
	Labels []string

	Effects         *effects.Section
	Grades          []effects.Grade
	GradeTransition time.Duration

	Carousel  *Carousel
	Accordion *Accordion
	Reveals   []Reveal
}

// Section returns the plan with the given id
func (p *Program) Section(id string) (*Plan, bool) {
	for _, s := range p.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// FrameParam names the per-item copy of a frame parameter
func FrameParam(name string, item int) string {
	return fmt.Sprintf("%s.%d", name, item)
}

// Compile validates the scene and builds every curve. All problems are
// reported together.
func Compile(s *Scene) (*Program, error) {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		fail("viewport %dx%d must be positive", s.Viewport.Width, s.Viewport.Height)
	}
	if len(s.Sections) == 0 {
		fail("scene has no sections")
	}

	bias := selector.DefaultBias
	if s.Bias != nil {
		bias = *s.Bias
		if bias < 0 || bias >= 1 {
			fail("bias %g must lie in [0, 1)", bias)
		}
	}

	scroll := s.Scroll
	if scroll.Duration == 0 {
		scroll.Duration = defaultScrollDuration
	}
	if scroll.Multiplier == 0 {
		scroll.Multiplier = 1
	}
	if scroll.Duration < 0 || scroll.Multiplier < 0 {
		fail("scroll: duration and multiplier must not be negative")
	}
	if s.Nav.Threshold < 0 {
		fail("nav: threshold must not be negative")
	}

	ids := make(map[string]*Section, len(s.Sections))
	for i := range s.Sections {
		sec := &s.Sections[i]
		if sec.ID == "" {
			fail("section %d: missing id", i)
			continue
		}
		if sec.ID == RegionPage {
			fail("section %d: id %q is reserved", i, RegionPage)
		}
		if _, dup := ids[sec.ID]; dup {
			fail("section %s: duplicate id", sec.ID)
		}
		ids[sec.ID] = sec
	}

	prog := &Program{
		Name:     s.Name,
		Viewport: s.Viewport,
		Bias:     bias,
		Scroll:   scroll,
		Nav:      s.Nav,
	}
	for i := range s.Sections {
		plan, err := compileSection(&s.Sections[i], ids)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		prog.Sections = append(prog.Sections, plan)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return prog, nil
}

func compileSection(sec *Section, ids map[string]*Section) (*Plan, error) {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("section %s: "+format, append([]any{sec.ID}, args...)...))
	}

	plan := &Plan{
		ID:              sec.ID,
		Height:          sec.Height,
		Region:          sec.Region,
		Items:           sec.Items,
		Labels:          sec.Labels,
		GradeTransition: sec.GradeTransition,
		Carousel:        sec.Carousel,
		Accordion:       sec.Accordion,
		Reveals:         sec.Reveals,
	}

	switch {
	case sec.Region == "":
	case sec.Region == sec.ID:
		fail("region aliases itself")
	case sec.Region == RegionPage:
	default:
		target, ok := ids[sec.Region]
		if !ok {
			fail("unknown region %q", sec.Region)
		} else if target.Region != "" {
			fail("region %q is itself an alias", sec.Region)
		}
	}

	if sec.Items < 0 {
		fail("items must not be negative")
	}
	if sec.Height < 0 {
		fail("height must not be negative")
	}
	if sec.Region != "" {
		plan.Height = 0
	} else if plan.Height == 0 {
		plan.Height = float64(sec.Items)
		if plan.Height == 0 {
			fail("needs a height")
		}
	}
	if len(sec.Labels) > 0 && len(sec.Labels) != sec.Items {
		fail("%d labels for %d items", len(sec.Labels), sec.Items)
	}

	if len(sec.Offset) != 2 {
		fail("offset needs start and end, got %d entries", len(sec.Offset))
	} else if off, err := progress.ParseOffset(sec.Offset[0], sec.Offset[1]); err != nil {
		fail("offset: %v", err)
	} else {
		plan.Offset = off
	}

	if sec.Spring != nil {
		p := smoothing.DefaultParams
		p.Stiffness, p.Damping, p.Mass = sec.Spring.Stiffness, sec.Spring.Damping, sec.Spring.Mass
		if p.Stiffness <= 0 || p.Damping < 0 || p.Mass <= 0 {
			fail("spring needs positive stiffness and mass")
		}
		plan.Spring = &p
	}

	eff := &effects.Section{Name: sec.ID}
	names := make(map[string]bool)
	addTrack := func(t Track, shift float64, name string, page bool) {
		if names[name] {
			fail("duplicate track %q", name)
			return
		}
		names[name] = true

		signal := effects.SignalRaw
		switch t.Signal {
		case "", string(effects.SignalRaw):
		case string(effects.SignalSmooth):
			signal = effects.SignalSmooth
			if sec.Spring == nil {
				fail("track %s: smooth signal without a spring", name)
			}
		case string(effects.SignalPage):
			signal = effects.SignalPage
		default:
			fail("track %s: unknown signal %q", name, t.Signal)
		}
		if page {
			signal = effects.SignalPage
		}
		if signal == effects.SignalPage && sec.Items <= 0 {
			fail("track %s: page signal needs items", name)
		}

		c, err := curve.Parse(name, t.Input, t.Output)
		if err != nil {
			fail("track: %w", err)
			return
		}
		var reduced *curve.Curve
		if len(t.Reduced) > 0 {
			if reduced, err = curve.Parse(name, t.Input, t.Reduced); err != nil {
				fail("track %s reduced: %w", name, err)
				return
			}
			if reduced.Points()[0].Output.Unit != c.Points()[0].Output.Unit {
				fail("track %s: reduced outputs change unit", name)
				return
			}
		}
		if shift != 0 {
			c = c.Shift(shift)
			if reduced != nil {
				reduced = reduced.Shift(shift)
			}
		}
		eff.Tracks = append(eff.Tracks, effects.NewTrack(name, signal, c, reduced, t.Motion))
	}

	for _, t := range sec.Tracks {
		addTrack(t, 0, t.Name, false)
	}
	for _, d := range sec.Derived {
		c, err := compileDerived(d, "", names)
		if err != nil {
			fail("%v", err)
			continue
		}
		eff.Derived = append(eff.Derived, c)
	}

	if sec.Frames != nil {
		if sec.Items <= 0 {
			fail("frames need items")
		}
		for i := 0; i < sec.Items; i++ {
			for _, t := range sec.Frames.Tracks {
				addTrack(t, float64(i), FrameParam(t.Name, i), true)
			}
			for _, d := range sec.Frames.Derived {
				c, err := compileDerived(d, fmt.Sprintf(".%d", i), names)
				if err != nil {
					fail("frame %d: %v", i, err)
					continue
				}
				eff.Derived = append(eff.Derived, c)
			}
		}
	}
	plan.Effects = eff

	if len(sec.Grades) > 0 {
		if len(sec.Grades) != sec.Items {
			fail("%d grades for %d items", len(sec.Grades), sec.Items)
		}
		for i, g := range sec.Grades {
			tint, err := curve.ParseValue(g.Tint)
			if err != nil {
				fail("grade %d: %v", i, err)
				continue
			}
			if tint.Kind != curve.KindColor {
				fail("grade %d: tint %q is not a colour", i, g.Tint)
				continue
			}
			plan.Grades = append(plan.Grades, effects.Grade{Tint: tint, Lift: g.Lift, Crush: g.Crush})
		}
		if plan.GradeTransition == 0 {
			plan.GradeTransition = defaultGradeFade
		}
	}

	if c := sec.Carousel; c != nil && (c.Items <= 0 || c.Interval <= 0) {
		fail("carousel needs items and a positive interval")
	}
	if a := sec.Accordion; a != nil && (a.Items <= 0 || a.Open < -1 || a.Open >= a.Items) {
		fail("accordion open row %d outside %d items", a.Open, a.Items)
	}
	for _, r := range sec.Reveals {
		if r.ID == "" || r.Height <= 0 || r.Delay < 0 {
			fail("reveal %q needs an id, a positive height and a non-negative delay", r.ID)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return plan, nil
}

// compileDerived builds a combinator. suffix renames per-item parameters.
func compileDerived(d Derived, suffix string, tracks map[string]bool) (effects.Combinator, error) {
	param := func(name string) (string, error) {
		if name == "" {
			return "", nil
		}
		full := name + suffix
		if !tracks[full] {
			return "", fmt.Errorf("derived %s: unknown parameter %q", d.Name, full)
		}
		return full, nil
	}

	var errs []error
	ref := func(name string) string {
		p, err := param(name)
		if err != nil {
			errs = append(errs, err)
		}
		return p
	}

	var out effects.Combinator
	switch d.Kind {
	case "filter":
		f := effects.Filter{Out: d.Name + suffix}
		for _, part := range d.Parts {
			f.Parts = append(f.Parts, effects.FilterPart{Func: part.Func, Param: ref(part.Param)})
		}
		if len(f.Parts) == 0 {
			errs = append(errs, fmt.Errorf("derived %s: filter without parts", d.Name))
		}
		out = f
	case "transform":
		out = effects.Transform{
			Out:    d.Name + suffix,
			X:      ref(d.X),
			Y:      ref(d.Y),
			Scale:  ref(d.Scale),
			Rotate: ref(d.Rotate),
		}
	default:
		return nil, fmt.Errorf("derived %s: unknown kind %q", d.Name, d.Kind)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
