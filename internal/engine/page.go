package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/buildworks/scrollfx/internal/carousel"
	"github.com/buildworks/scrollfx/internal/effects"
	"github.com/buildworks/scrollfx/internal/nav"
	"github.com/buildworks/scrollfx/internal/progress"
	"github.com/buildworks/scrollfx/internal/reveal"
	"github.com/buildworks/scrollfx/internal/scene"
	"github.com/buildworks/scrollfx/internal/selector"
	"github.com/buildworks/scrollfx/internal/smoothing"
	"github.com/buildworks/scrollfx/internal/smoothscroll"
)

// Options are the host contracts of a page
type Options struct {
	// Reduced is the user's reduced-motion preference
	Reduced        bool
	ViewportWidth  float64
	ViewportHeight float64
	Timers         carousel.TimerFactory
	Logger         *zap.Logger
}

type revealState struct {
	r   *reveal.Reveal
	def scene.Reveal
	src *progress.Source
}

type sectionState struct {
	plan   *scene.Plan
	src    *progress.Source
	spring *smoothing.Spring
	sel    *selector.Selector
	grade  *effects.GradeBlend

	rotator *carousel.Rotator
	faq     *carousel.Accordion
	reveals []revealState
}

// Page drives every section of a program from a single tick loop. All
// methods must be called from the goroutine that ticks it.
type Page struct {
	prog   *scene.Program
	opts   Options
	log    *zap.Logger
	layout scene.Layout

	scroller *smoothscroll.Scroller
	navbar   *nav.Navbar
	sections []*sectionState

	mounted bool
	last    time.Time
	seq     uint64
}

func New(prog *scene.Program, opts Options) *Page {
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = float64(prog.Viewport.Height)
	}
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = float64(prog.Viewport.Width)
	}
	if opts.Timers == nil {
		opts.Timers = carousel.RealTimers
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	p := &Page{
		prog: prog,
		opts: opts,
		log:  opts.Logger.Named("page"),
		scroller: smoothscroll.New(smoothscroll.Options{
			Duration:   prog.Scroll.Duration,
			Multiplier: prog.Scroll.Multiplier,
			Reduced:    opts.Reduced,
		}),
	}

	links := make([]nav.Link, len(prog.Nav.Links))
	for i, l := range prog.Nav.Links {
		links[i] = nav.Link{Label: l.Label, Href: l.Href}
	}
	p.navbar = nav.New(prog.Nav.Threshold, links, nav.Link{Label: prog.Nav.CTA.Label, Href: prog.Nav.CTA.Href}, nil)

	p.layout = prog.Layout(opts.ViewportHeight)
	p.scroller.SetLimit(p.layout.Limit)

	for _, plan := range prog.Sections {
		region, _ := p.layout.Region(plan.ID)
		st := &sectionState{
			plan: plan,
			src:  progress.NewSource(region, plan.Offset, opts.ViewportHeight),
		}
		if plan.Spring != nil {
			st.spring = smoothing.NewSpring(*plan.Spring)
			st.spring.Snap = opts.Reduced
		}
		if plan.Items > 0 {
			st.sel = selector.New(plan.Items, prog.Bias)
		}
		if len(plan.Grades) > 0 {
			st.grade = effects.NewGradeBlend(plan.Grades, plan.GradeTransition)
		}
		if c := plan.Carousel; c != nil {
			st.rotator = carousel.NewRotator(c.Items, c.Interval, opts.Timers)
		}
		if a := plan.Accordion; a != nil {
			st.faq = carousel.NewAccordion(a.Items, a.Open)
		}
		for _, def := range plan.Reveals {
			st.reveals = append(st.reveals, revealState{
				r:   reveal.New(def.ID, def.Delay, opts.Reduced),
				def: def,
				src: progress.NewSource(p.layout.RevealRegion(plan.ID, def), progress.StartEndEndStart, opts.ViewportHeight),
			})
		}
		p.sections = append(p.sections, st)
	}
	return p
}

// Mount resets per-section smoothing state and acquires the carousel timers
func (p *Page) Mount(now time.Time) {
	if p.mounted {
		return
	}
	p.mounted = true
	p.last = now

	y := p.scroller.Position()
	for _, st := range p.sections {
		st.src.Scroll(y)
		if st.spring != nil {
			st.spring.Reset(clamp01(st.src.Progress()))
		}
		if st.sel != nil {
			st.sel.Reset()
			st.sel.Update(progress.Scale(st.src.Progress(), st.plan.Items))
		}
		if st.rotator != nil {
			st.rotator.Start()
		}
	}
	p.log.Debug("mounted", zap.String("scene", p.prog.Name), zap.Int("sections", len(p.sections)))
}

// Unmount releases timers and the scroll lock. Safe to call repeatedly.
func (p *Page) Unmount() {
	if !p.mounted {
		return
	}
	p.mounted = false
	for _, st := range p.sections {
		if st.rotator != nil {
			st.rotator.Stop()
		}
	}
	p.navbar.Teardown()
	p.scroller.Lock(false)
	p.log.Debug("unmounted", zap.String("scene", p.prog.Name))
}

func (p *Page) Mounted() bool { return p.mounted }

// Tick runs one pass of the pipeline: scroll, progress, smoothing, bundles,
// selection, then the time-based widgets.
func (p *Page) Tick(now time.Time) Frame {
	dt := time.Duration(0)
	if !p.last.IsZero() && now.After(p.last) {
		dt = now.Sub(p.last)
	}
	p.last = now
	p.seq++

	y := p.scroller.Tick(now)
	p.navbar.Update(y)

	frame := Frame{
		Seq:      p.seq,
		Time:     now,
		ScrollY:  y,
		Scrolled: p.navbar.Scrolled(),
		MenuOpen: p.navbar.MenuOpen(),
		Sections: make([]SectionFrame, 0, len(p.sections)),
	}
	for _, st := range p.sections {
		frame.Sections = append(frame.Sections, p.tickSection(st, y, dt, now))
	}
	return frame
}

func (p *Page) tickSection(st *sectionState, y float64, dt time.Duration, now time.Time) SectionFrame {
	st.src.Scroll(y)
	raw := st.src.Progress()

	in := effects.Inputs{Raw: raw, Smooth: raw}
	if st.spring != nil {
		st.spring.SetTarget(clamp01(raw))
		in.Smooth = st.spring.Step(dt)
	}
	if st.plan.Items > 0 {
		in.Page = progress.Scale(raw, st.plan.Items)
	}

	sf := SectionFrame{
		ID:       st.plan.ID,
		Progress: raw,
		Smooth:   in.Smooth,
		Page:     in.Page,
		Bundle:   st.plan.Effects.Build(in, p.opts.Reduced),
		Active:   -1,
		Carousel: -1,
		FAQ:      -1,
	}

	if st.sel != nil {
		sf.Active, sf.Changed = st.sel.Update(in.Page)
		if sf.Changed {
			p.log.Debug("active item changed", zap.String("section", st.plan.ID), zap.Int("index", sf.Active))
		}
	}
	if st.grade != nil {
		if sf.Active >= 0 {
			st.grade.Select(sf.Active, now)
		}
		st.grade.At(now).Apply(sf.Bundle)
	}

	if st.rotator != nil {
		st.rotator.Poll()
		sf.Carousel = st.rotator.Active()
	}
	if st.faq != nil {
		sf.FAQ = st.faq.Open()
	}

	if len(st.reveals) > 0 {
		sf.Reveals = make(map[string]reveal.Style, len(st.reveals))
		for _, rs := range st.reveals {
			rs.src.Scroll(y)
			rs.r.Observe(rs.src.Visible(), now)
			sf.Reveals[rs.def.ID] = rs.r.Sample(now)
		}
	}
	return sf
}

// Run mounts the page at the first received tick, ticks it for every
// received time and hands each frame to sink. Queued ticks are coalesced to
// the newest one. The page is unmounted when ctx is done or ticks is closed.
func (p *Page) Run(ctx context.Context, ticks <-chan time.Time, sink func(Frame)) error {
	defer p.Unmount()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-ticks:
			if !ok {
				return nil
			}
			p.Mount(now)
			now = latest(ticks, now)
			sink(p.Tick(now))
		}
	}
}

func latest(ticks <-chan time.Time, now time.Time) time.Time {
	for {
		select {
		case t, ok := <-ticks:
			if !ok {
				return now
			}
			now = t
		default:
			return now
		}
	}
}

// Wheel feeds a wheel delta into smooth scrolling
func (p *Page) Wheel(dy float64, now time.Time) {
	p.scroller.Wheel(dy, now)
}

func (p *Page) ScrollTo(y float64, immediate bool, now time.Time) {
	p.scroller.ScrollTo(y, immediate, now)
}

// ScrollToSection eases to the anchor of a section
func (p *Page) ScrollToSection(id string, now time.Time) bool {
	y, ok := p.layout.Anchor(id)
	if !ok {
		return false
	}
	p.scroller.ScrollTo(y, false, now)
	return true
}

// Resize re-lays the document out for a new viewport
func (p *Page) Resize(width, height float64, now time.Time) {
	if height <= 0 || width <= 0 {
		return
	}
	p.opts.ViewportWidth, p.opts.ViewportHeight = width, height
	p.layout = p.prog.Layout(height)
	p.scroller.SetLimit(p.layout.Limit)

	for _, st := range p.sections {
		region, _ := p.layout.Region(st.plan.ID)
		st.src.SetRegion(region)
		st.src.Resize(height)
		for _, rs := range st.reveals {
			rs.src.SetRegion(p.layout.RevealRegion(st.plan.ID, rs.def))
			rs.src.Resize(height)
		}
	}
	p.log.Debug("resized", zap.Float64("width", width), zap.Float64("height", height))
}

// ToggleMenu opens or closes the mobile menu; an open menu locks scrolling
func (p *Page) ToggleMenu() {
	p.navbar.ToggleMenu()
	p.scroller.Lock(p.navbar.Lock().Held())
}

// ClickLink follows a nav link: the menu closes and the page scrolls to its anchor
func (p *Page) ClickLink(l nav.Link, now time.Time) bool {
	target := p.navbar.Click(l)
	p.scroller.Lock(p.navbar.Lock().Held())
	return p.ScrollToSection(target, now)
}

func (p *Page) CarouselNext(section string) {
	if st := p.section(section); st != nil && st.rotator != nil {
		st.rotator.Next()
	}
}

func (p *Page) CarouselPrev(section string) {
	if st := p.section(section); st != nil && st.rotator != nil {
		st.rotator.Prev()
	}
}

func (p *Page) ToggleFAQ(section string, row int) {
	if st := p.section(section); st != nil && st.faq != nil {
		st.faq.Toggle(row)
	}
}

func (p *Page) Layout() scene.Layout { return p.layout }
func (p *Page) Navbar() *nav.Navbar { return p.navbar }
func (p *Page) Program() *scene.Program { return p.prog }

func (p *Page) section(id string) *sectionState {
	for _, st := range p.sections {
		if st.plan.ID == id {
			return st
		}
	}
	return nil
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
