package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildworks/scrollfx/internal/carousel"
	"github.com/buildworks/scrollfx/internal/effects"
	"github.com/buildworks/scrollfx/internal/reveal"
	"github.com/buildworks/scrollfx/internal/scene"
)

type fakeTicker struct {
	c       chan time.Time
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }
func (f *fakeTicker) Stop() { f.stopped = true }

type fakeTimers struct{ tickers []*fakeTicker }

func (f *fakeTimers) New(time.Duration) carousel.Ticker {
	t := &fakeTicker{c: make(chan time.Time, 4)}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *fakeTimers) live() int {
	n := 0
	for _, t := range f.tickers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func newPage(t *testing.T, reduced bool) (*Page, *fakeTimers) {
	t.Helper()
	prog, err := scene.Compile(scene.Default())
	require.NoError(t, err)
	timers := &fakeTimers{}
	return New(prog, Options{Reduced: reduced, Timers: timers.New}), timers
}

func section(t *testing.T, f Frame, id string) SectionFrame {
	t.Helper()
	sf, ok := f.Section(id)
	require.True(t, ok, "missing section %s", id)
	return sf
}

func TestReducedMotionScenario(t *testing.T) {
	p, _ := newPage(t, true)
	now := time.Unix(100, 0)
	p.Mount(now)
	defer p.Unmount()

	for _, y := range []float64{0, 360, 2000, 5292, 6120} {
		now = now.Add(16 * time.Millisecond)
		p.ScrollTo(y, false, now)
		f := p.Tick(now)
		assert.Equal(t, y, f.ScrollY, "reduced motion jumps")

		hero := section(t, f, "hero")
		assert.Equal(t, "5%", hero.Bundle.String("heroImgY"))
		assert.Equal(t, "11px", hero.Bundle.String("cardY"))

		contact := section(t, f, "contact")
		assert.Equal(t, "0px", contact.Bundle.String("contentY"))
		assert.InDelta(t, 0.35, contact.Bundle.Float("vignette", 0), 1e-12)

		cta := section(t, f, "cta")
		assert.Equal(t, clamp01(cta.Progress), cta.Smooth, "springs snap")
		assert.Equal(t, "0px", cta.Bundle.String("bgBlur"))

		for id, style := range section(t, f, "about").Reveals {
			assert.Equal(t, reveal.Final, style, id)
		}
	}
}

func TestStickyProjectsSelection(t *testing.T) {
	p, _ := newPage(t, false)
	now := time.Unix(100, 0)
	p.Mount(now)
	defer p.Unmount()

	region, ok := p.Layout().Region("projects")
	require.True(t, ok)
	travel := region.Height - p.Layout().Viewport

	tests := []struct {
		page   float64
		active int
	}{
		{0, 0},
		{0.84, 0},
		{0.85, 1},
		{1.5, 1},
		{2.85, 2},
		{3, 2},
	}
	for _, tt := range tests {
		p.ScrollTo(region.Top+travel*tt.page/3, true, now)
		f := p.Tick(now)
		sf := section(t, f, "projects")
		assert.InDelta(t, tt.page, sf.Page, 1e-9)
		assert.Equal(t, tt.active, sf.Active, "page %g", tt.page)
	}

	// Past the region the page signal stays clamped
	p.ScrollTo(region.Top+region.Height*2, true, now)
	sf := section(t, p.Tick(now), "projects")
	assert.Equal(t, 3.0, sf.Page)
	assert.Equal(t, 2, sf.Active)
}

func TestProjectFrameFilterAndGrade(t *testing.T) {
	p, _ := newPage(t, false)
	start := time.Unix(100, 0)
	p.Mount(start)
	defer p.Unmount()

	region, _ := p.Layout().Region("projects")
	travel := region.Height - p.Layout().Viewport

	p.ScrollTo(region.Top+travel/3, true, start)
	sf := section(t, p.Tick(start), "projects")
	require.Equal(t, 1, sf.Active)
	require.True(t, sf.Changed)

	filter, ok := sf.Bundle.Derived(scene.FrameParam("filter", 1))
	require.True(t, ok)
	assert.Equal(t, "brightness(1.03) contrast(1.04)", filter)
	assert.InDelta(t, 1.0, sf.Bundle.Float(scene.FrameParam("opacity", 1), 0), 1e-9)

	// The grade fades from project 0 to project 1 over 700ms
	assert.InDelta(t, 0.28, sf.Bundle.Float(effects.GradeCrush, 0), 1e-9)
	sf = section(t, p.Tick(start.Add(350*time.Millisecond)), "projects")
	assert.Greater(t, sf.Bundle.Float(effects.GradeCrush, 0), 0.28)
	sf = section(t, p.Tick(start.Add(time.Second)), "projects")
	assert.InDelta(t, 0.3, sf.Bundle.Float(effects.GradeCrush, 0), 1e-9)
	assert.False(t, sf.Changed)
}

func TestSpringSmoothsCallToAction(t *testing.T) {
	p, _ := newPage(t, false)
	now := time.Unix(100, 0)
	p.Mount(now)
	defer p.Unmount()

	region, _ := p.Layout().Region("cta")
	startY := region.Top - p.Layout().Viewport
	endY := region.Top + region.Height
	p.ScrollTo((startY+endY)/2, true, now)

	prev := -1.0
	var sf SectionFrame
	for i := 0; i < 600; i++ {
		now = now.Add(16 * time.Millisecond)
		sf = section(t, p.Tick(now), "cta")
		assert.InDelta(t, 0.5, sf.Progress, 1e-9)
		assert.GreaterOrEqual(t, sf.Smooth, prev)
		assert.LessOrEqual(t, sf.Smooth, 0.5+1e-9)
		prev = sf.Smooth
	}
	assert.InDelta(t, 0.5, sf.Smooth, 1e-3)
}

func TestMountAcquiresAndUnmountReleasesTimers(t *testing.T) {
	p, timers := newPage(t, false)

	assert.Empty(t, timers.tickers)
	p.Mount(time.Now())
	p.Mount(time.Now())
	require.Len(t, timers.tickers, 1)
	assert.Equal(t, 1, timers.live())

	timers.tickers[0].c <- time.Now()
	sf := section(t, p.Tick(time.Now()), "testimonials")
	assert.Equal(t, 1, sf.Carousel)
	assert.Equal(t, 0, sf.FAQ)

	p.ToggleFAQ("testimonials", 0)
	sf = section(t, p.Tick(time.Now()), "testimonials")
	assert.Equal(t, -1, sf.FAQ)

	p.Unmount()
	p.Unmount()
	assert.Equal(t, 0, timers.live())
	assert.False(t, p.Mounted())
}

func TestManualCarouselPauses(t *testing.T) {
	p, timers := newPage(t, false)
	p.Mount(time.Now())
	defer p.Unmount()

	p.CarouselPrev("testimonials")
	assert.Equal(t, 0, timers.live())
	sf := section(t, p.Tick(time.Now()), "testimonials")
	assert.Equal(t, 2, sf.Carousel)
}

func TestRunReleasesOnCancel(t *testing.T) {
	p, timers := newPage(t, false)
	ctx, cancel := context.WithCancel(context.Background())

	ticks := make(chan time.Time)
	frames := make(chan Frame, 1)
	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx, ticks, func(f Frame) { frames <- f })
	}()

	ticks <- time.Now()
	f := <-frames
	assert.Equal(t, uint64(1), f.Seq)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 0, timers.live())
	assert.False(t, p.Mounted())
}

func TestRunFollowsTickClock(t *testing.T) {
	p, _ := newPage(t, false)
	region, _ := p.Layout().Region("cta")
	mid := (region.Top - p.Layout().Viewport + region.Top + region.Height) / 2

	base := time.Unix(100, 0)
	ticks := make(chan time.Time)
	ack := make(chan struct{}, 1)
	go func() {
		for i := 0; i <= 60; i++ {
			ticks <- base.Add(time.Duration(i) * 16 * time.Millisecond)
			<-ack
		}
		close(ticks)
	}()

	var got []Frame
	err := p.Run(context.Background(), ticks, func(f Frame) {
		if len(got) == 0 {
			p.ScrollTo(mid, true, f.Time)
		}
		got = append(got, f)
		ack <- struct{}{}
	})
	require.NoError(t, err)
	require.Len(t, got, 61)
	assert.Equal(t, base, got[0].Time)

	cta := section(t, got[len(got)-1], "cta")
	assert.InDelta(t, 0.5, cta.Progress, 1e-9)
	assert.Greater(t, cta.Smooth, 0.4, "springs advance on tick time, not wall time")
}

func TestRunCoalescesQueuedTicks(t *testing.T) {
	p, _ := newPage(t, false)

	base := time.Unix(100, 0)
	ticks := make(chan time.Time, 3)
	ticks <- base
	ticks <- base.Add(16 * time.Millisecond)
	ticks <- base.Add(32 * time.Millisecond)
	close(ticks)

	var got []Frame
	err := p.Run(context.Background(), ticks, func(f Frame) { got = append(got, f) })
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, base.Add(32*time.Millisecond), got[0].Time)
}

func TestMenuLocksWheel(t *testing.T) {
	p, _ := newPage(t, false)
	now := time.Unix(100, 0)
	p.Mount(now)
	defer p.Unmount()

	p.ToggleMenu()
	f := p.Tick(now)
	assert.True(t, f.MenuOpen)

	p.Wheel(500, now)
	assert.Equal(t, 0.0, p.Tick(now.Add(2*time.Second)).ScrollY)

	links := p.Navbar().Links
	require.NotEmpty(t, links)
	require.True(t, p.ClickLink(links[0], now))
	assert.False(t, p.Navbar().MenuOpen())

	f = p.Tick(now.Add(2 * time.Second))
	about, _ := p.Layout().Region("about")
	assert.Equal(t, about.Top, f.ScrollY)
	assert.True(t, f.Scrolled)
}

func TestResizeRelaysOut(t *testing.T) {
	p, _ := newPage(t, false)
	p.Resize(800, 1000, time.Now())

	region, _ := p.Layout().Region("projects")
	assert.InDelta(t, 3000, region.Height, 1e-9)
	assert.InDelta(t, 9.5*1000-1000, p.Layout().Limit, 1e-9)
}
