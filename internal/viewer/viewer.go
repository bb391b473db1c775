// Package viewer shows a live, interactive page in a desktop window.
package viewer

import (
	"errors"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/buildworks/scrollfx/internal/engine"
)

// wheelStep converts one wheel notch into pixels of scroll
const wheelStep = 100

// Game implements ebiten.Game on top of a page and a compositor.
type Game struct {
	page   *engine.Page
	comp   engine.Compositor
	log    *zap.Logger
	now    func() time.Time
	width  int
	height int

	screen *ebiten.Image
	frame  engine.Frame

	carousel  string // section holding the testimonial carousel
	accordion string // section holding the FAQ
}

func New(page *engine.Page, comp engine.Compositor, width, height int, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Game{page: page, comp: comp, log: log.Named("viewer"), now: time.Now, width: width, height: height}
	for _, p := range page.Program().Sections {
		if p.Carousel != nil && g.carousel == "" {
			g.carousel = p.ID
		}
		if p.Accordion != nil && g.accordion == "" {
			g.accordion = p.ID
		}
	}
	return g
}

// input is one update's worth of user actions
type input struct {
	wheel     float64
	page      int // +1 page down, -1 page up
	home, end bool
	link      int // index of a nav link, -1 for none
	menu      bool
	next      bool
	prev      bool
	faq       bool
	quit      bool
}

func readInput() input {
	_, dy := ebiten.Wheel()
	in := input{wheel: -dy * wheelStep, link: -1}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown), inpututil.IsKeyJustPressed(ebiten.KeySpace),
		inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		in.page = 1
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp), inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		in.page = -1
	}
	in.home = inpututil.IsKeyJustPressed(ebiten.KeyHome)
	in.end = inpututil.IsKeyJustPressed(ebiten.KeyEnd)
	for i, k := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5} {
		if inpututil.IsKeyJustPressed(k) {
			in.link = i
		}
	}
	in.menu = inpututil.IsKeyJustPressed(ebiten.KeyM)
	in.next = inpututil.IsKeyJustPressed(ebiten.KeyArrowRight)
	in.prev = inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft)
	in.faq = inpututil.IsKeyJustPressed(ebiten.KeyF)
	in.quit = inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ)
	return in
}

// apply feeds the actions to the page. It reports false when the viewer
// should close.
func (g *Game) apply(in input, now time.Time) bool {
	if in.quit {
		return false
	}
	vh := g.page.Layout().Viewport
	if in.wheel != 0 {
		g.page.Wheel(in.wheel, now)
	}
	if in.page != 0 {
		g.page.Wheel(float64(in.page)*vh*0.9, now)
	}
	if in.home {
		g.page.ScrollTo(0, false, now)
	}
	if in.end {
		g.page.ScrollTo(g.page.Layout().Limit, false, now)
	}
	if links := g.page.Navbar().Links; in.link >= 0 && in.link < len(links) {
		if !g.page.ClickLink(links[in.link], now) {
			g.log.Debug("link target missing", zap.String("href", links[in.link].Href))
		}
	}
	if in.menu {
		g.page.ToggleMenu()
	}
	if g.carousel != "" {
		if in.next {
			g.page.CarouselNext(g.carousel)
		}
		if in.prev {
			g.page.CarouselPrev(g.carousel)
		}
	}
	if in.faq && g.accordion != "" {
		if sf, ok := g.frame.Section(g.accordion); ok {
			g.page.ToggleFAQ(g.accordion, sf.FAQ+1)
		}
	}
	return true
}

func (g *Game) Update() error {
	now := g.now()
	if !g.apply(readInput(), now) {
		return ebiten.Termination
	}
	g.frame = g.page.Tick(now)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = ebiten.NewImage(g.width, g.height)
	}
	img := g.comp.Compose(g.frame)
	g.screen.WritePixels(img.Pix)
	g.comp.Release(img)
	screen.DrawImage(g.screen, nil)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Run mounts the page and blocks until the window is closed
func (g *Game) Run(title string) error {
	g.page.Mount(g.now())
	defer g.page.Unmount()

	g.frame = g.page.Tick(g.now())
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Snapshot paints the current frame, for screenshots
func (g *Game) Snapshot() *image.RGBA {
	img := g.comp.Compose(g.frame)
	out := image.NewRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	g.comp.Release(img)
	return out
}
