// Package renderer paints engine frames into RGBA canvases for recording
// and preview.
package renderer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/buildworks/scrollfx/internal/curve"
	"github.com/buildworks/scrollfx/internal/effects"
	"github.com/buildworks/scrollfx/internal/engine"
	"github.com/buildworks/scrollfx/internal/scene"
	"github.com/buildworks/scrollfx/internal/source"
	"github.com/buildworks/scrollfx/internal/system"
)

const navHeight = 64

var (
	baseColor  = [4]uint8{0x12, 0x12, 0x12, 0xff}
	navColor   = color.RGBA{0x12, 0x12, 0x12, 0xd9}
	panelColor = color.RGBA{0xff, 0xff, 0xff, 0xff}
	textColor  = color.RGBA{0xf2, 0xf2, 0xf2, 0xff}
	accent     = color.RGBA{0xe0, 0x9a, 0x3c, 0xff}
)

// Compositor paints frames of one program at a fixed canvas size
type Compositor struct {
	Width, Height int

	prog   *scene.Program
	lib    *source.Library
	layout scene.Layout
	layers map[string][]layer
	bounds image.Rectangle
	pool   *system.ImagePool
	scaler draw.Transformer
}

func NewCompositor(prog *scene.Program, lib *source.Library, width, height int) *Compositor {
	c := &Compositor{
		Width:  width,
		Height: height,
		prog:   prog,
		lib:    lib,
		layout: prog.Layout(float64(height)),
		layers: make(map[string][]layer, len(prog.Sections)),
		bounds: image.Rect(0, 0, width, height),
		pool:   system.NewImagePool(),
		scaler: draw.BiLinear,
	}
	for _, p := range prog.Sections {
		c.layers[p.ID] = sectionLayers(p)
	}
	return c
}

// Compose paints f onto a pooled canvas. Hand it back with Release.
func (c *Compositor) Compose(f engine.Frame) *image.RGBA {
	canvas := c.pool.Get(c.bounds)
	fill(canvas, c.bounds, baseColor)

	for _, sec := range f.Sections {
		plan, ok := c.prog.Section(sec.ID)
		if !ok {
			continue
		}
		box, ok := c.box(plan, f.ScrollY)
		if !ok {
			continue
		}
		clip := box.Intersect(c.bounds)

		for _, l := range c.layers[plan.ID] {
			c.paintLayer(canvas, clip, box, l, sec.Bundle)
		}
		shade(canvas, clip, box, shadingOf(sec))
		c.paintReveals(canvas, plan, sec, f.ScrollY)
		c.paintWidgets(canvas, plan, sec, box)
	}
	c.paintNav(canvas, f)
	return canvas
}

// Release returns a canvas from Compose to the pool
func (c *Compositor) Release(img *image.RGBA) {
	c.pool.Put(img)
}

// box places a section on screen. Aliased sections cover the viewport and
// sticky sections stay pinned while their region passes.
func (c *Compositor) box(p *scene.Plan, scrollY float64) (image.Rectangle, bool) {
	if p.Region != "" {
		return c.bounds, true
	}
	r, ok := c.layout.Region(p.ID)
	if !ok {
		return image.Rectangle{}, false
	}
	top := r.Top - scrollY
	vh := float64(c.Height)
	if top >= vh || top+r.Height <= 0 {
		return image.Rectangle{}, false
	}
	h := r.Height
	if p.Items > 0 {
		top = math.Max(top, math.Min(0, top+r.Height-vh))
		h = vh
	}
	y0 := int(math.Round(top))
	return image.Rect(0, y0, c.Width, y0+int(math.Round(h))), true
}

func (c *Compositor) paintLayer(canvas *image.RGBA, clip, box image.Rectangle, l layer, b effects.Bundle) {
	src := c.lib.Layer(l.name)
	if src == nil || clip.Empty() {
		return
	}
	opacity := 1.0
	if l.opacity != "" {
		opacity = b.Float(l.opacity, 1)
	}
	if opacity <= 0 {
		return
	}

	tmp := c.pool.Get(c.bounds)
	defer c.pool.Put(tmp)
	clearRect(tmp, clip)

	g := geometryOf(l.transform, b, box)
	g.fx, g.fy = c.lib.Focus(l.name)
	m := affine(src.Bounds(), box, g)
	c.scaler.Transform(tmp.SubImage(clip).(*image.RGBA), m, src, src.Bounds(), draw.Over, nil)

	if fc, ok := b.Combinator(l.filter); ok {
		if f, ok := fc.(effects.Filter); ok {
			applyFilter(tmp, clip, f, b)
		}
	}

	mask := image.NewUniform(color.Alpha16{A: uint16(math.Min(opacity, 1) * 0xffff)})
	draw.DrawMask(canvas, clip, tmp, clip.Min, mask, image.Point{}, draw.Over)
}

// geometry is a resolved transform in pixels and degrees
type geometry struct {
	x, y   float64
	scale  float64
	rotate float64
	// focus offsets from the picture centre, each in [-0.5, 0.5]
	fx, fy float64
}

func geometryOf(t *effects.Transform, b effects.Bundle, box image.Rectangle) geometry {
	g := geometry{scale: 1}
	if t == nil {
		return g
	}
	g.x = pixels(b, t.X, float64(box.Dx()))
	g.y = pixels(b, t.Y, float64(box.Dy()))
	if t.Scale != "" {
		g.scale = b.Float(t.Scale, 1)
	}
	if t.Rotate != "" {
		g.rotate = b.Float(t.Rotate, 0)
	}
	return g
}

// pixels resolves a translate parameter. Percentages refer to the box.
func pixels(b effects.Bundle, name string, size float64) float64 {
	v, ok := b.Get(name)
	if !ok {
		return 0
	}
	if v.Unit == curve.UnitPercent {
		return v.Num / 100 * size
	}
	return v.Num
}

// affine maps src so it covers box, then scales and rotates it about the
// box centre and translates it. The cover crop moves toward the focus as
// far as it can without uncovering the box.
func affine(src, box image.Rectangle, g geometry) f64.Aff3 {
	cover := math.Max(float64(box.Dx())/float64(src.Dx()), float64(box.Dy())/float64(src.Dy()))
	k := cover * g.scale
	sin, cos := math.Sincos(g.rotate * math.Pi / 180)

	a, bb := k*cos, -k*sin
	d, e := k*sin, k*cos
	scx := anchor(src.Min.X, src.Dx(), float64(box.Dx())/(2*cover), g.fx)
	scy := anchor(src.Min.Y, src.Dy(), float64(box.Dy())/(2*cover), g.fy)
	ox := float64(box.Min.X) + float64(box.Dx())/2 + g.x
	oy := float64(box.Min.Y) + float64(box.Dy())/2 + g.y

	return f64.Aff3{
		a, bb, ox - (a*scx + bb*scy),
		d, e, oy - (d*scx + e*scy),
	}
}

// anchor is the source coordinate shown at the box centre along one axis.
// half is the visible half extent in source pixels.
func anchor(start, size int, half, focus float64) float64 {
	lo := float64(start) + half
	hi := float64(start+size) - half
	c := float64(start) + float64(size)*(0.5+focus)
	if lo >= hi {
		return float64(start) + float64(size)/2
	}
	return math.Max(lo, math.Min(hi, c))
}

// shadingOf collects the section treatments, weighting per-item lift and
// crush by item opacity
func shadingOf(sec engine.SectionFrame) shading {
	b := sec.Bundle
	s := shading{
		vignette: b.Float("vignette", 0),
		aura:     b.Float("auraOpacity", 0),
		lift:     b.Float(effects.GradeLift, 0),
		crush:    b.Float(effects.GradeCrush, 0),
	}
	if v, ok := b.Get("auraX"); ok {
		s.auraX = v.Num / 100
	}
	if v, ok := b.Get(effects.GradeTint); ok && v.Kind == curve.KindColor {
		s.tint = v.Color
	}
	for i := 0; ; i++ {
		op, ok := b.Get(scene.FrameParam("opacity", i))
		if !ok {
			break
		}
		s.lift += op.Num * b.Float(scene.FrameParam("liftOpacity", i), 0)
		s.crush += op.Num * b.Float(scene.FrameParam("crushOpacity", i), 0)
	}
	s.crush = math.Min(s.crush, 1)
	return s
}

// paintReveals draws each reveal element as a panel inside its region
func (c *Compositor) paintReveals(canvas *image.RGBA, p *scene.Plan, sec engine.SectionFrame, scrollY float64) {
	contentY := pixels(sec.Bundle, "contentY", float64(c.Height))
	contentOpacity := sec.Bundle.Float("contentOpacity", 1)

	for _, r := range p.Reveals {
		style, ok := sec.Reveals[r.ID]
		if !ok || style.Opacity <= 0 {
			continue
		}
		region := c.layout.RevealRegion(p.ID, r)
		y0 := region.Top - scrollY + style.Y + contentY
		rect := image.Rect(
			c.Width*15/100, int(math.Round(y0)),
			c.Width*85/100, int(math.Round(y0+region.Height)),
		).Intersect(c.bounds)
		if rect.Empty() {
			continue
		}
		alpha := 0.12 * style.Opacity * contentOpacity
		mask := image.NewUniform(color.Alpha16{A: uint16(alpha * 0xffff)})
		draw.DrawMask(canvas, rect, image.NewUniform(panelColor), image.Point{}, mask, image.Point{}, draw.Over)
	}
}

// paintWidgets draws the item label, carousel dots and FAQ rows
func (c *Compositor) paintWidgets(canvas *image.RGBA, p *scene.Plan, sec engine.SectionFrame, box image.Rectangle) {
	if sec.Active >= 0 && sec.Active < len(p.Labels) {
		drawText(canvas, p.Labels[sec.Active], 48, box.Max.Y-48, textColor)
	}
	if p.Carousel != nil && sec.Carousel >= 0 {
		for i := 0; i < p.Carousel.Items; i++ {
			col := color.RGBA{0x80, 0x80, 0x80, 0xff}
			if i == sec.Carousel {
				col = accent
			}
			x := c.Width/2 + (i-p.Carousel.Items/2)*20
			dot := image.Rect(x, box.Min.Y+box.Dy()/2, x+8, box.Min.Y+box.Dy()/2+8).Intersect(c.bounds)
			draw.Draw(canvas, dot, image.NewUniform(col), image.Point{}, draw.Src)
		}
	}
	if p.Accordion != nil {
		y := box.Min.Y + box.Dy()*60/100
		for i := 0; i < p.Accordion.Items; i++ {
			h := 18
			if i == sec.FAQ {
				h = 54
			}
			row := image.Rect(c.Width*20/100, y, c.Width*80/100, y+h).Intersect(c.bounds)
			mask := image.NewUniform(color.Alpha16{A: 0x2000})
			draw.DrawMask(canvas, row, image.NewUniform(panelColor), image.Point{}, mask, image.Point{}, draw.Over)
			y += h + 6
		}
	}
}

func (c *Compositor) paintNav(canvas *image.RGBA, f engine.Frame) {
	if f.Scrolled || f.MenuOpen {
		bar := image.Rect(0, 0, c.Width, navHeight)
		draw.Draw(canvas, bar, image.NewUniform(navColor), image.Point{}, draw.Over)
	}
	x := 48
	drawText(canvas, c.prog.Name, x, navHeight/2+4, textColor)
	x = c.Width - 48 - len(c.prog.Nav.CTA.Label)*7
	drawText(canvas, c.prog.Nav.CTA.Label, x, navHeight/2+4, accent)
	for i := len(c.prog.Nav.Links) - 1; i >= 0; i-- {
		l := c.prog.Nav.Links[i]
		x -= (len(l.Label) + 3) * 7
		drawText(canvas, l.Label, x, navHeight/2+4, textColor)
	}

	if f.MenuOpen {
		menu := image.Rect(c.Width-320, navHeight, c.Width, c.Height)
		draw.Draw(canvas, menu, image.NewUniform(navColor), image.Point{}, draw.Over)
		for i, l := range c.prog.Nav.Links {
			drawText(canvas, l.Label, c.Width-280, navHeight+48+i*32, textColor)
		}
	}
}

func drawText(dst *image.RGBA, s string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
