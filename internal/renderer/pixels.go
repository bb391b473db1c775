package renderer

import (
	"image"
	"math"

	"github.com/buildworks/scrollfx/internal/curve"
	"github.com/buildworks/scrollfx/internal/effects"
)

func clearRect(img *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		row := img.Pix[i : i+r.Dx()*4]
		for j := range row {
			row[j] = 0
		}
	}
}

func fill(img *image.RGBA, r image.Rectangle, c [4]uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		row := img.Pix[i : i+r.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			copy(row[x:x+4], c[:])
		}
	}
}

func to8(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, v+0.5)))
}

// applyFilter runs the CSS filter functions of f over r. Channels are
// premultiplied.
func applyFilter(img *image.RGBA, r image.Rectangle, f effects.Filter, b effects.Bundle) {
	for _, part := range f.Parts {
		v, ok := b.Get(part.Param)
		if !ok {
			continue
		}
		switch part.Func {
		case "brightness":
			brightness(img, r, v.Num)
		case "contrast":
			contrast(img, r, v.Num)
		case "saturate":
			saturate(img, r, v.Num)
		case "blur":
			boxBlur(img, r, int(math.Round(v.Num)))
		}
	}
}

func brightness(img *image.RGBA, r image.Rectangle, k float64) {
	if k == 1 {
		return
	}
	eachPixel(img, r, func(p []uint8) {
		a := float64(p[3])
		for c := 0; c < 3; c++ {
			p[c] = to8(math.Min(float64(p[c])*k, a))
		}
	})
}

func contrast(img *image.RGBA, r image.Rectangle, k float64) {
	if k == 1 {
		return
	}
	eachPixel(img, r, func(p []uint8) {
		a := float64(p[3])
		mid := a / 2
		for c := 0; c < 3; c++ {
			p[c] = to8(math.Max(0, math.Min((float64(p[c])-mid)*k+mid, a)))
		}
	})
}

func saturate(img *image.RGBA, r image.Rectangle, k float64) {
	if k == 1 {
		return
	}
	eachPixel(img, r, func(p []uint8) {
		a := float64(p[3])
		lum := luma(p)
		for c := 0; c < 3; c++ {
			p[c] = to8(math.Max(0, math.Min(lum+(float64(p[c])-lum)*k, a)))
		}
	})
}

// boxBlur is a separable box blur of the given radius
func boxBlur(img *image.RGBA, r image.Rectangle, radius int) {
	if radius < 1 || r.Empty() {
		return
	}
	w, h := r.Dx(), r.Dy()
	buf := make([]uint8, max(w, h)*4)
	col := make([]uint8, h*4)

	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		row := img.Pix[i : i+w*4]
		copy(buf, row)
		blurLine(row, buf[:w*4], 4, radius)
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		for y := 0; y < h; y++ {
			copy(buf[y*4:y*4+4], img.Pix[img.PixOffset(x, r.Min.Y+y):])
		}
		blurLine(col, buf[:h*4], 4, radius)
		for y := 0; y < h; y++ {
			copy(img.Pix[img.PixOffset(x, r.Min.Y+y):], col[y*4:y*4+4])
		}
	}
}

func blurLine(dst, src []uint8, step, radius int) {
	n := len(src) / step
	for i := 0; i < n; i++ {
		var sum [4]int
		count := 0
		for j := max(i-radius, 0); j <= min(i+radius, n-1); j++ {
			for c := 0; c < 4; c++ {
				sum[c] += int(src[j*step+c])
			}
			count++
		}
		for c := 0; c < 4; c++ {
			dst[i*step+c] = uint8(sum[c] / count)
		}
	}
}

func eachPixel(img *image.RGBA, r image.Rectangle, fn func(p []uint8)) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		row := img.Pix[i : i+r.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			fn(row[x : x+4])
		}
	}
}

func luma(p []uint8) float64 {
	return 0.2126*float64(p[0]) + 0.7152*float64(p[1]) + 0.0722*float64(p[2])
}

// shading holds the full-section treatments of one tick
type shading struct {
	vignette float64

	aura  float64
	auraX float64 // horizontal aura offset as a fraction of the width
	tint  curve.RGBA
	lift  float64
	crush float64
}

func (s shading) empty() bool {
	return s.vignette <= 0 && s.aura <= 0 && s.tint.A <= 0 && s.lift <= 0 && s.crush <= 0
}

var auraColor = [3]float64{255, 196, 140}

// shade applies s to an opaque canvas region
func shade(img *image.RGBA, clip, box image.Rectangle, s shading) {
	if s.empty() {
		return
	}
	cx := float64(box.Min.X) + float64(box.Dx())/2
	cy := float64(box.Min.Y) + float64(box.Dy())/2
	hw, hh := float64(box.Dx())/2, float64(box.Dy())/2
	ax := cx + s.auraX*float64(box.Dx())
	ay := float64(box.Min.Y) + 0.35*float64(box.Dy())
	ar := 0.6 * float64(box.Dx())

	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		i := img.PixOffset(clip.Min.X, y)
		row := img.Pix[i : i+clip.Dx()*4]
		dy := (float64(y) - cy) / hh
		for x := 0; x < len(row); x += 4 {
			p := row[x : x+4]
			px := float64(clip.Min.X + x/4)
			dx := (px - cx) / hw
			d := math.Sqrt(dx*dx + dy*dy)

			rgb := [3]float64{float64(p[0]), float64(p[1]), float64(p[2])}
			if s.aura > 0 {
				ad := math.Hypot(px-ax, float64(y)-ay) / ar
				if k := s.aura * 0.3 * falloff(ad, 0, 1); k > 0 {
					for c := range rgb {
						rgb[c] += (auraColor[c] - rgb[c]) * k
					}
				}
			}
			if s.tint.A > 0 {
				tint := [3]float64{s.tint.R, s.tint.G, s.tint.B}
				for c := range rgb {
					rgb[c] += (tint[c] - rgb[c]) * s.tint.A
				}
			}
			if s.lift > 0 {
				shadow := 1 - (0.2126*rgb[0]+0.7152*rgb[1]+0.0722*rgb[2])/255
				for c := range rgb {
					rgb[c] += (128 - rgb[c]) * s.lift * shadow
				}
			}
			dark := s.vignette*edge(d, 0.45, 1.2) + s.crush*edge(d, 0.3, 1.1)
			dark = math.Min(dark, 1)
			for c := range rgb {
				p[c] = to8(rgb[c] * (1 - dark))
			}
		}
	}
}

// falloff is 1 inside lo and fades to 0 at hi
func falloff(d, lo, hi float64) float64 {
	return 1 - edge(d, lo, hi)
}

// edge is 0 inside lo and eases to 1 at hi
func edge(d, lo, hi float64) float64 {
	t := math.Max(0, math.Min((d-lo)/(hi-lo), 1))
	return t * t
}
