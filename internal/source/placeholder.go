package source

import (
	"fmt"
	"image"
	"image/color"
)

// DefaultPalette holds warm construction-site tones, one gradient per page
var DefaultPalette = [][2]color.RGBA{
	{{0x2b, 0x2d, 0x31, 0xff}, {0x8a, 0x6d, 0x4b, 0xff}},
	{{0x1f, 0x2a, 0x36, 0xff}, {0x6c, 0x87, 0xa3, 0xff}},
	{{0x3a, 0x2f, 0x28, 0xff}, {0xc9, 0xa2, 0x77, 0xff}},
	{{0x24, 0x24, 0x24, 0xff}, {0x9e, 0x9e, 0x9e, 0xff}},
}

// PlaceholderSource generates vertical gradients so a scene can be previewed
// without any photography.
type PlaceholderSource struct {
	palette       [][2]color.RGBA
	width, height int
}

func NewPlaceholderSource(palette [][2]color.RGBA, width, height int) *PlaceholderSource {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &PlaceholderSource{palette: palette, width: width, height: height}
}

func (p *PlaceholderSource) PageCount() int { return len(p.palette) }

func (p *PlaceholderSource) GetPageDimensions(index int) (float64, float64, error) {
	return float64(p.width), float64(p.height), nil
}

func (p *PlaceholderSource) RenderPage(index int, dpi int) (image.Image, error) {
	if index < 0 || index >= len(p.palette) {
		return nil, fmt.Errorf("placeholder %d out of range", index)
	}
	top, bottom := p.palette[index][0], p.palette[index][1]

	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	for y := 0; y < p.height; y++ {
		t := float64(y) / float64(max(p.height-1, 1))
		c := color.RGBA{
			R: mix8(top.R, bottom.R, t),
			G: mix8(top.G, bottom.G, t),
			B: mix8(top.B, bottom.B, t),
			A: 0xff,
		}
		row := img.Pix[y*img.Stride : y*img.Stride+p.width*4]
		for x := 0; x < len(row); x += 4 {
			row[x], row[x+1], row[x+2], row[x+3] = c.R, c.G, c.B, c.A
		}
	}
	return img, nil
}

func (p *PlaceholderSource) Close() error { return nil }

func mix8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
