package analyzer

import (
	"image"
	"math"
	"sort"

	"golang.org/x/image/draw"
)

// ContrastDetector finds blocks of dense edges with a Sobel operator. The
// picture is analysed downscaled to at most MaxSide pixels.
type ContrastDetector struct {
	MaxSide       int
	MinBlockArea  int     // in analysed pixels
	EdgeThreshold float64 // gradient magnitude
	Dilate        int     // radius joining nearby edges
}

func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MaxSide:       256,
		MinBlockArea:  64,
		EdgeThreshold: 30,
		Dilate:        2,
	}
}

// Detect returns the blocks in source coordinates, densest first
func (d *ContrastDetector) Detect(img image.Image) ([]Block, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, nil
	}
	k := 1.0
	if side := max(b.Dx(), b.Dy()); d.MaxSide > 0 && side > d.MaxSide {
		k = float64(d.MaxSide) / float64(side)
	}
	w := max(1, int(math.Round(float64(b.Dx())*k)))
	h := max(1, int(math.Round(float64(b.Dy())*k)))

	gray := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(gray, gray.Bounds(), img, b, draw.Src, nil)

	edges := sobel(gray, d.EdgeThreshold)
	mask := dilate(edges, w, h, d.Dilate)

	var blocks []Block
	for _, r := range components(mask, w, h) {
		if r.Dx()*r.Dy() < d.MinBlockArea {
			continue
		}
		blocks = append(blocks, Block{Rect: toSource(r, b, k), Edges: count(edges, w, r)})
	}
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Edges > blocks[j].Edges })
	return blocks, nil
}

var (
	sobelX = [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY = [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
)

func sobel(g *image.Gray, threshold float64) []bool {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	out := make([]bool, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				row := g.Pix[(y+ky)*g.Stride:]
				for kx := -1; kx <= 1; kx++ {
					v := float64(row[x+kx])
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			out[y*w+x] = math.Hypot(gx, gy) > threshold
		}
	}
	return out
}

// dilate grows the mask by r pixels, one axis at a time
func dilate(mask []bool, w, h, r int) []bool {
	if r <= 0 {
		return mask
	}
	tmp := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for dx := max(0, x-r); dx <= min(w-1, x+r); dx++ {
				if mask[y*w+dx] {
					tmp[y*w+x] = true
					break
				}
			}
		}
	}
	out := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for dy := max(0, y-r); dy <= min(h-1, y+r); dy++ {
				if tmp[dy*w+x] {
					out[y*w+x] = true
					break
				}
			}
		}
	}
	return out
}

// components returns the bounding rectangles of 4-connected regions
func components(mask []bool, w, h int) []image.Rectangle {
	visited := make([]bool, len(mask))
	var rects []image.Rectangle
	var stack []int

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		r := image.Rect(start%w, start/w, start%w+1, start/w+1)
		visited[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%w, i/w
			r = r.Union(image.Rect(x, y, x+1, y+1))

			for _, n := range [4]int{i - 1, i + 1, i - w, i + w} {
				switch {
				case n < 0 || n >= len(mask):
					continue
				case n == i-1 && x == 0, n == i+1 && x == w-1:
					continue
				}
				if mask[n] && !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
		rects = append(rects, r)
	}
	return rects
}

func count(mask []bool, w int, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if mask[y*w+x] {
				n++
			}
		}
	}
	return n
}

// toSource maps an analysed rectangle back onto the source bounds
func toSource(r, b image.Rectangle, k float64) image.Rectangle {
	out := image.Rect(
		b.Min.X+int(math.Floor(float64(r.Min.X)/k)),
		b.Min.Y+int(math.Floor(float64(r.Min.Y)/k)),
		b.Min.X+int(math.Ceil(float64(r.Max.X)/k)),
		b.Min.Y+int(math.Ceil(float64(r.Max.Y)/k)),
	)
	return out.Intersect(b)
}
