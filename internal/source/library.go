package source

import (
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/buildworks/scrollfx/internal/analyzer"
)

// Library binds named page layers to rendered pictures. Layers are assigned
// source pages in order, wrapping when there are fewer pages than layers.
type Library struct {
	images map[string]image.Image
	focus  map[string][2]float64
}

// Load renders the pages for layers concurrently. With a detector each
// picture also gets a focus point; without one crops stay centred.
func Load(src Source, dpi int, layers []string, d analyzer.Detector) (*Library, error) {
	count := src.PageCount()
	if count == 0 {
		return nil, fmt.Errorf("source has no pages")
	}

	n := min(count, len(layers))
	rendered := make([]image.Image, n)
	focus := make([][2]float64, n)
	var g errgroup.Group
	for i := range rendered {
		g.Go(func() error {
			img, err := src.RenderPage(i, dpi)
			if err != nil {
				return fmt.Errorf("render page %d: %w", i, err)
			}
			rendered[i] = img
			if d == nil {
				return nil
			}
			fx, fy, err := analyzer.Focus(img, d)
			if err != nil {
				return fmt.Errorf("analyse page %d: %w", i, err)
			}
			focus[i] = [2]float64{fx, fy}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lib := &Library{
		images: make(map[string]image.Image, len(layers)),
		focus:  make(map[string][2]float64, len(layers)),
	}
	for i, name := range layers {
		lib.images[name] = rendered[i%n]
		lib.focus[name] = focus[i%n]
	}
	return lib, nil
}

// Layer returns the picture of a layer, or nil when it has none
func (l *Library) Layer(name string) image.Image {
	if l == nil {
		return nil
	}
	return l.images[name]
}

// Focus returns the focus offset of a layer's picture from its centre
func (l *Library) Focus(name string) (float64, float64) {
	if l == nil {
		return 0, 0
	}
	f := l.focus[name]
	return f[0], f[1]
}

func (l *Library) Len() int { return len(l.images) }
