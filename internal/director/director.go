package director

import (
	"fmt"
	"math/rand"

	"github.com/buildworks/scrollfx/internal/scene"
)

// Director generates scroll scripts that walk a page section by section
type Director struct {
	ViewportHeight float64
	MinDwell       float64 // Minimum time per stop (seconds)
	MaxDwell       float64 // Maximum time per stop (seconds)
	Variation      float64 // Max relative change of dwell between stops
	Seed           int64
}

// NewDirector creates a new Director with default settings
func NewDirector(viewportHeight float64) *Director {
	return &Director{
		ViewportHeight: viewportHeight,
		MinDwell:       1.5,
		MaxDwell:       6.0,
		Variation:      0.15,
		Seed:           1,
	}
}

type stop struct {
	focus string
	y     float64
}

// GenerateScript visits every section anchor, and every item of sticky
// sections, within totalDuration seconds.
func (d *Director) GenerateScript(prog *scene.Program, totalDuration float64) (*Script, error) {
	if totalDuration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %.2f", totalDuration)
	}

	stops := d.collectStops(prog)
	if len(stops) == 0 {
		return nil, fmt.Errorf("scene %q has no sections to visit", prog.Name)
	}

	durations := d.calculateDurations(totalDuration, len(stops))

	keyframes := make([]Keyframe, 0, len(stops))
	currentTime := 0.0
	for i, s := range stops {
		keyframes = append(keyframes, Keyframe{
			Time:      currentTime,
			Focus:     s.focus,
			ScrollY:   s.y,
			Immediate: i == 0,
		})
		currentTime += durations[i]
	}

	return &Script{
		Version:   "1.0",
		Scene:     prog.Name,
		Duration:  totalDuration,
		Keyframes: keyframes,
	}, nil
}

// collectStops lists scroll targets in document order, dropping repeats of
// the same position
func (d *Director) collectStops(prog *scene.Program) []stop {
	layout := prog.Layout(d.ViewportHeight)

	var stops []stop
	add := func(focus string, y float64) {
		y = min(max(y, 0), layout.Limit)
		if n := len(stops); n > 0 && stops[n-1].y == y {
			return
		}
		stops = append(stops, stop{focus: focus, y: y})
	}

	for _, s := range prog.Sections {
		if s.Region != "" {
			continue
		}
		region, _ := layout.Region(s.ID)
		if s.Items <= 0 {
			y, _ := layout.Anchor(s.ID)
			add(s.ID, y)
			continue
		}

		// Item i is fully in focus at page progress i
		travel := region.Height - layout.Viewport
		for i := 0; i < s.Items; i++ {
			focus := fmt.Sprintf("%s_%d", s.ID, i+1)
			if i < len(s.Labels) {
				focus = s.Labels[i]
			}
			add(focus, region.Top+travel*float64(i)/float64(s.Items))
		}
	}
	return stops
}

// calculateDurations splits total across count stops. Each stop deviates from
// the previous one by at most Variation, then the set is scaled to the total.
func (d *Director) calculateDurations(total float64, count int) []float64 {
	base := total / float64(count)
	base = min(max(base, d.MinDwell), d.MaxDwell)

	durations := make([]float64, count)
	r := rand.New(rand.NewSource(d.Seed))

	variation := (r.Float64()*2 - 1) * d.Variation
	durations[0] = base * (1 + variation)
	for i := 1; i < count; i++ {
		variation := (r.Float64()*2 - 1) * d.Variation
		durations[i] = durations[i-1] * (1 + variation)
	}

	// Scale so the sum is exactly total
	sum := 0.0
	for _, v := range durations {
		sum += v
	}
	scale := total / sum
	for i := range durations {
		durations[i] *= scale
	}

	return durations
}
