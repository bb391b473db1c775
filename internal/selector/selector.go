// Package selector derives a discrete active item from a continuous
// multi-item progress signal.
package selector

import (
	"fmt"
	"math"
)

// DefaultBias moves each switch point ahead of the exact midpoint, so the
// active item changes slightly before its visual peak.
const DefaultBias = 0.15

// Epsilon is the distance within which progress+bias is treated as sitting
// exactly on an item boundary. A value on the boundary selects the later item.
const Epsilon = 1e-9

// Select returns floor(progress+bias) clamped to [0, count-1].
// count must be positive.
func Select(progress float64, count int, bias float64) int {
	if count <= 0 {
		panic(fmt.Sprintf("selector: item count must be positive, got %d", count))
	}
	if math.IsNaN(progress) {
		progress = 0
	}

	raw := progress + bias
	if k := math.Round(raw); math.Abs(raw-k) < Epsilon {
		raw = k
	}

	idx := math.Floor(raw)
	if idx < 0 {
		return 0
	}
	if idx > float64(count-1) {
		return count - 1
	}
	return int(idx)
}

// Selector remembers the last selection for one rotator
type Selector struct {
	count  int
	bias   float64
	active int
}

func New(count int, bias float64) *Selector {
	if count <= 0 {
		panic(fmt.Sprintf("selector: item count must be positive, got %d", count))
	}
	return &Selector{count: count, bias: bias}
}

// Update selects from p and reports whether the active item changed
func (s *Selector) Update(p float64) (int, bool) {
	idx := Select(p, s.count, s.bias)
	changed := idx != s.active
	s.active = idx
	return idx, changed
}

func (s *Selector) Active() int { return s.active }
func (s *Selector) Count() int { return s.count }
func (s *Selector) Reset() { s.active = 0 }
func (s *Selector) Bias() float64 { return s.bias }
