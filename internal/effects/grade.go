package effects

import (
	"time"

	"github.com/buildworks/scrollfx/internal/curve"
	"github.com/buildworks/scrollfx/internal/easing"
)

// Grade is the colour treatment of one featured project
type Grade struct {
	Tint  curve.Value // soft-light tint colour
	Lift  float64     // shadow fog opacity
	Crush float64     // black vignette opacity
}

// Parameter names a grade writes into a bundle
const (
	GradeTint  = "grade.tint"
	GradeLift  = "grade.lift"
	GradeCrush = "grade.crush"
)

// Apply writes the grade into b
func (g Grade) Apply(b Bundle) {
	b.Set(GradeTint, g.Tint)
	b.Set(GradeLift, curve.Number(g.Lift))
	b.Set(GradeCrush, curve.Number(g.Crush))
}

func mixGrade(a, b Grade, t float64) Grade {
	return Grade{
		Tint:  curve.Mix(a.Tint, b.Tint, t),
		Lift:  easing.Lerp(a.Lift, b.Lift, t),
		Crush: easing.Lerp(a.Crush, b.Crush, t),
	}
}

// GradeBlend cross-fades between project grades when the active project
// changes. A zero duration switches instantly.
type GradeBlend struct {
	grades   []Grade
	duration time.Duration
	ease     easing.Func

	active int
	from   Grade
	start  time.Time
}

func NewGradeBlend(grades []Grade, duration time.Duration) *GradeBlend {
	g := &GradeBlend{grades: grades, duration: duration, ease: easing.Standard.Ease}
	if len(grades) > 0 {
		g.from = grades[0]
	}
	return g
}

// Select starts a transition toward grade idx
func (g *GradeBlend) Select(idx int, now time.Time) {
	if idx == g.active || idx < 0 || idx >= len(g.grades) {
		return
	}
	g.from = g.At(now)
	g.active = idx
	g.start = now
}

// At returns the blended grade at now
func (g *GradeBlend) At(now time.Time) Grade {
	if len(g.grades) == 0 {
		return Grade{Tint: curve.Color(0, 0, 0, 0)}
	}
	target := g.grades[g.active]
	if g.duration <= 0 || g.start.IsZero() {
		return target
	}
	t := float64(now.Sub(g.start)) / float64(g.duration)
	if t >= 1 {
		return target
	}
	return mixGrade(g.from, target, g.ease(t))
}

func (g *GradeBlend) Active() int { return g.active }
