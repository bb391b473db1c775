package scene

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildworks/scrollfx/internal/curve"
	"github.com/buildworks/scrollfx/internal/effects"
	"github.com/buildworks/scrollfx/internal/progress"
)

func TestDefaultCompiles(t *testing.T) {
	prog, err := Compile(Default())
	require.NoError(t, err)

	assert.Equal(t, "buildworks", prog.Name)
	assert.Equal(t, 0.15, prog.Bias)
	assert.Equal(t, 1050*time.Millisecond, prog.Scroll.Duration)
	assert.Len(t, prog.Nav.Links, 4)
	assert.Equal(t, "#quote", prog.Nav.CTA.Href)

	projects, ok := prog.Section("projects")
	require.True(t, ok)
	assert.Equal(t, 3, projects.Items)
	assert.Equal(t, 3.0, projects.Height)
	assert.Len(t, projects.Effects.Tracks, 4+3*8)
	assert.Len(t, projects.Effects.Derived, 1+3*2)
	assert.Len(t, projects.Grades, 3)
	assert.Equal(t, 700*time.Millisecond, projects.GradeTransition)

	cta, _ := prog.Section("cta")
	require.NotNil(t, cta.Spring)
	assert.InDelta(t, 1.414, cta.Spring.DampingRatio(), 1e-3)

	testimonials, _ := prog.Section("testimonials")
	require.NotNil(t, testimonials.Carousel)
	assert.Equal(t, 5500*time.Millisecond, testimonials.Carousel.Interval)
	assert.Equal(t, 0, testimonials.Accordion.Open)
}

func TestFramesExpandPerItem(t *testing.T) {
	prog, err := Compile(Default())
	require.NoError(t, err)
	projects, _ := prog.Section("projects")

	b := projects.Effects.Build(effects.Inputs{Raw: 0.5, Page: 1}, false)

	assert.InDelta(t, 1.0, b.Float(FrameParam("opacity", 1), 0), 1e-12)
	assert.InDelta(t, 0.0, b.Float(FrameParam("opacity", 0), 1), 1e-12)
	assert.InDelta(t, 0.0, b.Float(FrameParam("opacity", 2), 1), 1e-12)

	filter, ok := b.Derived(FrameParam("filter", 1))
	require.True(t, ok)
	assert.Equal(t, "brightness(1.03) contrast(1.04)", filter)

	filter, _ = b.Derived(FrameParam("filter", 0))
	assert.Equal(t, "brightness(0.98) contrast(1)", filter)
}

func TestLayout(t *testing.T) {
	prog, err := Compile(Default())
	require.NoError(t, err)

	l := prog.Layout(720)
	assert.InDelta(t, 9.5*720, l.Extent, 1e-9)
	assert.InDelta(t, 8.5*720, l.Limit, 1e-9)

	projects, ok := l.Region("projects")
	require.True(t, ok)
	assert.InDelta(t, 3.2*720, projects.Top, 1e-9)
	assert.InDelta(t, 3*720, projects.Height, 1e-9)

	bg, _ := l.Region("background")
	page, _ := l.Region(RegionPage)
	assert.Equal(t, page, bg)
	assert.Equal(t, 0.0, bg.Top)

	// Halfway through the sticky section is page progress 1.5
	plan, _ := prog.Section("projects")
	src := progress.NewSource(projects, plan.Offset, 720)
	src.Scroll(projects.Top + 720)
	assert.InDelta(t, 1.5, src.Scaled(plan.Items), 1e-9)

	anchor, ok := l.Anchor("about")
	require.True(t, ok)
	assert.InDelta(t, 720, anchor, 1e-9)

	// The last section cannot scroll to the top of the viewport
	contact, _ := l.Region("contact")
	anchor, _ = l.Anchor("contact")
	assert.InDelta(t, contact.Top, anchor, 1e-9)
	assert.LessOrEqual(t, anchor, l.Limit)

	_, ok = l.Anchor("missing")
	assert.False(t, ok)

	r := l.RevealRegion("about", Reveal{At: 0.5, Height: 0.25})
	assert.Equal(t, progress.Region{Top: 720 + 360, Height: 180}, r)
}

func TestCompileReportsAllProblems(t *testing.T) {
	s := &Scene{
		Viewport: Viewport{Width: 1280, Height: 720},
		Sections: []Section{
			{
				ID:     "a",
				Height: 1,
				Offset: []string{"start end", "end start"},
				Tracks: []Track{
					{Name: "y", Input: []float64{0, 0}, Output: []string{"0px", "1px"}},
					{Name: "z", Input: []float64{0, 1}, Output: []string{"0px", "1%"}},
					{Name: "s", Signal: "smooth", Input: []float64{0, 1}, Output: []string{"0", "1"}},
				},
			},
			{ID: "a", Height: 1, Offset: []string{"start", "nowhere"}},
			{ID: "b", Region: "missing", Offset: []string{"start start", "end end"}},
		},
	}

	_, err := Compile(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.True(t, errors.Is(err, curve.ErrNonIncreasing))
	assert.True(t, errors.Is(err, curve.ErrMixedUnits))
	assert.Contains(t, err.Error(), "duplicate id")
	assert.Contains(t, err.Error(), "smooth signal without a spring")
	assert.Contains(t, err.Error(), `unknown region "missing"`)
}

func TestCompileRejectsBadItems(t *testing.T) {
	base := func() *Scene {
		return &Scene{
			Viewport: Viewport{Width: 10, Height: 10},
			Sections: []Section{{
				ID:     "p",
				Items:  2,
				Offset: []string{"start start", "end end"},
				Frames: &Frames{Tracks: []Track{{Name: "o", Input: []float64{-1, 0, 1}, Output: []string{"0", "1", "0"}}}},
			}},
		}
	}

	_, err := Compile(base())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(s *Scene)
		want   string
	}{
		{"grades count", func(s *Scene) { s.Sections[0].Grades = []Grade{{Tint: "#ffffff"}} }, "1 grades for 2 items"},
		{"grade tint", func(s *Scene) {
			s.Sections[0].Grades = []Grade{{Tint: "1"}, {Tint: "#000000"}}
		}, "not a colour"},
		{"labels", func(s *Scene) { s.Sections[0].Labels = []string{"one"} }, "1 labels for 2 items"},
		{"frames without items", func(s *Scene) { s.Sections[0].Items = 0; s.Sections[0].Height = 1 }, "frames need items"},
		{"accordion", func(s *Scene) { s.Sections[0].Accordion = &Accordion{Items: 2, Open: 2} }, "accordion"},
		{"unknown derived param", func(s *Scene) {
			s.Sections[0].Frames.Derived = []Derived{{Name: "f", Kind: "filter", Parts: []FilterPart{{Func: "blur", Param: "nope"}}}}
		}, `unknown parameter "nope.0"`},
		{"bias", func(s *Scene) { b := 1.0; s.Bias = &b }, "bias"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			_, err := Compile(s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSceneWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")

	require.NoError(t, Write(Default(), path))

	loaded, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), loaded)

	_, err = Compile(loaded)
	assert.NoError(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("sections: {"))
	assert.Error(t, err)
}
