package engine

import (
	"context"
	"errors"
	"image"
	"iter"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildworks/scrollfx/internal/config"
	"github.com/buildworks/scrollfx/internal/director"
	"github.com/buildworks/scrollfx/internal/scene"
)

type countingCompositor struct {
	mu       sync.Mutex
	composed int
	released int
}

func (c *countingCompositor) Compose(Frame) *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.composed++
	return image.NewRGBA(image.Rect(0, 0, 2, 2))
}

func (c *countingCompositor) Release(*image.RGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released++
}

type recordingEncoder struct {
	mu     sync.Mutex
	frames map[int]int
	params map[int]config.FrameParams
	joined []string
	failOn int
}

func newRecordingEncoder() *recordingEncoder {
	return &recordingEncoder{frames: map[int]int{}, params: map[int]config.FrameParams{}, failOn: -1}
}

func (e *recordingEncoder) EncodeSegment(ctx context.Context, frames iter.Seq[image.Image], path string, p config.FrameParams) error {
	if p.SegmentIndex == e.failOn {
		return errors.New("encoder crashed")
	}
	n := 0
	for range frames {
		n++
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frames[p.SegmentIndex] = n
	e.params[p.SegmentIndex] = p
	return nil
}

func (e *recordingEncoder) Concatenate(ctx context.Context, paths []string, final, tmp, audio string) error {
	for _, p := range paths {
		e.joined = append(e.joined, filepath.Base(p))
	}
	return nil
}

func recordConfig(duration float64, fps int) *config.Config {
	return &config.Config{
		Width: 1280, Height: 720, FPS: fps,
		TotalDuration: duration, SegmentFrames: 10, Workers: 2,
		VideoEncoder: "libx264", Quality: 23, OutputVideo: "out.mp4",
	}
}

func compiled(t *testing.T) *scene.Program {
	t.Helper()
	prog, err := scene.Compile(scene.Default())
	require.NoError(t, err)
	return prog
}

func TestSegments(t *testing.T) {
	segs := segments(make([]Frame, 25), 10)
	require.Len(t, segs, 3)
	assert.Len(t, segs[0], 10)
	assert.Len(t, segs[2], 5)
	assert.Empty(t, segments(nil, 10))
}

func TestRecorderRun(t *testing.T) {
	prog := compiled(t)
	script, err := director.NewDirector(720).GenerateScript(prog, 2.5)
	require.NoError(t, err)

	comp := &countingCompositor{}
	enc := newRecordingEncoder()
	rec := NewRecorder(recordConfig(2.5, 10), prog, script, comp, enc, nil)

	require.NoError(t, rec.Run(context.Background()))

	assert.Equal(t, map[int]int{0: 10, 1: 10, 2: 5}, enc.frames)
	assert.InDelta(t, 1.0, enc.params[0].Duration, 1e-12)
	assert.InDelta(t, 0.5, enc.params[2].Duration, 1e-12)
	assert.Equal(t, []string{"s0.mp4", "s1.mp4", "s2.mp4"}, enc.joined)
	assert.Equal(t, 25, comp.composed)
	assert.Equal(t, comp.composed, comp.released)
}

func TestRecorderSegmentFailure(t *testing.T) {
	enc := newRecordingEncoder()
	enc.failOn = 1
	rec := NewRecorder(recordConfig(2.5, 10), compiled(t), nil, &countingCompositor{}, enc, nil)

	err := rec.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "segment 1")
	assert.Empty(t, enc.joined)
}

func TestRecorderNothingToRecord(t *testing.T) {
	rec := NewRecorder(recordConfig(0, 30), compiled(t), nil, &countingCompositor{}, newRecordingEncoder(), nil)
	_, err := rec.Simulate()
	assert.Error(t, err)
}

func TestSimulateFollowsScript(t *testing.T) {
	script := &director.Script{Duration: 2, Keyframes: []director.Keyframe{
		{Time: 0, Focus: "hero", Immediate: true},
		{Time: 1, Focus: "projects", ScrollY: 3024, Immediate: true},
	}}
	rec := NewRecorder(recordConfig(0, 10), compiled(t), script, nil, nil, nil)

	frames, err := rec.Simulate()
	require.NoError(t, err)
	require.Len(t, frames, 20)

	assert.Equal(t, 0.0, frames[9].ScrollY)
	assert.Equal(t, 3024.0, frames[10].ScrollY)
	assert.True(t, frames[10].Scrolled)
}

func TestSimulateAdvancesCarousel(t *testing.T) {
	rec := NewRecorder(recordConfig(12, 2), compiled(t), nil, nil, nil, nil)

	frames, err := rec.Simulate()
	require.NoError(t, err)

	active := func(i int) int {
		sf, ok := frames[i].Section("testimonials")
		require.True(t, ok)
		return sf.Carousel
	}
	assert.Equal(t, 0, active(10))
	assert.Equal(t, 1, active(11), "5.5s")
	assert.Equal(t, 2, active(23), "11.5s")
}

func TestSimClock(t *testing.T) {
	start := time.Unix(0, 0)
	clock := NewSimClock(start)
	a := clock.Timers(time.Second)
	b := clock.Timers(time.Second)
	b.Stop()

	clock.Advance(start.Add(500 * time.Millisecond))
	assert.Empty(t, a.C())

	// a lagging receiver keeps one tick
	clock.Advance(start.Add(3 * time.Second))
	assert.Len(t, a.C(), 1)
	assert.Empty(t, b.C())
	assert.Equal(t, start.Add(3*time.Second), clock.Now())

	clock.Advance(start)
	assert.Equal(t, start.Add(3*time.Second), clock.Now(), "time does not run backwards")
}
