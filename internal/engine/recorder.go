package engine

import (
	"context"
	"fmt"
	"image"
	"iter"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/buildworks/scrollfx/internal/config"
	"github.com/buildworks/scrollfx/internal/director"
	"github.com/buildworks/scrollfx/internal/scene"
	"github.com/buildworks/scrollfx/internal/video"
)

// Compositor paints frames for recording
type Compositor interface {
	Compose(f Frame) *image.RGBA
	Release(img *image.RGBA)
}

// Recorder plays a scroll script against a page in simulated time and
// encodes the painted frames.
type Recorder struct {
	Config     *config.Config
	Program    *scene.Program
	Script     *director.Script
	Compositor Compositor
	Encoder    video.VideoEncoder
	Log        *zap.Logger

	tempDir string
}

// epoch anchors simulated time. Its value only has to be stable.
var epoch = time.Unix(1_700_000_000, 0)

func NewRecorder(cfg *config.Config, prog *scene.Program, script *director.Script, comp Compositor, ve video.VideoEncoder, log *zap.Logger) *Recorder {
	if ve == nil {
		ve = &video.FFmpegEncoder{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{
		Config:     cfg,
		Program:    prog,
		Script:     script,
		Compositor: comp,
		Encoder:    ve,
		Log:        log.Named("recorder"),
	}
}

// Duration is the configured length, falling back to the script's
func (r *Recorder) Duration() float64 {
	if r.Config.TotalDuration > 0 {
		return r.Config.TotalDuration
	}
	if r.Script != nil {
		return r.Script.Duration
	}
	return 0
}

// Simulate ticks a fresh page once per output frame and returns the frames
func (r *Recorder) Simulate() ([]Frame, error) {
	total := int(math.Round(r.Duration() * float64(r.Config.FPS)))
	if total <= 0 {
		return nil, fmt.Errorf("nothing to record: duration %.2fs at %d fps", r.Duration(), r.Config.FPS)
	}

	clock := NewSimClock(epoch)
	page := New(r.Program, Options{
		Reduced:        r.Config.Reduced,
		ViewportWidth:  float64(r.Config.Width),
		ViewportHeight: float64(r.Config.Height),
		Timers:         clock.Timers,
		Logger:         r.Log,
	})
	page.Mount(epoch)
	defer page.Unmount()

	frames := make([]Frame, total)
	prev := -1.0
	for i := range frames {
		ts := float64(i) / float64(r.Config.FPS)
		now := epoch.Add(time.Duration(ts * float64(time.Second)))
		clock.Advance(now)

		if r.Script != nil {
			for _, kf := range r.Script.Due(prev, ts) {
				page.ScrollTo(kf.ScrollY, kf.Immediate, now)
				r.Log.Debug("keyframe", zap.String("focus", kf.Focus), zap.Float64("t", kf.Time), zap.Float64("y", kf.ScrollY))
			}
		}
		prev = ts
		frames[i] = page.Tick(now)
	}
	return frames, nil
}

// segments splits frames into runs of at most size
func segments(frames []Frame, size int) [][]Frame {
	var out [][]Frame
	for start := 0; start < len(frames); start += size {
		out = append(out, frames[start:min(start+size, len(frames))])
	}
	return out
}

// paint composes frames in order, releasing each canvas once it is consumed
func (r *Recorder) paint(frames []Frame) iter.Seq[image.Image] {
	return func(yield func(image.Image) bool) {
		for _, f := range frames {
			img := r.Compositor.Compose(f)
			ok := yield(img)
			r.Compositor.Release(img)
			if !ok {
				return
			}
		}
	}
}

func (r *Recorder) Run(ctx context.Context) error {
	startTime := time.Now()

	var err error
	r.tempDir, err = os.MkdirTemp("", "scrollfx_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(r.tempDir)

	frames, err := r.Simulate()
	if err != nil {
		return err
	}
	simEnd := time.Now()

	r.Log.Info("recording",
		zap.String("scene", r.Program.Name),
		zap.Int("frames", len(frames)),
		zap.String("size", fmt.Sprintf("%dx%d", r.Config.Width, r.Config.Height)),
		zap.Int("fps", r.Config.FPS),
		zap.Bool("reduced_motion", r.Config.Reduced),
	)

	segs := segments(frames, r.Config.SegmentFrames)
	results := make([]string, len(segs))

	workers := r.Config.Workers
	if workers <= 0 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, seg := range segs {
		g.Go(func() error {
			segPath := filepath.Join(r.tempDir, fmt.Sprintf("s%d.mp4", i))
			if err := r.Encoder.EncodeSegment(gctx, r.paint(seg), segPath, r.Config.Params(i, len(seg))); err != nil {
				return fmt.Errorf("segment %d: %w", i, err)
			}
			results[i] = segPath
			r.Log.Info("segment ready", zap.Int("segment", i+1), zap.Int("of", len(segs)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	encodeEnd := time.Now()

	r.Log.Info("joining segments", zap.String("output", r.Config.OutputVideo))
	concatStart := time.Now()
	if err := r.Encoder.Concatenate(ctx, results, r.Config.OutputVideo, r.tempDir, r.Config.AudioPath); err != nil {
		return fmt.Errorf("join segments: %w", err)
	}

	if r.Config.ShowStats {
		r.report(stats{
			total:  time.Since(startTime),
			sim:    simEnd.Sub(startTime),
			encode: encodeEnd.Sub(simEnd),
			concat: time.Since(concatStart),
			frames: len(frames),
		})
	}
	return nil
}

type stats struct {
	total, sim, encode, concat time.Duration
	frames                     int
}

func (r *Recorder) report(s stats) {
	fps := float64(s.frames) / s.total.Seconds()
	r.Log.Info("performance report",
		zap.String("build", r.Config.BuildVersion),
		zap.Duration("total", s.total),
		zap.Duration("simulation", s.sim),
		zap.Duration("encoding", s.encode),
		zap.Duration("concatenation", s.concat),
		zap.Float64("effective_fps", fps),
	)

	logEntry := fmt.Sprintf("[%s] Build: %s | Scene: %s | Frames: %d | Total: %.2fs | Sim: %.2fs | Encode: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		r.Config.BuildVersion,
		r.Program.Name,
		s.frames,
		s.total.Seconds(),
		s.sim.Seconds(),
		s.encode.Seconds(),
		fps,
	)
	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		r.Log.Warn("cannot write benchmark.log", zap.Error(err))
		return
	}
	defer f.Close()
	f.WriteString(logEntry)
}
