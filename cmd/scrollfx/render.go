package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/buildworks/scrollfx/internal/analyzer"
	"github.com/buildworks/scrollfx/internal/director"
	"github.com/buildworks/scrollfx/internal/engine"
	"github.com/buildworks/scrollfx/internal/renderer"
	"github.com/buildworks/scrollfx/internal/scene"
	"github.com/buildworks/scrollfx/internal/source"
	"github.com/buildworks/scrollfx/internal/system"
	"github.com/buildworks/scrollfx/internal/video"
)

var audioExts = []string{".mp3", ".wav", ".m4a", ".aac", ".flac"}

func newRenderCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Record a scripted scroll through the scene to an mp4",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.render(ctx)
		},
	}
	f := cmd.Flags()
	f.String("script", "", "scroll script (default: newest in scripts/, else generated)")
	f.String("output", "", "output video (default: output/<scene>_<timestamp>.mp4)")
	f.Float64("duration", 0, "video length in seconds (0: audio length or script length)")
	f.Int("fps", 30, "frame rate")
	f.Int("workers", 0, "parallel segment encoders (0: physical cores)")
	f.Int("segment-frames", 60, "frames per encoded segment")
	f.Int("dpi", 150, "DPI for PDF brochure pages")
	f.String("assets", "", "PDF or image folder with section pictures (default: newest PDF in input/assets/, else placeholders)")
	f.String("focus", "contrast", "focus detector for cover crops: contrast or center")
	f.String("audio", "", "soundtrack (default: newest file in input/audio/)")
	f.String("encoder", "", "ffmpeg video encoder (default: best available H.264)")
	f.Int("quality", 0, "quality (0: auto; x264 CRF, VideoToolbox bitrate = Q*100kbit/s)")
	f.Bool("stats", false, "print a performance report and append to benchmark.log")
	a.bind(cmd, map[string]string{
		"script":         "script",
		"output":         "output",
		"duration":       "duration",
		"fps":            "fps",
		"workers":        "workers",
		"segment_frames": "segment-frames",
		"dpi":            "dpi",
		"assets":         "assets",
		"focus":          "focus",
		"audio":          "audio",
		"encoder":        "encoder",
		"quality":        "quality",
		"stats":          "stats",
	})
	return cmd
}

func (a *app) render(ctx context.Context) error {
	log := a.sugar()
	cfg := a.cfg
	system.InitResourceLimits(log)

	for _, d := range []string{"input/audio", "input/assets", "output", "scripts"} {
		os.MkdirAll(d, 0755)
	}

	prog, err := a.program()
	if err != nil {
		return err
	}

	if cfg.AudioPath == "" {
		if latest, err := system.FindLatest("input/audio", audioExts...); err == nil {
			cfg.AudioPath = latest
			log.Infof("[*] Audio selected: %s", latest)
		}
	}
	if cfg.AudioPath != "" && cfg.TotalDuration <= 0 {
		if d, err := system.GetAudioDuration(cfg.AudioPath); err == nil {
			cfg.TotalDuration = d
			log.Infof("[*] Video length follows the audio: %.2fs", d)
		} else {
			log.Warnf("[!] Could not read the audio length: %v", err)
		}
	}

	script, err := a.script(prog)
	if err != nil {
		return err
	}

	if cfg.OutputVideo == "" {
		name := strings.ReplaceAll(prog.Name, " ", "_")
		cfg.OutputVideo = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", name, time.Now().Format("2006-01-02_15-04-05")))
	}
	if cfg.VideoEncoder == "" {
		cfg.VideoEncoder, _ = system.GetBestH264Encoder()
		if cfg.VideoEncoder != "libx264" {
			log.Infof("[*] Hardware encoder found: %s", cfg.VideoEncoder)
		}
	}
	if cfg.Quality == 0 {
		cfg.Quality = system.DefaultQuality(cfg.VideoEncoder)
	}
	cfg.Workers = system.Workers(cfg.Workers)

	lib, err := a.library(prog)
	if err != nil {
		return err
	}

	comp := renderer.NewCompositor(prog, lib, cfg.Width, cfg.Height)
	rec := engine.NewRecorder(cfg, prog, script, comp, &video.FFmpegEncoder{}, a.log)

	log.Infof("[*] Scene: %s | %dx%d @ %d FPS | workers: %d | encoder: %s",
		prog.Name, cfg.Width, cfg.Height, cfg.FPS, cfg.Workers, cfg.VideoEncoder)
	if err := rec.Run(ctx); err != nil {
		return err
	}
	log.Infof("[+++] Done! Video saved: %s", cfg.OutputVideo)
	return nil
}

// script reads the configured or newest script, generating one when none
// exists
func (a *app) script(prog *scene.Program) (*director.Script, error) {
	log := a.sugar()
	path := a.cfg.ScriptPath
	if path == "" {
		if latest, err := director.FindLatestScript("scripts"); err == nil {
			path = latest
		}
	}
	if path != "" {
		script, err := director.ReadScript(path)
		if err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
		log.Infof("[*] Using script: %s", path)
		return script, nil
	}

	duration := a.cfg.TotalDuration
	if duration <= 0 {
		duration = defaultTraceDuration
	}
	log.Infof("[*] No script found, generating a %.1fs tour", duration)
	return director.NewDirector(float64(a.cfg.Height)).GenerateScript(prog, duration)
}

// library renders the section pictures from the configured assets
func (a *app) library(prog *scene.Program) (*source.Library, error) {
	path := a.cfg.AssetsPath
	if path == "" {
		if latest, err := system.FindLatest("input/assets", ".pdf"); err == nil {
			path = latest
		}
	}
	src, err := source.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open assets: %w", err)
	}
	defer src.Close()

	if path == "" {
		a.sugar().Infof("[*] No assets given, using placeholder gradients")
	} else {
		a.sugar().Infof("[*] Assets: %s | pages: %d", path, src.PageCount())
	}
	detector, err := analyzer.NewDetector(a.cfg.Focus)
	if err != nil {
		return nil, err
	}
	return source.Load(src, a.cfg.DPI, renderer.Layers(prog), detector)
}
