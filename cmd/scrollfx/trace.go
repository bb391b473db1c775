package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/buildworks/scrollfx/internal/director"
	"github.com/buildworks/scrollfx/internal/engine"
)

const defaultTraceDuration = 30.0

func newTraceCommand(a *app) *cobra.Command {
	var (
		out    string
		frames bool
	)
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Generate a scroll script, optionally printing the simulated frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := a.sugar()
			prog, err := a.program()
			if err != nil {
				return err
			}

			duration := a.cfg.TotalDuration
			if duration <= 0 {
				duration = defaultTraceDuration
			}
			script, err := director.NewDirector(float64(a.cfg.Height)).GenerateScript(prog, duration)
			if err != nil {
				return err
			}

			if out == "" {
				out = director.GenerateScriptPath("scripts")
			}
			if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
				return err
			}
			if err := director.WriteScript(script, out); err != nil {
				return err
			}
			log.Infof("[+++] Script saved: %s (%d keyframes, %.1fs)", out, len(script.Keyframes), script.Duration)

			if !frames {
				return nil
			}
			rec := engine.NewRecorder(a.cfg, prog, script, nil, nil, a.log)
			sim, err := rec.Simulate()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, f := range sim {
				projects, _ := f.Section("projects")
				fmt.Fprintf(w, "%5d %7.3fs y=%7.1f active=%2d scrolled=%t\n",
					f.Seq, f.Time.Sub(sim[0].Time).Seconds(), f.ScrollY, projects.Active, f.Scrolled)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "script path (default: scripts/script_<timestamp>.yaml)")
	cmd.Flags().BoolVar(&frames, "frames", false, "print one line per simulated frame")
	cmd.Flags().Float64("duration", 0, "script length in seconds (default 30)")
	cmd.Flags().Int("fps", 30, "frame rate of the simulation")
	a.bind(cmd, map[string]string{"duration": "duration", "fps": "fps"})
	return cmd
}
