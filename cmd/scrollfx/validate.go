package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildworks/scrollfx/internal/scene"
)

func newValidateCommand(a *app) *cobra.Command {
	var export string
	cmd := &cobra.Command{
		Use:   "validate [scene.yaml...]",
		Short: "Compile scenes and report every problem",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := a.sugar()
			if export != "" {
				if err := scene.Write(scene.Default(), export); err != nil {
					return err
				}
				log.Infof("[+++] Built-in scene written to %s", export)
				return nil
			}

			if len(args) == 0 {
				prog, err := a.program()
				if err != nil {
					return err
				}
				report(cmd, a.cfg.ScenePath, prog, float64(a.cfg.Height))
				return nil
			}

			failed := 0
			for _, path := range args {
				s, err := scene.Read(path)
				if err == nil {
					var prog *scene.Program
					if prog, err = scene.Compile(s); err == nil {
						report(cmd, path, prog, float64(a.cfg.Height))
						continue
					}
				}
				failed++
				log.Errorf("[!] %s: %v", path, err)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scenes invalid", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&export, "export", "", "write the built-in scene to this path and exit")
	return cmd
}

func report(cmd *cobra.Command, path string, prog *scene.Program, vh float64) {
	if path == "" {
		path = "built-in"
	}
	layout := prog.Layout(vh)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: scene %q ok, %d sections, document %.0fpx, scroll limit %.0fpx\n",
		path, prog.Name, len(prog.Sections), layout.Extent, layout.Limit)
	for _, p := range prog.Sections {
		r, _ := layout.Region(p.ID)
		fmt.Fprintf(out, "  %-14s top %6.0f  height %6.0f  tracks %2d  derived %d\n",
			p.ID, r.Top, r.Height, len(p.Effects.Tracks), len(p.Effects.Derived))
	}
}
