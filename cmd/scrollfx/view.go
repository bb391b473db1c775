package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildworks/scrollfx/internal/engine"
	"github.com/buildworks/scrollfx/internal/renderer"
	"github.com/buildworks/scrollfx/internal/viewer"
)

func newViewCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the scene in an interactive window",
		Long: `Scroll with the wheel, arrows, space or Page Up/Down. Home and End jump
to the ends, 1-5 follow the nav links, M toggles the menu, Left/Right page
the testimonials, F steps through the FAQ and Esc or Q quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := a.program()
			if err != nil {
				return err
			}
			lib, err := a.library(prog)
			if err != nil {
				return err
			}

			page := engine.New(prog, engine.Options{
				Reduced:        a.cfg.Reduced,
				ViewportWidth:  float64(a.cfg.Width),
				ViewportHeight: float64(a.cfg.Height),
				Logger:         a.log,
			})
			comp := renderer.NewCompositor(prog, lib, a.cfg.Width, a.cfg.Height)
			game := viewer.New(page, comp, a.cfg.Width, a.cfg.Height, a.log)
			return game.Run(fmt.Sprintf("scrollfx: %s", prog.Name))
		},
	}
	cmd.Flags().String("assets", "", "PDF or image folder with section pictures")
	cmd.Flags().Int("dpi", 150, "DPI for PDF brochure pages")
	cmd.Flags().String("focus", "contrast", "focus detector for cover crops: contrast or center")
	a.bind(cmd, map[string]string{"assets": "assets", "dpi": "dpi", "focus": "focus"})
	return cmd
}
