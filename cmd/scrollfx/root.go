package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/buildworks/scrollfx/internal/config"
	"github.com/buildworks/scrollfx/internal/logging"
	"github.com/buildworks/scrollfx/internal/scene"
)

// app carries what every command needs once flags are parsed
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg *config.Config
	log *zap.Logger

	flagKeys map[*cobra.Command]map[string]string
}

func newRootCommand() *cobra.Command {
	a := &app{v: config.New(), flagKeys: map[*cobra.Command]map[string]string{}}

	root := &cobra.Command{
		Use:          "scrollfx",
		Short:        "Scroll-driven effects engine for the Buildworks landing page",
		Long:         "scrollfx evaluates the scroll-linked motion of a landing page scene, records it to video, previews it live and serves the contact form API.",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (yaml)")
	pf.String("scene", "", "scene file (default: built-in Buildworks scene)")
	pf.Int("width", 1280, "viewport width")
	pf.Int("height", 720, "viewport height")
	pf.Bool("reduced-motion", false, "honour the reduced-motion preference")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.Bool("log-dev", false, "development logging")
	a.bind(root, map[string]string{
		"scene":           "scene",
		"width":           "width",
		"height":          "height",
		"reduced_motion":  "reduced-motion",
		"log.level":       "log-level",
		"log.development": "log-dev",
	})

	root.AddCommand(
		newValidateCommand(a),
		newTraceCommand(a),
		newRenderCommand(a),
		newViewCommand(a),
		newServeCommand(a),
		newContactCommand(a),
	)
	return root
}

// bind records which config keys the flags of cmd override. Bindings are
// applied only for the command that runs, so commands may share keys.
func (a *app) bind(cmd *cobra.Command, keys map[string]string) {
	a.flagKeys[cmd] = keys
}

func (a *app) applyFlags(cmd *cobra.Command) error {
	for _, c := range []*cobra.Command{cmd.Root(), cmd} {
		for key, flag := range a.flagKeys[c] {
			f := c.Flags().Lookup(flag)
			if f == nil {
				f = c.PersistentFlags().Lookup(flag)
			}
			if err := a.v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind --%s: %w", flag, err)
			}
		}
	}
	return nil
}

func (a *app) init(cmd *cobra.Command) error {
	if err := a.applyFlags(cmd); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	cfg.BuildVersion = Version
	a.cfg = cfg

	log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

func (a *app) sugar() *zap.SugaredLogger { return a.log.Sugar() }

// program loads and compiles the configured scene
func (a *app) program() (*scene.Program, error) {
	s := scene.Default()
	if a.cfg.ScenePath != "" {
		var err error
		if s, err = scene.Read(a.cfg.ScenePath); err != nil {
			return nil, err
		}
	}
	return scene.Compile(s)
}
