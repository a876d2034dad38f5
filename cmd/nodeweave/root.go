package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/nodeweave/internal/catalog"
	"github.com/ingyamilmolinar/nodeweave/internal/config"
	game_log "github.com/ingyamilmolinar/nodeweave/internal/log"
	"github.com/ingyamilmolinar/nodeweave/internal/ui"
)

var (
	configPath   string
	catalogPaths []string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "nodeweave",
	Short: "nodeweave - interactive node graph editor",
	Long: "nodeweave opens a canvas for building typed node graphs.\n" +
		"Right click opens the node finder, drag from a port to wire it, middle drag pans.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		cat, err := catalog.Load(logger, catalogPaths...)
		if err != nil {
			return err
		}
		g, err := ui.New(cfg, cat, logger)
		if err != nil {
			return err
		}
		defer g.Close()
		ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
		ebiten.SetWindowTitle(cfg.Window.Title)
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		logger.Infof("[HOST] Starting with %d node templates", len(cat.Templates()))
		return ebiten.RunGame(g)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringSliceVar(&catalogPaths, "catalog", nil, "node catalog HCL files (default: builtin catalog)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (debug, info, error, none)")

	rootCmd.AddCommand(catalogCmd(), configCmd())
}

// setup loads the config and builds the logger it describes.
func setup() (*config.Config, *game_log.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("--log-level: %w", err)
		}
	}
	logger := game_log.New(os.Stderr, cfg.LogLevel())
	logger.SetColor(cfg.Log.Color)
	return cfg, logger, nil
}
