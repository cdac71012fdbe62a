// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/gobookshelf/gobookshelf/internal/config"
	"github.com/gobookshelf/gobookshelf/internal/logger"
)

var (
	configPath string // Path to the configuration directory
	devMode    bool

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "gobookshelf",
		Short: "GoBookshelf is a web application for managing books, authors and libraries",
		Long: `GoBookshelf is a web application for managing books, authors and libraries.
It serves html pages for browsers and a json REST api for scripts, both guarded
by role and group based permissions.`,
		Args:              cobra.OnlyValidArgs,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory of main.toml")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "Enable dev mode")
}

// loadConfig reads the configuration and sets up the global logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err //nolint:wrapcheck
	}

	if devMode {
		cfg.DevMode = true
	}

	return logger.Init(cfg.Log) //nolint:wrapcheck
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
