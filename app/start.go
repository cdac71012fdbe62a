package app

import (
	"github.com/spf13/cobra"

	"github.com/gobookshelf/gobookshelf/internal/daemon"
)

var (
	browseStatic bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the GoBookshelf web service",
		RunE: func(_ *cobra.Command, _ []string) error {
			if browseStatic {
				cfg.Webserver.BrowseStatic = true
			}

			d, err := daemon.New(&cfg)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return d.Start() //nolint:wrapcheck
		},
	}
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(
		&browseStatic,
		"browse",
		false,
		"Enable static file browsing (for development purposes only)",
	)

	rootCmd.AddCommand(startCmd)
}
