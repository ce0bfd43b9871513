package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/engine-manifest/internal/config"
	"github.com/oshokin/engine-manifest/internal/service/builder"
	"github.com/oshokin/engine-manifest/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// updateVersions forces version discovery before building.
	updateVersions bool

	// rootCmd represents the base command for building the artifact manifest.
	rootCmd = &cobra.Command{
		Use:   "engine-manifest",
		Short: "Build a reproducible manifest of search engine release artifacts",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &builder.Options{
				ConfigPath:     configPath,
				UpdateVersions: updateVersions,
			}

			return builder.Run(ctx, options)
		},
	}
)

// Execute runs the engine-manifest CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to configuration file (default "+config.DefaultConfigFilename+")")
	rootCmd.Flags().BoolVarP(&updateVersions, "update-versions", "u", false,
		"refresh engine version lists from GitHub before building")
}
