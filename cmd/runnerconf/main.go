package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version is the application version (set during build).
	Version = "dev"

	// Commit is the git commit hash (set during build).
	Commit = "none"

	// BuildDate is the build date (set during build).
	BuildDate = "unknown"
)

var (
	flagConfig   string
	flagHeaded   bool
	flagJSON     bool
	flagNoColor  bool
	flagLogLevel string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "runnerconf",
		Short: "Resolve and export the browser test runner configuration",
		Long: `runnerconf resolves the configuration handed to the browser test runner from
built-in defaults, an optional runnerconf.yaml and the CI / BASE_URL environment
variables, and publishes the screenshots, videos and traces the runner leaves behind.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagNoColor {
				color.NoColor = true
			}
			return initSettings()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file (default ./runnerconf.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&flagHeaded, "headed", false, "run browsers with a visible window")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (env: RUNNERCONF_LOG_LEVEL)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "runnerconf %s (commit: %s, built: %s)\n", Version, Commit, BuildDate)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newDevicesCmd())
	rootCmd.AddCommand(newArtifactsCmd())
	rootCmd.AddCommand(newPublishCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
