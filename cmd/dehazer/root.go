package main

import (
	"fmt"
	"runtime"

	"dehazer/internal/logger"

	"github.com/spf13/cobra"
)

const AppName = "dehazer"

var (
	version  = "0.1.0"
	logLevel string
	log      logger.Logger = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:   AppName,
	Short: "Remove haze from photographs with the dark channel prior",
	Long: `dehazer estimates per-pixel transmission and a global atmospheric light
from the dark channel of a hazy photograph, refines the transmission with a
guided filter and inverts the haze model to recover scene radiance.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logger.LevelFromEnv()
		if cmd.Flags().Changed("log-level") {
			level = logger.ParseLevel(logLevel)
		}
		log = logger.NewConsoleLogger(level)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error (default from LOG_LEVEL)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"%s %s (%s/%s, %s)\n",
		AppName, version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}
