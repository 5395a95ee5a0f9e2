package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"retirement-match/config"
	"retirement-match/logging"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:          "match",
	Short:        "Retirement match estimator",
	Long:         "Estimate the employer retirement match earned by student-loan payments, from the command line or over HTTP.",
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", os.Getenv("MATCH_CONFIG"), "Path to a YAML config file")
}

// loadConfig is the shared configuration path used by all commands.
func loadConfig() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, zerolog.Nop(), err
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	return cfg, logger, nil
}
