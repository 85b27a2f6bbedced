package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-reader/internal/config"
	"github.com/kozaktomas/face-reader/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "face-reader",
	Short: "AI face reading from a single photo",
	Long: `Face Reader sends a face photo to a vision-language model and returns a
traditional Chinese face-reading report: overview, five officials, three
zones, twelve palaces, fortune, lucky elements and advice.

Run "face-reader serve" for the web UI or "face-reader analyze" for a
one-off reading in the terminal.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// loadConfig reads configuration and sets up logging. Log lines go to stderr
// so command output on stdout stays machine-readable.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := logger.Init(os.Stderr, cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}
