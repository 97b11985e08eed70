package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"leasedoc/internal/config"
)

var (
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "leasedoc",
	Short: "Landlord document generation and e-signature service",
	Long: `leasedoc drafts landlord documents (late rent notices, lease renewals,
deposit returns, maintenance notices, inspection reports and lease agreements)
from structured form data and tracks their electronic signature status.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; production sets real environment variables
		_ = godotenv.Load()

		cfg = config.Load()

		var err error
		logger, logCloser, err = config.NewLogger(cfg)
		if err != nil {
			return fmt.Errorf("setup logging: %w", err)
		}
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
