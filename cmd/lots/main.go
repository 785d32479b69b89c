package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"guitarlots/internal/config"
	"guitarlots/internal/observability"
)

var (
	verbose bool
	metrics bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lots",
	Short: "Scrape, parse and value guitar auction lots",
	Long: `lots walks a guitar-auctions.co.uk sale, parses every lot description into
structured fields, asks an LLM for a brand/model/type breakdown and an
independent UK market valuation, and exports the result as JSON Lines,
to Postgres and to a Google Sheet.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg = config.Load()

		if metrics {
			if err := observability.Start(cfg.MetricsPort, logger); err != nil {
				return fmt.Errorf("failed to start metrics: %w", err)
			}
			logger.Info("metrics listening", zap.String("port", cfg.MetricsPort))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&metrics, "metrics", false, "Serve Prometheus metrics on METRICS_PORT")

	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(parseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
