package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"guitarlots/internal/config"
	"guitarlots/internal/db"
	"guitarlots/internal/export"
	"guitarlots/internal/model"
	"guitarlots/internal/repository"
)

var exportOpts struct {
	in     string
	fromDB bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Push previously scraped lots to the Google Sheet",
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&exportOpts.in, "in", "i", "", "JSON Lines file to read (default OUTPUT_FILE)")
	f.BoolVar(&exportOpts.fromDB, "from-db", false, "Read the lots from Postgres instead of a file")
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	reqs := []config.Requirement{config.NeedSheet}
	if exportOpts.fromDB {
		reqs = append(reqs, config.NeedDatabase)
	}
	if err := cfg.Validate(reqs...); err != nil {
		return err
	}

	var (
		records []model.Record
		err     error
	)
	if exportOpts.fromDB {
		pool, perr := db.NewPool(ctx, cfg.DatabaseURL)
		if perr != nil {
			return perr
		}
		defer pool.Close()
		records, err = (&repository.LotRepository{DB: pool}).List(ctx)
	} else {
		in := exportOpts.in
		if in == "" {
			in = cfg.OutputFile
		}
		records, err = export.LoadJSONL(in)
		if err == nil {
			logger.Info("data loaded", zap.String("file", in), zap.Int("lots", len(records)))
		}
	}
	if err != nil {
		return fmt.Errorf("failed to load lots: %w", err)
	}

	return writeSheet(ctx, records)
}
