package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"guitarlots/internal/cache"
	"guitarlots/internal/config"
	"guitarlots/internal/crawler"
	"guitarlots/internal/db"
	"guitarlots/internal/export"
	"guitarlots/internal/llm"
	"guitarlots/internal/lotparser"
	"guitarlots/internal/model"
	"guitarlots/internal/pipeline"
	"guitarlots/internal/repository"
)

const classificationTTL = 30 * 24 * time.Hour

var scrapeOpts struct {
	sale  string
	limit int
	out   string
	sheet bool
	store bool
	noLLM bool
}

// go run ./cmd/lots scrape --sale "sale/249/the-guitar-auction-(december)---day-one" --limit 10
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape a sale and export every lot",
	RunE:  runScrape,
}

func init() {
	f := scrapeCmd.Flags()
	f.StringVar(&scrapeOpts.sale, "sale", "", "Sale path or URL (default SALE_PATH)")
	f.IntVar(&scrapeOpts.limit, "limit", 0, "Stop after this many lots (0 = all)")
	f.StringVarP(&scrapeOpts.out, "out", "o", "", "JSON Lines output file (default OUTPUT_FILE)")
	f.BoolVar(&scrapeOpts.sheet, "sheet", false, "Write the results to the Google Sheet")
	f.BoolVar(&scrapeOpts.store, "store", false, "Upsert every lot into Postgres")
	f.BoolVar(&scrapeOpts.noLLM, "no-llm", false, "Skip title classification and valuation")
}

func runScrape(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if scrapeOpts.sale != "" {
		cfg.SalePath = scrapeOpts.sale
	}
	if scrapeOpts.out != "" {
		cfg.OutputFile = scrapeOpts.out
	}

	reqs := []config.Requirement{config.NeedSale}
	if !scrapeOpts.noLLM {
		reqs = append(reqs, config.NeedOpenAI)
	}
	if scrapeOpts.store {
		reqs = append(reqs, config.NeedDatabase)
	}
	if scrapeOpts.sheet {
		reqs = append(reqs, config.NeedSheet)
	}
	if err := cfg.Validate(reqs...); err != nil {
		return err
	}

	var pageCache crawler.Cache = crawler.NewMemoryCache()
	var classifier lotparser.Classifier
	var valuer pipeline.Valuer

	if !scrapeOpts.noLLM {
		client := llm.New(cfg.OpenAIKey, cfg.OpenAIModel, logger)
		classifier = &llm.TitleClassifier{LLM: client}
		valuer = &llm.Valuer{LLM: client}
	}

	if cfg.RedisURL != "" {
		rdb := cache.NewClient(cfg.RedisURL)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, caching in memory", zap.Error(err))
		} else {
			pageCache = &cache.PageCache{Client: rdb, TTL: cfg.PageCacheTTL}
			if classifier != nil {
				classifier = &cache.ClassificationCache{Client: rdb, Next: classifier, TTL: classificationTTL, Logger: logger}
			}
		}
	}

	runner := &pipeline.Runner{
		Parser: lotparser.New(classifier, logger),
		Valuer: valuer,
		Logger: logger,
	}

	if scrapeOpts.store {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		runner.Store = &repository.LotRepository{DB: pool}
	}

	crawl := crawler.NewClient(cfg.BaseURL, cfg.HTTPTimeout, pageCache, logger)
	runner.Fetcher = crawl

	urls, err := crawl.SaleLotURLs(ctx, cfg.SalePath, scrapeOpts.limit)
	if err != nil {
		return err
	}

	records, runErr := runner.Run(ctx, urls)
	if runErr != nil {
		logger.Warn("scrape interrupted, exporting partial results", zap.Int("lots", len(records)), zap.Error(runErr))
	}

	if err := export.SaveJSONL(cfg.OutputFile, records); err != nil {
		return fmt.Errorf("failed to save %s: %w", cfg.OutputFile, err)
	}
	logger.Info("data saved", zap.String("file", cfg.OutputFile), zap.Int("lots", len(records)))

	if scrapeOpts.sheet {
		if err := writeSheet(context.WithoutCancel(ctx), records); err != nil {
			logger.Error("failed to write data to Google Sheet", zap.Error(err))
		}
	}
	return runErr
}

func writeSheet(ctx context.Context, records []model.Record) error {
	if len(records) == 0 {
		logger.Info("no data to write to Google Sheet")
		return nil
	}
	sw, err := export.NewSheetWriter(ctx, cfg.CredentialsFile, cfg.SheetID, cfg.SheetName)
	if err != nil {
		return err
	}
	if err := sw.Write(ctx, records); err != nil {
		return err
	}
	logger.Info("data written to Google Sheet", zap.String("sheet", cfg.SheetName), zap.Int("lots", len(records)))
	return nil
}
