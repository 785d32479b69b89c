// Package pipeline drives a scrape: fetch each lot page, parse it, value it
// and store the merged record.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"guitarlots/internal/crawler"
	"guitarlots/internal/lotparser"
	"guitarlots/internal/model"
	"guitarlots/internal/observability"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Valuer interface {
	Value(ctx context.Context, description string) (model.Valuation, error)
}

type Store interface {
	Save(ctx context.Context, rec model.Record) error
}

// Runner processes lots one at a time. Valuer and Store are optional.
type Runner struct {
	Fetcher Fetcher
	Parser  *lotparser.Parser
	Valuer  Valuer
	Store   Store
	Logger  *zap.Logger
}

// Run processes every URL in order. A lot that cannot be fetched or read is
// skipped; the batch only stops when ctx is done, in which case the records
// collected so far are returned together with ctx.Err().
func (r *Runner) Run(ctx context.Context, urls []string) ([]model.Record, error) {
	log := r.logger()
	records := make([]model.Record, 0, len(urls))

	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		log.Info("processing lot", zap.Int("lot", i+1), zap.Int("of", len(urls)), zap.String("url", u))

		rec, err := r.Process(ctx, u)
		if err != nil {
			log.Warn("skipping lot", zap.String("url", u), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Process builds the record for a single lot URL.
func (r *Runner) Process(ctx context.Context, url string) (model.Record, error) {
	log := r.logger()

	page, err := r.Fetcher.Fetch(ctx, url)
	if err != nil {
		observability.LotsFailed.WithLabelValues("fetch").Inc()
		return model.Record{}, fmt.Errorf("failed to fetch the lot page: %w", err)
	}

	raw, err := crawler.ParseLotPage(page)
	if err != nil {
		observability.LotsFailed.WithLabelValues("page").Inc()
		return model.Record{}, fmt.Errorf("failed to read the lot page: %w", err)
	}
	log.Debug("lot page", zap.String("description", raw.Description), zap.String("estimate", raw.Estimate))
	if raw.Description == "" {
		log.Warn("lot page has no description", zap.String("url", url))
	}

	rec := model.Record{
		LotURL:    url,
		LotParsed: r.Parser.Parse(ctx, raw),
	}

	if r.Valuer != nil && raw.Description != "" {
		v, err := r.Valuer.Value(ctx, raw.Description)
		if err != nil {
			observability.LotsFailed.WithLabelValues("valuation").Inc()
			log.Warn("valuation failed, keeping parsed lot", zap.String("url", url), zap.Error(err))
		} else {
			rec.Valuation = v
		}
	}

	if r.Store != nil {
		if err := r.Store.Save(ctx, rec); err != nil {
			observability.LotsFailed.WithLabelValues("store").Inc()
			log.Warn("failed to store lot", zap.String("url", url), zap.Error(err))
		}
	}

	observability.LotsProcessed.Inc()
	return rec, nil
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
