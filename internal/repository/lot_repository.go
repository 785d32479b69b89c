package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"guitarlots/internal/model"
)

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type LotRepository struct {
	DB DB
}

const upsertLot = `
	INSERT INTO auction_lots
	(id, lot_url, title, brand, type, year, estimate_low, estimate_high,
	 value_estimate_low, value_estimate_high, record, scraped_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
	ON CONFLICT (lot_url) DO UPDATE SET
		title = EXCLUDED.title,
		brand = EXCLUDED.brand,
		type = EXCLUDED.type,
		year = EXCLUDED.year,
		estimate_low = EXCLUDED.estimate_low,
		estimate_high = EXCLUDED.estimate_high,
		value_estimate_low = EXCLUDED.value_estimate_low,
		value_estimate_high = EXCLUDED.value_estimate_high,
		record = EXCLUDED.record,
		scraped_at = now()
`

// Save inserts the record or replaces the row with the same lot URL.
func (r *LotRepository) Save(ctx context.Context, rec model.Record) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", rec.LotURL, err)
	}
	_, err = r.DB.Exec(ctx, upsertLot,
		uuid.New(), rec.LotURL, rec.Title, rec.Brand, rec.Type, rec.Year,
		rec.EstimateLow, rec.EstimateHigh, rec.ValueEstimateLow, rec.ValueEstimateHigh,
		doc,
	)
	if err != nil {
		return fmt.Errorf("failed to save lot %s: %w", rec.LotURL, err)
	}
	return nil
}

// List returns every stored record, oldest scrape first.
func (r *LotRepository) List(ctx context.Context) ([]model.Record, error) {
	rows, err := r.DB.Query(ctx, `SELECT record FROM auction_lots ORDER BY scraped_at, lot_url`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Record
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var rec model.Record
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("corrupt record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
