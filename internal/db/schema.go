package db

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS auction_lots (
		id                  uuid PRIMARY KEY,
		lot_url             text NOT NULL UNIQUE,
		title               text NOT NULL DEFAULT '',
		brand               text NOT NULL DEFAULT '',
		type                text NOT NULL DEFAULT '',
		year                text NOT NULL DEFAULT '',
		estimate_low        bigint,
		estimate_high       bigint,
		value_estimate_low  bigint,
		value_estimate_high bigint,
		record              jsonb NOT NULL,
		scraped_at          timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS auction_lots_brand_idx ON auction_lots (brand)`,
}

// Migrate creates the tables used by the lot repository. It is idempotent.
func Migrate(ctx context.Context, conn *sql.DB) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration step %d: %w", i, err)
		}
	}
	return tx.Commit()
}
