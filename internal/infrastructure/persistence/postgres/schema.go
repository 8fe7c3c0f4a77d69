package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the order tables when they do not exist yet. The
// store assigns created; items keep an explicit position so the item set
// reloads in the order it was written.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const stmt = `
		CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL DEFAULT 'created',
			created TIMESTAMPTZ NOT NULL DEFAULT now(),
			schedule_id TEXT,
			delivery_id TEXT
		);
		CREATE TABLE IF NOT EXISTS order_items (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
			position INT NOT NULL,
			product TEXT NOT NULL,
			size TEXT NOT NULL,
			quantity INT NOT NULL
		);
	`
	_, err := pool.Exec(ctx, stmt)
	return err
}
