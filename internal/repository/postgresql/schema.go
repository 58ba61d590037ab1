package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/database"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ledger_users (
		id         BIGINT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS punches (
		id         BIGINT PRIMARY KEY,
		user_id    BIGINT,
		punched_at TIMESTAMPTZ NOT NULL,
		synced_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_punches_punched_at ON punches (punched_at)`,
	`CREATE TABLE IF NOT EXISTS exception_fixes (
		id         UUID PRIMARY KEY,
		user_id    BIGINT NOT NULL,
		fix_date   DATE NOT NULL,
		shift      TEXT NOT NULL DEFAULT '',
		in_time    TEXT NOT NULL DEFAULT '',
		out_time   TEXT NOT NULL DEFAULT '',
		reason     TEXT NOT NULL,
		created_by TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, fix_date)
	)`,
	`CREATE TABLE IF NOT EXISTS holiday_slots (
		id          UUID PRIMARY KEY,
		slot_date   DATE NOT NULL UNIQUE,
		from_minute INT NOT NULL DEFAULT 0,
		to_minute   INT NOT NULL DEFAULT 0,
		name        TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the ledger tables when they do not exist.
func Migrate(ctx context.Context, db *database.DB) error {
	return WithTransaction(ctx, db, func(ctx context.Context) error {
		q := GetQuerier(ctx, db)
		for _, stmt := range schema {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}
