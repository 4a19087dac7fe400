package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is idempotent so the full list
// runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS catalog_snapshots (
		id          TEXT PRIMARY KEY,
		source      TEXT NOT NULL,
		imported_at TEXT NOT NULL,
		plan_count  INTEGER NOT NULL CHECK (plan_count >= 0)
	)`,

	`CREATE TABLE IF NOT EXISTS plans (
		id                  TEXT PRIMARY KEY,
		snapshot_id         TEXT NOT NULL REFERENCES catalog_snapshots(id) ON DELETE CASCADE,
		position            INTEGER NOT NULL,
		provider_id         TEXT NOT NULL,
		provider_name       TEXT NOT NULL DEFAULT '',
		name                TEXT NOT NULL DEFAULT '',
		scope_kind          TEXT NOT NULL CHECK (scope_kind IN ('local', 'regional')),
		countries           TEXT NOT NULL,
		data_mb             INTEGER NOT NULL,
		validity_days       INTEGER NOT NULL CHECK (validity_days >= 1),
		base_price_cents    INTEGER NOT NULL CHECK (base_price_cents >= 0),
		promo_price_cents   INTEGER,
		speed_limit_kbps    INTEGER NOT NULL DEFAULT 0,
		reduced_speed_kbps  INTEGER NOT NULL DEFAULT 0,
		possible_throttling INTEGER NOT NULL DEFAULT 0,
		requires_ekyc       INTEGER NOT NULL DEFAULT 0,
		tethering           INTEGER,
		has_ads             INTEGER NOT NULL DEFAULT 0,
		can_top_up          INTEGER,
		subscription        INTEGER NOT NULL DEFAULT 0,
		pay_as_you_go       INTEGER NOT NULL DEFAULT 0,
		new_user_only       INTEGER NOT NULL DEFAULT 0,
		requires_phone      INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_plans_snapshot_position ON plans(snapshot_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_plans_provider ON plans(provider_id)`,

	`CREATE TABLE IF NOT EXISTS promo_recurrence (
		provider_id TEXT PRIMARY KEY,
		recurrence  TEXT NOT NULL CHECK (recurrence IN ('ONE_TIME', 'UNLIMITED', 'UNKNOWN')),
		name        TEXT NOT NULL DEFAULT '',
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS override_rules (
		id               TEXT PRIMARY KEY,
		position         INTEGER NOT NULL,
		target           TEXT NOT NULL CHECK (target IN ('provider', 'plan', 'name_contains')),
		key              TEXT NOT NULL,
		force_recurrence TEXT CHECK (force_recurrence IN ('ONE_TIME', 'UNLIMITED', 'UNKNOWN')),
		exclude          INTEGER NOT NULL DEFAULT 0,
		new_user_only    INTEGER NOT NULL DEFAULT 0,
		note             TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_override_rules_position ON override_rules(position)`,

	`CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}
