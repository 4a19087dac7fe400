package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"catalog_snapshots", "plans", "promo_recurrence", "override_rules", "settings"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_PlanChecksRejectBadRows(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO catalog_snapshots (id, source, imported_at, plan_count) VALUES ('s1', 'x', '2026-01-01T00:00:00Z', 1)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO plans (id, snapshot_id, position, provider_id, scope_kind, countries, data_mb, validity_days, base_price_cents)
		VALUES ('p1', 's1', 0, 'prov', 'global', '["DE"]', 100, 1, 100)`)
	assert.Error(t, err, "scope_kind is constrained")

	_, err = db.Exec(`INSERT INTO plans (id, snapshot_id, position, provider_id, scope_kind, countries, data_mb, validity_days, base_price_cents)
		VALUES ('p1', 's1', 0, 'prov', 'local', '["DE"]', 100, 0, 100)`)
	assert.Error(t, err, "validity must be at least one day")
}

func TestMigrate_SnapshotDeleteCascadesToPlans(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO catalog_snapshots (id, source, imported_at, plan_count) VALUES ('s1', 'x', '2026-01-01T00:00:00Z', 1)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO plans (id, snapshot_id, position, provider_id, scope_kind, countries, data_mb, validity_days, base_price_cents)
		VALUES ('p1', 's1', 0, 'prov', 'local', '["DE"]', 100, 1, 100)`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM catalog_snapshots WHERE id = 's1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM plans`).Scan(&n))
	assert.Zero(t, n)
}
