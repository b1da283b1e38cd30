package sqlstore

import (
	"context"
	"testing"
	"time"

	"med-reminder/internal/adapters/storage"
	"med-reminder/internal/adapters/storage/storagetest"
	"med-reminder/internal/domain/prescriptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) storage.Stores {
	t.Helper()

	db, err := Open(SQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db, SQLite, nil))

	stores := NewStores(db, SQLite)
	t.Cleanup(func() { _ = stores.Close() })
	return stores
}

func TestStoresContract(t *testing.T) {
	storagetest.Run(t, newTestDB)
}

func TestMigrate_Idempotent(t *testing.T) {
	db, err := Open(SQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, SQLite, nil))
	require.NoError(t, Migrate(db, SQLite, nil))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)

	for _, table := range []string{"prescriptions", "taken_markers", "invitations", "linked_users", "notification_permissions"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}
}

func TestPrescriptions_RejectsUnknownSchemaVersion(t *testing.T) {
	db, err := Open(SQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(db, SQLite, nil))

	_, err = db.Exec(`INSERT INTO prescriptions (id, owner, name, dosage, frequency, start_date, end_date, times_per_day, schema_version, created_at)
		VALUES ('p-9', 'ana@example.com', 'X', '1', 'daily', '2024-01-01', NULL, '["08:00"]', 99, ?)`,
		time.Now().UTC().Format(timestampLayout))
	require.NoError(t, err)

	_, err = NewPrescriptionsRepo(db, SQLite).Get(context.Background(), "ana@example.com", "p-9")
	assert.ErrorIs(t, err, prescriptions.ErrInvalidInput)
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b = ?"
	assert.Equal(t, q, rebind(SQLite, q))
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", rebind(Postgres, q))
}

func TestExtractVersion(t *testing.T) {
	assert.Equal(t, 1, extractVersion("0001_init.up.sql"))
	assert.Equal(t, 12, extractVersion("0012_more.up.sql"))
}
