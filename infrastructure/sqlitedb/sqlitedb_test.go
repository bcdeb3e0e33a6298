package sqlitedb

import (
	"context"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestDBIsMigrated(t *testing.T) {
	db, err := NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, StatusCheck(context.Background(), db))

	var versions []string
	require.NoError(t, db.Model(&schemaMigration{}).Order("version").Pluck("version", &versions).Error)
	assert.Equal(t, []string{"001_tasks.sql"}, versions)

	var tables int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'tasks'").Scan(&tables).Error)
	assert.Equal(t, int64(1), tables)
}

func TestMigrateIsIdempotentAndDetectsEdits(t *testing.T) {
	db, err := New(Options{Path: MemoryPath}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	log := slog.New(slog.DiscardHandler)
	fsys := fstest.MapFS{
		"m/001_t.sql": {Data: []byte("CREATE TABLE t (id INTEGER PRIMARY KEY);")},
	}
	ctx := context.Background()

	require.NoError(t, migrate(ctx, db, log, fsys, "m"))
	require.NoError(t, migrate(ctx, db, log, fsys, "m"))

	fsys["m/001_t.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE t (id INTEGER);")}
	err = migrate(ctx, db, log, fsys, "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on", dsn(Options{Path: MemoryPath}))
	assert.Equal(t, "file:x.db?mode=rwc&_foreign_keys=on&_busy_timeout=5000",
		dsn(Options{Path: "file:x.db?mode=rwc", BusyTimeout: 5e9}))
}
