package trx_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dictquery/internal/adapters/database"
	"github.com/satishbabariya/dictquery/internal/adapters/database/sqlite"
	"github.com/satishbabariya/dictquery/runtime/trx"
)

func openDB(t *testing.T) *sqlite.SQLiteAdapter {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.NewSQLiteAdapter(database.Config{URL: filepath.Join(t.TempDir(), "trx.db")})
	require.NoError(t, err)
	require.NoError(t, db.Connect(ctx))
	t.Cleanup(func() { db.Disconnect(ctx) })
	_, err = db.Execute(ctx, "CREATE TABLE Test (Test_ID INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	return db
}

func count(t *testing.T, db *sqlite.SQLiteAdapter) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(context.Background(), "SELECT COUNT(*) FROM Test").Scan(&n))
	return n
}

func TestManager_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	m := trx.NewManager(db)

	tx, err := m.Begin(ctx, "Import", nil)
	require.NoError(t, err)
	assert.Equal(t, "Import", tx.Name())

	_, err = m.Begin(ctx, "Import", nil)
	assert.ErrorIs(t, err, trx.ErrTrxExists)

	runner, err := m.Runner("Import")
	require.NoError(t, err)
	_, err = runner.Execute(ctx, "INSERT INTO Test VALUES (1)")
	require.NoError(t, err)
	require.NoError(t, m.Rollback("Import"))
	assert.Zero(t, count(t, db))

	tx, err = m.Start(ctx, "Import", trx.NewTxOptions(trx.Default, false))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tx.Name(), "Import_"))
	_, err = tx.Execute(ctx, "INSERT INTO Test VALUES (2)")
	require.NoError(t, err)
	require.NoError(t, m.Commit(tx.Name()))
	assert.Equal(t, 1, count(t, db))

	assert.ErrorIs(t, m.Commit(tx.Name()), trx.ErrTrxNotFound)
	assert.Empty(t, m.Names())
}

func TestManager_Runner(t *testing.T) {
	db := openDB(t)
	m := trx.NewManager(db)

	runner, err := m.Runner("")
	require.NoError(t, err)
	assert.Same(t, db, runner)

	_, err = m.Runner("missing")
	assert.ErrorIs(t, err, trx.ErrTrxNotFound)

	_, err = m.Begin(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestManager_Run(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	m := trx.NewManager(db)

	err := m.Run(ctx, "ok", func(name string) error {
		r, err := m.Runner(name)
		require.NoError(t, err)
		_, err = r.Execute(ctx, "INSERT INTO Test VALUES (1)")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, db))

	boom := errors.New("boom")
	err = m.Run(ctx, "fail", func(name string) error {
		r, _ := m.Runner(name)
		_, err := r.Execute(ctx, "INSERT INTO Test VALUES (2)")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, count(t, db))

	assert.Panics(t, func() {
		_ = m.Run(ctx, "panic", func(string) error { panic("oops") })
	})
	assert.Empty(t, m.Names())
}

func TestManager_Close(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	m := trx.NewManager(db)

	tx, err := m.Begin(ctx, "A", nil)
	require.NoError(t, err)
	_, err = tx.Execute(ctx, "INSERT INTO Test VALUES (1)")
	require.NoError(t, err)

	require.NoError(t, m.Close())
	assert.Empty(t, m.Names())
	assert.Zero(t, count(t, db))
}

func TestIsolationLevel(t *testing.T) {
	assert.Equal(t, sql.LevelSerializable, trx.Serializable.ToSQLIsolationLevel())
	assert.Equal(t, sql.LevelDefault, trx.Default.ToSQLIsolationLevel())
	opts := trx.NewTxOptions(trx.ReadCommitted, true)
	assert.True(t, opts.ReadOnly)
}
