package executor_test

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dictquery/internal/adapters/database"
	"github.com/satishbabariya/dictquery/internal/adapters/database/sqlite"
	"github.com/satishbabariya/dictquery/query/executor"
	"github.com/satishbabariya/dictquery/query/sqlgen"
)

func openDB(t *testing.T) *sqlite.SQLiteAdapter {
	t.Helper()
	ctx := context.Background()
	adapter, err := sqlite.NewSQLiteAdapter(database.Config{URL: filepath.Join(t.TempDir(), "exec.db")})
	require.NoError(t, err)
	require.NoError(t, adapter.Connect(ctx))
	t.Cleanup(func() { adapter.Disconnect(ctx) })

	_, err = adapter.Execute(ctx, "CREATE TABLE Test (Test_ID INTEGER PRIMARY KEY, Name TEXT, Qty NUMERIC)")
	require.NoError(t, err)
	_, err = adapter.Execute(ctx, "INSERT INTO Test VALUES (1, 'one', 1.5), (2, 'two', NULL), (3, x'74687265', 3)")
	require.NoError(t, err)
	return adapter
}

func TestExecutor_All(t *testing.T) {
	db := openDB(t)
	var logs bytes.Buffer
	exec := executor.New(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))

	rows, err := exec.All(context.Background(), db, sqlgen.Statement{SQL: "SELECT Test_ID, Name FROM Test WHERE Test_ID>? ORDER BY Test_ID", Args: []interface{}{1}})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []interface{}{int64(2), "two"}, rows[0])
	assert.Equal(t, []interface{}{int64(3), "thre"}, rows[1], "blobs are returned as strings")
	assert.Contains(t, logs.String(), "executing statement")
}

func TestExecutor_Rows(t *testing.T) {
	db := openDB(t)
	exec := executor.New(nil)

	rows, err := exec.Rows(context.Background(), db, sqlgen.Statement{SQL: "SELECT Test_ID, Qty FROM Test ORDER BY Test_ID"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Test_ID", "Qty"}, rows.Columns())

	require.True(t, rows.Next())
	values, err := rows.Values()
	require.NoError(t, err)
	assert.Equal(t, int64(1), values[0])
	assert.Equal(t, 1.5, values[1])

	require.NoError(t, rows.Close())
	require.NoError(t, rows.Close())
	assert.False(t, rows.Next())
}

func TestExecutor_Scalar(t *testing.T) {
	db := openDB(t)
	exec := executor.New(nil)
	ctx := context.Background()

	v, err := exec.Scalar(ctx, db, sqlgen.Statement{SQL: "SELECT COUNT(*) FROM Test"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	v, err = exec.Scalar(ctx, db, sqlgen.Statement{SQL: "SELECT Qty FROM Test WHERE Test_ID=2"})
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = exec.Scalar(ctx, db, sqlgen.Statement{SQL: "SELECT Qty FROM Test WHERE Test_ID=99"})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestExecutor_Errors(t *testing.T) {
	db := openDB(t)
	exec := executor.New(nil)
	ctx := context.Background()

	_, err := exec.All(ctx, db, sqlgen.Statement{SQL: "SELECT Missing FROM Test"})
	assert.Error(t, err)

	_, err = exec.Rows(ctx, nil, sqlgen.Statement{SQL: "SELECT 1"})
	assert.Error(t, err)

	res, err := exec.Exec(ctx, db, sqlgen.Statement{SQL: "DELETE FROM Test WHERE Test_ID=?", Args: []interface{}{1}})
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
