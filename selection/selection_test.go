package selection_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dictquery/internal/adapters/database"
	"github.com/satishbabariya/dictquery/internal/adapters/database/sqlite"
	"github.com/satishbabariya/dictquery/query/sqlgen"
	"github.com/satishbabariya/dictquery/selection"
)

func TestScope(t *testing.T) {
	s := selection.NewScope(7, 104, 102, 104)
	assert.Equal(t, []int64{102, 104}, s.Keys)
	assert.True(t, s.Contains(102))
	assert.False(t, s.Contains(103))

	var nilScope *selection.Scope
	assert.False(t, nilScope.Contains(1))
}

func TestSubquery(t *testing.T) {
	p := selection.Subquery("Test.Test_ID", 42)
	assert.Equal(t, "Test.Test_ID IN (SELECT T_Selection_ID FROM T_Selection WHERE AD_PInstance_ID=?)", p.SQL)
	assert.Equal(t, []interface{}{int64(42)}, p.Args)
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.NewSQLiteAdapter(database.Config{URL: filepath.Join(t.TempDir(), "sel.db")})
	require.NoError(t, err)
	require.NoError(t, db.Connect(ctx))
	defer db.Disconnect(ctx)
	_, err = db.Execute(ctx, "CREATE TABLE T_Selection (AD_PInstance_ID INTEGER NOT NULL, T_Selection_ID INTEGER NOT NULL, PRIMARY KEY (AD_PInstance_ID, T_Selection_ID))")
	require.NoError(t, err)

	store := selection.NewStore(sqlgen.SQLite, nil)
	require.NoError(t, store.Create(ctx, db, 1, []int64{104, 102, 102}))
	require.NoError(t, store.Create(ctx, db, 2, []int64{101}))

	keys, err := store.Keys(ctx, db, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{102, 104}, keys)

	require.NoError(t, store.Create(ctx, db, 1, []int64{103}))
	scope, err := store.Load(ctx, db, 1)
	require.NoError(t, err)
	assert.Equal(t, &selection.Scope{InstanceID: 1, Keys: []int64{103}}, scope)

	require.NoError(t, store.Delete(ctx, db, 1))
	keys, err = store.Keys(ctx, db, 1)
	require.NoError(t, err)
	assert.Empty(t, keys)

	keys, err = store.Keys(ctx, db, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{101}, keys)
}
