package client_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dictquery/internal/adapters/database"
	"github.com/satishbabariya/dictquery/internal/adapters/telemetry"
	"github.com/satishbabariya/dictquery/query/sqlgen"
	"github.com/satishbabariya/dictquery/runtime/client"
)

const dict = `version: "1.0"
tables:
  - name: C_BPartner
    key: C_BPartner_ID
    columns:
      - name: C_BPartner_ID
        type: id
      - name: Name
        type: string
      - name: IsActive
        type: yesno
      - name: NameLength
        type: integer
        virtual: "LENGTH(C_BPartner.Name)"
`

func newClient(t *testing.T, opts ...client.Option) *client.Client {
	t.Helper()
	ctx := context.Background()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dictionary.yaml", []byte(dict), 0o644))

	opts = append([]client.Option{
		client.WithDatabase(database.Config{Provider: "sqlite", URL: filepath.Join(t.TempDir(), "client.db")}),
		client.WithDictionaryFile(fs, "/dictionary.yaml"),
	}, opts...)
	c, err := client.New(opts...)
	require.NoError(t, err)
	require.NoError(t, c.Connect(ctx))
	t.Cleanup(func() { c.Close(ctx) })

	for _, stmt := range []string{
		"CREATE TABLE C_BPartner (C_BPartner_ID INTEGER PRIMARY KEY, Name TEXT, IsActive TEXT)",
		"CREATE TABLE T_Selection (AD_PInstance_ID INTEGER, T_Selection_ID INTEGER)",
		"INSERT INTO C_BPartner VALUES (1, 'Joe Block', 'Y'), (2, 'Seed Farm', 'Y'), (3, 'Old', 'N')",
	} {
		_, err := c.Adapter().Execute(ctx, stmt)
		require.NoError(t, err)
	}
	return c
}

func TestClient_Query(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	assert.Equal(t, []string{"C_BPartner"}, c.Registry().Tables())
	assert.Equal(t, sqlgen.SQLite, c.Engine().Dialect())

	q, err := c.Query(ctx, "C_BPartner", "", "")
	require.NoError(t, err)
	recs, err := q.SetOnlyActiveRecords(true).SetOrderBy("C_BPartner_ID").List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	n, err := recs[0].Int(ctx, "NameLength")
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)

	require.NoError(t, c.Selections().Create(ctx, c.Adapter(), 7, []int64{2, 3}))
	q, err = c.Query(ctx, "C_BPartner", "", "")
	require.NoError(t, err)
	ids, err := q.SetOnlySelection(7).SetOrderBy("C_BPartner_ID").IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids)
}

func TestClient_Run(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	err := c.Run(ctx, "Import", func(trxName string) error {
		r, err := c.Transactions().Runner(trxName)
		if err != nil {
			return err
		}
		if _, err := r.Execute(ctx, "INSERT INTO C_BPartner VALUES (4, 'New', 'Y')"); err != nil {
			return err
		}
		q, err := c.Query(ctx, "C_BPartner", "", trxName)
		if err != nil {
			return err
		}
		n, err := q.Count(ctx)
		assert.Equal(t, 4, n)
		return err
	})
	require.NoError(t, err)

	q, err := c.Query(ctx, "C_BPartner", "", "")
	require.NoError(t, err)
	n, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Empty(t, c.Transactions().Names())
}

func TestClient_Middleware(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	var mu sync.Mutex
	var statements []string
	var failures int
	c.Use(client.TimingMiddleware(func(query string, d time.Duration) {
		mu.Lock()
		statements = append(statements, query)
		mu.Unlock()
	}))
	c.Use(client.ErrorMiddleware(func(query string, err error) {
		failures++
	}))

	q, err := c.Query(ctx, "C_BPartner", "C_BPartner_ID=?", "")
	require.NoError(t, err)
	_, err = q.SetParameters(1).First(ctx)
	require.NoError(t, err)

	bad, err := c.Query(ctx, "C_BPartner", "Missing=1", "")
	require.NoError(t, err)
	_, err = bad.Count(ctx)
	require.Error(t, err)

	require.Len(t, statements, 2)
	assert.Contains(t, statements[0], "FROM C_BPartner WHERE C_BPartner_ID=? LIMIT 1")
	assert.Equal(t, 1, failures)
}

func TestClient_Telemetry(t *testing.T) {
	ctx := context.Background()
	metrics := telemetry.NewMetricsTelemetry(nil)
	c := newClient(t, client.WithTelemetry(metrics))

	q, err := c.Query(ctx, "C_BPartner", "", "")
	require.NoError(t, err)
	_, err = q.Count(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), metrics.Connections("connect"))
	assert.Equal(t, int64(1), metrics.Snapshot()["C_BPartner.count"].Success)

	require.NoError(t, c.Close(ctx))
	require.NoError(t, c.Close(ctx))
	assert.Equal(t, int64(1), metrics.Connections("disconnect"))
}

func TestNew_Errors(t *testing.T) {
	_, err := client.New(client.WithDatabase(database.Config{Provider: "oracle", URL: "x"}))
	assert.ErrorContains(t, err, "unsupported provider")

	_, err = client.New(
		client.WithDatabase(database.Config{Provider: "sqlite", URL: ":memory:"}),
		client.WithDictionaryFile(afero.NewMemMapFs(), "/missing.yaml"),
	)
	assert.Error(t, err)
}

func TestNewAdapter(t *testing.T) {
	for _, tc := range []struct {
		provider, url string
		dialect       sqlgen.Dialect
	}{
		{"postgresql", "postgres://localhost/erp", sqlgen.Postgres},
		{"mysql", "mysql://user:pw@localhost:3306/erp", sqlgen.MySQL},
		{"sqlite3", "file:erp.db", sqlgen.SQLite},
	} {
		a, err := client.NewAdapter(database.Config{Provider: tc.provider, URL: tc.url})
		require.NoError(t, err, tc.provider)
		assert.Equal(t, tc.dialect, a.Dialect())
	}
}
