package query_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dictquery/dictionary"
	"github.com/satishbabariya/dictquery/internal/adapters/database"
	"github.com/satishbabariya/dictquery/internal/adapters/database/sqlite"
	"github.com/satishbabariya/dictquery/query"
	"github.com/satishbabariya/dictquery/query/sqlgen"
	"github.com/satishbabariya/dictquery/runtime/trx"
)

var fixtureTables = []dictionary.Table{
	{
		Name:      "Test",
		KeyColumn: "Test_ID",
		Columns: []dictionary.Column{
			{Name: "Test_ID", Type: dictionary.TypeID},
			{Name: "AD_Client_ID", Type: dictionary.TypeInteger},
			{Name: "IsActive", Type: dictionary.TypeYesNo},
			{Name: "Name", Type: dictionary.TypeString},
			{Name: "T_Integer", Type: dictionary.TypeInteger},
			{Name: "Updated", Type: dictionary.TypeDateTime},
			{Name: "TestVirtualQty", Type: dictionary.TypeAmount, VirtualSQL: "(SELECT 123.45)"},
			{Name: "UpperName", Type: dictionary.TypeString, VirtualSQL: "UPPER(Test.Name)"},
		},
	},
	{
		Name:      "C_BPartner",
		KeyColumn: "C_BPartner_ID",
		Columns: []dictionary.Column{
			{Name: "C_BPartner_ID", Type: dictionary.TypeID},
			{Name: "Name", Type: dictionary.TypeString},
		},
	},
	{
		Name:      "AD_User",
		KeyColumn: "AD_User_ID",
		Columns: []dictionary.Column{
			{Name: "AD_User_ID", Type: dictionary.TypeID},
			{Name: "Name", Type: dictionary.TypeString},
			{Name: "C_BPartner_ID", Type: dictionary.TypeSearch},
		},
	},
	{
		Name:      "C_Order",
		KeyColumn: "C_Order_ID",
		Columns: []dictionary.Column{
			{Name: "C_Order_ID", Type: dictionary.TypeID},
			{Name: "C_BPartner_ID", Type: dictionary.TypeSearch},
			{Name: "Bill_BPartner_ID", Type: dictionary.TypeTable, References: "C_BPartner"},
		},
	},
	{
		Name: "AD_Attachment_Note",
		Columns: []dictionary.Column{
			{Name: "Note", Type: dictionary.TypeText},
		},
	},
}

var fixtureDDL = []string{
	"CREATE TABLE Test (Test_ID INTEGER PRIMARY KEY, AD_Client_ID INTEGER NOT NULL, IsActive TEXT NOT NULL, Name TEXT, T_Integer INTEGER, Updated DATETIME)",
	"CREATE TABLE C_BPartner (C_BPartner_ID INTEGER PRIMARY KEY, Name TEXT)",
	"CREATE TABLE AD_User (AD_User_ID INTEGER PRIMARY KEY, Name TEXT, C_BPartner_ID INTEGER REFERENCES C_BPartner)",
	"CREATE TABLE C_Order (C_Order_ID INTEGER PRIMARY KEY, C_BPartner_ID INTEGER, Bill_BPartner_ID INTEGER)",
	"CREATE TABLE AD_Attachment_Note (Note TEXT)",
	"CREATE TABLE T_Selection (AD_PInstance_ID INTEGER NOT NULL, T_Selection_ID INTEGER NOT NULL, PRIMARY KEY (AD_PInstance_ID, T_Selection_ID))",
	"INSERT INTO C_BPartner VALUES (1, 'Joe Block'), (2, 'Seed Farm')",
	"INSERT INTO AD_User VALUES (10, 'Joe', 1), (11, 'Sue', 2), (12, 'Orphan', NULL)",
	"INSERT INTO AD_Attachment_Note VALUES ('first'), ('second')",
}

type fixture struct {
	db     *sqlite.SQLiteAdapter
	trx    *trx.Manager
	engine *query.Engine
}

// Test row 100+n has Updated = fixtureUpdated plus n days.
var fixtureUpdated = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

// newFixture opens a database with Test rows 101..130. Rows up to 125
// belong to client 11, the rest to System. Row 130 is inactive. Updated
// grows by one day per row.
func newFixture(t *testing.T, opts ...query.Option) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.NewSQLiteAdapter(database.Config{URL: filepath.Join(t.TempDir(), "query.db")})
	require.NoError(t, err)
	require.NoError(t, db.Connect(ctx))
	t.Cleanup(func() { db.Disconnect(ctx) })

	for _, ddl := range fixtureDDL {
		_, err := db.Execute(ctx, ddl)
		require.NoError(t, err, ddl)
	}
	for id := 101; id <= 130; id++ {
		client, active := 11, "Y"
		if id > 125 {
			client = 0
		}
		if id == 130 {
			active = "N"
		}
		_, err := db.Execute(ctx, "INSERT INTO Test VALUES (?, ?, ?, ?, ?, ?)",
			id, client, active, fmt.Sprintf("Test_%d", id), id-100,
			fixtureUpdated.AddDate(0, 0, id-100).Format("2006-01-02 15:04:05"))
		require.NoError(t, err)
	}

	registry := dictionary.NewRegistry()
	require.NoError(t, registry.Register(fixtureTables...))

	manager := trx.NewManager(db)
	t.Cleanup(func() { manager.Close() })

	return &fixture{
		db:     db,
		trx:    manager,
		engine: query.NewEngine(registry, manager, sqlgen.SQLite, opts...),
	}
}

// allTests is the query over every Test row in key order.
func (f *fixture) allTests(t *testing.T, ctx context.Context) *query.Query {
	t.Helper()
	q, err := f.engine.NewQuery(ctx, "Test", "Test_ID BETWEEN ? AND ?", "")
	require.NoError(t, err)
	return q.SetParameters(101, 130).SetOrderBy("Test_ID")
}
