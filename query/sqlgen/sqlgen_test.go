package sqlgen_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dictquery/query/sqlgen"
)

var testColumns = []sqlgen.Column{{Name: "Test_ID"}, {Name: "Name"}}

func TestSelect_Golden(t *testing.T) {
	tests := []struct {
		name     string
		dialect  sqlgen.Dialect
		sel      sqlgen.Select
		wantArgs []interface{}
	}{
		{
			name:    "paging_postgres",
			dialect: sqlgen.Postgres,
			sel: sqlgen.Select{
				Table:    "Test",
				Columns:  testColumns,
				Where:    []sqlgen.Predicate{sqlgen.Raw("Test_ID BETWEEN ? AND ?", 101, 130)},
				OrderBy:  "Test_ID",
				PageSize: 10,
				Skip:     10,
			},
			wantArgs: []interface{}{101, 130},
		},
		{
			name:    "skip_only_postgres",
			dialect: sqlgen.Postgres,
			sel:     sqlgen.Select{Table: "Test", Columns: testColumns, OrderBy: "Test_ID", Skip: 5},
		},
		{
			name:    "skip_only_sqlite",
			dialect: sqlgen.SQLite,
			sel:     sqlgen.Select{Table: "Test", Columns: testColumns, OrderBy: "Test_ID", Skip: 5},
		},
		{
			name:    "skip_only_mysql",
			dialect: sqlgen.MySQL,
			sel:     sqlgen.Select{Table: "Test", Columns: testColumns, OrderBy: "Test_ID", Skip: 5},
		},
		{
			name:    "direct_join",
			dialect: sqlgen.Postgres,
			sel: sqlgen.Select{
				Table:   "AD_User",
				Columns: []sqlgen.Column{{Name: "AD_User_ID"}, {Name: "Name"}},
				Joins:   []sqlgen.Join{sqlgen.KeyJoin("AD_User", "C_BPartner_ID", "C_BPartner", "C_BPartner_ID")},
				Where: []sqlgen.Predicate{
					sqlgen.Raw("C_BPartner.Name=?", "Joe Block"),
					sqlgen.Equal("AD_User.IsActive", "Y"),
				},
			},
			wantArgs: []interface{}{"Joe Block", "Y"},
		},
		{
			name:    "eager_virtual_sqlite",
			dialect: sqlgen.SQLite,
			sel: sqlgen.Select{
				Table:   "Test",
				Columns: []sqlgen.Column{{Name: "Test_ID"}, {Name: "TestVirtualQty", Expr: "(SELECT 123.45)"}, {Name: "Label", Expr: "Name || '!'"}},
				Where:   []sqlgen.Predicate{sqlgen.Equal("Test.Test_ID", int64(1))},
			},
			wantArgs: []interface{}{int64(1)},
		},
		{
			name:    "access_rules_mysql",
			dialect: sqlgen.MySQL,
			sel: sqlgen.Select{
				Table:   "Test",
				Columns: testColumns,
				Where: []sqlgen.Predicate{
					sqlgen.Raw("1=1"),
					sqlgen.Equal("Test.IsActive", "Y"),
					sqlgen.In("Test.AD_Client_ID", []interface{}{0, 11}),
					sqlgen.Raw("Test.Test_ID IN (SELECT T_Selection_ID FROM T_Selection WHERE AD_PInstance_ID=?)", 42),
				},
				OrderBy:  "Name DESC",
				PageSize: 3,
			},
			wantArgs: []interface{}{"Y", 0, 11, 42},
		},
	}

	g := goldie.New(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := sqlgen.NewGenerator(tt.dialect).Select(tt.sel)
			require.NoError(t, err)
			g.Assert(t, tt.name, []byte(stmt.SQL))
			if tt.wantArgs == nil {
				assert.Empty(t, stmt.Args)
			} else {
				assert.Equal(t, tt.wantArgs, stmt.Args)
			}
		})
	}
}

func TestSelect_SinglePredicateIsVerbatim(t *testing.T) {
	stmt, err := sqlgen.NewGenerator(sqlgen.SQLite).Select(sqlgen.Select{
		Table:   "Test",
		Columns: testColumns,
		Where:   []sqlgen.Predicate{sqlgen.Raw(""), sqlgen.Raw("1=1"), sqlgen.Raw("  ")},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT Test.Test_ID, Test.Name FROM Test WHERE 1=1", stmt.SQL)

	stmt, err = sqlgen.NewGenerator(sqlgen.SQLite).Select(sqlgen.Select{Table: "Test", Columns: testColumns})
	require.NoError(t, err)
	assert.Equal(t, "SELECT Test.Test_ID, Test.Name FROM Test", stmt.SQL)
}

func TestSelect_Errors(t *testing.T) {
	gen := sqlgen.NewGenerator(sqlgen.Postgres)

	_, err := gen.Select(sqlgen.Select{Columns: testColumns})
	assert.Error(t, err)

	_, err = gen.Select(sqlgen.Select{Table: "Test"})
	assert.Error(t, err)

	_, err = gen.Select(sqlgen.Select{Table: "Test", Columns: testColumns, PageSize: -1})
	assert.Error(t, err)
}

func TestCountAndAggregate(t *testing.T) {
	gen := sqlgen.NewGenerator(sqlgen.Postgres)
	sel := sqlgen.Select{
		Table:    "Test",
		Columns:  testColumns,
		Where:    []sqlgen.Predicate{sqlgen.Raw("Name LIKE ?", "T%"), sqlgen.In("Test.AD_Client_ID", []interface{}{11})},
		OrderBy:  "Name",
		PageSize: 10,
		Skip:     20,
	}

	stmt, err := gen.Count(sel)
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM Test WHERE (Name LIKE $1) AND (Test.AD_Client_ID=$2)", stmt.SQL)
	assert.Equal(t, []interface{}{"T%", 11}, stmt.Args)

	stmt, err = gen.Aggregate(sel, "sum", "T_Integer")
	require.NoError(t, err)
	assert.Equal(t, "SELECT SUM(T_Integer) FROM Test WHERE (Name LIKE $1) AND (Test.AD_Client_ID=$2)", stmt.SQL)

	stmt, err = gen.Aggregate(sel, "count", "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM Test WHERE (Name LIKE $1) AND (Test.AD_Client_ID=$2)", stmt.SQL)

	_, err = gen.Aggregate(sel, "", "T_Integer")
	assert.Error(t, err)

	_, err = gen.Aggregate(sel, "MAX", " ")
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	stmt, err := sqlgen.NewGenerator(sqlgen.Postgres).Lookup("Test", "Test_ID", "SELECT 123.45", 7)
	require.NoError(t, err)
	assert.Equal(t, "SELECT (SELECT 123.45) FROM Test WHERE Test.Test_ID=$1", stmt.SQL)
	assert.Equal(t, []interface{}{int64(7)}, stmt.Args)

	_, err = sqlgen.NewGenerator(sqlgen.Postgres).Lookup("Test", "", "1", 7)
	assert.Error(t, err)
}

func TestIn(t *testing.T) {
	assert.Equal(t, sqlgen.Predicate{SQL: "1=0"}, sqlgen.In("T.ID", nil))
	p := sqlgen.In("T.ID", []interface{}{1, 2, 3})
	assert.Equal(t, "T.ID IN (?,?,?)", p.SQL)
	assert.Len(t, p.Args, 3)
}

func TestParenthesize(t *testing.T) {
	tests := map[string]string{
		"(SELECT 1)":     "(SELECT 1)",
		"SELECT 1":       "(SELECT 1)",
		"(a) + (b)":      "((a) + (b))",
		"  (x)  ":        "(x)",
		"('(' || Name)":  "('(' || Name)",
		"(Name) || ')'":  "((Name) || ')')",
		"COALESCE(a, b)": "(COALESCE(a, b))",
	}
	for in, want := range tests {
		assert.Equal(t, want, sqlgen.Parenthesize(in), in)
	}
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]sqlgen.Dialect{
		"postgres":   sqlgen.Postgres,
		"PostgreSQL": sqlgen.Postgres,
		"mysql":      sqlgen.MySQL,
		"sqlite3":    sqlgen.SQLite,
	} {
		got, err := sqlgen.ParseDialect(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := sqlgen.ParseDialect("mongodb")
	assert.Error(t, err)
}

func TestSelect_Placeholders(t *testing.T) {
	sel := sqlgen.Select{
		Table:   "Test",
		Columns: testColumns,
		Where: []sqlgen.Predicate{
			sqlgen.Raw("Name=?", "x"),
			sqlgen.Equal("Test.IsActive", "Y"),
			sqlgen.In("Test.AD_Client_ID", []interface{}{0, 11}),
		},
	}

	for dialect, want := range map[sqlgen.Dialect]string{
		sqlgen.Postgres: "WHERE (Name=$1) AND (Test.IsActive=$2) AND (Test.AD_Client_ID IN ($3,$4))",
		sqlgen.MySQL:    "WHERE (Name=?) AND (Test.IsActive=?) AND (Test.AD_Client_ID IN (?,?))",
		sqlgen.SQLite:   "WHERE (Name=?) AND (Test.IsActive=?) AND (Test.AD_Client_ID IN (?,?))",
	} {
		stmt, err := sqlgen.NewGenerator(dialect).Select(sel)
		require.NoError(t, err, dialect)
		assert.Contains(t, stmt.SQL, want, dialect)
		assert.Equal(t, []interface{}{"x", "Y", 0, 11}, stmt.Args, dialect)
	}
}
