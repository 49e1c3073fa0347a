// Package sqlgen generates SQL for different database providers.
package sqlgen

import (
	"fmt"
	"math"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Dialect identifies the SQL flavor of a database provider.
type Dialect string

const (
	Postgres Dialect = "postgresql"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

// ParseDialect maps a provider name to its dialect.
func ParseDialect(provider string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "postgresql", "postgres":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}
}

// Statement is a SQL statement with its bind arguments.
type Statement struct {
	SQL  string
	Args []interface{}
}

// Column is one entry of a select list. A non-empty Expr makes it a
// computed column rendered as "(Expr) AS Name".
type Column struct {
	Name string
	Expr string
}

// Select is the immutable description of one record query.
type Select struct {
	Table   string
	Columns []Column
	Joins   []Join
	Where   []Predicate
	// OrderBy is a raw ORDER BY fragment without the keyword.
	OrderBy string
	// PageSize limits the rows returned, 0 means no limit.
	PageSize int
	// Skip is the number of leading rows dropped.
	Skip int
}

// Generator generates SQL for a specific provider
type Generator struct {
	dialect Dialect
	builder sq.StatementBuilderType
}

// NewGenerator creates a new SQL generator for the given dialect
func NewGenerator(dialect Dialect) *Generator {
	var format sq.PlaceholderFormat = sq.Question
	if dialect == Postgres {
		format = sq.Dollar
	}
	return &Generator{
		dialect: dialect,
		builder: sq.StatementBuilder.PlaceholderFormat(format),
	}
}

// Dialect returns the generator's dialect.
func (g *Generator) Dialect() Dialect {
	return g.dialect
}

// Builder returns a squirrel statement builder using the dialect's placeholders.
func (g *Generator) Builder() sq.StatementBuilderType {
	return g.builder
}

// Select generates the record query for s:
//
//	SELECT <cols> FROM <T> [INNER JOIN ...] [WHERE ...] [ORDER BY ...] [LIMIT/OFFSET]
func (g *Generator) Select(s Select) (Statement, error) {
	if s.Table == "" {
		return Statement{}, fmt.Errorf("select requires a table")
	}
	if len(s.Columns) == 0 {
		return Statement{}, fmt.Errorf("select on %s requires at least one column", s.Table)
	}
	if s.PageSize < 0 || s.Skip < 0 {
		return Statement{}, fmt.Errorf("invalid pagination: page size %d, skip %d", s.PageSize, s.Skip)
	}

	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = selectColumn(s.Table, c)
	}

	b := g.from(g.builder.Select(cols...), s)
	if ob := strings.TrimSpace(s.OrderBy); ob != "" {
		b = b.OrderBy(ob)
	}
	b = g.paginate(b, s.PageSize, s.Skip)
	return toStatement(b)
}

// Lookup generates the single-value fetch of expr for the row of table
// whose key equals the bound id.
func (g *Generator) Lookup(table, keyColumn, expr string, id int64) (Statement, error) {
	if table == "" || keyColumn == "" || strings.TrimSpace(expr) == "" {
		return Statement{}, fmt.Errorf("lookup requires table, key column and expression")
	}
	b := g.builder.Select(Parenthesize(expr)).
		From(table).
		Where(table+"."+keyColumn+"=?", id)
	return toStatement(b)
}

// from applies FROM, joins and WHERE shared by every statement kind.
func (g *Generator) from(b sq.SelectBuilder, s Select) sq.SelectBuilder {
	b = b.From(s.Table)
	for _, j := range s.Joins {
		b = b.JoinClause(j.clause())
	}
	if where, args := combine(s.Where); where != "" {
		b = b.Where(where, args...)
	}
	return b
}

// paginate renders LIMIT/OFFSET. Offset without limit needs a dialect
// specific form on engines that do not accept a bare OFFSET.
func (g *Generator) paginate(b sq.SelectBuilder, pageSize, skip int) sq.SelectBuilder {
	switch {
	case pageSize > 0:
		b = b.Limit(uint64(pageSize))
		if skip > 0 {
			b = b.Offset(uint64(skip))
		}
	case skip > 0:
		switch g.dialect {
		case SQLite:
			b = b.Suffix(fmt.Sprintf("LIMIT -1 OFFSET %d", skip))
		case MySQL:
			b = b.Limit(math.MaxUint64).Offset(uint64(skip))
		default:
			b = b.Offset(uint64(skip))
		}
	}
	return b
}

func selectColumn(table string, c Column) string {
	if strings.TrimSpace(c.Expr) != "" {
		return Parenthesize(c.Expr) + " AS " + c.Name
	}
	return table + "." + c.Name
}

func toStatement(b sq.Sqlizer) (Statement, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return Statement{}, fmt.Errorf("failed to build statement: %w", err)
	}
	if args == nil {
		args = []interface{}{}
	}
	return Statement{SQL: sql, Args: args}, nil
}
