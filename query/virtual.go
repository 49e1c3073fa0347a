package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/satishbabariya/dictquery/dictionary"
	"github.com/satishbabariya/dictquery/query/sqlgen"
	"github.com/satishbabariya/dictquery/record"
)

var filterOperators = map[string]bool{
	"=": true, "<>": true, "!=": true,
	"<": true, "<=": true, ">": true, ">=": true,
	"LIKE": true,
}

// SetNoVirtualColumn selects the virtual column policy. True, the default,
// loads virtual columns lazily on first read. False selects every virtual
// column with the record.
func (q *Query) SetNoVirtualColumn(noVirtualColumn bool) *Query {
	q.noVirtualColumn = noVirtualColumn
	return q
}

// SetVirtualColumns selects exactly the named virtual columns with the
// record and leaves the others lazy. Names that are not virtual columns of
// the table are ignored. Calling it without names restores the policy set
// by SetNoVirtualColumn.
func (q *Query) SetVirtualColumns(names ...string) *Query {
	q.explicitVirtual = len(names) > 0
	q.virtualColumns = q.virtualColumns[:0]
	for _, name := range names {
		col, ok := q.table.Column(name)
		if !ok || !col.IsVirtual() {
			q.engine.logger.Warn("ignoring unknown virtual column", "table", q.table.Name, "column", name)
			continue
		}
		q.virtualColumns = append(q.virtualColumns, col.Name)
	}
	return q
}

// AddVirtualColumnFilter restricts the query with "(<expression>) op ?"
// on a virtual column.
func (q *Query) AddVirtualColumnFilter(column, operator string, value interface{}) error {
	col, ok := q.table.Column(column)
	if !ok || !col.IsVirtual() {
		return configError("virtual column filter", q.table.Name, fmt.Errorf("%s is not a virtual column", column))
	}
	op := strings.ToUpper(strings.TrimSpace(operator))
	if !filterOperators[op] {
		return configError("virtual column filter", q.table.Name, fmt.Errorf("unsupported operator %q", operator))
	}
	q.virtualFilters = append(q.virtualFilters,
		sqlgen.Raw(sqlgen.Parenthesize(col.VirtualSQL)+" "+op+" ?", value))
	return nil
}

// eagerVirtualColumns returns the virtual columns selected with the record.
func (q *Query) eagerVirtualColumns() []dictionary.Column {
	if q.explicitVirtual {
		cols := make([]dictionary.Column, 0, len(q.virtualColumns))
		for _, name := range q.virtualColumns {
			if col, ok := q.table.Column(name); ok {
				cols = append(cols, *col)
			}
		}
		return cols
	}
	if q.noVirtualColumn {
		return nil
	}
	return q.table.VirtualColumns()
}

// lazyResolver fetches unresolved virtual columns of records produced by
// one query, in that query's transaction.
type lazyResolver struct {
	engine  *Engine
	table   *dictionary.Table
	trxName string
}

func (q *Query) resolver() record.Resolver {
	return &lazyResolver{engine: q.engine, table: q.table, trxName: q.trxName}
}

// ResolveVirtual implements record.Resolver.
func (r *lazyResolver) ResolveVirtual(ctx context.Context, rec *record.Record, column string) (interface{}, error) {
	const op = "resolve virtual column"

	col, ok := r.table.Column(column)
	if !ok || !col.IsVirtual() {
		return nil, configError(op, r.table.Name, fmt.Errorf("%s is not a virtual column", column))
	}
	if r.table.KeyColumn == "" {
		return nil, configError(op, r.table.Name, ErrNoKeyColumn)
	}
	id := rec.ID()
	if id == record.NoID {
		return nil, configError(op, r.table.Name, fmt.Errorf("record has no key value"))
	}

	stmt, err := r.engine.gen.Lookup(r.table.Name, r.table.KeyColumn, col.VirtualSQL, id)
	if err != nil {
		return nil, &DBError{Op: op, Table: r.table.Name, Cause: err}
	}
	runner, err := r.engine.runner(r.trxName)
	if err != nil {
		return nil, &DBError{Op: op, Table: r.table.Name, SQL: stmt.SQL, Args: stmt.Args, Cause: err}
	}
	v, err := r.engine.exec.Scalar(ctx, runner, stmt)
	if err != nil {
		return nil, &DBError{Op: op, Table: r.table.Name, SQL: stmt.SQL, Args: stmt.Args, Cause: err}
	}
	return v, nil
}
