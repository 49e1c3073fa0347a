package query

import (
	"fmt"

	"github.com/satishbabariya/dictquery/dictionary"
	"github.com/satishbabariya/dictquery/query/sqlgen"
	"github.com/satishbabariya/dictquery/selection"
)

// Query is a mutable description of a record query on one table.
// Configuration methods return the query for chaining. Every terminal
// operation generates SQL from the current state, so a query can be
// adjusted and run again. A Query must not be used from several
// goroutines at once.
type Query struct {
	engine  *Engine
	table   *dictionary.Table
	trxName string

	where      string
	params     []interface{}
	orderBy    string
	pageSize   int
	skip       int
	onlyActive bool

	clientScoped bool
	clientIDs    []int64

	selectionID int64
	scope       *selection.Scope

	noVirtualColumn bool
	explicitVirtual bool
	virtualColumns  []string
	virtualFilters  []sqlgen.Predicate

	joins []sqlgen.Join
}

// Table returns the table the query is bound to.
func (q *Query) Table() *dictionary.Table {
	return q.table
}

// TrxName returns the transaction the query runs in.
func (q *Query) TrxName() string {
	return q.trxName
}

// SetParameters replaces the values bound to the where clause placeholders.
func (q *Query) SetParameters(params ...interface{}) *Query {
	q.params = params
	return q
}

// SetOrderBy sets the raw ORDER BY fragment. Empty means database order.
func (q *Query) SetOrderBy(orderBy string) *Query {
	q.orderBy = orderBy
	return q
}

// SetOnlyActiveRecords restricts the query to active records when the
// table has an IsActive column.
func (q *Query) SetOnlyActiveRecords(only bool) *Query {
	q.onlyActive = only
	return q
}

// SetClientID restricts the query to the session's clients when the table
// is client scoped.
func (q *Query) SetClientID() *Query {
	q.clientScoped = true
	return q
}

// SetOnlySelection restricts the query to the keys stored in T_Selection
// for instanceID. Zero clears the restriction.
func (q *Query) SetOnlySelection(instanceID int64) *Query {
	q.selectionID = instanceID
	return q
}

// SetOnlySelectionScope restricts the query to the keys of scope. Nil
// clears the restriction.
func (q *Query) SetOnlySelectionScope(scope *selection.Scope) *Query {
	q.scope = scope
	return q
}

// SetPageSize limits the number of records returned. Zero disables paging.
func (q *Query) SetPageSize(n int) *Query {
	q.pageSize = max(n, 0)
	return q
}

// SetRecordsToSkip drops the first n records.
func (q *Query) SetRecordsToSkip(n int) *Query {
	q.skip = max(n, 0)
	return q
}

// predicates assembles the WHERE parts in bind order: base fragment,
// active filter, client filter, selection, virtual column filters.
func (q *Query) predicates(op string) ([]sqlgen.Predicate, error) {
	var preds []sqlgen.Predicate
	if q.where != "" {
		preds = append(preds, sqlgen.Raw(q.where, q.params...))
	}

	if q.onlyActive {
		if col := q.table.ActiveColumn(); col != "" {
			preds = append(preds, sqlgen.Equal(q.table.Qualify(col), "Y"))
		}
	}

	if q.clientScoped {
		if col := q.table.ClientColumn(); col != "" {
			preds = append(preds, sqlgen.In(q.table.Qualify(col), int64s(q.clientIDs)))
		}
	}

	if q.selectionID > 0 || q.scope != nil {
		if q.table.KeyColumn == "" {
			return nil, configError(op, q.table.Name, fmt.Errorf("selection: %w", ErrNoKeyColumn))
		}
		key := q.table.Qualify(q.table.KeyColumn)
		if q.selectionID > 0 {
			preds = append(preds, selection.Subquery(key, q.selectionID))
		}
		if q.scope != nil {
			preds = append(preds, sqlgen.In(key, int64s(q.scope.Keys)))
		}
	}

	return append(preds, q.virtualFilters...), nil
}

// selectSpec snapshots the query into the record SELECT.
func (q *Query) selectSpec(op string) (sqlgen.Select, error) {
	preds, err := q.predicates(op)
	if err != nil {
		return sqlgen.Select{}, err
	}

	physical := q.table.PhysicalColumns()
	eager := q.eagerVirtualColumns()
	cols := make([]sqlgen.Column, 0, len(physical)+len(eager))
	for _, c := range physical {
		cols = append(cols, sqlgen.Column{Name: c.Name})
	}
	for _, c := range eager {
		cols = append(cols, sqlgen.Column{Name: c.Name, Expr: c.VirtualSQL})
	}

	return sqlgen.Select{
		Table:    q.table.Name,
		Columns:  cols,
		Joins:    q.joins,
		Where:    preds,
		OrderBy:  q.orderBy,
		PageSize: q.pageSize,
		Skip:     q.skip,
	}, nil
}

// keySpec is the record SELECT reduced to the key column.
func (q *Query) keySpec(op string) (sqlgen.Select, error) {
	if q.table.KeyColumn == "" {
		return sqlgen.Select{}, configError(op, q.table.Name, ErrNoKeyColumn)
	}
	s, err := q.selectSpec(op)
	if err != nil {
		return s, err
	}
	s.Columns = []sqlgen.Column{{Name: q.table.KeyColumn}}
	return s, nil
}

func int64s(values []int64) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
