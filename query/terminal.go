package query

import (
	"context"
	"time"

	"github.com/satishbabariya/dictquery/query/executor"
	"github.com/satishbabariya/dictquery/query/sqlgen"
	"github.com/satishbabariya/dictquery/record"
)

// List returns every matching record.
func (q *Query) List(ctx context.Context) (recs []*record.Record, err error) {
	const op = "list"
	started := time.Now()
	var stmt sqlgen.Statement
	defer func() { q.engine.observe(ctx, op, q.table.Name, stmt.SQL, started, int64(len(recs)), err) }()

	s, err := q.selectSpec(op)
	if err != nil {
		return nil, err
	}
	recs, stmt, err = q.collect(ctx, op, s)
	return recs, err
}

// First returns the first matching record, or nil when nothing matches.
func (q *Query) First(ctx context.Context) (rec *record.Record, err error) {
	const op = "first"
	started := time.Now()
	var stmt sqlgen.Statement
	defer func() { q.engine.observe(ctx, op, q.table.Name, stmt.SQL, started, rowCount(rec), err) }()

	s, err := q.selectSpec(op)
	if err != nil {
		return nil, err
	}
	s.PageSize = 1

	recs, stmt, err := q.collect(ctx, op, s)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return recs[0], nil
}

// FirstOnly returns the only matching record, or nil when nothing matches.
// It fails with ErrTooManyRows as soon as a second record is seen.
func (q *Query) FirstOnly(ctx context.Context) (rec *record.Record, err error) {
	const op = "first only"
	started := time.Now()
	var stmt sqlgen.Statement
	defer func() { q.engine.observe(ctx, op, q.table.Name, stmt.SQL, started, rowCount(rec), err) }()

	s, err := q.selectSpec(op)
	if err != nil {
		return nil, err
	}
	s.PageSize = onlyLimit(q.pageSize)

	recs, stmt, err := q.collect(ctx, op, s)
	switch {
	case err != nil:
		return nil, err
	case len(recs) > 1:
		return nil, q.dbError(op, stmt, ErrTooManyRows)
	case len(recs) == 1:
		return recs[0], nil
	}
	return nil, nil
}

// FirstID returns the key of the first matching record, or record.NoID.
func (q *Query) FirstID(ctx context.Context) (id int64, err error) {
	const op = "first id"
	return q.firstID(ctx, op, 1)
}

// FirstIDOnly returns the key of the only matching record, or record.NoID.
// It fails with ErrTooManyRows when more than one record matches.
func (q *Query) FirstIDOnly(ctx context.Context) (int64, error) {
	const op = "first id only"
	return q.firstID(ctx, op, onlyLimit(q.pageSize))
}

func (q *Query) firstID(ctx context.Context, op string, limit int) (id int64, err error) {
	started := time.Now()
	var stmt sqlgen.Statement
	var n int64
	defer func() { q.engine.observe(ctx, op, q.table.Name, stmt.SQL, started, n, err) }()

	s, err := q.keySpec(op)
	if err != nil {
		return record.NoID, err
	}
	s.PageSize = limit

	ids, stmt, err := q.keys(ctx, op, s)
	n = int64(len(ids))
	switch {
	case err != nil:
		return record.NoID, err
	case len(ids) > 1 && limit > 1:
		return record.NoID, q.dbError(op, stmt, ErrTooManyRows)
	case len(ids) == 0:
		return record.NoID, nil
	}
	return ids[0], nil
}

// IDs returns the keys of the matching records in query order. Paging
// applies.
func (q *Query) IDs(ctx context.Context) (ids []int64, err error) {
	const op = "ids"
	started := time.Now()
	var stmt sqlgen.Statement
	defer func() { q.engine.observe(ctx, op, q.table.Name, stmt.SQL, started, int64(len(ids)), err) }()

	s, err := q.keySpec(op)
	if err != nil {
		return nil, err
	}
	ids, stmt, err = q.keys(ctx, op, s)
	return ids, err
}

// Count returns the number of matching records. Paging and ordering do
// not apply.
func (q *Query) Count(ctx context.Context) (n int, err error) {
	const op = "count"
	started := time.Now()
	var stmt sqlgen.Statement
	defer func() { q.engine.observe(ctx, op, q.table.Name, stmt.SQL, started, 1, err) }()

	s, err := q.selectSpec(op)
	if err != nil {
		return 0, err
	}
	stmt, err = q.engine.gen.Count(s)
	if err != nil {
		return 0, q.dbError(op, stmt, err)
	}
	v, err := q.scalar(ctx, op, stmt)
	if err != nil || v == nil {
		return 0, err
	}
	c, err := record.AsInt64(v)
	if err != nil {
		return 0, q.dbError(op, stmt, err)
	}
	return int(c), nil
}

// Match reports whether any record matches. Paging does not apply.
func (q *Query) Match(ctx context.Context) (found bool, err error) {
	const op = "match"
	started := time.Now()
	var stmt sqlgen.Statement
	defer func() { q.engine.observe(ctx, op, q.table.Name, stmt.SQL, started, boolCount(found), err) }()

	s, err := q.selectSpec(op)
	if err != nil {
		return false, err
	}
	s.Columns = []sqlgen.Column{{Name: "Found", Expr: "1"}}
	s.OrderBy = ""
	s.PageSize, s.Skip = 1, 0

	stmt, err = q.engine.gen.Select(s)
	if err != nil {
		return false, q.dbError(op, stmt, err)
	}
	rows, err := q.rows(ctx, op, stmt)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	found = rows.Next()
	if err := rows.Err(); err != nil {
		return false, q.dbError(op, stmt, err)
	}
	return found, nil
}

// SQL returns the record SELECT the query currently generates.
func (q *Query) SQL() (string, error) {
	const op = "sql"
	s, err := q.selectSpec(op)
	if err != nil {
		return "", err
	}
	stmt, err := q.engine.gen.Select(s)
	if err != nil {
		return "", q.dbError(op, stmt, err)
	}
	return stmt.SQL, nil
}

// collect runs s and materializes every row.
func (q *Query) collect(ctx context.Context, op string, s sqlgen.Select) ([]*record.Record, sqlgen.Statement, error) {
	stmt, err := q.engine.gen.Select(s)
	if err != nil {
		return nil, stmt, q.dbError(op, stmt, err)
	}
	rows, err := q.rows(ctx, op, stmt)
	if err != nil {
		return nil, stmt, err
	}
	defer rows.Close()

	resolver := q.resolver()
	recs := make([]*record.Record, 0)
	for rows.Next() {
		rec, err := q.materialize(rows, s.Columns, resolver)
		if err != nil {
			return nil, stmt, q.dbError(op, stmt, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, stmt, q.dbError(op, stmt, err)
	}
	return recs, stmt, nil
}

// keys runs s, which selects the key column only.
func (q *Query) keys(ctx context.Context, op string, s sqlgen.Select) ([]int64, sqlgen.Statement, error) {
	stmt, err := q.engine.gen.Select(s)
	if err != nil {
		return nil, stmt, q.dbError(op, stmt, err)
	}
	runner, err := q.engine.runner(q.trxName)
	if err != nil {
		return nil, stmt, q.dbError(op, stmt, err)
	}
	rows, err := q.engine.exec.All(ctx, runner, stmt)
	if err != nil {
		return nil, stmt, q.dbError(op, stmt, err)
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		id, err := record.AsInt64(row[0])
		if err != nil {
			return nil, stmt, q.dbError(op, stmt, err)
		}
		ids = append(ids, id)
	}
	return ids, stmt, nil
}

func (q *Query) rows(ctx context.Context, op string, stmt sqlgen.Statement) (*executor.Rows, error) {
	runner, err := q.engine.runner(q.trxName)
	if err != nil {
		return nil, q.dbError(op, stmt, err)
	}
	rows, err := q.engine.exec.Rows(ctx, runner, stmt)
	if err != nil {
		return nil, q.dbError(op, stmt, err)
	}
	return rows, nil
}

func (q *Query) scalar(ctx context.Context, op string, stmt sqlgen.Statement) (interface{}, error) {
	runner, err := q.engine.runner(q.trxName)
	if err != nil {
		return nil, q.dbError(op, stmt, err)
	}
	v, err := q.engine.exec.Scalar(ctx, runner, stmt)
	if err != nil {
		return nil, q.dbError(op, stmt, err)
	}
	return v, nil
}

// materialize builds a record from the current row. cols are the selected
// columns in select-list order.
func (q *Query) materialize(rows *executor.Rows, cols []sqlgen.Column, resolver record.Resolver) (*record.Record, error) {
	values, err := rows.Values()
	if err != nil {
		return nil, err
	}
	rec := record.New(q.table, resolver)
	for i, c := range cols {
		if i < len(values) {
			rec.Set(c.Name, values[i])
		}
	}
	return rec, nil
}

func (q *Query) dbError(op string, stmt sqlgen.Statement, err error) error {
	return &DBError{Op: op, Table: q.table.Name, SQL: stmt.SQL, Args: stmt.Args, Cause: err}
}

// onlyLimit is the row limit of the *Only terminals: two rows are enough
// to detect ambiguity.
func onlyLimit(pageSize int) int {
	if pageSize == 1 {
		return 1
	}
	return 2
}

func rowCount(rec *record.Record) int64 {
	if rec == nil {
		return 0
	}
	return 1
}

func boolCount(found bool) int64 {
	if found {
		return 1
	}
	return 0
}
