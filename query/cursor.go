package query

import (
	"context"
	"iter"
	"time"

	"github.com/satishbabariya/dictquery/query/executor"
	"github.com/satishbabariya/dictquery/query/sqlgen"
	"github.com/satishbabariya/dictquery/record"
)

// Cursor walks the records of an open result set. It holds a database
// connection until closed or exhausted.
type Cursor struct {
	q        *Query
	op       string
	stmt     sqlgen.Statement
	cols     []sqlgen.Column
	rows     *executor.Rows
	resolver record.Resolver

	rec *record.Record
	err error
}

// Scroll opens a cursor over the matching records. The caller must Close it.
func (q *Query) Scroll(ctx context.Context) (*Cursor, error) {
	return q.open(ctx, "scroll")
}

func (q *Query) open(ctx context.Context, op string) (cur *Cursor, err error) {
	started := time.Now()
	var stmt sqlgen.Statement
	defer func() { q.engine.observe(ctx, op, q.table.Name, stmt.SQL, started, -1, err) }()

	s, err := q.selectSpec(op)
	if err != nil {
		return nil, err
	}
	stmt, err = q.engine.gen.Select(s)
	if err != nil {
		return nil, q.dbError(op, stmt, err)
	}
	rows, err := q.rows(ctx, op, stmt)
	if err != nil {
		return nil, err
	}
	return &Cursor{
		q:        q,
		op:       op,
		stmt:     stmt,
		cols:     s.Columns,
		rows:     rows,
		resolver: q.resolver(),
	}, nil
}

// Next advances to the next record. It returns false at the end of the
// result set or on error, and releases the cursor in both cases.
func (c *Cursor) Next() bool {
	if c.rows == nil || c.err != nil {
		return false
	}
	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			c.err = c.q.dbError(c.op, c.stmt, err)
		}
		c.Close()
		return false
	}
	rec, err := c.q.materialize(c.rows, c.cols, c.resolver)
	if err != nil {
		c.err = c.q.dbError(c.op, c.stmt, err)
		c.Close()
		return false
	}
	c.rec = rec
	return true
}

// Record returns the current record.
func (c *Cursor) Record() *record.Record {
	return c.rec
}

// Err returns the error that stopped the cursor, if any.
func (c *Cursor) Err() error {
	return c.err
}

// Close releases the result set. It is safe to call more than once.
func (c *Cursor) Close() error {
	if c.rows == nil {
		return nil
	}
	err := c.rows.Close()
	c.rows = nil
	c.rec = nil
	return err
}

// Iterator is a forward-only record iterator. It releases its result set
// when the last record has been read.
type Iterator struct {
	cur     *Cursor
	next    *record.Record
	fetched bool
}

// Iterate opens an iterator over the matching records.
func (q *Query) Iterate(ctx context.Context) (*Iterator, error) {
	cur, err := q.open(ctx, "iterate")
	if err != nil {
		return nil, err
	}
	return &Iterator{cur: cur}, nil
}

// HasNext reports whether Next will return a record.
func (it *Iterator) HasNext() bool {
	if !it.fetched {
		it.next = nil
		if it.cur.Next() {
			it.next = it.cur.Record()
		}
		it.fetched = true
	}
	return it.next != nil
}

// Next returns the next record. Past the end it returns ErrNoMoreRecords,
// or the error that stopped the iteration.
func (it *Iterator) Next() (*record.Record, error) {
	if !it.HasNext() {
		if err := it.cur.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNoMoreRecords
	}
	rec := it.next
	it.next = nil
	it.fetched = false
	return rec, nil
}

// Close releases the iterator before it is exhausted.
func (it *Iterator) Close() error {
	return it.cur.Close()
}

// Stream returns the matching records as a sequence. The query runs when
// the sequence is first ranged over, and the result set is released when
// the loop ends, breaks or fails. The sequence can be consumed once.
func (q *Query) Stream(ctx context.Context) iter.Seq2[*record.Record, error] {
	consumed := false
	return func(yield func(*record.Record, error) bool) {
		if consumed {
			yield(nil, q.dbError("stream", sqlgen.Statement{}, ErrStreamConsumed))
			return
		}
		consumed = true

		cur, err := q.open(ctx, "stream")
		if err != nil {
			yield(nil, err)
			return
		}
		defer cur.Close()

		for cur.Next() {
			if !yield(cur.Record(), nil) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			yield(nil, err)
		}
	}
}
