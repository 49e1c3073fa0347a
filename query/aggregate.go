package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/satishbabariya/dictquery/query/sqlgen"
	"github.com/satishbabariya/dictquery/record"
)

// ResultType selects the Go type AggregateAs converts the result to.
type ResultType int

const (
	// ResultDecimal returns *apd.Decimal.
	ResultDecimal ResultType = iota
	// ResultInt returns int64.
	ResultInt
	// ResultFloat returns float64.
	ResultFloat
	// ResultString returns string.
	ResultString
	// ResultTimestamp returns time.Time.
	ResultTimestamp
	// ResultBool returns bool.
	ResultBool
)

func (t ResultType) String() string {
	switch t {
	case ResultDecimal:
		return "decimal"
	case ResultInt:
		return "int"
	case ResultFloat:
		return "float"
	case ResultString:
		return "string"
	case ResultTimestamp:
		return "timestamp"
	case ResultBool:
		return "bool"
	default:
		return fmt.Sprintf("ResultType(%d)", int(t))
	}
}

// ParseResultType maps a result type name to its ResultType.
func ParseResultType(name string) (ResultType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "decimal", "number":
		return ResultDecimal, nil
	case "int", "integer":
		return ResultInt, nil
	case "float":
		return ResultFloat, nil
	case "string":
		return ResultString, nil
	case "timestamp", "time", "date":
		return ResultTimestamp, nil
	case "bool", "boolean":
		return ResultBool, nil
	}
	return 0, fmt.Errorf("%w: unknown result type %q", ErrInvalidArgument, name)
}

// Aggregate computes fn(expr) over the matching records as a decimal.
// A NULL result, such as SUM over no rows, returns nil.
func (q *Query) Aggregate(ctx context.Context, expr, fn string) (*apd.Decimal, error) {
	v, err := q.AggregateAs(ctx, expr, fn, ResultDecimal)
	if err != nil || v == nil {
		return nil, err
	}
	return v.(*apd.Decimal), nil
}

// AggregateAs computes fn(expr) over the matching records converted to rt.
// An empty expr is only valid for COUNT. A NULL result returns nil.
func (q *Query) AggregateAs(ctx context.Context, expr, fn string, rt ResultType) (result interface{}, err error) {
	const op = "aggregate"
	started := time.Now()
	var stmt sqlgen.Statement
	defer func() { q.engine.observe(ctx, op, q.table.Name, stmt.SQL, started, 1, err) }()

	fn = strings.ToUpper(strings.TrimSpace(fn))
	if fn == "" {
		return nil, q.dbError(op, stmt, ErrNoAggregateFunction)
	}
	if strings.TrimSpace(expr) == "" && fn != sqlgen.FuncCount {
		return nil, q.dbError(op, stmt, ErrNoExpression)
	}

	s, err := q.selectSpec(op)
	if err != nil {
		return nil, err
	}
	stmt, err = q.engine.gen.Aggregate(s, fn, expr)
	if err != nil {
		return nil, q.dbError(op, stmt, err)
	}
	v, err := q.scalar(ctx, op, stmt)
	if err != nil || v == nil {
		return nil, err
	}

	result, err = convertResult(v, rt)
	if err != nil {
		return nil, q.dbError(op, stmt, err)
	}
	return result, nil
}

func convertResult(v interface{}, rt ResultType) (interface{}, error) {
	switch rt {
	case ResultDecimal:
		return record.AsDecimal(v)
	case ResultInt:
		return record.AsInt64(v)
	case ResultFloat:
		return record.AsFloat64(v)
	case ResultString:
		return record.AsString(v), nil
	case ResultTimestamp:
		return record.AsTime(v)
	case ResultBool:
		return record.AsBool(v)
	}
	return nil, fmt.Errorf("%w: unknown result type %s", ErrInvalidArgument, rt)
}
