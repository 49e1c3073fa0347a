package sqlgen

import (
	"fmt"
	"strings"
)

// Aggregate functions with dedicated handling.
const (
	FuncCount = "COUNT"
	FuncSum   = "SUM"
	FuncAvg   = "AVG"
	FuncMin   = "MIN"
	FuncMax   = "MAX"
)

// Count generates SELECT COUNT(*) over the rows of s. Ordering and
// pagination do not apply.
func (g *Generator) Count(s Select) (Statement, error) {
	return g.Aggregate(s, FuncCount, "*")
}

// Aggregate generates SELECT fn(expr) over the rows of s. An empty expr
// is only valid for COUNT and means COUNT(*). Ordering and pagination do
// not apply.
func (g *Generator) Aggregate(s Select, fn, expr string) (Statement, error) {
	if s.Table == "" {
		return Statement{}, fmt.Errorf("aggregate requires a table")
	}
	fn = strings.ToUpper(strings.TrimSpace(fn))
	if fn == "" {
		return Statement{}, fmt.Errorf("aggregate requires a function")
	}
	expr = strings.TrimSpace(expr)
	if expr == "" {
		if fn != FuncCount {
			return Statement{}, fmt.Errorf("aggregate %s requires an expression", fn)
		}
		expr = "*"
	}

	b := g.from(g.builder.Select(fmt.Sprintf("%s(%s)", fn, expr)), s)
	return toStatement(b)
}
