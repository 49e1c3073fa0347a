package sqlgen

import (
	"strings"
)

// Predicate is a raw WHERE fragment with its bind arguments.
type Predicate struct {
	SQL  string
	Args []interface{}
}

// Raw creates a predicate from a fragment and its arguments.
func Raw(sql string, args ...interface{}) Predicate {
	return Predicate{SQL: sql, Args: args}
}

// Equal creates "column=?".
func Equal(column string, value interface{}) Predicate {
	return Predicate{SQL: column + "=?", Args: []interface{}{value}}
}

// In creates "column IN (?,...)". An empty value set matches nothing.
func In(column string, values []interface{}) Predicate {
	if len(values) == 0 {
		return Predicate{SQL: "1=0"}
	}
	if len(values) == 1 {
		return Equal(column, values[0])
	}
	placeholders := strings.Repeat("?,", len(values))
	return Predicate{
		SQL:  column + " IN (" + placeholders[:len(placeholders)-1] + ")",
		Args: values,
	}
}

// combine AND-joins predicates. A single predicate is kept verbatim,
// several are each parenthesized. Empty fragments are dropped.
func combine(preds []Predicate) (string, []interface{}) {
	parts := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if strings.TrimSpace(p.SQL) != "" {
			parts = append(parts, p)
		}
	}

	switch len(parts) {
	case 0:
		return "", nil
	case 1:
		return parts[0].SQL, parts[0].Args
	}

	var sb strings.Builder
	var args []interface{}
	for i, p := range parts {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		sb.WriteString("(")
		sb.WriteString(p.SQL)
		sb.WriteString(")")
		args = append(args, p.Args...)
	}
	return sb.String(), args
}

// Parenthesize wraps expr in parentheses unless it is already one
// parenthesized group.
func Parenthesize(expr string) string {
	expr = strings.TrimSpace(expr)
	if isWrapped(expr) {
		return expr
	}
	return "(" + expr + ")"
}

func isWrapped(expr string) bool {
	if len(expr) < 2 || expr[0] != '(' || expr[len(expr)-1] != ')' {
		return false
	}
	depth := 0
	var quote byte
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(expr)-1 {
				return false
			}
		}
	}
	return depth == 0
}
