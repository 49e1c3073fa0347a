package commands

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// filterLexer tokenizes virtual column filters such as
// `NameLength >= 5` or `UpperName LIKE "JOE%"`.
var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Operator", Pattern: `<>|!=|<=|>=|=|<|>`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Filter is one parsed --filter expression.
type Filter struct {
	Column   string       `@Ident`
	Operator string       `@(Operator | "LIKE")`
	Value    *FilterValue `@@`
}

// FilterValue is the right hand side of a filter. Bare words read as
// strings.
type FilterValue struct {
	String *string `  @String`
	Number *string `| @Number`
	Word   *string `| @Ident`
}

// Bind returns the value as a bind argument.
func (v *FilterValue) Bind() interface{} {
	switch {
	case v.String != nil:
		return *v.String
	case v.Number != nil:
		return parseLiteral(*v.Number)
	default:
		return *v.Word
	}
}

var filterParser = participle.MustBuild[Filter](
	participle.Lexer(filterLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.CaseInsensitive("Ident"),
)

// ParseFilter parses a filter expression.
func ParseFilter(expr string) (*Filter, error) {
	f, err := filterParser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
	}
	f.Operator = strings.ToUpper(f.Operator)
	return f, nil
}
