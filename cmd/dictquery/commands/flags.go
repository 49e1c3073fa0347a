package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dictquery/query"
	"github.com/satishbabariya/dictquery/runtime/client"
)

// queryFlags are the query options shared by the record commands.
type queryFlags struct {
	where       string
	params      []string
	orderBy     string
	pageSize    int
	skip        int
	onlyActive  bool
	clientScope bool
	selection   int64
	joins       []string
	virtual     []string
	allVirtual  bool
	filters     []string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.where, "where", "w", "", "SQL WHERE clause, ? marks parameters")
	flags.StringArrayVarP(&f.params, "param", "p", nil, "Parameter value, repeat in order")
	flags.StringVarP(&f.orderBy, "order-by", "o", "", "ORDER BY clause")
	flags.IntVar(&f.pageSize, "page-size", 0, "Maximum number of records")
	flags.IntVar(&f.skip, "skip", 0, "Number of records to skip")
	flags.BoolVar(&f.onlyActive, "active", false, "Only active records")
	flags.BoolVar(&f.clientScope, "client-scope", false, "Only records of the session clients")
	flags.Int64Var(&f.selection, "selection", 0, "Only records in this T_Selection instance")
	flags.StringArrayVarP(&f.joins, "join", "j", nil, "Inner join a referenced table")
	flags.StringSliceVar(&f.virtual, "virtual", nil, "Virtual columns to load with the records")
	flags.BoolVar(&f.allVirtual, "all-virtual", false, "Load every virtual column with the records")
	flags.StringArrayVarP(&f.filters, "filter", "f", nil, `Virtual column filter, e.g. "NameLength >= 5"`)
}

// build creates the query the flags describe.
func (f *queryFlags) build(ctx context.Context, c *client.Client, table string) (*query.Query, error) {
	q, err := c.Query(ctx, table, f.where, "")
	if err != nil {
		return nil, err
	}

	params := make([]interface{}, len(f.params))
	for i, p := range f.params {
		params[i] = parseLiteral(p)
	}
	q.SetParameters(params...).
		SetOrderBy(f.orderBy).
		SetPageSize(f.pageSize).
		SetRecordsToSkip(f.skip).
		SetOnlyActiveRecords(f.onlyActive).
		SetNoVirtualColumn(!f.allVirtual).
		SetVirtualColumns(f.virtual...)
	if f.clientScope {
		q.SetClientID()
	}
	if f.selection > 0 {
		q.SetOnlySelection(f.selection)
	}

	for _, j := range f.joins {
		if err := q.AddTableDirectJoin(j); err != nil {
			return nil, err
		}
	}
	for _, expr := range f.filters {
		filter, err := ParseFilter(expr)
		if err != nil {
			return nil, err
		}
		if err := q.AddVirtualColumnFilter(filter.Column, filter.Operator, filter.Value.Bind()); err != nil {
			return nil, err
		}
	}
	return q, nil
}
