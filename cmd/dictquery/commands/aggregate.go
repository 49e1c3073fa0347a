package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dictquery/internal/ui"
	"github.com/satishbabariya/dictquery/query"
)

var (
	aggregateFlags  queryFlags
	aggregateExpr   string
	aggregateFunc   string
	aggregateResult string
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate [table]",
	Short: "Compute an aggregate over the matching records",
	Long: `Compute an aggregate function over the matching records.

Examples:
  dictquery aggregate C_Order --fn SUM --expr GrandTotal
  dictquery aggregate C_Order --fn COUNT
  dictquery aggregate C_Order --fn MAX --expr DateOrdered --type timestamp`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := query.ParseResultType(aggregateResult)
		if err != nil {
			return err
		}
		return withQuery(cmd, args, &aggregateFlags, func(ctx context.Context, q *query.Query) error {
			v, err := q.AggregateAs(ctx, aggregateExpr, aggregateFunc, rt)
			if err != nil {
				return err
			}
			if v == nil {
				fmt.Fprintln(ui.Output, "NULL")
				return nil
			}
			fmt.Fprintln(ui.Output, v)
			return nil
		})
	},
}

func init() {
	aggregateFlags.register(aggregateCmd)
	aggregateCmd.Flags().StringVarP(&aggregateExpr, "expr", "e", "", "SQL expression to aggregate")
	aggregateCmd.Flags().StringVar(&aggregateFunc, "fn", "", "Aggregate function: SUM, COUNT, MIN, MAX, AVG")
	aggregateCmd.Flags().StringVarP(&aggregateResult, "type", "t", "decimal", "Result type: decimal, int, float, string, timestamp, bool")

	rootCmd.AddCommand(aggregateCmd)
}
