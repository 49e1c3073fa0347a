package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dictquery/internal/debug"
	"github.com/satishbabariya/dictquery/internal/ui"
	"github.com/satishbabariya/dictquery/query"
	"github.com/satishbabariya/dictquery/record"
)

var (
	listFlags  queryFlags
	firstFlags queryFlags
	idsFlags   queryFlags
	countFlags queryFlags
	matchFlags queryFlags
	sqlFlags   queryFlags

	listStream bool
	firstOnly  bool
)

var listCmd = &cobra.Command{
	Use:   "list [table]",
	Short: "List the records of a table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withQuery(cmd, args, &listFlags, func(ctx context.Context, q *query.Query) error {
			var recs []*record.Record
			if listStream {
				for rec, err := range q.Stream(ctx) {
					if err != nil {
						return err
					}
					recs = append(recs, rec)
				}
			} else {
				var err error
				if recs, err = q.List(ctx); err != nil {
					return err
				}
			}
			return printRecords(recs)
		})
	},
}

var firstCmd = &cobra.Command{
	Use:   "first [table]",
	Short: "Show the first matching record",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withQuery(cmd, args, &firstFlags, func(ctx context.Context, q *query.Query) error {
			var rec *record.Record
			var err error
			if firstOnly {
				rec, err = q.FirstOnly(ctx)
			} else {
				rec, err = q.First(ctx)
			}
			if err != nil {
				return err
			}
			if rec == nil {
				ui.PrintWarning("No record found")
				return nil
			}
			return printRecords([]*record.Record{rec})
		})
	},
}

var idsCmd = &cobra.Command{
	Use:   "ids [table]",
	Short: "Print the key of every matching record",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withQuery(cmd, args, &idsFlags, func(ctx context.Context, q *query.Query) error {
			ids, err := q.IDs(ctx)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(ui.Output, id)
			}
			return nil
		})
	},
}

var countCmd = &cobra.Command{
	Use:   "count [table]",
	Short: "Count the matching records",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withQuery(cmd, args, &countFlags, func(ctx context.Context, q *query.Query) error {
			n, err := q.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(ui.Output, n)
			return nil
		})
	},
}

var matchCmd = &cobra.Command{
	Use:   "match [table]",
	Short: "Report whether any record matches",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withQuery(cmd, args, &matchFlags, func(ctx context.Context, q *query.Query) error {
			found, err := q.Match(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(ui.Output, found)
			return nil
		})
	},
}

var sqlCmd = &cobra.Command{
	Use:   "sql [table]",
	Short: "Print the SELECT a query generates",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withQuery(cmd, args, &sqlFlags, func(ctx context.Context, q *query.Query) error {
			stmt, err := q.SQL()
			if err != nil {
				return err
			}
			ui.PrintSQL(stmt, nil)
			return nil
		})
	},
}

func init() {
	for cmd, flags := range map[*cobra.Command]*queryFlags{
		listCmd:  &listFlags,
		firstCmd: &firstFlags,
		idsCmd:   &idsFlags,
		countCmd: &countFlags,
		matchCmd: &matchFlags,
		sqlCmd:   &sqlFlags,
	} {
		flags.register(cmd)
		rootCmd.AddCommand(cmd)
	}
	listCmd.Flags().BoolVar(&listStream, "stream", false, "Read records through a streaming cursor")
	firstCmd.Flags().BoolVar(&firstOnly, "only", false, "Fail when more than one record matches")
}

// withQuery opens a client, builds the query for the table argument and
// runs fn.
func withQuery(cmd *cobra.Command, args []string, flags *queryFlags, fn func(context.Context, *query.Query) error) error {
	c, ctx, err := openClient(cmd.Context())
	if err != nil {
		return err
	}
	defer closeClient(ctx, c)

	table, err := tableArg(c, args)
	if err != nil {
		return err
	}
	q, err := flags.build(ctx, c, table)
	if err != nil {
		return err
	}
	if debug.Enabled() {
		if stmt, err := q.SQL(); err == nil {
			ui.PrintSQL(stmt, nil)
		}
	}
	return fn(ctx, q)
}

func printRecords(recs []*record.Record) error {
	if len(recs) == 0 {
		ui.PrintWarning("No records found")
		return nil
	}
	headers, rows := recordRows(recs)
	if err := ui.PrintTable(headers, rows); err != nil {
		return err
	}
	ui.PrintSuccess("%s", plural(len(recs), "record"))
	return nil
}
