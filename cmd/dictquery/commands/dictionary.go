package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dictquery/dictionary"
	"github.com/satishbabariya/dictquery/internal/ui"
)

var describeMarkdown bool

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables of the dictionary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ctx, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer closeClient(ctx, c)

		reg := c.Registry()
		var rows [][]string
		for _, name := range reg.Tables() {
			t, err := reg.LookupTable(name)
			if err != nil {
				return err
			}
			rows = append(rows, []string{
				t.Name,
				t.KeyColumn,
				strconv.Itoa(len(t.PhysicalColumns())),
				strconv.Itoa(len(t.VirtualColumns())),
			})
		}
		if len(rows) == 0 {
			ui.PrintWarning("Dictionary has no tables")
			return nil
		}
		return ui.PrintTable([]string{"Table", "Key", "Columns", "Virtual"}, rows)
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe [table]",
	Short: "Show the columns of a table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ctx, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer closeClient(ctx, c)

		name, err := tableArg(c, args)
		if err != nil {
			return err
		}
		t, err := c.Registry().LookupTable(name)
		if err != nil {
			return err
		}

		if describeMarkdown {
			return ui.PrintMarkdown(describeTable(t))
		}
		rows := make([][]string, 0, len(t.Columns))
		for _, col := range t.Columns {
			rows = append(rows, []string{col.Name, string(col.Type), col.ReferencedTable(), col.VirtualSQL})
		}
		ui.PrintHeader(t.Name, "key "+keyOrNone(t))
		return ui.PrintTable([]string{"Column", "Type", "References", "Virtual"}, rows)
	},
}

func init() {
	describeCmd.Flags().BoolVarP(&describeMarkdown, "markdown", "m", false, "Render as markdown")

	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(describeCmd)
}

// describeTable renders the table definition as markdown.
func describeTable(t *dictionary.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Name)
	fmt.Fprintf(&b, "Key column: `%s`\n\n", keyOrNone(t))

	b.WriteString("| Column | Type | References |\n")
	b.WriteString("|--------|------|------------|\n")
	for _, col := range t.PhysicalColumns() {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", col.Name, col.Type, col.ReferencedTable())
	}

	if virtual := t.VirtualColumns(); len(virtual) > 0 {
		b.WriteString("\n## Virtual columns\n\n")
		for _, col := range virtual {
			fmt.Fprintf(&b, "- **%s** (%s): `%s`\n", col.Name, col.Type, col.VirtualSQL)
		}
	}
	return b.String()
}

func keyOrNone(t *dictionary.Table) string {
	if t.KeyColumn == "" {
		return "none"
	}
	return t.KeyColumn
}
