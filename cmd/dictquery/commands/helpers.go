package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"

	"github.com/satishbabariya/dictquery/internal/adapters/telemetry"
	"github.com/satishbabariya/dictquery/internal/config"
	"github.com/satishbabariya/dictquery/internal/debug"
	"github.com/satishbabariya/dictquery/record"
	"github.com/satishbabariya/dictquery/runtime/client"
	"github.com/satishbabariya/dictquery/runtime/session"
)

// openClient loads the configuration, connects a client and returns the
// session context queries run under.
func openClient(ctx context.Context) (*client.Client, context.Context, error) {
	cfg, err := config.Load(config.AppFs, cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Debug && !debugMode {
		debug.Init(true)
	}

	tel, err := telemetry.NewTelemetry(cfg.TelemetryAdapterConfig())
	if err != nil {
		return nil, nil, err
	}

	c, err := client.New(
		client.WithDatabase(cfg.DatabaseAdapterConfig()),
		client.WithDictionaryFile(config.AppFs, cfg.Dictionary.Path),
		client.WithDictionaryWatch(cfg.Dictionary.Watch),
		client.WithTelemetry(tel),
		client.WithLogger(debug.Logger()),
	)
	if err != nil {
		return nil, nil, err
	}
	if err := c.Connect(ctx); err != nil {
		return nil, nil, err
	}

	ctx = session.WithInfo(ctx, cfg.SessionInfo())
	if len(clientIDs) > 0 {
		ctx = session.WithClientID(ctx, clientIDs...)
	}
	return c, ctx, nil
}

// tableArg returns the table named on the command line, or asks for one
// when running in a terminal.
func tableArg(c *client.Client, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", errors.New("table argument required")
	}

	tables := c.Registry().Tables()
	if len(tables) == 0 {
		return "", errors.New("dictionary has no tables")
	}
	var table string
	prompt := &survey.Select{
		Message: "Table:",
		Options: tables,
	}
	if err := survey.AskOne(prompt, &table); err != nil {
		return "", err
	}
	return table, nil
}

// parseLiteral converts a command line value to the narrowest bind
// argument: integer, then float, then string.
func parseLiteral(s string) interface{} {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// recordRows renders records for ui.PrintTable. Columns are the physical
// columns followed by virtual columns loaded on the first record.
func recordRows(recs []*record.Record) ([]string, [][]string) {
	if len(recs) == 0 {
		return nil, nil
	}
	t := recs[0].Table()

	var headers []string
	for _, col := range t.PhysicalColumns() {
		headers = append(headers, col.Name)
	}
	for _, col := range t.VirtualColumns() {
		if recs[0].IsResolved(col.Name) {
			headers = append(headers, col.Name)
		}
	}

	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		row := make([]string, len(headers))
		for i, h := range headers {
			if v, ok := rec.Value(h); ok && v != nil {
				row[i] = record.AsString(v)
			}
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func closeClient(ctx context.Context, c *client.Client) {
	if err := c.Close(ctx); err != nil {
		debug.Warn("failed to close client", "error", err)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
