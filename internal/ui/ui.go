package ui

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// Output receives everything the package prints. Errors go to os.Stderr.
var Output io.Writer = os.Stdout

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// PrintHeader prints a title with a subtitle
func PrintHeader(title string, subtitle string) {
	header := lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Render(title),
		SecondaryStyle.Render(subtitle),
	)
	fmt.Fprintln(Output, header)
	fmt.Fprintln(Output)
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	fmt.Fprintln(Output, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	fmt.Fprintln(Output, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintTable prints a table using pterm
func PrintTable(headers []string, rows [][]string) error {
	tableData := pterm.TableData{headers}
	tableData = append(tableData, rows...)
	out, err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(Output, out)
	return nil
}

// RenderMarkdown renders markdown for the terminal.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// PrintMarkdown renders markdown content
func PrintMarkdown(content string) error {
	out, err := RenderMarkdown(content)
	if err != nil {
		return err
	}
	fmt.Fprint(Output, out)
	return nil
}

var sqlKeywords = regexp.MustCompile(`\b(SELECT|FROM|WHERE|AND|OR|IN|INNER JOIN|ON|ORDER BY|LIMIT|OFFSET|AS|LIKE|BETWEEN|COUNT|SUM|AVG|MIN|MAX)\b`)

// HighlightSQL colors the keywords of a generated statement.
func HighlightSQL(sql string) string {
	keyword := color.New(color.FgCyan, color.Bold)
	return sqlKeywords.ReplaceAllStringFunc(sql, func(kw string) string {
		return keyword.Sprint(kw)
	})
}

// PrintSQL prints a statement and its bind arguments.
func PrintSQL(sql string, args []interface{}) {
	fmt.Fprintln(Output, HighlightSQL(sql))
	if len(args) == 0 {
		return
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%v", a)
	}
	fmt.Fprintln(Output, SecondaryStyle.Render("args: "+strings.Join(parts, ", ")))
}
