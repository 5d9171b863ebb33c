package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/satishbabariya/hdbwrap/query/model"
	"github.com/satishbabariya/hdbwrap/query/sqlgen"
)

// Out and Err are where messages are written.
var (
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	InfoColor      = lipgloss.Color("#00D9FF")
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

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

var (
	keywordColor = color.New(color.FgCyan, color.Bold)
	argColor     = color.New(color.FgYellow)
)

// PrintHeader prints a header box
func PrintHeader(title string, subtitle string) {
	width := 60
	if w := pterm.GetTerminalWidth(); w > 0 && w < width {
		width = w
	}

	header := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 2).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Center,
				TitleStyle.Render(title),
				SecondaryStyle.Render(subtitle),
			),
		)

	fmt.Fprintln(Out, header)
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...any) {
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError prints an error message
func PrintError(format string, args ...any) {
	fmt.Fprintln(Err, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...any) {
	fmt.Fprintln(Out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...any) {
	fmt.Fprintln(Out, InfoStyle.Render("ℹ "+fmt.Sprintf(format, args...)))
}

// PrintTable prints a table using pterm
func PrintTable(headers []string, rows [][]string) error {
	tableData := pterm.TableData{headers}
	tableData = append(tableData, rows...)
	out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, out)
	return nil
}

// PrintRows prints result rows as a table followed by the row count.
func PrintRows(rows []*model.Row) error {
	if len(rows) == 0 {
		PrintInfo("no rows")
		return nil
	}
	headers, cells := TableData(rows)
	if err := PrintTable(headers, cells); err != nil {
		return err
	}
	fmt.Fprintln(Out, SecondaryStyle.Render(fmt.Sprintf("%d row(s)", len(rows))))
	return nil
}

// TableData lays rows out as cells. The header is the union of all column
// names in first-seen order; a column missing from a row prints as NULL.
func TableData(rows []*model.Row) ([]string, [][]string) {
	var headers []string
	seen := map[string]bool{}
	for _, r := range rows {
		for _, k := range r.Keys() {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		line := make([]string, len(headers))
		for j, h := range headers {
			line[j] = Cell(r.Value(h))
		}
		cells[i] = line
	}
	return headers, cells
}

// Cell renders one value for display.
func Cell(v model.Value) string {
	if v.IsNullish() {
		return "NULL"
	}
	return v.String()
}

var sqlKeywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "AND": true, "IN": true, "NOT": true,
	"IS": true, "NULL": true, "JOIN": true, "INNER": true, "LEFT": true, "RIGHT": true,
	"ON": true, "ORDER": true, "BY": true, "ASC": true, "DESC": true, "LIMIT": true,
	"INSERT": true, "INTO": true, "VALUES": true, "UPDATE": true, "SET": true,
	"DELETE": true, "CALL": true, "AS": true,
}

// PrintQuery prints compiled SQL with highlighted keywords and, when
// present, the parameters of each execution.
func PrintQuery(q sqlgen.Query) {
	words := strings.Split(q.SQL, " ")
	for i, w := range words {
		if sqlKeywords[strings.ToUpper(w)] {
			words[i] = keywordColor.Sprint(w)
		}
	}
	fmt.Fprintln(Out, strings.Join(words, " "))

	switch {
	case len(q.Batch) > 0:
		for i, args := range q.Batch {
			fmt.Fprintf(Out, "  #%d %s\n", i+1, argColor.Sprint(formatArgs(args)))
		}
	case len(q.Args) > 0:
		fmt.Fprintf(Out, "  %s\n", argColor.Sprint(formatArgs(q.Args)))
	}
}

func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case nil:
			parts[i] = "NULL"
		case string:
			parts[i] = fmt.Sprintf("%q", v)
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// DisableColor turns off colored output of all renderers.
func DisableColor() {
	color.NoColor = true
	pterm.DisableStyling()
}
