package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ZabraveniGeroi/blogc/pkg/runner"
	"github.com/ZabraveniGeroi/blogc/pkg/token"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minIndexWidth    = 3
	minKindWidth     = 12
	minTextWidth     = 16
	minSourceWidth   = 20
	minPageWidth     = 20
	statusWidth      = 9
	diagWidth        = 4
	timeWidth        = 8
	heavySeparator   = "="
	lightSeparator   = "-"
	statusWritten    = "written"
	statusUnchanged  = "unchanged"
	statusFailed     = "failed"
	tokenColumnCount = 3
	buildColumnCount = 5
)

// TokenRow is one row of the token table. Consecutive Char tokens may be
// collapsed into a single row whose Count is greater than one.
type TokenRow struct {
	Index int
	Kind  token.Kind
	Text  string
	Count int
}

// TokenRows converts tokens to table rows. When collapse is set, runs of
// Char tokens become one row.
func TokenRows(tokens []token.Token, collapse bool) []TokenRow {
	rows := make([]TokenRow, 0, len(tokens))
	for i, tok := range tokens {
		if collapse && tok.Is(token.Char) && len(rows) > 0 {
			last := &rows[len(rows)-1]
			if last.Kind == token.Char {
				last.Text += tok.Text
				last.Count++
				continue
			}
		}
		rows = append(rows, TokenRow{Index: i, Kind: tok.Kind, Text: tok.Text, Count: 1})
	}
	return rows
}

// TableFormatter formats tokens and build results as styled tables.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = DefaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

type tokenColumnWidths struct {
	index int
	kind  int
	text  int
}

// FormatTokens formats a token stream as a table of index, kind and quoted text.
func (t *TableFormatter) FormatTokens(rows []TokenRow) string {
	if len(rows) == 0 {
		return ""
	}

	widths := tokenColumnWidths{index: minIndexWidth, kind: minKindWidth, text: minTextWidth}
	for _, row := range rows {
		widths.index = max(widths.index, len(strconv.Itoa(row.Index)))
		widths.kind = max(widths.kind, len(row.Kind.String()))
		widths.text = max(widths.text, len(strconv.Quote(row.Text)))
	}
	total := widths.index + widths.kind + widths.text + tablePadding*tokenColumnCount
	if total > t.termWidth {
		widths.text = max(minTextWidth, widths.text-(total-t.termWidth))
	}
	total = widths.index + widths.kind + widths.text + tablePadding*tokenColumnCount

	var builder strings.Builder

	header := fmt.Sprintf(" %*s  %-*s  %-*s ", widths.index, "#", widths.kind, "KIND", widths.text, "TEXT")
	builder.WriteString(t.styles.TableHeader.Render(header) + "\n")
	builder.WriteString(t.separator(total, heavySeparator) + "\n")

	for _, row := range rows {
		kind := fmt.Sprintf("%-*s", widths.kind, row.Kind.String())
		text := truncateString(strconv.Quote(row.Text), widths.text)

		style := t.styles.TokenMarkup
		if row.Kind == token.Char || row.Kind == token.Space {
			style = t.styles.TokenLiteral
		}

		builder.WriteString(fmt.Sprintf(" %*d  %s  %s\n",
			widths.index, row.Index,
			t.styles.TokenKind.Render(kind),
			style.Render(text),
		))
	}

	builder.WriteString(t.separator(total, heavySeparator) + "\n")
	builder.WriteString(t.formatTokenLegend(rows) + "\n")

	return builder.String()
}

func (t *TableFormatter) formatTokenLegend(rows []TokenRow) string {
	var tokens, markup int
	for _, row := range rows {
		tokens += row.Count
		if row.Kind != token.Char && row.Kind != token.Space {
			markup++
		}
	}
	return t.styles.TableLegend.Render(fmt.Sprintf(" %d tokens, %d markup", tokens, markup))
}

type buildColumnWidths struct {
	source int
	page   int
}

// FormatBuild formats a build result as one row per source.
func (t *TableFormatter) FormatBuild(result *runner.Result, displayPath func(string) string) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}
	if displayPath == nil {
		displayPath = func(p string) string { return p }
	}

	widths := buildColumnWidths{source: minSourceWidth, page: minPageWidth}
	for _, file := range result.Files {
		widths.source = max(widths.source, len(displayPath(file.Source)))
		widths.page = max(widths.page, len(file.SitePath))
	}
	fixed := statusWidth + diagWidth + timeWidth + tablePadding*buildColumnCount
	if total := widths.source + widths.page + fixed; total > t.termWidth {
		excess := total - t.termWidth
		widths.source = max(minSourceWidth, widths.source-excess)
	}
	total := widths.source + widths.page + fixed

	var builder strings.Builder

	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %*s  %*s ",
		widths.source, "SOURCE",
		widths.page, "PAGE",
		statusWidth, "STATUS",
		diagWidth, "DIAG",
		timeWidth, "TIME",
	)
	builder.WriteString(t.styles.TableHeader.Render(header) + "\n")
	builder.WriteString(t.separator(total, heavySeparator) + "\n")

	for _, file := range result.Files {
		status, style := t.status(file)
		content := fmt.Sprintf(" %-*s  %-*s  %-*s  %*d  %*s",
			widths.source, truncateFilePath(displayPath(file.Source), widths.source),
			widths.page, truncateFilePath(file.SitePath, widths.page),
			statusWidth, status,
			diagWidth, len(file.Diagnostics),
			timeWidth, file.Duration.Round(time.Microsecond).String(),
		)
		builder.WriteString(style.Render(content) + "\n")
	}

	builder.WriteString(t.separator(total, lightSeparator) + "\n")
	builder.WriteString(t.FormatBuildSummary(result.Stats, result.Duration) + "\n")

	return builder.String()
}

func (t *TableFormatter) status(file runner.FileOutcome) (string, lipgloss.Style) {
	switch {
	case file.Error != nil:
		return statusFailed, t.styles.Error
	case len(file.Diagnostics) > 0:
		if file.Written {
			return statusWritten, t.styles.Warning
		}
		return statusUnchanged, t.styles.Warning
	case file.Written:
		return statusWritten, lipgloss.NewStyle()
	default:
		return statusUnchanged, t.styles.Dim
	}
}

// FormatBuildSummary formats a summary line for table output.
func (t *TableFormatter) FormatBuildSummary(stats runner.Stats, elapsed time.Duration) string {
	parts := []string{fmt.Sprintf("%d sources", stats.FilesDiscovered)}

	parts = append(parts, fmt.Sprintf("%d written", stats.FilesWritten))
	if stats.FilesErrored > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}
	if stats.Diagnostics > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d diagnostics", stats.Diagnostics)))
	}
	if stats.BrokenLinks > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d broken links", stats.BrokenLinks)))
	}
	if elapsed > 0 {
		parts = append(parts, t.styles.Dim.Render(elapsed.Round(time.Millisecond).String()))
	}

	return " " + strings.Join(parts, " | ")
}

func (t *TableFormatter) separator(width int, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, width))
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
