package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ZabraveniGeroi/blogc/pkg/runner"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine formats build statistics as a single line.
// Example: "Built 12 pages (3 written, 9 unchanged), 2 warnings in 40ms".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, elapsed time.Duration) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No sources found") + "\n"
	}

	head := fmt.Sprintf("Built %d %s", stats.FilesBuilt, plural(stats.FilesBuilt, "page", "pages"))
	if stats.FilesErrored > 0 {
		head = s.Failure.Render(head)
	} else {
		head = s.Success.Render(head)
	}
	head += fmt.Sprintf(" (%d written, %d unchanged)", stats.FilesWritten, stats.FilesUnchanged)

	parts := []string{head}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}
	if warnings := stats.Diagnostics + stats.BrokenLinks; warnings > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s", warnings, plural(warnings, "warning", "warnings"))))
	}

	line := strings.Join(parts, ", ")
	if elapsed > 0 {
		line += " " + s.Dim.Render("in "+elapsed.Round(time.Millisecond).String())
	}
	return line + "\n"
}

// FormatSummary formats build statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Sources:           " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Pages written:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	builder.WriteString("  Pages unchanged:   " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesUnchanged)) + "\n")

	if stats.FilesErrored > 0 {
		builder.WriteString("  Failed:            " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}
	if stats.Diagnostics > 0 {
		builder.WriteString("  Diagnostics:       " +
			s.Warning.Render(strconv.Itoa(stats.Diagnostics)) + "\n")
	}
	if stats.BrokenLinks > 0 {
		builder.WriteString("  Broken links:      " +
			s.Warning.Render(strconv.Itoa(stats.BrokenLinks)) + "\n")
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Build failed"))
	case stats.Diagnostics > 0 || stats.BrokenLinks > 0:
		builder.WriteString(s.Warning.Render("Build completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Build succeeded"))
	}
	builder.WriteString("\n")

	return builder.String()
}
