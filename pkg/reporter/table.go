package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/ZabraveniGeroi/blogc/internal/ui/pretty"
	"github.com/ZabraveniGeroi/blogc/pkg/runner"
)

// TableReporter formats results as a styled table with one row per source.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)

	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, pretty.TerminalWidth(opts.Writer)),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(runner.Stats{}, 0))
		}
		return 0, nil
	}

	fmt.Fprint(r.bw, r.formatter.FormatBuild(result, r.opts.displayPath))

	if len(result.BrokenLinks) > 0 {
		fmt.Fprintln(r.bw)
		for _, link := range result.BrokenLinks {
			fmt.Fprint(r.bw, r.styles.FormatBrokenLink(link))
		}
	}

	return countProblems(result), nil
}
