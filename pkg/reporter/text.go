package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/ZabraveniGeroi/blogc/internal/ui/pretty"
	"github.com/ZabraveniGeroi/blogc/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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

	for _, file := range result.Files {
		path := r.opts.displayPath(file.Source)

		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatFileError(path, file.Error))
			continue
		}

		if len(file.Diagnostics) == 0 {
			if r.opts.Verbose {
				fmt.Fprintln(r.bw, r.styles.Dim.Render(path+" -> "+file.SitePath))
			}
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(file.Diagnostics)))
		for _, diag := range file.Diagnostics {
			fmt.Fprint(r.bw, r.styles.FormatDiagnostic(path, diag))
		}
		fmt.Fprintln(r.bw)
	}

	if len(result.BrokenLinks) > 0 {
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader("Broken links", len(result.BrokenLinks)))
		for _, link := range result.BrokenLinks {
			fmt.Fprint(r.bw, r.styles.FormatBrokenLink(link))
		}
		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, result.Duration))
	}

	return countProblems(result), nil
}
