package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ZabraveniGeroi/blogc/pkg/runner"
)

// jsonSchemaVersion is bumped when the JSON layout changes incompatibly.
const jsonSchemaVersion = "1"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version     string           `json:"version"`
	Files       []JSONFileResult `json:"files"`
	BrokenLinks []JSONBrokenLink `json:"brokenLinks"`
	Summary     JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single source's outcome.
type JSONFileResult struct {
	Source      string   `json:"source"`
	Output      string   `json:"output,omitempty"`
	Page        string   `json:"page,omitempty"`
	Written     bool     `json:"written"`
	Headings    int      `json:"headings"`
	Diagnostics []string `json:"diagnostics"`
	DurationMS  float64  `json:"durationMs"`
	Error       string   `json:"error,omitempty"`
}

// JSONBrokenLink represents an unresolved internal link.
type JSONBrokenLink struct {
	Page   string `json:"page"`
	URL    string `json:"url"`
	Tag    string `json:"tag"`
	Target string `json:"target"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int     `json:"filesDiscovered"`
	FilesBuilt      int     `json:"filesBuilt"`
	FilesWritten    int     `json:"filesWritten"`
	FilesUnchanged  int     `json:"filesUnchanged"`
	FilesErrored    int     `json:"filesErrored"`
	Diagnostics     int     `json:"diagnostics"`
	BrokenLinks     int     `json:"brokenLinks"`
	DurationMS      float64 `json:"durationMs"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return countProblems(result), nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version:     jsonSchemaVersion,
		Files:       make([]JSONFileResult, 0),
		BrokenLinks: make([]JSONBrokenLink, 0),
	}

	if result == nil {
		return output
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Source:      r.opts.displayPath(file.Source),
			Output:      r.opts.displayPath(file.Output),
			Page:        file.SitePath,
			Written:     file.Written,
			Headings:    file.Headings,
			Diagnostics: make([]string, 0, len(file.Diagnostics)),
			DurationMS:  milliseconds(file.Duration.Seconds()),
		}
		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}
		for _, diag := range file.Diagnostics {
			fileResult.Diagnostics = append(fileResult.Diagnostics, diag.Error())
		}
		output.Files = append(output.Files, fileResult)
	}

	for _, link := range result.BrokenLinks {
		output.BrokenLinks = append(output.BrokenLinks, JSONBrokenLink{
			Page:   link.Page,
			URL:    link.Link.URL,
			Tag:    link.Link.Tag,
			Target: link.Target,
		})
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesDiscovered: stats.FilesDiscovered,
		FilesBuilt:      stats.FilesBuilt,
		FilesWritten:    stats.FilesWritten,
		FilesUnchanged:  stats.FilesUnchanged,
		FilesErrored:    stats.FilesErrored,
		Diagnostics:     stats.Diagnostics,
		BrokenLinks:     stats.BrokenLinks,
		DurationMS:      milliseconds(result.Duration.Seconds()),
	}

	return output
}

func milliseconds(seconds float64) float64 {
	return seconds * 1000 //nolint:mnd // seconds to milliseconds
}
