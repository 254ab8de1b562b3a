package pretty_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZabraveniGeroi/blogc/internal/ui/pretty"
	"github.com/ZabraveniGeroi/blogc/pkg/grammar"
	"github.com/ZabraveniGeroi/blogc/pkg/runner"
	"github.com/ZabraveniGeroi/blogc/pkg/site"
	"github.com/ZabraveniGeroi/blogc/pkg/token"
)

func TestFormatDiagnostic(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	t.Run("metadata error echoes the line", func(t *testing.T) {
		t.Parallel()
		err := &grammar.MetadataError{Line: "broken", Reason: "expected exactly one '='"}
		out := styles.FormatDiagnostic("post.md", err)
		assert.Contains(t, out, "post.md  warning  expected exactly one '='")
		assert.Contains(t, out, "-attr: broken")
		assert.Equal(t, 2, strings.Count(out, "\n"))
	})

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()
		out := styles.FormatDiagnostic("post.md", errors.New("commonmark: boom"))
		assert.Contains(t, out, "post.md  warning  commonmark: boom")
		assert.Equal(t, 1, strings.Count(out, "\n"))
	})
}

func TestFormatFileErrorAndBrokenLink(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Contains(t, styles.FormatFileError("a.md", errors.New("read failed")), "a.md: error: read failed")

	out := styles.FormatBrokenLink(runner.BrokenLink{
		Page:   "/a.html",
		Link:   site.Link{URL: "c.html", Tag: "a", Attribute: "href"},
		Target: "/c.html",
	})
	assert.Contains(t, out, "/a.html  warning  broken a href=\"c.html\" (/c.html)")
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Contains(t, styles.FormatFileHeader("a.md", 1), "(1 issue)")
	assert.Contains(t, styles.FormatFileHeader("a.md", 3), "(3 issues)")
	assert.Equal(t, "a.md", styles.FormatFileHeader("a.md", 0))
}

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name    string
		stats   runner.Stats
		elapsed time.Duration
		want    string
	}{
		{
			name: "no sources",
			want: "No sources found\n",
		},
		{
			name:    "clean build",
			stats:   runner.Stats{FilesDiscovered: 3, FilesBuilt: 3, FilesWritten: 1, FilesUnchanged: 2},
			elapsed: 40 * time.Millisecond,
			want:    "Built 3 pages (1 written, 2 unchanged) in 40ms\n",
		},
		{
			name:  "single page with warnings",
			stats: runner.Stats{FilesDiscovered: 1, FilesBuilt: 1, FilesWritten: 1, Diagnostics: 1, BrokenLinks: 1},
			want:  "Built 1 page (1 written, 0 unchanged), 2 warnings\n",
		},
		{
			name:  "failures",
			stats: runner.Stats{FilesDiscovered: 2, FilesBuilt: 1, FilesWritten: 1, FilesErrored: 1},
			want:  "Built 1 page (1 written, 0 unchanged), 1 failed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Contains(t, styles.FormatSummaryOneLine(tt.stats, tt.elapsed), tt.want)
		})
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	out := styles.FormatSummary(runner.Stats{FilesDiscovered: 2, FilesWritten: 2})
	assert.Contains(t, out, "Sources:           2")
	assert.Contains(t, out, "Build succeeded")
	assert.NotContains(t, out, "Failed:")

	out = styles.FormatSummary(runner.Stats{FilesDiscovered: 2, FilesErrored: 1, Diagnostics: 3})
	assert.Contains(t, out, "Failed:            1")
	assert.Contains(t, out, "Diagnostics:       3")
	assert.Contains(t, out, "Build failed")

	out = styles.FormatSummary(runner.Stats{FilesDiscovered: 1, BrokenLinks: 1})
	assert.Contains(t, out, "Build completed with warnings")
}

func TestTokenRows(t *testing.T) {
	t.Parallel()

	tokens := token.Tokenize("ab **c**")

	rows := pretty.TokenRows(tokens, false)
	assert.Len(t, rows, len(tokens))

	collapsed := pretty.TokenRows(tokens, true)
	require.Len(t, collapsed, 5)
	assert.Equal(t, pretty.TokenRow{Index: 0, Kind: token.Char, Text: "ab", Count: 2}, collapsed[0])
	assert.Equal(t, token.Space, collapsed[1].Kind)
	assert.Equal(t, token.Bold, collapsed[2].Kind)
	assert.Equal(t, pretty.TokenRow{Index: 4, Kind: token.Char, Text: "c", Count: 1}, collapsed[3])
}

func TestFormatTokens(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 80)
	assert.Empty(t, formatter.FormatTokens(nil))

	out := formatter.FormatTokens(pretty.TokenRows(token.Tokenize("# x"), false))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[0], "KIND")
	assert.Contains(t, lines[2], "Heading1")
	assert.Contains(t, lines[2], `"#"`)
	assert.Contains(t, lines[3], "Space")
	assert.Contains(t, lines[4], `"x"`)
	assert.Contains(t, lines[6], "3 tokens, 1 markup")
}

func TestFormatBuild(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 0)
	assert.Empty(t, formatter.FormatBuild(nil, nil))

	result := &runner.Result{
		Files: []runner.FileOutcome{
			{Source: "/site/content/a.md", SitePath: "/a.html", Written: true, Duration: time.Millisecond},
			{Source: "/site/content/b.md", SitePath: "/b.html", Diagnostics: []error{errors.New("x")}},
			{Source: "/site/content/c.md", SitePath: "/c.html", Error: errors.New("boom")},
		},
		Stats: runner.Stats{FilesDiscovered: 3, FilesWritten: 1, FilesUnchanged: 1, FilesErrored: 1, Diagnostics: 1},
	}

	out := formatter.FormatBuild(result, func(p string) string { return strings.TrimPrefix(p, "/site/") })
	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, "content/a.md")
	assert.NotContains(t, out, "/site/")
	assert.Contains(t, out, "written")
	assert.Contains(t, out, "unchanged")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "3 sources | 1 written | 1 failed | 1 diagnostics")
}
