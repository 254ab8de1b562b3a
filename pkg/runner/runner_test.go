package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ZabraveniGeroi/blogc/internal/metrics"
	"github.com/ZabraveniGeroi/blogc/pkg/compiler"
	"github.com/ZabraveniGeroi/blogc/pkg/config"
	"github.com/ZabraveniGeroi/blogc/pkg/runner"
	"github.com/ZabraveniGeroi/blogc/pkg/site"
)

// countingRecorder counts calls for verification.
type countingRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	results  map[metrics.FileResult]int
	outcomes map[metrics.BuildOutcome]int
	diags    int
	sources  int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		results:  map[metrics.FileResult]int{},
		outcomes: map[metrics.BuildOutcome]int{},
	}
}

func (c *countingRecorder) IncFileResult(r metrics.FileResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[r]++
}

func (c *countingRecorder) IncBuildOutcome(o metrics.BuildOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes[o]++
}

func (c *countingRecorder) AddDiagnostics(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags += n
}

func (c *countingRecorder) SetSources(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = n
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "content"), 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := runner.New(compiler.New()).Run(context.Background(), siteOptions(root))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.FilesDiscovered != 0 || len(result.Files) != 0 {
		t.Errorf("expected empty result, got %+v", result.Stats)
	}
	if result.HasFailures() || result.HasWarnings() {
		t.Error("empty build should be clean")
	}
}

func TestRunner_Run_WritesPages(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"content/index.md":       "-attr: title = Home\n# Welcome\nhello *world*",
		"content/posts/first.md": "-attr: toc = 1\n# One\n## Two\ntext",
	})

	opts := siteOptions(root)
	r := runner.New(compiler.New(compiler.WithLanguageDetection(false)),
		runner.WithTemplate(site.Template{Stylesheet: "/main.css"}))

	result, err := r.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesBuilt != 2 || result.Stats.FilesWritten != 2 {
		t.Fatalf("unexpected stats %+v", result.Stats)
	}

	index := readFile(t, filepath.Join(opts.OutputDir, "index.html"))
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Home</title>",
		`href="/main.css"`,
		`<div class="bg" id="bg1"> </div>`,
		"<h1>Welcome</h1>",
		"hello <i>world</i>",
	} {
		if !strings.Contains(index, want) {
			t.Errorf("index.html missing %q:\n%s", want, index)
		}
	}

	first := readFile(t, filepath.Join(opts.OutputDir, "posts", "first.html"))
	if !strings.Contains(first, "<ul><li>") {
		t.Errorf("expected a table of contents in first.html:\n%s", first)
	}

	if got := result.Files[0].SitePath; got != "/index.html" {
		t.Errorf("first outcome site path = %q", got)
	}
	if got := result.Files[1].SitePath; got != "/posts/first.html" {
		t.Errorf("second outcome site path = %q", got)
	}
	if result.Files[1].Headings != 2 {
		t.Errorf("expected 2 headings, got %d", result.Files[1].Headings)
	}
	if result.Files[0].Info == nil {
		t.Error("expected a source fingerprint")
	}
}

func TestRunner_Run_UnchangedAndForce(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"content/a.md": "a"})
	opts := siteOptions(root)
	r := runner.New(compiler.New())
	ctx := context.Background()

	if _, err := r.Run(ctx, opts); err != nil {
		t.Fatal(err)
	}

	again, err := r.Run(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if again.Stats.FilesUnchanged != 1 || again.Stats.FilesWritten != 0 {
		t.Errorf("second build should leave the page alone, got %+v", again.Stats)
	}

	opts.Force = true
	forced, err := r.Run(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if forced.Stats.FilesWritten != 1 {
		t.Errorf("forced build should rewrite the page, got %+v", forced.Stats)
	}
}

func TestRunner_Run_Diagnostics(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"content/a.md": "-attr: broken\nbody"})

	rec := newCountingRecorder()
	r := runner.New(compiler.New(), runner.WithRecorder(rec))

	result, err := r.Run(context.Background(), siteOptions(root))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.Diagnostics != 1 {
		t.Errorf("expected 1 diagnostic, got %d", result.Stats.Diagnostics)
	}
	if !result.HasWarnings() || result.HasFailures() {
		t.Error("a malformed metadata line is a warning, not a failure")
	}
	if rec.diags != 1 || rec.outcomes[metrics.BuildWarning] != 1 || rec.results[metrics.FileWritten] != 1 {
		t.Errorf("unexpected recorder state: %+v", rec)
	}
	if rec.sources != 1 {
		t.Errorf("expected sources gauge 1, got %d", rec.sources)
	}
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	files := map[string]string{}
	for i := range 20 {
		files[filepath.Join("content", "p", string(rune('a'+i))+".md")] = "# T\n**x** " + strings.Repeat("y", i)
	}

	build := func(jobs int) *runner.Result {
		root := t.TempDir()
		writeTree(t, root, files)
		opts := siteOptions(root)
		opts.Jobs = jobs
		result, err := runner.New(compiler.New()).Run(context.Background(), opts)
		if err != nil {
			t.Fatalf("Run(jobs=%d) error = %v", jobs, err)
		}
		return result
	}

	serial := build(1)
	parallel := build(8)

	if len(serial.Files) != len(parallel.Files) {
		t.Fatalf("file count mismatch: %d vs %d", len(serial.Files), len(parallel.Files))
	}
	for i := range serial.Files {
		if filepath.Base(serial.Files[i].Source) != filepath.Base(parallel.Files[i].Source) {
			t.Errorf("order mismatch at %d: %s vs %s", i, serial.Files[i].Source, parallel.Files[i].Source)
		}
	}
	if serial.Stats != parallel.Stats {
		t.Errorf("stats mismatch: %+v vs %+v", serial.Stats, parallel.Stats)
	}
}

func TestRunner_Run_FileHook(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"content/a.md": "a",
		"content/b.md": "b",
		"content/c.md": "c",
	})

	var calls atomic.Int32
	r := runner.New(compiler.New(), runner.WithFileHook(func(runner.FileOutcome) {
		calls.Add(1)
	}))

	opts := siteOptions(root)
	opts.Jobs = 3
	if _, err := r.Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 hook calls, got %d", calls.Load())
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"content/a.md": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New(compiler.New()).Run(ctx, siteOptions(root))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunner_Run_CheckLinks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"content/a.md":     "url[/b.html, to b] url[c.html, missing] url[https://example.com]",
		"content/b.md":     "url[a.html, back] img(/img/x.png)",
		"static/style.css": "body {}",
		"static/img/x.png": "png",
	})

	opts := siteOptions(root)
	opts.CheckLinks = true
	result, err := runner.New(compiler.New()).Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.BrokenLinks) != 1 {
		t.Fatalf("expected 1 broken link, got %+v", result.BrokenLinks)
	}
	broken := result.BrokenLinks[0]
	if broken.Page != "/a.html" || broken.Target != "/c.html" {
		t.Errorf("unexpected broken link %+v", broken)
	}
	if result.Stats.BrokenLinks != 1 || !result.HasWarnings() {
		t.Errorf("broken links should be counted as warnings, got %+v", result.Stats)
	}
}

func TestRunner_BuildFileAndRemove(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"content/posts/a.md": "a"})
	opts := siteOptions(root)
	source := filepath.Join(opts.ContentDir, "posts", "a.md")

	rec := newCountingRecorder()
	r := runner.New(compiler.New(), runner.WithRecorder(rec))

	outcome := r.BuildFile(context.Background(), opts, source)
	if outcome.Error != nil {
		t.Fatalf("BuildFile() error = %v", outcome.Error)
	}
	if _, err := os.Stat(outcome.Output); err != nil {
		t.Fatalf("expected output to exist: %v", err)
	}

	output, removed, err := r.Remove(opts, source)
	if err != nil || !removed || output != outcome.Output {
		t.Fatalf("Remove() = %q, %v, %v", output, removed, err)
	}
	if _, removed, _ := r.Remove(opts, source); removed {
		t.Error("second Remove() should be a no-op")
	}
	if rec.results[metrics.FileRemoved] != 1 {
		t.Errorf("expected one removal recorded, got %d", rec.results[metrics.FileRemoved])
	}
}

func TestRunner_BuildFile_Missing(t *testing.T) {
	t.Parallel()

	opts := siteOptions(t.TempDir())
	outcome := runner.New(compiler.New()).BuildFile(context.Background(), opts,
		filepath.Join(opts.ContentDir, "gone.md"))
	if outcome.Error == nil {
		t.Fatal("expected an error for a missing source")
	}
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Engine = config.EngineCommonMark
	cfg.Flavor = config.FlavorGFM
	cfg.Ignore = []string{"drafts/**"}
	cfg.Stylesheet = "/site.css"
	cfg.Force = true

	opts := runner.OptionsFromConfig(cfg)
	if opts.ContentDir != "content" || opts.OutputDir != "static" || !opts.Force {
		t.Errorf("unexpected options %+v", opts)
	}
	if len(opts.ExcludeGlobs) != 1 {
		t.Errorf("ignore not mapped: %v", opts.ExcludeGlobs)
	}

	c := runner.CompilerFromConfig(cfg)
	if c.Options().Engine != compiler.EngineCommonMark || c.Options().Flavor != "gfm" {
		t.Errorf("unexpected compiler options %+v", c.Options())
	}

	if tmpl := runner.TemplateFromConfig(cfg); tmpl.Stylesheet != "/site.css" {
		t.Errorf("stylesheet = %q", tmpl.Stylesheet)
	}
}

func TestResult_NilSafety(t *testing.T) {
	t.Parallel()

	var r *runner.Result
	if r.HasFailures() || r.HasWarnings() {
		t.Error("nil result has neither failures nor warnings")
	}
}
