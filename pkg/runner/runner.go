package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ZabraveniGeroi/blogc/internal/metrics"
	"github.com/ZabraveniGeroi/blogc/pkg/compiler"
	"github.com/ZabraveniGeroi/blogc/pkg/doctree"
	"github.com/ZabraveniGeroi/blogc/pkg/fsutil"
	"github.com/ZabraveniGeroi/blogc/pkg/site"
)

// Runner orchestrates site builds. It is safe for concurrent use.
type Runner struct {
	compiler *compiler.Compiler
	template site.Template
	recorder metrics.Recorder
	onFile   func(FileOutcome)
}

// Option configures a Runner.
type Option func(*Runner)

// WithTemplate sets the page template.
func WithTemplate(tmpl site.Template) Option {
	return func(r *Runner) { r.template = tmpl }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Runner) { r.recorder = metrics.OrNoop(rec) }
}

// WithFileHook registers fn to be called with every outcome as soon as the
// source is done. Calls come from worker goroutines.
func WithFileHook(fn func(FileOutcome)) Option {
	return func(r *Runner) { r.onFile = fn }
}

// New creates a Runner that compiles with c.
func New(c *compiler.Compiler, opts ...Option) *Runner {
	r := &Runner{
		compiler: c,
		template: site.DefaultTemplate(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Compiler returns the compiler used for every source.
func (r *Runner) Compiler() *compiler.Compiler {
	return r.compiler
}

// Run discovers sources and builds them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
//
// The runner:
//   - Discovers sources matching the options criteria
//   - Compiles and writes pages concurrently using a worker pool
//   - Optionally verifies internal links once every page is written
//   - Respects context cancellation
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	files, err := Discover(ctx, opts)
	if err != nil {
		r.recorder.IncBuildOutcome(metrics.BuildFailed)
		return nil, err
	}
	if len(opts.Paths) == 0 {
		r.recorder.SetSources(len(files))
	}

	result, err := r.build(ctx, opts, files)
	result.Duration = time.Since(start)
	r.recorder.ObserveBuildDuration(result.Duration)
	r.recorder.IncBuildOutcome(outcomeOf(result, err))

	return result, err
}

func outcomeOf(result *Result, err error) metrics.BuildOutcome {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.BuildCanceled
	case err != nil || result.HasFailures():
		return metrics.BuildFailed
	case result.HasWarnings():
		return metrics.BuildWarning
	default:
		return metrics.BuildSuccess
	}
}

func (r *Runner) build(ctx context.Context, opts Options, files []string) (*Result, error) {
	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	lay, err := resolveLayout(opts)
	if err != nil {
		return result, err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, lay, opts)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers complete out of order; rebuild the source order afterwards.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Source] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("build cancelled: %w", ctx.Err())
	}

	if opts.CheckLinks {
		result.BrokenLinks = checkLinks(lay, result.Files)
		result.Stats.BrokenLinks = len(result.BrokenLinks)
	}

	return result, nil
}

// worker builds sources from workCh and sends outcomes to outCh.
func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	lay layout,
	opts Options,
) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := r.buildFile(ctx, lay, opts, path)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// BuildFile compiles one source and writes its page.
func (r *Runner) BuildFile(ctx context.Context, opts Options, source string) FileOutcome {
	lay, err := resolveLayout(opts)
	if err != nil {
		return FileOutcome{Source: source, Error: err}
	}
	return r.buildFile(ctx, lay, opts, source)
}

func (r *Runner) buildFile(ctx context.Context, lay layout, opts Options, source string) FileOutcome {
	outcome := FileOutcome{Source: source}
	defer func() {
		r.record(outcome)
		if r.onFile != nil {
			r.onFile(outcome)
		}
	}()

	output, err := lay.outputPath(source)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Output = output
	outcome.SitePath = lay.sitePath(output)

	content, info, err := fsutil.ReadFile(ctx, source)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Info = info

	started := time.Now()
	doc := r.compiler.Compile(string(content))
	outcome.Duration = time.Since(started)
	outcome.Diagnostics = doc.Diagnostics
	outcome.Headings = len(doc.Headings)

	page := []byte(doctree.Serialize(site.Assemble(doc, r.template)))

	if opts.CheckLinks {
		links, err := site.ExtractLinks(bytes.NewReader(page))
		if err != nil {
			outcome.Error = fmt.Errorf("extract links: %w", err)
			return outcome
		}
		for _, l := range links {
			if l.Internal() {
				outcome.Links = append(outcome.Links, l)
			}
		}
	}

	if opts.Force {
		err = fsutil.WriteAtomic(ctx, output, page, fsutil.DefaultFileMode)
		outcome.Written = err == nil
	} else {
		outcome.Written, err = fsutil.WriteAtomicIfChanged(ctx, output, page, fsutil.DefaultFileMode)
	}
	if err != nil {
		outcome.Error = fmt.Errorf("write %s: %w", output, err)
	}

	return outcome
}

func (r *Runner) record(outcome FileOutcome) {
	switch {
	case outcome.Error != nil:
		r.recorder.IncFileResult(metrics.FileFailed)
		return
	case outcome.Written:
		r.recorder.IncFileResult(metrics.FileWritten)
	default:
		r.recorder.IncFileResult(metrics.FileUnchanged)
	}
	r.recorder.ObserveCompileDuration(string(r.compiler.Options().Engine), outcome.Duration)
	r.recorder.AddDiagnostics(len(outcome.Diagnostics))
}

// Remove deletes the page generated from source, which no longer exists.
// It returns the output path and whether a file was removed.
func (r *Runner) Remove(opts Options, source string) (string, bool, error) {
	output, err := OutputPath(opts, source)
	if err != nil {
		return "", false, err
	}
	removed, err := fsutil.RemoveIfExists(output)
	if err != nil {
		return output, false, err
	}
	if removed {
		r.recorder.IncFileResult(metrics.FileRemoved)
	}
	return output, removed, nil
}

// checkLinks resolves every collected internal link against the output tree.
func checkLinks(lay layout, outcomes []FileOutcome) []BrokenLink {
	built := make(map[string]bool, len(outcomes))
	for _, o := range outcomes {
		if o.Error == nil {
			built[o.SitePath] = true
		}
	}

	var broken []BrokenLink
	for _, o := range outcomes {
		for _, l := range o.Links {
			target := l.Target(o.SitePath)
			if target == "" || built[target] || existsInOutput(lay, target) {
				continue
			}
			broken = append(broken, BrokenLink{Page: o.SitePath, Link: l, Target: target})
		}
	}

	sort.SliceStable(broken, func(i, j int) bool { return broken[i].Page < broken[j].Page })
	return broken
}

func existsInOutput(lay layout, target string) bool {
	p := filepath.Join(lay.output, filepath.FromSlash(strings.TrimPrefix(target, "/")))
	info, err := os.Stat(p)
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err = os.Stat(filepath.Join(p, "index.html"))
		return err == nil
	}
	return true
}
