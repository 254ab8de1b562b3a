// Package watch rebuilds pages when their sources change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/ZabraveniGeroi/blogc/internal/logging"
	"github.com/ZabraveniGeroi/blogc/internal/metrics"
	"github.com/ZabraveniGeroi/blogc/pkg/fsutil"
	"github.com/ZabraveniGeroi/blogc/pkg/runner"
)

// Batch is the work done for one settled burst of events.
type Batch struct {
	// Built holds the outcome of every source that was recompiled.
	Built []runner.FileOutcome
	// Removed lists the pages deleted because their source disappeared.
	Removed []string
	// Unchanged lists sources whose events did not change their content.
	Unchanged []string
}

// Empty reports whether the batch did nothing.
func (b Batch) Empty() bool {
	return len(b.Built) == 0 && len(b.Removed) == 0
}

// Watcher follows the content directory and keeps the output in sync.
type Watcher struct {
	runner   *runner.Runner
	opts     runner.Options
	debounce time.Duration
	logger   *log.Logger
	recorder metrics.Recorder
	onBatch  func(Batch)

	// known fingerprints every source as it was last built. Only the Run
	// goroutine touches it after Seed.
	known map[string]*fsutil.FileInfo
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long events must settle before a rebuild.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger for rebuild lines.
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(w *Watcher) { w.recorder = metrics.OrNoop(rec) }
}

// WithBatchHook registers fn to be called after every processed batch.
func WithBatchHook(fn func(Batch)) Option {
	return func(w *Watcher) { w.onBatch = fn }
}

// New creates a Watcher that rebuilds with r using opts.
func New(r *runner.Runner, opts runner.Options, options ...Option) *Watcher {
	w := &Watcher{
		runner:   r,
		opts:     opts,
		debounce: 250 * time.Millisecond,
		logger:   logging.Default(),
		recorder: metrics.NoopRecorder{},
		known:    make(map[string]*fsutil.FileInfo),
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

// Seed records the sources of an initial build so that events which do not
// change a file's content are ignored.
func (w *Watcher) Seed(result *runner.Result) {
	if result == nil {
		return
	}
	for _, f := range result.Files {
		if f.Info != nil {
			w.known[f.Source] = f.Info
		}
	}
}

// Run watches until ctx is done. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	root, err := filepath.Abs(w.opts.ContentDir)
	if err != nil {
		return fmt.Errorf("resolve content directory: %w", err)
	}
	output, err := filepath.Abs(w.opts.OutputDir)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer fsw.Close()

	if _, err := w.addDirsRecursive(fsw, root, output); err != nil {
		return err
	}
	w.logger.Info("watching", logging.FieldContentDir, root)

	pending := make(map[string]fsnotify.Op)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.queue(fsw, ev, output, pending) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", logging.FieldError, err)

		case <-fire:
			fire = nil
			batch := w.process(ctx, pending)
			pending = make(map[string]fsnotify.Op)
			if w.onBatch != nil {
				w.onBatch(batch)
			}
		}
	}
}

// queue records ev in pending. It returns false when the event is irrelevant.
func (w *Watcher) queue(fsw *fsnotify.Watcher, ev fsnotify.Event, output string, pending map[string]fsnotify.Op) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	w.recorder.IncWatchEvent(strings.ToLower(ev.Op.String()))

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			// Files can land in a new directory before it is watched.
			added, err := w.addDirsRecursive(fsw, ev.Name, output)
			if err != nil {
				w.logger.Warn("watch add failed", logging.FieldPath, ev.Name, logging.FieldError, err)
			}
			for _, f := range added {
				pending[f] |= fsnotify.Create
			}
			return len(added) > 0
		}
	}

	if !runner.IsSource(w.opts, ev.Name) {
		return false
	}
	pending[ev.Name] |= ev.Op
	return true
}

// addDirsRecursive watches root and every non-hidden directory below it,
// returning the sources already present.
func (w *Watcher) addDirsRecursive(fsw *fsnotify.Watcher, root, output string) ([]string, error) {
	var sources []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			if runner.IsSource(w.opts, path) {
				sources = append(sources, path)
			}
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || path == output) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
	return sources, err
}

// process rebuilds or removes every pending source in path order.
func (w *Watcher) process(ctx context.Context, pending map[string]fsnotify.Op) Batch {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var batch Batch
	for _, source := range paths {
		if ctx.Err() != nil {
			break
		}

		if _, err := os.Stat(source); errors.Is(err, fs.ErrNotExist) {
			delete(w.known, source)
			output, removed, err := w.runner.Remove(w.opts, source)
			switch {
			case err != nil:
				w.logger.Error("remove failed", logging.FieldSource, source, logging.FieldError, err)
			case removed:
				w.logger.Info("removed", logging.FieldOutput, output)
				batch.Removed = append(batch.Removed, output)
			}
			continue
		}

		if info, ok := w.known[source]; ok && !w.opts.Force {
			changed, err := fsutil.Changed(ctx, info)
			if err == nil && !changed {
				batch.Unchanged = append(batch.Unchanged, source)
				continue
			}
		}

		outcome := w.runner.BuildFile(ctx, w.opts, source)
		batch.Built = append(batch.Built, outcome)
		if outcome.Error != nil {
			w.logger.Error("build failed", logging.FieldSource, source, logging.FieldError, outcome.Error)
			continue
		}
		w.known[source] = outcome.Info
		for _, d := range outcome.Diagnostics {
			w.logger.Warn(d.Error(), logging.FieldSource, source)
		}
		w.logger.Info("rebuilt",
			logging.FieldOutput, outcome.SitePath,
			logging.FieldDuration, outcome.Duration.Round(time.Microsecond))
	}

	return batch
}
