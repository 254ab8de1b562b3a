package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ZabraveniGeroi/blogc/internal/configloader"
	"github.com/ZabraveniGeroi/blogc/internal/logging"
	"github.com/ZabraveniGeroi/blogc/internal/metrics"
	"github.com/ZabraveniGeroi/blogc/internal/ui/pretty"
	"github.com/ZabraveniGeroi/blogc/internal/watch"
	"github.com/ZabraveniGeroi/blogc/pkg/config"
	"github.com/ZabraveniGeroi/blogc/pkg/runner"
)

func newWatchCommand() *cobra.Command {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Build the site and rebuild on change",
		Long: `Build the site once, then watch the content directory and rebuild pages
as their sources change. Deleting a source removes its page. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loadResult, err := loadConfig(cmd, &cfg)
			if err != nil {
				return err
			}
			site, err := startSite(cmd, loadResult, metrics.NoopRecorder{})
			if err != nil {
				return err
			}
			return site.watcher.Run(commandContext(cmd))
		},
	}

	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().DurationVar(&cfg.Watch.Debounce, "debounce", 0, "how long changes settle before a rebuild")

	return cmd
}

// liveSite is a built site with a watcher ready to keep it current.
type liveSite struct {
	opts    runner.Options
	watcher *watch.Watcher
	logger  *log.Logger
}

// startSite runs an initial build, prints its summary and prepares a watcher
// seeded with the result.
func startSite(cmd *cobra.Command, loadResult *configloader.LoadResult, recorder metrics.Recorder) (*liveSite, error) {
	cfg := loadResult.Config
	logger := logging.NewInteractive()
	if logging.Default().GetLevel() == log.DebugLevel {
		logger.SetLevel(log.DebugLevel)
	}

	opts := buildOptions(loadResult)
	siteRunner := runner.New(runner.CompilerFromConfig(cfg),
		runner.WithTemplate(runner.TemplateFromConfig(cfg)),
		runner.WithRecorder(recorder),
	)

	result, err := siteRunner.Run(commandContext(cmd), opts)
	if err != nil {
		return nil, fmt.Errorf("initial build: %w", err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprint(cmd.OutOrStdout(), styles.FormatFileError(file.Source, file.Error))
		}
		for _, diag := range file.Diagnostics {
			fmt.Fprint(cmd.OutOrStdout(), styles.FormatDiagnostic(file.Source, diag))
		}
	}
	fmt.Fprint(cmd.OutOrStdout(), styles.FormatSummaryOneLine(result.Stats, result.Duration))

	debounce := cfg.Watch.Debounce
	if debounce <= 0 {
		debounce = config.DefaultDebounce
	}

	watcher := watch.New(siteRunner, opts,
		watch.WithDebounce(debounce),
		watch.WithLogger(logger),
		watch.WithRecorder(recorder),
		watch.WithBatchHook(func(b watch.Batch) {
			logger.Debug("batch processed",
				"built", len(b.Built),
				"removed", len(b.Removed),
				"unchanged", len(b.Unchanged),
			)
		}),
	)
	watcher.Seed(result)

	logger.Info("watching",
		logging.FieldContentDir, opts.ContentDir,
		"debounce", debounce.Round(time.Millisecond),
	)

	return &liveSite{opts: opts, watcher: watcher, logger: logger}, nil
}
