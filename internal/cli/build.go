package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZabraveniGeroi/blogc/internal/logging"
	"github.com/ZabraveniGeroi/blogc/internal/metrics"
	"github.com/ZabraveniGeroi/blogc/pkg/config"
	"github.com/ZabraveniGeroi/blogc/pkg/reporter"
	"github.com/ZabraveniGeroi/blogc/pkg/runner"
)

type buildFlags struct {
	format     string
	ignore     []string
	strict     bool
	checkLinks bool
	verbose    bool
	compact    bool
}

func newBuildCommand() *cobra.Command {
	var cfg config.Config
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Build the site",
		Long:  buildLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, &cfg, flags)
		},
	}

	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&cfg.Force, "force", false, "rewrite pages even when unchanged")
	cmd.Flags().BoolVar(&flags.checkLinks, "check-links", false, "report internal links with no target")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list every page, not only those with problems")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output where applicable")

	return cmd
}

const buildLongDescription = `Build every source under the content directory into the output directory.

Pages are written atomically and only when their content changed, so repeated
builds leave untouched pages alone. Paths narrow the build to specific sources
relative to the content directory.

Examples:
  blogc build                    # Build the whole site
  blogc build posts/hello.md     # Rebuild one page
  blogc build --force            # Rewrite every page
  blogc build --check-links      # Warn about internal links with no target
  blogc build --format json      # Machine-readable report`

func runBuild(cmd *cobra.Command, args []string, cfg *config.Config, flags *buildFlags) error {
	logger := logging.Default()

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	cfg.Ignore = flags.ignore
	loadResult, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}
	finalCfg := loadResult.Config

	opts := buildOptions(loadResult)
	opts.Paths = args
	opts.CheckLinks = flags.checkLinks

	buildRunner := runner.New(runner.CompilerFromConfig(finalCfg),
		runner.WithTemplate(runner.TemplateFromConfig(finalCfg)),
		runner.WithRecorder(metrics.NoopRecorder{}),
		runner.WithFileHook(func(outcome runner.FileOutcome) {
			if outcome.Error != nil {
				return
			}
			logger.Debug("built",
				logging.FieldSource, outcome.Source,
				logging.FieldOutput, outcome.Output,
				logging.FieldDuration, outcome.Duration,
			)
		}),
	)

	logger.Debug("starting build",
		"paths", opts.Paths,
		logging.FieldContentDir, opts.ContentDir,
		logging.FieldJobs, opts.Jobs,
	)

	result, err := buildRunner.Run(commandContext(cmd), opts)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	workDir, err := os.Getwd()
	if err != nil {
		workDir = ""
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode,
		ShowSummary: true,
		Verbose:     flags.verbose,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(commandContext(cmd), result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	switch ExitCodeFromResult(result, flags.strict) {
	case ExitBuildFailed:
		return ErrBuildFailed
	case ExitBuildWarnings:
		return ErrBuildWarnings
	default:
		return nil
	}
}
