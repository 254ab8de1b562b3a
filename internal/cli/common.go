package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZabraveniGeroi/blogc/internal/configloader"
	"github.com/ZabraveniGeroi/blogc/internal/logging"
	"github.com/ZabraveniGeroi/blogc/pkg/config"
	"github.com/ZabraveniGeroi/blogc/pkg/runner"
)

// stdinArg names standard input in place of a file argument.
const stdinArg = "-"

// commandContext returns the command's context, falling back to Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig discovers, merges and validates configuration with cliCfg
// applied on top. Warnings are logged.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*configloader.LoadResult, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(errConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldEngine, cfg.Engine,
		logging.FieldContentDir, cfg.ContentDir,
		logging.FieldOutputDir, cfg.OutputDir,
		logging.FieldJobs, cfg.Jobs,
	)

	return loadResult, nil
}

// buildOptions maps the loaded configuration onto runner options, resolving
// directories against the configuration's base directory.
func buildOptions(res *configloader.LoadResult) runner.Options {
	opts := runner.OptionsFromConfig(res.Config)
	opts.ContentDir = res.ResolvePath(res.Config.ContentDir)
	opts.OutputDir = res.ResolvePath(res.Config.OutputDir)
	return opts
}

// readInput reads a file argument, or standard input for "-".
func readInput(cmd *cobra.Command, arg string) (string, error) {
	if arg == stdinArg {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.Join(errIO, fmt.Errorf("read stdin: %w", err))
		}
		return string(data), nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return "", errors.Join(errIO, fmt.Errorf("read %s: %w", arg, err))
	}
	return string(data), nil
}

// logDiagnostics logs compile diagnostics as warnings.
func logDiagnostics(source string, diags []error) {
	logger := logging.Default()
	for _, diag := range diags {
		logger.Warn("diagnostic", logging.FieldSource, source, logging.FieldError, diag)
	}
}
