package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZabraveniGeroi/blogc/pkg/config"
	"github.com/ZabraveniGeroi/blogc/pkg/runner"
	"github.com/ZabraveniGeroi/blogc/pkg/site"
)

type renderFlags struct {
	fragment bool
	engine   string
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render FILE|-",
		Short: "Compile one source to standard output",
		Long: `Compile a single source and print the result.

By default the full page is printed, wrapped in the site template exactly as
"blogc build" writes it. With --fragment only the compiled body is printed.
Diagnostics are logged to standard error.

Examples:
  blogc render content/index.md
  echo '**hi**' | blogc render - --fragment`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.fragment, "fragment", false, "print only the compiled body")
	cmd.Flags().StringVar(&flags.engine, "engine", "", "override the configured engine: dialect, commonmark")

	return cmd
}

func runRender(cmd *cobra.Command, arg string, flags *renderFlags) error {
	cliCfg := &config.Config{Engine: config.Engine(flags.engine)}
	loadResult, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}
	cfg := loadResult.Config

	raw, err := readInput(cmd, arg)
	if err != nil {
		return err
	}

	doc := runner.CompilerFromConfig(cfg).Compile(raw)
	logDiagnostics(arg, doc.Diagnostics)

	out := bufio.NewWriter(cmd.OutOrStdout())
	if flags.fragment {
		if _, err := out.WriteString(doc.HTML() + "\n"); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else if err := site.Render(out, doc, runner.TemplateFromConfig(cfg)); err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
