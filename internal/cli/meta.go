package cli

import (
	"bufio"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ZabraveniGeroi/blogc/pkg/compiler"
	"github.com/ZabraveniGeroi/blogc/pkg/config"
	"github.com/ZabraveniGeroi/blogc/pkg/runner"
)

const (
	metaFormatText = "text"
	metaFormatYAML = "yaml"
)

type metaFlags struct {
	quick  bool
	format string
}

func newMetaCommand() *cobra.Command {
	flags := &metaFlags{}

	cmd := &cobra.Command{
		Use:   "meta FILE|-",
		Short: "Print the metadata of a source",
		Long: `Print the "-attr: key = value" metadata of a source.

By default the source is compiled and values are printed as rendered, so
inline markup in a value shows up as HTML. With --quick the source is only
scanned line by line and values are printed as written.

Examples:
  blogc meta content/index.md
  blogc meta content/index.md --quick --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMeta(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.quick, "quick", false, "scan metadata lines without compiling")
	cmd.Flags().StringVar(&flags.format, "format", metaFormatText, "output format: text, yaml")

	return cmd
}

func runMeta(cmd *cobra.Command, arg string, flags *metaFlags) error {
	if flags.format != metaFormatText && flags.format != metaFormatYAML {
		return fmt.Errorf("%w: invalid format %q: must be text or yaml", ErrUsage, flags.format)
	}

	raw, err := readInput(cmd, arg)
	if err != nil {
		return err
	}

	meta, err := readMetadata(cmd, arg, raw, flags.quick)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	switch flags.format {
	case metaFormatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(config.YAMLIndent())
		if err := encoder.Encode(meta); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("close encoder: %w", err)
		}
	default:
		for _, key := range slices.Sorted(maps.Keys(meta)) {
			fmt.Fprintf(out, "%s = %s\n", key, meta[key])
		}
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func readMetadata(cmd *cobra.Command, source, raw string, quick bool) (map[string]string, error) {
	if quick {
		meta, problems, err := compiler.ScanMetadata(strings.NewReader(raw))
		if err != nil {
			return nil, err
		}
		logDiagnostics(source, problems)
		return meta, nil
	}

	loadResult, err := loadConfig(cmd, nil)
	if err != nil {
		return nil, err
	}
	doc := runner.CompilerFromConfig(loadResult.Config).Compile(raw)
	logDiagnostics(source, doc.Diagnostics)
	return doc.Meta, nil
}
