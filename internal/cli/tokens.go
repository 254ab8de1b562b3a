package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/ZabraveniGeroi/blogc/internal/ui/pretty"
	"github.com/ZabraveniGeroi/blogc/pkg/runner"
)

type tokensFlags struct {
	collapse bool
	raw      bool
}

func newTokensCommand() *cobra.Command {
	flags := &tokensFlags{}

	cmd := &cobra.Command{
		Use:   "tokens FILE|-",
		Short: "Print the token stream of a source",
		Long: `Tokenize a source and print one row per token with its kind and text.

The text is HTML-escaped first, as the compiler does, so "<-|" shows up as a
FloatLeft token over "&lt;-|". Use --raw to tokenize the text as written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.collapse, "collapse", false, "merge runs of plain characters into one row")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "tokenize without HTML-escaping first")

	return cmd
}

func runTokens(cmd *cobra.Command, arg string, flags *tokensFlags) error {
	loadResult, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	raw, err := readInput(cmd, arg)
	if err != nil {
		return err
	}
	if !flags.raw {
		raw = html.EscapeString(raw)
	}

	tokens := runner.CompilerFromConfig(loadResult.Config).Grammar().Tokenize(raw)

	out := cmd.OutOrStdout()
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))
	formatter := pretty.NewTableFormatter(styles, pretty.TerminalWidth(out))

	if _, err := io.WriteString(out, formatter.FormatTokens(pretty.TokenRows(tokens, flags.collapse))); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
