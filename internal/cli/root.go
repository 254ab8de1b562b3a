// Package cli provides the Cobra command structure for blogc.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ZabraveniGeroi/blogc/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root blogc command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "blogc",
		Short: "A compiler and static site builder for a compact blog markup",
		Long: `blogc compiles pages written in a compact markup dialect to HTML and
builds them into a static blog.

Sources under the content directory are compiled in parallel, wrapped in the
site template and written to the output directory, touching only pages whose
content changed. blogc can also watch the content directory and serve the
result for local preview.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddGroup(commandGroups()...)
	for _, cmd := range []*cobra.Command{newBuildCommand(), newWatchCommand(), newServeCommand(), newInitCommand()} {
		cmd.GroupID = groupSite
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{newRenderCommand(), newTokensCommand(), newMetaCommand()} {
		cmd.GroupID = groupInspect
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
