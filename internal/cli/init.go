package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZabraveniGeroi/blogc/internal/configloader"
	"github.com/ZabraveniGeroi/blogc/internal/logging"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new blogc configuration file",
		Long: `Create a .blogc.yml configuration file in the current directory with the
default settings, ready to be customized. An existing file is never
overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd)
		},
	}

	return cmd
}

func runInit(cmd *cobra.Command) error {
	logger := logging.NewInteractive()

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	path, err := configloader.WriteProjectConfig(commandContext(cmd), workDir)
	if errors.Is(err, configloader.ErrConfigExists) {
		return fmt.Errorf("%w: %s already exists", ErrUsage, path)
	}
	if err != nil {
		return errors.Join(errIO, err)
	}

	logger.Info("created configuration file", logging.FieldPath, path)
	logger.Info("customize your configuration by editing the file")
	logger.Info("run 'blogc build' to build the site")

	return nil
}
