package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// Execute runs the root command
func Execute(ctx context.Context, stdout, stderr io.Writer) error {
	root := newRootCommand()
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "compliance",
		Short:         "Inspect the compliance state of inventory systems",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "config file path (env CONFIG_PATH)")

	root.AddCommand(newShowCommand(&configPath))
	return root
}
