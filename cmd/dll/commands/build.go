package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/dll/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Rebuild stale bundles and record their state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			trace, _ := cmd.Flags().GetBool("trace")

			_, err := c.app.Build(cmd.Context(), app.BuildOptions{
				ConfigPath: c.configPath,
				Force:      force,
				DryRun:     dryRun,
				Trace:      trace,
			}, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return err
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Rebuild every bundle regardless of its state")
	cmd.Flags().BoolP("dry-run", "n", false, "Report stale bundles without rebuilding")
	cmd.Flags().Bool("trace", false, "Write tracing spans as JSON to stderr")

	return cmd
}
