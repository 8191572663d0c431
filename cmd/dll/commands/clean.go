package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/dll/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the bundle state so the next build rebuilds everything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")
			return c.app.Clean(cmd.Context(), app.CleanOptions{ConfigPath: c.configPath, All: all})
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Also remove bundles, manifests and the entry file")

	return cmd
}
