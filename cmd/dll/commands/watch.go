package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/dll/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rebuild stale bundles whenever the configuration changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Watch(cmd.Context(), app.WatchOptions{ConfigPath: c.configPath},
				cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}
