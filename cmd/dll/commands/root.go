// Package commands implements the CLI commands for dll.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/dll/internal/app"
	"go.trai.ch/dll/internal/build"
	"go.trai.ch/dll/internal/core/ports"
	"go.trai.ch/dll/internal/engine/validity"
)

// CLI represents the command line interface for dll.
type CLI struct {
	app     Application
	logger  ports.Logger
	rootCmd *cobra.Command

	configPath string
	jsonLog    bool
}

// Application represents the application logic interface.
type Application interface {
	Check(ctx context.Context, opts app.CheckOptions) (*validity.Result, error)
	Build(ctx context.Context, opts app.BuildOptions, stdout, stderr io.Writer) (*validity.Result, error)
	Watch(ctx context.Context, opts app.WatchOptions, stdout, stderr io.Writer) error
	Clean(ctx context.Context, opts app.CleanOptions) error
}

// jsonSwitcher is implemented by loggers that can emit JSON.
type jsonSwitcher interface {
	SetJSON(enable bool)
}

// New creates a new CLI instance. When logger supports it, --json-log switches
// it to JSON output.
func New(a Application, logger ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "dll",
		Short:         "Rebuild vendor DLL bundles only when their composition changes",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		logger:  logger,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "",
		"Path to dll.yaml (default: discovered from the working directory upwards)")
	rootCmd.PersistentFlags().BoolVar(&c.jsonLog, "json-log", false, "Write log lines as JSON")
	rootCmd.PersistentPreRun = func(*cobra.Command, []string) {
		if s, ok := c.logger.(jsonSwitcher); ok && c.jsonLog {
			s.SetJSON(true)
		}
	}

	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
