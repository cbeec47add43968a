// Package cli is the tada command line. Without a subcommand it opens the
// interactive list; the subcommands drive the same engine to completion and
// print the outcome.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

type rootFlags struct {
	configPath  string
	ownerID     int
	backend     string
	apiURL      string
	data        string
	theme       string
	logLevel    string
	metricsAddr string
	forceColor  bool
	noColor     bool
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.close()
	return exitCode(stderr, err)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tada",
		Short: "A todo list kept in sync with a remote store",
		Long: `tada keeps your todo list in sync with a remote store.

Run it without a subcommand for the interactive list.`,
		Example: `  tada
  tada add "Buy milk"
  tada ls --plain
  tada done 2
  tada rm 3`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.interactive(cmd.Context(), model.FilterAll)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErr("%v", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default ~/.tada/config.yaml)")
	pf.IntVar(&a.flags.ownerID, "owner", 0, "owner id (overrides TADA_OWNER_ID)")
	pf.StringVar(&a.flags.backend, "backend", "", "remote backend: http, json or sqlite")
	pf.StringVar(&a.flags.apiURL, "api-url", "", "base url of the todos API")
	pf.StringVar(&a.flags.data, "data", "", "data file for the json and sqlite backends (default ~/.tada/todos.json or ~/.tada/todos.db)")
	pf.StringVar(&a.flags.theme, "theme", "", "output theme: "+strings.Join(ui.Themes(), ", "))
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&a.flags.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	pf.BoolVar(&a.flags.forceColor, "color", false, "force colored output")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.lsCmd(),
		a.addCmd(),
		a.doneCmd(),
		a.rmCmd(),
		a.editCmd(),
		a.toggleAllCmd(),
		a.clearCmd(),
		a.authCmd(),
	)
	return root
}

// usageArgs turns cobra's argument validation errors into usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageErr("%v\nRun '%s --help' for usage.", err, cmd.CommandPath())
		}
		return nil
	}
}

func (a *app) applyOutput() {
	ui.SetOutput(a.stdout)
	ui.SetTheme(a.cfg.Theme)
	if a.flags.forceColor || a.flags.noColor {
		ui.SetColorForcing(a.flags.forceColor, a.flags.noColor)
	}
}
