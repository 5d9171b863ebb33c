// Package commands implements CLI commands.
package commands

import (
	"github.com/satishbabariya/hdbwrap/internal/config"
	"github.com/satishbabariya/hdbwrap/internal/debug"
	"github.com/satishbabariya/hdbwrap/internal/ui"
	"github.com/spf13/cobra"
)

// app carries what the subcommands share.
type app struct {
	configPath string
	debug      bool
	noColor    bool
	cfg        *config.Config
}

// NewRootCommand creates the hdbwrap command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "hdbwrap",
		Short:         "Compile and run table queries",
		Long:          "hdbwrap compiles query files into parameterized SQL and runs them against an in-memory engine or a database",
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: .hdbwrap.yaml in ., $HOME or $HOME/.config/hdbwrap)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Log statements to stderr")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(NewCompileCommand())
	cmd.AddCommand(NewRunCommand(a))
	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	ui.Out = cmd.OutOrStdout()
	ui.Err = cmd.ErrOrStderr()
	if a.noColor {
		ui.DisableColor()
	}

	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.debug || cfg.Debug {
		debug.Configure(cmd.ErrOrStderr(), true, debug.FormatText)
	}
	return nil
}
