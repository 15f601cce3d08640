package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/substantial-kst/vscode-macros/internal/app"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	workspace  string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "macros",
		Short: "Editor macros and the Ruby test outline generator",
		Long: `macros runs a small set of editor macros against files.

The generator turns an annotated outline such as

  D: Widget
    C: when empty
      T: is blank

into nested context and test blocks.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"user settings file (default: $XDG_CONFIG_HOME/macros/settings.toml)")
	cmd.PersistentFlags().StringVarP(&opts.workspace, "workspace", "w", "",
		"workspace directory holding .macros/config.toml or config.yaml")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"log level: debug, info, warn, error (default from logging.level)")

	cmd.AddCommand(
		newListCmd(opts),
		newRunCmd(opts),
		newGenerateCmd(opts),
		newZoomCmd(opts),
		newDateCmd(opts),
		newScriptCmd(opts),
		newWatchCmd(opts),
	)
	return cmd
}

// newApp builds the application for one command invocation. terminal,
// when non-nil, backs the active terminal.
func (o *rootOptions) newApp(cmd *cobra.Command, terminal io.Writer) (*app.Application, error) {
	return app.New(app.Options{
		ConfigPath:     o.configPath,
		WorkspacePath:  o.workspace,
		LogLevel:       o.logLevel,
		LogOutput:      cmd.ErrOrStderr(),
		TerminalOutput: terminal,
	})
}
