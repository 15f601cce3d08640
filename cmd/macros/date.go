package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handlers/macro"
)

func newDateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "date",
		Short: "Type today's date into the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := opts.newApp(cmd, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer application.Shutdown()

			result, err := application.Execute(macro.ActionTerminalDate, nil, nil)
			if err != nil {
				return err
			}
			if err := report(cmd.ErrOrStderr(), result); err != nil {
				return err
			}
			if result.IsOK() {
				// The macro types without a newline.
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}
