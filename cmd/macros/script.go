package main

import (
	"github.com/spf13/cobra"

	"github.com/substantial-kst/vscode-macros/internal/app"
)

func newScriptCmd(opts *rootOptions) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "script <script.lua> [file]",
		Short: "Run a Lua script with the macro and buffer modules",
		Long: `Run a sandboxed Lua script. The script sees two modules:

  macro.list(), macro.run(name [, args])
  buffer.text(), buffer.line(n), buffer.line_count(),
  buffer.selection(), buffer.selected_text(), buffer.select(sl, sc [, el, ec])

With a file argument the buffer module is bound to it; --write saves the
result.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := opts.newApp(cmd, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer application.Shutdown()

			var doc *app.Document
			if len(args) == 2 {
				if doc, err = app.OpenDocument(args[1]); err != nil {
					return err
				}
			}

			if err := application.RunScript(cmd.Context(), args[0], doc, cmd.OutOrStdout()); err != nil {
				return err
			}
			if doc != nil && write && doc.IsModified() {
				return doc.Save()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "save the file after the script ran")
	return cmd
}
