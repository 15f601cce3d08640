package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/substantial-kst/vscode-macros/internal/app"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handlers/macro"
	"github.com/substantial-kst/vscode-macros/internal/engine/tracking"
	"github.com/substantial-kst/vscode-macros/internal/testgen"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		write      bool
		diff       bool
		unresolved string
		escape     bool
	)

	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Turn an annotated outline into context and test blocks",
		Long: `Rewrite every annotation line of the file:

  C:, D:, S:  become  context "<label>" do  and are closed by "end"
  I:, T:      become  test "<label>" do     followed by "end"

Without --write the result is printed to stdout; --diff prints a unified
diff instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := opts.newApp(cmd, nil)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			doc, err := app.OpenDocument(args[0])
			if err != nil {
				return err
			}
			before := doc.Content()

			macroArgs := map[string]any{}
			if unresolved != "" {
				macroArgs[macro.ArgUnresolved] = unresolved
			}
			if escape {
				macroArgs[macro.ArgQuotes] = testgen.QuoteEscape.String()
			}

			result, err := application.Execute(macro.ActionGenerateRubyTestFile, doc, macroArgs)
			if err != nil {
				return err
			}
			if err := report(cmd.ErrOrStderr(), result); err != nil {
				return err
			}

			if diff {
				d := tracking.ComputeLineDiffStrings(before, doc.Content(), tracking.DefaultDiffOptions())
				fmt.Fprint(cmd.OutOrStdout(), tracking.UnifiedDiff(d, "a/"+doc.Name, "b/"+doc.Name))
				if !write {
					return nil
				}
			}
			return emit(cmd.OutOrStdout(), doc, write)
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "save the result back to the file")
	cmd.Flags().BoolVar(&diff, "diff", false, "print a unified diff of the change")
	cmd.Flags().StringVar(&unresolved, "unresolved", "", `containers left open at end of file: "skip" or "end" (default from testgen.unresolved)`)
	cmd.Flags().BoolVar(&escape, "escape", false, `backslash-escape " and \ in labels`)
	return cmd
}
