package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/substantial-kst/vscode-macros/internal/app"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handler"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		selection string
		write     bool
	)

	cmd := &cobra.Command{
		Use:   "run <name> [file]",
		Short: "Run one macro, optionally against a file",
		Long: `Run a macro by name (see "macros list") or action.

Without --write the resulting document is printed to stdout.

Examples:
  macros run CreateTest spec/widget_test.rb --selection 3:3-3:20 --write
  macros run EditorDate notes.txt --selection 1:1`,
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
				if selection != "" {
					sel, err := parseSelection(selection)
					if err != nil {
						return err
					}
					if err := doc.Buffer.SetSelection(sel); err != nil {
						return fmt.Errorf("selection %q: %w", selection, err)
					}
				}
			}

			result, err := application.Execute(args[0], doc, nil)
			if err != nil {
				return err
			}
			if err := report(cmd.ErrOrStderr(), result); err != nil {
				return err
			}
			if doc == nil {
				return nil
			}
			return emit(cmd.OutOrStdout(), doc, write)
		},
	}

	cmd.Flags().StringVarP(&selection, "selection", "s", "", "selection as LINE:COL-LINE:COL or LINE:COL (1-based)")
	cmd.Flags().BoolVar(&write, "write", false, "save the document instead of printing it")
	return cmd
}

// report prints the result message and turns error results into errors.
func report(w io.Writer, result handler.Result) error {
	switch result.Status {
	case handler.StatusError:
		if result.Error == nil {
			return errors.New(result.Message)
		}
		if result.Message != "" {
			return fmt.Errorf("%s: %w", result.Message, result.Error)
		}
		return result.Error
	case handler.StatusCancelled:
		return fmt.Errorf("cancelled: %s", result.Message)
	}
	if result.Message != "" {
		fmt.Fprintln(w, result.Message)
	}
	return nil
}

// emit saves doc when write is set and prints it otherwise.
func emit(w io.Writer, doc *app.Document, write bool) error {
	if write {
		if !doc.IsModified() {
			return nil
		}
		return doc.Save()
	}
	_, err := io.WriteString(w, doc.Content())
	return err
}
