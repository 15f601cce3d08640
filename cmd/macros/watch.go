package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/substantial-kst/vscode-macros/internal/app"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>...",
		Short: "Regenerate test blocks whenever a watched file is saved",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := opts.newApp(cmd, nil)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return application.Watch(ctx, args, func(r app.Regeneration) {
				switch {
				case r.Err != nil:
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
				case r.Saved:
					fmt.Fprintf(out, "%s: %s\n", r.Path, r.Result.Message)
				}
			})
		},
	}
}
