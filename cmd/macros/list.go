package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the macros in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := opts.newApp(cmd, nil)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NO\tNAME\tACTION\tDESCRIPTION")
			for _, m := range application.Macros().List() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.No, m.Name, m.Action, m.Description)
			}
			return tw.Flush()
		},
	}
}
