package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/substantial-kst/vscode-macros/internal/config"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handlers/macro"
)

func newZoomCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "zoom",
		Short: "Toggle window.zoomLevel between normal and presentation size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := opts.newApp(cmd, nil)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			result, err := application.Execute(macro.ActionTogglePresentationMode, nil, nil)
			if err != nil {
				return err
			}
			if err := report(cmd.ErrOrStderr(), result); err != nil {
				return err
			}
			if !result.IsOK() {
				return nil
			}

			cfg := application.Config()
			if err := cfg.Save(config.ScopeUser); err != nil {
				return err
			}
			// The workspace override was cleared too; persist that only
			// when the workspace already has a settings file.
			if path := cfg.Path(config.ScopeWorkspace); path != "" {
				if _, err := os.Stat(path); err == nil {
					if err := cfg.Save(config.ScopeWorkspace); err != nil {
						return err
					}
				}
			}

			previous, _ := result.GetData("previous")
			zoom, _ := result.GetData("zoomLevel")
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %v -> %v\n", config.KeyZoomLevel, previous, zoom)
			return nil
		},
	}
}
