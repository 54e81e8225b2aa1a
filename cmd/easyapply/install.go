package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/easyapply/internal/browser"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install the Playwright driver and Chromium",
		Long: `Install downloads the Playwright driver and the Chromium build it drives.
Run it once before the first 'apply'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			setupLogger(cmd)
			if err := browser.Install(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Playwright and Chromium are installed.")
			return nil
		},
	}
}
