package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/easyapply/internal/log"
)

// NewRootCmd creates the root command for easyapply.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "easyapply",
		Short: "Apply to LinkedIn Easy Apply jobs automatically",
		Long: `easyapply drives a Chromium window through LinkedIn Easy Apply applications.

It searches for jobs, opens each application, answers the screening questions
from your rules, your resume and a language model, and records the outcome of
every attempt in a CSV file and a local history database.

Credentials are read from the environment or a .env file:
  LINKEDIN_EMAIL, LINKEDIN_PASSWORD, RESUME_PATH, OPENAI_API_KEY`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewApplyCmd())
	cmd.AddCommand(NewInspectCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewInstallCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getBoolFlag retrieves a flag from the command or the root's persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// setupLogger creates the secret-redacting logger selected by --verbose
// and --log-json and installs it as the default.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	logger := log.NewLogger(cmd.ErrOrStderr(), getBoolFlag(cmd, "verbose"), getBoolFlag(cmd, "log-json"))
	slog.SetDefault(logger)
	return logger
}
