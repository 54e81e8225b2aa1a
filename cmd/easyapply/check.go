package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/easyapply/internal/config"
	"github.com/nao1215/easyapply/internal/llm"
	"github.com/nao1215/easyapply/internal/resume"
)

// resumePreviewLength is the number of resume characters printed by check.
const resumePreviewLength = 300

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the resume and the language model settings",
		Long: `Check loads the configuration the same way 'apply' does, then reads the
resume and sends a short test prompt to the language model. Nothing is
done on LinkedIn.

Examples:
  easyapply check
  easyapply check --resume cv.docx --no-llm`,
		Args: cobra.NoArgs,
		RunE: runCheckCmd,
	}

	cmd.Flags().StringP("resume", "r", "", "Resume file (.docx, .txt, .md)")
	cmd.Flags().String("model", config.DefaultModel, "Chat completion model")
	cmd.Flags().Bool("no-llm", false, "Skip the language model check")
	cmd.Flags().String("env-file", ".env", "File with environment variables")
	cmd.Flags().StringP("config", "c", "", "Configuration file path (default: .easyapply in current or home directory)")

	return cmd
}

func runCheckCmd(cmd *cobra.Command, _ []string) error {
	logger := setupLogger(cmd)

	cfg, err := buildConfig(cmd, os.LookupEnv)
	if err != nil {
		return err
	}

	var verifier modelVerifier
	if !cfg.NoLLM {
		if cfg.OpenAIKey == "" {
			return config.ErrMissingAPIKey
		}
		verifier = llm.New(cfg.OpenAIKey, llm.WithModel(cfg.Model), llm.WithLogger(logger))
	}
	return runCheck(cmd.Context(), cfg, verifier, cmd.OutOrStdout())
}

// runCheck prints the resume preview and the model reply. verifier may be
// nil to skip the model.
func runCheck(ctx context.Context, cfg *config.Config, verifier modelVerifier, out io.Writer) error {
	if cfg.ResumePath == "" {
		return config.ErrMissingResume
	}
	text, err := resume.Load(cfg.ResumePath)
	if err != nil {
		return fmt.Errorf("failed to load resume: %w", err)
	}
	fmt.Fprintf(out, "Resume:  %s (%d characters)\n", cfg.ResumePath, len([]rune(text)))
	fmt.Fprintf(out, "Preview: %s\n", resume.Preview(text, resumePreviewLength))

	if verifier == nil {
		fmt.Fprintln(out, "Model:   disabled")
		return nil
	}
	reply, err := verifier.Verify(ctx)
	if err != nil && !errors.Is(err, llm.ErrNotReady) {
		return fmt.Errorf("language model check failed (%s): %w", verifier.Model(), err)
	}
	fmt.Fprintf(out, "Model:   %s replied %q\n", verifier.Model(), reply)
	if err != nil {
		fmt.Fprintln(out, `Warning: the reply does not contain "ready"; answers may be unreliable`)
	}
	return nil
}
