package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/easyapply/internal/config"
	"github.com/nao1215/easyapply/internal/form"
	"github.com/nao1215/easyapply/internal/model"
	"github.com/nao1215/easyapply/internal/snapshot"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <snapshot.html>",
		Short: "Show what the bot would do on a saved application form",
		Long: `Inspect loads an application form saved as HTML and runs the form wizard on
it without a browser. It prints how the page is classified, every field it
would fill with the answer it would give, and the button it would press.

Snapshots are saved by 'apply' for every application that was not
submitted. Any page saved from the browser works too.

Only the answer rules from the configuration file and the built-in
heuristics are used; the language model is not called.

Examples:
  easyapply inspect ~/.cache/easyapply/snapshots/backend-engineer-20240501-090000.html

  # Save the filled form to look at it in a browser
  easyapply inspect form.html -w filled.html`,
		Args: cobra.ExactArgs(1),
		RunE: runInspectCmd,
	}

	cmd.Flags().StringP("config", "c", "", "Configuration file path (default: .easyapply in current or home directory)")
	cmd.Flags().StringP("write", "w", "", "Write the filled form to this file")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")

	return cmd
}

// inspection is the result of running the wizard on a snapshot.
type inspection struct {
	Heading     string            `json:"heading"`
	Kind        string            `json:"kind"`
	Fingerprint string            `json:"fingerprint"`
	Outcome     model.Outcome     `json:"outcome"`
	Actions     []snapshot.Action `json:"actions"`
}

func runInspectCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(cmd)

	cfg := config.NewConfig()
	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if err := applyConfigFile(cfg); err != nil {
		return err
	}
	writePath, err := cmd.Flags().GetString("write")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	m, err := snapshot.Load(args[0])
	if err != nil {
		return err
	}

	cfg.NoLLM = true
	wizard := newWizard(cfg, newAnswerer(cfg, nil, "", logger), logger, form.WithPauser(form.NoPause))
	res := inspect(cmd.Context(), wizard, m)

	if writePath != "" {
		if err := writeSnapshot(m, writePath); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printInspection(out, res)
	return nil
}

// inspect reads the page before the wizard changes it, then runs the wizard.
func inspect(ctx context.Context, w *form.Wizard, m *snapshot.Modal) inspection {
	heading, _ := m.Heading() //nolint:errcheck // snapshots never fail to read
	res := inspection{
		Heading:     heading,
		Kind:        form.Classify(heading).String(),
		Fingerprint: form.Fingerprint(m),
	}
	res.Outcome = w.Run(ctx, m)
	res.Actions = m.Actions()
	return res
}

func printInspection(out io.Writer, res inspection) {
	fmt.Fprintf(out, "Heading:     %s\n", res.Heading)
	fmt.Fprintf(out, "Page kind:   %s\n", res.Kind)
	fmt.Fprintf(out, "Fingerprint: %s\n", res.Fingerprint)
	fmt.Fprintf(out, "Stopped:     %s after %d step(s), %d field(s) filled\n",
		res.Outcome.Reason, res.Outcome.Steps, res.Outcome.FieldsFilled)
	fmt.Fprintln(out)
	if len(res.Actions) == 0 {
		fmt.Fprintln(out, "No actions.")
		return
	}
	fmt.Fprintln(out, "Actions:")
	for i, a := range res.Actions {
		fmt.Fprintf(out, "  %2d. %s\n", i+1, a)
	}
}

func writeSnapshot(m *snapshot.Modal, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := m.Render(f); err != nil {
		f.Close() //nolint:errcheck,gosec // the render error is returned
		return fmt.Errorf("failed to write filled form: %w", err)
	}
	return f.Close()
}
