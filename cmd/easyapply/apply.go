package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/easyapply/internal/config"
)

// NewApplyCmd creates the apply command.
func NewApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Search LinkedIn and submit Easy Apply applications",
		Long: `Apply signs in to LinkedIn, searches for Easy Apply jobs and works through
the first --max job cards.

For each card it opens the application, answers the screening questions and
advances the wizard until the application is submitted or it gets stuck. Every
attempt that reached the form is appended to the CSV outcome file, and all
attempts are stored in the history database so later runs skip jobs that
were already submitted.

Settings are layered: built-in defaults, then the .easyapply file, then the
environment (and .env), then flags given on the command line.

Examples:
  # Apply to five jobs with the default search
  easyapply apply

  # Search for a different role in one location
  easyapply apply -k "Backend Engineer" -l "Berlin" -n 10

  # Answer from rules and heuristics only
  easyapply apply --no-llm

  # Open each Easy Apply dialog yourself and press ENTER
  easyapply apply --manual

  # Write a Markdown summary
  easyapply apply -m -o reports/run.md`,
		Args: cobra.NoArgs,
		RunE: runApplyCmd,
	}

	f := cmd.Flags()
	f.IntP("max", "n", config.DefaultMaxApplies, "Number of job cards to attempt")
	f.StringP("keywords", "k", config.DefaultKeywords, "Job search keywords")
	f.StringP("location", "l", "", "Job search location")
	f.String("search-url", "", "Full job search URL (overrides --keywords and --location)")
	f.StringP("resume", "r", "", "Resume file used as language model context (.docx, .txt, .md)")
	f.String("role", config.DefaultRole, "Position name used in language model prompts")
	f.String("csv", config.DefaultCSVPath, "CSV file outcome rows are appended to")
	f.Duration("modal-timeout", config.DefaultModalTimeout, "Time budget for one application form")
	f.Int("max-steps", config.DefaultMaxModalSteps, "Maximum number of form pages per application")
	f.Bool("headless", false, "Run the browser without a window")
	f.Bool("manual", false, "Wait for you to open each Easy Apply dialog")
	f.Bool("no-llm", false, "Do not use the language model")
	f.String("model", config.DefaultModel, "Chat completion model")
	f.Bool("no-skip-applied", false, "Also attempt jobs that were already submitted")
	f.String("db-dir", config.XDGDataDir(), "Directory of the history database (empty disables history)")
	f.String("snapshot-dir", config.NewConfig().SnapshotDir, "Directory for HTML snapshots of unfinished forms (empty disables snapshots)")
	f.String("env-file", ".env", "File with environment variables")
	f.StringP("config", "c", "", "Configuration file path (default: .easyapply in current or home directory)")
	f.BoolP("json", "j", false, "Output JSON report (mutually exclusive with --markdown)")
	f.BoolP("markdown", "m", false, "Output Markdown report (mutually exclusive with --json)")
	f.StringP("output", "o", "", "Write report to specified file path (creates directories if needed)")

	return cmd
}

func runApplyCmd(cmd *cobra.Command, _ []string) error {
	logger := setupLogger(cmd)

	cfg, err := buildConfig(cmd, os.LookupEnv)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runApply(ctx, cfg, cmd.OutOrStdout(), logger)
}

// buildConfig layers defaults, the config file, the environment and the
// flags that were set explicitly.
func buildConfig(cmd *cobra.Command, lookup func(string) (string, bool)) (*config.Config, error) {
	cfg := config.NewConfig()
	f := cmd.Flags()

	envFile, err := f.GetString("env-file")
	if err != nil {
		return nil, err
	}
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = f.GetString("config")
	if err != nil {
		return nil, err
	}
	if err := applyConfigFile(cfg); err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	cfg.Verbose = getBoolFlag(cmd, "verbose")
	return cfg, nil
}

// applyConfigFile loads the config file. A missing file is only an error
// when its path was given explicitly.
func applyConfigFile(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	file.Apply(cfg)
	return nil
}

// applyFlags copies the flags that were set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	var errs []error

	str := func(name string, dst *string) {
		if f.Changed(name) {
			v, err := f.GetString(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if f.Changed(name) {
			v, err := f.GetInt(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	flag := func(name string, dst *bool) {
		if f.Changed(name) {
			v, err := f.GetBool(name)
			errs = append(errs, err)
			*dst = v
		}
	}

	num("max", &cfg.MaxApplies)
	str("keywords", &cfg.Keywords)
	str("location", &cfg.Location)
	str("search-url", &cfg.SearchURL)
	str("resume", &cfg.ResumePath)
	str("role", &cfg.Role)
	str("csv", &cfg.CSVPath)
	num("max-steps", &cfg.MaxModalSteps)
	flag("headless", &cfg.Headless)
	flag("manual", &cfg.ManualApply)
	flag("no-llm", &cfg.NoLLM)
	str("model", &cfg.Model)
	str("db-dir", &cfg.DBDir)
	str("snapshot-dir", &cfg.SnapshotDir)
	flag("json", &cfg.JSONReport)
	flag("markdown", &cfg.MarkdownReport)
	str("output", &cfg.ReportFile)

	if f.Changed("modal-timeout") {
		v, err := f.GetDuration("modal-timeout")
		errs = append(errs, err)
		cfg.ModalTimeout = v
	}
	if f.Changed("no-skip-applied") {
		v, err := f.GetBool("no-skip-applied")
		errs = append(errs, err)
		cfg.SkipApplied = !v
	}
	return errors.Join(errs...)
}

// persistCtx keeps saving results after the run context is canceled.
func persistCtx(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
