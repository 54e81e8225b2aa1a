package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/easyapply/internal/config"
	"github.com/nao1215/easyapply/internal/database"
	"github.com/nao1215/easyapply/internal/model"
	"github.com/nao1215/easyapply/internal/report"
)

// defaultHistoryLimit is the number of applications listed by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded applications",
		Long: `History lists the applications stored by previous runs, newest first.

Examples:
  # Last 20 applications
  easyapply history

  # Only applications that were not submitted
  easyapply history --status Incomplete

  # Totals and the last runs
  easyapply history --stats --runs

  # Everything from one run as JSON
  easyapply history --run 3f0c... --limit 0 --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("status", "", "Only show applications with this status (Success, Incomplete, Failed)")
	cmd.Flags().String("run", "", "Only show applications of this run")
	cmd.Flags().Int("limit", defaultHistoryLimit, "Maximum number of rows (0 for all)")
	cmd.Flags().Bool("stats", false, "Show totals")
	cmd.Flags().Bool("runs", false, "Show runs")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory of the history database")
	cmd.Flags().BoolP("json", "j", false, "Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown (mutually exclusive with --json)")

	return cmd
}

// historyOptions are the parsed history flags.
type historyOptions struct {
	dbDir  string
	filter database.Filter
	stats  bool
	runs   bool
	format report.Format
	list   bool
}

func parseHistoryFlags(cmd *cobra.Command) (*historyOptions, error) {
	f := cmd.Flags()
	var errs []error
	get := func(v string, err error) string { errs = append(errs, err); return v }
	getBool := func(v bool, err error) bool { errs = append(errs, err); return v }

	opts := &historyOptions{dbDir: get(f.GetString("db-dir"))}
	opts.filter.Status = model.Status(get(f.GetString("status")))
	opts.filter.RunID = get(f.GetString("run"))
	limit, err := f.GetInt("limit")
	errs = append(errs, err)
	opts.filter.Limit = limit
	opts.stats = getBool(f.GetBool("stats"))
	opts.runs = getBool(f.GetBool("runs"))
	asJSON := getBool(f.GetBool("json"))
	asMarkdown := getBool(f.GetBool("markdown"))
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	switch opts.filter.Status {
	case "", model.StatusSuccess, model.StatusIncomplete, model.StatusFailed:
	default:
		return nil, fmt.Errorf("unknown status %q (want Success, Incomplete or Failed)", opts.filter.Status)
	}
	if asJSON && asMarkdown {
		return nil, config.ErrConflictingReportFormats
	}
	switch {
	case asJSON:
		opts.format = report.FormatJSON
	case asMarkdown:
		opts.format = report.FormatMarkdown
	default:
		opts.format = report.FormatText
	}

	// --stats or --runs alone replace the list; filters bring it back.
	opts.list = !(opts.stats || opts.runs) || f.Changed("status") || f.Changed("run") || f.Changed("limit")
	return opts, nil
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	setupLogger(cmd)

	opts, err := parseHistoryFlags(cmd)
	if err != nil {
		return err
	}

	db, err := database.Open(opts.dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database (run 'easyapply apply' first): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	h := &report.History{}
	if opts.list {
		h.Applications, err = db.ListApplications(ctx, opts.filter)
		if err != nil {
			return err
		}
		if h.Applications == nil {
			h.Applications = []model.ApplicationRecord{}
		}
	}
	if opts.runs {
		if h.Runs, err = db.ListRuns(ctx, opts.filter.Limit); err != nil {
			return err
		}
	}
	if opts.stats {
		if h.Stats, err = db.Stats(ctx); err != nil {
			return err
		}
	}

	_, err = report.New(opts.format, cmd.OutOrStdout()).WriteHistory(h)
	return err
}
