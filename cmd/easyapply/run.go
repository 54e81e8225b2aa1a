package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/easyapply/internal/answer"
	"github.com/nao1215/easyapply/internal/browser"
	"github.com/nao1215/easyapply/internal/config"
	"github.com/nao1215/easyapply/internal/database"
	"github.com/nao1215/easyapply/internal/form"
	"github.com/nao1215/easyapply/internal/llm"
	"github.com/nao1215/easyapply/internal/model"
	"github.com/nao1215/easyapply/internal/pipeline"
	"github.com/nao1215/easyapply/internal/record"
	"github.com/nao1215/easyapply/internal/report"
	"github.com/nao1215/easyapply/internal/resume"
)

// runApply performs one application run.
func runApply(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	var (
		client   *llm.Client
		verifier modelVerifier
	)
	if !cfg.NoLLM {
		client = llm.New(cfg.OpenAIKey,
			llm.WithModel(cfg.Model),
			llm.WithTimeout(cfg.LLMTimeout),
			llm.WithLogger(logger),
		)
		verifier = client
	}
	resumeText, err := preflight(ctx, cfg, verifier, logger)
	if err != nil {
		return err
	}
	answerer := newAnswerer(cfg, client, resumeText, logger)
	wizard := newWizard(cfg, answerer, logger)

	var db *database.HistoryDB
	if cfg.DBDir != "" {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
	}

	session, err := browser.NewSession(browser.Options{
		Headless:          cfg.Headless,
		StorageStatePath:  cfg.StorageStatePath(),
		NavigationTimeout: cfg.NavigationTimeout,
		LoginTimeout:      cfg.LoginTimeout,
		Manual:            cfg.ManualApply,
		Out:               out,
		Logger:            logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("failed to close browser", "error", err)
		}
	}()

	run := model.NewRunSummary(uuid.NewString(), cfg.JobSearchURL())
	if db != nil {
		if err := db.StartRun(ctx, run); err != nil {
			logger.Warn("failed to record run start", "error", err)
		}
	}

	n, err := findJobs(ctx, session, cfg, run.SearchURL, logger)
	if err != nil {
		return err
	}
	run.CardsFound = n

	var history pipeline.History
	if db != nil && cfg.SkipApplied {
		history = db
	}
	appender := record.NewAppender(cfg.CSVPath)
	runner := pipeline.NewRunner(
		func() *pipeline.Pipeline {
			p := pipeline.New(pipeline.WithLogger(logger))
			p.AddSteps(pipeline.Steps(session, history, wizard, logger,
				pipeline.WithSnapshotDir(cfg.SnapshotDir))...)
			return p
		},
		pipeline.WithRunnerLogger(logger),
		pipeline.WithAttemptHook(func(ctx context.Context, a *model.Attempt) {
			persistAttempt(persistCtx(ctx), db, appender, run.RunID, a, logger)
		}),
	)

	runErr := runner.Run(ctx, run, min(n, cfg.MaxApplies))
	run.FinishedAt = time.Now()
	run.Answers = answerer.Stats()
	if db != nil {
		if err := db.FinishRun(persistCtx(ctx), run); err != nil {
			logger.Warn("failed to record run end", "error", err)
		}
	}

	if err := outputReport(cfg, run, out); err != nil {
		return errors.Join(runErr, err)
	}
	if runErr != nil {
		return fmt.Errorf("run interrupted: %w", runErr)
	}
	return nil
}

// modelVerifier is the part of *llm.Client that checks the model works.
type modelVerifier interface {
	Verify(ctx context.Context) (string, error)
	Model() string
}

// preflight loads the resume and checks the language model concurrently.
// verifier is nil when the language model is disabled.
func preflight(ctx context.Context, cfg *config.Config, verifier modelVerifier, logger *slog.Logger) (string, error) {
	var resumeText string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := resume.Load(cfg.ResumePath)
		if err != nil {
			return fmt.Errorf("failed to load resume: %w", err)
		}
		resumeText = text
		logger.Debug("resume loaded", "path", cfg.ResumePath, "chars", len(text))
		return nil
	})
	if verifier != nil {
		g.Go(func() error {
			return verifyModel(gctx, verifier, logger)
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return resumeText, nil
}

// verifyModel sends the health check prompt. A reply without "ready" is
// only a warning; API errors are returned.
func verifyModel(ctx context.Context, v modelVerifier, logger *slog.Logger) error {
	reply, err := v.Verify(ctx)
	switch {
	case errors.Is(err, llm.ErrNotReady):
		logger.Warn("unexpected language model reply", "model", v.Model(), "reply", reply)
	case err != nil:
		return fmt.Errorf("language model check failed: %w", err)
	default:
		logger.Debug("language model ready", "model", v.Model())
	}
	return nil
}

// newAnswerer builds the answerer from the configured rules and, when
// client is not nil, the language model.
func newAnswerer(cfg *config.Config, client *llm.Client, resumeText string, logger *slog.Logger) *answer.Answerer {
	user := make([]answer.Rule, 0, len(cfg.Answers))
	for _, r := range cfg.Answers {
		user = append(user, answer.Rule{Match: r.Match, Answer: r.Answer})
	}
	opts := []answer.Option{
		answer.WithRules(answer.MergeRules(user, answer.DefaultRules())),
		answer.WithRetries(cfg.LLMRetries),
		answer.WithLogger(logger),
	}
	if client != nil {
		opts = append(opts, answer.WithCompleter(client, resumeText, cfg.Role))
	}
	return answer.New(opts...)
}

func newWizard(cfg *config.Config, answers form.Answerer, logger *slog.Logger, opts ...form.WizardOption) *form.Wizard {
	opts = append([]form.WizardOption{
		form.WithMaxSteps(cfg.MaxModalSteps),
		form.WithTimeout(cfg.ModalTimeout),
		form.WithWizardLogger(logger),
	}, opts...)
	return form.NewWizard(form.NewFiller(answers, logger), opts...)
}

// findJobs signs in, opens the search and loads job cards.
func findJobs(ctx context.Context, s *browser.Session, cfg *config.Config, searchURL string, logger *slog.Logger) (int, error) {
	logger.Info("signing in", "email", cfg.Email)
	if err := s.Login(ctx, cfg.Email, cfg.Password); err != nil {
		return 0, err
	}
	if err := s.Search(ctx, searchURL); err != nil {
		return 0, err
	}
	n, err := s.CollectCards(ctx, cfg.MaxApplies)
	if err != nil {
		return 0, err
	}
	logger.Info("job cards loaded", "cards", n, "wanted", cfg.MaxApplies)
	return n, nil
}

// persistAttempt stores a finished attempt. Skipped attempts are not
// stored; only attempts that reached the form get a CSV row.
func persistAttempt(ctx context.Context, db *database.HistoryDB, appender *record.Appender, runID string, a *model.Attempt, logger *slog.Logger) {
	if a.Status == model.StatusSkipped {
		return
	}
	rec := model.NewApplicationRecord(runID, a)

	if db != nil {
		if err := db.SaveApplication(ctx, &rec); err != nil {
			logger.Error("failed to save application", "title", rec.Title, "error", err)
		}
	}
	if appender != nil && rec.Status.Recorded() {
		if err := appender.Append([]model.ApplicationRecord{rec}); err != nil {
			logger.Error("failed to append outcome row", "path", appender.Path(), "error", err)
		}
	}
}

// outputReport writes the run summary to cfg.ReportFile or out.
func outputReport(cfg *config.Config, run *model.RunSummary, out io.Writer) error {
	output := out
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewTextWriter(output, report.WithVerbose(cfg.Verbose))
	}
	_, err := w.Write(run)
	return err
}
