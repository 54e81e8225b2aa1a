package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/easyapply/internal/model"
)

// Runner feeds the job cards of one run through a pipeline.
//
// Cards are processed one at a time: they share a browser page, and the
// pacing between applications is part of looking like a person.
type Runner struct {
	// pipelineFactory creates a fresh pipeline for each card.
	pipelineFactory func() *Pipeline

	logger *slog.Logger

	// onAttempt is called after each finished attempt.
	onAttempt func(ctx context.Context, a *model.Attempt)

	now func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets a custom logger for the runner.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithAttemptHook sets a callback that receives every finished attempt,
// e.g. to persist it before the next card is opened.
func WithAttemptHook(fn func(ctx context.Context, a *model.Attempt)) RunnerOption {
	return func(r *Runner) {
		r.onAttempt = fn
	}
}

// NewRunner creates a Runner.
func NewRunner(pipelineFactory func() *Pipeline, opts ...RunnerOption) *Runner {
	r := &Runner{
		pipelineFactory: pipelineFactory,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Run attempts the first n cards and adds every attempt to run.
// A failed card never stops the run; only cancellation does, in which
// case the context error is returned.
func (r *Runner) Run(ctx context.Context, run *model.RunSummary, n int) error {
	r.logger.Info("starting applications", "run", run.RunID, "cards", n)
	start := r.now()

	for i := range n {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("run canceled", "processed", i, "total", n)
			return err
		}

		a := model.NewAttempt(i)
		a.StartedAt = r.now()
		if err := r.pipelineFactory().Execute(ctx, a); err != nil {
			r.logger.Warn("application failed", "job", i+1, "title", a.Job.Title, "error", err)
		}
		a.Finish(r.now())
		run.Add(a)

		r.logger.Info("application finished",
			"job", i+1,
			"total", n,
			"title", a.Job.Title,
			"status", a.Status,
			"runtime", model.FormatRuntime(a.Runtime()),
		)
		if r.onAttempt != nil {
			r.onAttempt(ctx, a)
		}
	}

	r.logger.Info("applications complete", "run", run.RunID, "cards", n, "elapsed", r.now().Sub(start))
	return nil
}
