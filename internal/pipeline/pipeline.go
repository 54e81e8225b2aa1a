package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/easyapply/internal/model"
)

// ErrSkipped ends the pipeline early without marking the attempt failed.
var ErrSkipped = errors.New("job skipped")

// Step is one stage of an application attempt.
type Step interface {
	// Do executes the step. Returning ErrSkipped stops the pipeline and
	// marks the attempt skipped; any other error marks it failed.
	Do(ctx context.Context, a *model.Attempt) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps []Step

	logger *slog.Logger

	// continueOnError keeps executing steps after one fails.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps on the attempt.
//
// It returns the first step error unless continueOnError is set, or the
// context error when canceled between steps. A skip is not an error.
func (p *Pipeline) Execute(ctx context.Context, a *model.Attempt) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline canceled", "step", step.Name(), "job", a.Job.Index, "reason", err)
			a.SetError(err)
			return err
		}

		p.logger.Debug("executing step", "step", step.Name(), "job", a.Job.Index)

		err := step.Do(ctx, a)
		a.PerformedSteps = append(a.PerformedSteps, step.Name())

		switch {
		case errors.Is(err, ErrSkipped):
			p.logger.Info("job skipped", "step", step.Name(), "job", a.Job.Index, "title", a.Job.Title)
			a.Status = model.StatusSkipped
			return nil
		case err != nil:
			p.logger.Error("step failed", "step", step.Name(), "job", a.Job.Index, "error", err)
			a.SetError(err)
			if !p.continueOnError {
				return err
			}
		default:
			p.logger.Debug("step completed", "step", step.Name(), "job", a.Job.Index)
		}
	}
	return nil
}
