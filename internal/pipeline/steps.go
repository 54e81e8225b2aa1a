package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/easyapply/internal/form"
	"github.com/nao1215/easyapply/internal/model"
)

// Board is the job board the steps drive. *browser.Session implements it.
type Board interface {
	Job(ctx context.Context, i int) (model.Job, error)
	OpenJob(ctx context.Context, i int) error
	URL() string
	OpenApplication(ctx context.Context) error
	Modal(ctx context.Context) (form.Modal, error)
	DismissFollowUp(ctx context.Context) (bool, error)
	SaveSnapshot(ctx context.Context, dir, name string) (string, error)
}

// History reports previous applications. *database.HistoryDB implements it.
type History interface {
	HasApplied(ctx context.Context, link string) (bool, error)
}

// Traverser walks an application modal. *form.Wizard implements it.
type Traverser interface {
	Run(ctx context.Context, m form.Modal) model.Outcome
}

// OpenJobStep clicks the job card and reads its title, company and link.
type OpenJobStep struct {
	board  Board
	logger *slog.Logger
}

// NewOpenJobStep creates the open_job step.
func NewOpenJobStep(board Board, logger *slog.Logger) *OpenJobStep {
	return &OpenJobStep{board: board, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *OpenJobStep) Name() string { return "open_job" }

// Do opens the card at a.Job.Index.
func (s *OpenJobStep) Do(ctx context.Context, a *model.Attempt) error {
	if err := s.board.OpenJob(ctx, a.Job.Index); err != nil {
		return fmt.Errorf("failed to open job %d: %w", a.Job.Index+1, err)
	}

	job, err := s.board.Job(ctx, a.Job.Index)
	if err != nil {
		s.logger.Warn("failed to read job card", "job", a.Job.Index, "error", err)
	} else {
		a.Job = job
	}
	a.PageURL = s.board.URL()
	s.logger.Info("opened job", "job", a.Job.Index+1, "title", a.Job.Title, "company", a.Job.Company)
	return nil
}

// SkipAppliedStep skips jobs that already have a successful application.
type SkipAppliedStep struct {
	history History
	logger  *slog.Logger
}

// NewSkipAppliedStep creates the skip_applied step.
func NewSkipAppliedStep(history History, logger *slog.Logger) *SkipAppliedStep {
	return &SkipAppliedStep{history: history, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *SkipAppliedStep) Name() string { return "skip_applied" }

// Do returns ErrSkipped when the job link was applied to before.
// Lookup failures are logged and the job is attempted anyway.
func (s *SkipAppliedStep) Do(ctx context.Context, a *model.Attempt) error {
	if s.history == nil || a.Job.Link == "" {
		return nil
	}
	applied, err := s.history.HasApplied(ctx, a.Job.Link)
	if err != nil {
		s.logger.Warn("failed to check application history", "link", a.Job.Link, "error", err)
		return nil
	}
	if applied {
		return fmt.Errorf("%w: already applied to %s", ErrSkipped, a.Job.Link)
	}
	return nil
}

// OpenApplicationStep opens the Easy Apply modal.
type OpenApplicationStep struct {
	board Board
}

// NewOpenApplicationStep creates the open_application step.
func NewOpenApplicationStep(board Board) *OpenApplicationStep {
	return &OpenApplicationStep{board: board}
}

// Name returns the step name.
func (s *OpenApplicationStep) Name() string { return "open_application" }

// Do clicks Easy Apply, or waits for the user in manual mode.
func (s *OpenApplicationStep) Do(ctx context.Context, a *model.Attempt) error {
	if err := s.board.OpenApplication(ctx); err != nil {
		return fmt.Errorf("failed to open application for %s: %w", a.Job, err)
	}
	return nil
}

// TraverseStep waits for the modal and walks the wizard.
type TraverseStep struct {
	board       Board
	traverser   Traverser
	snapshotDir string
	now         func() time.Time
	logger      *slog.Logger
}

// TraverseOption configures a TraverseStep.
type TraverseOption func(*TraverseStep)

// WithSnapshotDir saves the modal HTML of unsubmitted attempts to dir.
func WithSnapshotDir(dir string) TraverseOption {
	return func(s *TraverseStep) {
		s.snapshotDir = dir
	}
}

// WithTraverseLogger sets the logger.
func WithTraverseLogger(logger *slog.Logger) TraverseOption {
	return func(s *TraverseStep) {
		s.logger = orDefault(logger)
	}
}

// NewTraverseStep creates the traverse step.
func NewTraverseStep(board Board, traverser Traverser, opts ...TraverseOption) *TraverseStep {
	s := &TraverseStep{
		board:     board,
		traverser: traverser,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *TraverseStep) Name() string { return "traverse" }

// Do runs the wizard and stores its outcome. The runtime clock starts
// once the modal is found.
func (s *TraverseStep) Do(ctx context.Context, a *model.Attempt) error {
	m, err := s.board.Modal(ctx)
	if err != nil {
		return fmt.Errorf("application modal did not open: %w", err)
	}
	a.ModalOpenedAt = s.now()

	out := s.traverser.Run(ctx, m)
	a.Outcome = &out
	s.logger.Info("modal processed",
		"job", a.Job.Index+1,
		"submitted", out.Submitted,
		"reason", out.Reason,
		"steps", out.Steps,
		"fields", out.FieldsFilled,
	)

	if !out.Submitted && s.snapshotDir != "" {
		path, err := s.board.SaveSnapshot(ctx, s.snapshotDir, a.Job.Title)
		if err != nil {
			s.logger.Warn("failed to save modal snapshot", "error", err)
		} else {
			a.SnapshotPath = path
			s.logger.Info("saved modal snapshot", "path", path)
		}
	}
	return nil
}

// FollowUpStep closes the prompt LinkedIn shows after an application.
type FollowUpStep struct {
	board  Board
	logger *slog.Logger
}

// NewFollowUpStep creates the follow_up step.
func NewFollowUpStep(board Board, logger *slog.Logger) *FollowUpStep {
	return &FollowUpStep{board: board, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *FollowUpStep) Name() string { return "follow_up" }

// Do dismisses the prompt if present. Failures are logged only.
func (s *FollowUpStep) Do(ctx context.Context, _ *model.Attempt) error {
	closed, err := s.board.DismissFollowUp(ctx)
	if err != nil {
		s.logger.Warn("failed to dismiss follow-up prompt", "error", err)
		return nil
	}
	if closed {
		s.logger.Debug("dismissed follow-up prompt")
	}
	return nil
}

// Steps returns the standard application steps in order. history may be
// nil to attempt every job.
func Steps(board Board, history History, traverser Traverser, logger *slog.Logger, opts ...TraverseOption) []Step {
	opts = append([]TraverseOption{WithTraverseLogger(logger)}, opts...)
	steps := []Step{NewOpenJobStep(board, logger)}
	if history != nil {
		steps = append(steps, NewSkipAppliedStep(history, logger))
	}
	return append(steps,
		NewOpenApplicationStep(board),
		NewTraverseStep(board, traverser, opts...),
		NewFollowUpStep(board, logger),
	)
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
