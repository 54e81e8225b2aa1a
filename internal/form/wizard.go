package form

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/easyapply/internal/model"
)

// Wizard defaults.
const (
	DefaultMaxSteps = 20
	DefaultTimeout  = 300 * time.Second

	// maxSections is the number of sections filled per page.
	maxSections = 10

	// minSectionText skips sections with little text, such as wrappers
	// around a single button.
	minSectionText = 10
)

// errModalTimeout is the context cause when the modal budget runs out.
var errModalTimeout = errors.New("modal time budget exceeded")

// Wizard traverses an application modal.
type Wizard struct {
	filler   *Filler
	maxSteps int
	timeout  time.Duration
	pause    Pauser
	logger   *slog.Logger
}

// WizardOption configures a Wizard.
type WizardOption func(*Wizard)

// WithMaxSteps bounds the number of pages visited.
func WithMaxSteps(n int) WizardOption {
	return func(w *Wizard) {
		if n > 0 {
			w.maxSteps = n
		}
	}
}

// WithTimeout bounds the time spent in one modal.
func WithTimeout(d time.Duration) WizardOption {
	return func(w *Wizard) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithPauser sets the wait used after each click.
func WithPauser(p Pauser) WizardOption {
	return func(w *Wizard) {
		if p != nil {
			w.pause = p
		}
	}
}

// WithWizardLogger sets the logger.
func WithWizardLogger(logger *slog.Logger) WizardOption {
	return func(w *Wizard) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWizard creates a Wizard that fills question pages with filler.
func NewWizard(filler *Filler, opts ...WizardOption) *Wizard {
	w := &Wizard{
		filler:   filler,
		maxSteps: DefaultMaxSteps,
		timeout:  DefaultTimeout,
		pause:    HumanPause,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run walks the modal until it is submitted or a stop condition is met.
func (w *Wizard) Run(ctx context.Context, m Modal) model.Outcome {
	ctx, cancel := context.WithTimeoutCause(ctx, w.timeout, errModalTimeout)
	defer cancel()

	var out model.Outcome
	seen := make(map[[32]byte]bool)

	for out.Steps < w.maxSteps {
		if ctx.Err() != nil {
			out.Reason = stopReasonFor(ctx)
			w.logger.Warn("modal traversal interrupted", "steps", out.Steps, "reason", out.Reason)
			return out
		}
		out.Steps++

		visible, err := m.Visible()
		if err != nil {
			return w.fail(out, "failed to check modal visibility", err)
		}
		if !visible {
			w.logger.Debug("modal closed", "step", out.Steps)
			out.Reason = model.StopModalClosed
			return out
		}

		state := Fingerprint(m)
		key := sha3.Sum256([]byte(state))
		if seen[key] {
			w.logger.Warn("duplicate modal state", "state", state, "step", out.Steps)
			out.Reason = model.StopDuplicateState
			return out
		}
		seen[key] = true

		heading, err := m.Heading()
		if err != nil {
			return w.fail(out, "failed to read modal heading", err)
		}
		kind := Classify(heading)
		w.logger.Debug("modal page", "step", out.Steps, "heading", heading, "kind", kind)

		switch kind {
		case PageContact:
			btn, nav := FindNavigation(m)
			if btn == nil || (nav != NavNext && nav != NavReview) {
				w.logger.Debug("no way forward on contact page", "nav", nav)
				out.Reason = model.StopNoNavigation
				return out
			}
			if err := w.click(ctx, btn); err != nil {
				return w.fail(out, "failed to advance contact page", err)
			}

		case PageQuestions:
			out.FieldsFilled += w.fillPage(ctx, m).Filled
			btn, nav := FindNavigation(m)
			if btn == nil {
				w.logger.Debug("no navigation after filling questions")
				out.Reason = model.StopNoNavigation
				return out
			}
			if err := w.click(ctx, btn); err != nil {
				return w.fail(out, "failed to advance question page", err)
			}
			if nav == NavSubmit {
				out.Submitted = true
				out.Reason = model.StopSubmitted
				return out
			}

		default:
			btn, nav := FindNavigation(m)
			if btn == nil {
				w.logger.Debug("no navigation on unknown page, closing modal", "heading", heading)
				if err := Dismiss(m); err != nil {
					w.logger.Warn("failed to close modal", "error", err)
				}
				out.Reason = model.StopDismissed
				return out
			}
			if err := w.click(ctx, btn); err != nil {
				return w.fail(out, "failed to advance page", err)
			}
			if nav == NavSubmit {
				out.Submitted = true
				out.Reason = model.StopSubmitted
				return out
			}
		}
	}

	w.logger.Warn("modal exceeded page limit", "max_steps", w.maxSteps)
	out.Reason = model.StopMaxSteps
	return out
}

// fillPage fills the first sections of the page that carry a question.
func (w *Wizard) fillPage(ctx context.Context, m Modal) FillResult {
	var res FillResult
	sections, err := m.Sections()
	if err != nil {
		w.logger.Warn("failed to list sections", "error", err)
		return res
	}
	if len(sections) > maxSections {
		sections = sections[:maxSections]
	}

	for i, s := range sections {
		text, err := s.Text()
		if err != nil {
			w.logger.Warn("failed to read section", "index", i, "error", err)
			continue
		}
		text = strings.TrimSpace(text)
		if len(text) <= minSectionText {
			continue
		}
		r := w.filler.Fill(ctx, s, text)
		w.logger.Debug("section processed", "index", i, "filled", r.Filled, "skipped", r.Skipped, "failed", r.Failed)
		res.Add(r)
	}
	return res
}

func (w *Wizard) click(ctx context.Context, b Button) error {
	if err := b.Click(); err != nil {
		return err
	}
	w.pause(ctx, time.Second, 2*time.Second)
	return nil
}

func (w *Wizard) fail(out model.Outcome, msg string, err error) model.Outcome {
	w.logger.Error(msg, "step", out.Steps, "error", err)
	out.Reason = model.StopError
	return out
}

// stopReasonFor tells the modal budget apart from outer cancellation.
func stopReasonFor(ctx context.Context) model.StopReason {
	if errors.Is(context.Cause(ctx), errModalTimeout) {
		return model.StopTimeout
	}
	return model.StopError
}
