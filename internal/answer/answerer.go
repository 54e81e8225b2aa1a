package answer

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nao1215/easyapply/internal/llm"
	"github.com/nao1215/easyapply/internal/model"
)

// DefaultRetries is the number of completion attempts per question.
const DefaultRetries = 3

// Completer produces a reply for a prompt. *llm.Client implements it.
type Completer interface {
	Complete(ctx context.Context, p llm.Prompt) (string, error)
}

// Answerer answers application questions.
// It is safe for concurrent use.
type Answerer struct {
	rules     []Rule
	completer Completer
	resume    string
	role      string
	retries   int
	backoff   func() backoff.BackOff
	logger    *slog.Logger

	rulesHit  atomic.Int64
	modelHit  atomic.Int64
	fallbacks atomic.Int64
}

// Option configures an Answerer.
type Option func(*Answerer)

// WithRules replaces the rule set. Use MergeRules to extend the defaults.
func WithRules(rules []Rule) Option {
	return func(a *Answerer) {
		a.rules = rules
	}
}

// WithCompleter enables language model answers grounded in resume for
// the given role.
func WithCompleter(c Completer, resume, role string) Option {
	return func(a *Answerer) {
		a.completer = c
		a.resume = resume
		a.role = role
	}
}

// WithRetries sets the number of completion attempts per question.
func WithRetries(n int) Option {
	return func(a *Answerer) {
		if n > 0 {
			a.retries = n
		}
	}
}

// WithBackOff sets the delay policy between completion attempts.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(a *Answerer) {
		a.backoff = newBackOff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Answerer) {
		a.logger = logger
	}
}

// New creates an Answerer with the default rules and no language model.
func New(opts ...Option) *Answerer {
	a := &Answerer{
		rules:   DefaultRules(),
		retries: DefaultRetries,
		backoff: exponentialBackOff,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// exponentialBackOff waits 1s, 2s, 4s, ... between attempts.
func exponentialBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	return b
}

// Stats returns answer source counters.
func (a *Answerer) Stats() model.AnswerStats {
	return model.AnswerStats{
		Rules:     a.rulesHit.Load(),
		Model:     a.modelHit.Load(),
		Fallbacks: a.fallbacks.Load(),
	}
}

// Mapped returns the answer of the first rule whose fragment appears in
// the question.
func (a *Answerer) Mapped(question string) (string, bool) {
	for _, r := range a.rules {
		if r.Match != "" && ContainsFold(question, r.Match) {
			a.rulesHit.Add(1)
			return r.Answer, true
		}
	}
	return "", false
}

// Text answers a free-text question with the language model, falling back
// to the keyword heuristic when the model is disabled or keeps failing.
func (a *Answerer) Text(ctx context.Context, question string) string {
	if a.completer != nil {
		reply, err := a.complete(ctx, llm.TextPrompt(a.role, a.resume, question))
		if err == nil {
			a.modelHit.Add(1)
			return reply
		}
		a.logger.Warn("text answer failed, using fallback", "question", question, "error", err)
	}
	a.fallbacks.Add(1)
	return Fallback(question)
}

// Number answers a numeric field. Years, experience and salary are always
// "0"; other replies that are not plain digits become "0".
func (a *Answerer) Number(ctx context.Context, question string) string {
	if NumericHint(question) {
		return "0"
	}
	ans := a.Text(ctx, question)
	if !IsNumeric(ans) {
		return "0"
	}
	return ans
}

// Choose picks one of options for the question. It returns "" only when
// options is empty.
func (a *Answerer) Choose(ctx context.Context, question string, options []string) string {
	if len(options) == 0 {
		return ""
	}

	for _, r := range a.rules {
		if r.Match == "" || !ContainsFold(question, r.Match) {
			continue
		}
		for _, opt := range options {
			if ContainsFold(opt, r.Answer) {
				a.rulesHit.Add(1)
				return opt
			}
		}
	}

	if a.completer != nil {
		reply, err := a.complete(ctx, llm.SelectPrompt(a.role, a.resume, question, options))
		if err == nil {
			a.modelHit.Add(1)
			return MatchOption(reply, options)
		}
		a.logger.Warn("option answer failed, using fallback", "question", question, "error", err)
	}

	a.fallbacks.Add(1)
	fb := Fallback(question)
	for _, opt := range options {
		if ContainsFold(opt, fb) {
			return opt
		}
	}
	return options[0]
}

// complete calls the model up to a.retries times.
func (a *Answerer) complete(ctx context.Context, p llm.Prompt) (string, error) {
	var reply string
	attempt := 0
	op := func() error {
		attempt++
		r, err := a.completer.Complete(ctx, p)
		if err != nil {
			a.logger.Debug("completion attempt failed", "attempt", attempt, "error", err)
			return err
		}
		reply = r
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(a.backoff(), uint64(a.retries-1)), //nolint:gosec // retries is positive
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}
	return reply, nil
}
