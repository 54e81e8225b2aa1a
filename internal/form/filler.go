package form

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nao1215/easyapply/internal/answer"
)

// Answerer supplies values for questions. *answer.Answerer implements it.
type Answerer interface {
	Mapped(question string) (string, bool)
	Text(ctx context.Context, question string) string
	Number(ctx context.Context, question string) string
	Choose(ctx context.Context, question string, options []string) string
}

// placeholderOptions are select entries that are prompts, not choices.
var placeholderOptions = map[string]bool{
	"select": true,
	"choose": true,
	"pick":   true,
}

// placeholderPrefixes catch longer prompts such as "Select an option".
var placeholderPrefixes = []string{"select an", "choose an", "pick an", "please select", "please choose"}

// IsPlaceholder reports whether an option text is a prompt rather than a choice.
func IsPlaceholder(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if placeholderOptions[t] {
		return true
	}
	for _, p := range placeholderPrefixes {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	return false
}

// FillResult counts what happened to the controls of a section.
type FillResult struct {
	// Filled is the number of controls that received a value.
	Filled int

	// Skipped is the number of controls that already had a value.
	Skipped int

	// Failed is the number of controls that could not be read or written.
	Failed int
}

// Add accumulates r2 into r.
func (r *FillResult) Add(r2 FillResult) {
	r.Filled += r2.Filled
	r.Skipped += r2.Skipped
	r.Failed += r2.Failed
}

// Filler answers the controls of a form section.
type Filler struct {
	answers Answerer
	logger  *slog.Logger
}

// NewFiller creates a Filler.
func NewFiller(answers Answerer, logger *slog.Logger) *Filler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filler{answers: answers, logger: logger}
}

// Fill answers every empty control in s, using question as the label.
// Controls that already hold a value are left alone. Failures on one
// control are logged and do not stop the others.
func (f *Filler) Fill(ctx context.Context, s Section, question string) FillResult {
	var res FillResult
	res.Add(f.fillSelects(ctx, s, question))
	res.Add(f.fillRadios(ctx, s, question))
	res.Add(f.fillNumbers(ctx, s, question))
	res.Add(f.fillTexts(ctx, s, question))
	return res
}

func (f *Filler) fillSelects(ctx context.Context, s Section, question string) FillResult {
	var res FillResult
	selects, err := s.Selects()
	if err != nil {
		f.logger.Warn("failed to list selects", "error", err)
		res.Failed++
		return res
	}

	for i, sel := range selects {
		current, err := sel.Value()
		if err != nil {
			f.logger.Warn("failed to read select", "index", i, "error", err)
			res.Failed++
			continue
		}
		opts, err := sel.Options()
		if err != nil {
			f.logger.Warn("failed to read select options", "index", i, "error", err)
			res.Failed++
			continue
		}
		if selectAnswered(current, opts) {
			f.logger.Debug("select already filled", "index", i, "value", current)
			res.Skipped++
			continue
		}
		choices := SelectChoices(opts)
		if len(choices) == 0 {
			continue
		}

		ans := f.answers.Choose(ctx, question, choices)
		if err := sel.SelectLabel(ans); err != nil {
			f.logger.Warn("failed to select option", "index", i, "option", ans, "error", err)
			res.Failed++
			continue
		}
		f.logger.Debug("filled select", "index", i, "option", ans)
		res.Filled++
	}
	return res
}

// selectAnswered reports whether the current value is a real choice.
// LinkedIn gives its "Select an option" prompt a non-empty value, so a
// value belonging to a placeholder option counts as unanswered.
func selectAnswered(current string, opts []Option) bool {
	if strings.TrimSpace(current) == "" {
		return false
	}
	for _, o := range opts {
		if o.Value == current && IsPlaceholder(o.Text) {
			return false
		}
	}
	return true
}

// SelectChoices returns the texts of the real options of a select:
// entries with both a value and a text that are not placeholders.
func SelectChoices(opts []Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		text := strings.TrimSpace(o.Text)
		if o.Value == "" || text == "" || IsPlaceholder(text) {
			continue
		}
		out = append(out, text)
	}
	return out
}

func (f *Filler) fillRadios(ctx context.Context, s Section, question string) FillResult {
	var res FillResult
	groups, err := s.RadioGroups()
	if err != nil {
		f.logger.Warn("failed to list radio groups", "error", err)
		res.Failed++
		return res
	}

	for _, g := range groups {
		radios, err := g.Radios()
		if err != nil || len(radios) == 0 {
			if err != nil {
				f.logger.Warn("failed to read radio group", "name", g.Name(), "error", err)
				res.Failed++
			}
			continue
		}

		if anyChecked(radios) {
			f.logger.Debug("radio group already answered", "name", g.Name())
			res.Skipped++
			continue
		}

		labels := make([]string, len(radios))
		choices := make([]string, 0, len(radios))
		for i, r := range radios {
			l, err := r.Label()
			if err != nil {
				continue
			}
			labels[i] = strings.TrimSpace(l)
			if labels[i] != "" {
				choices = append(choices, labels[i])
			}
		}
		if len(choices) == 0 {
			continue
		}

		choice := f.answers.Choose(ctx, question, choices)
		checked := false
		for i, r := range radios {
			if labels[i] == "" || !answer.ContainsFold(labels[i], choice) {
				continue
			}
			if err := r.Check(); err != nil {
				f.logger.Warn("failed to check radio", "name", g.Name(), "label", labels[i], "error", err)
				continue
			}
			f.logger.Debug("checked radio", "name", g.Name(), "label", labels[i])
			checked = true
			break
		}
		if checked {
			res.Filled++
		} else {
			res.Failed++
		}
	}
	return res
}

func anyChecked(radios []Radio) bool {
	for _, r := range radios {
		if ok, err := r.Checked(); err == nil && ok {
			return true
		}
	}
	return false
}

func (f *Filler) fillNumbers(ctx context.Context, s Section, question string) FillResult {
	inputs, err := s.NumberInputs()
	if err != nil {
		f.logger.Warn("failed to list number inputs", "error", err)
		return FillResult{Failed: 1}
	}
	return f.fillInputs(inputs, "number", func() string {
		return f.answers.Number(ctx, question)
	})
}

func (f *Filler) fillTexts(ctx context.Context, s Section, question string) FillResult {
	inputs, err := s.TextInputs()
	if err != nil {
		f.logger.Warn("failed to list text inputs", "error", err)
		return FillResult{Failed: 1}
	}
	return f.fillInputs(inputs, "text", func() string {
		if v, ok := f.answers.Mapped(question); ok {
			return v
		}
		return f.answers.Text(ctx, question)
	})
}

// fillInputs fills each empty input with a fresh answer.
func (f *Filler) fillInputs(inputs []Input, kind string, answerFn func() string) FillResult {
	var res FillResult
	for i, in := range inputs {
		current, err := in.Value()
		if err != nil {
			f.logger.Warn("failed to read input", "kind", kind, "index", i, "error", err)
			res.Failed++
			continue
		}
		if strings.TrimSpace(current) != "" {
			f.logger.Debug("input already filled", "kind", kind, "index", i, "value", current)
			res.Skipped++
			continue
		}

		ans := answerFn()
		if err := in.Fill(ans); err != nil {
			f.logger.Warn("failed to fill input", "kind", kind, "index", i, "error", err)
			res.Failed++
			continue
		}
		f.logger.Debug("filled input", "kind", kind, "index", i, "value", ans)
		res.Filled++
	}
	return res
}
