package form

import (
	"errors"
	"strings"

	"github.com/nao1215/easyapply/internal/answer"
)

// fakeButton is a button of a fakePage.
type fakeButton struct {
	text  string
	aria  string
	typ   string
	class string

	// advance moves the modal to the next page when clicked.
	advance bool
	// close hides the modal when clicked.
	close bool
	// err is returned by Click.
	err error
}

type fakePage struct {
	heading  string
	buttons  []*fakeButton
	sections []Section
}

// fakeModal is an in-memory Modal made of pages.
type fakeModal struct {
	pages   []*fakePage
	cur     int
	closed  bool
	escaped bool
	clicks  []string
}

func (m *fakeModal) page() *fakePage {
	if m.cur >= len(m.pages) {
		return &fakePage{}
	}
	return m.pages[m.cur]
}

func (m *fakeModal) Visible() (bool, error) {
	return !m.closed && m.cur < len(m.pages), nil
}

func (m *fakeModal) Heading() (string, error) {
	return m.page().heading, nil
}

func (m *fakeModal) ButtonLabels(limit int) ([]string, error) {
	var out []string
	for i, b := range m.page().buttons {
		if i >= limit {
			break
		}
		out = append(out, b.text)
	}
	return out, nil
}

func (m *fakeModal) FindButton(q ButtonQuery) (Button, error) {
	for _, b := range m.page().buttons {
		match := false
		switch {
		case q.Text != "":
			match = answer.ContainsFold(b.text, q.Text)
		case q.AriaLabel != "":
			match = strings.Contains(b.aria, q.AriaLabel)
		case q.Type != "":
			match = b.typ == q.Type
		case q.Class != "":
			match = b.class == q.Class
		}
		if match {
			return &fakeClick{modal: m, button: b}, nil
		}
	}
	return nil, nil
}

func (m *fakeModal) Sections() ([]Section, error) {
	return m.page().sections, nil
}

func (m *fakeModal) PressEscape() error {
	m.escaped = true
	m.closed = true
	return nil
}

type fakeClick struct {
	modal  *fakeModal
	button *fakeButton
}

func (c *fakeClick) Click() error {
	if c.button.err != nil {
		return c.button.err
	}
	label := c.button.text
	if label == "" {
		label = c.button.aria + c.button.class
	}
	c.modal.clicks = append(c.modal.clicks, label)
	if c.button.advance {
		c.modal.cur++
	}
	if c.button.close {
		c.modal.closed = true
	}
	return nil
}

// fakeSection holds controls for one question.
type fakeSection struct {
	text    string
	selects []*fakeSelect
	groups  []*fakeRadioGroup
	numbers []*fakeInput
	texts   []*fakeInput
	err     error
}

func (s *fakeSection) Text() (string, error) { return s.text, s.err }

func (s *fakeSection) Selects() ([]Select, error) {
	out := make([]Select, len(s.selects))
	for i, v := range s.selects {
		out[i] = v
	}
	return out, nil
}

func (s *fakeSection) RadioGroups() ([]RadioGroup, error) {
	out := make([]RadioGroup, len(s.groups))
	for i, v := range s.groups {
		out[i] = v
	}
	return out, nil
}

func (s *fakeSection) NumberInputs() ([]Input, error) { return inputs(s.numbers), nil }
func (s *fakeSection) TextInputs() ([]Input, error)   { return inputs(s.texts), nil }

func inputs(in []*fakeInput) []Input {
	out := make([]Input, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

type fakeInput struct {
	value   string
	fillErr error
}

func (f *fakeInput) Value() (string, error) { return f.value, nil }

func (f *fakeInput) Fill(v string) error {
	if f.fillErr != nil {
		return f.fillErr
	}
	f.value = v
	return nil
}

type fakeSelect struct {
	value   string
	options []Option
}

func (f *fakeSelect) Value() (string, error)     { return f.value, nil }
func (f *fakeSelect) Options() ([]Option, error) { return f.options, nil }

func (f *fakeSelect) SelectLabel(label string) error {
	for _, o := range f.options {
		if o.Text == label {
			f.value = o.Value
			return nil
		}
	}
	return errors.New("no such option: " + label)
}

type fakeRadioGroup struct {
	name   string
	radios []*fakeRadio
}

func (g *fakeRadioGroup) Name() string { return g.name }

func (g *fakeRadioGroup) Radios() ([]Radio, error) {
	out := make([]Radio, len(g.radios))
	for i, r := range g.radios {
		out[i] = &groupRadio{group: g, radio: r}
	}
	return out, nil
}

type fakeRadio struct {
	label   string
	checked bool
}

// groupRadio unchecks siblings like a browser does.
type groupRadio struct {
	group *fakeRadioGroup
	radio *fakeRadio
}

func (r *groupRadio) Label() (string, error)  { return r.radio.label, nil }
func (r *groupRadio) Checked() (bool, error) { return r.radio.checked, nil }

func (r *groupRadio) Check() error {
	for _, s := range r.group.radios {
		s.checked = false
	}
	r.radio.checked = true
	return nil
}
