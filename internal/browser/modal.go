package browser

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/nao1215/easyapply/internal/form"
)

// modal adapts a dialog locator to form.Modal.
type modal struct {
	page playwright.Page
	root playwright.Locator
}

var _ form.Modal = (*modal)(nil)

func (m *modal) Visible() (bool, error) {
	return m.root.IsVisible()
}

func (m *modal) Heading() (string, error) {
	headings := m.root.Locator(headingSelector)
	n, err := headings.Count()
	if err != nil || n == 0 {
		return "", err
	}
	text, err := headings.First().InnerText()
	return strings.TrimSpace(text), err
}

func (m *modal) ButtonLabels(limit int) ([]string, error) {
	buttons := m.root.Locator(buttonSelector)
	n, err := buttons.Count()
	if err != nil {
		return nil, err
	}
	n = min(n, limit)
	labels := make([]string, 0, n)
	for i := 0; i < n; i++ {
		text, err := buttons.Nth(i).InnerText()
		if err != nil {
			continue
		}
		labels = append(labels, strings.TrimSpace(text))
	}
	return labels, nil
}

func (m *modal) FindButton(q form.ButtonQuery) (form.Button, error) {
	btn := m.root.Locator(q.Selector()).First()
	ok, err := btn.IsVisible()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &button{loc: btn}, nil
}

func (m *modal) Sections() ([]form.Section, error) {
	loc := m.root.Locator(sectionSelector)
	n, err := loc.Count()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		loc = m.root.Locator(sectionFallback)
		if n, err = loc.Count(); err != nil {
			return nil, err
		}
	}
	out := make([]form.Section, n)
	for i := range out {
		out[i] = &section{loc: loc.Nth(i)}
	}
	return out, nil
}

func (m *modal) PressEscape() error {
	return m.page.Keyboard().Press("Escape")
}

type button struct {
	loc playwright.Locator
}

func (b *button) Click() error { return b.loc.Click() }

type section struct {
	loc playwright.Locator
}

func (s *section) Text() (string, error) {
	return s.loc.InnerText()
}

func (s *section) Selects() ([]form.Select, error) {
	all, err := s.loc.Locator(selectSelector).All()
	if err != nil {
		return nil, err
	}
	out := make([]form.Select, len(all))
	for i, l := range all {
		out[i] = &selectControl{loc: l}
	}
	return out, nil
}

// RadioGroups groups radios by name in order of first appearance.
func (s *section) RadioGroups() ([]form.RadioGroup, error) {
	radios, err := s.loc.Locator(radioSelector).All()
	if err != nil {
		return nil, err
	}
	var out []form.RadioGroup
	seen := make(map[string]bool)
	for _, r := range radios {
		name, err := r.GetAttribute("name")
		if err != nil || seen[name] {
			continue
		}
		seen[name] = true
		sel := radioSelector
		if name != "" {
			sel = fmt.Sprintf("input[type=radio][name='%s']", quote(name))
		}
		out = append(out, &radioGroup{section: s.loc, name: name, loc: s.loc.Locator(sel)})
	}
	return out, nil
}

func (s *section) NumberInputs() ([]form.Input, error) {
	return s.inputs(numberSelector)
}

func (s *section) TextInputs() ([]form.Input, error) {
	return s.inputs(textSelector)
}

func (s *section) inputs(sel string) ([]form.Input, error) {
	all, err := s.loc.Locator(sel).All()
	if err != nil {
		return nil, err
	}
	out := make([]form.Input, len(all))
	for i, l := range all {
		out[i] = &input{loc: l}
	}
	return out, nil
}

type input struct {
	loc playwright.Locator
}

func (in *input) Value() (string, error) { return in.loc.InputValue() }
func (in *input) Fill(v string) error     { return in.loc.Fill(v) }

type selectControl struct {
	loc playwright.Locator
}

func (s *selectControl) Value() (string, error) { return s.loc.InputValue() }

func (s *selectControl) Options() ([]form.Option, error) {
	all, err := s.loc.Locator(optionSelector).All()
	if err != nil {
		return nil, err
	}
	out := make([]form.Option, 0, len(all))
	for _, o := range all {
		value, err := o.GetAttribute("value")
		if err != nil {
			continue
		}
		text, err := o.InnerText()
		if err != nil {
			continue
		}
		out = append(out, form.Option{Value: value, Text: strings.TrimSpace(text)})
	}
	return out, nil
}

func (s *selectControl) SelectLabel(label string) error {
	_, err := s.loc.SelectOption(playwright.SelectOptionValues{Labels: &[]string{label}})
	return err
}

type radioGroup struct {
	section playwright.Locator
	name    string
	loc     playwright.Locator
}

func (g *radioGroup) Name() string { return g.name }

func (g *radioGroup) Radios() ([]form.Radio, error) {
	all, err := g.loc.All()
	if err != nil {
		return nil, err
	}
	out := make([]form.Radio, len(all))
	for i, l := range all {
		out[i] = &radio{section: g.section, loc: l}
	}
	return out, nil
}

type radio struct {
	section playwright.Locator
	loc     playwright.Locator
}

// Label returns the text of label[for=id] in the section, else the value.
func (r *radio) Label() (string, error) {
	id, err := r.loc.GetAttribute("id")
	if err == nil && id != "" {
		lbl := r.section.Locator(fmt.Sprintf("label[for='%s']", quote(id)))
		if n, err := lbl.Count(); err == nil && n > 0 {
			if text, err := lbl.First().InnerText(); err == nil && strings.TrimSpace(text) != "" {
				return strings.TrimSpace(text), nil
			}
		}
	}
	return r.loc.GetAttribute("value")
}

func (r *radio) Checked() (bool, error) { return r.loc.IsChecked() }
func (r *radio) Check() error           { return r.loc.Check() }

func quote(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
