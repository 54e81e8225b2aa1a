package snapshot

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/easyapply/internal/form"
)

type section struct {
	modal *Modal
	node  *html.Node
}

func (s *section) Text() (string, error) {
	return textOf(s.node), nil
}

func (s *section) Selects() ([]form.Select, error) {
	var out []form.Select
	for _, n := range findAll(s.node, func(n *html.Node) bool { return n.Data == elementSelect }) {
		out = append(out, &selectControl{modal: s.modal, node: n})
	}
	return out, nil
}

// RadioGroups groups radios by name in order of first appearance.
func (s *section) RadioGroups() ([]form.RadioGroup, error) {
	radios := findAll(s.node, func(n *html.Node) bool {
		return n.Data == elementInput && strings.EqualFold(getAttr(n, "type"), "radio")
	})

	var groups []*radioGroup
	byName := make(map[string]*radioGroup)
	for _, r := range radios {
		name := getAttr(r, "name")
		g, ok := byName[name]
		if !ok {
			g = &radioGroup{section: s, name: name}
			byName[name] = g
			groups = append(groups, g)
		}
		g.nodes = append(g.nodes, r)
	}

	out := make([]form.RadioGroup, len(groups))
	for i, g := range groups {
		out[i] = g
	}
	return out, nil
}

func (s *section) NumberInputs() ([]form.Input, error) {
	return s.inputs(func(n *html.Node) bool {
		return n.Data == elementInput && strings.EqualFold(getAttr(n, "type"), "number")
	}), nil
}

func (s *section) TextInputs() ([]form.Input, error) {
	return s.inputs(func(n *html.Node) bool {
		return n.Data == elementTextarea ||
			(n.Data == elementInput && strings.EqualFold(getAttr(n, "type"), "text"))
	}), nil
}

func (s *section) inputs(match func(*html.Node) bool) []form.Input {
	var out []form.Input
	for _, n := range findAll(s.node, match) {
		out = append(out, &input{modal: s.modal, node: n})
	}
	return out
}

// input is an input or textarea element.
type input struct {
	modal *Modal
	node  *html.Node
}

func (in *input) Value() (string, error) {
	if in.node.Data == elementTextarea {
		return textOf(in.node), nil
	}
	return getAttr(in.node, "value"), nil
}

func (in *input) Fill(value string) error {
	if hasAttr(in.node, "disabled") || hasAttr(in.node, "readonly") {
		return fmt.Errorf("%s is not editable", describe(in.node))
	}
	if in.node.Data == elementTextarea {
		setText(in.node, value)
	} else {
		setAttr(in.node, "value", value)
	}
	in.modal.record(ActionFill, in.node, value)
	return nil
}

type selectControl struct {
	modal *Modal
	node  *html.Node
}

func (s *selectControl) options() []*html.Node {
	return findAll(s.node, func(n *html.Node) bool { return n.Data == elementOption })
}

// optionValue is the value attribute, or the text when there is none.
func optionValue(n *html.Node) string {
	if hasAttr(n, "value") {
		return getAttr(n, "value")
	}
	return textOf(n)
}

// Value returns the value of the selected option, or of the first option
// when none is marked selected.
func (s *selectControl) Value() (string, error) {
	opts := s.options()
	for _, o := range opts {
		if hasAttr(o, "selected") {
			return optionValue(o), nil
		}
	}
	if len(opts) > 0 {
		return optionValue(opts[0]), nil
	}
	return "", nil
}

func (s *selectControl) Options() ([]form.Option, error) {
	opts := s.options()
	out := make([]form.Option, len(opts))
	for i, o := range opts {
		out[i] = form.Option{Value: optionValue(o), Text: textOf(o)}
	}
	return out, nil
}

func (s *selectControl) SelectLabel(label string) error {
	var target *html.Node
	for _, o := range s.options() {
		if textOf(o) == strings.TrimSpace(label) {
			target = o
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%s has no option %q", describe(s.node), label)
	}
	for _, o := range s.options() {
		removeAttr(o, "selected")
	}
	setAttr(target, "selected", "")
	s.modal.record(ActionSelect, s.node, label)
	return nil
}

type radioGroup struct {
	section *section
	name    string
	nodes   []*html.Node
}

func (g *radioGroup) Name() string { return g.name }

func (g *radioGroup) Radios() ([]form.Radio, error) {
	out := make([]form.Radio, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = &radio{group: g, node: n}
	}
	return out, nil
}

type radio struct {
	group *radioGroup
	node  *html.Node
}

// Label returns the text of the section's label[for=id], else the value.
func (r *radio) Label() (string, error) {
	if id := getAttr(r.node, "id"); id != "" {
		lbl := findFirst(r.group.section.node, func(n *html.Node) bool {
			return n.Data == elementLabel && getAttr(n, "for") == id
		})
		if lbl != nil {
			if t := textOf(lbl); t != "" {
				return t, nil
			}
		}
	}
	return getAttr(r.node, "value"), nil
}

func (r *radio) Checked() (bool, error) {
	return hasAttr(r.node, "checked"), nil
}

func (r *radio) Check() error {
	if hasAttr(r.node, "disabled") {
		return fmt.Errorf("%s is disabled", describe(r.node))
	}
	for _, n := range r.group.nodes {
		removeAttr(n, "checked")
	}
	setAttr(r.node, "checked", "")
	label, _ := r.Label()
	r.group.section.modal.record(ActionCheck, r.node, label)
	return nil
}
