package form

import (
	"strings"
)

// Modal is an open application dialog.
type Modal interface {
	// Visible reports whether the dialog is still shown.
	Visible() (bool, error)

	// Heading returns the trimmed text of the first h1-h4, or "".
	Heading() (string, error)

	// ButtonLabels returns the trimmed texts of the first limit buttons.
	ButtonLabels(limit int) ([]string, error)

	// FindButton returns the first visible button matching q, or nil.
	FindButton(q ButtonQuery) (Button, error)

	// Sections returns the form sections of the current page.
	Sections() ([]Section, error)

	// PressEscape sends the Escape key to the page.
	PressEscape() error
}

// Button is a clickable control.
type Button interface {
	Click() error
}

// Section is a group of form controls sharing one question text.
type Section interface {
	// Text is the visible text of the section, used as the question.
	Text() (string, error)

	Selects() ([]Select, error)
	RadioGroups() ([]RadioGroup, error)

	// NumberInputs are input[type=number] elements.
	NumberInputs() ([]Input, error)

	// TextInputs are textarea and input[type=text] elements.
	TextInputs() ([]Input, error)
}

// Input is a text-like control.
type Input interface {
	Value() (string, error)
	Fill(value string) error
}

// Option is one entry of a select element.
type Option struct {
	Value string
	Text  string
}

// Select is a drop-down control.
type Select interface {
	Value() (string, error)
	Options() ([]Option, error)
	SelectLabel(label string) error
}

// RadioGroup is the set of radios sharing a name attribute.
type RadioGroup interface {
	Name() string
	Radios() ([]Radio, error)
}

// Radio is one radio input.
type Radio interface {
	// Label is the text of label[for=id], else the value attribute, else "".
	Label() (string, error)
	Checked() (bool, error)
	Check() error
}

// ButtonQuery describes a button by one property.
// Exactly one field is expected to be set.
type ButtonQuery struct {
	// Text matches buttons whose visible text contains it, ignoring case.
	Text string

	// AriaLabel matches buttons whose aria-label contains it.
	AriaLabel string

	// Type matches buttons with this exact type attribute.
	Type string

	// Class matches any element with this class.
	Class string
}

// Selector renders q as a Playwright selector.
func (q ButtonQuery) Selector() string {
	switch {
	case q.Text != "":
		return "button:has-text('" + escapeQuote(q.Text) + "')"
	case q.AriaLabel != "":
		return "button[aria-label*='" + escapeQuote(q.AriaLabel) + "']"
	case q.Type != "":
		return "button[type='" + escapeQuote(q.Type) + "']"
	case q.Class != "":
		return "." + q.Class
	default:
		return "button"
	}
}

func escapeQuote(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// NavKind is the kind of navigation button found on a page.
type NavKind string

const (
	NavSubmit NavKind = "submit"
	NavReview NavKind = "review"
	NavNext   NavKind = "next"
	NavNone   NavKind = "none"
)

// navigation lists the button queries per kind in priority order.
var navigation = []struct {
	kind    NavKind
	queries []ButtonQuery
}{
	{NavSubmit, []ButtonQuery{
		{Text: "Submit"},
		{Type: "submit"},
		{Text: "Submit application"},
		{AriaLabel: "Submit"},
	}},
	{NavReview, []ButtonQuery{
		{Text: "Review"},
		{AriaLabel: "Review"},
		{Text: "Review application"},
	}},
	{NavNext, []ButtonQuery{
		{Text: "Next"},
		{AriaLabel: "Next"},
		{Text: "Continue"},
		{Text: "Save and continue"},
	}},
}

// dismissQueries close a dialog that has no navigation.
var dismissQueries = []ButtonQuery{
	{Text: "Cancel"},
	{Text: "Dismiss"},
	{Text: "Close"},
	{AriaLabel: "Close"},
	{Class: "artdeco-modal__dismiss"},
}

// FindNavigation returns the highest priority visible navigation button.
// Lookup errors count as "not found" for that query.
func FindNavigation(m Modal) (Button, NavKind) {
	for _, group := range navigation {
		for _, q := range group.queries {
			btn, err := m.FindButton(q)
			if err == nil && btn != nil {
				return btn, group.kind
			}
		}
	}
	return nil, NavNone
}

// Dismiss clicks the first visible cancel or close button, or presses
// Escape when there is none.
func Dismiss(m Modal) error {
	for _, q := range dismissQueries {
		btn, err := m.FindButton(q)
		if err != nil || btn == nil {
			continue
		}
		if err := btn.Click(); err == nil {
			return nil
		}
	}
	return m.PressEscape()
}
