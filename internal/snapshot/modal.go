package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/easyapply/internal/answer"
	"github.com/nao1215/easyapply/internal/form"
)

// ErrEmpty is returned when a snapshot has no content.
var ErrEmpty = errors.New("snapshot is empty")

// ActionKind is the kind of change made to a snapshot.
type ActionKind string

const (
	ActionFill   ActionKind = "fill"
	ActionSelect ActionKind = "select"
	ActionCheck  ActionKind = "check"
	ActionClick  ActionKind = "click"
	ActionEscape ActionKind = "escape"
)

// Action is one change the wizard made to a snapshot.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Target string     `json:"target"`
	Value  string     `json:"value,omitempty"`
}

// String formats the action as "kind target = value".
func (a Action) String() string {
	if a.Value == "" {
		return fmt.Sprintf("%s %s", a.Kind, a.Target)
	}
	return fmt.Sprintf("%s %s = %q", a.Kind, a.Target, a.Value)
}

// Modal is a parsed snapshot. It implements form.Modal.
type Modal struct {
	root    *html.Node
	closed  bool
	actions []Action
}

var _ form.Modal = (*Modal)(nil)

// Load reads and parses a snapshot file.
func Load(path string) (*Modal, error) {
	f, err := os.Open(path) //nolint:gosec // path is given by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return Parse(f)
}

// Parse parses snapshot HTML. The dialog is the first element with
// role="dialog" or the artdeco-modal class; without one the whole body is
// used.
func Parse(r io.Reader) (*Modal, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	root := findFirst(doc, func(n *html.Node) bool {
		return getAttr(n, "role") == "dialog" || hasClass(n, "artdeco-modal")
	})
	if root == nil {
		root = findFirst(doc, func(n *html.Node) bool { return n.Data == "body" })
	}
	if root == nil || root.FirstChild == nil {
		return nil, ErrEmpty
	}
	return &Modal{root: root}, nil
}

// Actions returns the changes made so far.
func (m *Modal) Actions() []Action {
	return append([]Action(nil), m.actions...)
}

// Render writes the current document of the dialog to w.
func (m *Modal) Render(w io.Writer) error {
	return html.Render(w, m.root)
}

func (m *Modal) record(kind ActionKind, n *html.Node, value string) {
	m.actions = append(m.actions, Action{Kind: kind, Target: describe(n), Value: value})
}

// Visible reports whether the dialog is still open.
func (m *Modal) Visible() (bool, error) {
	return !m.closed, nil
}

// Heading returns the text of the first h1-h4.
func (m *Modal) Heading() (string, error) {
	h := findFirst(m.root, func(n *html.Node) bool {
		switch n.Data {
		case "h1", "h2", "h3", "h4":
			return true
		}
		return false
	})
	if h == nil {
		return "", nil
	}
	return textOf(h), nil
}

func (m *Modal) buttons() []*html.Node {
	return findAll(m.root, func(n *html.Node) bool { return n.Data == elementButton })
}

// ButtonLabels returns the texts of the first limit buttons.
func (m *Modal) ButtonLabels(limit int) ([]string, error) {
	var out []string
	for _, b := range m.buttons() {
		if len(out) >= limit {
			break
		}
		out = append(out, textOf(b))
	}
	return out, nil
}

// FindButton returns the first visible element matching q.
// Text matching ignores case, as Playwright's :has-text does.
func (m *Modal) FindButton(q form.ButtonQuery) (form.Button, error) {
	var match func(*html.Node) bool
	switch {
	case q.Text != "":
		match = func(n *html.Node) bool {
			return n.Data == elementButton && answer.ContainsFold(textOf(n), q.Text)
		}
	case q.AriaLabel != "":
		match = func(n *html.Node) bool {
			return n.Data == elementButton && strings.Contains(getAttr(n, "aria-label"), q.AriaLabel)
		}
	case q.Type != "":
		match = func(n *html.Node) bool {
			return n.Data == elementButton && getAttr(n, "type") == q.Type
		}
	case q.Class != "":
		match = func(n *html.Node) bool { return hasClass(n, q.Class) }
	default:
		match = func(n *html.Node) bool { return n.Data == elementButton }
	}

	for _, n := range findAll(m.root, match) {
		if !hidden(n) {
			return &button{modal: m, node: n}, nil
		}
	}
	return nil, nil
}

// Sections returns section, div.form-section and .artdeco-modal__section
// elements, or the dialog itself when there are none.
func (m *Modal) Sections() ([]form.Section, error) {
	nodes := findAll(m.root, func(n *html.Node) bool {
		return n.Data == "section" ||
			(n.Data == "div" && hasClass(n, "form-section")) ||
			hasClass(n, "artdeco-modal__section")
	})
	if len(nodes) == 0 {
		nodes = []*html.Node{m.root}
	}

	out := make([]form.Section, len(nodes))
	for i, n := range nodes {
		out[i] = &section{modal: m, node: n}
	}
	return out, nil
}

// PressEscape closes the dialog.
func (m *Modal) PressEscape() error {
	m.actions = append(m.actions, Action{Kind: ActionEscape, Target: "dialog"})
	m.closed = true
	return nil
}

type button struct {
	modal *Modal
	node  *html.Node
}

// Click records the click and ends the snapshot.
func (b *button) Click() error {
	if b.modal.closed {
		return errors.New("dialog is closed")
	}
	b.modal.actions = append(b.modal.actions, Action{Kind: ActionClick, Target: buttonName(b.node)})
	b.modal.closed = true
	return nil
}

func buttonName(n *html.Node) string {
	if t := textOf(n); t != "" {
		return t
	}
	if a := getAttr(n, "aria-label"); a != "" {
		return a
	}
	return describe(n)
}
