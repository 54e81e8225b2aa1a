package form

import (
	"strings"
)

// PageKind classifies a wizard page by its heading.
type PageKind int

const (
	// PageUnknown is any page that is not recognized, including review pages.
	PageUnknown PageKind = iota

	// PageContact is the contact info or resume upload page. It is
	// pre-filled from the profile and only needs advancing.
	PageContact

	// PageQuestions is a page of screening questions.
	PageQuestions
)

// String returns the page kind name.
func (k PageKind) String() string {
	switch k {
	case PageContact:
		return "contact"
	case PageQuestions:
		return "questions"
	default:
		return "unknown"
	}
}

var (
	contactKeywords  = []string{"contact info", "resume", "cv"}
	questionKeywords = []string{"question", "education", "work", "additional", "experience"}
)

// Classify returns the page kind for a heading.
func Classify(heading string) PageKind {
	h := strings.ToLower(heading)
	switch {
	case containsAny(h, contactKeywords):
		return PageContact
	case containsAny(h, questionKeywords):
		return PageQuestions
	default:
		return PageUnknown
	}
}

// UnknownState is the fingerprint of a modal that could not be read.
const UnknownState = "unknown_state"

// fingerprintButtons is the number of buttons included in a fingerprint.
const fingerprintButtons = 5

// Fingerprint identifies the current page as "<heading>::<b1|b2|...>",
// using the non-empty labels among the first five buttons.
func Fingerprint(m Modal) string {
	heading, err := m.Heading()
	if err != nil {
		return UnknownState
	}
	labels, err := m.ButtonLabels(fingerprintButtons)
	if err != nil {
		return UnknownState
	}
	kept := labels[:0:0]
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.TrimSpace(heading) + "::" + strings.Join(kept, "|")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
