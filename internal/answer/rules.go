package answer

import (
	"strings"

	"golang.org/x/text/cases"
)

// Rule maps a question fragment to a fixed answer.
type Rule struct {
	Match  string
	Answer string
}

// DefaultRules returns the built-in rules. Order matters: the first rule
// whose fragment appears in the question wins.
func DefaultRules() []Rule {
	return []Rule{
		{Match: "legally authorized to work", Answer: "Yes"},
		{Match: "require sponsorship", Answer: "No"},
		{Match: "relocate", Answer: "Yes"},
		{Match: "minimum salary", Answer: "0"},
		{Match: "start date", Answer: "Immediately"},
		{Match: "years of experience", Answer: "0"},
		{Match: "notice period", Answer: "Immediately"},
		{Match: "willing to relocate", Answer: "Yes"},
		{Match: "authorized to work", Answer: "Yes"},
		{Match: "visa sponsorship", Answer: "No"},
	}
}

// MergeRules puts user rules ahead of base, dropping base rules whose
// fragment the user already overrides.
func MergeRules(user, base []Rule) []Rule {
	out := make([]Rule, 0, len(user)+len(base))
	seen := make(map[string]bool, len(user))
	for _, r := range user {
		if r.Match == "" {
			continue
		}
		seen[fold(r.Match)] = true
		out = append(out, r)
	}
	for _, r := range base {
		if !seen[fold(r.Match)] {
			out = append(out, r)
		}
	}
	return out
}

// fallbackRule is one keyword group of the fallback heuristic.
type fallbackRule struct {
	keywords []string
	answer   string
}

// InterestStatement is the fallback for motivation questions.
const InterestStatement = "I am excited about this opportunity and believe my skills align well with the requirements."

var fallbackRules = []fallbackRule{
	{keywords: []string{"year", "experience", "salary", "number"}, answer: "0"},
	{keywords: []string{"authorized", "eligible", "legal"}, answer: "Yes"},
	{keywords: []string{"sponsor", "visa", "h1b"}, answer: "No"},
	{keywords: []string{"relocate", "move", "willing"}, answer: "Yes"},
	{keywords: []string{"start", "available", "notice"}, answer: "Immediately"},
	{keywords: []string{"degree", "education", "university"}, answer: "Bachelor's Degree"},
	{keywords: []string{"cover letter", "why", "interest"}, answer: InterestStatement},
}

// Fallback answers from question keywords alone. It never returns an
// empty string.
func Fallback(question string) string {
	q := fold(question)
	for _, r := range fallbackRules {
		if containsAny(q, r.keywords...) {
			return r.answer
		}
	}
	return "Yes"
}

// MatchOption maps a free-text reply onto one of options. An option
// matches when either string contains the other, ignoring case. The first
// option is returned when nothing matches; options must not be empty.
func MatchOption(reply string, options []string) string {
	r := fold(strings.TrimSpace(reply))
	for _, opt := range options {
		o := fold(opt)
		if strings.Contains(o, r) || strings.Contains(r, o) {
			return opt
		}
	}
	return options[0]
}

// IsNumeric reports whether s is a non-empty run of ASCII digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// NumericHint reports whether a number field asks for years, experience
// or salary. Those are answered with "0" without consulting the model.
func NumericHint(question string) bool {
	return containsAny(fold(question), "year", "experience", "salary")
}

// fold returns the case folded form of s. A Caser is stateful, so one is
// created per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(fold(s), fold(substr))
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
