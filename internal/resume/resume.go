// Package resume loads the resume text given to the language model as
// context for answering questions.
package resume

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"baliance.com/gooxml/document"
)

var (
	// ErrNotFound is returned when the resume file does not exist.
	ErrNotFound = errors.New("resume file not found")

	// ErrUnsupportedFormat is returned for extensions other than .docx, .txt and .md.
	ErrUnsupportedFormat = errors.New("unsupported resume format: use .docx, .txt or .md")

	// ErrEmpty is returned when the resume has no text.
	ErrEmpty = errors.New("resume is empty")
)

// listPrefix marks paragraphs whose style is a list style.
const listPrefix = "- "

// Load reads the resume at path and returns its text.
func Load(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", err
	}

	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		text, err = loadDocx(path)
	case ".txt", ".md":
		text, err = loadPlain(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// loadDocx joins the non-empty paragraphs of a Word document, one per line.
// Paragraphs in a list style are prefixed with "- ".
func loadDocx(path string) (string, error) {
	doc, err := document.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open resume: %w", err)
	}

	lines := make([]string, 0, len(doc.Paragraphs()))
	for _, p := range doc.Paragraphs() {
		var b strings.Builder
		for _, r := range p.Runs() {
			b.WriteString(r.Text())
		}
		line := strings.TrimSpace(b.String())
		if line == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(p.Style()), "list") {
			line = listPrefix + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func loadPlain(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user supplied resume path
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Preview returns the first n runes of text, with "..." appended when
// text was cut.
func Preview(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}
