package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/easyapply/internal/database"
	"github.com/nao1215/easyapply/internal/model"
)

// Writer renders reports to an output.
type Writer interface {
	// Write renders the summary of one run.
	// Returns the number of bytes written and any error encountered.
	Write(run *model.RunSummary) (int, error)

	// WriteHistory renders stored applications, runs and statistics.
	WriteHistory(h *History) (int, error)
}

// History is what the history command shows. Empty parts are omitted.
type History struct {
	Applications []model.ApplicationRecord `json:"applications,omitempty"`
	Runs         []database.RunRecord      `json:"runs,omitempty"`
	Stats        *database.Stats           `json:"stats,omitempty"`
}

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, markdown or json)", s)
	}
}

// New returns the writer for format.
func New(format Format, output io.Writer) Writer {
	switch format {
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	default:
		return NewTextWriter(output)
	}
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// statusOrder is the display order of statuses.
var statusOrder = []model.Status{
	model.StatusSuccess,
	model.StatusIncomplete,
	model.StatusSkipped,
	model.StatusFailed,
}

// reasonOf describes why an attempt ended.
func reasonOf(a *model.Attempt) string {
	switch {
	case a.Outcome != nil:
		return string(a.Outcome.Reason)
	case a.ErrorMessage != "":
		return a.ErrorMessage
	default:
		return "-"
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(model.DateLayout)
}

// truncate shortens s to maxLen runes with an ellipsis.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
