package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/easyapply/internal/model"
)

// JSONWriter outputs reports as JSON.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output with the given prefix and indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// runReport adds derived fields to a run summary.
type runReport struct {
	*model.RunSummary

	Counts   map[model.Status]int `json:"counts"`
	Duration float64              `json:"duration_seconds"`
}

// Write outputs the run summary with status counts.
func (w *JSONWriter) Write(run *model.RunSummary) (int, error) {
	return w.writeJSON(runReport{
		RunSummary: run,
		Counts:     run.StatusCounts(),
		Duration:   run.Duration().Seconds(),
	})
}

// WriteHistory outputs the history.
func (w *JSONWriter) WriteHistory(h *History) (int, error) {
	return w.writeJSON(h)
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
