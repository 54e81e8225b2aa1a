package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/easyapply/internal/model"
)

const ruleWidth = 70

// TextWriter renders reports as plain text for the terminal.
type TextWriter struct {
	baseWriter

	// verbose adds error messages and snapshot paths.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables additional detail in the output.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the run summary.
func (w *TextWriter) Write(run *model.RunSummary) (int, error) {
	var sb strings.Builder

	banner(&sb, "EASY APPLY RUN")
	fmt.Fprintf(&sb, "Run ID:      %s\n", run.RunID)
	fmt.Fprintf(&sb, "Started:     %s\n", formatDate(run.StartedAt))
	fmt.Fprintf(&sb, "Duration:    %s\n", run.Duration().Round(time.Second))
	fmt.Fprintf(&sb, "Search:      %s\n", run.SearchURL)
	fmt.Fprintf(&sb, "Cards found: %d\n\n", run.CardsFound)

	section(&sb, "RESULTS")
	counts := run.StatusCounts()
	for _, s := range statusOrder {
		fmt.Fprintf(&sb, "  %-11s %d\n", string(s)+":", counts[s])
	}
	fmt.Fprintf(&sb, "  %-11s %d\n\n", "Total:", len(run.Attempts))

	if ans := run.Answers; ans.Total() > 0 {
		section(&sb, "ANSWERS")
		fmt.Fprintf(&sb, "  %-11s %d\n", "Rules:", ans.Rules)
		fmt.Fprintf(&sb, "  %-11s %d\n", "Model:", ans.Model)
		fmt.Fprintf(&sb, "  %-11s %d\n\n", "Fallbacks:", ans.Fallbacks)
	}

	if len(run.Attempts) > 0 {
		section(&sb, "ATTEMPTS")
		for _, a := range run.Attempts {
			w.writeAttempt(&sb, a)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	return w.output.Write([]byte(sb.String()))
}

func (w *TextWriter) writeAttempt(sb *strings.Builder, a *model.Attempt) {
	fmt.Fprintf(sb, "  [%s] %s\n", indicator(a.Status), a.Job)
	line := "    " + reasonOf(a)
	if a.Outcome != nil {
		line += fmt.Sprintf(", %d step(s), %d field(s)", a.Outcome.Steps, a.Outcome.FieldsFilled)
	}
	if rt := a.Runtime(); rt > 0 {
		line += ", " + model.FormatRuntime(rt)
	}
	sb.WriteString(line + "\n")
	if !w.verbose {
		return
	}
	if a.Job.Link != "" {
		fmt.Fprintf(sb, "    Link: %s\n", a.Job.Link)
	}
	if a.SnapshotPath != "" {
		fmt.Fprintf(sb, "    Snapshot: %s\n", a.SnapshotPath)
	}
	if a.ErrorMessage != "" && a.Outcome != nil {
		fmt.Fprintf(sb, "    Error: %s\n", a.ErrorMessage)
	}
}

// WriteHistory renders stored history.
func (w *TextWriter) WriteHistory(h *History) (int, error) {
	var sb strings.Builder

	if h.Stats != nil {
		section(&sb, "STATISTICS")
		fmt.Fprintf(&sb, "  Applications: %d\n", h.Stats.Total)
		fmt.Fprintf(&sb, "  Runs:         %d\n", h.Stats.Runs)
		for _, s := range statusOrder {
			fmt.Fprintf(&sb, "  %-13s %d\n", string(s)+":", h.Stats.ByStatus[s])
		}
		fmt.Fprintf(&sb, "  Avg runtime:  %s\n", model.FormatRuntime(h.Stats.AverageRuntime))
		fmt.Fprintf(&sb, "  Last applied: %s\n\n", formatDate(h.Stats.LastApplied))
	}

	if len(h.Runs) > 0 {
		section(&sb, "RUNS")
		for _, r := range h.Runs {
			fmt.Fprintf(&sb, "  %s  %s  cards=%d success=%d incomplete=%d skipped=%d failed=%d\n",
				formatDate(r.StartedAt), r.ID, r.CardsFound, r.Success, r.Incomplete, r.Skipped, r.Failed)
		}
		sb.WriteString("\n")
	}

	if h.Applications != nil || (h.Stats == nil && h.Runs == nil) {
		section(&sb, "APPLICATIONS")
		if len(h.Applications) == 0 {
			sb.WriteString("  No applications recorded\n")
		}
		for _, r := range h.Applications {
			fmt.Fprintf(&sb, "  %s  [%s] %s at %s (%s)\n",
				formatDate(r.DateApplied), indicator(r.Status), r.Title, r.Company, model.FormatRuntime(r.Runtime))
			if w.verbose {
				fmt.Fprintf(&sb, "    %s\n", r.Link)
			}
		}
		sb.WriteString("\n")
	}

	return w.output.Write([]byte(sb.String()))
}

func banner(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// indicator returns a short marker for the status.
func indicator(s model.Status) string {
	switch s {
	case model.StatusSuccess:
		return "+"
	case model.StatusIncomplete:
		return "~"
	case model.StatusSkipped:
		return "-"
	case model.StatusFailed:
		return "!"
	default:
		return "?"
	}
}
