package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/easyapply/internal/model"
)

// MarkdownWriter outputs reports in GitHub flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the run summary.
func (w *MarkdownWriter) Write(run *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Easy Apply Run")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + run.RunID + "`"},
			{"Started", formatDate(run.StartedAt)},
			{"Duration", run.Duration().Round(time.Second).String()},
			{"Search", run.SearchURL},
			{"Cards Found", strconv.Itoa(run.CardsFound)},
		},
	})
	md.PlainText("")

	counts := run.StatusCounts()
	w.writeCounts(md, counts, len(run.Attempts))
	w.writeAlert(md, counts, len(run.Attempts))
	w.writeAnswers(md, run.Answers)

	md.H2("Attempts")
	md.PlainText("")
	if len(run.Attempts) == 0 {
		md.PlainText("No job cards were attempted.")
		md.PlainText("")
	} else {
		rows := make([][]string, len(run.Attempts))
		for i, a := range run.Attempts {
			steps, fields := "-", "-"
			if a.Outcome != nil {
				steps = strconv.Itoa(a.Outcome.Steps)
				fields = strconv.Itoa(a.Outcome.FieldsFilled)
			}
			rows[i] = []string{
				strconv.Itoa(a.Job.Index + 1),
				truncate(a.Job.Title, 50),
				truncate(a.Job.Company, 30),
				string(a.Status),
				truncate(reasonOf(a), 40),
				steps,
				fields,
				model.FormatRuntime(a.Runtime()),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"#", "Title", "Company", "Status", "Reason", "Steps", "Fields", "Runtime"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	for _, a := range run.Attempts {
		if a.SnapshotPath != "" {
			md.Details(a.Job.String(), "Modal snapshot: `"+a.SnapshotPath+"`")
		}
	}

	return len(md.String()), md.Build()
}

// writeCounts writes the status table and a chart of the distribution.
func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, counts map[model.Status]int, total int) {
	md.H2("Results")
	md.PlainText("")

	rows := make([][]string, 0, len(statusOrder)+1)
	for _, s := range statusOrder {
		rows = append(rows, []string{string(s), strconv.Itoa(counts[s])})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(total) + "**"})
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if total == 0 {
		return
	}
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Application Status"),
		piechart.WithShowData(true),
	)
	for _, s := range statusOrder {
		if counts[s] > 0 {
			chart.LabelAndIntValue(string(s), uint64(counts[s])) //nolint:gosec // counts are positive
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAnswers writes where question answers came from.
func (w *MarkdownWriter) writeAnswers(md *markdown.Markdown, ans model.AnswerStats) {
	if ans.Total() == 0 {
		return
	}
	md.H2("Answers")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Source", "Answers"},
		Rows: [][]string{
			{"Rules", strconv.FormatInt(ans.Rules, 10)},
			{"Language model", strconv.FormatInt(ans.Model, 10)},
			{"Fallbacks", strconv.FormatInt(ans.Fallbacks, 10)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, counts map[model.Status]int, total int) {
	switch {
	case total == 0:
		md.Note("No applications were attempted in this run.")
	case counts[model.StatusSuccess] == total:
		md.Tip("Every attempted application was submitted.")
	case counts[model.StatusFailed] > 0:
		md.Warningf("%d application(s) failed before the form could be processed.", counts[model.StatusFailed])
	case counts[model.StatusIncomplete] > 0:
		md.Importantf("%d application(s) need manual follow-up.", counts[model.StatusIncomplete])
	default:
		md.Note("Some jobs were skipped.")
	}
	md.PlainText("")
}

// WriteHistory renders stored history.
func (w *MarkdownWriter) WriteHistory(h *History) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Application History")
	md.PlainText("")

	if h.Stats != nil {
		md.H2("Statistics")
		md.PlainText("")
		rows := [][]string{
			{"Applications", strconv.Itoa(h.Stats.Total)},
			{"Runs", strconv.Itoa(h.Stats.Runs)},
		}
		for _, s := range statusOrder {
			rows = append(rows, []string{string(s), strconv.Itoa(h.Stats.ByStatus[s])})
		}
		rows = append(rows,
			[]string{"Average Runtime", model.FormatRuntime(h.Stats.AverageRuntime)},
			[]string{"Last Applied", formatDate(h.Stats.LastApplied)},
		)
		md.Table(markdown.TableSet{Header: []string{"Metric", "Value"}, Rows: rows})
		md.PlainText("")
	}

	if len(h.Runs) > 0 {
		md.H2("Runs")
		md.PlainText("")
		rows := make([][]string, len(h.Runs))
		for i, r := range h.Runs {
			rows[i] = []string{
				formatDate(r.StartedAt),
				"`" + r.ID + "`",
				strconv.Itoa(r.CardsFound),
				strconv.Itoa(r.Success),
				strconv.Itoa(r.Incomplete),
				strconv.Itoa(r.Skipped),
				strconv.Itoa(r.Failed),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Started", "Run", "Cards", "Success", "Incomplete", "Skipped", "Failed"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if h.Applications != nil || (h.Stats == nil && h.Runs == nil) {
		md.H2("Applications")
		md.PlainText("")
		if len(h.Applications) == 0 {
			md.PlainText("No applications recorded.")
		} else {
			rows := make([][]string, len(h.Applications))
			for i, r := range h.Applications {
				rows[i] = []string{
					formatDate(r.DateApplied),
					truncate(r.Title, 50),
					truncate(r.Company, 30),
					string(r.Status),
					model.FormatRuntime(r.Runtime),
					r.Link,
				}
			}
			md.Table(markdown.TableSet{
				Header: []string{"Date", "Title", "Company", "Status", "Runtime", "Link"},
				Rows:   rows,
			})
		}
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}
