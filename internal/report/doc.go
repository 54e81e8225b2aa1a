// Package report renders run summaries and application history.
//
// Three formats are supported:
//   - TextWriter: plain text for the terminal
//   - MarkdownWriter: tables and a status chart for sharing
//   - JSONWriter: structured output for other tools
//
// New picks a Writer by Format.
package report
