package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the DateApplied format of the outcome file.
const DateLayout = "2006-01-02 15:04:05"

// ApplicationRecord is one attempted application as written to the outcome
// file and the history database.
type ApplicationRecord struct {
	// ID is the database row id. Zero until saved.
	ID int64 `json:"id,omitempty"`

	// RunID identifies the run that produced the record.
	RunID string `json:"run_id,omitempty"`

	Title   string `json:"title"`
	Company string `json:"company"`
	Link    string `json:"link"`

	// DateApplied is the local time the record was created.
	DateApplied time.Time `json:"date_applied"`

	// Runtime is the time spent in the modal, truncated to whole seconds.
	Runtime time.Duration `json:"runtime"`

	Status Status `json:"status"`

	// StopReason and Steps come from the modal traversal outcome.
	StopReason StopReason `json:"stop_reason,omitempty"`
	Steps      int        `json:"steps,omitempty"`
}

// NewApplicationRecord builds the record for a finished attempt.
func NewApplicationRecord(runID string, a *Attempt) ApplicationRecord {
	rec := ApplicationRecord{
		RunID:       runID,
		Title:       a.Job.Title,
		Company:     a.Job.Company,
		Link:        a.Job.Link,
		DateApplied: a.FinishedAt,
		Runtime:     a.Runtime().Truncate(time.Second),
		Status:      a.Status,
	}
	if rec.DateApplied.IsZero() {
		rec.DateApplied = time.Now()
	}
	if a.Outcome != nil {
		rec.StopReason = a.Outcome.Reason
		rec.Steps = a.Outcome.Steps
	}
	return rec
}

// Row returns the record in outcome file column order:
// Title, Company, Link, DateApplied, Runtime, Status.
// Commas in title and company are replaced with " -".
func (r ApplicationRecord) Row() []string {
	return []string{
		StripCommas(r.Title),
		StripCommas(r.Company),
		r.Link,
		r.DateApplied.Format(DateLayout),
		FormatRuntime(r.Runtime),
		string(r.Status),
	}
}

// RowHeader is the header of the outcome file.
func RowHeader() []string {
	return []string{"Title", "Company", "Link", "DateApplied", "Runtime", "Status"}
}

// StripCommas replaces every comma with " -".
func StripCommas(s string) string {
	return strings.ReplaceAll(s, ",", " -")
}

// FormatRuntime renders whole seconds as "<n> sec".
func FormatRuntime(d time.Duration) string {
	return fmt.Sprintf("%d sec", int64(d/time.Second))
}
