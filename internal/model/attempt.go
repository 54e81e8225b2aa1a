package model

import (
	"time"
)

// Attempt is the working state of one application, filled in by the
// pipeline steps in order.
type Attempt struct {
	// Job is the card being applied to.
	Job Job `json:"job"`

	// Status is the attempt result. It starts as StatusFailed and is
	// upgraded by the steps that succeed.
	Status Status `json:"status"`

	// Outcome is set once the modal traversal ran.
	Outcome *Outcome `json:"outcome,omitempty"`

	// StartedAt is when the attempt began.
	StartedAt time.Time `json:"started_at"`

	// ModalOpenedAt is when the application modal was detected.
	// Runtime is measured from here.
	ModalOpenedAt time.Time `json:"modal_opened_at,omitzero"`

	// FinishedAt is when the attempt ended.
	FinishedAt time.Time `json:"finished_at,omitzero"`

	// PageURL is the browser URL after the card was opened.
	PageURL string `json:"page_url,omitempty"`

	// SnapshotPath is the saved modal HTML for unsubmitted attempts.
	SnapshotPath string `json:"snapshot_path,omitempty"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the error that ended the attempt, if any.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// NewAttempt creates an attempt for the card at index.
func NewAttempt(index int) *Attempt {
	return &Attempt{
		Job:       NewJob(index),
		Status:    StatusFailed,
		StartedAt: time.Now(),
	}
}

// SetError records err on the attempt.
func (a *Attempt) SetError(err error) {
	a.Error = err
	if err != nil {
		a.ErrorMessage = err.Error()
	}
}

// Finish stamps FinishedAt and derives the status from the outcome.
// Skipped attempts keep their status.
func (a *Attempt) Finish(now time.Time) {
	a.FinishedAt = now
	if a.Status == StatusSkipped {
		return
	}
	if a.Outcome != nil {
		a.Status = a.Outcome.Status()
	}
}

// Runtime is the time spent from opening the modal until the attempt
// finished. It is zero when the modal never opened.
func (a *Attempt) Runtime() time.Duration {
	if a.ModalOpenedAt.IsZero() || a.FinishedAt.IsZero() {
		return 0
	}
	return a.FinishedAt.Sub(a.ModalOpenedAt)
}
