package model

// Status is the result of one application attempt.
type Status string

const (
	// StatusSuccess means the submit button was clicked.
	StatusSuccess Status = "Success"

	// StatusIncomplete means the modal was processed but not submitted.
	StatusIncomplete Status = "Incomplete"

	// StatusSkipped means the job was not attempted, e.g. already applied.
	StatusSkipped Status = "Skipped"

	// StatusFailed means the modal could not be opened or an error stopped
	// the attempt before the modal was processed.
	StatusFailed Status = "Failed"
)

// Recorded reports whether attempts with this status produce an outcome row.
// Only attempts that reached the modal are written to the outcome file.
func (s Status) Recorded() bool {
	return s == StatusSuccess || s == StatusIncomplete
}

// StopReason explains why the modal traversal ended.
type StopReason string

const (
	// StopSubmitted means the submit button was clicked.
	StopSubmitted StopReason = "submitted"

	// StopModalClosed means the modal disappeared.
	StopModalClosed StopReason = "modal_closed"

	// StopDuplicateState means the same page was seen twice, typically
	// because a required field could not be filled.
	StopDuplicateState StopReason = "duplicate_state"

	// StopNoNavigation means no Next, Review or Submit button was found.
	StopNoNavigation StopReason = "no_navigation"

	// StopDismissed means an unrecognized page was closed.
	StopDismissed StopReason = "dismissed"

	// StopMaxSteps means the page limit was reached.
	StopMaxSteps StopReason = "max_steps"

	// StopTimeout means the modal time budget ran out.
	StopTimeout StopReason = "timeout"

	// StopError means the traversal was aborted by an error or cancellation.
	StopError StopReason = "error"
)

// Outcome describes how a modal traversal ended.
type Outcome struct {
	// Submitted is true when the submit button was clicked.
	Submitted bool `json:"submitted"`

	// Steps is the number of wizard pages visited.
	Steps int `json:"steps"`

	// Reason is why the traversal stopped.
	Reason StopReason `json:"reason"`

	// FieldsFilled is the number of form controls that received a value.
	FieldsFilled int `json:"fields_filled"`
}

// Status converts the outcome into an attempt status.
func (o Outcome) Status() Status {
	if o.Submitted {
		return StatusSuccess
	}
	return StatusIncomplete
}
