package model

import "time"

// RunSummary collects every attempt of one run.
type RunSummary struct {
	RunID      string      `json:"run_id"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	SearchURL  string      `json:"search_url"`
	CardsFound int         `json:"cards_found"`
	Attempts   []*Attempt  `json:"attempts"`
	Answers    AnswerStats `json:"answers"`
}

// AnswerStats counts where question answers came from.
type AnswerStats struct {
	Rules     int64 `json:"rules"`
	Model     int64 `json:"model"`
	Fallbacks int64 `json:"fallbacks"`
}

// Total is the number of answers given.
func (s AnswerStats) Total() int64 {
	return s.Rules + s.Model + s.Fallbacks
}

// NewRunSummary creates an empty summary.
func NewRunSummary(runID, searchURL string) *RunSummary {
	return &RunSummary{
		RunID:     runID,
		StartedAt: time.Now(),
		SearchURL: searchURL,
		Attempts:  make([]*Attempt, 0),
	}
}

// Add appends an attempt.
func (s *RunSummary) Add(a *Attempt) {
	s.Attempts = append(s.Attempts, a)
}

// Count returns the number of attempts with the given status.
func (s *RunSummary) Count(status Status) int {
	n := 0
	for _, a := range s.Attempts {
		if a.Status == status {
			n++
		}
	}
	return n
}

// StatusCounts returns attempt counts keyed by status, omitting zeros.
func (s *RunSummary) StatusCounts() map[Status]int {
	counts := make(map[Status]int)
	for _, a := range s.Attempts {
		counts[a.Status]++
	}
	return counts
}

// Records returns the outcome rows of all recorded attempts.
func (s *RunSummary) Records() []ApplicationRecord {
	out := make([]ApplicationRecord, 0, len(s.Attempts))
	for _, a := range s.Attempts {
		if a.Status.Recorded() {
			out = append(out, NewApplicationRecord(s.RunID, a))
		}
	}
	return out
}

// Duration is the wall time of the run.
func (s *RunSummary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
