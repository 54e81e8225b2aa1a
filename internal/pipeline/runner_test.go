package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nao1215/easyapply/internal/model"
)

func TestRunner(t *testing.T) {
	t.Parallel()

	t.Run("attempts every card", func(t *testing.T) {
		t.Parallel()

		board := &fakeBoard{jobs: testJobs()}
		history := &fakeHistory{applied: map[string]bool{"https://www.linkedin.com/jobs/view/2/": true}}
		tr := &fakeTraverser{outcome: model.Outcome{Submitted: true, Steps: 3, Reason: model.StopSubmitted}}

		var hooked []model.Status
		r := NewRunner(func() *Pipeline {
			p := New(WithLogger(discardLogger()))
			p.AddSteps(Steps(board, history, tr, discardLogger())...)
			return p
		},
			WithRunnerLogger(discardLogger()),
			WithAttemptHook(func(_ context.Context, a *model.Attempt) {
				hooked = append(hooked, a.Status)
			}),
		)

		run := model.NewRunSummary("run-1", "https://www.linkedin.com/jobs/search/")
		if err := r.Run(context.Background(), run, 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []model.Status{model.StatusSuccess, model.StatusSkipped, model.StatusSuccess}
		if len(run.Attempts) != len(want) {
			t.Fatalf("expected %d attempts, got %d", len(want), len(run.Attempts))
		}
		for i, a := range run.Attempts {
			if a.Status != want[i] {
				t.Errorf("attempt %d: expected %s, got %s", i, want[i], a.Status)
			}
			if a.FinishedAt.IsZero() {
				t.Errorf("attempt %d: expected finish time", i)
			}
		}
		if len(hooked) != 3 {
			t.Errorf("expected hook for every attempt, got %d", len(hooked))
		}
		if tr.runs != 2 {
			t.Errorf("expected 2 traversals, got %d", tr.runs)
		}
	})

	t.Run("failed card does not stop the run", func(t *testing.T) {
		t.Parallel()

		board := &fakeBoard{jobs: testJobs(), applyErr: errors.New("no easy apply")}
		r := NewRunner(func() *Pipeline {
			p := New(WithLogger(discardLogger()))
			p.AddSteps(Steps(board, nil, &fakeTraverser{}, discardLogger())...)
			return p
		}, WithRunnerLogger(discardLogger()))

		run := model.NewRunSummary("run-2", "")
		if err := r.Run(context.Background(), run, 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := run.Count(model.StatusFailed); got != 2 {
			t.Errorf("expected 2 failed attempts, got %d", got)
		}
		if run.Attempts[0].ErrorMessage == "" {
			t.Error("expected error message on failed attempt")
		}
	})

	t.Run("incomplete outcome", func(t *testing.T) {
		t.Parallel()

		board := &fakeBoard{jobs: testJobs()}
		tr := &fakeTraverser{outcome: model.Outcome{Steps: 4, Reason: model.StopDuplicateState}}
		clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		tick := func() time.Time {
			clock = clock.Add(10 * time.Second)
			return clock
		}

		r := NewRunner(func() *Pipeline {
			traverse := NewTraverseStep(board, tr, WithTraverseLogger(discardLogger()))
			traverse.now = tick
			p := New(WithLogger(discardLogger()))
			p.AddSteps(NewOpenJobStep(board, discardLogger()), NewOpenApplicationStep(board), traverse)
			return p
		}, WithRunnerLogger(discardLogger()))
		r.now = tick

		run := model.NewRunSummary("run-3", "")
		if err := r.Run(context.Background(), run, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		a := run.Attempts[0]
		if a.Status != model.StatusIncomplete {
			t.Errorf("expected %s, got %s", model.StatusIncomplete, a.Status)
		}
		if a.Runtime() != 10*time.Second {
			t.Errorf("expected 10s runtime, got %v", a.Runtime())
		}
		if len(run.Records()) != 1 {
			t.Errorf("expected 1 recorded row, got %d", len(run.Records()))
		}
	})

	t.Run("stops when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		board := &fakeBoard{jobs: testJobs()}
		r := NewRunner(func() *Pipeline {
			p := New(WithLogger(discardLogger()))
			p.AddSteps(Steps(board, nil, &fakeTraverser{}, discardLogger())...)
			return p
		},
			WithRunnerLogger(discardLogger()),
			WithAttemptHook(func(context.Context, *model.Attempt) { cancel() }),
		)

		run := model.NewRunSummary("run-4", "")
		if err := r.Run(ctx, run, 3); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(run.Attempts) != 1 {
			t.Errorf("expected 1 attempt before cancellation, got %d", len(run.Attempts))
		}
	})
}
