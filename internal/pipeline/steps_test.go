package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nao1215/easyapply/internal/model"
)

func TestOpenJobStep(t *testing.T) {
	t.Parallel()

	t.Run("reads card details", func(t *testing.T) {
		t.Parallel()

		board := &fakeBoard{jobs: testJobs()}
		a := model.NewAttempt(1)
		if err := NewOpenJobStep(board, discardLogger()).Do(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Job.Title != "Data Intern" || a.Job.Company != "Globex" {
			t.Errorf("unexpected job %+v", a.Job)
		}
		if a.PageURL == "" {
			t.Error("expected page url")
		}
		if len(board.opened) != 1 || board.opened[0] != 1 {
			t.Errorf("expected card 1 opened, got %v", board.opened)
		}
	})

	t.Run("keeps placeholders when the card cannot be read", func(t *testing.T) {
		t.Parallel()

		board := &fakeBoard{jobErr: errors.New("detached")}
		a := model.NewAttempt(0)
		if err := NewOpenJobStep(board, discardLogger()).Do(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Job.Title != model.HiddenTitle || a.Job.Company != model.HiddenCompany {
			t.Errorf("expected placeholders, got %+v", a.Job)
		}
	})

	t.Run("click failure is an error", func(t *testing.T) {
		t.Parallel()

		openErr := errors.New("card gone")
		board := &fakeBoard{openErr: openErr}
		err := NewOpenJobStep(board, discardLogger()).Do(context.Background(), model.NewAttempt(0))
		if !errors.Is(err, openErr) {
			t.Errorf("expected %v, got %v", openErr, err)
		}
	})
}

func TestSkipAppliedStep(t *testing.T) {
	t.Parallel()

	link := "https://www.linkedin.com/jobs/view/1/"
	tests := []struct {
		name     string
		history  History
		link     string
		wantSkip bool
	}{
		{name: "already applied", history: &fakeHistory{applied: map[string]bool{link: true}}, link: link, wantSkip: true},
		{name: "new job", history: &fakeHistory{}, link: link},
		{name: "no link", history: &fakeHistory{applied: map[string]bool{"": true}}},
		{name: "lookup error", history: &fakeHistory{err: errors.New("locked")}, link: link},
		{name: "no history", link: link},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := model.NewAttempt(0)
			a.Job.Link = tt.link
			err := NewSkipAppliedStep(tt.history, discardLogger()).Do(context.Background(), a)
			if got := errors.Is(err, ErrSkipped); got != tt.wantSkip {
				t.Errorf("expected skip=%v, got %v", tt.wantSkip, err)
			}
			if !tt.wantSkip && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestOpenApplicationStep(t *testing.T) {
	t.Parallel()

	applyErr := errors.New("no easy apply")
	board := &fakeBoard{applyErr: applyErr}
	err := NewOpenApplicationStep(board).Do(context.Background(), model.NewAttempt(0))
	if !errors.Is(err, applyErr) {
		t.Errorf("expected %v, got %v", applyErr, err)
	}

	board = &fakeBoard{}
	if err := NewOpenApplicationStep(board).Do(context.Background(), model.NewAttempt(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.applied != 1 {
		t.Errorf("expected 1 click, got %d", board.applied)
	}
}

func TestTraverseStep(t *testing.T) {
	t.Parallel()

	opened := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("stores the outcome", func(t *testing.T) {
		t.Parallel()

		board := &fakeBoard{}
		tr := &fakeTraverser{outcome: model.Outcome{Submitted: true, Steps: 3, Reason: model.StopSubmitted}}
		step := NewTraverseStep(board, tr, WithSnapshotDir(t.TempDir()), WithTraverseLogger(discardLogger()))
		step.now = func() time.Time { return opened }

		a := model.NewAttempt(0)
		if err := step.Do(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Outcome == nil || !a.Outcome.Submitted {
			t.Fatalf("expected submitted outcome, got %+v", a.Outcome)
		}
		if !a.ModalOpenedAt.Equal(opened) {
			t.Errorf("expected modal opened at %v, got %v", opened, a.ModalOpenedAt)
		}
		if len(board.snapshots) != 0 {
			t.Error("expected no snapshot for a submitted application")
		}
	})

	t.Run("snapshots unsubmitted modals", func(t *testing.T) {
		t.Parallel()

		board := &fakeBoard{}
		tr := &fakeTraverser{outcome: model.Outcome{Steps: 2, Reason: model.StopDuplicateState}}
		step := NewTraverseStep(board, tr, WithSnapshotDir("/snapshots"), WithTraverseLogger(discardLogger()))

		a := model.NewAttempt(0)
		a.Job.Title = "Data Intern"
		if err := step.Do(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.SnapshotPath != "/snapshots/Data Intern.html" {
			t.Errorf("unexpected snapshot path %q", a.SnapshotPath)
		}
	})

	t.Run("snapshot failure is not fatal", func(t *testing.T) {
		t.Parallel()

		board := &fakeBoard{saveErr: errors.New("disk full")}
		tr := &fakeTraverser{outcome: model.Outcome{Reason: model.StopNoNavigation}}
		step := NewTraverseStep(board, tr, WithSnapshotDir("/snapshots"), WithTraverseLogger(discardLogger()))

		a := model.NewAttempt(0)
		if err := step.Do(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.SnapshotPath != "" {
			t.Errorf("expected no snapshot path, got %q", a.SnapshotPath)
		}
	})

	t.Run("missing modal is an error", func(t *testing.T) {
		t.Parallel()

		modalErr := errors.New("no dialog")
		tr := &fakeTraverser{}
		step := NewTraverseStep(&fakeBoard{modalErr: modalErr}, tr, WithTraverseLogger(discardLogger()))

		a := model.NewAttempt(0)
		if err := step.Do(context.Background(), a); !errors.Is(err, modalErr) {
			t.Errorf("expected %v, got %v", modalErr, err)
		}
		if tr.runs != 0 {
			t.Error("expected traverser not to run")
		}
		if !a.ModalOpenedAt.IsZero() {
			t.Error("expected runtime clock not to start")
		}
	})
}

func TestFollowUpStep(t *testing.T) {
	t.Parallel()

	board := &fakeBoard{followUp: true}
	if err := NewFollowUpStep(board, discardLogger()).Do(context.Background(), model.NewAttempt(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.dismissed != 1 {
		t.Errorf("expected 1 dismissal, got %d", board.dismissed)
	}

	board = &fakeBoard{followErr: errors.New("detached")}
	if err := NewFollowUpStep(board, discardLogger()).Do(context.Background(), model.NewAttempt(0)); err != nil {
		t.Errorf("expected follow-up errors to be ignored, got %v", err)
	}
}

func TestSteps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		history History
		want    []string
	}{
		{
			name:    "with history",
			history: &fakeHistory{},
			want:    []string{"open_job", "skip_applied", "open_application", "traverse", "follow_up"},
		},
		{
			name: "without history",
			want: []string{"open_job", "open_application", "traverse", "follow_up"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []string
			for _, step := range Steps(&fakeBoard{}, tt.history, &fakeTraverser{}, discardLogger()) {
				got = append(got, step.Name())
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("step %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
