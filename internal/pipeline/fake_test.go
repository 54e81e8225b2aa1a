package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/nao1215/easyapply/internal/form"
	"github.com/nao1215/easyapply/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeBoard is an in-memory Board.
type fakeBoard struct {
	jobs []model.Job

	openErr   error
	jobErr    error
	applyErr  error
	modalErr  error
	followErr error
	saveErr   error
	followUp  bool

	opened    []int
	applied   int
	dismissed int
	snapshots []string
}

func (b *fakeBoard) Job(_ context.Context, i int) (model.Job, error) {
	if b.jobErr != nil {
		return model.Job{}, b.jobErr
	}
	if i >= len(b.jobs) {
		return model.Job{}, errors.New("no such card")
	}
	return b.jobs[i], nil
}

func (b *fakeBoard) OpenJob(_ context.Context, i int) error {
	if b.openErr != nil {
		return b.openErr
	}
	b.opened = append(b.opened, i)
	return nil
}

func (b *fakeBoard) URL() string { return "https://www.linkedin.com/jobs/search/" }

func (b *fakeBoard) OpenApplication(context.Context) error {
	if b.applyErr != nil {
		return b.applyErr
	}
	b.applied++
	return nil
}

func (b *fakeBoard) Modal(context.Context) (form.Modal, error) {
	if b.modalErr != nil {
		return nil, b.modalErr
	}
	return nil, nil
}

func (b *fakeBoard) DismissFollowUp(context.Context) (bool, error) {
	if b.followErr != nil {
		return false, b.followErr
	}
	if b.followUp {
		b.dismissed++
	}
	return b.followUp, nil
}

func (b *fakeBoard) SaveSnapshot(_ context.Context, dir, name string) (string, error) {
	if b.saveErr != nil {
		return "", b.saveErr
	}
	p := filepath.Join(dir, name+".html")
	b.snapshots = append(b.snapshots, p)
	return p, nil
}

// fakeTraverser returns a fixed outcome.
type fakeTraverser struct {
	outcome model.Outcome
	runs    int
}

func (f *fakeTraverser) Run(context.Context, form.Modal) model.Outcome {
	f.runs++
	return f.outcome
}

// fakeHistory reports links in applied as already applied.
type fakeHistory struct {
	applied map[string]bool
	err     error
}

func (h *fakeHistory) HasApplied(_ context.Context, link string) (bool, error) {
	if h.err != nil {
		return false, h.err
	}
	return h.applied[link], nil
}

func testJobs() []model.Job {
	return []model.Job{
		{Index: 0, Title: "Software Engineer Intern", Company: "Acme", Link: "https://www.linkedin.com/jobs/view/1/"},
		{Index: 1, Title: "Data Intern", Company: "Globex", Link: "https://www.linkedin.com/jobs/view/2/"},
		{Index: 2, Title: "QA Intern", Company: "Initech", Link: "https://www.linkedin.com/jobs/view/3/"},
	}
}
