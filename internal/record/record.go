// Package record appends application outcomes to a CSV file.
//
// The file is shared across runs: rows are only ever appended, and the
// header is written once, when the file is created.
package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/nao1215/easyapply/internal/model"
)

// Appender writes outcome rows to one CSV file.
// It is safe for concurrent use.
type Appender struct {
	path string
	mu   sync.Mutex
}

// NewAppender returns an Appender for path. The file is not touched until
// the first Append.
func NewAppender(path string) *Appender {
	return &Appender{path: path}
}

// Path returns the file path.
func (a *Appender) Path() string {
	return a.path
}

// Append writes records in order. The header row is written first when
// the file does not exist yet. Appending no records does nothing.
func (a *Appender) Append(records []model.ApplicationRecord) error {
	if len(records) == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	_, err := os.Stat(a.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if dir := filepath.Dir(a.path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create directory for %s: %w", a.path, err)
			}
		}
	case err != nil:
		return fmt.Errorf("failed to check %s: %w", a.path, err)
	}
	newFile := err != nil

	file, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // outcome file is meant to be readable
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", a.path, err)
	}

	w := csv.NewWriter(file)
	if newFile {
		if err := w.Write(model.RowHeader()); err != nil {
			_ = file.Close()
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			_ = file.Close()
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to flush %s: %w", a.path, err)
	}
	return file.Close()
}
