package resume

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"baliance.com/gooxml/document"
)

// writeDocx creates a Word document with one paragraph per entry.
// Entries in lists get the ListParagraph style.
func writeDocx(t *testing.T, paragraphs []string, lists map[int]bool) string {
	t.Helper()

	doc := document.New()
	for i, text := range paragraphs {
		p := doc.AddParagraph()
		if lists[i] {
			p.SetStyle("ListParagraph")
		}
		p.AddRun().AddText(text)
	}

	path := filepath.Join(t.TempDir(), "resume.docx")
	if err := doc.SaveToFile(path); err != nil {
		t.Fatalf("failed to write docx: %v", err)
	}
	return path
}

// TestLoadDocx tests Word resume extraction.
func TestLoadDocx(t *testing.T) {
	t.Parallel()

	path := writeDocx(t,
		[]string{"Jane Doe", "   ", "Skills", "Go", "SQL", ""},
		map[int]bool{3: true, 4: true},
	)

	got, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Jane Doe\nSkills\n- Go\n- SQL"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// TestLoadPlain tests text and markdown resumes.
func TestLoadPlain(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"resume.txt", "resume.MD"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), name)
			if err := os.WriteFile(path, []byte("\n  Jane Doe\nGo developer \n"), 0o600); err != nil {
				t.Fatal(err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != "Jane Doe\nGo developer" {
				t.Errorf("unexpected text %q", got)
			}
		})
	}
}

// TestLoadErrors tests error cases.
func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		if _, err := Load(filepath.Join(dir, "missing.docx")); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(dir, "resume.pdf")
		if err := os.WriteFile(path, []byte("%PDF"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})

	t.Run("empty text file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(dir, "empty.txt")
		if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); !errors.Is(err, ErrEmpty) {
			t.Errorf("expected ErrEmpty, got %v", err)
		}
	})

	t.Run("corrupt docx", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(dir, "broken.docx")
		if err := os.WriteFile(path, []byte("not a zip"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("expected error for corrupt docx")
		}
	})
}

// TestPreview tests truncation.
func TestPreview(t *testing.T) {
	t.Parallel()

	if got := Preview("short", 10); got != "short" {
		t.Errorf("expected short, got %q", got)
	}
	if got := Preview("héllo world", 5); got != "héllo..." {
		t.Errorf("expected héllo..., got %q", got)
	}
}
