package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/easyapply/internal/config"
)

func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()
	flag := cmd.Flags().Lookup("output")
	if flag == nil {
		t.Fatal("expected output flag")
	}
	if flag.DefValue != config.DefaultConfigFile {
		t.Errorf("expected default %q, got %q", config.DefaultConfigFile, flag.DefValue)
	}
	if cmd.Flags().Lookup("force") == nil {
		t.Error("expected force flag")
	}
}

func TestRunInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates a loadable config file", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), "nested", ".easyapply")
		var buf bytes.Buffer
		cmd := NewInitCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"-o", outputPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), outputPath) {
			t.Errorf("expected output to mention %s, got %q", outputPath, buf.String())
		}

		file, err := config.LoadConfigFile(outputPath)
		if err != nil {
			t.Fatalf("template does not load: %v", err)
		}
		if file.Search.Keywords != config.DefaultKeywords {
			t.Errorf("expected keywords %q, got %q", config.DefaultKeywords, file.Search.Keywords)
		}
		if file.MaxApplies != config.DefaultMaxApplies {
			t.Errorf("expected maxApplies %d, got %d", config.DefaultMaxApplies, file.MaxApplies)
		}
		if file.ModalTimeout != config.DefaultModalTimeout {
			t.Errorf("expected modalTimeout %v, got %v", config.DefaultModalTimeout, file.ModalTimeout)
		}
		if len(file.Answers) != 2 {
			t.Errorf("expected 2 answers, got %d", len(file.Answers))
		}

		info, err := os.Stat(outputPath)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), ".easyapply")
		if err := os.WriteFile(outputPath, []byte("existing"), 0o600); err != nil {
			t.Fatal(err)
		}

		cmd := NewInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"-o", outputPath})
		if err := cmd.Execute(); err == nil {
			t.Error("expected error for existing file")
		}

		cmd = NewInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"-o", outputPath, "-f"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error with force: %v", err)
		}
		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatal(err)
		}
		if string(content) == "existing" {
			t.Error("expected file to be overwritten")
		}
	})
}
