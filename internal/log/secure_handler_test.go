package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestSecureHandler_SanitizesSensitiveKeys tests that sensitive keys are sanitized.
func TestSecureHandler_SanitizesSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{name: "password is masked", key: "password", value: "hunter2", wantMask: true},
		{name: "Password (uppercase) is masked", key: "Password", value: "hunter2", wantMask: true},
		{name: "li_at cookie is masked", key: "li_at", value: "abc", wantMask: true},
		{name: "openai key name is masked", key: "openai_api_key", value: "abc", wantMask: true},
		{name: "key containing token is masked", key: "csrf_token", value: "abc", wantMask: true},
		{name: "key containing cookie is masked", key: "session_cookie", value: "abc", wantMask: true},
		{name: "job title is kept", key: "title", value: "Software Engineer Intern", wantMask: false},
		{name: "url is kept", key: "url", value: "https://www.linkedin.com/jobs/view/1", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, true)
			logger.Info("test", tt.key, tt.value)

			out := buf.String()
			masked := strings.Contains(out, MaskValue)
			if masked != tt.wantMask {
				t.Errorf("expected masked=%v, got output %q", tt.wantMask, out)
			}
			if tt.wantMask && strings.Contains(out, tt.value) {
				t.Errorf("expected value %q to be hidden, got %q", tt.value, out)
			}
		})
	}
}

// TestSecureHandler_SanitizesSensitivePatterns tests value based masking.
func TestSecureHandler_SanitizesSensitivePatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		wantMask bool
	}{
		{name: "openai key", value: "sk-proj-abcdefghijklmnopqrstuvwx", wantMask: true},
		{name: "bearer token", value: "Bearer abc.def", wantMask: true},
		{name: "jwt", value: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig", wantMask: true},
		{name: "li_at value", value: "AQEDAR" + strings.Repeat("x", 48), wantMask: true},
		{name: "short sk prefix", value: "sk-1", wantMask: false},
		{name: "plain answer", value: "Immediately", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isSensitiveValue(tt.value); got != tt.wantMask {
				t.Errorf("expected %v for %q, got %v", tt.wantMask, tt.value, got)
			}
		})
	}
}

// TestMaskEmail tests partial email masking.
func TestMaskEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"jane.doe@example.com", "j***@example.com"},
		{"a@b.io", "a***@b.io"},
		{"not-an-email", MaskValue},
		{"@example.com", MaskValue},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := MaskEmail(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("email attribute is partially masked", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		NewSecureLogger(&buf, true).Info("login", "email", "jane.doe@example.com")
		if !strings.Contains(buf.String(), "j***@example.com") {
			t.Errorf("expected masked email, got %q", buf.String())
		}
	})
}

// TestSecureHandler_LogLevels tests verbose level selection.
func TestSecureHandler_LogLevels(t *testing.T) {
	t.Parallel()

	t.Run("non verbose drops info", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewSecureLogger(&buf, false)
		logger.Info("hidden")
		logger.Warn("shown")
		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Error("expected info to be dropped")
		}
		if !strings.Contains(out, "shown") {
			t.Error("expected warn to be logged")
		}
	})

	t.Run("verbose keeps debug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		NewSecureLogger(&buf, true).Debug("detail")
		if !strings.Contains(buf.String(), "detail") {
			t.Error("expected debug output")
		}
	})
}

// TestSecureHandler_WithAttrs tests that attributes added via With are sanitized.
func TestSecureHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true).With("password", "hunter2")
	logger.Info("test")

	if strings.Contains(buf.String(), "hunter2") {
		t.Errorf("expected password to be masked, got %q", buf.String())
	}
}

// TestSecureHandler_WithGroup tests that grouped attributes are sanitized.
func TestSecureHandler_WithGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)
	logger.Info("test", slog.Group("login", slog.String("password", "hunter2"), slog.String("url", "x")))

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Errorf("expected grouped password to be masked, got %q", out)
	}
	if !strings.Contains(out, "login.url=x") {
		t.Errorf("expected grouped url, got %q", out)
	}
}

// TestNewLogger tests format selection.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewLogger(&buf, false, true).Warn("json", "api_key", "sk-abcdefghijklmnopqrstuvwx")
	out := buf.String()
	if !strings.HasPrefix(out, "{") {
		t.Errorf("expected JSON output, got %q", out)
	}
	if strings.Contains(out, "sk-abc") {
		t.Errorf("expected api key to be masked, got %q", out)
	}

	buf.Reset()
	NewLogger(&buf, false, false).Warn("text")
	if strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected text output, got %q", buf.String())
	}
}

// TestNewSecureHandler_NilHandler tests that a nil handler falls back to the default.
func TestNewSecureHandler_NilHandler(t *testing.T) {
	t.Parallel()

	h := NewSecureHandler(nil)
	if h.handler == nil {
		t.Error("expected fallback handler")
	}
}
