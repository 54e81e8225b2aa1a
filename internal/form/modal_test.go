package form

import (
	"testing"
)

// TestButtonQuerySelector tests Playwright selector rendering.
func TestButtonQuerySelector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		q    ButtonQuery
		want string
	}{
		{ButtonQuery{Text: "Submit"}, "button:has-text('Submit')"},
		{ButtonQuery{AriaLabel: "Close"}, "button[aria-label*='Close']"},
		{ButtonQuery{Type: "submit"}, "button[type='submit']"},
		{ButtonQuery{Class: "artdeco-modal__dismiss"}, ".artdeco-modal__dismiss"},
		{ButtonQuery{Text: "Don't"}, `button:has-text('Don\'t')`},
		{ButtonQuery{}, "button"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.q.Selector(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

// TestFindNavigation tests navigation priority.
func TestFindNavigation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		buttons []*fakeButton
		want    NavKind
	}{
		{"submit wins over next", []*fakeButton{{text: "Next"}, {text: "Submit application"}}, NavSubmit},
		{"review wins over next", []*fakeButton{{text: "Back"}, {text: "Next"}, {text: "Review"}}, NavReview},
		{"submit type", []*fakeButton{{text: "Send", typ: "submit"}}, NavSubmit},
		{"next by aria label", []*fakeButton{{aria: "Continue to Next step"}}, NavNext},
		{"continue text", []*fakeButton{{text: "Save and continue"}}, NavNext},
		{"none", []*fakeButton{{text: "Back"}}, NavNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := &fakeModal{pages: []*fakePage{{buttons: tt.buttons}}}
			btn, kind := FindNavigation(m)
			if kind != tt.want {
				t.Errorf("expected %s, got %s", tt.want, kind)
			}
			if (btn == nil) != (tt.want == NavNone) {
				t.Errorf("unexpected button %v for kind %s", btn, kind)
			}
		})
	}
}

// TestDismiss tests closing a modal.
func TestDismiss(t *testing.T) {
	t.Parallel()

	t.Run("clicks close button", func(t *testing.T) {
		t.Parallel()
		m := &fakeModal{pages: []*fakePage{{buttons: []*fakeButton{{class: "artdeco-modal__dismiss", close: true}}}}}
		if err := Dismiss(m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.escaped {
			t.Error("expected button click, not escape")
		}
		if !m.closed {
			t.Error("expected modal to be closed")
		}
	})

	t.Run("escape without buttons", func(t *testing.T) {
		t.Parallel()
		m := &fakeModal{pages: []*fakePage{{}}}
		if err := Dismiss(m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !m.escaped {
			t.Error("expected escape")
		}
	})
}
