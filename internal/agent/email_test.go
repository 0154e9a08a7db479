package agent

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/leaddesk/leaddesk/internal/crm"
)

func TestDraftEmailFromModel(t *testing.T) {
	llm := &mockLLM{response: "```json\n" + `{"subject":"Strategic Partnership - Acme","body":"Hi Acme,\n\nFirst paragraph."}` + "\n```"}

	draft := DraftEmail(context.Background(), llm, Research("acme.com"))

	if draft.Subject != "Strategic Partnership - Acme" {
		t.Errorf("Subject = %q", draft.Subject)
	}
	if !strings.HasPrefix(draft.Body, "Hi Acme,") {
		t.Errorf("Body does not open with greeting: %q", draft.Body)
	}
	if !strings.HasSuffix(draft.Body, signature) {
		t.Errorf("Body does not end with signature: %q", draft.Body)
	}
}

func TestDraftEmailFallbackOnModelError(t *testing.T) {
	llm := &mockLLM{err: fmt.Errorf("connection refused")}

	draft := DraftEmail(context.Background(), llm, Research("openai.com"))

	if !strings.Contains(draft.Subject, "OpenAI") {
		t.Errorf("fallback subject missing company name: %q", draft.Subject)
	}
	if !strings.HasPrefix(draft.Body, "Hi OpenAI,") {
		t.Errorf("fallback body missing greeting: %q", draft.Body)
	}
}

func TestDraftEmailFallbackOnUnparseableOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"prose", "I cannot produce JSON today."},
		{"empty fields", `{"subject":"","body":""}`},
		{"wrong shape", `{"greeting":"hello"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockLLM{response: tt.response}
			draft := DraftEmail(context.Background(), llm, Research("acme.com"))
			if !strings.Contains(draft.Subject, "Acme") {
				t.Errorf("fallback subject = %q", draft.Subject)
			}
			if draft.Body == "" {
				t.Error("fallback body empty")
			}
		})
	}
}

func TestNormalizeDraftAddsMissingPieces(t *testing.T) {
	draft := normalizeDraft(crm.DraftEmail{
		Subject: "\"Quarterly Sync\"",
		Body:    "Just the middle paragraph.\n\nBest regards,",
	}, Research("acme.com"))

	if draft.Subject != "Quarterly Sync" {
		t.Errorf("Subject = %q, want quotes stripped", draft.Subject)
	}
	if !strings.HasPrefix(draft.Body, "Hi Acme,") {
		t.Errorf("missing greeting: %q", draft.Body)
	}
	if strings.Count(draft.Body, "Best regards,") != 1 {
		t.Errorf("dangling partial signature not replaced: %q", draft.Body)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare json", `{"subject": "hello"}`, `{"subject": "hello"}`},
		{"with fences", "```json\n{\"subject\": \"a\"}\n```", `{"subject": "a"}`},
		{"text before", "Here you go:\n{\"subject\": \"b\"}", `{"subject": "b"}`},
		{"text after", "{\"subject\": \"b\"}\nDone.", `{"subject": "b"}`},
		{"no json", "no json here", "no json here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.input); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
