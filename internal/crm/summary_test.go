package crm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSummaryStructured(t *testing.T) {
	got := ParseSummary(`{"company_name":"Acme","products":["Widget"]}`)

	if !got.Structured() {
		t.Fatal("expected structured summary")
	}
	want := &CompanyResearch{
		CompanyName: "Acme",
		Products:    []string{"Widget"},
	}
	if diff := cmp.Diff(want, got.Research); diff != "" {
		t.Errorf("research mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSummaryAllFields(t *testing.T) {
	got := ParseSummary(`{
		"company_name": "Stripe",
		"industry": "Financial Technology",
		"description": "Economic infrastructure for the internet.",
		"products": ["Payment Processing", "Stripe Atlas"],
		"recent_news": "Expanding global payment solutions",
		"key_highlights": ["Used by millions of businesses"]
	}`)

	if !got.Structured() {
		t.Fatal("expected structured summary")
	}
	if got.Research.Industry != "Financial Technology" {
		t.Errorf("industry = %q", got.Research.Industry)
	}
	if len(got.Research.Products) != 2 {
		t.Errorf("products = %v", got.Research.Products)
	}
}

func TestParseSummaryMalformedFallsBackToRaw(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain text", "not json"},
		{"truncated object", `{"company_name": "Acme"`},
		{"bare string", `"just a quoted string"`},
		{"number", "42"},
		{"array", `["a", "b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSummary(tt.input)
			if got.Structured() {
				t.Fatalf("ParseSummary(%q) unexpectedly structured", tt.input)
			}
			if got.Raw != tt.input {
				t.Errorf("Raw = %q, want %q", got.Raw, tt.input)
			}
		})
	}
}

func TestParseSummaryEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		got := ParseSummary(input)
		if !got.Empty() {
			t.Errorf("ParseSummary(%q) not empty: %+v", input, got)
		}
	}
}

func TestParseSummaryPartialFieldsOptional(t *testing.T) {
	got := ParseSummary(`{"recent_news":"Series B closed"}`)
	if !got.Structured() {
		t.Fatal("expected structured summary")
	}
	if got.Research.RecentNews != "Series B closed" {
		t.Errorf("recent_news = %q", got.Research.RecentNews)
	}
	if got.Research.CompanyName != "" || len(got.Research.Products) != 0 {
		t.Errorf("unexpected populated fields: %+v", got.Research)
	}
}
