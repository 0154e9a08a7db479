package crm

import (
	"encoding/json"
	"strings"
)

// Summary is the decoded-or-raw view of a lead's research_summary blob.
// Exactly one of Research/Raw is populated: a successful decode yields
// Research, anything else falls back to the verbatim text in Raw.
type Summary struct {
	Research *CompanyResearch
	Raw      string
}

// Structured reports whether the summary decoded into research fields.
func (s Summary) Structured() bool {
	return s.Research != nil
}

// Empty reports whether there is nothing to show at all.
func (s Summary) Empty() bool {
	return s.Research == nil && s.Raw == ""
}

// ParseSummary decodes a research_summary blob. The blob is expected to be
// JSON but is not trusted: malformed input, or JSON that is not an object,
// degrades to the raw text rather than an error. An empty blob yields an
// empty Summary.
func ParseSummary(text string) Summary {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Summary{}
	}

	// Reject non-object JSON (e.g. a bare string or number) up front so
	// `"not json"` and `42` render verbatim instead of as empty research.
	if !strings.HasPrefix(trimmed, "{") {
		return Summary{Raw: text}
	}

	var research CompanyResearch
	if err := json.Unmarshal([]byte(trimmed), &research); err != nil {
		return Summary{Raw: text}
	}
	return Summary{Research: &research}
}
