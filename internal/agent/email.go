package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leaddesk/leaddesk/internal/crm"
)

// signature closes every outreach email, whether drafted by the model or
// by the fallback template.
const signature = "Best regards,\n\nThe Leaddesk Team"

const draftSystemPrompt = `You write professional, executive-level B2B outreach
emails about AI and automation solutions. Respond with ONLY a JSON object of
the form {"subject": "...", "body": "..."}. The subject must include the
company name and avoid sales language. The body must open with
"Hi <Company>," and use \n\n between paragraphs. 140-180 words, no
exclamation marks, no quotes.`

// DraftEmail asks the model for an outreach email based on the research.
// Any model failure (unreachable server, unparseable output) falls back to
// a deterministic template; drafting never fails outright.
func DraftEmail(ctx context.Context, llm LLMClient, research crm.CompanyResearch) crm.DraftEmail {
	if llm == nil {
		return fallbackEmail(research)
	}

	prompt := draftPrompt(research)
	resp, err := llm.Chat(ctx, []Message{
		{Role: "system", Content: draftSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return fallbackEmail(research)
	}

	var draft crm.DraftEmail
	if err := json.Unmarshal([]byte(extractJSON(resp)), &draft); err != nil {
		return fallbackEmail(research)
	}
	if draft.Subject == "" || draft.Body == "" {
		return fallbackEmail(research)
	}
	return normalizeDraft(draft, research)
}

// draftPrompt renders the research into the user prompt for the model.
func draftPrompt(r crm.CompanyResearch) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "COMPANY RESEARCH:\n")
	fmt.Fprintf(&sb, "- Company: %s\n", orUnknown(r.CompanyName))
	fmt.Fprintf(&sb, "- Industry: %s\n", orUnknown(r.Industry))
	fmt.Fprintf(&sb, "- Description: %s\n", orUnknown(r.Description))
	fmt.Fprintf(&sb, "- Key Highlights: %s\n", strings.Join(r.KeyHighlights, ", "))
	fmt.Fprintf(&sb, "- Recent News: %s\n", orUnknown(r.RecentNews))
	return sb.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// normalizeDraft enforces the opening and signature conventions on a
// model-produced draft.
func normalizeDraft(draft crm.DraftEmail, r crm.CompanyResearch) crm.DraftEmail {
	name := orUnknown(r.CompanyName)

	draft.Subject = strings.TrimSpace(strings.ReplaceAll(draft.Subject, `"`, ""))

	body := strings.TrimSpace(draft.Body)
	if !strings.HasPrefix(body, "Hi ") {
		body = fmt.Sprintf("Hi %s,\n\n%s", name, body)
	}
	if !strings.Contains(body, signature) {
		for _, ending := range []string{"Best regards,", "Kind regards,", "Regards,"} {
			if strings.HasSuffix(body, ending) {
				body = strings.TrimSpace(body[:len(body)-len(ending)])
				break
			}
		}
		body += "\n\n" + signature
	}
	draft.Body = body
	return draft
}

// fallbackEmail is the deterministic template used when the model is
// unavailable or returns something unusable.
func fallbackEmail(r crm.CompanyResearch) crm.DraftEmail {
	name := orUnknown(r.CompanyName)
	industry := r.Industry
	if industry == "" {
		industry = "technology"
	}
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"I have been following %s's progress in the %s sector and wanted to reach out regarding potential collaboration opportunities.\n\n"+
			"We specialize in implementing AI and automation solutions that help companies achieve measurable improvements in operational efficiency and scalability. Based on %s's current market position, I believe there may be strategic value in exploring how these capabilities could support your growth objectives.\n\n"+
			"Would you be available for a brief conversation to discuss this further?\n\n%s",
		name, name, industry, name, signature)

	return crm.DraftEmail{
		Subject: fmt.Sprintf("Strategic Partnership Discussion - %s", name),
		Body:    body,
	}
}
