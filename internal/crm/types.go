// Package crm defines the lead and email domain types shared by the
// dashboard, the HTTP API, and the research agent.
package crm

// Lead is a persisted sales target. Timestamps travel as ISO-8601 text;
// the server assigns IDs and the list order (newest first) is authoritative.
type Lead struct {
	ID              int64  `json:"id"`
	CompanyDomain   string `json:"company_domain"`
	CompanyName     string `json:"company_name"`
	Industry        string `json:"industry"`
	Description     string `json:"description"`
	ResearchSummary string `json:"research_summary,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

// Email statuses. The set is server-defined; clients only special-case
// StatusSent and show anything else as a literal label.
const (
	StatusDraft  = "draft"
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Email is a drafted or sent outreach message tied to a lead.
type Email struct {
	ID        int64  `json:"id"`
	LeadID    int64  `json:"lead_id"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	SentAt    string `json:"sent_at,omitempty"`
}

// CompanyResearch is the structured research result for a company.
// Every field is optional on the wire; absent fields simply render nothing.
type CompanyResearch struct {
	CompanyName   string   `json:"company_name,omitempty"`
	Industry      string   `json:"industry,omitempty"`
	Description   string   `json:"description,omitempty"`
	Products      []string `json:"products,omitempty"`
	RecentNews    string   `json:"recent_news,omitempty"`
	KeyHighlights []string `json:"key_highlights,omitempty"`
}

// LeadRef identifies the lead a generation run created or updated.
// Status is "created" or "updated".
type LeadRef struct {
	Status        string `json:"status"`
	LeadID        int64  `json:"lead_id"`
	CompanyDomain string `json:"company_domain"`
	CompanyName   string `json:"company_name"`
}

// DraftEmail is the generated outreach email inside a ResearchOutcome.
type DraftEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ResearchOutcome is the transient result of one generation run. It is not
// persisted client-side; the next run or a restart replaces it.
type ResearchOutcome struct {
	CompanyDomain string          `json:"company_domain"`
	Research      CompanyResearch `json:"research"`
	Lead          LeadRef         `json:"lead"`
	Email         DraftEmail      `json:"email"`
	Status        string          `json:"status"`
}
