// Package agent runs the research and outreach-drafting workflow: research
// a company domain, upsert the lead into the CRM, draft a personalized
// email, and record it as sent.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/leaddesk/leaddesk/internal/crm"
	"github.com/leaddesk/leaddesk/internal/store"
)

// Agent orchestrates one generation run per Run call.
type Agent struct {
	store  *store.Store
	llm    LLMClient
	logger *slog.Logger
}

// New creates an Agent. llm may be nil, in which case drafting always uses
// the fallback template.
func New(s *store.Store, llm LLMClient, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{store: s, llm: llm, logger: logger}
}

// Run executes the workflow for a company domain and returns the outcome:
// research, the created-or-updated lead reference, and the drafted email.
func (a *Agent) Run(ctx context.Context, domain string) (*crm.ResearchOutcome, error) {
	if domain == "" {
		return nil, fmt.Errorf("company domain is required")
	}

	a.logger.Info("researching company", "domain", domain)
	research := Research(domain)

	summary, err := json.Marshal(research)
	if err != nil {
		return nil, fmt.Errorf("encode research summary: %w", err)
	}

	result, err := a.store.UpsertLead(crm.Lead{
		CompanyDomain:   domain,
		CompanyName:     research.CompanyName,
		Industry:        research.Industry,
		Description:     research.Description,
		ResearchSummary: string(summary),
	})
	if err != nil {
		return nil, fmt.Errorf("save lead: %w", err)
	}

	leadStatus := "updated"
	if result.Created {
		leadStatus = "created"
	}
	a.logger.Info("lead saved", "lead_id", result.Lead.ID, "status", leadStatus)

	draft := DraftEmail(ctx, a.llm, research)

	// Mock send: the email is recorded as sent immediately.
	email, err := a.store.InsertEmail(crm.Email{
		LeadID:  result.Lead.ID,
		Subject: draft.Subject,
		Body:    draft.Body,
		Status:  crm.StatusSent,
		SentAt:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("save email: %w", err)
	}
	a.logger.Info("email recorded", "email_id", email.ID, "subject", email.Subject)

	return &crm.ResearchOutcome{
		CompanyDomain: domain,
		Research:      research,
		Lead: crm.LeadRef{
			Status:        leadStatus,
			LeadID:        result.Lead.ID,
			CompanyDomain: result.Lead.CompanyDomain,
			CompanyName:   result.Lead.CompanyName,
		},
		Email:  draft,
		Status: "completed",
	}, nil
}
