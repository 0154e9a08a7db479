package tui

import (
	"strings"
	"testing"

	"github.com/leaddesk/leaddesk/internal/crm"
)

func TestViewEmptyState(t *testing.T) {
	gw := newMockGateway()
	m := newTestModel(gw)

	view := stripANSI(m.View())

	if !strings.Contains(view, "No leads yet") {
		t.Errorf("empty state missing from view:\n%s", view)
	}
	// Rendering must never trigger fetches.
	if gw.listLeadsCalls != 0 || len(gw.emailCalls) != 0 {
		t.Errorf("render caused backend calls: leads=%d emails=%v", gw.listLeadsCalls, gw.emailCalls)
	}
}

func TestViewRendersLeadRows(t *testing.T) {
	gw := newMockGateway()
	gw.leads = makeLeads(2)
	m := newTestModel(gw)

	view := stripANSI(m.View())

	for _, want := range []string{"Leads (2)", "Company 1", "company2.com", "2026-01-15"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestViewStructuredSummary(t *testing.T) {
	gw := newMockGateway()
	gw.leads = makeLeads(1)
	gw.leads[0].Industry = "Robotics"
	gw.leads[0].ResearchSummary = `{
		"company_name": "Company 1",
		"description": "Builds robots.",
		"products": ["ArmBot", "LegBot"],
		"key_highlights": ["Fast growth"],
		"recent_news": "Series B closed"
	}`
	m := newTestModel(gw)

	next, c := sendKey(t, m, keyEnter())
	m = runCmd(t, next, c)
	view := stripANSI(m.View())

	for _, want := range []string{"Industry: Robotics", "Builds robots.", "ArmBot, LegBot", "• Fast growth", "News: Series B closed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestViewRawSummaryFallsBackToText(t *testing.T) {
	gw := newMockGateway()
	gw.leads = makeLeads(1)
	gw.leads[0].ResearchSummary = "Free-form analyst notes about the company."
	m := newTestModel(gw)

	next, c := sendKey(t, m, keyEnter())
	m = runCmd(t, next, c)
	view := stripANSI(m.View())

	if !strings.Contains(view, "Free-form analyst notes") {
		t.Errorf("raw summary not rendered:\n%s", view)
	}
}

func TestViewExpandedShowsLatestEmail(t *testing.T) {
	gw := newMockGateway()
	gw.leads = makeLeads(1)
	gw.emails[1] = []crm.Email{
		makeEmail(11, 1, "Second outreach"),
		makeEmail(10, 1, "First outreach"),
	}
	m := newTestModel(gw)

	next, c := sendKey(t, m, keyEnter())
	m = runCmd(t, next, c)
	view := stripANSI(m.View())

	if !strings.Contains(view, "Latest email (2 total): Second outreach") {
		t.Errorf("latest email not rendered:\n%s", view)
	}
}

func TestViewExpandedNoEmails(t *testing.T) {
	gw := newMockGateway()
	gw.leads = makeLeads(1)
	m := newTestModel(gw)

	next, c := sendKey(t, m, keyEnter())
	m = runCmd(t, next, c)
	view := stripANSI(m.View())

	if !strings.Contains(view, "No emails yet") {
		t.Errorf("empty email section not rendered:\n%s", view)
	}
}

func TestViewDeleteConfirmModal(t *testing.T) {
	gw := newMockGateway()
	gw.leads = makeLeads(1)
	m := newTestModel(gw)

	m, _ = sendKey(t, m, key('d'))
	view := stripANSI(m.View())

	for _, want := range []string{"Delete lead?", "Company 1 (company1.com)", "[y] delete"} {
		if !strings.Contains(view, want) {
			t.Errorf("modal missing %q:\n%s", want, view)
		}
	}
}

func TestViewResearchError(t *testing.T) {
	gw := newMockGateway()
	m := newTestModel(gw)
	m.gen = genFailed
	m.genErr = "an error occurred; check that the backend is running"

	view := stripANSI(m.View())

	if !strings.Contains(view, "Error: an error occurred") {
		t.Errorf("error line not rendered:\n%s", view)
	}
}

func TestViewPriorOutcomeShownNextToError(t *testing.T) {
	gw := newMockGateway()
	m := newTestModel(gw)
	m.outcome = &crm.ResearchOutcome{
		Lead:  crm.LeadRef{CompanyName: "Acme", CompanyDomain: "acme.com", Status: "updated"},
		Email: crm.DraftEmail{Subject: "Hello Acme"},
	}
	m.gen = genFailed
	m.genErr = "backend unreachable"

	view := stripANSI(m.View())

	if !strings.Contains(view, "Error: backend unreachable") {
		t.Errorf("error missing:\n%s", view)
	}
	if !strings.Contains(view, "Acme (acme.com)") {
		t.Errorf("prior outcome missing:\n%s", view)
	}
}

func TestViewCursorRowStyled(t *testing.T) {
	forceColorProfile(t)

	gw := newMockGateway()
	gw.leads = makeLeads(2)
	m := newTestModel(gw)

	view := m.View()

	if !strings.Contains(view, ansiStart) {
		t.Error("expected styled output with ANSI escapes")
	}
}

func TestViewHiddenPanel(t *testing.T) {
	gw := newMockGateway()
	gw.leads = makeLeads(2)
	m := newTestModel(gw)

	m, _ = sendKey(t, m, key('c'))
	view := stripANSI(m.View())

	if strings.Contains(view, "Company 1") {
		t.Errorf("lead rows rendered while panel hidden:\n%s", view)
	}
	if !strings.Contains(view, "press c to show") {
		t.Errorf("hidden panel hint missing:\n%s", view)
	}
}
