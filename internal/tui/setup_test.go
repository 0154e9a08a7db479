package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leaddesk/leaddesk/internal/crm"
	"github.com/muesli/termenv"
)

// ansiStart is the escape sequence prefix found in styled terminal output.
const ansiStart = "\x1b["

// colorProfileMu serializes tests that mutate the global lipgloss color profile.
var colorProfileMu sync.Mutex

// forceColorProfile sets lipgloss to ANSI color output for tests that assert
// on styled output, restoring the original profile via t.Cleanup.
func forceColorProfile(t *testing.T) {
	t.Helper()
	colorProfileMu.Lock()
	orig := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(orig)
		colorProfileMu.Unlock()
	})
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// mockGateway implements Gateway with canned data and call counters.
type mockGateway struct {
	mu sync.Mutex

	leads    []crm.Lead
	leadsErr error
	emails   map[int64][]crm.Email
	emailErr error

	outcome     *crm.ResearchOutcome
	researchErr error
	deleteErr   error

	listLeadsCalls int
	emailCalls     map[int64]int
	researchCalls  []string
	deleteCalls    []int64
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		emails:     make(map[int64][]crm.Email),
		emailCalls: make(map[int64]int),
	}
}

func (g *mockGateway) RunResearch(_ context.Context, domain string) (*crm.ResearchOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.researchCalls = append(g.researchCalls, domain)
	if g.researchErr != nil {
		return nil, g.researchErr
	}
	return g.outcome, nil
}

func (g *mockGateway) ListLeads(_ context.Context) ([]crm.Lead, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listLeadsCalls++
	if g.leadsErr != nil {
		return nil, g.leadsErr
	}
	return g.leads, nil
}

func (g *mockGateway) ListLeadEmails(_ context.Context, leadID int64) ([]crm.Email, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.emailCalls[leadID]++
	if g.emailErr != nil {
		return nil, g.emailErr
	}
	return g.emails[leadID], nil
}

func (g *mockGateway) DeleteLead(_ context.Context, leadID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleteCalls = append(g.deleteCalls, leadID)
	return g.deleteErr
}

// TestModelBuilder helps construct Model instances for testing.
type TestModelBuilder struct {
	gateway      *mockGateway
	leads        []crm.Lead
	inputFocused bool
	width        int
	height       int
}

func NewBuilder(gw *mockGateway) *TestModelBuilder {
	return &TestModelBuilder{
		gateway: gw,
		width:   100,
		height:  30,
	}
}

func (b *TestModelBuilder) WithLeads(leads ...crm.Lead) *TestModelBuilder {
	b.leads = leads
	return b
}

func (b *TestModelBuilder) WithInputFocused() *TestModelBuilder {
	b.inputFocused = true
	return b
}

func (b *TestModelBuilder) WithSize(width, height int) *TestModelBuilder {
	b.width = width
	b.height = height
	return b
}

func (b *TestModelBuilder) Build() Model {
	m := New(b.gateway, Options{
		Version: "test",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	m.width = b.width
	m.height = b.height
	m.pageSize = b.height - 10
	m.leads = b.leads
	m.leadsLoading = false
	if !b.inputFocused {
		m.inputFocused = false
		m.domainInput.Blur()
	}
	return m
}

// newTestModel creates a model over the given gateway's lead list, as if the
// initial load already completed.
func newTestModel(gw *mockGateway) Model {
	return NewBuilder(gw).WithLeads(gw.leads...).Build()
}

// sendKey sends a key message through Update and returns the concrete Model.
func sendKey(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	newM, cmd := m.Update(k)
	return newM.(Model), cmd
}

// sendMsg sends any tea.Msg through Update and returns the concrete Model.
func sendMsg(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	newM, cmd := m.Update(msg)
	return newM.(Model), cmd
}

// runCmd executes a command and feeds every resulting message back through
// Update, following nested batches. Commands returned by Update itself are
// discarded; tests that care about follow-up commands drive them explicitly.
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = runCmd(t, m, c)
		}
		return m
	}
	newM, _ := m.Update(msg)
	return newM.(Model)
}

// key returns a KeyMsg for a single rune (e.g. key('d'), key(' ')).
func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func keyEnter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func keyEsc() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEscape}
}

// assertExpanded checks which lead detail is open.
func assertExpanded(t *testing.T, m Model, want int64) {
	t.Helper()
	if m.expandedID != want {
		t.Errorf("expandedID = %d, want %d", m.expandedID, want)
	}
}

// assertModal checks the active modal.
func assertModal(t *testing.T, m Model, want modalType) {
	t.Helper()
	if m.modal != want {
		t.Errorf("modal = %v, want %v", m.modal, want)
	}
}

// assertLeadCount checks the size of the lead list.
func assertLeadCount(t *testing.T, m Model, want int) {
	t.Helper()
	if len(m.leads) != want {
		t.Errorf("len(leads) = %d, want %d", len(m.leads), want)
	}
}

// makeLeads creates n leads with sequential IDs starting at 1.
func makeLeads(n int) []crm.Lead {
	leads := make([]crm.Lead, n)
	for i := range leads {
		leads[i] = crm.Lead{
			ID:            int64(i + 1),
			CompanyDomain: fmt.Sprintf("company%d.com", i+1),
			CompanyName:   fmt.Sprintf("Company %d", i+1),
			CreatedAt:     "2026-01-15T10:00:00Z",
		}
	}
	return leads
}

// makeEmail creates a sent email for a lead.
func makeEmail(id, leadID int64, subject string) crm.Email {
	return crm.Email{
		ID:      id,
		LeadID:  leadID,
		Subject: subject,
		Body:    "Hi,\n\nBody text.",
		Status:  crm.StatusSent,
	}
}
