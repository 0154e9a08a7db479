// Package tui provides the terminal dashboard for leaddesk.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/leaddesk/leaddesk/internal/crm"
)

// Gateway defines the backend operations the dashboard needs.
type Gateway interface {
	RunResearch(ctx context.Context, domain string) (*crm.ResearchOutcome, error)
	ListLeads(ctx context.Context) ([]crm.Lead, error)
	ListLeadEmails(ctx context.Context, leadID int64) ([]crm.Email, error)
	DeleteLead(ctx context.Context, leadID int64) error
}

// Options configuration for the TUI.
type Options struct {
	Version string
	Logger  *slog.Logger
}

// modalType represents the type of modal dialog.
type modalType int

const (
	modalNone modalType = iota
	modalDeleteConfirm
	modalDeleteError
	modalQuitConfirm
)

// genState tracks the research workflow lifecycle. At most one run is in
// flight at a time; a failed run keeps the previous outcome on screen.
type genState int

const (
	genIdle genState = iota
	genRunning
	genSucceeded
	genFailed
)

// noExpansion marks that no lead detail is open.
const noExpansion int64 = 0

// spinnerFrames are the Braille dot animation frames for the loading spinner.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is how fast the spinner animates.
const spinnerInterval = 80 * time.Millisecond

// flashDuration is how long flash messages are displayed.
const flashDuration = 4 * time.Second

// Model is the main dashboard model following the Elm architecture.
type Model struct {
	gateway Gateway
	logger  *slog.Logger
	version string

	// Lead list
	leads        []crm.Lead
	cursor       int
	scrollOffset int
	leadsLoading bool

	// Per-lead email cache. A lead whose ID is present has been fetched;
	// the detail panel reads from here and never refetches.
	emailCache    map[int64][]crm.Email
	pendingEmails map[int64]bool

	// At most one lead's detail is open at a time.
	expandedID int64

	// Research workflow
	gen          genState
	outcome      *crm.ResearchOutcome
	genErr       string
	domainInput  textinput.Model
	inputFocused bool

	// Deletion
	modal         modalType
	pendingDelete *crm.Lead
	deleteErr     string
	deleting      bool

	// Dashboard panel visibility
	showLeads bool

	// Request tracking to ignore stale lead list responses
	leadsRequestID uint64

	// Terminal dimensions
	width    int
	height   int
	pageSize int

	// Loading spinner
	spinnerFrame  int
	spinnerActive bool

	// Flash message (temporary notification)
	flashMessage   string
	flashExpiresAt time.Time

	quitting bool
}

// New creates a new dashboard model.
func New(gw Gateway, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "company domain (e.g. stripe.com)"
	ti.CharLimit = 120
	ti.Width = 40
	ti.Focus()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return Model{
		gateway:       gw,
		logger:        logger,
		version:       opts.Version,
		emailCache:    make(map[int64][]crm.Email),
		pendingEmails: make(map[int64]bool),
		expandedID:    noExpansion,
		domainInput:   ti,
		inputFocused:  true,
		showLeads:     true,
		leadsLoading:  true,
		spinnerActive: true,
		pageSize:      10,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadLeads(),
		spinnerTick(),
		textinput.Blink,
	)
}

// leadsLoadedMsg is sent when the lead list is loaded.
type leadsLoadedMsg struct {
	leads     []crm.Lead
	err       error
	requestID uint64
}

// emailsLoadedMsg is sent when one lead's emails are loaded.
type emailsLoadedMsg struct {
	leadID int64
	emails []crm.Email
	err    error
}

// researchDoneMsg is sent when the research workflow finishes.
type researchDoneMsg struct {
	outcome *crm.ResearchOutcome
	err     error
}

// deleteDoneMsg is sent when a lead deletion finishes.
type deleteDoneMsg struct {
	leadID int64
	err    error
}

// flashClearMsg clears the flash message after timeout.
type flashClearMsg struct{}

// spinnerTickMsg advances the loading spinner animation.
type spinnerTickMsg struct{}

// loadLeads fetches the lead list from the backend.
func (m Model) loadLeads() tea.Cmd {
	requestID := m.leadsRequestID
	return func() tea.Msg {
		leads, err := m.gateway.ListLeads(context.Background())
		return leadsLoadedMsg{leads: leads, err: err, requestID: requestID}
	}
}

// loadEmails fetches one lead's emails. Results are keyed by lead ID, so a
// late response still lands in the right cache slot.
func (m Model) loadEmails(leadID int64) tea.Cmd {
	return func() tea.Msg {
		emails, err := m.gateway.ListLeadEmails(context.Background(), leadID)
		return emailsLoadedMsg{leadID: leadID, emails: emails, err: err}
	}
}

// runResearch starts the research workflow for a domain.
func (m Model) runResearch(domain string) tea.Cmd {
	return func() tea.Msg {
		outcome, err := m.gateway.RunResearch(context.Background(), domain)
		return researchDoneMsg{outcome: outcome, err: err}
	}
}

// deleteLead asks the backend to delete a lead.
func (m Model) deleteLead(leadID int64) tea.Cmd {
	return func() tea.Msg {
		err := m.gateway.DeleteLead(context.Background(), leadID)
		return deleteDoneMsg{leadID: leadID, err: err}
	}
}

// spinnerTick returns a command that fires a spinnerTickMsg after the spinner interval.
func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// startSpinner returns a spinnerTick command if the spinner isn't already
// active, and marks it as active.
func (m *Model) startSpinner() tea.Cmd {
	if m.spinnerActive {
		return nil
	}
	m.spinnerActive = true
	m.spinnerFrame = 0
	return spinnerTick()
}

// flash sets a temporary notification and schedules its removal.
func (m *Model) flash(text string) tea.Cmd {
	m.flashMessage = text
	m.flashExpiresAt = time.Now().Add(flashDuration)
	return tea.Tick(flashDuration, func(t time.Time) tea.Msg {
		return flashClearMsg{}
	})
}

// busy reports whether any async work is in flight.
func (m Model) busy() bool {
	return m.leadsLoading || m.deleting || m.gen == genRunning || len(m.pendingEmails) > 0
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width < 0 {
			m.width = 0
		}
		if m.height < 0 {
			m.height = 0
		}
		// Title bar, input, status, outcome block, list header, footer.
		m.pageSize = m.height - 10
		if m.pageSize < 1 {
			m.pageSize = 1
		}
		return m, nil

	case leadsLoadedMsg:
		// Ignore stale responses from previous loads
		if msg.requestID != m.leadsRequestID {
			return m, nil
		}
		m.leadsLoading = false
		if msg.err != nil {
			// Read failures never interrupt the user; the list keeps its
			// previous contents.
			m.logger.Error("failed to load leads", "error", msg.err)
			return m, nil
		}
		m.leads = msg.leads
		if m.cursor >= len(m.leads) {
			m.cursor = len(m.leads) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureCursorVisible()
		// Drop the expansion if its lead no longer exists.
		if m.expandedID != noExpansion && m.leadByID(m.expandedID) == nil {
			m.expandedID = noExpansion
		}
		return m, nil

	case emailsLoadedMsg:
		delete(m.pendingEmails, msg.leadID)
		if msg.err != nil {
			// No cache entry is written, so the next expansion retries.
			m.logger.Error("failed to load lead emails", "lead_id", msg.leadID, "error", msg.err)
			return m, nil
		}
		// Idempotent by lead ID: a late response for a since-collapsed or
		// deleted lead is harmless.
		if m.leadByID(msg.leadID) != nil {
			m.emailCache[msg.leadID] = msg.emails
		}
		return m, nil

	case researchDoneMsg:
		if msg.err != nil {
			// The previous outcome stays on screen next to the error.
			m.gen = genFailed
			m.genErr = msg.err.Error()
			m.logger.Error("research run failed", "error", msg.err)
			return m, nil
		}
		m.gen = genSucceeded
		m.genErr = ""
		m.outcome = msg.outcome
		m.domainInput.SetValue("")
		// One reload per completed run keeps the list in sync.
		m.leadsRequestID++
		m.leadsLoading = true
		return m, tea.Batch(m.startSpinner(), m.loadLeads())

	case deleteDoneMsg:
		m.deleting = false
		if msg.err != nil {
			m.modal = modalDeleteError
			m.deleteErr = msg.err.Error()
			m.logger.Error("failed to delete lead", "lead_id", msg.leadID, "error", msg.err)
			return m, nil
		}
		m.removeLead(msg.leadID)
		m.pendingDelete = nil
		return m, m.flash("Lead deleted")

	case flashClearMsg:
		if time.Now().After(m.flashExpiresAt) || m.flashExpiresAt.IsZero() {
			m.flashMessage = ""
		}
		return m, nil

	case spinnerTickMsg:
		if m.busy() {
			m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
			return m, spinnerTick()
		}
		m.spinnerActive = false
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalNone {
		return m.handleModalKeys(msg)
	}
	if m.inputFocused {
		return m.handleInputKeys(msg)
	}
	return m.handleListKeys(msg)
}

// handleModalKeys handles keys while a modal dialog is open.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalDeleteConfirm:
		switch msg.String() {
		case "y", "Y", "enter":
			if m.pendingDelete == nil {
				m.modal = modalNone
				return m, nil
			}
			// The lead stays in the list until the backend confirms.
			m.modal = modalNone
			m.deleting = true
			return m, tea.Batch(m.startSpinner(), m.deleteLead(m.pendingDelete.ID))
		case "n", "N", "esc", "q":
			m.modal = modalNone
			m.pendingDelete = nil
			return m, nil
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case modalDeleteError:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		default:
			// Any key acknowledges the failure.
			m.modal = modalNone
			m.deleteErr = ""
			m.pendingDelete = nil
			return m, nil
		}

	case modalQuitConfirm:
		switch msg.String() {
		case "y", "Y", "enter", "q":
			m.quitting = true
			return m, tea.Quit
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		default:
			m.modal = modalNone
			return m, nil
		}
	}

	m.modal = modalNone
	return m, nil
}

// handleInputKeys handles keys while the domain input has focus.
func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		domain := strings.TrimSpace(m.domainInput.Value())
		if domain == "" {
			return m, nil
		}
		// One run at a time.
		if m.gen == genRunning {
			return m, nil
		}
		m.gen = genRunning
		m.genErr = ""
		return m, tea.Batch(m.startSpinner(), m.runResearch(domain))

	case "esc", "tab", "down":
		if len(m.leads) > 0 {
			m.inputFocused = false
			m.domainInput.Blur()
		}
		return m, nil

	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.domainInput, cmd = m.domainInput.Update(msg)
		return m, cmd
	}
}

// handleListKeys handles keys while navigating the lead list.
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.modal = modalQuitConfirm
		return m, nil
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "/", "i", "tab":
		m.inputFocused = true
		m.domainInput.Focus()
		return m, textinput.Blink

	case "c":
		m.showLeads = !m.showLeads
		return m, nil

	case "R":
		m.leadsRequestID++
		m.leadsLoading = true
		return m, tea.Batch(m.startSpinner(), m.loadLeads())

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.leads)-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
		return m, nil
	case "home":
		m.cursor = 0
		m.scrollOffset = 0
		return m, nil
	case "end", "G":
		m.cursor = len(m.leads) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureCursorVisible()
		return m, nil

	case "enter", " ":
		return m.toggleExpansion()

	case "d":
		if len(m.leads) == 0 || m.cursor >= len(m.leads) {
			return m, nil
		}
		lead := m.leads[m.cursor]
		m.pendingDelete = &lead
		m.modal = modalDeleteConfirm
		return m, nil
	}

	return m, nil
}

// toggleExpansion opens the detail panel for the lead under the cursor, or
// closes it if it is already open. Opening a different lead replaces the
// current expansion. The first successful open of a lead fetches its emails;
// after that the cache serves every subsequent open.
func (m Model) toggleExpansion() (tea.Model, tea.Cmd) {
	if len(m.leads) == 0 || m.cursor >= len(m.leads) {
		return m, nil
	}
	lead := m.leads[m.cursor]

	if m.expandedID == lead.ID {
		m.expandedID = noExpansion
		return m, nil
	}

	m.expandedID = lead.ID
	if _, cached := m.emailCache[lead.ID]; cached {
		return m, nil
	}
	if m.pendingEmails[lead.ID] {
		return m, nil
	}
	m.pendingEmails[lead.ID] = true
	return m, tea.Batch(m.startSpinner(), m.loadEmails(lead.ID))
}

// removeLead drops a lead from the list and all per-lead state.
func (m *Model) removeLead(leadID int64) {
	for i, l := range m.leads {
		if l.ID == leadID {
			m.leads = append(m.leads[:i], m.leads[i+1:]...)
			break
		}
	}
	delete(m.emailCache, leadID)
	delete(m.pendingEmails, leadID)
	if m.expandedID == leadID {
		m.expandedID = noExpansion
	}
	if m.cursor >= len(m.leads) {
		m.cursor = len(m.leads) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

// leadByID returns the lead with the given ID, or nil.
func (m Model) leadByID(id int64) *crm.Lead {
	for i := range m.leads {
		if m.leads[i].ID == id {
			return &m.leads[i]
		}
	}
	return nil
}

// ensureCursorVisible adjusts scrollOffset so the cursor row is on screen.
func (m *Model) ensureCursorVisible() {
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+m.pageSize {
		m.scrollOffset = m.cursor - m.pageSize + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// statusLine describes the research workflow state for the header.
func (m Model) statusLine() string {
	switch m.gen {
	case genRunning:
		return fmt.Sprintf("%s Researching...", spinnerFrames[m.spinnerFrame])
	case genFailed:
		return "Error: " + m.genErr
	case genSucceeded:
		if m.outcome != nil {
			return fmt.Sprintf("Research complete: %s (%s)", m.outcome.Lead.CompanyName, m.outcome.Lead.Status)
		}
		return "Research complete"
	default:
		return ""
	}
}
