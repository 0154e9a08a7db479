package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leaddesk/leaddesk/internal/crm"
)

// Monochrome theme - adaptive for light and dark terminals
var (
	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#333333"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"}).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#999999"})

	cursorRowStyle = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#282828"})

	headerRowStyle = lipgloss.NewStyle().Bold(true)

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#cccccc"}).
			PaddingLeft(4)

	errorStyle = lipgloss.NewStyle().Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#999999"}).
			Padding(0, 1)

	flashStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#996600", Dark: "#ffcc00"})

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().Bold(true)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.modal != modalNone {
		return m.renderModal()
	}

	var b strings.Builder

	title := "leaddesk"
	if m.version != "" && m.version != "dev" {
		title = fmt.Sprintf("leaddesk [%s]", m.version)
	}
	b.WriteString(titleBarStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Domain: "))
	b.WriteString(m.domainInput.View())
	b.WriteString("\n")

	if status := m.statusLine(); status != "" {
		if m.gen == genFailed {
			b.WriteString(errorStyle.Render(status))
		} else {
			b.WriteString(status)
		}
		b.WriteString("\n")
	}
	if m.flashMessage != "" {
		b.WriteString(flashStyle.Render(m.flashMessage))
		b.WriteString("\n")
	}

	if m.outcome != nil && m.gen != genRunning {
		b.WriteString(m.renderOutcome())
	}

	b.WriteString("\n")
	if m.showLeads {
		b.WriteString(m.renderLeadList())
	} else {
		b.WriteString(labelStyle.Render("Lead list hidden — press c to show"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderOutcome shows the latest completed research run.
func (m Model) renderOutcome() string {
	var b strings.Builder
	o := m.outcome
	b.WriteString(headerRowStyle.Render("Last run"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Lead:  %s (%s) — %s\n", o.Lead.CompanyName, o.Lead.CompanyDomain, o.Lead.Status)
	fmt.Fprintf(&b, "  Email: %s\n", truncateRunes(o.Email.Subject, m.contentWidth()-9))
	return b.String()
}

// renderLeadList renders the lead table with the optional expanded detail.
func (m Model) renderLeadList() string {
	var b strings.Builder

	b.WriteString(headerRowStyle.Render(fmt.Sprintf("Leads (%d)", len(m.leads))))
	b.WriteString("\n")

	if m.leadsLoading && len(m.leads) == 0 {
		fmt.Fprintf(&b, "%s Loading leads...\n", spinnerFrames[m.spinnerFrame])
		return b.String()
	}
	if len(m.leads) == 0 {
		b.WriteString(labelStyle.Render("No leads yet. Enter a domain above to research your first company."))
		b.WriteString("\n")
		return b.String()
	}

	end := m.scrollOffset + m.pageSize
	if end > len(m.leads) {
		end = len(m.leads)
	}
	for i := m.scrollOffset; i < end; i++ {
		lead := m.leads[i]
		marker := "  "
		if m.expandedID == lead.ID {
			marker = "▾ "
		}
		row := fmt.Sprintf("%s%s  %s  %s",
			marker,
			padRight(truncateRunes(lead.CompanyName, 24), 24),
			padRight(truncateRunes(lead.CompanyDomain, 24), 24),
			formatDate(lead.CreatedAt))
		if i == m.cursor && !m.inputFocused {
			b.WriteString(cursorRowStyle.Render(row))
		} else {
			b.WriteString(row)
		}
		b.WriteString("\n")

		if m.expandedID == lead.ID {
			b.WriteString(m.renderLeadDetail(lead))
		}
	}

	if len(m.leads) > m.pageSize {
		b.WriteString(labelStyle.Render(fmt.Sprintf("  %d-%d of %d", m.scrollOffset+1, end, len(m.leads))))
		b.WriteString("\n")
	}

	return b.String()
}

// renderLeadDetail renders the expanded panel: the research summary followed
// by the latest email from the cache.
func (m Model) renderLeadDetail(lead crm.Lead) string {
	width := m.contentWidth() - 6
	var lines []string

	if lead.Industry != "" {
		lines = append(lines, "Industry: "+lead.Industry)
	}

	summary := crm.ParseSummary(lead.ResearchSummary)
	switch {
	case summary.Structured():
		r := summary.Research
		if r.Description != "" {
			lines = append(lines, wrapText(r.Description, width)...)
		}
		if len(r.Products) > 0 {
			lines = append(lines, "Products: "+strings.Join(r.Products, ", "))
		}
		for _, h := range r.KeyHighlights {
			lines = append(lines, "• "+h)
		}
		if r.RecentNews != "" {
			lines = append(lines, wrapText("News: "+r.RecentNews, width)...)
		}
	case !summary.Empty():
		lines = append(lines, wrapText(summary.Raw, width)...)
	default:
		lines = append(lines, "No research summary")
	}

	lines = append(lines, "")
	lines = append(lines, m.renderLeadEmails(lead.ID, width)...)

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(detailStyle.Render(truncateRunes(line, width)))
		b.WriteString("\n")
	}
	return b.String()
}

// renderLeadEmails renders the email section of the detail panel from the
// cache. The cache entry's presence, not its length, marks a completed fetch.
func (m Model) renderLeadEmails(leadID int64, width int) []string {
	emails, cached := m.emailCache[leadID]
	if !cached {
		if m.pendingEmails[leadID] {
			return []string{fmt.Sprintf("%s Loading emails...", spinnerFrames[m.spinnerFrame])}
		}
		return []string{"Emails unavailable"}
	}
	if len(emails) == 0 {
		return []string{"No emails yet"}
	}

	latest := emails[0]
	lines := []string{fmt.Sprintf("Latest email (%d total): %s", len(emails), latest.Subject)}
	body := wrapText(latest.Body, width)
	if len(body) > 6 {
		body = append(body[:6], "...")
	}
	return append(lines, body...)
}

// renderFooter shows the active key bindings.
func (m Model) renderFooter() string {
	var keys string
	if m.inputFocused {
		keys = "enter: research · tab: leads · ctrl+c: quit"
	} else {
		keys = "j/k: move · enter: expand · d: delete · R: refresh · c: panel · tab: input · q: quit"
	}
	return footerStyle.Render(keys)
}

// renderModal renders the active modal dialog centered on screen.
func (m Model) renderModal() string {
	var content string

	switch m.modal {
	case modalDeleteConfirm:
		name := ""
		domain := ""
		if m.pendingDelete != nil {
			name = m.pendingDelete.CompanyName
			domain = m.pendingDelete.CompanyDomain
		}
		content = modalTitleStyle.Render("Delete lead?") + "\n\n" +
			fmt.Sprintf("%s (%s)\n", name, domain) +
			"All of its emails will be deleted too.\n\n" +
			"[y] delete    [n] cancel"

	case modalDeleteError:
		content = modalTitleStyle.Render("Delete failed") + "\n\n" +
			strings.Join(wrapText(m.deleteErr, 50), "\n") + "\n\n" +
			"press any key to continue"

	case modalQuitConfirm:
		content = modalTitleStyle.Render("Quit leaddesk?") + "\n\n" +
			"[y] quit    [n] stay"
	}

	box := modalStyle.Render(content)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// contentWidth returns the usable line width.
func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}
