package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leaddesk/leaddesk/internal/gateway"
	"github.com/leaddesk/leaddesk/internal/tui"
	"github.com/spf13/cobra"
)

var version = "dev"

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the interactive lead dashboard",
	Long: `Open the terminal dashboard for browsing and managing leads.

The dashboard talks to a running leaddesk backend (start one with
'leaddesk serve'). Enter a company domain to research it; the lead list
below updates as runs complete.

Navigation:
  ↑/k, ↓/j    Move up/down
  Enter/Space Expand or collapse a lead's research and emails
  d           Delete the lead under the cursor (asks first)
  R           Refresh the lead list
  c           Show/hide the lead list panel
  Tab         Jump between the domain input and the list
  q           Quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gw := gateway.New(cfg.API.BaseURL)
		m := tui.New(gw, tui.Options{Version: version, Logger: logger})

		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run dashboard: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashCmd)
}
