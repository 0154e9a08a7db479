package cmd

import (
	"fmt"

	"github.com/leaddesk/leaddesk/internal/agent"
	"github.com/leaddesk/leaddesk/internal/store"
	"github.com/spf13/cobra"
)

var researchCmd = &cobra.Command{
	Use:   "research <domain>",
	Short: "Run the research workflow for one company domain",
	Long: `Research a company domain, save or refresh its lead, and draft an
outreach email. Runs directly against the local database; no backend
server is needed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		if err := s.InitSchema(); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}

		llm, err := agent.NewOllamaClient(cfg.LLM.Server, cfg.LLM.Model)
		if err != nil {
			logger.Warn("drafting model unavailable, using fallback template", "error", err)
			llm = nil
		}

		a := agent.New(s, llmOrNil(llm), logger)
		outcome, err := a.Run(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("research %s: %w", args[0], err)
		}

		fmt.Printf("Lead:     %s (%s) — %s\n", outcome.Lead.CompanyName, outcome.Lead.CompanyDomain, outcome.Lead.Status)
		fmt.Printf("Industry: %s\n", outcome.Research.Industry)
		fmt.Printf("Subject:  %s\n\n", outcome.Email.Subject)
		fmt.Println(outcome.Email.Body)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(researchCmd)
}
