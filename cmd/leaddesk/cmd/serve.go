package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/leaddesk/leaddesk/internal/agent"
	"github.com/leaddesk/leaddesk/internal/server"
	"github.com/leaddesk/leaddesk/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the leaddesk backend API",
	Long: `Run the leaddesk backend as a long-running HTTP server.

The server exposes the research workflow and the lead CRM:
  POST   /api/research           run research for a company domain
  GET    /api/leads              list leads
  GET    /api/leads/{id}         get one lead
  DELETE /api/leads/{id}         delete a lead and its emails
  GET    /api/leads/{id}/emails  list a lead's emails
  GET    /api/emails             list all emails

Email drafting uses the Ollama server from config.toml when reachable,
and falls back to a built-in template otherwise.

Use Ctrl+C to stop the server gracefully.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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
	srv := server.NewServer(cfg, s, a, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// llmOrNil avoids storing a typed nil in the LLMClient interface.
func llmOrNil(c *agent.OllamaClient) agent.LLMClient {
	if c == nil {
		return nil
	}
	return c
}
