package agent

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// Message represents a chat message sent to the drafting model.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// LLMClient abstracts LLM providers for swappability.
type LLMClient interface {
	// Chat sends messages and returns the complete response.
	Chat(ctx context.Context, messages []Message) (string, error)
}

// OllamaClient implements LLMClient using the Ollama API.
type OllamaClient struct {
	client *api.Client
	model  string
}

// NewOllamaClient creates an OllamaClient for the given server and model.
func NewOllamaClient(serverURL, model string) (*OllamaClient, error) {
	if serverURL == "" {
		serverURL = "http://localhost:11434"
	}
	// Prepend scheme if missing so url.Parse produces a valid host.
	if !strings.HasPrefix(serverURL, "http://") && !strings.HasPrefix(serverURL, "https://") {
		serverURL = "http://" + serverURL
	}
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", serverURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: missing host", serverURL)
	}
	client := api.NewClient(u, &http.Client{})
	return &OllamaClient{client: client, model: model}, nil
}

func toOllamaMessages(msgs []Message) []api.Message {
	out := make([]api.Message, len(msgs))
	for i, m := range msgs {
		out[i] = api.Message{Role: m.Role, Content: m.Content}
	}
	return out
}

// Chat implements LLMClient.
func (o *OllamaClient) Chat(ctx context.Context, messages []Message) (string, error) {
	var sb strings.Builder
	req := &api.ChatRequest{
		Model:    o.model,
		Messages: toOllamaMessages(messages),
		Stream:   new(bool),
	}
	*req.Stream = false

	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// extractJSON pulls a JSON object out of a model response, stripping
// markdown code fences and any surrounding prose.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) >= 2 {
			lines = lines[1:]
		}
		if len(lines) >= 1 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
			lines = lines[:len(lines)-1]
		}
		s = strings.Join(lines, "\n")
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
