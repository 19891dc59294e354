// Package draft calls an OpenAI-compatible chat-completions endpoint to
// write the scope narrative. One request, no retry, no repair: the first
// choice's message content is the document text verbatim, and any failure
// surfaces to the caller.
package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kingrea/ismsforge/internal/config"
	"github.com/kingrea/ismsforge/internal/modules/scope"
)

// Client posts chat-completion requests to one configured endpoint.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	http    *http.Client
}

// Option customizes a Client during construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithAPIKey sets the key directly instead of reading the environment.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if key != "" {
			c.apiKey = key
		}
	}
}

// NewClient builds a drafting client from the project config.
// ISMSFORGE_LLM_BASE_URL and ISMSFORGE_LLM_MODEL override the config; the API
// key is read from the environment variable the config names. A missing key
// is only an error at request time, so offline use of everything else stays
// free.
func NewClient(cfg config.LLMConfig, opts ...Option) *Client {
	baseURL := cfg.BaseURL
	if env := strings.TrimSpace(os.Getenv("ISMSFORGE_LLM_BASE_URL")); env != "" {
		baseURL = env
	}
	model := cfg.Model
	if env := strings.TrimSpace(os.Getenv("ISMSFORGE_LLM_MODEL")); env != "" {
		model = env
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  os.Getenv(cfg.APIKeyEnv),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one chat request and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("draft: no API key in environment")
	}
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("draft: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("draft: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("draft: completion call: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("draft: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("draft: endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}
	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("draft: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("draft: endpoint error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("draft: response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// ScopePrompt renders the user prompt for the scope narrative, embedding
// every field of the scope record.
func ScopePrompt(data scope.Data) string {
	var sb strings.Builder
	org := data.Organization
	if org == "" {
		org = "the organization"
	}
	fmt.Fprintf(&sb, "Draft an ISO 27001 ISMS scope narrative for %s as Markdown.\n\n", org)
	writeList(&sb, "Internal issues", data.InternalIssues)
	writeList(&sb, "External issues", data.ExternalIssues)
	if len(data.Parties) > 0 {
		sb.WriteString("Interested parties:\n")
		for _, p := range data.Parties {
			fmt.Fprintf(&sb, "- %s (requirements: %s, influence: %s)\n", p.Party, p.Requirements, p.Influence)
		}
		sb.WriteByte('\n')
	}
	if len(data.Interfaces) > 0 {
		sb.WriteString("Interfaces and dependencies:\n")
		for _, in := range data.Interfaces {
			fmt.Fprintf(&sb, "- %s depends on %s (impact: %s)\n", in.System, in.Dependency, in.Impact)
		}
		sb.WriteByte('\n')
	}
	if len(data.Exclusions) > 0 {
		sb.WriteString("Exclusions:\n")
		for _, ex := range data.Exclusions {
			fmt.Fprintf(&sb, "- %s: %s\n", ex.Item, ex.Justification)
		}
		sb.WriteByte('\n')
	}
	writeList(&sb, "In-scope processes", data.Statement.Processes)
	writeList(&sb, "In-scope departments", data.Statement.Departments)
	writeList(&sb, "In-scope locations", data.Statement.Locations)
	if data.Statement.Notes != "" {
		fmt.Fprintf(&sb, "Additional notes: %s\n", data.Statement.Notes)
	}
	return sb.String()
}

func writeList(sb *strings.Builder, title string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", title)
	for _, v := range values {
		fmt.Fprintf(sb, "- %s\n", v)
	}
	sb.WriteByte('\n')
}

// systemPrompt frames the assistant role for scope drafting.
const systemPrompt = "You are an information security consultant writing formal ISMS documentation. Respond with the document text only."

// DraftScope generates the scope narrative from the persisted record and
// returns the drafted Markdown. The caller decides whether to store it.
func DraftScope(ctx context.Context, client *Client, data scope.Data) (string, error) {
	text, err := client.Complete(ctx, systemPrompt, ScopePrompt(data))
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("draft: endpoint returned an empty narrative")
	}
	return text, nil
}
