// Package anthropic adapts the Anthropic Messages API to the LLM port.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/digest/internal/adapters/driven/llm/prompt"
	"github.com/custodia-labs/digest/internal/adapters/driven/llm/transport"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
)

var (
	_ driven.LLMService       = (*LLMService)(nil)
	_ driven.PromptStoreAware = (*LLMService)(nil)
)

// Defaults.
const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-5-sonnet-latest"
	DefaultTimeout = 120 * time.Second
)

const (
	// The Messages API rejects requests without max_tokens.
	defaultMaxTokens = 1024

	anthropicVersion = "2023-06-01"

	summarySystemPrompt = "You write faithful, concise summaries of the text you are given."
)

// Config configures the adapter. APIKey is required.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// Retries for failed message calls; negative disables.
	Retries int
}

// LLMService calls /v1/messages with a single user turn.
type LLMService struct {
	api         *transport.Client
	model       string
	promptStore driven.PromptStore
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// NewLLMService creates the adapter.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	opts := []transport.Option{
		transport.WithHeader("x-api-key", cfg.APIKey),
		transport.WithHeader("anthropic-version", anthropicVersion),
	}
	if cfg.Retries != 0 {
		opts = append(opts, transport.WithRetries(cfg.Retries))
	}
	return &LLMService{
		api:   transport.New("anthropic", cfg.BaseURL, cfg.Timeout, opts...),
		model: cfg.Model,
	}, nil
}

// Generate sends text as one user turn.
func (s *LLMService) Generate(ctx context.Context, text string, opts driven.GenerateOptions) (string, error) {
	return s.send(ctx, "", text, opts)
}

// Summarise sends the summarise prompt with a summarising system prompt.
func (s *LLMService) Summarise(ctx context.Context, text string, opts driven.SummariseOptions) (string, error) {
	out, err := s.send(ctx, summarySystemPrompt, prompt.Summarise(s.promptStore, text, opts), driven.GenerateOptions{
		MaxTokens:   prompt.SummaryTokens(opts.MaxLength),
		Temperature: 0.3,
		Model:       opts.Model,
	})
	if err != nil {
		return "", fmt.Errorf("summarise: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (s *LLMService) send(ctx context.Context, system, user string, opts driven.GenerateOptions) (string, error) {
	req := messagesRequest{
		Model:       s.model,
		Messages:    []message{{Role: "user", Content: user}},
		MaxTokens:   opts.MaxTokens,
		System:      system,
		Temperature: max(opts.Temperature, 0),
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}
	if opts.Model != "" {
		req.Model = opts.Model
	}

	var resp messagesResponse
	if err := s.api.PostJSON(ctx, "/v1/messages", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Content) == 0 {
		return "", errors.New("anthropic: no response content returned")
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// SetPromptStore sets where prompt templates come from.
func (s *LLMService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ping lists models, which checks the key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/v1/models")
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
