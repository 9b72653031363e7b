// Package openai adapts the OpenAI chat completions API, or any compatible
// endpoint, to the LLM port.
package openai

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
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second
)

const summarySystemPrompt = "You write faithful, concise summaries of the text you are given."

// LLMConfig configures the adapter. APIKey is required.
type LLMConfig struct {
	APIKey string

	// BaseURL may point at Azure OpenAI or another compatible server.
	BaseURL string
	Model   string
	Timeout time.Duration

	// Retries for failed completion calls; negative disables.
	Retries int
}

// LLMService calls /chat/completions.
type LLMService struct {
	api         *transport.Client
	model       string
	promptStore driven.PromptStore
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// NewLLMService creates the adapter.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	opts := []transport.Option{transport.WithHeader("Authorization", "Bearer "+cfg.APIKey)}
	if cfg.Retries != 0 {
		opts = append(opts, transport.WithRetries(cfg.Retries))
	}
	return &LLMService{
		api:   transport.New("openai", cfg.BaseURL, cfg.Timeout, opts...),
		model: cfg.Model,
	}, nil
}

// Generate sends text as a single user message.
func (s *LLMService) Generate(ctx context.Context, text string, opts driven.GenerateOptions) (string, error) {
	return s.complete(ctx, []chatMessage{{Role: "user", Content: text}}, opts)
}

// Summarise sends the summarise prompt under a fixed system message.
func (s *LLMService) Summarise(ctx context.Context, text string, opts driven.SummariseOptions) (string, error) {
	out, err := s.complete(ctx, []chatMessage{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: prompt.Summarise(s.promptStore, text, opts)},
	}, driven.GenerateOptions{
		MaxTokens:   prompt.SummaryTokens(opts.MaxLength),
		Temperature: 0.3,
		Model:       opts.Model,
	})
	if err != nil {
		return "", fmt.Errorf("summarise: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (s *LLMService) complete(ctx context.Context, messages []chatMessage, opts driven.GenerateOptions) (string, error) {
	req := chatRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   max(opts.MaxTokens, 0),
		Temperature: max(opts.Temperature, 0),
	}
	if opts.Model != "" {
		req.Model = opts.Model
	}

	var resp chatResponse
	if err := s.api.PostJSON(ctx, "/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no response choices returned")
	}
	return resp.Choices[0].Message.Content, nil
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
	return s.api.Get(ctx, "/models")
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
