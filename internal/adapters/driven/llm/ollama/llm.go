// Package ollama adapts a local Ollama server to the LLM port.
package ollama

import (
	"context"
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
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

const summaryTemperature = 0.3

// LLMConfig configures the adapter. Zero values take the defaults.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration

	// Retries for failed generate calls; negative disables.
	Retries int
}

// LLMService calls /api/generate without streaming.
type LLMService struct {
	api         *transport.Client
	model       string
	promptStore driven.PromptStore
}

type generateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	Stream  bool             `json:"stream"`
	Options *generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// NewLLMService creates the adapter. Ollama needs no credentials, so
// construction cannot fail.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	opts := []transport.Option{}
	if cfg.Retries != 0 {
		opts = append(opts, transport.WithRetries(cfg.Retries))
	}
	return &LLMService{
		api:   transport.New("ollama", cfg.BaseURL, cfg.Timeout, opts...),
		model: cfg.Model,
	}
}

// Generate completes prompt.
func (s *LLMService) Generate(ctx context.Context, text string, opts driven.GenerateOptions) (string, error) {
	req := generateRequest{Model: s.model, Prompt: text}
	if opts.Model != "" {
		req.Model = opts.Model
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		req.Options = &generateOptions{NumPredict: opts.MaxTokens, Temperature: opts.Temperature}
	}

	var resp generateResponse
	if err := s.api.PostJSON(ctx, "/api/generate", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("ollama error: %s", resp.Error)
	}
	return resp.Response, nil
}

// Summarise renders the summarise prompt and returns the trimmed completion.
func (s *LLMService) Summarise(ctx context.Context, text string, opts driven.SummariseOptions) (string, error) {
	out, err := s.Generate(ctx, prompt.Summarise(s.promptStore, text, opts), driven.GenerateOptions{
		MaxTokens:   prompt.SummaryTokens(opts.MaxLength),
		Temperature: summaryTemperature,
		Model:       opts.Model,
	})
	if err != nil {
		return "", fmt.Errorf("summarise: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// SetPromptStore sets where prompt templates come from.
func (s *LLMService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ping lists local models, which needs no inference.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/api/tags")
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
