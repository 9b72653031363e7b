// Package libre provides a Translator backed by a LibreTranslate server.
package libre

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/digest/internal/adapters/driven/llm/transport"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
)

var _ driven.Translator = (*Translator)(nil)

// Default configuration values.
const (
	DefaultBaseURL           = "http://localhost:5000"
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 2
)

// Config holds configuration for the LibreTranslate client.
type Config struct {
	// BaseURL is the server root (default: http://localhost:5000).
	BaseURL string

	// APIKey is sent with every request when set.
	APIKey string

	// RequestsPerSecond caps the request rate. Zero uses the default;
	// a negative value disables limiting.
	RequestsPerSecond float64

	// Timeout is the HTTP client timeout (default: 30s).
	Timeout time.Duration

	// Retries for 429/5xx answers; negative disables.
	Retries int
}

// Translator calls the LibreTranslate /translate endpoint.
type Translator struct {
	api     *transport.Client
	apiKey  string
	limiter *rate.Limiter
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error,omitempty"`
}

// New creates a LibreTranslate translator.
func New(cfg Config) *Translator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	var opts []transport.Option
	if cfg.Retries != 0 {
		opts = append(opts, transport.WithRetries(cfg.Retries))
	}

	return &Translator{
		api:     transport.New("libre", cfg.BaseURL, cfg.Timeout, opts...),
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Name returns "libre".
func (t *Translator) Name() string {
	return "libre"
}

// Translate translates text from source to target.
// Blocks on the rate limiter before each request.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("libre: rate limit: %w", err)
	}

	var out translateResponse
	err := t.api.PostJSON(ctx, "/translate", translateRequest{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
		APIKey: t.apiKey,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", fmt.Errorf("libre error: %s", out.Error)
	}
	return out.TranslatedText, nil
}

// Ping checks the server answers on /languages.
func (t *Translator) Ping(ctx context.Context) error {
	return t.api.Get(ctx, "/languages")
}
