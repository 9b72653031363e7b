package driven

import "context"

// AbstractiveSummariser rewrites text into a shorter summary.
// Calls may be long-running and must honour ctx.
type AbstractiveSummariser interface {
	// Summarise returns a summary of text bounded by opts.
	Summarise(ctx context.Context, text string, opts SummariseOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}

// SummariseOptions bounds one abstractive call.
type SummariseOptions struct {
	// MaxLength is the maximum summary length in words.
	MaxLength int

	// MinLength is the minimum summary length in words.
	MinLength int

	// Model overrides the configured model when non-empty.
	Model string
}

// LLMService provides language model operations for abstractive summaries
// and LLM-backed translation.
// This is an optional service - when nil, only extractive summaries work.
//
// Implementations include:
//   - Ollama (local models)
//   - OpenAI
//   - Anthropic
type LLMService interface {
	AbstractiveSummariser

	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// Model overrides the configured model when non-empty.
	Model string
}
