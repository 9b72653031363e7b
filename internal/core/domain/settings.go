package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an LLM service provider used for abstractive
// summaries and LLM translation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// SummarySettings holds summariser tuning.
type SummarySettings struct {
	// Algorithm is the default extractive ranking strategy.
	Algorithm Algorithm

	// Ratio is the default extractive ratio.
	Ratio float64

	// MaxLength and MinLength bound abstractive output per chunk.
	MaxLength int
	MinLength int

	// ChunkWords is the word budget of one abstractive chunk.
	ChunkWords int

	// MinChunkChars is the size below which a chunk is not sent.
	MinChunkChars int

	// Workers bounds concurrent CPU-heavy ranking work.
	Workers int

	// CacheSize and CacheTTL bound the similarity matrix cache.
	CacheSize int
	CacheTTL  time.Duration

	// Timeout bounds each external summariser call.
	Timeout time.Duration
}

// TranslationSettings holds translation provider configuration.
type TranslationSettings struct {
	// Provider is the default translation provider.
	Provider TranslationProvider

	// LibreURL is the LibreTranslate endpoint.
	LibreURL string

	// APIKey is the LibreTranslate API key, if the server requires one.
	APIKey string

	// RequestsPerSecond limits calls to the translation server.
	RequestsPerSecond float64
}

// StorageBackend selects the artifact store implementation.
type StorageBackend string

// Storage backends.
const (
	// StorageSQLite persists artifacts in a SQLite database.
	StorageSQLite StorageBackend = "sqlite"

	// StorageFile persists artifacts as JSON files with text mirrors.
	StorageFile StorageBackend = "file"

	// StorageMemory keeps artifacts in memory for the process lifetime.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StorageFile, StorageMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// StorageSettings holds artifact storage configuration.
type StorageSettings struct {
	// Backend is the artifact store implementation.
	Backend StorageBackend

	// DataDir is where databases, artifacts and text mirrors are written.
	// Empty means ~/.digest/data.
	DataDir string
}

// ServerSettings holds HTTP API configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// RequestTimeout bounds each HTTP request.
	RequestTimeout time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	// LLM holds abstractive summariser provider settings.
	LLM LLMSettings

	// Summary holds summariser tuning.
	Summary SummarySettings

	// Cleaning holds the default cleaning options.
	Cleaning CleaningOptions

	// Translation holds translation provider settings.
	Translation TranslationSettings

	// Storage holds artifact storage settings.
	Storage StorageSettings

	// Server holds HTTP API settings.
	Server ServerSettings
}

// SettingValue is one setting in its display form.
type SettingValue struct {
	Key    string
	Value  string
	Secret bool

	// Stored is false when the value is the built-in default.
	Stored bool
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM is left unconfigured; extractive summaries work without it.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{},
		Summary: SummarySettings{
			Algorithm:     AlgorithmGraph,
			Ratio:         0.3,
			MaxLength:     150,
			MinLength:     50,
			ChunkWords:    1000,
			MinChunkChars: 50,
			Workers:       4,
			CacheSize:     128,
			CacheTTL:      time.Hour,
			Timeout:       2 * time.Minute,
		},
		Cleaning: DefaultCleaningOptions(),
		Translation: TranslationSettings{
			Provider:          TranslationProviderAuto,
			LibreURL:          "http://localhost:5000",
			RequestsPerSecond: 2,
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
		Server: ServerSettings{
			Addr:           "127.0.0.1:8000",
			RequestTimeout: 5 * time.Minute,
		},
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// PipelineConfig holds cleaning pipeline configuration.
// Uses generic map-based config so new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfigFor builds the cleaning pipeline for the given options:
// sentence splitting, length filtering and, when enabled, stopword removal.
func PipelineConfigFor(opts CleaningOptions) PipelineConfig {
	cfg := PipelineConfig{
		Processors: []string{"sentences", "min_length"},
		ProcessorConfigs: map[string]map[string]any{
			"min_length": {"min_chars": opts.MinSentenceLength},
		},
	}
	if opts.RemoveStopwords {
		cfg.Processors = append(cfg.Processors, "stopwords")
	}
	return cfg
}
