// Package ai builds the LLM service and translators described by settings.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/digest/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/digest/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/digest/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/digest/internal/adapters/driven/translate/libre"
	llmtranslate "github.com/custodia-labs/digest/internal/adapters/driven/translate/llm"
	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
)

// DefaultPingTimeout bounds the connectivity check made before an LLM is used.
const DefaultPingTimeout = 5 * time.Second

type constructor func(*domain.LLMSettings) (driven.LLMService, error)

// providers maps each supported provider to its adapter constructor.
var providers = map[domain.AIProvider]constructor{
	domain.AIProviderOllama: func(s *domain.LLMSettings) (driven.LLMService, error) {
		return ollamallm.NewLLMService(ollamallm.LLMConfig{BaseURL: s.BaseURL, Model: s.Model}), nil
	},
	domain.AIProviderOpenAI: func(s *domain.LLMSettings) (driven.LLMService, error) {
		svc, err := openaillm.NewLLMService(openaillm.LLMConfig{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
		if err != nil {
			return nil, err
		}
		return svc, nil
	},
	domain.AIProviderAnthropic: func(s *domain.LLMSettings) (driven.LLMService, error) {
		svc, err := anthropicllm.NewLLMService(anthropicllm.Config{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
		if err != nil {
			return nil, err
		}
		return svc, nil
	},
}

// InitResult holds the AI services built for one process.
type InitResult struct {
	// LLMService is nil when no provider is configured or it is unreachable.
	LLMService  driven.LLMService
	Translators map[domain.TranslationProvider]driven.Translator
	PromptStore driven.PromptStore

	// Warnings explain why a configured LLM was dropped.
	Warnings []string

	// FellBack is set when a configured LLM could not be used, leaving
	// only extractive summaries and LibreTranslate available.
	FellBack bool
}

// Close releases the LLM service, if any.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		_ = r.LLMService.Close()
	}
}

// Init builds the LLM service and translators from settings. An LLM that
// is configured but unreachable is dropped with a warning.
func Init(ctx context.Context, settings *domain.AppSettings, prompts driven.PromptStore) *InitResult {
	result := &InitResult{PromptStore: prompts}
	if settings == nil {
		return result
	}

	llm, err := CreateAndValidateLLMService(ctx, &settings.LLM)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		result.FellBack = true
	}
	if llm != nil && prompts != nil {
		if aware, ok := llm.(driven.PromptStoreAware); ok {
			aware.SetPromptStore(prompts)
		}
	}
	result.LLMService = llm
	result.Translators = CreateTranslators(&settings.Translation, llm, prompts)
	return result
}

// CreateLLMService returns the adapter for settings, or nil when no usable
// provider is configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	build, ok := providers[settings.Provider]
	if !ok {
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
	return build(settings)
}

// CreateAndValidateLLMService creates the adapter and pings it. Failures
// wrap domain.ErrLLMUnavailable and say which setting to check.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'digest settings llm' to fix", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	if err := ping(ctx, svc, DefaultPingTimeout); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: %s unreachable (%w). Check llm.base_url or the API key",
			domain.ErrLLMUnavailable, settings.Provider, err)
	}
	return svc, nil
}

// CreateTranslators returns the translators settings allow. libre is
// always present; llm only when svc is non-nil.
func CreateTranslators(
	settings *domain.TranslationSettings, svc driven.LLMService, prompts driven.PromptStore,
) map[domain.TranslationProvider]driven.Translator {
	var cfg libre.Config
	if settings != nil {
		cfg = libre.Config{
			BaseURL:           settings.LibreURL,
			APIKey:            settings.APIKey,
			RequestsPerSecond: settings.RequestsPerSecond,
		}
	}

	out := map[domain.TranslationProvider]driven.Translator{
		domain.TranslationProviderLibre: libre.New(cfg),
	}
	if svc != nil {
		t := llmtranslate.New(svc)
		if prompts != nil {
			t.SetPromptStore(prompts)
		}
		out[domain.TranslationProviderLLM] = t
	}
	return out
}

func ping(ctx context.Context, svc driven.LLMService, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return svc.Ping(ctx)
}
