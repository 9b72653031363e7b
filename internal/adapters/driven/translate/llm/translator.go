// Package llm provides a Translator that prompts the configured LLM.
package llm

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/custodia-labs/digest/internal/adapters/driven/llm/prompt"
	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
)

// Ensure Translator implements the interfaces.
var (
	_ driven.Translator       = (*Translator)(nil)
	_ driven.PromptStoreAware = (*Translator)(nil)
)

const translateTemperature = 0.2

// Translator translates through driven.LLMService.Generate.
type Translator struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
	title       cases.Caser
}

// New wraps an LLM service. svc must not be nil.
func New(svc driven.LLMService) *Translator {
	return &Translator{
		llm:   svc,
		title: cases.Title(language.English),
	}
}

// Name returns "llm".
func (t *Translator) Name() string {
	return "llm"
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (t *Translator) SetPromptStore(store driven.PromptStore) {
	t.promptStore = store
}

// Translate renders the translate prompt for target and returns the
// model output. The source language is always English in this pipeline.
func (t *Translator) Translate(ctx context.Context, text, _, target string) (string, error) {
	lang, err := domain.ParseLanguage(target)
	if err != nil {
		return "", err
	}

	out, err := t.llm.Generate(ctx, prompt.Translate(t.promptStore, t.title.String(lang.Name), text), driven.GenerateOptions{
		MaxTokens:   len([]rune(text)) * 2,
		Temperature: translateTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("llm translate: %w", err)
	}
	return strings.TrimSpace(out), nil
}
