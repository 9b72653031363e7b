package domain

import (
	"fmt"
	"strings"
	"time"
)

// Language is a translation target.
type Language struct {
	// Name is the lower-case English name, e.g. "hindi".
	Name string `json:"name"`

	// Code is the ISO 639-1 code, e.g. "hi".
	Code string `json:"code"`
}

// SupportedLanguages returns the translation targets.
func SupportedLanguages() []Language {
	return []Language{
		{Name: "english", Code: "en"},
		{Name: "hindi", Code: "hi"},
		{Name: "marathi", Code: "mr"},
	}
}

// ParseLanguage resolves a language by name or code, case-insensitively.
func ParseLanguage(s string) (Language, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, l := range SupportedLanguages() {
		if key == l.Name || key == l.Code {
			return l, nil
		}
	}
	return Language{}, fmt.Errorf("%w: unsupported language %q", ErrInvalidInput, s)
}

// TranslationProvider selects the translation backend.
type TranslationProvider string

// Translation providers.
const (
	// TranslationProviderAuto tries LibreTranslate, then the LLM.
	TranslationProviderAuto TranslationProvider = "auto"

	// TranslationProviderLibre uses a LibreTranslate server.
	TranslationProviderLibre TranslationProvider = "libre"

	// TranslationProviderLLM prompts the configured LLM.
	TranslationProviderLLM TranslationProvider = "llm"
)

// IsValid returns true if the provider is recognised.
func (p TranslationProvider) IsValid() bool {
	switch p {
	case TranslationProviderAuto, TranslationProviderLibre, TranslationProviderLLM:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p TranslationProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p TranslationProvider) Description() string {
	switch p {
	case TranslationProviderAuto:
		return "Auto (LibreTranslate, then LLM)"
	case TranslationProviderLibre:
		return "LibreTranslate (HTTP)"
	case TranslationProviderLLM:
		return "LLM prompt"
	default:
		return unknownDescription
	}
}

// TranslationRecord is the persisted translation of a summary.
type TranslationRecord struct {
	DocumentID     string      `json:"document_id"`
	SummaryType    SummaryType `json:"summary_type"`
	TargetLanguage string      `json:"target_language"`
	LanguageCode   string      `json:"language_code"`
	Provider       string      `json:"provider"`
	SourceText     string      `json:"source_text"`
	TranslatedText string      `json:"translated_text"`
	FilePath       string      `json:"file_path,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}
