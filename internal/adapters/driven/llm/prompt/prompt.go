// Package prompt renders the LLM prompts shared by the provider adapters.
package prompt

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/digest/internal/core/ports/driven"
)

// DefaultSummarise expects %d (min words), %d (max words) and %s (text).
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const DefaultSummarise = `Summarise the following text in between %d and %d words.
Keep the facts, names and numbers of the original. Do not add information that is not in the text.
Return ONLY the summary, nothing else.

Text:
%s

Summary:`

// DefaultTranslate expects %s (target language) and %s (text).
const DefaultTranslate = `Translate the following English text into %s.
Preserve the meaning, names and numbers. Return ONLY the translation, nothing else.

Text:
%s

Translation:`

// Defaults maps prompt names to their built-in templates.
func Defaults() map[string]string {
	return map[string]string{
		driven.PromptSummarise: DefaultSummarise,
		driven.PromptTranslate: DefaultTranslate,
	}
}

// Load returns the named template from store, falling back to the
// built-in default when store is nil, fails, or returns a template whose
// placeholders do not match.
func Load(store driven.PromptStore, name string) string {
	if store != nil {
		if p, err := store.Load(name); err == nil && Check(name, p) == nil {
			return p
		}
	}
	return Defaults()[name]
}

// Verbs returns the formatting verbs of tmpl in order, e.g. "dds".
// Escaped percent signs are skipped.
func Verbs(tmpl string) string {
	var b strings.Builder
	for i := 0; i < len(tmpl)-1; i++ {
		if tmpl[i] != '%' {
			continue
		}
		i++
		if tmpl[i] != '%' {
			b.WriteByte(tmpl[i])
		}
	}
	return b.String()
}

// Check reports whether tmpl uses the same placeholders, in the same order,
// as the built-in template called name.
func Check(name, tmpl string) error {
	def, ok := Defaults()[name]
	if !ok {
		return fmt.Errorf("unknown prompt %q", name)
	}
	if strings.TrimSpace(tmpl) == "" {
		return fmt.Errorf("prompt %q is empty", name)
	}
	if want, got := Verbs(def), Verbs(tmpl); want != got {
		return fmt.Errorf("prompt %q has placeholders %q, want %q", name, got, want)
	}
	return nil
}

// Summarise renders the summarise prompt for one chunk.
func Summarise(store driven.PromptStore, text string, opts driven.SummariseOptions) string {
	return fmt.Sprintf(Load(store, driven.PromptSummarise), opts.MinLength, opts.MaxLength, text)
}

// Translate renders the translate prompt.
func Translate(store driven.PromptStore, language, text string) string {
	return fmt.Sprintf(Load(store, driven.PromptTranslate), language, text)
}

// SummaryTokens estimates the completion budget for a summary of at most
// maxWords words.
func SummaryTokens(maxWords int) int {
	if maxWords <= 0 {
		return 0
	}
	return maxWords*2 + 16
}
