package driven

// Prompt template names. Each template is a fmt format string whose verbs
// must appear in the listed order.
const (
	// PromptSummarise: %d min words, %d max words, %s chunk text.
	PromptSummarise = "summarise"

	// PromptTranslate: %s target language, %s text.
	PromptTranslate = "translate"
)

// PromptStore serves prompt templates by name, falling back to the
// built-in template when a custom one is missing or malformed.
type PromptStore interface {
	Load(name string) (string, error)

	// Reload forgets cached templates so edits are picked up.
	Reload()
}

// PromptStoreAware is implemented by LLM adapters that accept custom
// templates. Without a store they use the built-in ones.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
