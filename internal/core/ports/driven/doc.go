// Package driven declares what the core needs from the outside world.
//
// Storage (ArtifactStore, ConfigStore, PromptStore) and the cleaning steps
// (Normaliser, PostProcessor) are always wired. The LLM and Translator
// ports may be left nil: extractive summaries keep working and the
// operations that need a model report domain.ErrLLMUnavailable.
//
// Nothing here imports an adapter; only the domain package.
package driven
