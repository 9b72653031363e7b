// Package translate holds the Translator adapters used by the translation
// stage: libre talks to a LibreTranslate server and llm prompts the
// configured language model.
package translate
