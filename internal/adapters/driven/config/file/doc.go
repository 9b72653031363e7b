// Package file keeps digest's configuration under ~/.digest.
//
// ConfigStore holds settings as flat dotted keys and writes them to
// config.toml as nested tables. PromptStore serves the LLM prompt
// templates from prompts/, seeding the directory with the built-in
// templates on first use.
package file
