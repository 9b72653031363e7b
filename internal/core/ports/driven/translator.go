package driven

import "context"

// Translator translates text between languages identified by ISO 639-1
// codes.
type Translator interface {
	// Name identifies the provider, e.g. "libre".
	Name() string

	// Translate translates text from source to target.
	Translate(ctx context.Context, text, source, target string) (string, error)
}
