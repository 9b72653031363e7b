package postprocessors

import (
	"github.com/custodia-labs/digest/internal/core/ports/driven"
	"github.com/custodia-labs/digest/internal/postprocessors/minlength"
	"github.com/custodia-labs/digest/internal/postprocessors/sentences"
	"github.com/custodia-labs/digest/internal/postprocessors/stopwords"
)

// Built-in processor names.
const (
	Sentences = "sentences"
	MinLength = "min_length"
	Stopwords = "stopwords"
)

// RegisterDefaults adds the built-in processors to r. It panics if one of
// the names is already taken, which is a programming error.
func RegisterDefaults(r *Registry) {
	builtins := []struct {
		name, summary string
		build         Builder
	}{
		{Sentences, "split the document body into sentences", func(Options) (driven.PostProcessor, error) {
			return sentences.New(), nil
		}},
		{MinLength, "drop sentences shorter than min_chars", buildMinLength},
		{Stopwords, "remove common English stopwords", func(Options) (driven.PostProcessor, error) {
			return stopwords.New(), nil
		}},
	}
	for _, b := range builtins {
		if err := r.Register(b.name, b.summary, b.build); err != nil {
			panic(err)
		}
	}
}

// buildMinLength reads min_chars; the processor default applies when unset.
func buildMinLength(opts Options) (driven.PostProcessor, error) {
	if !opts.Has("min_chars") {
		return minlength.New(), nil
	}
	return minlength.New(minlength.WithMinChars(opts.Int("min_chars", 0))), nil
}
