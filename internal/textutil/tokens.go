package textutil

import (
	"strings"
	"unicode"
)

// Tokenize returns the lower-cased runs of two or more letters or digits.
func Tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	n := 0
	flush := func() {
		if n >= 2 {
			tokens = append(tokens, b.String())
		}
		b.Reset()
		n = 0
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(unicode.ToLower(r))
			n++
			continue
		}
		flush()
	}
	flush()
	return tokens
}
