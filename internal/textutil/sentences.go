package textutil

import (
	"strings"
	"unicode"
)

// SplitSentences splits text into trimmed, non-empty sentences.
// A sentence ends at '.', '!' or '?' followed by whitespace or the end of
// the text, or at a blank line. Internal whitespace is collapsed.
func SplitSentences(text string) []string {
	var (
		out   []string
		start int
	)
	runes := []rune(text)
	emit := func(end int) {
		s := strings.Join(strings.Fields(string(runes[start:end])), " ")
		if s != "" {
			out = append(out, s)
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '.' || r == '!' || r == '?':
			j := i + 1
			for j < len(runes) && (runes[j] == '.' || runes[j] == '!' || runes[j] == '?' ||
				runes[j] == '"' || runes[j] == '\'' || runes[j] == ')' || runes[j] == '”') {
				j++
			}
			if j == len(runes) || unicode.IsSpace(runes[j]) {
				emit(j)
				i = j - 1
			}
		case r == '\n' && i+1 < len(runes) && isBlankLineAhead(runes[i+1:]):
			emit(i)
		}
	}
	emit(len(runes))
	return out
}

// isBlankLineAhead reports whether the runes start with optional horizontal
// whitespace followed by a newline.
func isBlankLineAhead(runes []rune) bool {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return false
}

// WordCount returns the number of whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// JoinSentences joins sentences with a single space.
func JoinSentences(sentences []string) string {
	return strings.Join(sentences, " ")
}
