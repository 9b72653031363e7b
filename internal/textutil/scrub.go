package textutil

import (
	"regexp"
	"strings"
)

var (
	pageBannerRe = regexp.MustCompile(`(?i)-{2,}\s*Page\s*\d+\s*-{2,}`)
	pageMarkerRe = regexp.MustCompile(`(?i)Page\s*\d+`)
	emailRe      = regexp.MustCompile(`\S+@\S+`)
	phoneRe      = regexp.MustCompile(`\+?\d[\d\s\-]{7,}\d`)
	spacesRe     = regexp.MustCompile(`[ \t]+`)
	blankLinesRe = regexp.MustCompile(`\n\s*\n+`)
	specialRe    = regexp.MustCompile(`[^\p{L}\p{N}\s.,;:!?'"()\-]`)
)

// ScrubPersonalData removes page markers, e-mail addresses and phone
// numbers. Line structure is kept.
func ScrubPersonalData(text string) string {
	text = pageBannerRe.ReplaceAllString(text, "")
	text = pageMarkerRe.ReplaceAllString(text, "")
	text = emailRe.ReplaceAllString(text, "")
	text = phoneRe.ReplaceAllString(text, "")
	return text
}

// NormalizeWhitespace collapses runs of spaces and tabs, squeezes blank
// lines to one and trims each line.
func NormalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = spacesRe.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	text = strings.Join(lines, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// RemoveSpecialChars keeps letters, digits, whitespace and basic punctuation.
func RemoveSpecialChars(text string) string {
	return specialRe.ReplaceAllString(text, "")
}
