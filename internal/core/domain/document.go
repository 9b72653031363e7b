package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Document is the extracted text of one uploaded file.
// It is the output of the extraction stage and the input to cleaning.
type Document struct {
	// ID is the stable identifier: the file base name without extension.
	ID string `json:"id"`

	// URI is the original location of the file.
	URI string `json:"source_path"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// MIMEType is the content type the text was extracted from.
	MIMEType string `json:"mime_type"`

	// Content is the full extracted text.
	Content string `json:"text"`

	// CharCount is the number of characters in Content.
	CharCount int `json:"char_count"`

	// Metadata contains normaliser-specific key-value pairs.
	Metadata map[string]any `json:"metadata,omitempty"`

	// CreatedAt is when the text was first extracted.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the text was last extracted.
	UpdatedAt time.Time `json:"updated_at"`
}

// Sentence is one unit of the cleaned corpus.
type Sentence struct {
	// Position is the ordinal position in the corpus.
	Position int

	// Text is the trimmed sentence text.
	Text string
}

// SentenceTexts returns the text of each sentence in order.
func SentenceTexts(sentences []Sentence) []string {
	out := make([]string, len(sentences))
	for i, s := range sentences {
		out[i] = s.Text
	}
	return out
}

// DocumentIDFromPath derives a document id from a file path:
// the base name with its extension removed.
func DocumentIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
