package normalisers

import (
	"maps"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// NewDocument builds the extracted document for raw. The id is derived
// from the file name; format is recorded in the metadata.
func NewDocument(raw *domain.RawDocument, title, content, format string) *domain.Document {
	now := time.Now()
	meta := maps.Clone(raw.Metadata)
	if meta == nil {
		meta = make(map[string]any)
	}
	meta["format"] = format

	return &domain.Document{
		ID:        domain.DocumentIDFromPath(raw.URI),
		URI:       raw.URI,
		Title:     title,
		MIMEType:  raw.MIMEType,
		Content:   content,
		CharCount: utf8.RuneCountInString(content),
		Metadata:  meta,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Title returns the caller-supplied title from metadata, else fallback,
// else a title derived from the file name.
func Title(raw *domain.RawDocument, fallback string) string {
	if t, ok := raw.Metadata["title"].(string); ok && t != "" {
		return t
	}
	if fallback = strings.TrimSpace(fallback); fallback != "" {
		return fallback
	}
	return TitleFromURI(raw.URI)
}

// TitleFromURI turns "quarterly_report-2024.md" into "quarterly report 2024".
func TitleFromURI(uri string) string {
	name := filepath.Base(uri)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}
