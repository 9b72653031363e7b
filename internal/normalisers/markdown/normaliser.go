// Package markdown extracts prose from Markdown documents.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
	"github.com/custodia-labs/digest/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise strips Markdown syntax. Headings stay on their own line so the
// formatted summary can still find them.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	source := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")
	title := normalisers.Title(raw, firstHeading(source))

	return normalisers.NewDocument(raw, title, stripMarkdown(source), "markdown"), nil
}

var (
	h1Line       = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t]*#*[ \t]*$`)
	frontMatter  = regexp.MustCompile(`(?s)\A---\n.*?\n---\n`)
	fencedCode   = regexp.MustCompile("(?s)```.*?```|~~~.*?~~~")
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	imageRef     = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkRef      = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	headingMark  = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+`)
	emphasis     = regexp.MustCompile(`(?m)(^|[^\w])(\*\*|__|\*|_)([^*_\n]+)(\*\*|__|\*|_)`)
	quoteMark    = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	ruleLine     = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	bulletMark   = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	orderedMark  = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]+`)
	tableRule    = regexp.MustCompile(`(?m)^[ \t]*\|?[ \t:|-]+\|[ \t:|-]*$`)
	htmlTag      = regexp.MustCompile(`<[^>]+>`)
	extraNewline = regexp.MustCompile(`\n{3,}`)
)

// firstHeading returns the text of the first level-one heading.
func firstHeading(source string) string {
	if m := h1Line.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	return ""
}

// stripMarkdown converts Markdown to plain text. Code blocks are dropped;
// inline code, link and image text are kept.
func stripMarkdown(s string) string {
	s = frontMatter.ReplaceAllString(s, "")
	s = fencedCode.ReplaceAllString(s, "")
	s = imageRef.ReplaceAllString(s, "$1")
	s = linkRef.ReplaceAllString(s, "$1")
	s = inlineCode.ReplaceAllString(s, "$1")
	s = tableRule.ReplaceAllString(s, "")
	s = ruleLine.ReplaceAllString(s, "")
	s = headingMark.ReplaceAllString(s, "")
	s = quoteMark.ReplaceAllString(s, "")
	s = bulletMark.ReplaceAllString(s, "")
	s = orderedMark.ReplaceAllString(s, "")
	s = emphasis.ReplaceAllString(s, "$1$3")
	s = htmlTag.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "|", " ")
	s = extraNewline.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
