// Package plaintext is the fallback normaliser for text formats that need
// no markup removal.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
	"github.com/custodia-labs/digest/internal/normalisers"
)

var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents in UTF-8, UTF-16 with a byte
// order mark, or legacy Windows-1252.
type Normaliser struct{}

// New returns the plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes lists text formats read verbatim.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/tab-separated-values",
		"text/rtf",
		"text/x-log",
		"application/json",
		"application/xml",
		"text/xml",
	}
}

// Priority is low so richer normalisers win for shared types.
func (n *Normaliser) Priority() int {
	return 5
}

// Normalise decodes the content to UTF-8, unifies line endings to LF and
// drops control characters other than tab and newline. The detected
// encoding is recorded as metadata "encoding".
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text, enc, err := decode(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, raw.URI, err)
	}

	doc := normalisers.NewDocument(raw, normalisers.Title(raw, ""), clean(text), "text")
	doc.Metadata["encoding"] = enc
	return doc, nil
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decode picks the encoding from a byte order mark, else assumes UTF-8 and
// falls back to Windows-1252 when the bytes are not valid UTF-8.
func decode(b []byte) (string, string, error) {
	var (
		dec  *encoding.Decoder
		name string
	)
	switch {
	case bytes.HasPrefix(b, bomUTF8):
		return string(b[len(bomUTF8):]), "utf-8", nil
	case bytes.HasPrefix(b, bomUTF16LE):
		dec, name = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder(), "utf-16le"
	case bytes.HasPrefix(b, bomUTF16BE):
		dec, name = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder(), "utf-16be"
	case utf8.Valid(b):
		return string(b), "utf-8", nil
	default:
		dec, name = charmap.Windows1252.NewDecoder(), "windows-1252"
	}

	out, err := dec.Bytes(b)
	if err != nil {
		return "", "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), name, nil
}

// clean unifies line endings and removes control characters.
func clean(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\r' || r == '\f' || r == '\v':
			return '\n'
		case r == '\n' || r == '\t':
			return r
		case r < 0x20 || r == 0x7F:
			return -1
		default:
			return r
		}
	}, s)
}
