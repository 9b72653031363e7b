package driven

import (
	"context"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// Normaliser extracts plain text from one family of file formats.
type Normaliser interface {
	SupportedMIMETypes() []string

	// Priority breaks ties between normalisers claiming the same MIME
	// type; the highest wins. Dedicated formats use 50 and up, generic
	// text fallbacks stay below 10.
	Priority() int

	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)
}

// NormaliserRegistry dispatches a raw document to its normaliser.
type NormaliserRegistry interface {
	// Normalise fails with domain.ErrUnsupportedType when no registered
	// normaliser claims raw.MIMEType.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)

	Register(normaliser Normaliser)
	SupportedMIMETypes() []string
}
