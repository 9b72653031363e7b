package domain

// RawDocument is an uploaded or watched file before normalisation.
type RawDocument struct {
	// URI is where the bytes came from; the document ID derives from it.
	URI string

	// MIMEType picks the normaliser, e.g. "text/markdown".
	MIMEType string

	Content []byte

	// Metadata carries caller hints. "title" overrides the derived title.
	Metadata map[string]any
}
