package driving

import (
	"context"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// DocumentService ingests uploaded files and manages their artifacts.
type DocumentService interface {
	// Ingest extracts the text of a file and persists the extraction
	// artifact. The document id is the file base name without extension.
	Ingest(ctx context.Context, path string) (*domain.Document, error)

	// IngestBytes extracts text from content uploaded under name.
	IngestBytes(ctx context.Context, name string, content []byte) (*domain.Document, error)

	// Get returns the extracted document.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// Stages returns the stages persisted for a document.
	Stages(ctx context.Context, documentID string) ([]domain.Stage, error)

	// Delete removes every artifact of a document.
	Delete(ctx context.Context, documentID string) error
}
