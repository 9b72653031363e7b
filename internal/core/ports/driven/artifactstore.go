package driven

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// ArtifactStore persists stage records keyed by (document id, stage).
// Writes replace the previous record in full; nothing is merged.
type ArtifactStore interface {
	// Read returns the artifact for a document stage.
	// Returns domain.ErrNotFound if it has never been written.
	Read(ctx context.Context, documentID string, stage domain.Stage) (*domain.Artifact, error)

	// Write stores data as the artifact for a document stage.
	Write(ctx context.Context, documentID string, stage domain.Stage, data json.RawMessage) error

	// Mirror stores a flat-text copy of a stage's main text and returns
	// its location. Stores without a filesystem return a pseudo path.
	Mirror(ctx context.Context, documentID string, stage domain.Stage, text string) (string, error)

	// List returns the stages stored for a document, in stage order.
	List(ctx context.Context, documentID string) ([]domain.Stage, error)

	// Delete removes every artifact of a document.
	Delete(ctx context.Context, documentID string) error

	// Close releases resources.
	Close() error
}
