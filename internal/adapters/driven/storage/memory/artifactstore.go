package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
)

// Ensure ArtifactStore implements the interface.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

type artifactKey struct {
	documentID string
	stage      domain.Stage
}

// ArtifactStore is an in-memory implementation of driven.ArtifactStore.
// Records are copied on the way in and out.
type ArtifactStore struct {
	mu        sync.RWMutex
	artifacts map[artifactKey]domain.Artifact
	mirrors   map[artifactKey]string
	now       func() time.Time
}

// NewArtifactStore creates a new in-memory artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{
		artifacts: make(map[artifactKey]domain.Artifact),
		mirrors:   make(map[artifactKey]string),
		now:       time.Now,
	}
}

// Read retrieves the artifact for a document stage.
func (s *ArtifactStore) Read(_ context.Context, documentID string, stage domain.Stage) (*domain.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.artifacts[artifactKey{documentID, stage}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	a.Data = append(json.RawMessage(nil), a.Data...)
	return &a, nil
}

// Write replaces the artifact for a document stage.
func (s *ArtifactStore) Write(_ context.Context, documentID string, stage domain.Stage, data json.RawMessage) error {
	if documentID == "" || !stage.IsValid() || !json.Valid(data) {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[artifactKey{documentID, stage}] = domain.Artifact{
		DocumentID: documentID,
		Stage:      stage,
		Data:       append(json.RawMessage(nil), data...),
		UpdatedAt:  s.now(),
	}
	return nil
}

// Mirror keeps the flat text in memory and returns a pseudo path.
func (s *ArtifactStore) Mirror(_ context.Context, documentID string, stage domain.Stage, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirrors[artifactKey{documentID, stage}] = text
	return "memory://" + documentID + "/" + stage.String() + ".txt", nil
}

// MirrorText returns the mirrored text for a document stage.
func (s *ArtifactStore) MirrorText(documentID string, stage domain.Stage) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.mirrors[artifactKey{documentID, stage}]
	return text, ok
}

// List returns the stages stored for a document, sorted by name.
func (s *ArtifactStore) List(_ context.Context, documentID string) ([]domain.Stage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stages []domain.Stage
	for k := range s.artifacts {
		if k.documentID == documentID {
			stages = append(stages, k.stage)
		}
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i] < stages[j] })
	return stages, nil
}

// Delete removes every artifact of a document.
func (s *ArtifactStore) Delete(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.artifacts {
		if k.documentID == documentID {
			delete(s.artifacts, k)
		}
	}
	for k := range s.mirrors {
		if k.documentID == documentID {
			delete(s.mirrors, k)
		}
	}
	return nil
}

// Close is a no-op.
func (s *ArtifactStore) Close() error {
	return nil
}
