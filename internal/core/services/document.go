package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
	"github.com/custodia-labs/digest/internal/core/ports/driving"
	"github.com/custodia-labs/digest/internal/logger"
	"github.com/custodia-labs/digest/internal/normalisers"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// MaxUploadBytes bounds the size of one ingested file.
const MaxUploadBytes = 32 << 20

// DocumentService ingests files into the extraction stage and manages
// the artifacts of each document.
type DocumentService struct {
	store       driven.ArtifactStore
	normalisers driven.NormaliserRegistry
	now         func() time.Time
}

// NewDocumentService creates a new document service.
func NewDocumentService(store driven.ArtifactStore, registry driven.NormaliserRegistry) *DocumentService {
	return &DocumentService{
		store:       store,
		normalisers: registry,
		now:         time.Now,
	}
}

// Ingest reads a file from disk and extracts its text.
func (s *DocumentService) Ingest(ctx context.Context, path string) (*domain.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if info.Size() > MaxUploadBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", domain.ErrInvalidInput, path, MaxUploadBytes)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return s.ingest(ctx, abs, content)
}

// IngestBytes extracts text from content uploaded under name.
func (s *DocumentService) IngestBytes(ctx context.Context, name string, content []byte) (*domain.Document, error) {
	if len(content) > MaxUploadBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", domain.ErrInvalidInput, name, MaxUploadBytes)
	}
	return s.ingest(ctx, filepath.Base(name), content)
}

func (s *DocumentService) ingest(ctx context.Context, uri string, content []byte) (*domain.Document, error) {
	if s.store == nil || s.normalisers == nil {
		return nil, domain.ErrNotImplemented
	}
	id := domain.DocumentIDFromPath(uri)
	if id == "" || strings.HasPrefix(id, ".") {
		return nil, fmt.Errorf("%w: cannot derive a document id from %q", domain.ErrInvalidInput, uri)
	}

	raw := &domain.RawDocument{
		URI:      uri,
		MIMEType: normalisers.MIMETypeFor(uri),
		Content:  content,
	}
	doc, err := s.normalisers.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filepath.Base(uri), err)
	}
	if strings.TrimSpace(doc.Content) == "" {
		return nil, fmt.Errorf("%w: no text extracted from %s", domain.ErrInvalidInput, filepath.Base(uri))
	}

	now := s.now()
	doc.ID = id
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if prev, err := s.Get(ctx, id); err == nil {
		doc.CreatedAt = prev.CreatedAt
	}

	if _, err := s.store.Mirror(ctx, id, domain.StageExtraction, doc.Content); err != nil {
		return nil, fmt.Errorf("mirror extracted text: %w", err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode extracted text: %w", err)
	}
	if err := s.store.Write(ctx, id, domain.StageExtraction, data); err != nil {
		return nil, fmt.Errorf("write extracted text: %w", err)
	}

	logger.Info("ingested %s as %q (%s, %d chars)", filepath.Base(uri), id, doc.MIMEType, doc.CharCount)
	return doc, nil
}

// Get returns the extracted document.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	art, err := s.store.Read(ctx, documentID, domain.StageExtraction)
	if err != nil {
		return nil, fmt.Errorf("get document %q: %w", documentID, err)
	}
	var doc domain.Document
	if err := art.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document %q: %w", documentID, err)
	}
	return &doc, nil
}

// Stages returns the stages persisted for a document.
// Returns domain.ErrNotFound when the document has no artifacts.
func (s *DocumentService) Stages(ctx context.Context, documentID string) ([]domain.Stage, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	stages, err := s.store.List(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list stages of %q: %w", documentID, err)
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: document %q", domain.ErrNotFound, documentID)
	}
	return stages, nil
}

// Delete removes every artifact of a document.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if _, err := s.Stages(ctx, documentID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("delete %q: %w", documentID, err)
	}
	logger.Info("deleted document %q", documentID)
	return nil
}
