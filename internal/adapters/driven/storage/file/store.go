// Package file provides a directory-based implementation of
// driven.ArtifactStore. Each artifact is <dir>/<id>_<stage>.json and its
// mirror is <dir>/<id>_<stage>.txt, matching the layout users browse.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/digest/internal/adapters/driven/storage/textmirror"
	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ArtifactStore = (*Store)(nil)

// Store keeps artifacts as JSON files in one directory.
type Store struct {
	mu      sync.RWMutex
	dir     string
	mirrors *textmirror.Writer
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}
	return &Store{dir: dir, mirrors: textmirror.New(dir)}, nil
}

// Dir returns the artifact directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(documentID string, stage domain.Stage) string {
	return filepath.Join(s.dir, documentID+"_"+string(stage)+".json")
}

// Read returns the artifact for a document stage.
func (s *Store) Read(_ context.Context, documentID string, stage domain.Stage) (*domain.Artifact, error) {
	if err := validate(documentID, stage); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.path(documentID, stage)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, documentID, stage)
		}
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}
	return &domain.Artifact{
		DocumentID: documentID,
		Stage:      stage,
		Data:       json.RawMessage(data),
		UpdatedAt:  info.ModTime(),
	}, nil
}

// Write replaces the artifact file. The record is indented for reading.
func (s *Store) Write(_ context.Context, documentID string, stage domain.Stage, data json.RawMessage) error {
	if err := validate(documentID, stage); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("%w: artifact %s/%s is not valid JSON", domain.ErrInvalidInput, documentID, stage)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeAtomic(s.dir, s.path(documentID, stage), buf.Bytes())
}

// Mirror writes the flat-text copy next to the artifact.
func (s *Store) Mirror(_ context.Context, documentID string, stage domain.Stage, text string) (string, error) {
	if err := validate(documentID, stage); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mirrors.Write(documentID, stage, text)
}

// List returns the stages stored for a document, sorted by name.
func (s *Store) List(_ context.Context, documentID string) ([]domain.Stage, error) {
	if err := textmirror.ValidateID(documentID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(documentID)
}

func (s *Store) list(documentID string) ([]domain.Stage, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading artifact directory: %w", err)
	}
	prefix := documentID + "_"
	var stages []domain.Stage
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		stage := domain.Stage(strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json"))
		if stage.IsValid() {
			stages = append(stages, stage)
		}
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i] < stages[j] })
	return stages, nil
}

// Delete removes every artifact of a document and its mirrors.
func (s *Store) Delete(_ context.Context, documentID string) error {
	if err := textmirror.ValidateID(documentID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stages, err := s.list(documentID)
	if err != nil {
		return err
	}
	for _, stage := range stages {
		if err := os.Remove(s.path(documentID, stage)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing artifact: %w", err)
		}
	}
	return s.mirrors.Remove(documentID, stages)
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func validate(documentID string, stage domain.Stage) error {
	if err := textmirror.ValidateID(documentID); err != nil {
		return err
	}
	if !stage.IsValid() {
		return fmt.Errorf("%w: stage %q", domain.ErrInvalidInput, stage)
	}
	return nil
}

func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return fmt.Errorf("creating artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing artifact: %w", err)
	}
	return nil
}
