// Package textmirror writes flat-text copies of stage outputs next to the
// artifact store, one file per document stage.
package textmirror

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// Writer stores mirrors as <dir>/<id>_<stage>.txt.
type Writer struct {
	dir string
}

// New creates a writer rooted at dir. The directory is created on first write.
func New(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the mirror directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Path returns the mirror location of a document stage.
func (w *Writer) Path(documentID string, stage domain.Stage) string {
	return filepath.Join(w.dir, documentID+"_"+string(stage)+".txt")
}

// Write replaces the mirror of a document stage and returns its path.
// The file is renamed into place so readers never see a partial mirror.
func (w *Writer) Write(documentID string, stage domain.Stage, text string) (string, error) {
	if err := ValidateID(documentID); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, 0o700); err != nil {
		return "", fmt.Errorf("creating mirror directory: %w", err)
	}

	path := w.Path(documentID, stage)
	tmp, err := os.CreateTemp(w.dir, ".mirror-*")
	if err != nil {
		return "", fmt.Errorf("creating mirror: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing mirror: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing mirror: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("replacing mirror: %w", err)
	}
	return path, nil
}

// Remove deletes the given mirrors of a document. Missing files are ignored.
func (w *Writer) Remove(documentID string, stages []domain.Stage) error {
	for _, stage := range stages {
		if err := os.Remove(w.Path(documentID, stage)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing mirror: %w", err)
		}
	}
	return nil
}

// ValidateID rejects ids that cannot be used as part of a file name.
func ValidateID(documentID string) error {
	if documentID == "" || documentID == "." || documentID == ".." ||
		strings.ContainsAny(documentID, `/\`+"\x00") {
		return fmt.Errorf("%w: document id %q", domain.ErrInvalidInput, documentID)
	}
	return nil
}
