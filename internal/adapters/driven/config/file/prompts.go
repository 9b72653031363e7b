package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/digest/internal/adapters/driven/llm/prompt"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
	"github.com/custodia-labs/digest/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

const promptReadme = `# Digest prompts

Each .txt file here is a template digest sends to the configured LLM.
Edits apply to the next command, or after restarting "digest serve".

Placeholders are Go fmt verbs and must stay in this order:

  summarise.txt  %d minimum words, %d maximum words, %s text
  translate.txt  %s target language, %s text

A file whose placeholders do not match is ignored and the built-in
template is used instead. Delete a file to restore its default.
`

// PromptStore serves prompt templates from <dir>/<name>.txt.
//
// The directory is seeded with the built-in templates on first use.
// Templates whose placeholders differ from the built-in ones are
// rejected in favour of the default, so a bad edit never reaches the LLM
// as a garbled prompt.
type PromptStore struct {
	dir string

	setupOnce sync.Once
	setupErr  error

	mu    sync.Mutex
	cache map[string]string
}

// NewPromptStore creates a store rooted at promptDir, or ~/.digest/prompts
// when promptDir is empty. No files are touched until the first Load.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".digest", "prompts")
	}
	return &PromptStore{dir: promptDir, cache: make(map[string]string)}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the template called name.
func (s *PromptStore) Load(name string) (string, error) {
	def, ok := prompt.Defaults()[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}

	s.setupOnce.Do(s.setup)
	if s.setupErr != nil {
		return def, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tmpl, ok := s.cache[name]; ok {
		return tmpl, nil
	}

	tmpl := def
	path := s.path(name)
	switch data, err := os.ReadFile(path); {
	case err == nil:
		custom := strings.TrimSpace(string(data))
		if err := prompt.Check(name, custom); err != nil {
			logger.Warn("%s: %v; using built-in template", path, err)
		} else {
			tmpl = custom
		}
	case !errors.Is(err, fs.ErrNotExist):
		logger.Warn("reading %s: %v; using built-in template", path, err)
	}

	s.cache[name] = tmpl
	return tmpl, nil
}

// Reload drops cached templates so edited files are read again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// setup creates the directory and writes any missing default files.
// Existing files are never overwritten.
func (s *PromptStore) setup() {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		s.setupErr = fmt.Errorf("create prompt directory: %w", err)
		logger.Warn("%v; using built-in prompts", s.setupErr)
		return
	}

	files := map[string]string{"README.md": promptReadme}
	for name, tmpl := range prompt.Defaults() {
		files[name+".txt"] = tmpl + "\n"
	}
	for file, content := range files {
		if err := writeIfMissing(filepath.Join(s.dir, file), content); err != nil {
			s.setupErr = err
			logger.Warn("%v; using built-in prompts", err)
			return
		}
	}
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
