package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/digest/internal/adapters/driven/llm/prompt"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
)

func newPromptStore(t *testing.T) (*PromptStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "prompts")
	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	return store, dir
}

func writePrompt(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".txt"), []byte(content), 0o600))
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".digest", "prompts"), store.Dir())
}

func TestNewPromptStore_NoIO(t *testing.T) {
	_, dir := newPromptStore(t)

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestPromptStore_SeedsDirectory(t *testing.T) {
	store, dir := newPromptStore(t)

	_, err := store.Load(driven.PromptSummarise)
	require.NoError(t, err)

	for _, f := range []string{"summarise.txt", "translate.txt", "README.md"} {
		assert.FileExists(t, filepath.Join(dir, f))
	}
	data, err := os.ReadFile(filepath.Join(dir, "translate.txt"))
	require.NoError(t, err)
	assert.Equal(t, prompt.DefaultTranslate+"\n", string(data))
}

func TestPromptStore_LoadDefault(t *testing.T) {
	store, _ := newPromptStore(t)

	got, err := store.Load(driven.PromptSummarise)

	require.NoError(t, err)
	assert.Equal(t, prompt.DefaultSummarise, got)
}

func TestPromptStore_LoadCustom(t *testing.T) {
	store, dir := newPromptStore(t)
	writePrompt(t, dir, driven.PromptSummarise, "\n  Keep it to %d-%d words:\n%s  \n")

	got, err := store.Load(driven.PromptSummarise)

	require.NoError(t, err)
	assert.Equal(t, "Keep it to %d-%d words:\n%s", got)
}

func TestPromptStore_KeepsExistingFiles(t *testing.T) {
	store, dir := newPromptStore(t)
	custom := "Render into %s please: %s"
	writePrompt(t, dir, driven.PromptTranslate, custom)

	_, err := store.Load(driven.PromptTranslate)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "translate.txt"))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestPromptStore_RejectsBadPlaceholders(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing text", "Summarise in %d to %d words."},
		{"reordered", "%s\nUse %d to %d words."},
		{"blank", "   \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, dir := newPromptStore(t)
			writePrompt(t, dir, driven.PromptSummarise, tt.content)

			got, err := store.Load(driven.PromptSummarise)

			require.NoError(t, err)
			assert.Equal(t, prompt.DefaultSummarise, got)
		})
	}
}

func TestPromptStore_UnknownPrompt(t *testing.T) {
	store, _ := newPromptStore(t)

	_, err := store.Load("outline")

	assert.Error(t, err)
}

func TestPromptStore_CachesUntilReload(t *testing.T) {
	store, dir := newPromptStore(t)
	writePrompt(t, dir, driven.PromptTranslate, "v1 %s %s")

	first, err := store.Load(driven.PromptTranslate)
	require.NoError(t, err)
	writePrompt(t, dir, driven.PromptTranslate, "v2 %s %s")

	cached, err := store.Load(driven.PromptTranslate)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	store.Reload()
	fresh, err := store.Load(driven.PromptTranslate)
	require.NoError(t, err)
	assert.Equal(t, "v2 %s %s", fresh)
}

func TestPromptStore_UnwritableDirFallsBack(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	store, err := NewPromptStore(filepath.Join(blocker, "prompts"))
	require.NoError(t, err)

	got, err := store.Load(driven.PromptTranslate)

	require.NoError(t, err)
	assert.Equal(t, prompt.DefaultTranslate, got)
}

func TestPromptStore_ConcurrentLoad(t *testing.T) {
	store, _ := newPromptStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.Load(driven.PromptSummarise)
			assert.NoError(t, err)
			assert.Equal(t, prompt.DefaultSummarise, got)
		}()
	}
	wg.Wait()
}
