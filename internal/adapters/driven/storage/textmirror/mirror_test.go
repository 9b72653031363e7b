package textmirror

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/digest/internal/core/domain"
)

func TestWriter_WriteAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs")
	w := New(dir)

	path, err := w.Write("report", domain.StageExtractive, "first")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report_extractive-summary.txt"), path)

	_, err = w.Write("report", domain.StageExtractive, "second")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")

	require.NoError(t, w.Remove("report", []domain.Stage{domain.StageExtractive, domain.StageHybrid}))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestValidateID(t *testing.T) {
	for _, id := range []string{"", ".", "..", "a/b", `a\b`} {
		assert.ErrorIs(t, ValidateID(id), domain.ErrInvalidInput, id)
	}
	assert.NoError(t, ValidateID("quarterly report 2024"))
}
