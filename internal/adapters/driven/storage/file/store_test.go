package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/digest/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "outputs"))
	require.NoError(t, err)
	return s
}

func TestStore_WriteRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "report", domain.StageCleanedSentences, json.RawMessage(`{"sentences":["a"]}`)))

	art, err := s.Read(ctx, "report", domain.StageCleanedSentences)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sentences":["a"]}`, string(art.Data))
	assert.False(t, art.UpdatedAt.IsZero())

	_, err = os.Stat(filepath.Join(s.Dir(), "report_cleaned-sentences.json"))
	assert.NoError(t, err)
}

func TestStore_ReadNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Read(context.Background(), "report", domain.StageExtraction)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_WriteInvalid(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Write(ctx, "../x", domain.StageExtraction, json.RawMessage(`{}`)), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.Write(ctx, "x", domain.Stage("x"), json.RawMessage(`{}`)), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.Write(ctx, "x", domain.StageExtraction, json.RawMessage(`nope`)), domain.ErrInvalidInput)
}

func TestStore_ListIgnoresLookalikes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "a", domain.StageExtraction, json.RawMessage(`{}`)))
	require.NoError(t, s.Write(ctx, "a", domain.Stage("extractive-summary-mr"), json.RawMessage(`{}`)))
	require.NoError(t, s.Write(ctx, "a_b", domain.StageExtraction, json.RawMessage(`{}`)))
	_, err := s.Mirror(ctx, "a", domain.StageExtraction, "text")
	require.NoError(t, err)

	stages, err := s.List(ctx, "a")

	require.NoError(t, err)
	assert.Equal(t, []domain.Stage{domain.StageExtraction, domain.Stage("extractive-summary-mr")}, stages)
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "a", domain.StageExtraction, json.RawMessage(`{}`)))
	mirror, err := s.Mirror(ctx, "a", domain.StageExtraction, "text")
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, "b", domain.StageExtraction, json.RawMessage(`{}`)))

	require.NoError(t, s.Delete(ctx, "a"))

	stages, err := s.List(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, stages)
	_, err = os.Stat(mirror)
	assert.True(t, os.IsNotExist(err))
	_, err = s.Read(ctx, "b", domain.StageExtraction)
	assert.NoError(t, err)
}
