package memory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/digest/internal/core/domain"
)

func TestArtifactStore_WriteRead(t *testing.T) {
	ctx := context.Background()
	store := NewArtifactStore()

	require.NoError(t, store.Write(ctx, "report", domain.StageCleanedSentences, json.RawMessage(`{"sentences":["One."]}`)))

	a, err := store.Read(ctx, "report", domain.StageCleanedSentences)
	require.NoError(t, err)
	assert.Equal(t, "report", a.DocumentID)
	assert.JSONEq(t, `{"sentences":["One."]}`, string(a.Data))
	assert.False(t, a.UpdatedAt.IsZero())
}

func TestArtifactStore_Read_NotFound(t *testing.T) {
	_, err := NewArtifactStore().Read(context.Background(), "missing", domain.StageExtraction)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArtifactStore_Write_Overwrites(t *testing.T) {
	ctx := context.Background()
	store := NewArtifactStore()

	require.NoError(t, store.Write(ctx, "d", domain.StageExtractive, json.RawMessage(`{"a":1,"b":2}`)))
	require.NoError(t, store.Write(ctx, "d", domain.StageExtractive, json.RawMessage(`{"a":3}`)))

	a, err := store.Read(ctx, "d", domain.StageExtractive)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3}`, string(a.Data))
}

func TestArtifactStore_Write_Invalid(t *testing.T) {
	ctx := context.Background()
	store := NewArtifactStore()

	assert.ErrorIs(t, store.Write(ctx, "", domain.StageExtractive, json.RawMessage(`{}`)), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Write(ctx, "d", "bogus", json.RawMessage(`{}`)), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Write(ctx, "d", domain.StageExtractive, json.RawMessage(`{`)), domain.ErrInvalidInput)
}

func TestArtifactStore_ReadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewArtifactStore()
	require.NoError(t, store.Write(ctx, "d", domain.StageExtractive, json.RawMessage(`{"a":1}`)))

	a, err := store.Read(ctx, "d", domain.StageExtractive)
	require.NoError(t, err)
	a.Data[1] = 'X'

	b, err := store.Read(ctx, "d", domain.StageExtractive)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(b.Data))
}

func TestArtifactStore_MirrorListDelete(t *testing.T) {
	ctx := context.Background()
	store := NewArtifactStore()

	path, err := store.Mirror(ctx, "d", domain.StageHybrid, "summary text")
	require.NoError(t, err)
	assert.Equal(t, "memory://d/hybrid-summary.txt", path)
	text, ok := store.MirrorText("d", domain.StageHybrid)
	assert.True(t, ok)
	assert.Equal(t, "summary text", text)

	require.NoError(t, store.Write(ctx, "d", domain.StageHybrid, json.RawMessage(`{}`)))
	require.NoError(t, store.Write(ctx, "d", domain.StageExtraction, json.RawMessage(`{}`)))
	require.NoError(t, store.Write(ctx, "other", domain.StageExtraction, json.RawMessage(`{}`)))

	stages, err := store.List(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, []domain.Stage{domain.StageExtraction, domain.StageHybrid}, stages)

	require.NoError(t, store.Delete(ctx, "d"))
	stages, err = store.List(ctx, "d")
	require.NoError(t, err)
	assert.Empty(t, stages)
	_, ok = store.MirrorText("d", domain.StageHybrid)
	assert.False(t, ok)

	_, err = store.Read(ctx, "other", domain.StageExtraction)
	assert.NoError(t, err)
}
