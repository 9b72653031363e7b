package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/digest/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/digest/internal/core/domain"
)

// fakeTranslator upper-cases text and tags it with the target code.
type fakeTranslator struct {
	name  string
	err   error
	delay time.Duration

	mu     sync.Mutex
	chunks []string
}

func (f *fakeTranslator) Name() string { return f.name }

func (f *fakeTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	f.mu.Lock()
	f.chunks = append(f.chunks, text)
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return "[" + source + ">" + target + "] " + strings.ToUpper(text), nil
}

func (f *fakeTranslator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chunks)
}

func seedSummary(t *testing.T, store *memory.ArtifactStore, id string, st domain.SummaryType, text string) {
	t.Helper()
	data, err := json.Marshal(&domain.SummaryRecord{DocumentID: id, Type: st, SummaryText: text})
	require.NoError(t, err)
	require.NoError(t, store.Write(context.Background(), id, st.Stage(), data))
}

func TestTranslationService_TranslateSummary(t *testing.T) {
	store := memory.NewArtifactStore()
	seedSummary(t, store, "doc", domain.SummaryHybrid, "Go is fun. Tests pass.")
	libre := &fakeTranslator{name: "libre"}
	svc := NewTranslationService(store, WithTranslator(domain.TranslationProviderLibre, libre))

	rec, err := svc.TranslateSummary(context.Background(), "doc", domain.SummaryHybrid, "Hindi", domain.TranslationProviderLibre)

	require.NoError(t, err)
	assert.Equal(t, "[en>hi] GO IS FUN. TESTS PASS.", rec.TranslatedText)
	assert.Equal(t, "Go is fun. Tests pass.", rec.SourceText)
	assert.Equal(t, "hindi", rec.TargetLanguage)
	assert.Equal(t, "hi", rec.LanguageCode)
	assert.Equal(t, "libre", rec.Provider)

	mirror, ok := store.MirrorText("doc", domain.Stage("hybrid-summary-hi"))
	require.True(t, ok)
	assert.Equal(t, rec.TranslatedText, mirror)

	got, err := svc.Get(context.Background(), "doc", domain.SummaryHybrid, "hi")
	require.NoError(t, err)
	assert.Equal(t, rec.TranslatedText, got.TranslatedText)
}

func TestTranslationService_ChunksAndCache(t *testing.T) {
	store := memory.NewArtifactStore()
	seedSummary(t, store, "doc", domain.SummaryExtractive, "One two three. Four five six. Seven eight nine.")
	libre := &fakeTranslator{name: "libre"}
	svc := NewTranslationService(store,
		WithTranslator(domain.TranslationProviderLibre, libre),
		WithTranslateChunkChars(30),
	)

	_, err := svc.TranslateSummary(context.Background(), "doc", domain.SummaryExtractive, "mr", "libre")
	require.NoError(t, err)
	assert.Equal(t, []string{"One two three. Four five six.", "Seven eight nine."}, libre.chunks)

	_, err = svc.TranslateSummary(context.Background(), "doc", domain.SummaryExtractive, "marathi", "libre")
	require.NoError(t, err)
	assert.Equal(t, 2, libre.calls(), "second run is served from the cache")
}

func TestTranslationService_AutoFallsBackToLLM(t *testing.T) {
	store := memory.NewArtifactStore()
	seedSummary(t, store, "doc", domain.SummaryAbstractive, "Short summary.")
	libre := &fakeTranslator{name: "libre", err: errors.New("connection refused")}
	llm := &fakeTranslator{name: "llm"}
	svc := NewTranslationService(store,
		WithTranslator(domain.TranslationProviderLibre, libre),
		WithTranslator(domain.TranslationProviderLLM, llm),
	)

	rec, err := svc.TranslateSummary(context.Background(), "doc", domain.SummaryAbstractive, "hi", "")

	require.NoError(t, err)
	assert.Equal(t, "llm", rec.Provider)
	assert.Equal(t, 1, libre.calls())
	assert.Equal(t, 1, llm.calls())
}

func TestTranslationService_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("all providers fail", func(t *testing.T) {
		store := memory.NewArtifactStore()
		seedSummary(t, store, "doc", domain.SummaryHybrid, "Text to translate.")
		svc := NewTranslationService(store,
			WithTranslator(domain.TranslationProviderLibre, &fakeTranslator{name: "libre", err: errors.New("boom")}))

		_, err := svc.TranslateSummary(ctx, "doc", domain.SummaryHybrid, "hi", domain.TranslationProviderAuto)

		assert.Equal(t, domain.KindDependencyUnavailable, domain.KindOf(err))
		_, readErr := store.Read(ctx, "doc", domain.Stage("hybrid-summary-hi"))
		assert.ErrorIs(t, readErr, domain.ErrNotFound)
	})

	t.Run("llm not configured", func(t *testing.T) {
		store := memory.NewArtifactStore()
		seedSummary(t, store, "doc", domain.SummaryHybrid, "Text to translate.")
		svc := NewTranslationService(store)

		_, err := svc.TranslateSummary(ctx, "doc", domain.SummaryHybrid, "hi", domain.TranslationProviderLLM)

		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("timeout", func(t *testing.T) {
		store := memory.NewArtifactStore()
		seedSummary(t, store, "doc", domain.SummaryHybrid, "Text to translate.")
		svc := NewTranslationService(store,
			WithTranslator(domain.TranslationProviderLibre, &fakeTranslator{name: "libre", delay: time.Second}),
			WithTranslateTimeout(10*time.Millisecond),
		)

		_, err := svc.TranslateSummary(ctx, "doc", domain.SummaryHybrid, "hi", domain.TranslationProviderLibre)

		assert.Equal(t, domain.KindTimeout, domain.KindOf(err))
	})

	t.Run("missing summary", func(t *testing.T) {
		svc := NewTranslationService(memory.NewArtifactStore())

		_, err := svc.TranslateSummary(ctx, "doc", domain.SummaryHybrid, "hi", "")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("bad input", func(t *testing.T) {
		svc := NewTranslationService(memory.NewArtifactStore())

		_, err := svc.TranslateSummary(ctx, "doc", domain.SummaryHybrid, "klingon", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = svc.TranslateSummary(ctx, "doc", domain.SummaryType("poem"), "hi", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = svc.TranslateSummary(ctx, "doc", domain.SummaryHybrid, "hi", "google")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestTranslationService_EnglishIsPassthrough(t *testing.T) {
	store := memory.NewArtifactStore()
	seedSummary(t, store, "doc", domain.SummaryHybrid, "Already English.")
	libre := &fakeTranslator{name: "libre"}
	svc := NewTranslationService(store, WithTranslator(domain.TranslationProviderLibre, libre))

	rec, err := svc.TranslateSummary(context.Background(), "doc", domain.SummaryHybrid, "english", "")

	require.NoError(t, err)
	assert.Equal(t, "Already English.", rec.TranslatedText)
	assert.Equal(t, "none", rec.Provider)
	assert.Zero(t, libre.calls())
}

func TestTranslationService_Languages(t *testing.T) {
	svc := NewTranslationService(nil)

	assert.Len(t, svc.Languages(), 3)
	_, err := svc.Get(context.Background(), "doc", domain.SummaryHybrid, "hi")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestChunkByChars(t *testing.T) {
	long := strings.Repeat("a", 40) + "."

	chunks := chunkByChars("Tiny one. "+long+" Tail end.", 20)

	assert.Equal(t, []string{"Tiny one.", long, "Tail end."}, chunks)
	assert.Empty(t, chunkByChars("   ", 20))
}
