package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
	"github.com/custodia-labs/digest/internal/core/ports/driving"
	"github.com/custodia-labs/digest/internal/logger"
	"github.com/custodia-labs/digest/internal/textutil"
)

// Ensure TranslationService implements the interface.
var _ driving.TranslationService = (*TranslationService)(nil)

// Translation defaults.
const (
	DefaultTranslateChunkChars = 1000
	DefaultTranslateCacheSize  = 256
	sourceLanguage             = "en"
)

// TranslationService translates persisted summaries chunk by chunk.
// Chunks already translated to a language are served from memory.
type TranslationService struct {
	store           driven.ArtifactStore
	translators     map[domain.TranslationProvider]driven.Translator
	defaultProvider domain.TranslationProvider
	chunkChars      int
	timeout         time.Duration
	cache           *lru.Cache[uint64, string]
	now             func() time.Time
}

// TranslationOption configures a TranslationService.
type TranslationOption func(*TranslationService)

// WithTranslator registers the translator used for a provider.
// A nil translator leaves the provider unavailable.
func WithTranslator(provider domain.TranslationProvider, t driven.Translator) TranslationOption {
	return func(s *TranslationService) {
		if t != nil {
			s.translators[provider] = t
		}
	}
}

// WithDefaultProvider sets the provider used when a call names none.
func WithDefaultProvider(p domain.TranslationProvider) TranslationOption {
	return func(s *TranslationService) {
		if p.IsValid() {
			s.defaultProvider = p
		}
	}
}

// WithTranslateChunkChars sets the character budget of one request.
func WithTranslateChunkChars(n int) TranslationOption {
	return func(s *TranslationService) {
		if n > 0 {
			s.chunkChars = n
		}
	}
}

// WithTranslateTimeout bounds each provider call.
func WithTranslateTimeout(d time.Duration) TranslationOption {
	return func(s *TranslationService) {
		s.timeout = d
	}
}

// NewTranslationService creates a translation service.
func NewTranslationService(store driven.ArtifactStore, opts ...TranslationOption) *TranslationService {
	cache, _ := lru.New[uint64, string](DefaultTranslateCacheSize)
	s := &TranslationService{
		store:           store,
		translators:     make(map[domain.TranslationProvider]driven.Translator),
		defaultProvider: domain.TranslationProviderAuto,
		chunkChars:      DefaultTranslateChunkChars,
		cache:           cache,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Languages returns the supported target languages.
func (s *TranslationService) Languages() []domain.Language {
	return domain.SupportedLanguages()
}

// TranslateSummary translates the latest summary of a type and writes the
// translation stage with a flat-text mirror.
func (s *TranslationService) TranslateSummary(
	ctx context.Context, documentID string, summaryType domain.SummaryType,
	language string, provider domain.TranslationProvider,
) (*domain.TranslationRecord, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if !summaryType.IsValid() {
		return nil, fmt.Errorf("%w: unknown summary type %q", domain.ErrInvalidInput, summaryType)
	}
	lang, err := domain.ParseLanguage(language)
	if err != nil {
		return nil, err
	}
	if provider == "" {
		provider = s.defaultProvider
	}
	if !provider.IsValid() {
		return nil, fmt.Errorf("%w: unknown translation provider %q", domain.ErrInvalidInput, provider)
	}

	source, err := s.readSummary(ctx, documentID, summaryType)
	if err != nil {
		return nil, err
	}

	translated, used, err := s.translate(ctx, source, lang.Code, provider)
	if err != nil {
		return nil, err
	}

	stage := domain.TranslationStage(summaryType, lang.Code)
	rec := &domain.TranslationRecord{
		DocumentID:     documentID,
		SummaryType:    summaryType,
		TargetLanguage: lang.Name,
		LanguageCode:   lang.Code,
		Provider:       used,
		SourceText:     source,
		TranslatedText: translated,
		CreatedAt:      s.now(),
	}

	path, err := s.store.Mirror(ctx, documentID, stage, translated)
	if err != nil {
		return nil, fmt.Errorf("mirror %s: %w", stage, err)
	}
	rec.FilePath = path

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", stage, err)
	}
	if err := s.store.Write(ctx, documentID, stage, data); err != nil {
		return nil, fmt.Errorf("write %s: %w", stage, err)
	}

	logger.Info("translated %s %s summary to %s with %s", documentID, summaryType, lang.Name, used)
	return rec, nil
}

// Get returns a persisted translation.
func (s *TranslationService) Get(
	ctx context.Context, documentID string, summaryType domain.SummaryType, language string,
) (*domain.TranslationRecord, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if !summaryType.IsValid() {
		return nil, fmt.Errorf("%w: unknown summary type %q", domain.ErrInvalidInput, summaryType)
	}
	lang, err := domain.ParseLanguage(language)
	if err != nil {
		return nil, err
	}

	stage := domain.TranslationStage(summaryType, lang.Code)
	art, err := s.store.Read(ctx, documentID, stage)
	if err != nil {
		return nil, fmt.Errorf("get %s for %q: %w", stage, documentID, err)
	}
	var rec domain.TranslationRecord
	if err := art.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode %s for %q: %w", stage, documentID, err)
	}
	return &rec, nil
}

func (s *TranslationService) readSummary(
	ctx context.Context, documentID string, summaryType domain.SummaryType,
) (string, error) {
	art, err := s.store.Read(ctx, documentID, summaryType.Stage())
	if err != nil {
		return "", fmt.Errorf("read %s summary for %q: %w", summaryType, documentID, err)
	}
	var rec domain.SummaryRecord
	if err := art.Decode(&rec); err != nil {
		return "", fmt.Errorf("decode %s summary for %q: %w", summaryType, documentID, err)
	}
	return rec.SummaryText, nil
}

// translate picks the provider chain and returns the text with the name
// of the provider that produced it. Text already in the source language,
// or empty text, is returned unchanged.
func (s *TranslationService) translate(
	ctx context.Context, text, target string, provider domain.TranslationProvider,
) (string, string, error) {
	if strings.TrimSpace(text) == "" || target == sourceLanguage {
		return text, "none", nil
	}

	chain := []domain.TranslationProvider{provider}
	if provider == domain.TranslationProviderAuto {
		chain = []domain.TranslationProvider{domain.TranslationProviderLibre, domain.TranslationProviderLLM}
	}

	var lastErr error
	for _, p := range chain {
		t, ok := s.translators[p]
		if !ok {
			lastErr = unavailableProvider(p)
			continue
		}
		out, err := s.translateChunks(ctx, t, text, target)
		if err == nil {
			return out, t.Name(), nil
		}
		if ctx.Err() != nil {
			return "", "", classifyExternal(err)
		}
		logger.Warn("translation with %s failed: %v", t.Name(), err)
		lastErr = err
	}
	return "", "", classifyExternal(lastErr)
}

func unavailableProvider(p domain.TranslationProvider) error {
	if p == domain.TranslationProviderLLM {
		return domain.ErrLLMUnavailable
	}
	return fmt.Errorf("%w: %s translator not configured", domain.ErrDependencyUnavailable, p)
}

func (s *TranslationService) translateChunks(ctx context.Context, t driven.Translator, text, target string) (string, error) {
	chunks := chunkByChars(text, s.chunkChars)
	out := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		key := translationKey(t.Name(), target, chunk)
		if cached, ok := s.cache.Get(key); ok {
			out = append(out, cached)
			continue
		}

		callCtx, cancel := s.callContext(ctx)
		translated, err := t.Translate(callCtx, chunk, sourceLanguage, target)
		cancel()
		if err != nil {
			return "", fmt.Errorf("translate chunk %d/%d: %w", i+1, len(chunks), err)
		}
		translated = strings.TrimSpace(translated)
		s.cache.Add(key, translated)
		out = append(out, translated)
	}
	return strings.Join(out, " "), nil
}

func (s *TranslationService) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func translationKey(provider, target, chunk string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(provider + "\x00" + target + "\x00")
	_, _ = d.WriteString(chunk)
	return d.Sum64()
}

// chunkByChars groups sentences into chunks of at most maxChars
// characters. A longer sentence becomes a chunk of its own.
func chunkByChars(text string, maxChars int) []string {
	var (
		chunks  []string
		current []string
		size    int
	)
	for _, sentence := range textutil.SplitSentences(text) {
		n := utf8.RuneCountInString(sentence)
		extra := n
		if len(current) > 0 {
			extra++
		}
		if len(current) > 0 && size+extra > maxChars {
			chunks = append(chunks, strings.Join(current, " "))
			current, size, extra = nil, 0, n
		}
		current = append(current, sentence)
		size += extra
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

