package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
	"github.com/custodia-labs/digest/internal/core/ports/driving"
	"github.com/custodia-labs/digest/internal/logger"
	"github.com/custodia-labs/digest/internal/ranking"
	"github.com/custodia-labs/digest/internal/simcache"
	"github.com/custodia-labs/digest/internal/textutil"
	"github.com/custodia-labs/digest/internal/workerpool"
)

// Ensure SummaryOrchestrator implements the interface.
var _ driving.SummaryService = (*SummaryOrchestrator)(nil)

// Abstractive chunking defaults.
const (
	DefaultChunkWords    = 1000
	DefaultMinChunkChars = 50
	DefaultChunkWorkers  = 2
	DefaultMaxLength     = 150
	DefaultMinLength     = 50
	DefaultHybridRatio   = 0.5
)

// SummaryOrchestrator produces extractive, abstractive, hybrid and
// formatted hybrid summaries from the cleaned-sentences artifact.
//
// CPU-heavy ranking runs on the worker pool. The similarity cache and pool
// are owned by the orchestrator and shared by all calls. Hybrid and
// formatted hybrid calls for the same document are serialised.
type SummaryOrchestrator struct {
	store      driven.ArtifactStore
	summariser driven.AbstractiveSummariser

	// cleaner regenerates a missing cleaned-sentences artifact once.
	cleaner      driving.CleaningService
	cleaningOpts domain.CleaningOptions

	pool       *workerpool.Pool
	cache      *simcache.Cache
	vectorizer *ranking.Vectorizer
	pagerank   ranking.PageRankOptions

	chunkWords    int
	minChunkChars int
	chunkWorkers  int
	timeout       time.Duration

	locks *keyedMutex
	now   func() time.Time
}

// SummaryOption configures a SummaryOrchestrator.
type SummaryOption func(*SummaryOrchestrator)

// WithPool sets the worker pool for ranking work.
func WithPool(p *workerpool.Pool) SummaryOption {
	return func(o *SummaryOrchestrator) {
		if p != nil {
			o.pool = p
		}
	}
}

// WithCache sets the similarity matrix cache.
func WithCache(c *simcache.Cache) SummaryOption {
	return func(o *SummaryOrchestrator) {
		if c != nil {
			o.cache = c
		}
	}
}

// WithVectorizer sets the sentence vectorizer.
func WithVectorizer(v *ranking.Vectorizer) SummaryOption {
	return func(o *SummaryOrchestrator) {
		if v != nil {
			o.vectorizer = v
		}
	}
}

// WithPageRank sets the power iteration parameters.
func WithPageRank(opts ranking.PageRankOptions) SummaryOption {
	return func(o *SummaryOrchestrator) {
		o.pagerank = opts
	}
}

// WithChunking sets the abstractive chunk word budget, the size below
// which chunks are skipped and how many chunks are summarised at once.
func WithChunking(words, minChars, workers int) SummaryOption {
	return func(o *SummaryOrchestrator) {
		if words > 0 {
			o.chunkWords = words
		}
		if minChars >= 0 {
			o.minChunkChars = minChars
		}
		if workers > 0 {
			o.chunkWorkers = workers
		}
	}
}

// WithTimeout bounds each external summariser call.
func WithTimeout(d time.Duration) SummaryOption {
	return func(o *SummaryOrchestrator) {
		o.timeout = d
	}
}

// WithCleaner lets the orchestrator rebuild a missing cleaned artifact.
func WithCleaner(c driving.CleaningService, opts domain.CleaningOptions) SummaryOption {
	return func(o *SummaryOrchestrator) {
		o.cleaner = c
		o.cleaningOpts = opts
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) SummaryOption {
	return func(o *SummaryOrchestrator) {
		o.now = now
	}
}

// NewSummaryOrchestrator creates a summary orchestrator.
// summariser may be nil; abstractive operations then fail with
// domain.ErrLLMUnavailable.
func NewSummaryOrchestrator(
	store driven.ArtifactStore,
	summariser driven.AbstractiveSummariser,
	opts ...SummaryOption,
) *SummaryOrchestrator {
	o := &SummaryOrchestrator{
		store:         store,
		summariser:    summariser,
		cleaningOpts:  domain.DefaultCleaningOptions(),
		pool:          workerpool.New(workerpool.DefaultSize),
		cache:         simcache.New(simcache.DefaultSize, simcache.DefaultTTL),
		vectorizer:    ranking.NewVectorizer(),
		pagerank:      ranking.DefaultPageRankOptions(),
		chunkWords:    DefaultChunkWords,
		minChunkChars: DefaultMinChunkChars,
		chunkWorkers:  DefaultChunkWorkers,
		locks:         newKeyedMutex(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CacheStats reports similarity cache effectiveness.
func (o *SummaryOrchestrator) CacheStats() simcache.Stats {
	return o.cache.Stats()
}

// Extractive selects the top sentences of the cleaned corpus.
func (o *SummaryOrchestrator) Extractive(
	ctx context.Context, documentID string, opts domain.ExtractiveOptions,
) (*domain.SummaryRecord, error) {
	if o.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := validateRatio(opts.Ratio); err != nil {
		return nil, err
	}
	strategy, err := o.strategy(opts.Algorithm, opts.UseCache)
	if err != nil {
		return nil, err
	}

	cleaned, err := o.loadCleaned(ctx, documentID)
	if err != nil {
		return nil, err
	}

	rec, err := o.extract(ctx, documentID, cleaned.Sentences, strategy, opts.Ratio)
	if err != nil {
		return nil, err
	}
	rec.UseCache = opts.UseCache

	if err := o.persist(ctx, rec, rec.SummaryText); err != nil {
		return nil, err
	}
	return rec, nil
}

// Abstractive summarises the cleaned text through the external summariser.
func (o *SummaryOrchestrator) Abstractive(
	ctx context.Context, documentID string, opts domain.AbstractiveOptions,
) (*domain.SummaryRecord, error) {
	if o.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := o.checkSummariser(); err != nil {
		return nil, err
	}
	opts, err := normaliseLengths(opts)
	if err != nil {
		return nil, err
	}

	cleaned, err := o.loadCleaned(ctx, documentID)
	if err != nil {
		return nil, err
	}

	summary, err := o.abstract(ctx, cleaned.Text, opts)
	if err != nil {
		return nil, err
	}

	originalLength := utf8.RuneCountInString(cleaned.Text)
	summaryLength := utf8.RuneCountInString(summary)
	rec := &domain.SummaryRecord{
		ID:               uuid.New().String(),
		DocumentID:       documentID,
		Type:             domain.SummaryAbstractive,
		Method:           "chunked",
		SummaryText:      summary,
		OriginalLength:   originalLength,
		SummaryLength:    summaryLength,
		CompressionRatio: domain.CompressionRatio(originalLength, summaryLength),
		MaxLength:        opts.MaxLength,
		MinLength:        opts.MinLength,
		Model:            o.modelName(opts.Model),
		CreatedAt:        o.now(),
	}

	if err := o.persist(ctx, rec, summary); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get returns the latest persisted summary of a type.
func (o *SummaryOrchestrator) Get(
	ctx context.Context, documentID string, summaryType domain.SummaryType,
) (*domain.SummaryRecord, error) {
	if o.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if !summaryType.IsValid() {
		return nil, fmt.Errorf("%w: unknown summary type %q", domain.ErrInvalidInput, summaryType)
	}

	art, err := o.store.Read(ctx, documentID, summaryType.Stage())
	if err != nil {
		return nil, fmt.Errorf("get %s summary for %q: %w", summaryType, documentID, err)
	}

	var rec domain.SummaryRecord
	if err := art.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode %s summary for %q: %w", summaryType, documentID, err)
	}
	return &rec, nil
}

// strategy resolves the ranking strategy once, at the call boundary.
// An empty algorithm means graph.
func (o *SummaryOrchestrator) strategy(alg domain.Algorithm, useCache bool) (ranking.Strategy, error) {
	if alg == "" {
		alg = domain.AlgorithmGraph
	}
	parsed, err := domain.ParseAlgorithm(string(alg))
	if err != nil {
		return nil, err
	}

	src := ranking.Direct
	if useCache {
		src = o.cache.Source(ranking.Direct, o.vectorizer.MaxFeatures())
	}
	return ranking.NewStrategy(parsed, src, o.pagerank)
}

// extract ranks sentences on the worker pool and builds an unsaved record.
func (o *SummaryOrchestrator) extract(
	ctx context.Context, documentID string, sentences []string, strategy ranking.Strategy, ratio float64,
) (*domain.SummaryRecord, error) {
	if len(sentences) == 0 {
		return nil, fmt.Errorf("%w: document %q has no sentences", domain.ErrInvalidInput, documentID)
	}

	selected, err := workerpool.Run(ctx, o.pool, func(context.Context) ([]string, error) {
		corpus := o.vectorizer.Fit(sentences)
		indices := ranking.Summarize(strategy, corpus, ratio)
		return ranking.Pick(sentences, indices), nil
	})
	if err != nil {
		return nil, fmt.Errorf("rank sentences: %w", err)
	}

	logger.Debug("%s: kept %d of %d sentences (%s)", documentID, len(selected), len(sentences), strategy.Algorithm())

	text := textutil.JoinSentences(selected)
	return &domain.SummaryRecord{
		ID:                uuid.New().String(),
		DocumentID:        documentID,
		Type:              domain.SummaryExtractive,
		Method:            "extractive",
		Algorithm:         strategy.Algorithm(),
		SummaryText:       text,
		Sentences:         selected,
		CompressionRatio:  float64(len(selected)) / float64(len(sentences)),
		SummaryRatio:      ratio,
		OriginalSentences: len(sentences),
		SummarySentences:  len(selected),
		OriginalLength:    utf8.RuneCountInString(textutil.JoinSentences(sentences)),
		SummaryLength:     utf8.RuneCountInString(text),
		CreatedAt:         o.now(),
	}, nil
}

// loadCleaned reads the cleaned-sentences artifact. When it is missing and
// a cleaner is wired, the cleaner runs once and the read is retried once.
func (o *SummaryOrchestrator) loadCleaned(ctx context.Context, documentID string) (*domain.CleanedText, error) {
	cleaned, err := o.readCleaned(ctx, documentID)
	if err == nil || !errors.Is(err, domain.ErrNotFound) || o.cleaner == nil {
		return cleaned, err
	}

	logger.Info("cleaned sentences missing for %s, running cleaner", documentID)
	if _, cerr := o.cleaner.Clean(ctx, documentID, o.cleaningOpts); cerr != nil {
		logger.Warn("cleaning %s failed: %v", documentID, cerr)
		return nil, err
	}
	return o.readCleaned(ctx, documentID)
}

func (o *SummaryOrchestrator) readCleaned(ctx context.Context, documentID string) (*domain.CleanedText, error) {
	art, err := o.store.Read(ctx, documentID, domain.StageCleanedSentences)
	if err != nil {
		return nil, fmt.Errorf("read cleaned sentences for %q: %w", documentID, err)
	}
	var cleaned domain.CleanedText
	if err := art.Decode(&cleaned); err != nil {
		return nil, fmt.Errorf("decode cleaned sentences for %q: %w", documentID, err)
	}
	if cleaned.Text == "" {
		cleaned.Text = textutil.JoinSentences(cleaned.Sentences)
	}
	return &cleaned, nil
}

// persist mirrors the summary text and writes the record in one overwrite.
func (o *SummaryOrchestrator) persist(ctx context.Context, rec *domain.SummaryRecord, mirror string) error {
	stage := rec.Type.Stage()

	path, err := o.store.Mirror(ctx, rec.DocumentID, stage, mirror)
	if err != nil {
		return fmt.Errorf("mirror %s: %w", stage, err)
	}
	rec.FilePath = path

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", stage, err)
	}
	if err := o.store.Write(ctx, rec.DocumentID, stage, data); err != nil {
		return fmt.Errorf("write %s: %w", stage, err)
	}
	return nil
}

func (o *SummaryOrchestrator) checkSummariser() error {
	if o.summariser == nil {
		return domain.ErrLLMUnavailable
	}
	return nil
}

func (o *SummaryOrchestrator) modelName(override string) string {
	if override != "" {
		return override
	}
	if o.summariser == nil {
		return ""
	}
	return o.summariser.ModelName()
}

// validateRatio accepts ratios in (0, 1].
func validateRatio(ratio float64) error {
	if math.IsNaN(ratio) || ratio <= 0 || ratio > 1 {
		return fmt.Errorf("%w: ratio %v outside (0, 1]", domain.ErrInvalidInput, ratio)
	}
	return nil
}

// normaliseLengths fills zero lengths with defaults and rejects
// inconsistent bounds.
func normaliseLengths(opts domain.AbstractiveOptions) (domain.AbstractiveOptions, error) {
	if opts.MaxLength == 0 {
		opts.MaxLength = DefaultMaxLength
	}
	if opts.MinLength == 0 {
		opts.MinLength = min(DefaultMinLength, opts.MaxLength)
	}
	if opts.MaxLength < 0 || opts.MinLength < 0 || opts.MinLength > opts.MaxLength {
		return opts, fmt.Errorf("%w: lengths min=%d max=%d", domain.ErrInvalidInput, opts.MinLength, opts.MaxLength)
	}
	return opts, nil
}
