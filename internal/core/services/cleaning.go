package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
	"github.com/custodia-labs/digest/internal/core/ports/driving"
	"github.com/custodia-labs/digest/internal/logger"
	"github.com/custodia-labs/digest/internal/postprocessors"
	"github.com/custodia-labs/digest/internal/textutil"
)

// Ensure CleaningService implements the interface.
var _ driving.CleaningService = (*CleaningService)(nil)

// DefaultPreviewSize is the number of characters cleaned by Preview.
const DefaultPreviewSize = 500

// previewSentences bounds the sentences returned by Preview.
const previewSentences = 5

// CleaningService turns the extraction artifact into the sentence corpus.
type CleaningService struct {
	store      driven.ArtifactStore
	processors *postprocessors.Registry
}

// NewCleaningService creates a cleaning service. A nil registry uses the
// default processors.
func NewCleaningService(store driven.ArtifactStore, processors *postprocessors.Registry) *CleaningService {
	if processors == nil {
		processors = postprocessors.NewRegistry()
		postprocessors.RegisterDefaults(processors)
	}
	return &CleaningService{store: store, processors: processors}
}

// Clean reads the extracted text, cleans it and writes the
// cleaned-sentences artifact with a flat-text mirror.
func (s *CleaningService) Clean(
	ctx context.Context, documentID string, opts domain.CleaningOptions,
) (*domain.CleanedText, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	doc, err := s.readDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	cleaned, err := s.clean(ctx, doc.Content, opts)
	if err != nil {
		return nil, err
	}
	cleaned.DocumentID = documentID

	path, err := s.store.Mirror(ctx, documentID, domain.StageCleanedSentences, cleaned.Text)
	if err != nil {
		return nil, fmt.Errorf("mirror cleaned text: %w", err)
	}
	cleaned.FilePath = path

	data, err := json.Marshal(cleaned)
	if err != nil {
		return nil, fmt.Errorf("encode cleaned text: %w", err)
	}
	if err := s.store.Write(ctx, documentID, domain.StageCleanedSentences, data); err != nil {
		return nil, fmt.Errorf("write cleaned text: %w", err)
	}

	logger.Info("cleaned %s: %d sentences, %d -> %d chars",
		documentID, cleaned.SentenceCount, cleaned.OriginalLength, cleaned.CleanedLength)
	return cleaned, nil
}

// Get returns the persisted cleaned text.
func (s *CleaningService) Get(ctx context.Context, documentID string) (*domain.CleanedText, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	art, err := s.store.Read(ctx, documentID, domain.StageCleanedSentences)
	if err != nil {
		return nil, fmt.Errorf("get cleaned text for %q: %w", documentID, err)
	}
	var cleaned domain.CleanedText
	if err := art.Decode(&cleaned); err != nil {
		return nil, fmt.Errorf("decode cleaned text for %q: %w", documentID, err)
	}
	return &cleaned, nil
}

// Preview cleans the first sampleSize characters of a document without
// persisting anything.
func (s *CleaningService) Preview(
	ctx context.Context, documentID string, opts domain.CleaningOptions, sampleSize int,
) (*domain.CleaningPreview, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if sampleSize < 0 {
		return nil, fmt.Errorf("%w: sample size %d", domain.ErrInvalidInput, sampleSize)
	}
	if sampleSize == 0 {
		sampleSize = DefaultPreviewSize
	}

	doc, err := s.readDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	sample := truncateRunes(doc.Content, sampleSize)

	cleaned, err := s.clean(ctx, sample, opts)
	if err != nil {
		return nil, err
	}

	originalLength := utf8.RuneCountInString(sample)
	return &domain.CleaningPreview{
		DocumentID:       documentID,
		OriginalSample:   sample,
		CleanedSample:    cleaned.Text,
		SampleSentences:  cleaned.Sentences[:min(previewSentences, len(cleaned.Sentences))],
		OriginalLength:   originalLength,
		CleanedLength:    cleaned.CleanedLength,
		ReductionPercent: reductionPercent(originalLength, cleaned.CleanedLength),
	}, nil
}

// clean runs the character-level steps and then the sentence pipeline.
func (s *CleaningService) clean(ctx context.Context, text string, opts domain.CleaningOptions) (*domain.CleanedText, error) {
	if opts.MinSentenceLength < 0 {
		return nil, fmt.Errorf("%w: min sentence length %d", domain.ErrInvalidInput, opts.MinSentenceLength)
	}

	out := norm.NFKC.String(text)
	if opts.NormalizeWhitespace {
		out = textutil.NormalizeWhitespace(out)
	}
	if opts.RemoveSpecialChars {
		out = textutil.RemoveSpecialChars(out)
	}

	pipeline, err := postprocessors.BuildPipeline(s.processors, domain.PipelineConfigFor(opts))
	if err != nil {
		return nil, err
	}
	sentences, err := pipeline.Process(ctx, &domain.Document{Content: out})
	if err != nil {
		return nil, fmt.Errorf("clean sentences: %w", err)
	}

	texts := domain.SentenceTexts(sentences)
	joined := textutil.JoinSentences(texts)
	return &domain.CleanedText{
		Text:           joined,
		Sentences:      texts,
		OriginalLength: utf8.RuneCountInString(text),
		CleanedLength:  utf8.RuneCountInString(joined),
		WordCount:      textutil.WordCount(joined),
		SentenceCount:  len(texts),
		Options:        opts,
	}, nil
}

func (s *CleaningService) readDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	art, err := s.store.Read(ctx, documentID, domain.StageExtraction)
	if err != nil {
		return nil, fmt.Errorf("read extracted text for %q: %w", documentID, err)
	}
	var doc domain.Document
	if err := art.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode extracted text for %q: %w", documentID, err)
	}
	return &doc, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// reductionPercent is rounded to two decimals.
func reductionPercent(original, cleaned int) float64 {
	if original == 0 {
		return 0
	}
	pct := (1 - float64(cleaned)/float64(original)) * 100
	return math.Round(pct*100) / 100
}

