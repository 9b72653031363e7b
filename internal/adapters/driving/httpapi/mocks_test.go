package httpapi

import (
	"context"

	"github.com/custodia-labs/digest/internal/core/domain"
)

type mockSummaryService struct {
	record *domain.SummaryRecord
	err    error

	documentID  string
	extractive  domain.ExtractiveOptions
	abstractive domain.AbstractiveOptions
	hybrid      domain.HybridOptions
	summaryType domain.SummaryType
	called      string
}

func (m *mockSummaryService) Extractive(
	_ context.Context, id string, opts domain.ExtractiveOptions,
) (*domain.SummaryRecord, error) {
	m.called, m.documentID, m.extractive = "extractive", id, opts
	return m.record, m.err
}

func (m *mockSummaryService) Abstractive(
	_ context.Context, id string, opts domain.AbstractiveOptions,
) (*domain.SummaryRecord, error) {
	m.called, m.documentID, m.abstractive = "abstractive", id, opts
	return m.record, m.err
}

func (m *mockSummaryService) Hybrid(
	_ context.Context, id string, opts domain.HybridOptions,
) (*domain.SummaryRecord, error) {
	m.called, m.documentID, m.hybrid = "hybrid", id, opts
	return m.record, m.err
}

func (m *mockSummaryService) FormattedHybrid(
	_ context.Context, id string, opts domain.HybridOptions,
) (*domain.SummaryRecord, error) {
	m.called, m.documentID, m.hybrid = "formatted", id, opts
	return m.record, m.err
}

func (m *mockSummaryService) Get(
	_ context.Context, id string, t domain.SummaryType,
) (*domain.SummaryRecord, error) {
	m.called, m.documentID, m.summaryType = "get", id, t
	return m.record, m.err
}

type mockCleaningService struct {
	cleaned *domain.CleanedText
	preview *domain.CleaningPreview
	err     error

	opts       domain.CleaningOptions
	sampleSize int
}

func (m *mockCleaningService) Clean(
	_ context.Context, _ string, opts domain.CleaningOptions,
) (*domain.CleanedText, error) {
	m.opts = opts
	return m.cleaned, m.err
}

func (m *mockCleaningService) Get(_ context.Context, _ string) (*domain.CleanedText, error) {
	return m.cleaned, m.err
}

func (m *mockCleaningService) Preview(
	_ context.Context, _ string, opts domain.CleaningOptions, sampleSize int,
) (*domain.CleaningPreview, error) {
	m.opts, m.sampleSize = opts, sampleSize
	return m.preview, m.err
}

type mockDocumentService struct {
	document *domain.Document
	stages   []domain.Stage
	err      error

	uploadName    string
	uploadContent []byte
	deleted       string
}

func (m *mockDocumentService) Ingest(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) IngestBytes(_ context.Context, name string, content []byte) (*domain.Document, error) {
	m.uploadName, m.uploadContent = name, content
	return m.document, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Stages(_ context.Context, _ string) ([]domain.Stage, error) {
	return m.stages, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, id string) error {
	m.deleted = id
	return m.err
}

type mockTranslationService struct {
	record *domain.TranslationRecord
	err    error

	summaryType domain.SummaryType
	language    string
	provider    domain.TranslationProvider
}

func (m *mockTranslationService) TranslateSummary(
	_ context.Context, _ string, t domain.SummaryType, language string, provider domain.TranslationProvider,
) (*domain.TranslationRecord, error) {
	m.summaryType, m.language, m.provider = t, language, provider
	return m.record, m.err
}

func (m *mockTranslationService) Get(
	_ context.Context, _ string, t domain.SummaryType, language string,
) (*domain.TranslationRecord, error) {
	m.summaryType, m.language = t, language
	return m.record, m.err
}

func (m *mockTranslationService) Languages() []domain.Language {
	return domain.SupportedLanguages()
}
