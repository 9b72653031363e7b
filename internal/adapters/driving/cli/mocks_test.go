package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/digest/internal/core/domain"
)

var testTime = time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)

type mockDocumentService struct {
	ingested []string
	deleted  string
	failOn   string

	// notify, when set, receives every ingested path.
	notify chan string
}

func (m *mockDocumentService) Ingest(_ context.Context, path string) (*domain.Document, error) {
	if path == m.failOn {
		return nil, fmt.Errorf("%w: unsupported file", domain.ErrInvalidInput)
	}
	m.ingested = append(m.ingested, path)
	if m.notify != nil {
		m.notify <- path
	}
	return &domain.Document{ID: "report", URI: path, MIMEType: "text/plain", CharCount: 42}, nil
}

func (m *mockDocumentService) IngestBytes(_ context.Context, name string, _ []byte) (*domain.Document, error) {
	return &domain.Document{ID: name}, nil
}

func (m *mockDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	if id == "missing" {
		return nil, domain.ErrNotFound
	}
	return &domain.Document{
		ID:        id,
		Title:     "Quarterly Report",
		URI:       "/inbox/report.txt",
		MIMEType:  "text/plain",
		Content:   "The cat sat on the mat.",
		CharCount: 23,
		Metadata:  map[string]any{"format": "plaintext"},
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}, nil
}

func (m *mockDocumentService) Stages(_ context.Context, id string) ([]domain.Stage, error) {
	if id == "empty" {
		return nil, nil
	}
	return []domain.Stage{domain.StageExtraction, domain.StageCleanedSentences}, nil
}

func (m *mockDocumentService) Delete(_ context.Context, id string) error {
	if id == "missing" {
		return fmt.Errorf("delete %s: %w", id, domain.ErrNotFound)
	}
	m.deleted = id
	return nil
}

type mockCleaningService struct {
	opts       domain.CleaningOptions
	sampleSize int
}

func (m *mockCleaningService) Clean(_ context.Context, id string, opts domain.CleaningOptions) (*domain.CleanedText, error) {
	m.opts = opts
	return &domain.CleanedText{
		DocumentID: id, Text: "The cat sat on the mat.", SentenceCount: 1, WordCount: 6,
		OriginalLength: 30, CleanedLength: 23,
	}, nil
}

func (m *mockCleaningService) Get(_ context.Context, id string) (*domain.CleanedText, error) {
	return &domain.CleanedText{DocumentID: id, Text: "stored cleaned text"}, nil
}

func (m *mockCleaningService) Preview(
	_ context.Context, id string, opts domain.CleaningOptions, sampleSize int,
) (*domain.CleaningPreview, error) {
	m.opts, m.sampleSize = opts, sampleSize
	return &domain.CleaningPreview{
		DocumentID: id, OriginalSample: "The  cat", CleanedSample: "The cat",
		SampleSentences: []string{"The cat."}, ReductionPercent: 12.5,
	}, nil
}

type mockSummaryService struct {
	extractive  domain.ExtractiveOptions
	abstractive domain.AbstractiveOptions
	hybrid      domain.HybridOptions
	summaryType domain.SummaryType
}

func (m *mockSummaryService) record(id string, t domain.SummaryType) *domain.SummaryRecord {
	return &domain.SummaryRecord{
		DocumentID: id, Type: t, SummaryText: "The cat sat.", OriginalLength: 48,
		SummaryLength: 12, CompressionRatio: 0.25,
	}
}

func (m *mockSummaryService) Extractive(
	_ context.Context, id string, opts domain.ExtractiveOptions,
) (*domain.SummaryRecord, error) {
	m.extractive = opts
	rec := m.record(id, domain.SummaryExtractive)
	rec.Algorithm = opts.Algorithm
	return rec, nil
}

func (m *mockSummaryService) Abstractive(
	_ context.Context, id string, opts domain.AbstractiveOptions,
) (*domain.SummaryRecord, error) {
	m.abstractive = opts
	if !llmAvailable {
		return nil, fmt.Errorf("summarise: %w", domain.ErrLLMUnavailable)
	}
	rec := m.record(id, domain.SummaryAbstractive)
	rec.Model = "llama3.2"
	return rec, nil
}

func (m *mockSummaryService) Hybrid(
	_ context.Context, id string, opts domain.HybridOptions,
) (*domain.SummaryRecord, error) {
	m.hybrid = opts
	return m.record(id, domain.SummaryHybrid), nil
}

func (m *mockSummaryService) FormattedHybrid(
	_ context.Context, id string, opts domain.HybridOptions,
) (*domain.SummaryRecord, error) {
	m.hybrid = opts
	rec := m.record(id, domain.SummaryFormattedHybrid)
	rec.Formatted = &domain.FormattedSummary{
		Title:          "Quarterly Report",
		Objective:      "Summarise the quarter.",
		KeyPoints:      []string{"Revenue grew."},
		SectionSummary: map[string][]string{"Skills": {"Go"}, "Empty": nil},
		SectionOrder:   []string{"Skills", "Empty"},
		FinalAbstract:  "A good quarter.",
	}
	return rec, nil
}

func (m *mockSummaryService) Get(_ context.Context, id string, t domain.SummaryType) (*domain.SummaryRecord, error) {
	m.summaryType = t
	return m.record(id, t), nil
}

type mockTranslationService struct {
	summaryType domain.SummaryType
	language    string
	provider    domain.TranslationProvider
	gets        int
}

func (m *mockTranslationService) TranslateSummary(
	_ context.Context, id string, t domain.SummaryType, language string, provider domain.TranslationProvider,
) (*domain.TranslationRecord, error) {
	m.summaryType, m.language, m.provider = t, language, provider
	return &domain.TranslationRecord{
		DocumentID: id, SummaryType: t, TargetLanguage: language, LanguageCode: "hi",
		Provider: "libre", TranslatedText: "बिल्ली बैठी।",
	}, nil
}

func (m *mockTranslationService) Get(
	_ context.Context, id string, t domain.SummaryType, language string,
) (*domain.TranslationRecord, error) {
	m.gets++
	m.summaryType, m.language = t, language
	return &domain.TranslationRecord{
		DocumentID: id, SummaryType: t, TargetLanguage: language, Provider: "llm", TranslatedText: "stored",
	}, nil
}

func (m *mockTranslationService) Languages() []domain.Language {
	return domain.SupportedLanguages()
}

type mockSettingsService struct {
	settings    domain.AppSettings
	sets        map[string]string
	validateErr error
	llmErr      error

	provider domain.AIProvider
	model    string
	apiKey   string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), sets: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if key == "bogus" {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	m.sets[key] = value
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.provider, m.model, m.apiKey = provider, model, apiKey
	return nil
}

func (m *mockSettingsService) Values() ([]domain.SettingValue, error) {
	return []domain.SettingValue{
		{Key: "llm.provider", Value: m.settings.LLM.Provider.String(), Stored: m.settings.LLM.Provider != ""},
		{Key: "llm.api_key", Value: m.settings.LLM.APIKey, Secret: true, Stored: m.settings.LLM.APIKey != ""},
		{Key: "summary.ratio", Value: fmt.Sprint(m.settings.Summary.Ratio)},
	}, nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateLLMConfig(context.Context) error { return m.llmErr }

// testServices holds the mocks wired by setupTestServices.
type testServices struct {
	document    *mockDocumentService
	cleaning    *mockCleaningService
	summary     *mockSummaryService
	translation *mockTranslationService
	settings    *mockSettingsService
}

// setupTestServices wires mocks into the package globals and returns a
// cleanup that restores the previous values.
func setupTestServices() func() {
	_, cleanup := setupTestServicesWith()
	return cleanup
}

func setupTestServicesWith() (*testServices, func()) {
	oldDocument, oldCleaning, oldSummary := documentService, cleaningService, summaryService
	oldTranslation, oldSettings := translationService, settingsService
	oldFilter, oldLLM := inboxFilter, llmAvailable

	ts := &testServices{
		document:    &mockDocumentService{},
		cleaning:    &mockCleaningService{},
		summary:     &mockSummaryService{},
		translation: &mockTranslationService{},
		settings:    newMockSettingsService(),
	}
	SetServices(&Services{
		Document:     ts.document,
		Cleaning:     ts.cleaning,
		Summary:      ts.summary,
		Translation:  ts.translation,
		Settings:     ts.settings,
		LLMAvailable: true,
	})

	return ts, func() {
		documentService, cleaningService, summaryService = oldDocument, oldCleaning, oldSummary
		translationService, settingsService = oldTranslation, oldSettings
		inboxFilter, llmAvailable = oldFilter, oldLLM
	}
}
