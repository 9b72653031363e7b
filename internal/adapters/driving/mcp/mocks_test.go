package mcp

import (
	"context"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// mockSummaryService is a mock implementation of driving.SummaryService.
type mockSummaryService struct {
	record *domain.SummaryRecord
	err    error

	// captured arguments of the last call
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

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	document *domain.Document
	stages   []domain.Stage
	err      error
}

func (m *mockDocumentService) Ingest(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) IngestBytes(_ context.Context, _ string, _ []byte) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Stages(_ context.Context, _ string) ([]domain.Stage, error) {
	return m.stages, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}
