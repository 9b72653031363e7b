package domain

import (
	"fmt"
	"strings"
	"time"
)

// SummaryType identifies which summariser produced a record.
type SummaryType string

// Summary types.
const (
	// SummaryExtractive selects sentences from the corpus.
	SummaryExtractive SummaryType = "extractive"

	// SummaryAbstractive rewrites the corpus through an external model.
	SummaryAbstractive SummaryType = "abstractive"

	// SummaryHybrid rewrites an extractive summary through an external model.
	SummaryHybrid SummaryType = "hybrid"

	// SummaryFormattedHybrid produces a structured summary with title,
	// objective, key points and sections.
	SummaryFormattedHybrid SummaryType = "formatted-hybrid"
)

// ParseSummaryType parses a summary type, accepting underscores for dashes.
func ParseSummaryType(s string) (SummaryType, error) {
	t := SummaryType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown summary type %q", ErrInvalidInput, s)
	}
	return t, nil
}

// IsValid returns true if the summary type is recognised.
func (t SummaryType) IsValid() bool {
	switch t {
	case SummaryExtractive, SummaryAbstractive, SummaryHybrid, SummaryFormattedHybrid:
		return true
	default:
		return false
	}
}

// Stage returns the artifact stage that holds summaries of this type.
func (t SummaryType) Stage() Stage {
	switch t {
	case SummaryExtractive:
		return StageExtractive
	case SummaryAbstractive:
		return StageAbstractive
	case SummaryHybrid:
		return StageHybrid
	case SummaryFormattedHybrid:
		return StageFormattedHybrid
	default:
		return Stage(string(t) + "-summary")
	}
}

// String returns the string representation.
func (t SummaryType) String() string {
	return string(t)
}

// AllSummaryTypes returns every summary type.
func AllSummaryTypes() []SummaryType {
	return []SummaryType{
		SummaryExtractive,
		SummaryAbstractive,
		SummaryHybrid,
		SummaryFormattedHybrid,
	}
}

// Algorithm names an extractive ranking strategy.
type Algorithm string

// Ranking algorithms.
const (
	// AlgorithmGraph ranks by power-iteration centrality over a
	// sentence similarity graph.
	AlgorithmGraph Algorithm = "graph"

	// AlgorithmFrequency ranks by the sum of term weights.
	AlgorithmFrequency Algorithm = "frequency"

	// AlgorithmTopic ranks by the norm of a sentence's latent topic vector.
	AlgorithmTopic Algorithm = "topic"
)

// ParseAlgorithm parses an algorithm tag. The historical names
// "textrank", "tfidf" and "lsa" are accepted as aliases.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "graph", "textrank":
		return AlgorithmGraph, nil
	case "frequency", "tfidf":
		return AlgorithmFrequency, nil
	case "topic", "lsa":
		return AlgorithmTopic, nil
	default:
		return "", fmt.Errorf("%w: unsupported algorithm %q", ErrInvalidInput, s)
	}
}

// String returns the string representation.
func (a Algorithm) String() string {
	return string(a)
}

// Description returns a human-readable description of the algorithm.
func (a Algorithm) Description() string {
	switch a {
	case AlgorithmGraph:
		return "Graph centrality (TextRank)"
	case AlgorithmFrequency:
		return "Term weight sum (TF-IDF)"
	case AlgorithmTopic:
		return "Latent topic norm (LSA)"
	default:
		return unknownDescription
	}
}

// AllAlgorithms returns every ranking algorithm.
func AllAlgorithms() []Algorithm {
	return []Algorithm{AlgorithmGraph, AlgorithmFrequency, AlgorithmTopic}
}

// SummaryRecord is the persisted result of one summarisation run.
// Fields that do not apply to a summary type are left zero.
type SummaryRecord struct {
	ID                string            `json:"id"`
	DocumentID        string            `json:"document_id"`
	Type              SummaryType       `json:"summary_type"`
	Method            string            `json:"method"`
	Algorithm         Algorithm         `json:"algorithm,omitempty"`
	SummaryText       string            `json:"summary_text"`
	Sentences         []string          `json:"sentences,omitempty"`
	CompressionRatio  float64           `json:"compression_ratio"`
	SummaryRatio      float64           `json:"summary_ratio,omitempty"`
	ExtractiveRatio   float64           `json:"extractive_ratio,omitempty"`
	OriginalSentences int               `json:"original_sentences,omitempty"`
	SummarySentences  int               `json:"summary_sentences,omitempty"`
	OriginalLength    int               `json:"original_length"`
	SummaryLength     int               `json:"summary_length"`
	MaxLength         int               `json:"max_length,omitempty"`
	MinLength         int               `json:"min_length,omitempty"`
	Model             string            `json:"model,omitempty"`
	UseCache          bool              `json:"use_cache,omitempty"`
	FilePath          string            `json:"file_path,omitempty"`
	Formatted         *FormattedSummary `json:"formatted,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// FormattedSummary is the structured part of a formatted hybrid summary.
type FormattedSummary struct {
	Title          string              `json:"title"`
	Objective      string              `json:"objective"`
	KeyPoints      []string            `json:"key_points"`
	SectionSummary map[string][]string `json:"section_summary"`
	SectionOrder   []string            `json:"section_order"`
	FinalAbstract  string              `json:"final_abstract"`
}

// Placeholders used when a formatted summary heuristic finds nothing.
const (
	UntitledPlaceholder    = "Untitled"
	NoObjectivePlaceholder = "Objective not detected"
)

// CompressionRatio returns summary length over original length,
// or 0 when the original is empty.
func CompressionRatio(originalLength, summaryLength int) float64 {
	if originalLength == 0 {
		return 0
	}
	return float64(summaryLength) / float64(originalLength)
}

// ExtractiveOptions configures an extractive summary.
type ExtractiveOptions struct {
	// Ratio is the fraction of sentences to keep, in (0, 1].
	Ratio float64

	// Algorithm selects the ranking strategy.
	Algorithm Algorithm

	// UseCache enables the similarity matrix cache (graph only).
	UseCache bool
}

// AbstractiveOptions configures an abstractive summary.
type AbstractiveOptions struct {
	// MaxLength bounds the summariser output per chunk.
	MaxLength int

	// MinLength is the minimum summariser output per chunk.
	MinLength int

	// Model overrides the configured model when non-empty.
	Model string
}

// HybridOptions configures hybrid and formatted hybrid summaries.
type HybridOptions struct {
	// ExtractiveRatio is the ratio for the extractive pass.
	ExtractiveRatio float64

	// MaxLength bounds the summariser output per chunk.
	MaxLength int

	// MinLength is the minimum summariser output per chunk.
	MinLength int
}
