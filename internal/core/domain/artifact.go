package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Stage names one persisted pipeline step for a document.
type Stage string

// Pipeline stages.
const (
	// StageExtraction holds the text extracted from the uploaded file.
	StageExtraction Stage = "extraction"

	// StageCleanedSentences holds the cleaned text and its sentence corpus.
	StageCleanedSentences Stage = "cleaned-sentences"

	// StageExtractive holds the latest extractive summary.
	StageExtractive Stage = "extractive-summary"

	// StageAbstractive holds the latest abstractive summary.
	StageAbstractive Stage = "abstractive-summary"

	// StageHybrid holds the latest hybrid summary.
	StageHybrid Stage = "hybrid-summary"

	// StageFormattedHybrid holds the latest formatted hybrid summary.
	StageFormattedHybrid Stage = "formatted-hybrid-summary"
)

// IsValid returns true if the stage is a fixed stage or a translation stage.
func (s Stage) IsValid() bool {
	switch s {
	case StageExtraction, StageCleanedSentences, StageExtractive,
		StageAbstractive, StageHybrid, StageFormattedHybrid:
		return true
	default:
		_, _, ok := s.TranslationOf()
		return ok
	}
}

// String returns the string representation.
func (s Stage) String() string {
	return string(s)
}

// TranslationStage names the stage holding a translation of a summary,
// e.g. "hybrid-summary-hi".
func TranslationStage(t SummaryType, languageCode string) Stage {
	return Stage(string(t.Stage()) + "-" + languageCode)
}

// TranslationOf splits a translation stage into its summary type and
// language code.
func (s Stage) TranslationOf() (SummaryType, string, bool) {
	for _, t := range AllSummaryTypes() {
		prefix := string(t.Stage()) + "-"
		if code, ok := strings.CutPrefix(string(s), prefix); ok && code != "" && !strings.Contains(code, "-") {
			return t, code, true
		}
	}
	return "", "", false
}

// Artifact is the persisted output of one stage for one document.
// Writes overwrite the previous artifact in full.
type Artifact struct {
	// DocumentID is the owning document.
	DocumentID string

	// Stage is the pipeline step that produced the artifact.
	Stage Stage

	// Data is the JSON record.
	Data json.RawMessage

	// UpdatedAt is when the artifact was last written.
	UpdatedAt time.Time
}

// Decode unmarshals the artifact's record into v.
func (a *Artifact) Decode(v any) error {
	return json.Unmarshal(a.Data, v)
}
