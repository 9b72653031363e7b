package domain

// CleaningOptions controls the cleaning stage.
type CleaningOptions struct {
	// RemoveStopwords drops English stopwords from each sentence.
	RemoveStopwords bool `json:"remove_stopwords"`

	// NormalizeWhitespace collapses runs of spaces and tabs.
	NormalizeWhitespace bool `json:"normalize_whitespace"`

	// RemoveSpecialChars keeps only letters, digits, whitespace and
	// basic punctuation.
	RemoveSpecialChars bool `json:"remove_special_chars"`

	// MinSentenceLength drops sentences shorter than this many characters.
	MinSentenceLength int `json:"min_sentence_length"`
}

// DefaultCleaningOptions returns the options used when none are given.
func DefaultCleaningOptions() CleaningOptions {
	return CleaningOptions{
		RemoveStopwords:     false,
		NormalizeWhitespace: true,
		RemoveSpecialChars:  false,
		MinSentenceLength:   10,
	}
}

// CleanedText is the record persisted by the cleaning stage.
// Sentences is the corpus read by every summariser.
type CleanedText struct {
	DocumentID     string          `json:"document_id"`
	Text           string          `json:"cleaned_text"`
	Sentences      []string        `json:"sentences"`
	OriginalLength int             `json:"original_length"`
	CleanedLength  int             `json:"cleaned_length"`
	WordCount      int             `json:"word_count"`
	SentenceCount  int             `json:"sentence_count"`
	FilePath       string          `json:"file_path,omitempty"`
	Options        CleaningOptions `json:"cleaning_options"`
}

// CleaningPreview compares a document before and after cleaning.
type CleaningPreview struct {
	DocumentID       string   `json:"document_id"`
	OriginalSample   string   `json:"original_sample"`
	CleanedSample    string   `json:"cleaned_sample"`
	SampleSentences  []string `json:"sample_sentences"`
	OriginalLength   int      `json:"original_length"`
	CleanedLength    int      `json:"cleaned_length"`
	ReductionPercent float64  `json:"reduction_percent"`
}
