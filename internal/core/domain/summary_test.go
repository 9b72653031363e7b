package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input string
		want  Algorithm
	}{
		{"graph", AlgorithmGraph},
		{"TextRank", AlgorithmGraph},
		{"frequency", AlgorithmFrequency},
		{"tfidf", AlgorithmFrequency},
		{"topic", AlgorithmTopic},
		{" lsa ", AlgorithmTopic},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAlgorithm_Unknown(t *testing.T) {
	_, err := ParseAlgorithm("lexrank")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestParseSummaryType(t *testing.T) {
	got, err := ParseSummaryType("formatted_hybrid")
	require.NoError(t, err)
	assert.Equal(t, SummaryFormattedHybrid, got)

	got, err = ParseSummaryType("Extractive")
	require.NoError(t, err)
	assert.Equal(t, SummaryExtractive, got)

	_, err = ParseSummaryType("bullet")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestSummaryType_Stage(t *testing.T) {
	assert.Equal(t, StageExtractive, SummaryExtractive.Stage())
	assert.Equal(t, StageAbstractive, SummaryAbstractive.Stage())
	assert.Equal(t, StageHybrid, SummaryHybrid.Stage())
	assert.Equal(t, StageFormattedHybrid, SummaryFormattedHybrid.Stage())
}

func TestCompressionRatio(t *testing.T) {
	assert.Equal(t, 0.0, CompressionRatio(0, 10))
	assert.InDelta(t, 0.25, CompressionRatio(400, 100), 1e-12)
}
