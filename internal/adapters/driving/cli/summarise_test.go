package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/digest/internal/core/domain"
)

func TestSummariseCmd_Aliases(t *testing.T) {
	assert.Contains(t, summariseCmd.Aliases, "summarize")

	names := make([]string, 0)
	for _, c := range summariseCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"extractive", "abstractive", "hybrid", "formatted", "get"}, names)
}

func TestSummariseExtractive_Defaults(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	out, err := execute(t, "summarise", "extractive", "report")

	require.NoError(t, err)
	assert.InDelta(t, 0.3, ts.summary.extractive.Ratio, 1e-9)
	assert.Equal(t, domain.AlgorithmGraph, ts.summary.extractive.Algorithm)
	assert.True(t, ts.summary.extractive.UseCache)
	assert.Contains(t, out, "The cat sat.")
	assert.Contains(t, out, "[extractive, graph] 48 -> 12 chars (25%)")
}

func TestSummariseExtractive_Flags(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	_, err := execute(t, "summarize", "extractive", "-r", "0.5", "-a", "topic", "--no-cache", "report")

	require.NoError(t, err)
	assert.InDelta(t, 0.5, ts.summary.extractive.Ratio, 1e-9)
	assert.Equal(t, domain.AlgorithmTopic, ts.summary.extractive.Algorithm)
	assert.False(t, ts.summary.extractive.UseCache)
}

func TestSummariseExtractive_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "summarise", "extractive", "--json", "report")

	require.NoError(t, err)
	var rec domain.SummaryRecord
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "report", rec.DocumentID)
	assert.Equal(t, domain.SummaryExtractive, rec.Type)
}

func TestSummariseAbstractive(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	out, err := execute(t, "summarise", "abstractive", "--max-length", "80", "-m", "mistral", "report")

	require.NoError(t, err)
	assert.Equal(t, 80, ts.summary.abstractive.MaxLength)
	assert.Equal(t, 50, ts.summary.abstractive.MinLength)
	assert.Equal(t, "mistral", ts.summary.abstractive.Model)
	assert.Contains(t, out, "llama3.2")
}

func TestSummariseAbstractive_LLMUnavailable(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	llmAvailable = false

	_, err := execute(t, "summarise", "abstractive", "report")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestSummariseHybrid(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	_, err := execute(t, "summarise", "hybrid", "--extractive-ratio", "0.4", "report")

	require.NoError(t, err)
	assert.InDelta(t, 0.4, ts.summary.hybrid.ExtractiveRatio, 1e-9)
	assert.Equal(t, 150, ts.summary.hybrid.MaxLength)
}

func TestSummariseFormatted(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "summarise", "formatted", "report")

	require.NoError(t, err)
	assert.Contains(t, out, "Quarterly Report\n================")
	assert.Contains(t, out, "Objective: Summarise the quarter.")
	assert.Contains(t, out, "  - Revenue grew.")
	assert.Contains(t, out, "Skills:\n  Go")
	assert.NotContains(t, out, "Empty:")
	assert.Contains(t, out, "A good quarter.")
}

func TestSummariseGet(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	_, err := execute(t, "summarise", "get", "--type", "formatted_hybrid", "report")
	require.NoError(t, err)
	assert.Equal(t, domain.SummaryFormattedHybrid, ts.summary.summaryType)

	_, err = execute(t, "summarise", "get", "--type", "poem", "report")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummariseCmds_ErrorWithoutService(t *testing.T) {
	old := summaryService
	summaryService = nil
	defer func() { summaryService = old }()

	for _, sub := range []string{"extractive", "abstractive", "hybrid", "formatted", "get"} {
		_, err := execute(t, "summarise", sub, "report")
		require.Error(t, err, sub)
		assert.Contains(t, err.Error(), "summary service not configured")
	}
}
