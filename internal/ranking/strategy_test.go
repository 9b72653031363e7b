package ranking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/custodia-labs/digest/internal/core/domain"
)

var catCorpus = []string{
	"A cat sat.",
	"A cat sat on a mat.",
	"Birds fly high.",
	"Dogs bark loudly.",
	"A cat and a dog played.",
}

func TestGraph_CatSentencesOutrankUnrelated(t *testing.T) {
	c := NewVectorizer().Fit(catCorpus)
	g := &Graph{PageRank: DefaultPageRankOptions()}

	selected := Summarize(g, c, 0.4)

	require.Len(t, selected, 2)
	assert.ElementsMatch(t, []int{0, 1}, selected)
	assert.NotContains(t, selected, 2)
	assert.True(t, g.LastResult.Converged)
}

func TestGraph_UsesSimilaritySource(t *testing.T) {
	c := NewVectorizer().Fit(catCorpus)
	calls := 0
	src := SimilarityFunc(func(c *Corpus) *mat.Dense {
		calls++
		return SimilarityMatrix(c)
	})

	g := &Graph{Source: src, PageRank: DefaultPageRankOptions()}
	direct := &Graph{PageRank: DefaultPageRankOptions()}

	assert.Equal(t, direct.Score(c, 2), g.Score(c, 2))
	assert.Equal(t, 1, calls)
}

func TestFrequency_Score(t *testing.T) {
	c := NewVectorizer().Fit([]string{"Rare words appear here.", "Same.", "Same."})
	scores := Frequency{}.Score(c, 1)

	require.Len(t, scores, 3)
	assert.Equal(t, scores[1], scores[2])
	assert.Greater(t, scores[0], scores[1])
	// equal scores resolve to the lower index
	assert.Equal(t, []int{0, 1, 2}, Select(scores, 3))
}

func TestTopic_Score(t *testing.T) {
	c := NewVectorizer().Fit(catCorpus)
	scores := Topic{}.Score(c, 2)

	require.Len(t, scores, len(catCorpus))
	for _, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0)
	}
	assert.Greater(t, sum(scores), 0.0)
}

func TestTopicScores_Degenerate(t *testing.T) {
	c := NewVectorizer().Fit([]string{"It is what it is."})
	assert.Equal(t, []float64{0}, TopicScores(c, 1))

	c = NewVectorizer().Fit(catCorpus)
	assert.Equal(t, make([]float64, len(catCorpus)), TopicScores(c, 0))
}

func TestTopicScores_FullRankEqualsRowNorms(t *testing.T) {
	// With k = rank, ‖U_k Σ_k row‖ equals the row norm of the input,
	// which is 1 for every non-empty normalised vector.
	c := NewVectorizer().Fit([]string{"alpha beta", "gamma delta", "alpha gamma"})
	scores := TopicScores(c, 3)
	for _, s := range scores {
		assert.InDelta(t, 1.0, s, 1e-9)
	}
}

func TestNewStrategy(t *testing.T) {
	for _, alg := range domain.AllAlgorithms() {
		s, err := NewStrategy(alg, nil, DefaultPageRankOptions())
		require.NoError(t, err)
		assert.Equal(t, alg, s.Algorithm())
	}

	_, err := NewStrategy("lexrank", nil, DefaultPageRankOptions())
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSummarize_SingleSentence(t *testing.T) {
	c := NewVectorizer().Fit([]string{"Just one."})
	for _, alg := range domain.AllAlgorithms() {
		s, err := NewStrategy(alg, nil, DefaultPageRankOptions())
		require.NoError(t, err)
		assert.Equal(t, []int{0}, Summarize(s, c, 0.5), alg)
	}
}
