package ranking

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// Strategy scores every sentence of a corpus. The set of strategies is
// closed: graph, frequency and topic.
type Strategy interface {
	// Algorithm returns the algorithm tag recorded with the summary.
	Algorithm() domain.Algorithm

	// Score returns one score per sentence. target is the number of
	// sentences the caller will keep.
	Score(c *Corpus, target int) []float64

	strategy()
}

// SimilaritySource supplies the similarity matrix for a corpus.
// The orchestrator plugs its cache in here.
type SimilaritySource interface {
	Similarity(c *Corpus) *mat.Dense
}

// SimilarityFunc adapts a function to SimilaritySource.
type SimilarityFunc func(c *Corpus) *mat.Dense

// Similarity calls f(c).
func (f SimilarityFunc) Similarity(c *Corpus) *mat.Dense {
	return f(c)
}

// Direct computes the similarity matrix without caching.
var Direct SimilaritySource = SimilarityFunc(SimilarityMatrix)

// Graph ranks by power iteration over the similarity graph.
type Graph struct {
	Source   SimilaritySource
	PageRank PageRankOptions

	// LastResult holds the iteration statistics of the latest Score call.
	LastResult PageRankResult
}

// Algorithm returns domain.AlgorithmGraph.
func (g *Graph) Algorithm() domain.Algorithm { return domain.AlgorithmGraph }

// Score ranks sentences by graph centrality.
func (g *Graph) Score(c *Corpus, _ int) []float64 {
	src := g.Source
	if src == nil {
		src = Direct
	}
	g.LastResult = PageRank(src.Similarity(c), g.PageRank)
	if g.LastResult.Scores == nil {
		return make([]float64, c.Len())
	}
	return g.LastResult.Scores
}

func (*Graph) strategy() {}

// Frequency ranks by term weight sum.
type Frequency struct{}

// Algorithm returns domain.AlgorithmFrequency.
func (Frequency) Algorithm() domain.Algorithm { return domain.AlgorithmFrequency }

// Score ranks sentences by their TF-IDF weight sum.
func (Frequency) Score(c *Corpus, _ int) []float64 {
	return FrequencyScores(c)
}

func (Frequency) strategy() {}

// Topic ranks by latent topic norm.
type Topic struct{}

// Algorithm returns domain.AlgorithmTopic.
func (Topic) Algorithm() domain.Algorithm { return domain.AlgorithmTopic }

// Score ranks sentences using target topic dimensions.
func (Topic) Score(c *Corpus, target int) []float64 {
	return TopicScores(c, target)
}

func (Topic) strategy() {}

// NewStrategy returns the strategy for an algorithm. src and opts only
// apply to the graph strategy.
func NewStrategy(alg domain.Algorithm, src SimilaritySource, opts PageRankOptions) (Strategy, error) {
	switch alg {
	case domain.AlgorithmGraph:
		return &Graph{Source: src, PageRank: opts}, nil
	case domain.AlgorithmFrequency:
		return Frequency{}, nil
	case domain.AlgorithmTopic:
		return Topic{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported algorithm %q", domain.ErrInvalidInput, alg)
	}
}

// Summarize scores the corpus with s and returns the selected indices.
func Summarize(s Strategy, c *Corpus, ratio float64) []int {
	k := TargetCount(c.Len(), ratio)
	return Select(s.Score(c, k), k)
}
