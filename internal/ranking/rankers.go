package ranking

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// FrequencyScores scores each sentence by the sum of its TF-IDF weights.
func FrequencyScores(c *Corpus) []float64 {
	scores := make([]float64, c.Len())
	for i, v := range c.Vectors {
		scores[i] = v.Sum()
	}
	return scores
}

// TopicScores projects sentences onto the k leading singular vectors of
// the term-weight matrix and scores each by the norm of its projection,
// ‖row i of U_k·Σ_k‖. k is capped by the corpus size and the vocabulary
// size; all scores are zero when k < 1 or the factorisation fails.
func TopicScores(c *Corpus, k int) []float64 {
	n := c.Len()
	scores := make([]float64, n)

	a := c.Dense()
	if a == nil {
		return scores
	}
	k = min(k, n, c.Space.Size())
	if k < 1 {
		return scores
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return scores
	}
	values := svd.Values(nil)
	var u mat.Dense
	svd.UTo(&u)

	k = min(k, len(values))
	for i := 0; i < n; i++ {
		var sq float64
		for j := 0; j < k; j++ {
			x := u.At(i, j) * values[j]
			sq += x * x
		}
		scores[i] = math.Sqrt(sq)
	}
	return scores
}
