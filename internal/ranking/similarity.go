package ranking

import "gonum.org/v1/gonum/mat"

// rowEpsilon keeps all-zero rows at zero instead of dividing by zero.
const rowEpsilon = 1e-8

// SimilarityMatrix builds the row-normalised cosine similarity matrix of
// the corpus. The diagonal is included. Similarity with a zero vector is 0,
// so an empty sentence yields an all-zero row. Returns nil for an empty
// corpus.
func SimilarityMatrix(c *Corpus) *mat.Dense {
	n := c.Len()
	if n == 0 {
		return nil
	}

	norms := make([]float64, n)
	for i, v := range c.Vectors {
		norms[i] = v.Norm()
	}

	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var sim float64
			if norms[i] > 0 && norms[j] > 0 {
				sim = c.Vectors[i].Dot(c.Vectors[j]) / (norms[i] * norms[j])
			}
			m.Set(i, j, sim)
			m.Set(j, i, sim)
		}
	}

	for i := 0; i < n; i++ {
		row := m.RawRowView(i)
		var sum float64
		for _, x := range row {
			sum += x
		}
		for j := range row {
			row[j] /= sum + rowEpsilon
		}
	}
	return m
}
