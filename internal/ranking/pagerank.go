package ranking

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// PageRank defaults.
const (
	DefaultDamping       = 0.85
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 100
)

// PageRankOptions configures power iteration.
type PageRankOptions struct {
	Damping       float64
	Tolerance     float64
	MaxIterations int
}

// DefaultPageRankOptions returns damping 0.85, tolerance 1e-6 and
// 100 iterations.
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		Damping:       DefaultDamping,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

// PageRankResult is the outcome of power iteration.
type PageRankResult struct {
	Scores     []float64
	Iterations int
	Converged  bool
}

// PageRank ranks the nodes of a row-stochastic n×n matrix.
// Scores start at 1/n and are updated as (1-d)/n + d·Mᵀ·s until every
// component moves less than the tolerance or MaxIterations is reached.
// The last computed vector is returned either way.
func PageRank(m *mat.Dense, opts PageRankOptions) PageRankResult {
	if m == nil {
		return PageRankResult{Converged: true}
	}
	n, _ := m.Dims()
	if n == 0 {
		return PageRankResult{Converged: true}
	}

	d := opts.Damping
	base := (1 - d) / float64(n)

	scores := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		scores.SetVec(i, 1/float64(n))
	}
	next := mat.NewVecDense(n, nil)

	res := PageRankResult{}
	for res.Iterations < opts.MaxIterations {
		next.MulVec(m.T(), scores)
		next.ScaleVec(d, next)
		converged := true
		for i := 0; i < n; i++ {
			v := base + next.AtVec(i)
			next.SetVec(i, v)
			if math.Abs(v-scores.AtVec(i)) >= opts.Tolerance {
				converged = false
			}
		}
		res.Iterations++
		scores.CopyVec(next)
		if converged {
			res.Converged = true
			break
		}
	}

	res.Scores = make([]float64, n)
	for i := range res.Scores {
		res.Scores[i] = scores.AtVec(i)
	}
	return res
}
