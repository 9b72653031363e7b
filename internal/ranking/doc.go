// Package ranking is the extractive summarisation core.
//
// A corpus of sentences is vectorised into TF-IDF weights, scored by one of
// three strategies and truncated to the requested size:
//
//   - graph: cosine similarity graph ranked by power iteration (TextRank)
//   - frequency: sum of each sentence's term weights
//   - topic: norm of each sentence's projection onto the leading singular
//     vectors of the term-weight matrix (LSA)
//
// Everything here is deterministic and free of I/O. Matrices are gonum
// dense matrices.
package ranking
