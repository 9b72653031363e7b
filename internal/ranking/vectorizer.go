package ranking

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/custodia-labs/digest/internal/textutil"
)

// DefaultMaxFeatures bounds the vocabulary size.
const DefaultMaxFeatures = 5000

// Space maps vocabulary terms to vector dimensions.
type Space struct {
	// Terms lists the vocabulary in dimension order.
	Terms []string

	// Index maps a term to its dimension.
	Index map[string]int

	// IDF holds the smoothed inverse document frequency per dimension.
	IDF []float64
}

// Size returns the number of dimensions.
func (s *Space) Size() int {
	return len(s.Terms)
}

// SparseVector is a sentence's non-zero term weights, ordered by dimension.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Sum returns the sum of the weights.
func (v SparseVector) Sum() float64 {
	var total float64
	for _, w := range v.Values {
		total += w
	}
	return total
}

// Norm returns the Euclidean norm.
func (v SparseVector) Norm() float64 {
	var sq float64
	for _, w := range v.Values {
		sq += w * w
	}
	return math.Sqrt(sq)
}

// Dot returns the inner product of two vectors.
func (v SparseVector) Dot(o SparseVector) float64 {
	var (
		total float64
		i, j  int
	)
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			total += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return total
}

// Corpus is a vectorised sentence corpus.
type Corpus struct {
	Sentences []string
	Space     *Space
	Vectors   []SparseVector
}

// Len returns the number of sentences.
func (c *Corpus) Len() int {
	return len(c.Sentences)
}

// Dense returns the n×V term-weight matrix, or nil when either
// dimension is zero.
func (c *Corpus) Dense() *mat.Dense {
	n, v := len(c.Vectors), c.Space.Size()
	if n == 0 || v == 0 {
		return nil
	}
	m := mat.NewDense(n, v, nil)
	for i, vec := range c.Vectors {
		for k, idx := range vec.Indices {
			m.Set(i, idx, vec.Values[k])
		}
	}
	return m
}

// Vectorizer builds TF-IDF sentence vectors.
type Vectorizer struct {
	maxFeatures int
	stopwords   map[string]struct{}
}

// VectorizerOption configures a Vectorizer.
type VectorizerOption func(*Vectorizer)

// WithMaxFeatures bounds the vocabulary to the n most frequent terms.
func WithMaxFeatures(n int) VectorizerOption {
	return func(v *Vectorizer) {
		if n > 0 {
			v.maxFeatures = n
		}
	}
}

// WithStopwords replaces the English stopword set.
func WithStopwords(words map[string]struct{}) VectorizerOption {
	return func(v *Vectorizer) {
		v.stopwords = words
	}
}

// NewVectorizer creates a vectorizer with English stopwords and a
// vocabulary bound of DefaultMaxFeatures.
func NewVectorizer(opts ...VectorizerOption) *Vectorizer {
	v := &Vectorizer{
		maxFeatures: DefaultMaxFeatures,
		stopwords:   textutil.Stopwords(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// MaxFeatures returns the vocabulary bound.
func (v *Vectorizer) MaxFeatures() int {
	return v.maxFeatures
}

// Fit builds the term space for sentences and vectorises them.
// Stopwords never receive a dimension. Weights are raw term counts times
// the smoothed idf ln((1+n)/(1+df))+1, L2-normalised per sentence.
// Empty and single-sentence corpora yield degenerate vectors.
func (v *Vectorizer) Fit(sentences []string) *Corpus {
	counts := make([]map[string]int, len(sentences))
	total := make(map[string]int)
	df := make(map[string]int)

	for i, s := range sentences {
		counts[i] = make(map[string]int)
		for _, tok := range textutil.Tokenize(s) {
			if _, stop := v.stopwords[tok]; stop {
				continue
			}
			if counts[i][tok] == 0 {
				df[tok]++
			}
			counts[i][tok]++
			total[tok]++
		}
	}

	space := v.buildSpace(total, df, len(sentences))

	vectors := make([]SparseVector, len(sentences))
	for i, c := range counts {
		vectors[i] = weigh(c, space)
	}

	return &Corpus{Sentences: sentences, Space: space, Vectors: vectors}
}

// buildSpace keeps the maxFeatures most frequent terms (ties by term) and
// orders dimensions alphabetically.
func (v *Vectorizer) buildSpace(total, df map[string]int, n int) *Space {
	terms := make([]string, 0, len(total))
	for t := range total {
		terms = append(terms, t)
	}

	if len(terms) > v.maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if total[terms[i]] != total[terms[j]] {
				return total[terms[i]] > total[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.maxFeatures]
	}
	sort.Strings(terms)

	space := &Space{
		Terms: terms,
		Index: make(map[string]int, len(terms)),
		IDF:   make([]float64, len(terms)),
	}
	for i, t := range terms {
		space.Index[t] = i
		space.IDF[i] = math.Log(float64(1+n)/float64(1+df[t])) + 1
	}
	return space
}

func weigh(counts map[string]int, space *Space) SparseVector {
	var vec SparseVector
	for t := range counts {
		idx, ok := space.Index[t]
		if !ok {
			continue
		}
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)

	vec.Values = make([]float64, len(vec.Indices))
	for k, idx := range vec.Indices {
		vec.Values[k] = float64(counts[space.Terms[idx]]) * space.IDF[idx]
	}

	if norm := vec.Norm(); norm > 0 {
		for k := range vec.Values {
			vec.Values[k] /= norm
		}
	}
	return vec
}
