package simcache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/custodia-labs/digest/internal/ranking"
)

var sentences = []string{"A cat sat.", "A cat sat on a mat.", "Birds fly high."}

func TestFingerprint_Stable(t *testing.T) {
	a := Fingerprint(sentences, 5000)
	b := Fingerprint(append([]string(nil), sentences...), 5000)
	assert.Equal(t, a, b)
}

func TestFingerprint_Distinguishes(t *testing.T) {
	base := Fingerprint([]string{"ab", "c"}, 5000)

	assert.NotEqual(t, base, Fingerprint([]string{"a", "bc"}, 5000), "length prefix separates boundaries")
	assert.NotEqual(t, base, Fingerprint([]string{"ab", "c"}, 10), "vectorizer config is part of the key")
	assert.NotEqual(t, base, Fingerprint([]string{"c", "ab"}, 5000), "order matters")
}

func TestCache_GetAddStats(t *testing.T) {
	c := New(2, time.Minute)
	m := mat.NewDense(1, 1, []float64{1})

	_, ok := c.Get(1)
	assert.False(t, ok)

	c.Add(1, m)
	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Same(t, m, got)

	assert.Equal(t, Stats{Hits: 1, Misses: 1, Entries: 1}, c.Stats())
}

func TestCache_EvictsBySize(t *testing.T) {
	c := New(2, time.Minute)
	for k := uint64(1); k <= 3; k++ {
		c.Add(k, mat.NewDense(1, 1, nil))
	}

	_, ok := c.Get(1)
	assert.False(t, ok, "oldest entry evicted")
	assert.Equal(t, 2, c.Stats().Entries)
}

func TestCache_EvictsByTTL(t *testing.T) {
	c := New(4, 20*time.Millisecond)
	c.Add(1, mat.NewDense(1, 1, nil))

	assert.Eventually(t, func() bool {
		_, ok := c.Get(1)
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestCache_Source_HitIsIdentical(t *testing.T) {
	c := New(0, 0)
	corpus := ranking.NewVectorizer().Fit(sentences)

	calls := 0
	inner := ranking.SimilarityFunc(func(cp *ranking.Corpus) *mat.Dense {
		calls++
		return ranking.SimilarityMatrix(cp)
	})
	src := c.Source(inner, ranking.DefaultMaxFeatures)

	first := src.Similarity(corpus)
	second := src.Similarity(corpus)

	assert.Equal(t, 1, calls)
	assert.Equal(t, ranking.SimilarityMatrix(corpus).RawMatrix().Data, second.RawMatrix().Data)
	assert.Same(t, first, second)
	assert.Equal(t, uint64(1), c.Stats().Hits)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(8, time.Minute)
	corpus := ranking.NewVectorizer().Fit(sentences)
	src := c.Source(ranking.Direct, ranking.DefaultMaxFeatures)

	var wg sync.WaitGroup
	results := make([]*mat.Dense, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = src.Similarity(corpus)
		}()
	}
	wg.Wait()

	for _, m := range results {
		assert.Equal(t, results[0].RawMatrix().Data, m.RawMatrix().Data)
	}
	assert.Equal(t, 1, c.Stats().Entries)
}
