// Package simcache caches sentence similarity matrices by corpus content.
//
// Keys are xxhash64 fingerprints over the length-prefixed sentences and
// the vectorizer configuration, so a key is stable across processes.
// Entries are bounded by count and age.
package simcache

import (
	"encoding/binary"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"gonum.org/v1/gonum/mat"

	"github.com/custodia-labs/digest/internal/logger"
	"github.com/custodia-labs/digest/internal/ranking"
)

// Defaults.
const (
	DefaultSize = 128
	DefaultTTL  = time.Hour
)

// Stats reports cache effectiveness.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// Cache maps corpus fingerprints to similarity matrices.
// It is safe for concurrent use. Two callers missing the same key both
// compute and both store; the values are identical.
// Cached matrices are shared and must be treated as read-only.
type Cache struct {
	entries *expirable.LRU[uint64, *mat.Dense]
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// New creates a cache holding at most size matrices for at most ttl.
// Non-positive values fall back to the defaults.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{entries: expirable.NewLRU[uint64, *mat.Dense](size, nil, ttl)}
}

// Fingerprint hashes the corpus content together with the vocabulary bound.
func Fingerprint(sentences []string, maxFeatures int) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString("tfidf/max_features=" + strconv.Itoa(maxFeatures) + "/")

	var n [8]byte
	for _, s := range sentences {
		binary.LittleEndian.PutUint64(n[:], uint64(len(s)))
		_, _ = d.Write(n[:])
		_, _ = d.WriteString(s)
	}
	return d.Sum64()
}

// Get returns the matrix stored under key.
func (c *Cache) Get(key uint64) (*mat.Dense, bool) {
	m, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return m, ok
}

// Add stores m under key.
func (c *Cache) Add(key uint64, m *mat.Dense) {
	c.entries.Add(key, m)
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.entries.Purge()
}

// Stats returns hit, miss and entry counts.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.entries.Len(),
	}
}

// Source wraps inner so similarity matrices are looked up before being
// computed. maxFeatures must match the vectorizer that built the corpus.
func (c *Cache) Source(inner ranking.SimilaritySource, maxFeatures int) ranking.SimilaritySource {
	return ranking.SimilarityFunc(func(corpus *ranking.Corpus) *mat.Dense {
		key := Fingerprint(corpus.Sentences, maxFeatures)
		if m, ok := c.Get(key); ok {
			logger.Debug("similarity cache hit %016x", key)
			return m
		}
		m := inner.Similarity(corpus)
		if m != nil {
			c.Add(key, m)
		}
		return m
	})
}
