// Package store provides an in-memory vector index for the knowledge base.
// The corpus is small (hundreds of entries), so an exhaustive inner-product
// scan over normalized vectors is both exact and fast enough.
package store

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// Match is a single search hit.
type Match struct {
	// ID is the position of the vector in insertion order.
	ID int

	// Score is the inner product of the normalized query and the stored
	// vector, i.e. cosine similarity in [-1, 1].
	Score float32
}

// FlatIndex is an exact inner-product index over L2-normalized vectors.
// Safe for concurrent use.
type FlatIndex struct {
	mu      sync.RWMutex
	dim     int
	vectors [][]float32
}

// NewFlatIndex creates an empty index.
func NewFlatIndex() *FlatIndex {
	return &FlatIndex{}
}

// Add normalizes and appends vectors to the index. All vectors must share
// one dimensionality, fixed by the first vector ever added.
func (idx *FlatIndex) Add(vectors [][]float32) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("empty vector")
		}
		if idx.dim == 0 {
			idx.dim = len(v)
		}
		if len(v) != idx.dim {
			return fmt.Errorf("dimension mismatch: index has %d, vector has %d", idx.dim, len(v))
		}

		normalized := make([]float32, len(v))
		copy(normalized, v)
		L2Normalize(normalized)
		idx.vectors = append(idx.vectors, normalized)
	}

	return nil
}

// Search returns up to topK matches ordered by descending score. Ties are
// broken by ascending ID so results are deterministic.
func (idx *FlatIndex) Search(query []float32, topK int) ([]Match, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if topK <= 0 || len(idx.vectors) == 0 {
		return nil, nil
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("dimension mismatch: index has %d, query has %d", idx.dim, len(query))
	}

	q := make([]float32, len(query))
	copy(q, query)
	L2Normalize(q)

	matches := make([]Match, len(idx.vectors))
	for i, v := range idx.vectors {
		matches[i] = Match{ID: i, Score: dot(q, v)}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].Score != matches[b].Score {
			return matches[a].Score > matches[b].Score
		}
		return matches[a].ID < matches[b].ID
	})

	if topK > len(matches) {
		topK = len(matches)
	}
	return matches[:topK], nil
}

// Len returns the number of indexed vectors.
func (idx *FlatIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Dim returns the vector dimensionality, 0 if the index is empty.
func (idx *FlatIndex) Dim() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dim
}

// L2Normalize scales v in place to unit length. A zero vector is left
// unchanged.
func L2Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
