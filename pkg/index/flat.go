// Package index provides an exhaustive in-memory nearest-neighbour index
// over dense vectors.
package index

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
)

var (
	// ErrDimensionMismatch is returned when vector lengths disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrInvalidArgument is returned for out-of-range search parameters.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Hit is a single search result. Position refers to the order in which
// vectors were passed to Build.
type Hit struct {
	Position int
	Distance float64 // squared Euclidean distance to the query
}

// Flat is a brute-force index: every query is compared against every
// stored vector. The zero value is an empty index ready for Build.
type Flat struct {
	vecs [][]float32
	dim  int
}

// NewFlat returns an empty flat index.
func NewFlat() *Flat {
	return &Flat{}
}

// Build replaces the index contents with vectors, keeping their order.
// All vectors must have the same length. An empty input yields an empty
// index.
func (f *Flat) Build(vectors [][]float32) error {
	if len(vectors) == 0 {
		f.vecs, f.dim = nil, 0
		return nil
	}
	dim := len(vectors[0])
	for j := range vectors {
		if len(vectors[j]) != dim {
			return fmt.Errorf("%w: vector %d has %d dimensions, want %d", ErrDimensionMismatch, j, len(vectors[j]), dim)
		}
	}
	f.vecs = append([][]float32(nil), vectors...)
	f.dim = dim
	return nil
}

// Len returns the number of stored vectors.
func (f *Flat) Len() int {
	return len(f.vecs)
}

// Dimension returns the stored vector length, or 0 for an empty index.
func (f *Flat) Dimension() int {
	return f.dim
}

// Search returns the min(k, Len()) stored vectors closest to query,
// ordered by ascending squared Euclidean distance. Equal distances keep
// the lower position first.
func (f *Flat) Search(query []float32, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidArgument, k)
	}
	if len(f.vecs) == 0 {
		return []Hit{}, nil
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", ErrDimensionMismatch, len(query), f.dim)
	}

	k = min(k, len(f.vecs))
	best := make([]Hit, 0, k+1)
	for j, v := range f.vecs {
		d := squaredL2(query, v)
		if math.IsNaN(d) {
			d = math.Inf(1)
		}
		if len(best) == k && d >= best[k-1].Distance {
			continue
		}
		// Insert after any equal distances so earlier positions win ties.
		at := sort.Search(len(best), func(i int) bool { return d < best[i].Distance })
		best = slices.Insert(best, at, Hit{Position: j, Distance: d})
		if len(best) > k {
			best = best[:k]
		}
	}
	return best, nil
}

// SquaredL2 returns the squared Euclidean distance between a and b.
func SquaredL2(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	return squaredL2(a, b), nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
