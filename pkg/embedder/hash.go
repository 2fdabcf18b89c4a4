package embedder

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

const defaultHashDimension = 384

// HashEmbedder maps text to vectors by feature hashing of lower-cased
// word tokens. It needs no model or network and is fully deterministic,
// which makes it suitable for tests and offline runs. Texts sharing
// words end up close; it has no notion of synonyms.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a hash embedder with dimension buckets. A
// non-positive dimension selects 384.
func NewHashEmbedder(dimension int) *HashEmbedder {
	if dimension <= 0 {
		dimension = defaultHashDimension
	}
	return &HashEmbedder{dim: dimension}
}

// Embed hashes each text into a unit vector.
func (e *HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		embeddings[i] = e.embed(text)
	}
	return embeddings, nil
}

func (e *HashEmbedder) embed(text string) []float32 {
	vec := make([]float32, e.dim)
	for _, tok := range tokenize(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()

		// Top bit picks the sign so colliding tokens tend to cancel
		// instead of piling up.
		sign := float32(1)
		if sum>>63 == 1 {
			sign = -1
		}
		vec[sum%uint64(e.dim)] += sign
	}
	l2normalize(vec)
	return vec
}

// Dimension returns the embedding dimension
func (e *HashEmbedder) Dimension() int {
	return e.dim
}

// ModelInfo returns model information
func (e *HashEmbedder) ModelInfo() string {
	return fmt.Sprintf("hash-fnv1a-%d", e.dim)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
