package embedder

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbedder_UniformDimension(t *testing.T) {
	e := NewHashEmbedder(64)

	a, err := e.Embed(context.Background(), []string{"Driving without a licence"})
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), []string{"Bicycles require no licence, helmets are advised."})
	require.NoError(t, err)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Len(t, a[0], 64)
	assert.Len(t, b[0], len(a[0]))
	assert.Equal(t, 64, e.Dimension())
}

func TestHashEmbedder_Deterministic(t *testing.T) {
	texts := []string{"Section 3 driving licence", "Section 129 protective headgear"}

	first, err := NewHashEmbedder(128).Embed(context.Background(), texts)
	require.NoError(t, err)
	second, err := NewHashEmbedder(128).Embed(context.Background(), texts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHashEmbedder_CaseAndPunctuationInsensitive(t *testing.T) {
	e := NewHashEmbedder(0)

	vecs, err := e.Embed(context.Background(), []string{"Driving licence", "driving, LICENCE!"})
	require.NoError(t, err)
	assert.Equal(t, vecs[0], vecs[1])
}

func TestHashEmbedder_UnitLength(t *testing.T) {
	vecs, err := NewHashEmbedder(32).Embed(context.Background(), []string{"a moped licence is required"})
	require.NoError(t, err)

	var sum float64
	for _, x := range vecs[0] {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
}

func TestHashEmbedder_NoTokens(t *testing.T) {
	vecs, err := NewHashEmbedder(8).Embed(context.Background(), []string{" ,.- "})
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), vecs[0])
}

func TestHashEmbedder_DefaultDimension(t *testing.T) {
	e := NewHashEmbedder(-1)
	assert.Equal(t, 384, e.Dimension())
	assert.Equal(t, "hash-fnv1a-384", e.ModelInfo())
}

func TestHashEmbedder_EmptyInput(t *testing.T) {
	vecs, err := NewHashEmbedder(8).Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vecs)
}

func TestHashEmbedder_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHashEmbedder(8).Embed(ctx, []string{"x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	e, err := New(Config{Provider: ProviderHash, Dimensions: 16}, nil)
	require.NoError(t, err)
	assert.Equal(t, 16, e.Dimension())

	_, err = New(Config{Provider: "sentence-transformers"}, nil)
	assert.ErrorIs(t, err, ErrModelUnavailable)

	_, err = New(Config{Provider: ProviderOpenAI}, nil)
	assert.ErrorIs(t, err, ErrModelUnavailable)
}
