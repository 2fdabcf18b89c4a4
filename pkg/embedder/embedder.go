package embedder

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrModelUnavailable is returned when the embedding backend cannot be
// set up or fails to produce vectors.
var ErrModelUnavailable = errors.New("embedding model unavailable")

const (
	ProviderOpenAI = "openai"
	ProviderHash   = "hash"
)

// Embedder interface for generating embeddings
type Embedder interface {
	// Embed returns one vector per text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	ModelInfo() string
}

// Config selects and configures a backend.
type Config struct {
	Provider          string
	Model             string
	Dimensions        int
	APIKey            string
	BaseURL           string
	BatchSize         int
	Concurrency       int
	RequestsPerSecond float64
	Timeout           time.Duration
}

// New builds the embedder named by cfg.Provider.
func New(cfg Config, logger *logrus.Logger) (Embedder, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIEmbedder(cfg, logger)
	case ProviderHash:
		return NewHashEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q", ErrModelUnavailable, cfg.Provider)
	}
}

// l2normalize normalizes a vector to unit length
func l2normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
