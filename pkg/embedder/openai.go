package embedder

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultOpenAIModel = string(openai.SmallEmbedding3)
	defaultBatchSize   = 64
	defaultConcurrency = 4
	defaultTimeout     = 30 * time.Second
)

// native output sizes, used when no explicit dimension is requested
var openAIDimensions = map[string]int{
	string(openai.AdaEmbeddingV2):  1536,
	string(openai.SmallEmbedding3): 1536,
	string(openai.LargeEmbedding3): 3072,
}

// OpenAIEmbedder uses OpenAI API for embeddings
type OpenAIEmbedder struct {
	client      *openai.Client
	model       string
	dim         int
	requestDim  int
	batchSize   int
	concurrency int
	timeout     time.Duration
	limiter     *rate.Limiter
	logger      *logrus.Logger
}

// NewOpenAIEmbedder creates an OpenAI embedder. cfg.BaseURL may point at
// any OpenAI-compatible embeddings server.
func NewOpenAIEmbedder(cfg Config, logger *logrus.Logger) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", ErrModelUnavailable)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	dim := cfg.Dimensions
	if dim <= 0 {
		dim = openAIDimensions[model]
	}
	if dim <= 0 {
		return nil, fmt.Errorf("%w: unknown dimension for model %q, set dimensions explicitly", ErrModelUnavailable, model)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	e := &OpenAIEmbedder{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		dim:         dim,
		requestDim:  max(cfg.Dimensions, 0),
		batchSize:   cfg.BatchSize,
		concurrency: cfg.Concurrency,
		timeout:     cfg.Timeout,
		limiter:     rate.NewLimiter(rate.Inf, 0),
		logger:      logger,
	}
	if e.batchSize <= 0 {
		e.batchSize = defaultBatchSize
	}
	if e.concurrency <= 0 {
		e.concurrency = defaultConcurrency
	}
	if e.timeout <= 0 {
		e.timeout = defaultTimeout
	}
	if cfg.RequestsPerSecond > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), e.concurrency)
	}

	return e, nil
}

// Embed sends texts in batches, up to concurrency requests at a time,
// and returns L2-normalized vectors in input order.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	if len(texts) == 0 {
		return embeddings, nil
	}
	for i, text := range texts {
		if text == "" {
			return nil, fmt.Errorf("%w: cannot embed empty text at position %d", ErrModelUnavailable, i)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))
		g.Go(func() error {
			return e.embedBatch(gctx, texts[start:end], embeddings[start:end])
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"model": e.model,
		"texts": len(texts),
	}).Debug("embeddings generated")

	return embeddings, nil
}

// embedBatch embeds one request worth of texts into dst, which has the
// same length as batch.
func (e *OpenAIEmbedder) embedBatch(ctx context.Context, batch []string, dst [][]float32) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: batch,
	}
	if e.requestDim > 0 {
		req.Dimensions = e.requestDim
	}

	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		e.logger.WithError(err).WithField("batch", len(batch)).Error("embeddings request failed")
		return fmt.Errorf("%w: openai: %w", ErrModelUnavailable, err)
	}

	if len(resp.Data) != len(batch) {
		return fmt.Errorf("%w: got %d embeddings for %d texts", ErrModelUnavailable, len(resp.Data), len(batch))
	}

	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(batch) {
			return fmt.Errorf("%w: embedding index %d out of range", ErrModelUnavailable, d.Index)
		}
		if len(d.Embedding) != e.dim {
			return fmt.Errorf("%w: embedding has %d dimensions, want %d", ErrModelUnavailable, len(d.Embedding), e.dim)
		}
		v := make([]float32, len(d.Embedding))
		copy(v, d.Embedding)
		l2normalize(v)
		dst[d.Index] = v
	}

	for i := range dst {
		if dst[i] == nil {
			return fmt.Errorf("%w: no embedding returned for text %d", ErrModelUnavailable, i)
		}
	}

	return nil
}

// Dimension returns the embedding dimension
func (e *OpenAIEmbedder) Dimension() int {
	return e.dim
}

// ModelInfo returns model information
func (e *OpenAIEmbedder) ModelInfo() string {
	return "openai-" + e.model
}
