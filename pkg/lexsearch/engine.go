// Package lexsearch ties the corpus, an embedder and a flat index into a
// single object that answers natural-language queries.
package lexsearch

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/perbu/lexsearch/pkg/corpus"
	"github.com/perbu/lexsearch/pkg/embedder"
	"github.com/perbu/lexsearch/pkg/index"
	"github.com/sirupsen/logrus"
)

// Engine owns the loaded records, the embedder and the index built from
// them. It is built once and queried for the rest of the run.
type Engine struct {
	records     []corpus.Record
	embedder    embedder.Embedder
	index       *index.Flat
	maxDistance float64
	logger      *logrus.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDistance drops matches farther than d from the query. Zero
// disables the cut-off.
func WithMaxDistance(d float64) Option {
	return func(e *Engine) {
		e.maxDistance = d
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New embeds every record and builds the index.
func New(ctx context.Context, records []corpus.Record, emb embedder.Embedder, opts ...Option) (*Engine, error) {
	e := &Engine{
		records:  records,
		embedder: emb,
		index:    index.NewFlat(),
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.logger.WithFields(logrus.Fields{
		"records": len(records),
		"model":   emb.ModelInfo(),
	}).Debug("embedding corpus")

	vectors, err := emb.Embed(ctx, corpus.Texts(records))
	if err != nil {
		return nil, fmt.Errorf("embedding corpus: %w", err)
	}
	if len(vectors) != len(records) {
		return nil, fmt.Errorf("embedding corpus: %w: got %d vectors for %d records",
			embedder.ErrModelUnavailable, len(vectors), len(records))
	}

	if err := e.index.Build(vectors); err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"records":   e.index.Len(),
		"dimension": e.index.Dimension(),
		"model":     emb.ModelInfo(),
	}).Info("index built")

	return e, nil
}

// Search returns up to k records closest to query, nearest first. A k
// larger than the corpus returns every record.
func (e *Engine) Search(ctx context.Context, query string, k int) ([]Match, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidArgument, k)
	}
	if !utf8.ValidString(query) {
		return nil, fmt.Errorf("%w: query is not valid UTF-8", ErrInvalidArgument)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrInvalidArgument)
	}

	e.logger.WithFields(logrus.Fields{
		"query": query,
		"k":     k,
	}).Debug("searching")

	qv, err := e.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(qv) != 1 {
		return nil, fmt.Errorf("embedding query: %w: got %d vectors for 1 text", embedder.ErrModelUnavailable, len(qv))
	}

	hits, err := e.index.Search(qv[0], k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	matches := make([]Match, 0, len(hits))
	for _, h := range hits {
		if e.maxDistance > 0 && h.Distance > e.maxDistance {
			break
		}
		matches = append(matches, Match{
			Rank:     len(matches) + 1,
			Position: h.Position,
			Record:   e.records[h.Position],
			Distance: h.Distance,
		})
	}

	e.logger.WithField("matches", len(matches)).Debug("search done")

	return matches, nil
}

// Len returns the number of indexed records.
func (e *Engine) Len() int {
	return e.index.Len()
}

// ModelInfo describes the embedding model in use.
func (e *Engine) ModelInfo() string {
	return e.embedder.ModelInfo()
}
