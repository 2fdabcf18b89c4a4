package lexsearch

import (
	"github.com/perbu/lexsearch/pkg/corpus"
	"github.com/perbu/lexsearch/pkg/index"
)

// ErrInvalidArgument is returned for a bad k or an unusable query.
var ErrInvalidArgument = index.ErrInvalidArgument

// Match represents a single search result joined back to its record
type Match struct {
	Rank     int           // 1-based rank in the result list
	Position int           // Position of the record in the corpus
	Record   corpus.Record // The matched section
	Distance float64       // Squared Euclidean distance to the query
}
