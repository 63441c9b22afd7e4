// Package request holds the validated search request.
package request

import (
	"fmt"
	"strings"

	"github.com/roamkit/tripdex/internal/domain"
	"github.com/roamkit/tripdex/internal/domain/trip/filters"
	"github.com/roamkit/tripdex/internal/domain/trip/weights"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultTopK    = 5
	MaxTopK        = 50
)

// Request is a validated search query (immutable value object).
type Request struct {
	query   string
	weights weights.Weights
	topK    int
	filters filters.Filters
}

// New validates and normalizes search parameters.
// rawWeights nil means the built-in default weight vector; a non-nil map is
// taken literally, with omitted aspects at weight 0. topK defaults to 5 and
// is clamped to 50. Validation failures wrap domain.ErrInvalidQuery so no
// embedding call is wasted on a request that cannot be served.
func New(query string, rawWeights map[string]float64, topK int, f filters.Filters) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("%w: query text is required", domain.ErrInvalidQuery)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}

	w := weights.Default()
	if rawWeights != nil {
		var err error
		if w, err = weights.FromMap(rawWeights); err != nil {
			return Request{}, fmt.Errorf("%w: %s", domain.ErrInvalidQuery, err)
		}
	}

	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	return Request{query: query, weights: w, topK: topK, filters: f}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Weights returns the raw (unnormalized) aspect weights.
func (r *Request) Weights() weights.Weights { return r.weights }

// TopK returns the maximum number of results to return.
func (r *Request) TopK() int { return r.topK }

// Filters returns the post-scoring filters.
func (r *Request) Filters() filters.Filters { return r.filters }
