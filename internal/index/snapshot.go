// Package index holds the published aspect-index snapshot and its on-disk artifact.
package index

import (
	"fmt"
	"time"

	"github.com/roamkit/tripdex/internal/domain"
	"github.com/roamkit/tripdex/internal/domain/aspect"
)

// Snapshot is one published index build: four position-aligned flat vector
// indices plus the destination order table. Read-only after construction;
// any number of concurrent searches may scan it.
type Snapshot struct {
	buildID      string
	model        string
	dimensions   int
	builtAt      time.Time
	destinations []domain.Destination
	vectors      map[aspect.Aspect][][]float32
}

// NewSnapshot validates positional alignment and creates a Snapshot.
// Every aspect index must hold exactly one vector per destination at the
// same position, all of the same dimensionality — scoring assumes it can
// address all four indices by a single position.
func NewSnapshot(
	buildID, model string,
	dimensions int,
	builtAt time.Time,
	destinations []domain.Destination,
	vectors map[aspect.Aspect][][]float32,
) (*Snapshot, error) {
	if len(destinations) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: non-positive dimensions %d", domain.ErrDimMismatch, dimensions)
	}

	aligned := make(map[aspect.Aspect][][]float32, aspect.Count)
	for _, a := range aspect.All() {
		vecs, ok := vectors[a]
		if !ok || len(vecs) != len(destinations) {
			return nil, fmt.Errorf("aspect %q index has %d vectors, want %d", a, len(vecs), len(destinations))
		}
		for i, v := range vecs {
			if len(v) != dimensions {
				return nil, fmt.Errorf("%w: aspect %q position %d has %d dims, want %d",
					domain.ErrDimMismatch, a, i, len(v), dimensions)
			}
		}
		aligned[a] = vecs
	}

	seen := make(map[string]bool, len(destinations))
	for _, d := range destinations {
		if seen[d.Name()] {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateDestination, d.Name())
		}
		seen[d.Name()] = true
	}

	return &Snapshot{
		buildID:      buildID,
		model:        model,
		dimensions:   dimensions,
		builtAt:      builtAt,
		destinations: destinations,
		vectors:      aligned,
	}, nil
}

// BuildID returns the unique identifier of this build.
func (s *Snapshot) BuildID() string { return s.buildID }

// Model returns the embedding model the snapshot was built with. Queries
// must be embedded with the same model or similarities are meaningless.
func (s *Snapshot) Model() string { return s.model }

// Dimensions returns the embedding dimensionality.
func (s *Snapshot) Dimensions() int { return s.dimensions }

// BuiltAt returns the build completion time.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Len returns the number of indexed destinations.
func (s *Snapshot) Len() int { return len(s.destinations) }

// Destination returns the destination at a position in the order table.
func (s *Snapshot) Destination(i int) domain.Destination { return s.destinations[i] }

// Vector returns the stored embedding for (position, aspect).
func (s *Snapshot) Vector(a aspect.Aspect, i int) []float32 { return s.vectors[a][i] }

// Scan computes the inner product of the query vector against every
// destination in one aspect index. Exhaustive on purpose: truncating to a
// per-aspect top-k before weighting would let a strong low-weighted aspect
// eject a destination from the candidate set before the weights can speak.
// Both sides are unit vectors, so the inner product is cosine similarity.
func (s *Snapshot) Scan(a aspect.Aspect, query []float32) ([]float64, error) {
	if len(query) != s.dimensions {
		return nil, fmt.Errorf("%w: query has %d dims, index has %d",
			domain.ErrDimMismatch, len(query), s.dimensions)
	}
	scores := make([]float64, len(s.destinations))
	for i, vec := range s.vectors[a] {
		var dot float64
		for j := range vec {
			dot += float64(vec[j]) * float64(query[j])
		}
		scores[i] = dot
	}
	return scores, nil
}
