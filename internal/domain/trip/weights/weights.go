// Package weights holds the per-aspect weight vector applied at query time.
package weights

import (
	"fmt"

	"github.com/roamkit/tripdex/internal/domain/aspect"
)

// Weights is a non-negative per-aspect weight vector (immutable value object).
// It need not sum to 1; Normalized is applied before combination. An aspect
// omitted from the source map carries weight 0 — an explicit map means
// "only what I named". Per-aspect defaults for callers that supply no map
// at all live in Default.
type Weights struct {
	values [aspect.Count]float64
}

// Default returns the built-in weight vector used when a caller supplies
// no weights: activities 0.4, scenery 0.3, amenities 0.2, location 0.1.
func Default() Weights {
	w, _ := FromMap(map[string]float64{
		string(aspect.Activities): 0.4,
		string(aspect.Scenery):    0.3,
		string(aspect.Amenities):  0.2,
		string(aspect.Location):   0.1,
	})
	return w
}

// FromMap validates and creates Weights from raw aspect-name keys.
// Unknown aspect names are rejected so a typo cannot silently zero out
// a dimension the caller thought they weighted.
func FromMap(raw map[string]float64) (Weights, error) {
	var w Weights
	for name, v := range raw {
		a, err := aspect.Parse(name)
		if err != nil {
			return Weights{}, fmt.Errorf("weight key: %w", err)
		}
		if v < 0 {
			return Weights{}, fmt.Errorf("weight for %q must be non-negative, got %v", name, v)
		}
		w.values[position(a)] = v
	}
	return w, nil
}

// Get returns the raw weight of one aspect.
func (w Weights) Get(a aspect.Aspect) float64 {
	return w.values[position(a)]
}

// Sum returns the total raw weight.
func (w Weights) Sum() float64 {
	var sum float64
	for _, v := range w.values {
		sum += v
	}
	return sum
}

// IsZero reports whether every weight is 0. Searching with zero weights is
// legal: every combined score is exactly 0 and ordering falls back to name.
func (w Weights) IsZero() bool {
	return w.Sum() == 0
}

// Normalized returns a convex copy (weights summing to 1). A zero vector
// is returned unchanged.
func (w Weights) Normalized() Weights {
	sum := w.Sum()
	if sum == 0 {
		return w
	}
	var n Weights
	for i, v := range w.values {
		n.values[i] = v / sum
	}
	return n
}

// ToMap returns the weights keyed by aspect name.
func (w Weights) ToMap() map[string]float64 {
	m := make(map[string]float64, aspect.Count)
	for _, a := range aspect.All() {
		m[string(a)] = w.Get(a)
	}
	return m
}

func position(a aspect.Aspect) int {
	for i, known := range aspect.All() {
		if known == a {
			return i
		}
	}
	return 0 // unreachable: callers validate via aspect.Parse
}
