// Package match holds the scored search result.
package match

import (
	"github.com/roamkit/tripdex/internal/domain"
	"github.com/roamkit/tripdex/internal/domain/aspect"
)

// Match is a single ranked search hit (immutable value object). Scores are
// kept at full float64 precision; rounding for display belongs to the
// presentation layer.
type Match struct {
	destination     domain.Destination
	rank            int
	combinedScore   float64
	aspectScores    map[aspect.Aspect]float64
	explanation     string
	matchingPhrases []string
}

// New creates a Match.
func New(
	dest domain.Destination,
	rank int,
	combinedScore float64,
	aspectScores map[aspect.Aspect]float64,
	explanation string,
	matchingPhrases []string,
) Match {
	scores := make(map[aspect.Aspect]float64, len(aspectScores))
	for a, s := range aspectScores {
		scores[a] = s
	}
	return Match{
		destination:     dest,
		rank:            rank,
		combinedScore:   combinedScore,
		aspectScores:    scores,
		explanation:     explanation,
		matchingPhrases: append([]string(nil), matchingPhrases...),
	}
}

// Destination returns the matched destination.
func (m *Match) Destination() domain.Destination { return m.destination }

// Rank returns the 1-based rank position.
func (m *Match) Rank() int { return m.rank }

// CombinedScore returns the weighted combined score.
func (m *Match) CombinedScore() float64 { return m.combinedScore }

// AspectScore returns the cosine similarity for one aspect.
func (m *Match) AspectScore(a aspect.Aspect) float64 { return m.aspectScores[a] }

// Explanation returns the human-readable match explanation.
func (m *Match) Explanation() string { return m.explanation }

// MatchingPhrases returns catalog phrases that literally overlap the query.
func (m *Match) MatchingPhrases() []string {
	return append([]string(nil), m.matchingPhrases...)
}
