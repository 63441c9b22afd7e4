// Package planner ranks catalog destinations against a free-text travel query.
package planner

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/roamkit/tripdex/internal/domain"
	"github.com/roamkit/tripdex/internal/domain/aspect"
	"github.com/roamkit/tripdex/internal/domain/trip/match"
	"github.com/roamkit/tripdex/internal/domain/trip/request"
	"github.com/roamkit/tripdex/internal/logger"
)

// Service is the query engine: one embedding call per query, then an
// exhaustive weighted scan over the published snapshot.
type Service struct {
	source SnapshotSource
	embed  domain.Embedder
}

// New creates a planner service. The embedder must use the same model the
// index was built with; a mismatch silently corrupts similarities, so the
// snapshot records its model and main wires both sides from one config key.
func New(source SnapshotSource, embed domain.Embedder) *Service {
	return &Service{source: source, embed: embed}
}

// candidate is one destination with its per-aspect and combined scores.
type candidate struct {
	position     int
	combined     float64
	aspectScores map[aspect.Aspect]float64
}

// Search ranks all indexed destinations against the query and returns the
// top-k that pass the filters.
//
// Every aspect index is scanned over the full catalog. The weights then
// form a convex combination of the four similarities per destination, the
// filters drop non-matching destinations without touching scores, and the
// survivors are sorted by combined score descending with ties broken by
// name so identical inputs always produce identical output.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]match.Match, error) {
	snap, err := s.source.Current()
	if err != nil {
		return nil, fmt.Errorf("index snapshot: %w", err)
	}

	embRes, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	queryVec := domain.NormalizeL2(embRes.Embedding)

	scores := make(map[aspect.Aspect][]float64, aspect.Count)
	for _, a := range aspect.All() {
		scores[a], err = snap.Scan(a, queryVec)
		if err != nil {
			return nil, fmt.Errorf("scan %s index: %w", a, err)
		}
	}

	norm := req.Weights().Normalized()
	candidates := make([]candidate, 0, snap.Len())
	for pos := 0; pos < snap.Len(); pos++ {
		if !req.Filters().Matches(snap.Destination(pos)) {
			continue
		}
		c := candidate{position: pos, aspectScores: make(map[aspect.Aspect]float64, aspect.Count)}
		for _, a := range aspect.All() {
			sim := scores[a][pos]
			c.aspectScores[a] = sim
			c.combined += norm.Get(a) * sim
		}
		candidates = append(candidates, c)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].combined != candidates[j].combined {
			return candidates[i].combined > candidates[j].combined
		}
		return snap.Destination(candidates[i].position).Name() < snap.Destination(candidates[j].position).Name()
	})
	if len(candidates) > req.TopK() {
		candidates = candidates[:req.TopK()]
	}

	matches := make([]match.Match, len(candidates))
	for rank, c := range candidates {
		dest := snap.Destination(c.position)
		dominant := dominantAspects(norm, c.aspectScores, c.combined)
		matches[rank] = match.New(
			dest,
			rank+1,
			c.combined,
			c.aspectScores,
			explanation(dest, dominant, c.combined),
			matchingPhrases(req.Query(), dest),
		)
	}

	logger.FromContext(ctx).Debug("search scored",
		zap.Int("catalog", snap.Len()),
		zap.Int("returned", len(matches)),
		zap.String("build_id", snap.BuildID()),
	)
	return matches, nil
}
