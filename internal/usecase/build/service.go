// Package build turns the destination catalog into a published index snapshot.
package build

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roamkit/tripdex/internal/domain"
	"github.com/roamkit/tripdex/internal/domain/aspect"
	"github.com/roamkit/tripdex/internal/index"
	"github.com/roamkit/tripdex/internal/logger"
)

// Service builds the four aspect indices from the catalog.
type Service struct {
	catalog CatalogLoader
	embed   domain.Embedder
	store   Publisher
	model   string
}

// New creates a build service. model is recorded on the snapshot so the
// query path can verify it embeds with the same model.
func New(catalog CatalogLoader, embed domain.Embedder, store Publisher, model string) *Service {
	return &Service{catalog: catalog, embed: embed, store: store, model: model}
}

// Build loads the catalog, embeds every (destination, aspect) text, and
// publishes the snapshot as one atomic unit. Any failure — a bad record, a
// duplicate name, a provider error on a single text — aborts the whole
// build and nothing is published: the scan path assumes all four indices
// and the order table are positionally aligned, and a partial index would
// silently break that.
func (s *Service) Build(ctx context.Context) (*index.Snapshot, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	dests, err := s.catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	log.Info("catalog loaded", zap.Int("destinations", len(dests)))

	order := aspect.All()
	texts := make([]string, 0, len(dests)*aspect.Count)
	for _, d := range dests {
		for _, a := range order {
			texts = append(texts, d.AspectText(a))
		}
	}

	embedded, err := s.embedAll(ctx, texts)
	if err != nil {
		return nil, err
	}

	dims := len(embedded.Embeddings[0])
	vectors := make(map[aspect.Aspect][][]float32, aspect.Count)
	for i, a := range order {
		vecs := make([][]float32, len(dests))
		for pos := range dests {
			vec := embedded.Embeddings[pos*aspect.Count+i]
			if len(vec) != dims {
				return nil, fmt.Errorf("%w: %q aspect %q has %d dims, want %d",
					domain.ErrDimMismatch, dests[pos].Name(), a, len(vec), dims)
			}
			vecs[pos] = domain.NormalizeL2(vec)
		}
		vectors[a] = vecs
	}

	snap, err := index.NewSnapshot(uuid.NewString(), s.model, dims, time.Now().UTC(), dests, vectors)
	if err != nil {
		return nil, fmt.Errorf("assemble snapshot: %w", err)
	}

	if err := s.store.Save(snap); err != nil {
		return nil, fmt.Errorf("publish snapshot: %w", err)
	}

	log.Info("index built",
		zap.String("build_id", snap.BuildID()),
		zap.Int("destinations", snap.Len()),
		zap.Int("dimensions", snap.Dimensions()),
		zap.Int("embed_tokens", embedded.TotalTokens),
		zap.Duration("elapsed", time.Since(start)),
	)
	return snap, nil
}

func (s *Service) embedAll(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	var (
		res domain.BatchEmbeddingResult
		err error
	)
	if be, ok := s.embed.(domain.BatchEmbedder); ok {
		res, err = be.BatchEmbed(ctx, texts)
	} else {
		res, err = domain.BatchFallback(ctx, s.embed, texts)
	}
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("embed catalog: %w", err)
	}
	if len(res.Embeddings) != len(texts) {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("%w: got %d embeddings for %d texts",
			domain.ErrEmbeddingProviderError, len(res.Embeddings), len(texts))
	}
	return res, nil
}
