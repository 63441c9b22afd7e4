package health

import (
	"context"

	"github.com/roamkit/tripdex/internal/index"
)

// SnapshotSource reports whether a published index is available.
type SnapshotSource interface {
	Current() (*index.Snapshot, error)
}

// CachePinger checks embedding cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
