package build

import (
	"github.com/roamkit/tripdex/internal/domain"
	"github.com/roamkit/tripdex/internal/index"
)

// CatalogLoader is the consumer interface for reading the destination catalog.
type CatalogLoader interface {
	Load() ([]domain.Destination, error)
}

// Publisher atomically publishes a built snapshot.
type Publisher interface {
	Save(snap *index.Snapshot) error
}
