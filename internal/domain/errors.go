package domain

import "errors"

var (
	// ErrEmptyCatalog signals a build attempt over a catalog with no destinations.
	ErrEmptyCatalog = errors.New("empty catalog")
	// ErrDuplicateDestination signals two catalog entries sharing a name.
	ErrDuplicateDestination = errors.New("duplicate destination")
	// ErrInvalidRecord signals a malformed catalog entry.
	ErrInvalidRecord = errors.New("invalid destination record")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrIndexUnavailable signals a query issued before any successful build.
	// Distinct from an empty result set: callers should trigger a build.
	ErrIndexUnavailable = errors.New("index unavailable")
	// ErrDimMismatch signals embeddings of inconsistent dimensionality.
	ErrDimMismatch = errors.New("embedding dimension mismatch")
	// ErrInvalidQuery signals malformed search input (empty query, unknown
	// aspect in the weight map, bad filter). Rejected before any embedding call.
	ErrInvalidQuery = errors.New("invalid query")
)
