package planner

import "github.com/roamkit/tripdex/internal/index"

// SnapshotSource provides the currently published index snapshot.
// Implementations return domain.ErrIndexUnavailable when no build has
// ever been published.
type SnapshotSource interface {
	Current() (*index.Snapshot, error)
}
