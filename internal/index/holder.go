package index

import "sync"

// Holder is the process-wide published snapshot: loaded lazily from the
// artifact on first use and hot-swapped after an in-process rebuild.
// Readers always see either the previous complete snapshot or the new one,
// never a mix.
type Holder struct {
	store *Store

	mu   sync.RWMutex
	snap *Snapshot
}

// NewHolder creates a Holder backed by an artifact store.
func NewHolder(store *Store) *Holder {
	return &Holder{store: store}
}

// Current returns the published snapshot, loading the artifact on first
// call. Returns domain.ErrIndexUnavailable (wrapped) when nothing has been
// built yet.
func (h *Holder) Current() (*Snapshot, error) {
	h.mu.RLock()
	snap := h.snap
	h.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.snap != nil {
		return h.snap, nil
	}
	loaded, err := h.store.Load()
	if err != nil {
		return nil, err
	}
	h.snap = loaded
	return h.snap, nil
}

// Set swaps in a freshly built snapshot.
func (h *Holder) Set(snap *Snapshot) {
	h.mu.Lock()
	h.snap = snap
	h.mu.Unlock()
}
