package index

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/roamkit/tripdex/internal/domain"
	"github.com/roamkit/tripdex/internal/domain/aspect"
)

// artifactVersion is bumped on incompatible manifest layout changes.
const artifactVersion = 1

// Store persists index snapshots as a single gob artifact. One file holds
// the manifest, the order table and all four vector blocks, so a publish
// is a single rename and a reader can never observe half a build.
type Store struct {
	path string
}

// NewStore creates a Store writing to the given artifact path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the artifact path.
func (s *Store) Path() string { return s.path }

// Exists reports whether a published artifact is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save atomically publishes a snapshot: gob-encode to a temp file in the
// same directory, fsync, then rename over the artifact path.
func (s *Store) Save(snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(toDTO(snap)); err != nil {
		tmp.Close()
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("publish artifact: %w", err)
	}
	return nil
}

// Load reads the published snapshot. A missing artifact surfaces as
// domain.ErrIndexUnavailable so callers can prompt a build instead of
// reporting "no matches".
func (s *Store) Load() (*Snapshot, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no artifact at %s", domain.ErrIndexUnavailable, s.path)
		}
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	var dto snapshotDTO
	if err := gob.NewDecoder(f).Decode(&dto); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", s.path, err)
	}
	if dto.Version != artifactVersion {
		return nil, fmt.Errorf("artifact %s has version %d, want %d", s.path, dto.Version, artifactVersion)
	}

	return fromDTO(dto)
}

// snapshotDTO is the gob wire form of a Snapshot.
type snapshotDTO struct {
	Version      int
	BuildID      string
	Model        string
	Dimensions   int
	BuiltAt      time.Time
	Destinations []destinationDTO
	Vectors      map[string][][]float32
}

type destinationDTO struct {
	Name              string
	Location          string
	State             string
	Country           string
	Description       string
	Activities        []string
	Scenery           []string
	Amenities         []string
	BestSeason        []string
	TravelTime        string
	NearbyAttractions []string
	Keywords          []string
}

func toDTO(snap *Snapshot) snapshotDTO {
	dests := make([]destinationDTO, snap.Len())
	for i := 0; i < snap.Len(); i++ {
		d := snap.Destination(i)
		dests[i] = destinationDTO{
			Name:              d.Name(),
			Location:          d.Location(),
			State:             d.State(),
			Country:           d.Country(),
			Description:       d.Description(),
			Activities:        d.Activities(),
			Scenery:           d.Scenery(),
			Amenities:         d.Amenities(),
			BestSeason:        d.BestSeason(),
			TravelTime:        d.TravelTime(),
			NearbyAttractions: d.NearbyAttractions(),
			Keywords:          d.Keywords(),
		}
	}

	vectors := make(map[string][][]float32, aspect.Count)
	for _, a := range aspect.All() {
		vecs := make([][]float32, snap.Len())
		for i := 0; i < snap.Len(); i++ {
			vecs[i] = snap.Vector(a, i)
		}
		vectors[string(a)] = vecs
	}

	return snapshotDTO{
		Version:      artifactVersion,
		BuildID:      snap.BuildID(),
		Model:        snap.Model(),
		Dimensions:   snap.Dimensions(),
		BuiltAt:      snap.BuiltAt(),
		Destinations: dests,
		Vectors:      vectors,
	}
}

func fromDTO(dto snapshotDTO) (*Snapshot, error) {
	dests := make([]domain.Destination, len(dto.Destinations))
	for i, d := range dto.Destinations {
		dests[i] = domain.ReconstructDestination(
			d.Name, d.Location, d.State, d.Country, d.Description,
			d.Activities, d.Scenery, d.Amenities, d.BestSeason,
			d.TravelTime, d.NearbyAttractions, d.Keywords,
		)
	}

	vectors := make(map[aspect.Aspect][][]float32, aspect.Count)
	for name, vecs := range dto.Vectors {
		a, err := aspect.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("artifact vectors: %w", err)
		}
		vectors[a] = vecs
	}

	snap, err := NewSnapshot(dto.BuildID, dto.Model, dto.Dimensions, dto.BuiltAt, dests, vectors)
	if err != nil {
		return nil, fmt.Errorf("hydrate snapshot: %w", err)
	}
	return snap, nil
}
