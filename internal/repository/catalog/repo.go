// Package catalog loads destination records from a directory of JSON files.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/roamkit/tripdex/internal/domain"
)

// record is the JSON wire form of one catalog entry.
type record struct {
	Name              string   `json:"name" validate:"required"`
	Location          string   `json:"location"`
	State             string   `json:"state"`
	Country           string   `json:"country" validate:"required"`
	Description       string   `json:"description" validate:"required"`
	Activities        []string `json:"activities" validate:"dive,required"`
	Scenery           []string `json:"scenery" validate:"dive,required"`
	Amenities         []string `json:"amenities" validate:"dive,required"`
	BestSeason        []string `json:"best_season" validate:"dive,required"`
	TravelTime        string   `json:"travel_time"`
	NearbyAttractions []string `json:"nearby_attractions" validate:"dive,required"`
	Keywords          []string `json:"keywords" validate:"dive,required"`
}

// Repo reads the read-only destination catalog from disk.
type Repo struct {
	dir      string
	validate *validator.Validate
}

// New creates a catalog repository over a directory of *.json files.
func New(dir string) *Repo {
	return &Repo{
		dir:      dir,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Dir returns the catalog directory.
func (r *Repo) Dir() string { return r.dir }

// Load reads every *.json file in lexical order and returns the parsed
// destinations. Lexical order keeps index positions stable across rebuilds
// of an unchanged catalog. An empty or missing directory, a malformed file
// or a duplicate name fails the whole load: a build must never run over a
// partially parsed catalog.
func (r *Repo) Load() ([]domain.Destination, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir %s: %w", r.dir, err)
	}

	var dests []domain.Destination
	seen := make(map[string]string)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())

		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %s", domain.ErrInvalidRecord, entry.Name(), err)
		}
		if err := r.validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("%w: %s: %s", domain.ErrInvalidRecord, entry.Name(), err)
		}

		dest, err := domain.NewDestination(
			rec.Name, rec.Location, rec.State, rec.Country, rec.Description,
			rec.Activities, rec.Scenery, rec.Amenities, rec.BestSeason,
			rec.TravelTime, rec.NearbyAttractions, rec.Keywords,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}

		if prev, ok := seen[dest.Name()]; ok {
			return nil, fmt.Errorf("%w: %q in %s and %s",
				domain.ErrDuplicateDestination, dest.Name(), prev, entry.Name())
		}
		seen[dest.Name()] = entry.Name()
		dests = append(dests, dest)
	}

	if len(dests) == 0 {
		return nil, fmt.Errorf("%w: no destination files in %s", domain.ErrEmptyCatalog, r.dir)
	}
	return dests, nil
}
