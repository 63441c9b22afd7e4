package domain

import (
	"fmt"
	"strings"

	"github.com/roamkit/tripdex/internal/domain/aspect"
)

// MaxNameLength is the maximum destination name length.
const MaxNameLength = 256

// Destination is a single catalog entry (immutable value object).
// The name doubles as the unique identifier: search results are keyed by it.
type Destination struct {
	name              string
	location          string
	state             string
	country           string
	description       string
	activities        []string
	scenery           []string
	amenities         []string
	bestSeason        []string
	travelTime        string
	nearbyAttractions []string
	keywords          []string
}

// NewDestination validates and creates a Destination.
// Name, country and description are required. At least one aspect must have
// text to embed; an entirely blank record would index as four zero vectors.
func NewDestination(
	name, location, state, country, description string,
	activities, scenery, amenities, bestSeason []string,
	travelTime string,
	nearbyAttractions, keywords []string,
) (Destination, error) {
	if strings.TrimSpace(name) == "" {
		return Destination{}, fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}
	if len(name) > MaxNameLength {
		return Destination{}, fmt.Errorf("%w: name too long (max %d)", ErrInvalidRecord, MaxNameLength)
	}
	if strings.TrimSpace(country) == "" {
		return Destination{}, fmt.Errorf("%w: country is required for %q", ErrInvalidRecord, name)
	}
	if strings.TrimSpace(description) == "" {
		return Destination{}, fmt.Errorf("%w: description is required for %q", ErrInvalidRecord, name)
	}

	d := Destination{
		name:              strings.TrimSpace(name),
		location:          strings.TrimSpace(location),
		state:             strings.TrimSpace(state),
		country:           strings.TrimSpace(country),
		description:       strings.TrimSpace(description),
		activities:        cloneStrings(activities),
		scenery:           cloneStrings(scenery),
		amenities:         cloneStrings(amenities),
		bestSeason:        cloneStrings(bestSeason),
		travelTime:        strings.TrimSpace(travelTime),
		nearbyAttractions: cloneStrings(nearbyAttractions),
		keywords:          cloneStrings(keywords),
	}

	hasText := false
	for _, a := range aspect.All() {
		if d.AspectText(a) != "" {
			hasText = true
			break
		}
	}
	if !hasText {
		return Destination{}, fmt.Errorf("%w: %q has no aspect text", ErrInvalidRecord, name)
	}
	return d, nil
}

// ReconstructDestination creates a Destination without validation (artifact hydration).
func ReconstructDestination(
	name, location, state, country, description string,
	activities, scenery, amenities, bestSeason []string,
	travelTime string,
	nearbyAttractions, keywords []string,
) Destination {
	return Destination{
		name:              name,
		location:          location,
		state:             state,
		country:           country,
		description:       description,
		activities:        cloneStrings(activities),
		scenery:           cloneStrings(scenery),
		amenities:         cloneStrings(amenities),
		bestSeason:        cloneStrings(bestSeason),
		travelTime:        travelTime,
		nearbyAttractions: cloneStrings(nearbyAttractions),
		keywords:          cloneStrings(keywords),
	}
}

// Name returns the unique destination name.
func (d Destination) Name() string { return d.name }

// Location returns the human-readable location.
func (d Destination) Location() string { return d.location }

// State returns the state or region (may be empty).
func (d Destination) State() string { return d.state }

// Country returns the country.
func (d Destination) Country() string { return d.country }

// Description returns the free-text description.
func (d Destination) Description() string { return d.description }

// Activities returns the activity phrases.
func (d Destination) Activities() []string { return cloneStrings(d.activities) }

// Scenery returns the scenery phrases.
func (d Destination) Scenery() []string { return cloneStrings(d.scenery) }

// Amenities returns the amenity phrases.
func (d Destination) Amenities() []string { return cloneStrings(d.amenities) }

// BestSeason returns the recommended seasons.
func (d Destination) BestSeason() []string { return cloneStrings(d.bestSeason) }

// TravelTime returns the travel-time hint (may be empty).
func (d Destination) TravelTime() string { return d.travelTime }

// NearbyAttractions returns nearby attraction phrases.
func (d Destination) NearbyAttractions() []string { return cloneStrings(d.nearbyAttractions) }

// Keywords returns the free-form keywords.
func (d Destination) Keywords() []string { return cloneStrings(d.keywords) }

// HasSeason reports whether the destination lists the season (case-insensitive).
func (d Destination) HasSeason(season string) bool {
	for _, s := range d.bestSeason {
		if strings.EqualFold(s, season) {
			return true
		}
	}
	return false
}

// AspectText derives the text embedded for one aspect. Parts are joined
// with single spaces in source order and empty parts are dropped, so
// repeated builds embed byte-identical text.
//
//	activities: description + activity phrases + nearby attractions
//	scenery:    scenery phrases + description
//	amenities:  amenity phrases + description
//	location:   location, state, country, keywords
func (d Destination) AspectText(a aspect.Aspect) string {
	var parts []string
	switch a {
	case aspect.Activities:
		parts = append(parts, d.description)
		parts = append(parts, d.activities...)
		parts = append(parts, d.nearbyAttractions...)
	case aspect.Scenery:
		parts = append(parts, d.scenery...)
		parts = append(parts, d.description)
	case aspect.Amenities:
		parts = append(parts, d.amenities...)
		parts = append(parts, d.description)
	case aspect.Location:
		parts = append(parts, d.location, d.state, d.country)
		parts = append(parts, d.keywords...)
	}

	joined := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			joined = append(joined, p)
		}
	}
	return strings.Join(joined, " ")
}

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}
