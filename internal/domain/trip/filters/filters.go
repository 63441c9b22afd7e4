// Package filters holds the post-scoring result filters.
package filters

import (
	"fmt"
	"strings"

	"github.com/roamkit/tripdex/internal/domain"
	"github.com/roamkit/tripdex/internal/domain/trip/budget"
)

// Filters is a fully enumerated set of post-filters (immutable value object).
// Filters are set-membership predicates applied after scoring: they exclude
// non-matching destinations from the ranked list without touching anyone
// else's score. An empty field means "no constraint on that dimension".
type Filters struct {
	country    string
	budgetTier budget.Tier
	season     string
}

var validSeasons = map[string]bool{
	"spring": true, "summer": true, "fall": true, "winter": true,
}

// New validates and creates Filters. Unknown budget tiers and seasons are
// rejected rather than matching nothing.
func New(country, budgetTier, season string) (Filters, error) {
	f := Filters{country: strings.TrimSpace(country)}

	if budgetTier != "" {
		tier, ok := budget.Parse(budgetTier)
		if !ok {
			return Filters{}, fmt.Errorf("unknown budget tier %q (want %q, %q or %q)",
				budgetTier, budget.Economy, budget.MidRange, budget.Luxury)
		}
		f.budgetTier = tier
	}

	if season != "" {
		if !validSeasons[strings.ToLower(season)] {
			return Filters{}, fmt.Errorf("unknown season %q", season)
		}
		f.season = season
	}

	return f, nil
}

// Country returns the country constraint ("" = any).
func (f Filters) Country() string { return f.country }

// BudgetTier returns the budget tier constraint ("" = any).
func (f Filters) BudgetTier() budget.Tier { return f.budgetTier }

// Season returns the season constraint ("" = any).
func (f Filters) Season() string { return f.season }

// IsEmpty reports whether no constraint is set.
func (f Filters) IsEmpty() bool {
	return f.country == "" && f.budgetTier == "" && f.season == ""
}

// Matches reports whether the destination passes every set constraint.
// The budget tier is inferred from amenities on the fly, not stored.
func (f Filters) Matches(d domain.Destination) bool {
	if f.country != "" && !strings.EqualFold(d.Country(), f.country) {
		return false
	}
	if f.budgetTier != "" && budget.Infer(d.Amenities()) != f.budgetTier {
		return false
	}
	if f.season != "" && !d.HasSeason(f.season) {
		return false
	}
	return true
}
