// Package budget infers a destination's price tier from its amenities.
package budget

import "strings"

// Tier is an inferred price bracket.
type Tier string

// Tier constants.
const (
	Luxury   Tier = "Luxury"
	MidRange Tier = "Mid-Range"
	Economy  Tier = "Budget-Friendly"
)

// Keyword sets are matched as substrings of lowercased amenity phrases, so
// "overwater villas" hits "villa" and "luxury resorts" hits "resort".
var (
	luxuryKeywords  = []string{"luxury", "resort", "5-star", "exclusive", "premium", "overwater", "villa", "spa", "private", "concierge"}
	economyKeywords = []string{"campground", "hostel", "budget", "affordable", "cheap", "camping"}
)

// Infer classifies amenities into a Tier. Pure and deterministic: luxury
// keywords are checked first, so a destination listing both a spa and a
// campground is Luxury. No keyword match means Mid-Range.
func Infer(amenities []string) Tier {
	if matchAny(amenities, luxuryKeywords) {
		return Luxury
	}
	if matchAny(amenities, economyKeywords) {
		return Economy
	}
	return MidRange
}

// Parse validates a raw tier name ("" means no filter).
func Parse(s string) (Tier, bool) {
	switch Tier(s) {
	case Luxury, MidRange, Economy:
		return Tier(s), true
	}
	return "", false
}

func matchAny(amenities, keywords []string) bool {
	for _, a := range amenities {
		lower := strings.ToLower(a)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}
