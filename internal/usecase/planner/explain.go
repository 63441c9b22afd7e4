package planner

import (
	"fmt"
	"strings"

	"github.com/roamkit/tripdex/internal/domain"
	"github.com/roamkit/tripdex/internal/domain/aspect"
	"github.com/roamkit/tripdex/internal/domain/trip/weights"
)

// dominantShareFloor is the minimum share of the combined score an aspect
// needs to be called dominant on its own.
const dominantShareFloor = 0.35

// nearTopMargin widens the dominant set to aspects whose contribution is
// within this fraction of the largest one, so "scenery and activities"
// reads better than crowning one of two near-equal drivers.
const nearTopMargin = 0.05

// dominantAspects returns the aspects that drove the combined score, in
// canonical order. Contributions are weight x similarity, the same terms
// the combined score sums. Empty when the combined score is not positive
// (all-zero weights, or a query dissimilar to everything).
func dominantAspects(norm weights.Weights, scores map[aspect.Aspect]float64, combined float64) []aspect.Aspect {
	if combined <= 0 {
		return nil
	}

	var top float64
	for _, a := range aspect.All() {
		if c := norm.Get(a) * scores[a]; c > top {
			top = c
		}
	}

	var dominant []aspect.Aspect
	for _, a := range aspect.All() {
		c := norm.Get(a) * scores[a]
		if c <= 0 {
			continue
		}
		if c >= top-nearTopMargin*top || c/combined >= dominantShareFloor {
			dominant = append(dominant, a)
		}
	}
	return dominant
}

// explanation phrases the score drivers as one human-readable sentence.
func explanation(d domain.Destination, dominant []aspect.Aspect, combined float64) string {
	if len(dominant) == 0 {
		return fmt.Sprintf("%s scored %.3f with the given weights; no single aspect stands out.",
			d.Name(), combined)
	}

	names := make([]string, len(dominant))
	for i, a := range dominant {
		names[i] = string(a)
	}

	var listed string
	switch len(names) {
	case 1:
		listed = names[0]
	case 2:
		listed = names[0] + " and " + names[1]
	default:
		listed = strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}

	return fmt.Sprintf("%s matches your query mainly on %s (combined score %.3f).",
		d.Name(), listed, combined)
}

// matchingPhrases returns catalog phrases sharing a literal term with the
// query, labelled by the field they came from. Purely cosmetic: the
// semantic scores above decide the ranking, this just gives the reader
// something concrete to recognize.
func matchingPhrases(query string, d domain.Destination) []string {
	terms := queryTerms(query)
	var out []string
	collect := func(label string, phrases []string) {
		for _, p := range phrases {
			lower := strings.ToLower(p)
			for term := range terms {
				if strings.Contains(lower, term) {
					out = append(out, label+": "+p)
					break
				}
			}
		}
	}
	collect("Activity", d.Activities())
	collect("Scenery", d.Scenery())
	collect("Amenity", d.Amenities())
	return out
}

// queryTerms lowercases and splits the query, dropping words too short to
// be meaningful matches.
func queryTerms(query string) map[string]bool {
	terms := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(query)) {
		w = strings.Trim(w, ".,!?;:\"'()")
		if len(w) >= 3 {
			terms[w] = true
		}
	}
	return terms
}
