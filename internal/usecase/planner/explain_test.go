package planner

import (
	"strings"
	"testing"

	"github.com/roamkit/tripdex/internal/domain"
	"github.com/roamkit/tripdex/internal/domain/aspect"
	"github.com/roamkit/tripdex/internal/domain/trip/weights"
)

func mustWeights(t *testing.T, raw map[string]float64) weights.Weights {
	t.Helper()
	w, err := weights.FromMap(raw)
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	return w.Normalized()
}

func TestDominantAspects_SingleDriver(t *testing.T) {
	norm := mustWeights(t, map[string]float64{"activities": 0.9, "scenery": 0.1})
	scores := map[aspect.Aspect]float64{
		aspect.Activities: 0.8,
		aspect.Scenery:    0.2,
	}
	combined := 0.9*0.8 + 0.1*0.2

	got := dominantAspects(norm, scores, combined)
	if len(got) != 1 || got[0] != aspect.Activities {
		t.Errorf("dominantAspects = %v, want [activities]", got)
	}
}

func TestDominantAspects_NearTiedPair(t *testing.T) {
	norm := mustWeights(t, map[string]float64{"activities": 0.5, "scenery": 0.5})
	scores := map[aspect.Aspect]float64{
		aspect.Activities: 0.80,
		aspect.Scenery:    0.79,
	}
	combined := 0.5*0.80 + 0.5*0.79

	got := dominantAspects(norm, scores, combined)
	if len(got) != 2 || got[0] != aspect.Activities || got[1] != aspect.Scenery {
		t.Errorf("dominantAspects = %v, want [activities scenery] in canonical order", got)
	}
}

func TestDominantAspects_NonPositiveCombined(t *testing.T) {
	norm := mustWeights(t, map[string]float64{"activities": 1})
	if got := dominantAspects(norm, map[aspect.Aspect]float64{aspect.Activities: -0.2}, -0.2); got != nil {
		t.Errorf("dominantAspects with negative combined = %v, want nil", got)
	}
	if got := dominantAspects(weights.Weights{}, nil, 0); got != nil {
		t.Errorf("dominantAspects with zero combined = %v, want nil", got)
	}
}

func TestExplanation(t *testing.T) {
	d, err := domain.NewDestination(
		"Coral Bay", "", "", "Australia", "Reef town.",
		[]string{"snorkeling"}, nil, nil, nil, "", nil, nil,
	)
	if err != nil {
		t.Fatal(err)
	}

	one := explanation(d, []aspect.Aspect{aspect.Scenery}, 0.812)
	if !strings.Contains(one, "Coral Bay") || !strings.Contains(one, "scenery") || !strings.Contains(one, "0.812") {
		t.Errorf("single-aspect explanation = %q", one)
	}

	two := explanation(d, []aspect.Aspect{aspect.Activities, aspect.Scenery}, 0.5)
	if !strings.Contains(two, "activities and scenery") {
		t.Errorf("two-aspect explanation = %q", two)
	}

	three := explanation(d, []aspect.Aspect{aspect.Activities, aspect.Scenery, aspect.Location}, 0.5)
	if !strings.Contains(three, "activities, scenery, and location") {
		t.Errorf("three-aspect explanation = %q", three)
	}

	none := explanation(d, nil, 0)
	if !strings.Contains(none, "no single aspect stands out") {
		t.Errorf("empty-dominant explanation = %q", none)
	}
}

func TestMatchingPhrases(t *testing.T) {
	d, err := domain.NewDestination(
		"Coral Bay", "", "", "Australia", "Reef town.",
		[]string{"Snorkeling the reef", "Kayak rentals"},
		[]string{"Turquoise lagoons"},
		[]string{"Beachfront cafes"},
		nil, "", nil, nil,
	)
	if err != nil {
		t.Fatal(err)
	}

	got := matchingPhrases("snorkeling in turquoise water", d)
	want := []string{"Activity: Snorkeling the reef", "Scenery: Turquoise lagoons"}
	if len(got) != len(want) {
		t.Fatalf("matchingPhrases = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("matchingPhrases[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMatchingPhrases_ShortTermsIgnored(t *testing.T) {
	d, err := domain.NewDestination(
		"Coral Bay", "", "", "Australia", "Reef town.",
		[]string{"go up the hill"}, nil, nil, nil, "", nil, nil,
	)
	if err != nil {
		t.Fatal(err)
	}
	if got := matchingPhrases("go up", d); got != nil {
		t.Errorf("two-letter query terms matched: %v", got)
	}
}

func TestQueryTerms_TrimsPunctuation(t *testing.T) {
	terms := queryTerms("Beaches, sunsets! (and spas?)")
	for _, want := range []string{"beaches", "sunsets", "and", "spas"} {
		if !terms[want] {
			t.Errorf("missing term %q in %v", want, terms)
		}
	}
}
