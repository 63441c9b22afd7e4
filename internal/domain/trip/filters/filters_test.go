package filters

import (
	"testing"

	"github.com/roamkit/tripdex/internal/domain"
	"github.com/roamkit/tripdex/internal/domain/trip/budget"
)

func dest(t *testing.T, name, country string, amenities, seasons []string) domain.Destination {
	t.Helper()
	d, err := domain.NewDestination(
		name, "", "", country, "A destination.",
		[]string{"hiking"}, nil, amenities, seasons,
		"", nil, nil,
	)
	if err != nil {
		t.Fatalf("NewDestination(%q): %v", name, err)
	}
	return d
}

func TestNew_Validation(t *testing.T) {
	if _, err := New("Japan", "Luxury", "winter"); err != nil {
		t.Errorf("valid filters rejected: %v", err)
	}
	if _, err := New("", "Cheap", ""); err == nil {
		t.Error("unknown budget tier accepted")
	}
	if _, err := New("", "", "monsoon"); err == nil {
		t.Error("unknown season accepted")
	}
	f, err := New("", "", "")
	if err != nil {
		t.Fatalf("empty filters rejected: %v", err)
	}
	if !f.IsEmpty() {
		t.Error("empty filters should report IsEmpty")
	}
}

func TestMatches_Country(t *testing.T) {
	d := dest(t, "Kyoto", "Japan", nil, nil)
	f, _ := New("japan", "", "")
	if !f.Matches(d) {
		t.Error("country match should be case-insensitive")
	}
	f, _ = New("Italy", "", "")
	if f.Matches(d) {
		t.Error("non-matching country passed")
	}
}

func TestMatches_BudgetTier(t *testing.T) {
	lux := dest(t, "Bora Bora", "French Polynesia", []string{"overwater villas"}, nil)
	mid := dest(t, "Banff", "Canada", []string{"visitor centers"}, nil)

	f, _ := New("", string(budget.Luxury), "")
	if !f.Matches(lux) {
		t.Error("luxury destination should pass Luxury filter")
	}
	if f.Matches(mid) {
		t.Error("mid-range destination passed Luxury filter")
	}
}

func TestMatches_Season(t *testing.T) {
	d := dest(t, "Banff", "Canada", nil, []string{"Summer", "Fall"})
	f, _ := New("", "", "summer")
	if !f.Matches(d) {
		t.Error("season match should be case-insensitive")
	}
	f, _ = New("", "", "winter")
	if f.Matches(d) {
		t.Error("unlisted season passed")
	}
}

func TestMatches_AllConstraintsMustPass(t *testing.T) {
	d := dest(t, "Maldives", "Maldives", []string{"spa"}, []string{"Winter"})
	f, err := New("Maldives", string(budget.Luxury), "winter")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !f.Matches(d) {
		t.Error("destination meeting every constraint was excluded")
	}
	f, _ = New("Maldives", string(budget.Economy), "winter")
	if f.Matches(d) {
		t.Error("destination failing one constraint passed")
	}
}

func TestMatches_EmptyPassesEverything(t *testing.T) {
	var f Filters
	if !f.Matches(dest(t, "Anywhere", "Nowhere", nil, nil)) {
		t.Error("zero-value filters should pass every destination")
	}
}
