package aspect

import "testing"

func TestParse_Valid(t *testing.T) {
	for _, name := range []string{"activities", "scenery", "amenities", "location"} {
		a, err := Parse(name)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", name, err)
		}
		if string(a) != name {
			t.Errorf("Parse(%q) = %q", name, a)
		}
	}
}

func TestParse_Unknown(t *testing.T) {
	for _, name := range []string{"", "Activities", "weather", "activites"} {
		if _, err := Parse(name); err == nil {
			t.Errorf("Parse(%q) should fail", name)
		}
	}
}

func TestAll_CanonicalOrder(t *testing.T) {
	all := All()
	want := [Count]Aspect{Activities, Scenery, Amenities, Location}
	if all != want {
		t.Errorf("All() = %v, want %v", all, want)
	}
}
