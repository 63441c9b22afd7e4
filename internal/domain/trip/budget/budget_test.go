package budget

import "testing"

func TestInfer(t *testing.T) {
	tests := []struct {
		name      string
		amenities []string
		want      Tier
	}{
		{"luxury keywords", []string{"overwater villas", "spa"}, Luxury},
		{"economy keywords", []string{"campgrounds", "hostel"}, Economy},
		{"no keywords", []string{"restaurants", "visitor centers"}, MidRange},
		{"luxury wins over economy", []string{"campground", "luxury resort"}, Luxury},
		{"case insensitive", []string{"LUXURY RESORTS"}, Luxury},
		{"substring match", []string{"private beach access"}, Luxury},
		{"empty amenities", nil, MidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Infer(tt.amenities); got != tt.want {
				t.Errorf("Infer(%v) = %q, want %q", tt.amenities, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	for _, valid := range []string{"Luxury", "Mid-Range", "Budget-Friendly"} {
		if _, ok := Parse(valid); !ok {
			t.Errorf("Parse(%q) rejected a valid tier", valid)
		}
	}
	for _, invalid := range []string{"", "luxury", "cheap", "Mid Range"} {
		if _, ok := Parse(invalid); ok {
			t.Errorf("Parse(%q) accepted an invalid tier", invalid)
		}
	}
}
