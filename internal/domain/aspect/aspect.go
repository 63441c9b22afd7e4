package aspect

import "fmt"

// Aspect is one of the four independently scored match dimensions.
type Aspect string

// Aspect constants.
const (
	// Activities covers what a traveller can do there, including nearby attractions.
	Activities Aspect = "activities"
	Scenery    Aspect = "scenery"
	Amenities  Aspect = "amenities"
	Location   Aspect = "location"
)

// Count is the number of recognized aspects.
const Count = 4

// All returns the aspects in their canonical scoring order.
func All() [Count]Aspect {
	return [Count]Aspect{Activities, Scenery, Amenities, Location}
}

// IsValid checks if the aspect is one of the recognized values.
func (a Aspect) IsValid() bool {
	return a == Activities || a == Scenery || a == Amenities || a == Location
}

// Parse validates a raw aspect name.
func Parse(s string) (Aspect, error) {
	a := Aspect(s)
	if !a.IsValid() {
		return "", fmt.Errorf("unknown aspect %q", s)
	}
	return a, nil
}
