// Package vision defines the signal-sleeve classifier contract.
package vision

import (
	"fmt"
	"strings"
)

// Location is the parking zone read from the signal sleeve.
type Location string

const (
	Left   Location = "LEFT"
	Middle Location = "MIDDLE"
	Right  Location = "RIGHT"
)

// Locations returns every location in field order.
func Locations() []Location {
	return []Location{Left, Middle, Right}
}

// ParseLocation accepts a location name in any case.
func ParseLocation(s string) (Location, error) {
	for _, l := range Locations() {
		if strings.EqualFold(string(l), s) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown location %q", s)
}

// Sensor classifies the current camera view. Classify is cheap and may be
// called every tick.
type Sensor interface {
	Classify() Location
}

// Fixed is a Sensor that always reports the same location.
type Fixed Location

func (f Fixed) Classify() Location { return Location(f) }

