// Package units converts lengths between the units a scale bar can be
// labelled in. Every conversion goes through meters.
package units

import (
	"fmt"
	"math"
	"strings"

	"mapdecor/internal/diag"
)

// Unit is a linear unit with its size in meters.
type Unit struct {
	Name   string  // canonical name, e.g. "kilometer"
	Symbol string  // label drawn next to the bar, e.g. "km"
	Meters float64 // size of one unit in meters
}

var (
	Meter        = Unit{Name: "meter", Symbol: "m", Meters: 1}
	Kilometer    = Unit{Name: "kilometer", Symbol: "km", Meters: 1000}
	Foot         = Unit{Name: "foot", Symbol: "ft", Meters: 0.3048}
	USSurveyFoot = Unit{Name: "us-survey-foot", Symbol: "ft", Meters: 1200.0 / 3937.0}
	Yard         = Unit{Name: "yard", Symbol: "yd", Meters: 0.9144}
	Mile         = Unit{Name: "mile", Symbol: "mi", Meters: 1609.344}
	NauticalMile = Unit{Name: "nautical-mile", Symbol: "nmi", Meters: 1852}
)

// aliases maps accepted spellings to units. "nm" is deliberately absent:
// it reads as nanometers.
var aliases = map[string]Unit{
	"m": Meter, "meter": Meter, "metre": Meter, "meters": Meter, "metres": Meter,
	"km": Kilometer, "kilometer": Kilometer, "kilometre": Kilometer, "kilometers": Kilometer, "kilometres": Kilometer,
	"ft": Foot, "foot": Foot, "feet": Foot,
	"ftus": USSurveyFoot, "us-ft": USSurveyFoot, "us survey foot": USSurveyFoot, "us-survey-foot": USSurveyFoot,
	"yd": Yard, "yard": Yard, "yards": Yard,
	"mi": Mile, "mile": Mile, "miles": Mile,
	"nmi": NauticalMile, "nautical": NauticalMile, "nautical mile": NauticalMile,
	"nautical miles": NauticalMile, "nautical-mile": NauticalMile,
}

// Custom defines a named unit from its size in meters.
func Custom(name string, meters float64) (Unit, error) {
	if !(meters > 0) || math.IsInf(meters, 0) {
		return Unit{}, fmt.Errorf("unit %q of %v meters: %w", name, meters, diag.ErrInvalidMagnitude)
	}
	return Unit{Name: name, Symbol: name, Meters: meters}, nil
}

// Parse resolves a unit name or alias, case-insensitively.
func Parse(name string) (Unit, error) {
	u, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Unit{}, fmt.Errorf("%q: %w", name, diag.ErrUnknownUnit)
	}
	return u, nil
}

// IsZero reports whether u is the zero Unit, which callers use for "not set".
func (u Unit) IsZero() bool {
	return u.Meters == 0
}

// ToMeters converts v units to meters.
func (u Unit) ToMeters(v float64) float64 {
	return v * u.Meters
}

// FromMeters converts v meters to this unit.
func (u Unit) FromMeters(v float64) float64 {
	return v / u.Meters
}

// Convert converts v from u to the target unit.
func (u Unit) Convert(v float64, to Unit) float64 {
	if u == to {
		return v
	}
	return to.FromMeters(u.ToMeters(v))
}

func (u Unit) String() string {
	return u.Symbol
}

// Convert converts a value between two named units.
func Convert(v float64, from, to string) (float64, error) {
	fu, err := Parse(from)
	if err != nil {
		return 0, err
	}
	tu, err := Parse(to)
	if err != nil {
		return 0, err
	}
	return fu.Convert(v, tu), nil
}

// Auto picks a label unit when the caller did not ask for one: meters above
// 5 km become kilometers, feet above 5 miles become miles.
func Auto(native Unit, extent float64) Unit {
	switch native.Meters {
	case Meter.Meters:
		if extent > 5*1000 {
			return Kilometer
		}
	case Foot.Meters, USSurveyFoot.Meters:
		if native.Convert(extent, Foot) > 5*5280 {
			return Mile
		}
	}
	return native
}
