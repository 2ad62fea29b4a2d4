package inset

import (
	"fmt"
	"strings"

	"mapdecor/internal/diag"
	"mapdecor/internal/surface"
)

// Location names where an inset sits inside its parent.
type Location int

const (
	UpperRight Location = iota
	UpperLeft
	LowerLeft
	LowerRight
	CenterLeft
	CenterRight
	LowerCenter
	UpperCenter
	Center
)

var locationNames = [...]string{
	UpperRight:  "upper right",
	UpperLeft:   "upper left",
	LowerLeft:   "lower left",
	LowerRight:  "lower right",
	CenterLeft:  "center left",
	CenterRight: "center right",
	LowerCenter: "lower center",
	UpperCenter: "upper center",
	Center:      "center",
}

func (l Location) String() string {
	if l < 0 || int(l) >= len(locationNames) {
		return "unknown"
	}
	return locationNames[l]
}

// ParseLocation accepts "upper right", "upper-right" or "upper_right".
func ParseLocation(s string) (Location, error) {
	key := strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(strings.TrimSpace(s)))
	for i, name := range locationNames {
		if name == key {
			return Location(i), nil
		}
	}
	return 0, fmt.Errorf("unknown inset location %q", s)
}

// Default inset size and padding, inches.
const (
	DefaultSize = 2.0
	DefaultPad  = 0.25
)

// Place returns the inset rectangle of width x height inches, kept pad
// inches from the parent's edges at the given location.
func Place(parent surface.Rect, loc Location, width, height, pad float64) (surface.Rect, error) {
	if !(width > 0) || !(height > 0) || pad < 0 {
		return surface.Rect{}, fmt.Errorf("inset %gx%g pad %g: %w", width, height, pad, diag.ErrInvalidMagnitude)
	}

	r := surface.Rect{Width: width, Height: height}
	switch loc {
	case UpperLeft, CenterLeft, LowerLeft:
		r.X = parent.X + pad
	case UpperCenter, Center, LowerCenter:
		r.X = parent.X + (parent.Width-width)/2
	case UpperRight, CenterRight, LowerRight:
		r.X = parent.X + parent.Width - width - pad
	default:
		return surface.Rect{}, fmt.Errorf("unknown inset location %d", loc)
	}

	switch loc {
	case UpperLeft, UpperCenter, UpperRight:
		r.Y = parent.Y + parent.Height - height - pad
	case CenterLeft, Center, CenterRight:
		r.Y = parent.Y + (parent.Height-height)/2
	default:
		r.Y = parent.Y + pad
	}
	return r, nil
}
