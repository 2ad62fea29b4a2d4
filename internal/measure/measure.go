// Package measure translates between real-world distance, surface data
// distance and physical output length.
package measure

import (
	"fmt"
	"math"

	"mapdecor/internal/crs"
	"mapdecor/internal/diag"
	"mapdecor/internal/surface"
)

// PointsPerInch is the typographic point size.
const PointsPerInch = 72.0

// ProjectDistance returns the meters between two points given in c's native
// coordinates: geodesic for geographic systems, planar otherwise.
func ProjectDistance(p crs.Provider, a, b crs.Point, c *crs.CRS) (float64, error) {
	switch {
	case c == nil:
		return 0, fmt.Errorf("distance: %w", diag.ErrUnsupportedCRS)
	case c.Geographic:
		return p.Distance(a, b), nil
	case c.Unit.IsZero():
		return 0, fmt.Errorf("distance in %s without linear unit: %w", c, diag.ErrUnsupportedCRS)
	default:
		return c.Unit.ToMeters(math.Hypot(b.X-a.X, b.Y-a.Y)), nil
	}
}

// PhysicalLength converts a pseudo-unit length along one axis to inches.
func PhysicalLength(value float64, u crs.PseudoUnit, vp surface.Viewport, vertical bool) (float64, error) {
	switch u {
	case crs.Pixel:
		return value / vp.DPI, nil
	case crs.PrinterPoint:
		return value / PointsPerInch, nil
	case crs.AxisUnit:
		return value / vp.DataPerInch(vertical), nil
	}
	return 0, fmt.Errorf("pseudo unit %d: %w", u, diag.ErrUnsupportedCRS)
}

// PseudoLength is the inverse of PhysicalLength.
func PseudoLength(inches float64, u crs.PseudoUnit, vp surface.Viewport, vertical bool) (float64, error) {
	switch u {
	case crs.Pixel:
		return inches * vp.DPI, nil
	case crs.PrinterPoint:
		return inches * PointsPerInch, nil
	case crs.AxisUnit:
		return inches * vp.DataPerInch(vertical), nil
	}
	return 0, fmt.Errorf("pseudo unit %d: %w", u, diag.ErrUnsupportedCRS)
}

// IsVertical reports whether a bar rotated by rotation degrees runs along
// the vertical axis, i.e. the nearest quarter turn is odd.
func IsVertical(rotation float64) bool {
	q := int(math.RoundToEven(rotation / 90))
	return q%2 != 0
}

// AxisExtent measures the visible extent along the bar axis between the
// two edge midpoints. Real frames answer in meters; pseudo frames in
// pixels, points or data units.
func AxisExtent(p crs.Provider, vp surface.Viewport, f crs.Frame, vertical bool) (float64, diag.List, error) {
	if f.IsPseudo() {
		d, err := PseudoLength(vp.Inches(vertical), f.Pseudo(), vp, vertical)
		return d, nil, err
	}

	c := f.CRS()
	a, b := vp.EdgeMidpoints(vertical)
	d, err := ProjectDistance(p, a, b, c)
	if err != nil {
		return 0, nil, err
	}

	var diags diag.List
	if c.Geographic {
		diags = append(diags, diag.Infof(diag.DegreeCRS,
			"%s is in degrees; extent measured along the geodesic between edge midpoints", c))
	}
	return d, diags, nil
}
