// Package northarrow finds the rotation that points a marker at true north.
package northarrow

import (
	"fmt"
	"math"

	"mapdecor/internal/crs"
	"mapdecor/internal/diag"
	"mapdecor/internal/surface"
)

// Offset is the northward step, in degrees of latitude, used to sample the
// direction of the meridian.
const Offset = 0.01

const poleTolerance = 1e-9

// Result is the marker rotation in degrees, clockwise-positive, 0 = up.
type Result struct {
	Angle       float64
	Diagnostics diag.List
}

// Reference locates the point the bearing is measured at.
type Reference interface {
	Point(vp surface.Viewport) crs.Point
}

// Center is the middle of the visible region.
type Center struct{}

// Axis is a position in axes fractions, (0,0) bottom-left.
type Axis struct {
	Fx, Fy float64
}

// Data is a position in data coordinates.
type Data struct {
	X, Y float64
}

func (Center) Point(vp surface.Viewport) crs.Point { return vp.Center() }

func (a Axis) Point(vp surface.Viewport) crs.Point {
	return vp.AxesToData(crs.Point{X: a.Fx, Y: a.Fy})
}

func (d Data) Point(surface.Viewport) crs.Point { return crs.Point{X: d.X, Y: d.Y} }

func degenerate(format string, args ...interface{}) Result {
	return Result{Diagnostics: diag.List{diag.Warnf(diag.DegenerateBearing, format, args...)}}
}

// Solve computes the bearing at ref, given in f's coordinates.
func Solve(p crs.Provider, ref crs.Point, f crs.Frame) (Result, error) {
	if f.IsPseudo() {
		return Result{}, fmt.Errorf("bearing in %s frame: %w", f, diag.ErrUnsupportedCRS)
	}
	c := f.CRS()

	ll, err := p.Reproject(ref, c, crs.WGS84)
	if err != nil {
		return degenerate("%v has no geographic position in %s", ref, c), nil
	}
	if math.Abs(ll.Y) >= 90-poleTolerance {
		return degenerate("%v in %s is at a pole", ref, c), nil
	}

	// step south and flip when north would cross the pole
	sign := 1.0
	north := crs.Point{X: ll.X, Y: ll.Y + Offset}
	if north.Y > 90 {
		sign = -1
		north.Y = ll.Y - Offset
	}

	q, err := p.Reproject(north, crs.WGS84, c)
	if err != nil {
		return degenerate("projection undefined north of %v in %s", ref, c), nil
	}
	// both ends of the vector come from the same forward projection
	base, err := p.Reproject(ll, crs.WGS84, c)
	if err != nil {
		return degenerate("projection undefined at %v in %s", ref, c), nil
	}

	dx, dy := sign*(q.X-base.X), sign*(q.Y-base.Y)
	if math.Hypot(dx, dy) == 0 {
		return degenerate("zero-length north vector at %v in %s", ref, c), nil
	}
	return Result{Angle: math.Atan2(dx, dy) * 180 / math.Pi}, nil
}

// SolveAt resolves ref against the viewport and solves there.
func SolveAt(p crs.Provider, ref Reference, vp surface.Viewport, f crs.Frame) (Result, error) {
	return Solve(p, ref.Point(vp), f)
}
