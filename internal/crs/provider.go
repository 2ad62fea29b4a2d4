package crs

import (
	"fmt"

	"mapdecor/internal/diag"
	"mapdecor/internal/geodesy"
)

// Provider is the reprojection and geodesic capability the solvers depend on.
type Provider interface {
	// Reproject maps p from one CRS to another.
	Reproject(p Point, from, to *CRS) (Point, error)
	// Distance returns meters between two WGS84 lon/lat points.
	Distance(a, b Point) float64
}

type provider struct {
	geodesic geodesy.Geodesic
}

// NewProvider returns the built-in Provider. A nil geodesic selects the
// WGS84 ellipsoid.
func NewProvider(g geodesy.Geodesic) Provider {
	if g == nil {
		g = geodesy.Ellipsoid()
	}
	return &provider{geodesic: g}
}

func (pr *provider) Reproject(p Point, from, to *CRS) (Point, error) {
	if from == nil || to == nil {
		return Point{}, fmt.Errorf("reproject: %w", diag.ErrUnsupportedCRS)
	}
	if Same(from, to) {
		return p, nil
	}
	ll, ok := from.Inverse(p)
	if !ok {
		return Point{}, fmt.Errorf("%v in %s to lon/lat: %w", p, from, diag.ErrProjectionFailure)
	}
	q, ok := to.Forward(ll)
	if !ok {
		return Point{}, fmt.Errorf("lon/lat %v to %s: %w", ll, to, diag.ErrProjectionFailure)
	}
	return q, nil
}

func (pr *provider) Distance(a, b Point) float64 {
	return pr.geodesic.Distance(a.X, a.Y, b.X, b.Y)
}
