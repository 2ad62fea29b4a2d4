// Package crs provides coordinate reference systems, the frames a surface can
// be measured in, and reprojection between them through WGS84.
package crs

import (
	"fmt"
	"math"

	"mapdecor/internal/units"
)

// Point is a coordinate pair in some frame. For geographic systems X is
// longitude and Y is latitude, both in degrees.
type Point struct {
	X, Y float64
}

// Bounds is an axis-aligned box.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Clamp returns the point of b nearest to p.
func (b Bounds) Clamp(p Point) Point {
	return Point{
		X: math.Max(b.MinX, math.Min(p.X, b.MaxX)),
		Y: math.Max(b.MinY, math.Min(p.Y, b.MaxY)),
	}
}

// Converter maps a point between a CRS and WGS84 lon/lat. ok is false when
// the point has no image (outside the projection's domain).
type Converter func(p Point) (q Point, ok bool)

// CRS is a coordinate reference system defined by its relation to WGS84.
type CRS struct {
	EPSG       string
	Name       string
	Geographic bool
	Unit       units.Unit // linear unit; zero for geographic systems
	Forward    Converter  // WGS84 lon/lat -> CRS
	Inverse    Converter  // CRS -> WGS84 lon/lat
	Domain     Bounds     // WGS84 lon/lat region the CRS can represent
}

func (c *CRS) String() string {
	return c.EPSG
}

// Same reports whether a and b are the same system: one value, or two values
// carrying the same EPSG code.
func Same(a, b *CRS) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a == b || (a.EPSG != "" && a.EPSG == b.EPSG)
}

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi

	// WGS84 / GRS80 ellipsoid
	semiMajor  = 6378137.0
	flattening = 1 / 298.257223563
)

var eccSq = flattening * (2 - flattening)

func identity(p Point) (Point, bool) { return p, true }

// WGS84 is EPSG:4326, longitude/latitude in degrees.
var WGS84 = &CRS{
	EPSG:       "EPSG:4326",
	Name:       "WGS 84",
	Geographic: true,
	Forward:    identity,
	Inverse:    identity,
	Domain:     Bounds{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90},
}

const mercatorPole = 20037508.34

// WebMercator is EPSG:3857.
var WebMercator = &CRS{
	EPSG: "EPSG:3857",
	Name: "WGS 84 / Pseudo-Mercator",
	Unit: units.Meter,
	Forward: func(p Point) (Point, bool) {
		if math.Abs(p.Y) >= 90 {
			return Point{}, false
		}
		x := mercatorPole / 180.0 * p.X
		y := math.Log(math.Tan((90.0+p.Y)*math.Pi/360.0)) / math.Pi * mercatorPole
		y = math.Max(-mercatorPole, math.Min(y, mercatorPole))
		return Point{X: x, Y: y}, true
	},
	Inverse: func(p Point) (Point, bool) {
		x := p.X * 180.0 / mercatorPole
		y := 180.0 / math.Pi * (2*math.Atan(math.Exp((p.Y/mercatorPole)*math.Pi)) - math.Pi/2.0)
		return Point{X: x, Y: y}, true
	},
	Domain: Bounds{MinX: -180, MinY: -85.06, MaxX: 180, MaxY: 85.06},
}

// Lookup resolves an EPSG code ("EPSG:32633", "epsg:4326", "3857") or a
// registered name to a built-in CRS.
func Lookup(code string) (*CRS, error) {
	return registry.lookup(code)
}

// MustLookup is Lookup for codes known at compile time.
func MustLookup(code string) *CRS {
	c, err := Lookup(code)
	if err != nil {
		panic(fmt.Sprintf("crs: %v", err))
	}
	return c
}
