// Package geodesy measures distances on the earth's surface between points
// given as longitude/latitude in degrees.
package geodesy

import (
	"math"

	"github.com/StefanSchroeder/Golang-Ellipsoid/ellipsoid"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// MeanEarthRadius is the IUGG mean radius in meters.
const MeanEarthRadius = 6371008.8

// Geodesic computes surface distances and destinations.
type Geodesic interface {
	// Distance returns meters between two lon/lat points.
	Distance(lon1, lat1, lon2, lat2 float64) float64
	// Destination walks distance meters from lon/lat along bearing
	// (degrees clockwise from north) and returns the lon/lat reached.
	Destination(lon, lat, distance, bearing float64) (float64, float64)
}

// WGS84 solves on the WGS84 ellipsoid (Vincenty).
type WGS84 struct {
	e ellipsoid.Ellipsoid
}

// Ellipsoid returns the WGS84 ellipsoidal geodesic.
func Ellipsoid() *WGS84 {
	return &WGS84{
		e: ellipsoid.Init("WGS84", ellipsoid.Degrees, ellipsoid.Meter,
			ellipsoid.LongitudeIsSymmetric, ellipsoid.BearingIsSymmetric),
	}
}

func (w *WGS84) Distance(lon1, lat1, lon2, lat2 float64) float64 {
	if lon1 == lon2 && lat1 == lat2 {
		return 0
	}
	d, _ := w.e.To(lat1, lon1, lat2, lon2)
	return d
}

func (w *WGS84) Destination(lon, lat, distance, bearing float64) (float64, float64) {
	lat2, lon2 := w.e.At(lat, lon, distance, bearing)
	return lon2, lat2
}

// Spherical solves great circles on a sphere.
type Spherical struct {
	Radius float64
}

// Sphere returns a great-circle geodesic on the mean earth sphere.
func Sphere() *Spherical {
	return &Spherical{Radius: MeanEarthRadius}
}

func (s *Spherical) Distance(lon1, lat1, lon2, lat2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lon1)
	b := s2.LatLngFromDegrees(lat2, lon2)
	return a.Distance(b).Radians() * s.Radius
}

func (s *Spherical) Destination(lon, lat, distance, bearing float64) (float64, float64) {
	from := s2.LatLngFromDegrees(lat, lon)
	delta := distance / s.Radius
	theta := (s1.Angle(bearing) * s1.Degree).Radians()
	phi1 := from.Lat.Radians()
	lambda1 := from.Lng.Radians()

	phi2 := math.Asin(math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(theta))
	lambda2 := lambda1 + math.Atan2(math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*math.Sin(phi2))

	to := s2.LatLng{Lat: s1.Angle(phi2), Lng: s1.Angle(lambda2)}.Normalized()
	return to.Lng.Degrees(), to.Lat.Degrees()
}
