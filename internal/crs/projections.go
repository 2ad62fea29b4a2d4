package crs

import (
	"fmt"
	"math"

	"mapdecor/internal/units"
)

// normalizeLon wraps a longitude in degrees into [-180, 180).
func normalizeLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// conformalT is Snyder's t(φ), shared by the stereographic and conic forms.
func conformalT(phi float64) float64 {
	e := math.Sqrt(eccSq)
	es := e * math.Sin(phi)
	return math.Tan(math.Pi/4-phi/2) / math.Pow((1-es)/(1+es), e/2)
}

// conformalM is Snyder's m(φ).
func conformalM(phi float64) float64 {
	s := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-eccSq*s*s)
}

// latitudeFromT inverts conformalT by fixed-point iteration.
func latitudeFromT(t float64) float64 {
	e := math.Sqrt(eccSq)
	phi := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < 15; i++ {
		es := e * math.Sin(phi)
		phi = math.Pi/2 - 2*math.Atan(t*math.Pow((1-es)/(1+es), e/2))
	}
	return phi
}

// meridianArc is the distance from the equator to latitude φ along a meridian.
func meridianArc(phi float64) float64 {
	e2 := eccSq
	e4 := e2 * e2
	e6 := e4 * e2
	return semiMajor * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}

// transverseMercator builds the Snyder series form of the ellipsoidal
// transverse Mercator with latitude of origin 0.
func transverseMercator(lon0, k0, falseEasting, falseNorthing float64) (Converter, Converter) {
	e2 := eccSq
	ep2 := e2 / (1 - e2)
	lam0 := lon0 * degToRad

	forward := func(p Point) (Point, bool) {
		if math.Abs(p.Y) > 89.999 || math.Abs(normalizeLon(p.X-lon0)) > 90 {
			return Point{}, false
		}
		phi := p.Y * degToRad
		lam := normalizeLon(p.X-lon0) * degToRad

		sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
		n := semiMajor / math.Sqrt(1-e2*sinPhi*sinPhi)
		t := math.Tan(phi) * math.Tan(phi)
		c := ep2 * cosPhi * cosPhi
		a := lam * cosPhi

		x := k0 * n * (a + (1-t+c)*a*a*a/6 +
			(5-18*t+t*t+72*c-58*ep2)*math.Pow(a, 5)/120)
		y := k0 * (meridianArc(phi) + n*math.Tan(phi)*(a*a/2+
			(5-t+9*c+4*c*c)*math.Pow(a, 4)/24+
			(61-58*t+t*t+600*c-330*ep2)*math.Pow(a, 6)/720))

		return Point{X: x + falseEasting, Y: y + falseNorthing}, true
	}

	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))
	inverse := func(p Point) (Point, bool) {
		m := (p.Y - falseNorthing) / k0
		mu := m / (semiMajor * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))
		phi1 := mu + (3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
			(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
			(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
			(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)
		if math.Abs(phi1) >= math.Pi/2 {
			return Point{}, false
		}

		sin1, cos1 := math.Sin(phi1), math.Cos(phi1)
		c1 := ep2 * cos1 * cos1
		t1 := math.Tan(phi1) * math.Tan(phi1)
		n1 := semiMajor / math.Sqrt(1-e2*sin1*sin1)
		r1 := semiMajor * (1 - e2) / math.Pow(1-e2*sin1*sin1, 1.5)
		d := (p.X - falseEasting) / (n1 * k0)

		phi := phi1 - (n1*math.Tan(phi1)/r1)*(d*d/2-
			(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24+
			(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)
		lam := lam0 + (d-(1+2*t1+c1)*math.Pow(d, 3)/6+
			(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120)/cos1

		return Point{X: normalizeLon(lam * radToDeg), Y: phi * radToDeg}, true
	}

	return forward, inverse
}

// UTM returns the WGS 84 / UTM CRS for a zone (1-60) and hemisphere.
func UTM(zone int, north bool) (*CRS, error) {
	if zone < 1 || zone > 60 {
		return nil, fmt.Errorf("utm zone %d out of range", zone)
	}
	lon0 := float64(-183 + 6*zone)
	code, hemi, fn := 32600+zone, "N", 0.0
	if !north {
		code, hemi, fn = 32700+zone, "S", 10000000.0
	}
	fwd, inv := transverseMercator(lon0, 0.9996, 500000, fn)
	return &CRS{
		EPSG:    fmt.Sprintf("EPSG:%d", code),
		Name:    fmt.Sprintf("WGS 84 / UTM zone %d%s", zone, hemi),
		Unit:    units.Meter,
		Forward: fwd,
		Inverse: inv,
		Domain:  Bounds{MinX: lon0 - 12, MinY: -80, MaxX: lon0 + 12, MaxY: 84},
	}, nil
}

// polarStereographic builds the ellipsoidal polar stereographic projection
// with standard parallel latTs. The south aspect mirrors the north one.
func polarStereographic(latTs, lon0 float64, north bool) (Converter, Converter) {
	s := 1.0
	if !north {
		s = -1
	}
	phic := math.Abs(latTs) * degToRad
	mc := conformalM(phic)
	tc := conformalT(phic)

	forward := func(p Point) (Point, bool) {
		phi := s * p.Y * degToRad
		if phi <= -math.Pi/2+1e-9 {
			return Point{}, false
		}
		dl := s * normalizeLon(p.X-lon0) * degToRad
		rho := semiMajor * mc * conformalT(phi) / tc
		return Point{X: s * rho * math.Sin(dl), Y: s * -rho * math.Cos(dl)}, true
	}

	inverse := func(p Point) (Point, bool) {
		x, y := s*p.X, s*p.Y
		rho := math.Hypot(x, y)
		t := rho * tc / (semiMajor * mc)
		phi := latitudeFromT(t)
		dl := 0.0
		if rho > 0 {
			dl = math.Atan2(x, -y)
		}
		return Point{X: normalizeLon(lon0 + s*dl*radToDeg), Y: s * phi * radToDeg}, true
	}

	return forward, inverse
}

// lambertConformalConic builds the two-standard-parallel ellipsoidal Lambert
// conformal conic. False origin is given in the output unit.
func lambertConformalConic(lat1, lat2, lat0, lon0, falseEasting, falseNorthing float64, unit units.Unit) (Converter, Converter) {
	phi1, phi2, phi0 := lat1*degToRad, lat2*degToRad, lat0*degToRad
	m1, m2 := conformalM(phi1), conformalM(phi2)
	t1, t2, t0 := conformalT(phi1), conformalT(phi2), conformalT(phi0)

	n := math.Log(m1/m2) / math.Log(t1/t2)
	f := m1 / (n * math.Pow(t1, n))
	rho0 := semiMajor * f * math.Pow(t0, n)

	forward := func(p Point) (Point, bool) {
		phi := p.Y * degToRad
		if phi <= -math.Pi/2+1e-9 {
			return Point{}, false
		}
		rho := semiMajor * f * math.Pow(conformalT(phi), n)
		theta := n * normalizeLon(p.X-lon0) * degToRad
		x := rho * math.Sin(theta)
		y := rho0 - rho*math.Cos(theta)
		return Point{X: unit.FromMeters(x) + falseEasting, Y: unit.FromMeters(y) + falseNorthing}, true
	}

	inverse := func(p Point) (Point, bool) {
		x := unit.ToMeters(p.X - falseEasting)
		y := unit.ToMeters(p.Y - falseNorthing)
		sign := math.Copysign(1, n)
		rho := sign * math.Hypot(x, rho0-y)
		theta := math.Atan2(sign*x, sign*(rho0-y))
		if rho == 0 {
			return Point{X: lon0, Y: sign * 90}, true
		}
		t := math.Pow(rho/(semiMajor*f), 1/n)
		return Point{
			X: normalizeLon(lon0 + theta/n*radToDeg),
			Y: latitudeFromT(t) * radToDeg,
		}, true
	}

	return forward, inverse
}

func newPolar(code, name string, latTs, lon0 float64, north bool) *CRS {
	fwd, inv := polarStereographic(latTs, lon0, north)
	domain := Bounds{MinX: -180, MinY: 0, MaxX: 180, MaxY: 90}
	if !north {
		domain = Bounds{MinX: -180, MinY: -90, MaxX: 180, MaxY: 0}
	}
	return &CRS{EPSG: code, Name: name, Unit: units.Meter, Forward: fwd, Inverse: inv, Domain: domain}
}

var (
	// NSIDCNorth is EPSG:3413, NSIDC Sea Ice Polar Stereographic North.
	NSIDCNorth = newPolar("EPSG:3413", "WGS 84 / NSIDC Sea Ice Polar Stereographic North", 70, -45, true)
	// ArcticPolar is EPSG:3995, WGS 84 / Arctic Polar Stereographic.
	ArcticPolar = newPolar("EPSG:3995", "WGS 84 / Arctic Polar Stereographic", 71, 0, true)
	// AntarcticPolar is EPSG:3031, WGS 84 / Antarctic Polar Stereographic.
	AntarcticPolar = newPolar("EPSG:3031", "WGS 84 / Antarctic Polar Stereographic", -71, 0, false)
)

// TexasNorthCentral is EPSG:2276, NAD83 / Texas North Central (ftUS).
// NAD83 is treated as coincident with WGS 84.
var TexasNorthCentral = func() *CRS {
	fwd, inv := lambertConformalConic(32+8.0/60, 33+58.0/60, 31+40.0/60, -98.5,
		1968500, 6561666.666666666, units.USSurveyFoot)
	return &CRS{
		EPSG:    "EPSG:2276",
		Name:    "NAD83 / Texas North Central (ftUS)",
		Unit:    units.USSurveyFoot,
		Forward: fwd,
		Inverse: inv,
		Domain:  Bounds{MinX: -188.5, MinY: -30, MaxX: -8.5, MaxY: 90},
	}
}()
