package scalebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapdecor/internal/crs"
	"mapdecor/internal/diag"
	"mapdecor/internal/measure"
	"mapdecor/internal/surface"
	"mapdecor/internal/units"
)

var provider = crs.NewProvider(nil)

// a 10 km by 5 km window of UTM 33N, 8 by 4 inches
func utmViewport() surface.Viewport {
	return surface.New(crs.Bounds{MinX: 495000, MinY: 4995000, MaxX: 505000, MaxY: 5000000},
		surface.Rect{Width: 8, Height: 4}, 100)
}

var utm = crs.Real(crs.MustLookup("EPSG:32633"))

func assertSchemeInvariant(t *testing.T, r Result) {
	t.Helper()
	b := r.Divisions.Boundaries()
	require.NotEmpty(t, b)
	for i := 1; i < len(b); i++ {
		assert.LessOrEqual(t, b[i-1], b[i])
	}
	assert.InDelta(t, r.Total, b[len(b)-1], r.Total*1e-12)
	assert.Len(t, r.Divisions.Majors, r.Major+1)
	assert.Equal(t, 0.0, r.Divisions.Majors[0])
}

func TestRealWorldMaximumIsExact(t *testing.T) {
	r, err := Solve(provider, Request{Sizing: ByRealWorldMaximum{Max: 1000}}, utmViewport(), utm, units.Meter)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, r.Total)
	assert.Empty(t, r.Diagnostics)
	assert.Equal(t, "m", r.Label)
	assert.InDelta(t, 0.8, r.Length, 1e-12)
	assert.Equal(t, 5, r.Major)
	assert.Equal(t, 2, r.Minor)
	assertSchemeInvariant(t, r)
}

func TestPhysicalLengthFraction(t *testing.T) {
	r, err := Solve(provider, Request{Sizing: ByPhysicalLength{Length: 0.25}}, utmViewport(), utm, units.Meter)
	require.NoError(t, err)
	assert.LessOrEqual(t, r.Total, 2500.0)
	assert.True(t, measure.IsNice(r.Total))
	assert.Equal(t, 2500.0, r.Total)
	assert.Equal(t, 5, r.Major)
	assert.Equal(t, 1, r.Minor)
	assert.InDelta(t, 2, r.Length, 1e-9)
	assertSchemeInvariant(t, r)
}

func TestPhysicalLengthInches(t *testing.T) {
	// 3 inches of 8 is 3750 m, rounded down to 2.5 km
	r, err := Solve(provider, Request{Sizing: ByPhysicalLength{Length: 3}}, utmViewport(), utm, units.Kilometer)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, r.Total, 1e-12)
	assert.Equal(t, "km", r.Label)
	assert.InDelta(t, 2, r.Length, 1e-9)
}

func TestPhysicalLengthExplicitDivisions(t *testing.T) {
	r, err := Solve(provider, Request{Sizing: ByPhysicalLength{Length: 0.25, Major: 2, Minor: 4}}, utmViewport(), utm, units.Meter)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Major)
	assert.Equal(t, 4, r.Minor)
	assert.Equal(t, []float64{0, 1250, 2500}, r.Divisions.Majors)
	assertSchemeInvariant(t, r)
}

func TestVerticalBarMeasuresHeight(t *testing.T) {
	r, err := Solve(provider, Request{Sizing: ByPhysicalLength{Length: 0.5}, Rotation: 90}, utmViewport(), utm, units.Meter)
	require.NoError(t, err)
	assert.True(t, r.Vertical)
	assert.Equal(t, 2500.0, r.Total)
	assert.InDelta(t, 2, r.Length, 1e-9)
}

func TestMajorDivisionUnit(t *testing.T) {
	r, err := Solve(provider, Request{Sizing: ByMajorDivisionUnit{Length: 500, Count: 3, Minor: 2}}, utmViewport(), utm, units.Meter)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, r.Total)
	assert.Equal(t, 3, r.Major)
	assert.Equal(t, []float64{500, 750, 1000}, r.Divisions.Minors[1])
	assertSchemeInvariant(t, r)

	for _, n := range []int{0, -2} {
		_, err = Solve(provider, Request{Sizing: ByMajorDivisionUnit{Length: 500, Count: n}}, utmViewport(), utm, units.Meter)
		assert.ErrorIs(t, err, diag.ErrInvalidDivisionCount)
	}
}

func TestMinorPlacementFirst(t *testing.T) {
	r, err := Solve(provider, Request{Sizing: ByRealWorldMaximum{Max: 1000}, MinorPlacement: First}, utmViewport(), utm, units.Meter)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 100, 200}, r.Divisions.Minors[0])
	assert.Equal(t, []float64{200, 400}, r.Divisions.Minors[1])
	assertSchemeInvariant(t, r)
}

func TestExceedsViewport(t *testing.T) {
	r, err := Solve(provider, Request{Sizing: ByRealWorldMaximum{Max: 20}}, utmViewport(), utm, units.Kilometer)
	require.NoError(t, err)
	assert.Equal(t, 20.0, r.Total)
	assert.True(t, r.Diagnostics.Has(diag.ExceedsViewport))
	assert.Len(t, r.Diagnostics.Warnings(), 1)
}

func TestMaximumJustBelowPowerOfTen(t *testing.T) {
	r, err := Solve(provider, Request{Sizing: ByRealWorldMaximum{Max: 9.999995}}, utmViewport(), utm, units.Kilometer)
	require.NoError(t, err)
	assert.Equal(t, 9.999995, r.Total)
	assert.Equal(t, 1, r.Major)
	assert.Equal(t, 1, r.Minor)
	assert.Equal(t, []float64{0, 9.999995}, r.Divisions.Majors)
	assertSchemeInvariant(t, r)
}

func TestAutoUnit(t *testing.T) {
	r, err := Solve(provider, Request{Sizing: ByPhysicalLength{Length: 0.25}}, utmViewport(), utm, units.Unit{})
	require.NoError(t, err)
	assert.Equal(t, units.Kilometer, r.Unit)
	assert.InDelta(t, 2.5, r.Total, 1e-12)
}

func TestGeographicFrame(t *testing.T) {
	vp := surface.New(crs.Bounds{MinX: -1, MinY: -0.5, MaxX: 1, MaxY: 0.5}, surface.Rect{Width: 8, Height: 4}, 100)
	r, err := Solve(provider, Request{Sizing: ByPhysicalLength{Length: 0.25}}, vp, crs.Real(crs.WGS84), units.Kilometer)
	require.NoError(t, err)
	// a quarter of ~222.6 km
	assert.Equal(t, 50.0, r.Total)
	assert.True(t, r.Diagnostics.Has(diag.DegreeCRS))
	assert.Empty(t, r.Diagnostics.Warnings())
}

func TestPseudoFrames(t *testing.T) {
	vp := utmViewport()

	r, err := Solve(provider, Request{Sizing: ByRealWorldMaximum{Max: 150}}, vp, crs.Pseudo(crs.Pixel), units.Unit{})
	require.NoError(t, err)
	assert.Equal(t, 150.0, r.Total)
	assert.InDelta(t, 1.5, r.Length, 1e-12)
	assert.Equal(t, "", r.Label)
	assertSchemeInvariant(t, r)

	// no nice rounding: 0.3 of 576 points
	r, err = Solve(provider, Request{Sizing: ByPhysicalLength{Length: 0.3}}, vp, crs.Pseudo(crs.PrinterPoint), units.Meter)
	require.NoError(t, err)
	assert.InDelta(t, 172.8, r.Total, 1e-9)
	assert.True(t, r.Diagnostics.Has(diag.IgnoredUnit))
	assertSchemeInvariant(t, r)

	r, err = Solve(provider, Request{Sizing: ByMajorDivisionUnit{Length: 1000, Count: 2}}, vp, crs.Pseudo(crs.AxisUnit), units.Unit{})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, r.Total)
	assert.InDelta(t, 1.6, r.Length, 1e-12)
}

func TestSolveErrors(t *testing.T) {
	vp := utmViewport()
	_, err := Solve(provider, Request{Sizing: ByRealWorldMaximum{Max: 0}}, vp, utm, units.Meter)
	assert.ErrorIs(t, err, diag.ErrInvalidMagnitude)

	_, err = Solve(provider, Request{Sizing: ByPhysicalLength{Length: -1}}, vp, utm, units.Meter)
	assert.ErrorIs(t, err, diag.ErrInvalidMagnitude)

	_, err = Solve(provider, Request{Sizing: ByRealWorldMaximum{Max: 10, Major: -1}}, vp, utm, units.Meter)
	assert.ErrorIs(t, err, diag.ErrInvalidDivisionCount)

	_, err = Solve(provider, Request{Sizing: ByRealWorldMaximum{Max: 10}}, vp, crs.Frame{}, units.Meter)
	assert.ErrorIs(t, err, diag.ErrUnsupportedCRS)

	_, err = Solve(provider, Request{}, vp, utm, units.Meter)
	assert.ErrorIs(t, err, diag.ErrInvalidMagnitude)
}

func TestChooseDivisions(t *testing.T) {
	cases := []struct {
		total        float64
		major, minor int
	}{
		{1000, 5, 2},
		{20, 4, 2},
		{250, 5, 1},
		{0.5, 5, 1},
		{4000, 4, 2}, // 1000 each
		{1500, 5, 1}, // 300 is not nice, 375 neither, 750 neither: 5 divides evenly
		{7, 1, 1},
		{7.3, 1, 1},
		{12, 4, 2}, // 4 x 3: no nice split, 4 divides evenly
		{9.999995, 1, 1},
		{9.9999999999, 5, 2}, // rounds to 10
	}
	for _, tc := range cases {
		major, minor := chooseDivisions(tc.total)
		assert.Equal(t, tc.major, major, "major for %v", tc.total)
		assert.Equal(t, tc.minor, minor, "minor for %v", tc.total)
	}
}

func TestLabels(t *testing.T) {
	d := newDivisions(1, 5, 1, All)
	assert.Equal(t, []string{"0", "0.2", "0.4", "0.6", "0.8", "1"}, d.Labels("", false))
	assert.Equal(t, []string{"0.00", "0.20", "0.40", "0.60", "0.80", "1.00"}, d.Labels("%.2f", false))

	d = newDivisions(2500, 5, 1, All)
	assert.Equal(t, []string{"0", "500", "1000", "1500", "2000", "2500"}, d.Labels("", true))
}

func TestResolve(t *testing.T) {
	s, diags, err := Resolve(Options{Max: 10, Length: 2})
	require.NoError(t, err)
	assert.Equal(t, ByRealWorldMaximum{Max: 10}, s)
	assert.True(t, diags.Has(diag.ConflictingSpecification))

	s, diags, err = Resolve(Options{Length: 2, MajorMult: 5, Major: 3})
	require.NoError(t, err)
	assert.Equal(t, ByPhysicalLength{Length: 2, Major: 3}, s)
	assert.True(t, diags.Has(diag.ConflictingSpecification))

	s, diags, err = Resolve(Options{MajorMult: 5, Major: 3, Minor: 2})
	require.NoError(t, err)
	assert.Equal(t, ByMajorDivisionUnit{Length: 5, Count: 3, Minor: 2}, s)
	assert.Empty(t, diags)

	s, diags, err = Resolve(Options{})
	require.NoError(t, err)
	assert.Equal(t, ByPhysicalLength{Length: DefaultLength}, s)
	assert.True(t, diags.Has(diag.DefaultLength))
	assert.Empty(t, diags.Warnings())

	_, _, err = Resolve(Options{MajorMult: 5})
	assert.ErrorIs(t, err, diag.ErrInvalidDivisionCount)
	_, _, err = Resolve(Options{Minor: -1})
	assert.ErrorIs(t, err, diag.ErrInvalidDivisionCount)
}

func TestSolveDual(t *testing.T) {
	km, mi, err := SolveDual(provider, Request{Sizing: ByPhysicalLength{Length: 0.5}}, utmViewport(), utm, units.Kilometer, units.Mile)
	require.NoError(t, err)
	assert.InDelta(t, 5, km.Total, 1e-12)
	// 5 km is 3.107 mi
	assert.InDelta(t, 2.5, mi.Total, 1e-12)
	assert.Less(t, mi.Length, km.Length)

	_, _, err = SolveDual(provider, Request{Sizing: ByPhysicalLength{Length: 0.5}}, utmViewport(), crs.Pseudo(crs.Pixel), units.Kilometer, units.Mile)
	assert.ErrorIs(t, err, diag.ErrUnsupportedCRS)
}
