package inset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapdecor/internal/crs"
	"mapdecor/internal/diag"
	"mapdecor/internal/surface"
)

var provider = crs.NewProvider(nil)

func view(c *crs.CRS, b crs.Bounds, r surface.Rect) View {
	return View{Viewport: surface.New(b, r, 100), Frame: crs.Real(c)}
}

func TestIdentityLinkage(t *testing.T) {
	v := view(crs.WebMercator, crs.Bounds{MinX: -1e6, MinY: 2e6, MaxX: 1e6, MaxY: 4e6}, surface.Rect{X: 1, Y: 1, Width: 6, Height: 6})

	l, err := SolveLinkage(provider, v, v)
	require.NoError(t, err)
	assert.Equal(t, v.Viewport.Corners(), l.Extent.Data)
	assert.Equal(t, l.Frame, l.Extent.Figure)
	assert.Empty(t, l.Diagnostics)
	for _, c := range l.Pairs {
		assert.Equal(t, 0.0, c.Length)
	}
	assert.Equal(t, surface.TopLeft, l.Connectors[0].Corner)
	assert.Equal(t, surface.TopRight, l.Connectors[1].Corner)
}

func TestIdentityLinkageSeparateLookups(t *testing.T) {
	b := crs.Bounds{MinX: -5e5, MinY: 4e6, MaxX: 1.5e6, MaxY: 6e6}
	r := surface.Rect{X: 1, Y: 1, Width: 6, Height: 6}
	a := view(crs.MustLookup("EPSG:32633"), b, r)
	c := view(crs.MustLookup("epsg:32633"), b, r)

	l, err := SolveLinkage(provider, a, c)
	require.NoError(t, err)
	assert.Equal(t, a.Viewport.Corners(), l.Extent.Data)
	assert.Equal(t, [4]bool{}, l.Extent.Clipped)
	assert.Empty(t, l.Diagnostics)
	for _, p := range l.Pairs {
		assert.Equal(t, 0.0, p.Length)
	}
}

func TestIdentityExtentWithoutSharedPointer(t *testing.T) {
	utm, err := crs.UTM(33, true)
	require.NoError(t, err)
	b := crs.Bounds{MinX: -5e5, MinY: 4e6, MaxX: 1.5e6, MaxY: 6e6}
	r := surface.Rect{Width: 4, Height: 4}
	source := view(utm, b, r)
	target := view(crs.MustLookup("EPSG:32633"), b, r)

	ext, err := IndicateExtent(provider, target, source, Options{})
	require.NoError(t, err)
	assert.Equal(t, source.Viewport.Corners(), ext.Data)
	assert.Empty(t, ext.Diagnostics)
}

func TestExtentAcrossCRS(t *testing.T) {
	overview := view(crs.WGS84, crs.Bounds{MinX: 0, MinY: 30, MaxX: 30, MaxY: 60}, surface.Rect{Width: 6, Height: 6})
	detail := view(crs.MustLookup("EPSG:32633"), crs.Bounds{MinX: 400000, MinY: 4900000, MaxX: 600000, MaxY: 5100000}, surface.Rect{X: 4, Y: 4, Width: 2, Height: 2})

	ext, err := IndicateExtent(provider, overview, detail, Options{})
	require.NoError(t, err)
	assert.Empty(t, ext.Diagnostics)

	d := ext.Data
	assert.Less(t, d[surface.TopLeft].X, d[surface.TopRight].X)
	assert.Less(t, d[surface.BottomLeft].X, d[surface.BottomRight].X)
	assert.Greater(t, d[surface.TopLeft].Y, d[surface.BottomLeft].Y)
	for i, q := range d {
		assert.True(t, overview.Viewport.Bounds().Contains(q), "corner %d at %v", i, q)
		assert.InDelta(t, 15, q.X, 1.5)
		assert.InDelta(t, 45, q.Y, 1.5)
	}
	// grid convergence makes the projected box a trapezoid
	assert.NotEqual(t, d[surface.TopLeft].X, d[surface.BottomLeft].X)

	straight, err := IndicateExtent(provider, overview, detail, Options{Straighten: true})
	require.NoError(t, err)
	s := straight.Data
	assert.Equal(t, s[surface.TopLeft].X, s[surface.BottomLeft].X)
	assert.Equal(t, s[surface.TopLeft].Y, s[surface.TopRight].Y)
	for _, q := range d {
		assert.GreaterOrEqual(t, q.X, s[surface.TopLeft].X)
		assert.LessOrEqual(t, q.Y, s[surface.TopLeft].Y)
	}

	for i, q := range ext.Figure {
		assert.Equal(t, overview.Viewport.DataToFigure(d[i]), q)
	}
}

func TestExtentPad(t *testing.T) {
	v := view(crs.WebMercator, crs.Bounds{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 500}, surface.Rect{Width: 4, Height: 2})
	ext, err := IndicateExtent(provider, v, v, Options{Pad: 0.1})
	require.NoError(t, err)
	assert.Equal(t, crs.Point{X: -50, Y: 550}, ext.Data[surface.TopLeft])
	assert.Equal(t, crs.Point{X: 1050, Y: -50}, ext.Data[surface.BottomRight])
}

func TestOutOfDomainCornersAreClipped(t *testing.T) {
	target := view(crs.MustLookup("EPSG:32633"), crs.Bounds{MinX: 0, MinY: 0, MaxX: 1e6, MaxY: 1e6}, surface.Rect{Width: 4, Height: 4})
	source := view(crs.WGS84, crs.Bounds{MinX: 40, MinY: 0, MaxX: 50, MaxY: 10}, surface.Rect{Width: 1, Height: 1})

	ext, err := IndicateExtent(provider, target, source, Options{})
	require.NoError(t, err)
	assert.Equal(t, [4]bool{true, true, true, true}, ext.Clipped)
	assert.Len(t, ext.Diagnostics, 4)
	assert.True(t, ext.Diagnostics.Has(diag.CornerClipped))

	// clamped onto the eastern domain edge, 12 degrees from the meridian
	ll, ok := crs.MustLookup("EPSG:32633").Inverse(ext.Data[surface.TopRight])
	require.True(t, ok)
	assert.InDelta(t, 27, ll.X, 1e-3)
	assert.InDelta(t, 10, ll.Y, 1e-3)
}

func TestAntimeridianWrap(t *testing.T) {
	zone60 := crs.MustLookup("EPSG:32760")
	target := view(zone60, crs.Bounds{MinX: 0, MinY: 5e6, MaxX: 1e6, MaxY: 6e6}, surface.Rect{Width: 4, Height: 4})
	source := view(crs.WGS84, crs.Bounds{MinX: -179, MinY: -40, MaxX: -178, MaxY: -39}, surface.Rect{Width: 1, Height: 1})

	ext, err := IndicateExtent(provider, target, source, Options{})
	require.NoError(t, err)
	assert.Empty(t, ext.Diagnostics)
	for _, q := range ext.Data {
		assert.Greater(t, q.X, 500000.0)
	}
}

func TestSourceInverseFailure(t *testing.T) {
	target := view(crs.WGS84, crs.Bounds{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90}, surface.Rect{Width: 4, Height: 2})
	source := view(crs.MustLookup("EPSG:32633"), crs.Bounds{MinX: 0, MinY: 2e7, MaxX: 1e6, MaxY: 3e7}, surface.Rect{Width: 1, Height: 1})

	_, err := IndicateExtent(provider, target, source, Options{})
	assert.ErrorIs(t, err, diag.ErrProjectionFailure)
}

func TestPseudoFrames(t *testing.T) {
	px := View{
		Viewport: surface.New(crs.Bounds{MaxX: 800, MaxY: 600}, surface.Rect{Width: 8, Height: 6}, 100),
		Frame:    crs.Pseudo(crs.Pixel),
	}
	l, err := SolveLinkage(provider, px, px)
	require.NoError(t, err)
	assert.Equal(t, px.Viewport.Corners(), l.Extent.Data)

	real := view(crs.WebMercator, crs.Bounds{MaxX: 800, MaxY: 600}, surface.Rect{Width: 8, Height: 6})
	_, err = SolveLinkage(provider, real, px)
	assert.ErrorIs(t, err, diag.ErrUnsupportedCRS)
}

func TestConnectorOrdering(t *testing.T) {
	parent := view(crs.WebMercator, crs.Bounds{MaxX: 1000, MaxY: 1000}, surface.Rect{Width: 10, Height: 10})
	detail := view(crs.WebMercator, crs.Bounds{MaxX: 100, MaxY: 100}, surface.Rect{X: 6, Y: 6, Width: 3, Height: 3})

	l, err := IndicateDetail(provider, parent, detail, Options{})
	require.NoError(t, err)

	var order []int
	for _, c := range l.Pairs {
		order = append(order, c.Corner)
	}
	// BL is nearest; TL and BR tie at 10 and keep corner order
	assert.Equal(t, []int{surface.BottomLeft, surface.TopLeft, surface.BottomRight, surface.TopRight}, order)
	assert.InDelta(t, 10, l.Pairs[1].Length, 1e-9)
	assert.InDelta(t, 10, l.Pairs[2].Length, 1e-9)
	assert.Equal(t, surface.BottomLeft, l.Connectors[0].Corner)
	assert.Equal(t, surface.TopLeft, l.Connectors[1].Corner)
	assert.Equal(t, crs.Point{X: 0, Y: 0}, l.Connectors[0].From)
	assert.Equal(t, crs.Point{X: 6, Y: 6}, l.Connectors[0].To)
}

func TestPlace(t *testing.T) {
	parent := surface.Rect{Width: 10, Height: 8}
	cases := map[Location]surface.Rect{
		UpperRight:  {X: 7.75, Y: 5.75, Width: 2, Height: 2},
		LowerLeft:   {X: 0.25, Y: 0.25, Width: 2, Height: 2},
		Center:      {X: 4, Y: 3, Width: 2, Height: 2},
		UpperCenter: {X: 4, Y: 5.75, Width: 2, Height: 2},
		CenterLeft:  {X: 0.25, Y: 3, Width: 2, Height: 2},
		LowerRight:  {X: 7.75, Y: 0.25, Width: 2, Height: 2},
	}
	for loc, want := range cases {
		got, err := Place(parent, loc, DefaultSize, DefaultSize, DefaultPad)
		require.NoError(t, err, loc.String())
		assert.Equal(t, want, got, loc.String())
	}

	_, err := Place(parent, UpperRight, 0, 1, 0)
	assert.ErrorIs(t, err, diag.ErrInvalidMagnitude)
	_, err = Place(parent, Location(42), 1, 1, 0)
	assert.Error(t, err)
}

func TestParseLocation(t *testing.T) {
	for in, want := range map[string]Location{
		"upper right":  UpperRight,
		"Lower-Left":   LowerLeft,
		"center_right": CenterRight,
		" center ":     Center,
	} {
		got, err := ParseLocation(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLocation("middle")
	assert.Error(t, err)
	assert.Equal(t, "lower center", LowerCenter.String())
	assert.Equal(t, "unknown", Location(99).String())
}
