package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mapdecor/internal/crs"
	"mapdecor/internal/geo"
	"mapdecor/internal/inset"
	"mapdecor/internal/scalebar"
	"mapdecor/internal/surface"
	"mapdecor/internal/units"
)

var testPage = geo.Page{Rows: 20, DPI: 10, Aspect: 2}

func tenKilometers() scalebar.Result {
	return scalebar.Result{
		Total:  10,
		Unit:   units.Kilometer,
		Label:  "km",
		Length: 2,
		Major:  2,
		Minor:  2,
		Divisions: scalebar.Divisions{
			Majors: []float64{0, 5, 10},
			Minors: [][]float64{{0, 2.5, 5}, {5, 10}},
		},
	}
}

func TestScaleBarHorizontal(t *testing.T) {
	c := NewCanvas(60, 20)
	d := NewDecorator(c, testPage)
	d.ScaleBar(tenKilometers(), testPage.ToInches(5, 10))

	bar := []rune(c.Row(10))
	for x := 5; x < 25; x++ {
		want := '█'
		if x >= 10 && x < 15 {
			want = '░'
		}
		assert.Equal(t, want, bar[x], "column %d", x)
	}
	assert.Equal(t, ' ', bar[4])
	assert.Equal(t, ' ', bar[25])

	labels := c.Row(9)
	assert.Equal(t, byte('0'), labels[5])
	assert.Equal(t, byte('5'), labels[15])
	assert.Equal(t, "10 km", labels[24:29])
}

func TestScaleBarVertical(t *testing.T) {
	res := tenKilometers()
	res.Vertical = true

	c := NewCanvas(60, 20)
	NewDecorator(c, testPage).ScaleBar(res, testPage.ToInches(5, 15))

	for y := 15; y >= 6; y-- {
		want := '█'
		if y == 12 || y == 11 {
			want = '░'
		}
		assert.Equal(t, want, c.Get(5, y).Char, "row %d", y)
	}
	assert.Equal(t, ' ', c.Get(5, 5).Char)
	assert.Equal(t, "10 km", c.Row(5)[7:12])
	assert.Equal(t, '0', []rune(c.Row(15))[7])
}

func TestScaleBarEmpty(t *testing.T) {
	c := NewCanvas(10, 5)
	NewDecorator(c, testPage).ScaleBar(scalebar.Result{}, crs.Point{})
	for y := 0; y < 5; y++ {
		assert.Equal(t, "          ", c.Row(y))
	}
}

func TestArrowGlyph(t *testing.T) {
	cases := map[float64]rune{
		0: '↑', 44: '↗', 90: '→', 135: '↘', 180: '↓',
		-90: '←', -44: '↖', 359: '↑', 720: '↑',
	}
	for angle, want := range cases {
		assert.Equal(t, want, ArrowGlyph(angle), "angle %g", angle)
	}
}

func TestNorthArrow(t *testing.T) {
	c := NewCanvas(30, 20)
	d := NewDecorator(c, testPage)

	center := testPage.ToInches(10.5, 10.5)
	d.NorthArrow(center, 0)
	assert.Equal(t, '↑', c.Get(10, 10).Char)
	assert.Equal(t, 'N', c.Get(10, 9).Char)

	c.Clear()
	d.NorthArrow(center, 90)
	assert.Equal(t, '→', c.Get(10, 10).Char)
	assert.Equal(t, 'N', c.Get(12, 10).Char)
}

func TestFrameAndExtent(t *testing.T) {
	c := NewCanvas(40, 20)
	d := NewDecorator(c, testPage)

	x, y, w, h := d.Frame(surface.Rect{X: 1, Y: 0.4, Width: 2, Height: 0.8})
	assert.Equal(t, []int{11, 15, 18, 2}, []int{x, y, w, h})
	assert.Equal(t, '┌', c.Get(10, 14).Char)
	assert.Equal(t, '┘', c.Get(29, 17).Char)

	c.Clear()
	ext := inset.Extent{Figure: [4]crs.Point{
		testPage.ToInches(2.5, 2.5), testPage.ToInches(8.5, 2.5),
		testPage.ToInches(8.5, 6.5), testPage.ToInches(2.5, 6.5),
	}}
	d.Extent(ext)
	for _, p := range [][2]int{{2, 2}, {8, 2}, {8, 6}, {2, 6}, {5, 2}, {8, 4}} {
		assert.Equal(t, '#', c.Get(p[0], p[1]).Char, "cell %v", p)
	}
	assert.Equal(t, ' ', c.Get(5, 4).Char)
}

func TestConnectors(t *testing.T) {
	c := NewCanvas(40, 20)
	NewDecorator(c, testPage).Connectors([]inset.Connector{
		{From: testPage.ToInches(1.5, 1.5), To: testPage.ToInches(6.5, 1.5)},
	})
	assert.Equal(t, " ······", string([]rune(c.Row(1))[:7]))
}
