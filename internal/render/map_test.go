package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapdecor/internal/crs"
	"mapdecor/internal/geo"
	"mapdecor/internal/geodesy"
)

func equatorMap(t *testing.T) (*geo.Projection, *Canvas) {
	t.Helper()
	km := geodesy.MeanEarthRadius * math.Pi / 180 / 1000
	p, err := geo.NewProjection(crs.WGS84, 0, 0, km, 80, 20, 2.0)
	require.NoError(t, err)
	return p, NewCanvas(80, 20)
}

func TestRenderMapLayers(t *testing.T) {
	proj, canvas := equatorMap(t)

	coast := geo.NewLineFeature(geo.FeatureCoastline, []geo.LatLon{{Lat: 0.01, Lon: -1}, {Lat: 0.01, Lon: 1}})
	city := geo.NewPointFeature(geo.FeatureCity, geo.LatLon{Lat: 0.49, Lon: 1.01}, "Ox")
	minor := geo.NewPointFeature(geo.FeatureCity, geo.LatLon{Lat: -0.51, Lon: -1.01}, "Tiny")
	minor.Rank = 12
	features := map[geo.FeatureType][]*geo.Feature{
		geo.FeatureCoastline: {coast},
		geo.FeatureCity:      {city, minor},
	}

	NewMapRenderer(proj, features, canvas).RenderMap()

	assert.Equal(t, '.', canvas.Get(30, 9).Char)
	assert.Equal(t, '.', canvas.Get(40, 9).Char)
	assert.Equal(t, StyleCoastline, canvas.Get(40, 9).Style)

	assert.Equal(t, '●', canvas.Get(60, 5).Char)
	assert.Equal(t, "Ox", string([]rune(canvas.Row(5))[61:63]))
	assert.Equal(t, ' ', canvas.Get(19, 15).Char, "rank above the zoom limit")
}

func TestRenderSkipsAntimeridianSegments(t *testing.T) {
	proj, canvas := equatorMap(t)
	wrap := geo.NewLineFeature(geo.FeatureRiver, []geo.LatLon{{Lat: 0, Lon: 0.5}, {Lat: 0, Lon: -359.5}})

	NewMapRenderer(proj, nil, canvas).RenderFeature(wrap)
	for y := 0; y < 20; y++ {
		assert.NotContains(t, canvas.Row(y), "~")
	}
}

func TestRenderWithoutLabels(t *testing.T) {
	proj, canvas := equatorMap(t)
	city := geo.NewPointFeature(geo.FeatureCity, geo.LatLon{Lat: 0.49, Lon: 1.01}, "Ox")

	m := NewMapRenderer(proj, map[geo.FeatureType][]*geo.Feature{geo.FeatureCity: {city}}, canvas)
	m.SetLabels(false)
	m.RenderMap()

	assert.Equal(t, '●', canvas.Get(60, 5).Char)
	assert.Equal(t, ' ', canvas.Get(61, 5).Char)
}

func TestMaxCityRank(t *testing.T) {
	assert.Equal(t, 10, maxCityRank(100))
	assert.Equal(t, 6, maxCityRank(400))
	assert.Equal(t, 3, maxCityRank(2000))
	assert.Equal(t, 1, maxCityRank(5000))
}
