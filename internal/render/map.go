package render

import (
	"math"

	"mapdecor/internal/debug"
	"mapdecor/internal/geo"
)

// MapRenderer renders geographic features to a canvas
type MapRenderer struct {
	projection *geo.Projection
	features   map[geo.FeatureType][]*geo.Feature
	canvas     *Canvas
	labels     bool
}

// NewMapRenderer creates a new map renderer
func NewMapRenderer(projection *geo.Projection, features map[geo.FeatureType][]*geo.Feature, canvas *Canvas) *MapRenderer {
	return &MapRenderer{
		projection: projection,
		features:   features,
		canvas:     canvas,
		labels:     true,
	}
}

// SetLabels turns city names on or off; insets draw dots only.
func (m *MapRenderer) SetLabels(on bool) {
	m.labels = on
}

// RenderMap draws all geographic features to the canvas
func (m *MapRenderer) RenderMap() {
	bounds := m.projection.GetBounds()

	for _, ftype := range geo.FeatureTypes {
		if ftype == geo.FeatureCity {
			m.renderCities(bounds)
			continue
		}
		m.renderFeatureType(ftype, bounds)
	}
}

// renderFeatureType renders all features of a specific type
func (m *MapRenderer) renderFeatureType(ftype geo.FeatureType, bounds *geo.Bounds) {
	features, exists := m.features[ftype]
	if !exists {
		return
	}

	visibleFeatures := geo.FilterByBounds(features, bounds)
	if debug.Enabled() {
		debug.Log("Rendering %d %s features (of %d total)", len(visibleFeatures), ftype, len(features))
	}

	for _, feature := range visibleFeatures {
		m.RenderFeature(feature)
	}
}

// RenderFeature draws a single geographic feature. Segments with an
// unprojectable end or crossing the antimeridian are skipped.
func (m *MapRenderer) RenderFeature(feature *geo.Feature) {
	style := GetStyleForFeature(feature.Type)
	char := GetCharForFeature(feature.Type)

	if feature.IsPoint() {
		point, ok := m.projection.Project(feature.Point.Lat, feature.Point.Lon)
		if !ok {
			return
		}
		m.canvas.Set(point.X, point.Y, '●', style)
		if m.labels && feature.Name != "" {
			m.canvas.DrawText(point.X+1, point.Y, feature.Name, StyleLabel)
		}
		return
	}

	width, height := m.projection.Size()
	maxSpan := 20 * (width + height)
	for i := 0; i < len(feature.Points)-1; i++ {
		a, b := feature.Points[i], feature.Points[i+1]
		if math.Abs(b.Lon-a.Lon) > 180 {
			continue
		}
		p1, ok1 := m.projection.Project(a.Lat, a.Lon)
		p2, ok2 := m.projection.Project(b.Lat, b.Lon)
		if !ok1 || !ok2 {
			continue
		}
		if abs(p2.X-p1.X)+abs(p2.Y-p1.Y) > maxSpan {
			continue
		}
		m.canvas.DrawLine(p1.X, p1.Y, p2.X, p2.Y, char, style)
	}
}

func (m *MapRenderer) onScreen(p geo.Point) bool {
	x0, y0 := m.projection.Origin()
	w, h := m.projection.Size()
	return p.X >= x0 && p.X < x0+w && p.Y >= y0 && p.Y < y0+h
}

// maxCityRank drops minor places as the map zooms out.
func maxCityRank(radiusKm float64) int {
	switch {
	case radiusKm <= 200:
		return 10
	case radiusKm <= 800:
		return 6
	case radiusKm <= 2500:
		return 3
	default:
		return 1
	}
}

// renderCities draws city dots and labels, skipping labels that would
// overwrite an earlier one.
func (m *MapRenderer) renderCities(bounds *geo.Bounds) {
	cities, ok := m.features[geo.FeatureCity]
	if !ok {
		return
	}

	limit := maxCityRank(m.projection.Radius())
	taken := make(map[geo.Point]bool)
	drawn := 0
	for _, city := range geo.FilterByBounds(cities, bounds) {
		if city.Rank > limit {
			continue
		}
		point, ok := m.projection.Project(city.Point.Lat, city.Point.Lon)
		if !ok || !m.onScreen(point) {
			continue
		}

		m.canvas.Set(point.X, point.Y, '●', StyleCity)
		drawn++
		if !m.labels || city.Name == "" {
			continue
		}

		free := true
		for x := point.X; x <= point.X+len(city.Name)+1; x++ {
			if taken[geo.Point{X: x, Y: point.Y}] {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		n := m.canvas.DrawText(point.X+1, point.Y, city.Name, StyleLabel)
		for x := point.X; x <= point.X+n+1; x++ {
			taken[geo.Point{X: x, Y: point.Y}] = true
		}
	}
	debug.Log("Rendered %d cities (rank <= %d)", drawn, limit)
}

// UpdateProjection updates the renderer's projection
func (m *MapRenderer) UpdateProjection(projection *geo.Projection) {
	m.projection = projection
}

// UpdateCanvas updates the renderer's canvas
func (m *MapRenderer) UpdateCanvas(canvas *Canvas) {
	m.canvas = canvas
}
