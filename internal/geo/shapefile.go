package geo

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"

	"mapdecor/internal/debug"
)

// ShapefileLoader loads and parses ESRI shapefiles
type ShapefileLoader struct {
	dataDir string
}

// NewShapefileLoader creates a new shapefile loader
func NewShapefileLoader(dataDir string) *ShapefileLoader {
	return &ShapefileLoader{
		dataDir: dataDir,
	}
}

var layerFiles = map[FeatureType]string{
	FeatureCountryBorder: "ne_50m_admin_0_boundary_lines_land",
	FeatureStateBorder:   "ne_50m_admin_1_states_provinces",
	FeatureRiver:         "ne_50m_rivers_lake_centerlines",
	FeatureCoastline:     "ne_50m_coastline",
	FeatureCity:          "ne_50m_populated_places",
}

// LoadAll loads every layer found in the data directory. Missing layers are
// logged and left empty; the map still works with whatever loaded.
func (s *ShapefileLoader) LoadAll() map[FeatureType][]*Feature {
	log := debug.Logger("geo")
	features := make(map[FeatureType][]*Feature)

	for _, ftype := range FeatureTypes {
		path := filepath.Join(s.dataDir, layerFiles[ftype]+".shp")

		var loaded []*Feature
		var err error
		if ftype == FeatureCity {
			loaded, err = s.LoadCities(path)
		} else {
			loaded, err = s.LoadShapefile(path, ftype)
		}
		if err != nil {
			log.Warn().Err(err).Str("layer", ftype.String()).Msg("layer not loaded")
			loaded = []*Feature{}
		}
		features[ftype] = loaded
	}

	log.Info().
		Int("countries", len(features[FeatureCountryBorder])).
		Int("states", len(features[FeatureStateBorder])).
		Int("rivers", len(features[FeatureRiver])).
		Int("coastlines", len(features[FeatureCoastline])).
		Int("cities", len(features[FeatureCity])).
		Msg("loaded features")
	return features
}

// lineParts splits a multi-part geometry into one point run per part so
// separate parts are never joined by a stray segment.
func lineParts(parts []int32, points []shp.Point) [][]LatLon {
	var runs [][]LatLon
	for i, start := range parts {
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		if int(start) >= end || end > len(points) {
			continue
		}
		run := make([]LatLon, 0, end-int(start))
		for _, point := range points[start:end] {
			run = append(run, LatLon{Lat: point.Y, Lon: point.X})
		}
		runs = append(runs, run)
	}
	return runs
}

// LoadShapefile loads a shapefile and converts it to Feature objects.
// Polygons become their outlines.
func (s *ShapefileLoader) LoadShapefile(path string, ftype FeatureType) ([]*Feature, error) {
	shape, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer shape.Close()

	features := make([]*Feature, 0)

	for shape.Next() {
		_, p := shape.Shape()

		var runs [][]LatLon
		switch geom := p.(type) {
		case *shp.PolyLine:
			runs = lineParts(geom.Parts, geom.Points)
		case *shp.Polygon:
			runs = lineParts(geom.Parts, geom.Points)
		case *shp.Point:
			features = append(features, NewPointFeature(ftype, LatLon{Lat: geom.Y, Lon: geom.X}, ""))
		}
		for _, run := range runs {
			if len(run) > 1 {
				features = append(features, NewLineFeature(ftype, run))
			}
		}
	}

	return features, nil
}

func fieldName(f shp.Field) string {
	return strings.TrimRight(string(f.Name[:]), "\x00 ")
}

// LoadCities loads populated places with their names and scalerank.
func (s *ShapefileLoader) LoadCities(path string) ([]*Feature, error) {
	shape, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer shape.Close()

	nameIdx, rankIdx := -1, -1
	for i, field := range shape.Fields() {
		switch strings.ToUpper(fieldName(field)) {
		case "NAME", "NAMEASCII", "NAME_EN":
			if nameIdx < 0 {
				nameIdx = i
			}
		case "SCALERANK":
			rankIdx = i
		}
	}

	features := make([]*Feature, 0)

	for shape.Next() {
		n, p := shape.Shape()

		point, ok := p.(*shp.Point)
		if !ok {
			continue
		}

		name := ""
		if nameIdx >= 0 {
			name = strings.TrimSpace(shape.ReadAttribute(n, nameIdx))
		}

		feature := NewPointFeature(FeatureCity, LatLon{Lat: point.Y, Lon: point.X}, name)
		if rankIdx >= 0 {
			if rank, err := strconv.Atoi(strings.TrimSpace(shape.ReadAttribute(n, rankIdx))); err == nil {
				feature.Rank = rank
			}
		}
		features = append(features, feature)
	}

	return features, nil
}

// FilterByBounds keeps features with at least one vertex inside bounds.
// Segments crossing the box with both ends outside are dropped.
func FilterByBounds(features []*Feature, bounds *Bounds) []*Feature {
	filtered := make([]*Feature, 0)

	for _, feature := range features {
		for _, point := range feature.Vertices() {
			if bounds.Contains(point.Lat, point.Lon) {
				filtered = append(filtered, feature)
				break
			}
		}
	}

	return filtered
}

// Bounds represents a geographic bounding box
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains checks if a point is within the bounds
func (b *Bounds) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat &&
		lon >= b.MinLon && lon <= b.MaxLon
}
