package geo

// FeatureType is a base map layer
type FeatureType int

const (
	FeatureCountryBorder FeatureType = iota
	FeatureStateBorder
	FeatureRiver
	FeatureCoastline
	FeatureCity
)

// FeatureTypes lists every type in drawing order, bottom layer first.
var FeatureTypes = []FeatureType{
	FeatureRiver,
	FeatureStateBorder,
	FeatureCountryBorder,
	FeatureCoastline,
	FeatureCity,
}

var featureNames = [...]string{
	FeatureCountryBorder: "country-border",
	FeatureStateBorder:   "state-border",
	FeatureRiver:         "river",
	FeatureCoastline:     "coastline",
	FeatureCity:          "city",
}

func (f FeatureType) String() string {
	if f < 0 || int(f) >= len(featureNames) {
		return "unknown"
	}
	return featureNames[f]
}

// LatLon is a WGS84 coordinate in degrees
type LatLon struct {
	Lat float64
	Lon float64
}

// Feature is a polyline run or a labelled point of one layer.
type Feature struct {
	Type   FeatureType
	Points []LatLon // line vertices; empty for points
	Point  *LatLon  // set for cities
	Name   string
	Rank   int // Natural Earth scalerank, lower is more important
}

// NewLineFeature creates a polyline feature
func NewLineFeature(ftype FeatureType, points []LatLon) *Feature {
	return &Feature{Type: ftype, Points: points}
}

// NewPointFeature creates a named point feature
func NewPointFeature(ftype FeatureType, point LatLon, name string) *Feature {
	return &Feature{Type: ftype, Point: &point, Name: name}
}

func (f *Feature) IsPoint() bool {
	return f.Point != nil
}

func (f *Feature) IsLine() bool {
	return len(f.Points) > 0
}

// Vertices returns the point of a point feature or the run of a line.
func (f *Feature) Vertices() []LatLon {
	if f.Point != nil {
		return []LatLon{*f.Point}
	}
	return f.Points
}
