// Package config loads viewer settings from defaults, an optional YAML file,
// MAPDECOR_* environment variables and command line flags, in rising order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mapdecor/internal/crs"
	"mapdecor/internal/inset"
	"mapdecor/internal/scalebar"
	"mapdecor/internal/units"
)

// Config holds all application configuration.
type Config struct {
	Map        MapConfig        `mapstructure:"map"`
	ScaleBar   ScaleBarConfig   `mapstructure:"scalebar"`
	NorthArrow NorthArrowConfig `mapstructure:"northarrow"`
	Inset      InsetConfig      `mapstructure:"inset"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Debug      DebugConfig      `mapstructure:"debug"`
}

type MapConfig struct {
	CRS    string  `mapstructure:"crs"`
	Center string  `mapstructure:"center"` // "lon,lat"
	Radius float64 `mapstructure:"radius"` // km
	Aspect float64 `mapstructure:"aspect"` // character height / width
	DPI    float64 `mapstructure:"dpi"`    // cells per inch across
}

type ScaleBarConfig struct {
	Unit      string  `mapstructure:"unit"`
	Secondary string  `mapstructure:"secondary"`
	Max       float64 `mapstructure:"max"`
	Length    float64 `mapstructure:"length"`
	MajorMult float64 `mapstructure:"major_mult"`
	Major     int     `mapstructure:"major"`
	Minor     int     `mapstructure:"minor"`
	MinorType string  `mapstructure:"minor_type"`
	Rotation  float64 `mapstructure:"rotation"`
	Location  string  `mapstructure:"location"`
}

type NorthArrowConfig struct {
	Reference string  `mapstructure:"reference"` // center, axis or data
	X         float64 `mapstructure:"x"`
	Y         float64 `mapstructure:"y"`
	Location  string  `mapstructure:"location"`
}

type InsetConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Mode       string  `mapstructure:"mode"` // extent or detail
	CRS        string  `mapstructure:"crs"`
	Location   string  `mapstructure:"location"`
	Size       float64 `mapstructure:"size"` // inches
	Pad        float64 `mapstructure:"pad"`  // inches
	Zoom       float64 `mapstructure:"zoom"` // inset radius / map radius
	ExtentPad  float64 `mapstructure:"extent_pad"`
	Straighten bool    `mapstructure:"straighten"`
}

type CacheConfig struct {
	Dir     string `mapstructure:"dir"`
	Timeout int    `mapstructure:"timeout"` // seconds per download
}

type DebugConfig struct {
	File string `mapstructure:"file"`
}

// flagKeys binds command line flags to config keys.
var flagKeys = map[string]string{
	"crs":    "map.crs",
	"center": "map.center",
	"radius": "map.radius",
	"aspect": "map.aspect",
	"cache":  "cache.dir",
	"debug":  "debug.file",
}

// Flags declares the command line flags Load understands.
func Flags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "Config file (default: ./mapdecor.yaml or ~/.mapdecor/mapdecor.yaml)")
	fs.StringP("debug", "d", "", "Debug log file (e.g., debug.log)")
	fs.String("cache", "", "Cache directory for map data (default: ~/.mapdecor/data)")
	fs.String("crs", "", "Map CRS, e.g. EPSG:3857, EPSG:32633, EPSG:3413")
	fs.String("center", "", "Map center as lon,lat")
	fs.Float64("radius", 0, "Map radius in km")
	fs.Float64("aspect", 0, "Character aspect ratio - adjust for font width (1.0-4.0)")
	fs.BoolP("help", "h", false, "Show help message")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("map.crs", "EPSG:3857")
	v.SetDefault("map.center", "10.75,59.91")
	v.SetDefault("map.radius", 400.0)
	v.SetDefault("map.aspect", 2.0)
	v.SetDefault("map.dpi", 10.0)

	v.SetDefault("scalebar.unit", "")
	v.SetDefault("scalebar.secondary", "")
	v.SetDefault("scalebar.max", 0.0)
	v.SetDefault("scalebar.length", 0.0)
	v.SetDefault("scalebar.major_mult", 0.0)
	v.SetDefault("scalebar.major", 0)
	v.SetDefault("scalebar.minor", 0)
	v.SetDefault("scalebar.minor_type", "all")
	v.SetDefault("scalebar.rotation", 0.0)
	v.SetDefault("scalebar.location", "lower left")

	v.SetDefault("northarrow.reference", "center")
	v.SetDefault("northarrow.location", "upper left")

	v.SetDefault("inset.enabled", true)
	v.SetDefault("inset.mode", "extent")
	v.SetDefault("inset.crs", "EPSG:4326")
	v.SetDefault("inset.location", "upper right")
	v.SetDefault("inset.size", inset.DefaultSize)
	v.SetDefault("inset.pad", inset.DefaultPad)
	v.SetDefault("inset.zoom", 4.0)
	v.SetDefault("inset.extent_pad", 0.0)
	v.SetDefault("inset.straighten", false)

	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.timeout", 120)
	v.SetDefault("debug.file", "")
}

// Load reads configuration. path names an explicit config file; when empty,
// mapdecor.yaml is looked up in the working directory and ~/.mapdecor and
// may be missing. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("mapdecor")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.mapdecor")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// MAPDECOR_MAP_CRS -> map.crs
	v.SetEnvPrefix("MAPDECOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	add := func(format string, args ...interface{}) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}

	if f, err := crs.ParseFrame(c.Map.CRS); err != nil {
		add("map.crs: %v", err)
	} else if f.IsPseudo() {
		add("map.crs: %s is not a map projection", c.Map.CRS)
	}
	if _, _, err := c.Map.CenterLonLat(); err != nil {
		add("map.center: %v", err)
	}
	if c.Map.Radius <= 0 {
		add("map.radius must be positive, got %g", c.Map.Radius)
	}
	if c.Map.Aspect < 1.0 || c.Map.Aspect > 4.0 {
		add("map.aspect must be between 1.0 and 4.0, got %g", c.Map.Aspect)
	}
	if c.Map.DPI <= 0 {
		add("map.dpi must be positive, got %g", c.Map.DPI)
	}

	for key, name := range map[string]string{"scalebar.unit": c.ScaleBar.Unit, "scalebar.secondary": c.ScaleBar.Secondary} {
		if name == "" {
			continue
		}
		if _, err := units.Parse(name); err != nil {
			add("%s: %v", key, err)
		}
	}
	if _, _, err := scalebar.Resolve(c.ScaleBar.Options()); err != nil {
		add("scalebar: %v", err)
	}
	if _, err := c.ScaleBar.Placement(); err != nil {
		add("scalebar.minor_type: %v", err)
	}
	if _, err := inset.ParseLocation(c.ScaleBar.Location); err != nil {
		add("scalebar.location: %v", err)
	}

	switch c.NorthArrow.Reference {
	case "center", "axis", "data":
	default:
		add("northarrow.reference must be center, axis or data, got %q", c.NorthArrow.Reference)
	}
	if _, err := inset.ParseLocation(c.NorthArrow.Location); err != nil {
		add("northarrow.location: %v", err)
	}

	if c.Inset.Mode != "extent" && c.Inset.Mode != "detail" {
		add("inset.mode must be extent or detail, got %q", c.Inset.Mode)
	}
	if f, err := crs.ParseFrame(c.Inset.CRS); err != nil {
		add("inset.crs: %v", err)
	} else if f.IsPseudo() {
		add("inset.crs: %s is not a map projection", c.Inset.CRS)
	}
	if _, err := inset.ParseLocation(c.Inset.Location); err != nil {
		add("inset.location: %v", err)
	}
	if c.Inset.Size <= 0 || c.Inset.Pad < 0 {
		add("inset.size must be positive and inset.pad non-negative, got %g and %g", c.Inset.Size, c.Inset.Pad)
	}
	if c.Inset.Zoom <= 1 {
		add("inset.zoom must be greater than 1, got %g", c.Inset.Zoom)
	}
	if c.Cache.Timeout <= 0 {
		add("cache.timeout must be positive, got %d", c.Cache.Timeout)
	}

	if result != nil {
		return fmt.Errorf("config validation failed: %w", result)
	}
	return nil
}

// CenterLonLat parses Center.
func (m MapConfig) CenterLonLat() (float64, float64, error) {
	parts := strings.Split(m.Center, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want lon,lat, got %q", m.Center)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("longitude: %w", err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("latitude: %w", err)
	}
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("%g,%g is not a lon/lat position", lon, lat)
	}
	return lon, lat, nil
}

// Options returns the scale bar sizing parameters.
func (s ScaleBarConfig) Options() scalebar.Options {
	return scalebar.Options{
		Max:       s.Max,
		Length:    s.Length,
		MajorMult: s.MajorMult,
		Major:     s.Major,
		Minor:     s.Minor,
	}
}

// Placement parses MinorType.
func (s ScaleBarConfig) Placement() (scalebar.MinorPlacement, error) {
	switch strings.ToLower(s.MinorType) {
	case "", "all":
		return scalebar.All, nil
	case "first":
		return scalebar.First, nil
	}
	return 0, fmt.Errorf("want all or first, got %q", s.MinorType)
}

// Units returns the primary and secondary label units; zero values mean
// automatic and none.
func (s ScaleBarConfig) Units() (units.Unit, units.Unit, error) {
	var primary, secondary units.Unit
	var err error
	if s.Unit != "" {
		if primary, err = units.Parse(s.Unit); err != nil {
			return units.Unit{}, units.Unit{}, err
		}
	}
	if s.Secondary != "" {
		if secondary, err = units.Parse(s.Secondary); err != nil {
			return units.Unit{}, units.Unit{}, err
		}
	}
	return primary, secondary, nil
}
