package crs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"mapdecor/internal/diag"
)

type crsRegistry struct {
	byCode map[int]*CRS
	byName map[string]*CRS
	zones  sync.Map // int -> *CRS, UTM zones built on first lookup
}

var registry = newRegistry(WGS84, WebMercator, NSIDCNorth, ArcticPolar, AntarcticPolar, TexasNorthCentral)

func newRegistry(builtins ...*CRS) *crsRegistry {
	r := &crsRegistry{
		byCode: make(map[int]*CRS),
		byName: map[string]*CRS{
			"wgs84":       WGS84,
			"lonlat":      WGS84,
			"webmercator": WebMercator,
			"mercator":    WebMercator,
		},
	}
	for _, c := range builtins {
		code, _ := strconv.Atoi(strings.TrimPrefix(c.EPSG, "EPSG:"))
		r.byCode[code] = c
	}
	return r
}

func (r *crsRegistry) lookup(code string) (*CRS, error) {
	key := strings.ToLower(strings.TrimSpace(code))
	if c, ok := r.byName[key]; ok {
		return c, nil
	}

	n, err := strconv.Atoi(strings.TrimPrefix(key, "epsg:"))
	if err != nil {
		return nil, fmt.Errorf("%q: %w", code, diag.ErrUnsupportedCRS)
	}
	if c, ok := r.byCode[n]; ok {
		return c, nil
	}

	if c, ok := r.zones.Load(n); ok {
		return c.(*CRS), nil
	}

	var c *CRS
	switch {
	case n > 32600 && n <= 32660:
		c, err = UTM(n-32600, true)
	case n > 32700 && n <= 32760:
		c, err = UTM(n-32700, false)
	default:
		return nil, fmt.Errorf("EPSG:%d: %w", n, diag.ErrUnsupportedCRS)
	}
	if err != nil {
		return nil, err
	}
	actual, _ := r.zones.LoadOrStore(n, c)
	return actual.(*CRS), nil
}

// Codes lists the fixed built-in EPSG codes in ascending order. UTM zones
// (32601-32660, 32701-32760) are resolved on demand and not listed.
func Codes() []string {
	nums := make([]int, 0, len(registry.byCode))
	for n := range registry.byCode {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	out := make([]string, len(nums))
	for i, n := range nums {
		out[i] = fmt.Sprintf("EPSG:%d", n)
	}
	return out
}
