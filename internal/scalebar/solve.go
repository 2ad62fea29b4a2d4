package scalebar

import (
	"fmt"
	"math"

	"mapdecor/internal/crs"
	"mapdecor/internal/diag"
	"mapdecor/internal/measure"
	"mapdecor/internal/surface"
	"mapdecor/internal/units"
)

// Request is a scale bar solve: the Sizing plus how the bar sits.
type Request struct {
	Sizing         Sizing
	Rotation       float64 // degrees; decides the measuring axis
	MinorPlacement MinorPlacement
}

// Result is a solved bar. Total and Divisions are in Unit for real frames
// and in the frame's pseudo-unit otherwise.
type Result struct {
	Total       float64
	Unit        units.Unit // zero for pseudo frames
	Label       string     // unit label drawn with the bar
	Length      float64    // bar length on the page, inches
	Major       int
	Minor       int
	Divisions   Divisions
	Vertical    bool
	Diagnostics diag.List
}

// Solve sizes a scale bar for the viewport. unit is the label unit; the
// zero Unit picks one from the CRS and the visible extent.
func Solve(p crs.Provider, req Request, vp surface.Viewport, f crs.Frame, unit units.Unit) (Result, error) {
	if err := vp.Validate(); err != nil {
		return Result{}, err
	}
	if err := f.Validate(); err != nil {
		return Result{}, err
	}
	if req.Sizing == nil {
		return Result{}, fmt.Errorf("scale bar without a size: %w", diag.ErrInvalidMagnitude)
	}

	res := Result{Vertical: measure.IsVertical(req.Rotation)}
	extent, diags, err := measure.AxisExtent(p, vp, f, res.Vertical)
	if err != nil {
		return Result{}, err
	}
	res.Diagnostics = append(res.Diagnostics, diags...)

	if f.IsPseudo() {
		if !unit.IsZero() {
			res.Diagnostics = append(res.Diagnostics, diag.Infof(diag.IgnoredUnit,
				"unit %s ignored in %s frame", unit, f))
		}
	} else {
		if unit.IsZero() {
			unit = labelUnit(f.CRS(), extent)
		}
		res.Unit = unit
		res.Label = unit.Symbol
		extent = unit.FromMeters(extent)
	}

	if err := res.size(req.Sizing, extent, vp.Inches(res.Vertical), !f.IsPseudo()); err != nil {
		return Result{}, err
	}

	res.Length = res.Total / extent * vp.Inches(res.Vertical)
	res.Divisions = newDivisions(res.Total, res.Major, res.Minor, req.MinorPlacement)
	if res.Total > extent*(1+1e-9) {
		res.Diagnostics = append(res.Diagnostics, diag.Warnf(diag.ExceedsViewport,
			"bar of %g %s is longer than the visible %g", res.Total, res.Label, extent))
	}
	return res, nil
}

// size fills Total, Major and Minor from the sizing. extent is the visible
// axis length in output units, inches its physical length.
func (r *Result) size(s Sizing, extent, inches float64, nice bool) error {
	switch s := s.(type) {
	case ByPhysicalLength:
		if err := positive("length", s.Length); err != nil {
			return err
		}
		want := s.Length
		if want < 1 {
			want *= inches
		}
		r.Total = extent * want / inches
		if nice {
			t, err := measure.NiceNumber(r.Total, measure.Down)
			if err != nil {
				return err
			}
			r.Total = t
		}
		return r.divide(s.Major, s.Minor)

	case ByRealWorldMaximum:
		if err := positive("max", s.Max); err != nil {
			return err
		}
		r.Total = s.Max
		return r.divide(s.Major, s.Minor)

	case ByMajorDivisionUnit:
		if s.Count <= 0 || s.Minor < 0 {
			return fmt.Errorf("count %d, minor %d: %w", s.Count, s.Minor, diag.ErrInvalidDivisionCount)
		}
		if err := positive("major length", s.Length); err != nil {
			return err
		}
		r.Total = s.Length * float64(s.Count)
		r.Major = s.Count
		r.Minor = s.Minor
		if r.Minor == 0 {
			r.Minor = 1
		}
		return nil
	}
	return fmt.Errorf("unknown sizing %T: %w", s, diag.ErrInvalidMagnitude)
}

// divide applies explicit counts or falls back to the preferred table.
func (r *Result) divide(major, minor int) error {
	if major < 0 || minor < 0 {
		return fmt.Errorf("major %d, minor %d: %w", major, minor, diag.ErrInvalidDivisionCount)
	}
	autoMajor, autoMinor := chooseDivisions(r.Total)
	r.Major, r.Minor = major, minor
	if r.Major == 0 {
		r.Major = autoMajor
	}
	if r.Minor == 0 {
		if major == 0 {
			r.Minor = autoMinor
		} else {
			r.Minor = minorFor(r.Major)
		}
	}
	return nil
}

func positive(what string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%s %v: %w", what, v, diag.ErrInvalidMagnitude)
	}
	return nil
}

// labelUnit picks a readable unit for a real CRS given the extent in meters.
func labelUnit(c *crs.CRS, meters float64) units.Unit {
	native := c.Unit
	if c.Geographic || native.IsZero() {
		native = units.Meter
	}
	return units.Auto(native, native.FromMeters(meters))
}

// SolveDual sizes two bars over the same viewport, typically one metric and
// one imperial. Pseudo frames have no units to pair.
func SolveDual(p crs.Provider, req Request, vp surface.Viewport, f crs.Frame, primary, secondary units.Unit) (Result, Result, error) {
	if f.IsPseudo() {
		return Result{}, Result{}, fmt.Errorf("dual bars in %s frame: %w", f, diag.ErrUnsupportedCRS)
	}
	a, err := Solve(p, req, vp, f, primary)
	if err != nil {
		return Result{}, Result{}, err
	}
	b, err := Solve(p, req, vp, f, secondary)
	if err != nil {
		return Result{}, Result{}, err
	}
	return a, b, nil
}
