// Package surface describes the plotting surface the decorations are placed
// on: its visible data bounds, where it sits on the page and the output
// resolution. Coordinates flow data -> axes fraction -> figure inches.
package surface

import (
	"fmt"
	"math"

	"mapdecor/internal/crs"
	"mapdecor/internal/diag"
)

// Rect is a placement on the page in inches, origin at the bottom-left.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether p (inches) lies inside r.
func (r Rect) Contains(p crs.Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Viewport is a read-only snapshot of a surface. Data bounds may be
// inverted (X1 < X0) when an axis is flipped.
type Viewport struct {
	X0, X1 float64 // visible data range along the horizontal axis
	Y0, Y1 float64 // visible data range along the vertical axis
	Rect   Rect    // axes placement in figure inches
	DPI    float64
}

// New builds a viewport from data bounds, its figure placement and DPI.
func New(b crs.Bounds, r Rect, dpi float64) Viewport {
	return Viewport{X0: b.MinX, X1: b.MaxX, Y0: b.MinY, Y1: b.MaxY, Rect: r, DPI: dpi}
}

// Validate rejects empty or non-finite viewports.
func (v Viewport) Validate() error {
	for _, f := range []float64{v.X0, v.X1, v.Y0, v.Y1, v.Rect.X, v.Rect.Y, v.Rect.Width, v.Rect.Height, v.DPI} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("viewport has non-finite value: %w", diag.ErrInvalidMagnitude)
		}
	}
	if v.X0 == v.X1 || v.Y0 == v.Y1 {
		return fmt.Errorf("viewport has empty data range: %w", diag.ErrInvalidMagnitude)
	}
	if v.Rect.Width <= 0 || v.Rect.Height <= 0 || v.DPI <= 0 {
		return fmt.Errorf("viewport %gx%g in at %g dpi: %w", v.Rect.Width, v.Rect.Height, v.DPI, diag.ErrInvalidMagnitude)
	}
	return nil
}

// Bounds returns the data bounds, normalized so Min <= Max.
func (v Viewport) Bounds() crs.Bounds {
	return crs.Bounds{
		MinX: math.Min(v.X0, v.X1), MaxX: math.Max(v.X0, v.X1),
		MinY: math.Min(v.Y0, v.Y1), MaxY: math.Max(v.Y0, v.Y1),
	}
}

// DataToAxes maps data coordinates to axes fractions (0..1 inside).
func (v Viewport) DataToAxes(p crs.Point) crs.Point {
	return crs.Point{X: (p.X - v.X0) / (v.X1 - v.X0), Y: (p.Y - v.Y0) / (v.Y1 - v.Y0)}
}

// AxesToData maps axes fractions to data coordinates.
func (v Viewport) AxesToData(p crs.Point) crs.Point {
	return crs.Point{X: v.X0 + p.X*(v.X1-v.X0), Y: v.Y0 + p.Y*(v.Y1-v.Y0)}
}

// AxesToFigure maps axes fractions to figure inches.
func (v Viewport) AxesToFigure(p crs.Point) crs.Point {
	return crs.Point{X: v.Rect.X + p.X*v.Rect.Width, Y: v.Rect.Y + p.Y*v.Rect.Height}
}

// FigureToAxes maps figure inches to axes fractions.
func (v Viewport) FigureToAxes(p crs.Point) crs.Point {
	return crs.Point{X: (p.X - v.Rect.X) / v.Rect.Width, Y: (p.Y - v.Rect.Y) / v.Rect.Height}
}

// DataToFigure maps data coordinates to figure inches.
func (v Viewport) DataToFigure(p crs.Point) crs.Point {
	return v.AxesToFigure(v.DataToAxes(p))
}

// FigureToData maps figure inches to data coordinates.
func (v Viewport) FigureToData(p crs.Point) crs.Point {
	return v.AxesToData(v.FigureToAxes(p))
}

// Inches is the physical length of the horizontal or vertical axis.
func (v Viewport) Inches(vertical bool) float64 {
	if vertical {
		return v.Rect.Height
	}
	return v.Rect.Width
}

// DataRange is the absolute data span along an axis.
func (v Viewport) DataRange(vertical bool) float64 {
	if vertical {
		return math.Abs(v.Y1 - v.Y0)
	}
	return math.Abs(v.X1 - v.X0)
}

// DataPerInch is the data-to-physical scale factor along an axis.
func (v Viewport) DataPerInch(vertical bool) float64 {
	return v.DataRange(vertical) / v.Inches(vertical)
}

// Center returns the middle of the visible data region.
func (v Viewport) Center() crs.Point {
	return crs.Point{X: (v.X0 + v.X1) / 2, Y: (v.Y0 + v.Y1) / 2}
}

// EdgeMidpoints returns the data points halfway along the two edges that
// bound an axis: left/right for horizontal, bottom/top for vertical.
func (v Viewport) EdgeMidpoints(vertical bool) (crs.Point, crs.Point) {
	c := v.Center()
	if vertical {
		return crs.Point{X: c.X, Y: v.Y0}, crs.Point{X: c.X, Y: v.Y1}
	}
	return crs.Point{X: v.X0, Y: c.Y}, crs.Point{X: v.X1, Y: c.Y}
}

// Corner indexes, clockwise from the top-left as seen on the page.
const (
	TopLeft = iota
	TopRight
	BottomRight
	BottomLeft
)

// CornerNames labels the corner indexes.
var CornerNames = [4]string{"top-left", "top-right", "bottom-right", "bottom-left"}

// Corners returns the visible corners in data coordinates, ordered
// top-left, top-right, bottom-right, bottom-left on the page.
func (v Viewport) Corners() [4]crs.Point {
	return [4]crs.Point{
		TopLeft:     {X: v.X0, Y: v.Y1},
		TopRight:    {X: v.X1, Y: v.Y1},
		BottomRight: {X: v.X1, Y: v.Y0},
		BottomLeft:  {X: v.X0, Y: v.Y0},
	}
}

// Padded grows the data bounds on every side by frac times the smaller of
// the two data ranges. Negative fractions shrink.
func (v Viewport) Padded(frac float64) Viewport {
	d := frac * math.Min(v.DataRange(false), v.DataRange(true))
	sx := math.Copysign(1, v.X1-v.X0)
	sy := math.Copysign(1, v.Y1-v.Y0)
	v.X0 -= sx * d
	v.X1 += sx * d
	v.Y0 -= sy * d
	v.Y1 += sy * d
	return v
}
