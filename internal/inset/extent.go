// Package inset links an inset map to its parent: where one view's visible
// region falls on the other, the connectors between them, and where the
// inset sits on the page.
package inset

import (
	"fmt"
	"math"

	"mapdecor/internal/crs"
	"mapdecor/internal/diag"
	"mapdecor/internal/surface"
)

// View is a surface together with the frame its data coordinates are in.
type View struct {
	Viewport surface.Viewport
	Frame    crs.Frame
}

// Options tune the extent polygon.
type Options struct {
	// Pad grows the source corners by Pad times the smaller data range.
	Pad float64
	// Straighten replaces the polygon with its axis-aligned envelope.
	Straighten bool
}

// Extent is a source view's visible region drawn in a target view. Points
// are ordered top-left, top-right, bottom-right, bottom-left of the source.
type Extent struct {
	Data        [4]crs.Point // target data coordinates
	Figure      [4]crs.Point // figure inches
	Clipped     [4]bool
	Diagnostics diag.List
}

// IndicateExtent projects source's visible corners into target.
func IndicateExtent(p crs.Provider, target, source View, opts Options) (Extent, error) {
	if err := target.Viewport.Validate(); err != nil {
		return Extent{}, err
	}
	if err := source.Viewport.Validate(); err != nil {
		return Extent{}, err
	}

	var ext Extent
	corners := source.Viewport.Padded(opts.Pad).Corners()

	switch {
	case target.Frame.IsPseudo() || source.Frame.IsPseudo():
		if target.Frame != source.Frame || target.Frame.Validate() != nil {
			return Extent{}, fmt.Errorf("extent from %s to %s: %w", source.Frame, target.Frame, diag.ErrUnsupportedCRS)
		}
		ext.Data = corners
	default:
		for i, c := range corners {
			q, clipped, err := projectCorner(p, c, source.Frame.CRS(), target.Frame.CRS())
			if err != nil {
				return Extent{}, fmt.Errorf("%s corner: %w", surface.CornerNames[i], err)
			}
			ext.Data[i] = q
			if clipped {
				ext.Clipped[i] = true
				ext.Diagnostics = append(ext.Diagnostics, diag.Warnf(diag.CornerClipped,
					"%s corner %v is outside %s and was clipped", surface.CornerNames[i], c, target.Frame))
			}
		}
	}

	if opts.Straighten {
		ext.Data = envelope(ext.Data)
	}
	for i, q := range ext.Data {
		ext.Figure[i] = target.Viewport.DataToFigure(q)
	}
	return ext, nil
}

// projectCorner moves a point from one CRS to another through lon/lat.
// Positions the target cannot represent are wrapped across the antimeridian
// and, failing that, clamped to the target's domain.
func projectCorner(p crs.Provider, c crs.Point, from, to *crs.CRS) (crs.Point, bool, error) {
	if crs.Same(from, to) {
		return c, false, nil
	}
	ll, err := p.Reproject(c, from, crs.WGS84)
	if err != nil {
		return crs.Point{}, false, err
	}

	clipped := false
	if !to.Domain.Contains(ll) {
		for _, shift := range []float64{360, -360} {
			w := crs.Point{X: ll.X + shift, Y: ll.Y}
			if to.Domain.Contains(w) {
				ll = w
				break
			}
		}
		if !to.Domain.Contains(ll) {
			ll = to.Domain.Clamp(ll)
			clipped = true
		}
	}

	q, err := p.Reproject(ll, crs.WGS84, to)
	if err != nil {
		return crs.Point{}, clipped, err
	}
	return q, clipped, nil
}

// envelope returns the axis-aligned box around pts in corner order.
func envelope(pts [4]crs.Point) [4]crs.Point {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, q := range pts {
		minX, maxX = math.Min(minX, q.X), math.Max(maxX, q.X)
		minY, maxY = math.Min(minY, q.Y), math.Max(maxY, q.Y)
	}
	return [4]crs.Point{
		surface.TopLeft:     {X: minX, Y: maxY},
		surface.TopRight:    {X: maxX, Y: maxY},
		surface.BottomRight: {X: maxX, Y: minY},
		surface.BottomLeft:  {X: minX, Y: minY},
	}
}
