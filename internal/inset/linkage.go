package inset

import (
	"math"
	"sort"

	"mapdecor/internal/crs"
	"mapdecor/internal/diag"
	"mapdecor/internal/surface"
)

// Connector joins a corner of the extent polygon to the same corner of the
// detail frame, both in figure inches.
type Connector struct {
	Corner   int
	From, To crs.Point
	Length   float64
}

// Linkage is everything needed to draw a detail indicator.
type Linkage struct {
	Extent      Extent
	Frame       [4]crs.Point // detail frame corners, figure inches
	Pairs       [4]Connector // all corner pairs, shortest first
	Connectors  [2]Connector // the two shortest pairs
	Diagnostics diag.List
}

// frameCorners returns a placement rectangle's corners in corner order.
func frameCorners(r surface.Rect) [4]crs.Point {
	return [4]crs.Point{
		surface.TopLeft:     {X: r.X, Y: r.Y + r.Height},
		surface.TopRight:    {X: r.X + r.Width, Y: r.Y + r.Height},
		surface.BottomRight: {X: r.X + r.Width, Y: r.Y},
		surface.BottomLeft:  {X: r.X, Y: r.Y},
	}
}

// IndicateDetail draws detail's extent on parent and pairs its corners with
// the detail frame's corners.
func IndicateDetail(p crs.Provider, parent, detail View, opts Options) (Linkage, error) {
	ext, err := IndicateExtent(p, parent, detail, opts)
	if err != nil {
		return Linkage{}, err
	}

	l := Linkage{
		Extent:      ext,
		Frame:       frameCorners(detail.Viewport.Rect),
		Diagnostics: ext.Diagnostics,
	}
	for i := range l.Pairs {
		from, to := ext.Figure[i], l.Frame[i]
		l.Pairs[i] = Connector{
			Corner: i,
			From:   from,
			To:     to,
			Length: math.Hypot(to.X-from.X, to.Y-from.Y),
		}
	}
	// stable on corner order for equal lengths
	sort.SliceStable(l.Pairs[:], func(a, b int) bool {
		return l.Pairs[a].Length < l.Pairs[b].Length
	})
	copy(l.Connectors[:], l.Pairs[:2])
	return l, nil
}

// SolveLinkage links an overview to a detail view with no padding and the
// exact projected polygon.
func SolveLinkage(p crs.Provider, overview, detail View) (Linkage, error) {
	return IndicateDetail(p, overview, detail, Options{})
}
