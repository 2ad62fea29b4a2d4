package geo

import (
	"fmt"
	"math"

	"mapdecor/internal/crs"
	"mapdecor/internal/diag"
	"mapdecor/internal/geodesy"
	"mapdecor/internal/surface"
)

// Point represents a screen coordinate
type Point struct {
	X int
	Y int
}

// Projection places a CRS on a block of terminal cells. Data units per
// column are fixed so that a circle of radiusKm around the center fits the
// block; rows are aspectRatio times taller than columns are wide.
type Projection struct {
	crs          *crs.CRS
	centerLat    float64
	centerLon    float64
	center       crs.Point // center in CRS units
	radiusKm     float64
	originX      int
	originY      int
	screenWidth  int
	screenHeight int
	aspectRatio  float64
	scale        float64 // CRS units per column
}

// NewProjection creates a projection for a given center point and radius.
// aspectRatio compensates for character dimensions (typically 2.0 for
// characters twice as tall as wide).
func NewProjection(c *crs.CRS, centerLat, centerLon, radiusKm float64, screenWidth, screenHeight int, aspectRatio float64) (*Projection, error) {
	if c == nil {
		return nil, fmt.Errorf("no map crs: %w", diag.ErrUnsupportedCRS)
	}
	if radiusKm <= 0 || aspectRatio <= 0 {
		return nil, fmt.Errorf("radius %g km, aspect %g: %w", radiusKm, aspectRatio, diag.ErrInvalidMagnitude)
	}
	p := &Projection{
		crs:          c,
		centerLat:    centerLat,
		centerLon:    centerLon,
		radiusKm:     radiusKm,
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
		aspectRatio:  aspectRatio,
	}

	if err := p.calculateScale(); err != nil {
		return nil, err
	}
	return p, nil
}

// radiusData measures radiusKm in CRS units at the center by projecting a
// point that far along the meridian, toward the equator.
func (p *Projection) radiusData() float64 {
	bearing := 180.0
	if p.centerLat < 0 {
		bearing = 0
	}
	lon, lat := geodesy.Sphere().Destination(p.centerLon, p.centerLat, p.radiusKm*1000, bearing)
	if q, ok := p.crs.Forward(crs.Point{X: lon, Y: lat}); ok {
		if d := math.Hypot(q.X-p.center.X, q.Y-p.center.Y); d > 0 {
			return d
		}
	}
	if p.crs.Geographic {
		return p.radiusKm * 1000 / (geodesy.MeanEarthRadius * math.Pi / 180)
	}
	return p.radiusKm * 1000 / p.crs.Unit.Meters
}

// calculateScale computes the CRS units per column
func (p *Projection) calculateScale() error {
	center, ok := p.crs.Forward(crs.Point{X: p.centerLon, Y: p.centerLat})
	if !ok {
		return fmt.Errorf("center %g,%g outside %s: %w", p.centerLon, p.centerLat, p.crs, diag.ErrProjectionFailure)
	}
	p.center = center

	cells := math.Min(float64(p.screenWidth), float64(p.screenHeight)*p.aspectRatio)
	if cells < 1 {
		cells = 1
	}
	p.scale = 2 * p.radiusData() / cells
	return nil
}

// ScreenXY converts CRS coordinates to fractional screen cells.
func (p *Projection) ScreenXY(q crs.Point) (float64, float64) {
	x := float64(p.originX) + float64(p.screenWidth)/2 + (q.X-p.center.X)/p.scale
	y := float64(p.originY) + float64(p.screenHeight)/2 - (q.Y-p.center.Y)/(p.scale*p.aspectRatio)
	return x, y
}

// DataAt converts fractional screen cells back to CRS coordinates.
func (p *Projection) DataAt(x, y float64) crs.Point {
	return crs.Point{
		X: p.center.X + (x-float64(p.originX)-float64(p.screenWidth)/2)*p.scale,
		Y: p.center.Y - (y-float64(p.originY)-float64(p.screenHeight)/2)*p.scale*p.aspectRatio,
	}
}

// Cell truncates fractional screen coordinates to a cell.
func Cell(x, y float64) Point {
	return Point{X: int(math.Floor(x)), Y: int(math.Floor(y))}
}

// Project converts lat/lon to screen coordinates with (0, 0) at the
// top-left. ok is false when the CRS cannot represent the point.
func (p *Projection) Project(lat, lon float64) (Point, bool) {
	if p.crs.Geographic {
		lon = p.centerLon + math.Remainder(lon-p.centerLon, 360)
	} else if !p.crs.Domain.Contains(crs.Point{X: lon, Y: lat}) {
		return Point{}, false
	}
	q, ok := p.crs.Forward(crs.Point{X: lon, Y: lat})
	if !ok {
		return Point{}, false
	}
	return Cell(p.ScreenXY(q)), true
}

// Unproject converts the middle of a screen cell back to lat/lon
func (p *Projection) Unproject(x, y int) (lat, lon float64, ok bool) {
	ll, ok := p.crs.Inverse(p.DataAt(float64(x)+0.5, float64(y)+0.5))
	return ll.Y, ll.X, ok
}

// IsInBounds checks if a lat/lon point would be visible on screen
func (p *Projection) IsInBounds(lat, lon float64) bool {
	point, ok := p.Project(lat, lon)
	return ok && point.X >= p.originX && point.X < p.originX+p.screenWidth &&
		point.Y >= p.originY && point.Y < p.originY+p.screenHeight
}

// DataBounds returns the visible region in CRS units.
func (p *Projection) DataBounds() crs.Bounds {
	halfW := float64(p.screenWidth) / 2 * p.scale
	halfH := float64(p.screenHeight) / 2 * p.scale * p.aspectRatio
	return crs.Bounds{
		MinX: p.center.X - halfW, MaxX: p.center.X + halfW,
		MinY: p.center.Y - halfH, MaxY: p.center.Y + halfH,
	}
}

// Viewport describes the projected block as a measurable surface on page.
func (p *Projection) Viewport(page Page) surface.Viewport {
	corner := page.ToInches(float64(p.originX), float64(p.originY+p.screenHeight))
	return surface.New(p.DataBounds(), surface.Rect{
		X:      corner.X,
		Y:      corner.Y,
		Width:  float64(p.screenWidth) / page.DPI,
		Height: float64(p.screenHeight) * page.Aspect / page.DPI,
	}, page.DPI)
}

// UpdateCenter recalculates the projection with a new center point
func (p *Projection) UpdateCenter(lat, lon float64) error {
	oldLat, oldLon := p.centerLat, p.centerLon
	p.centerLat = lat
	p.centerLon = lon
	if err := p.calculateScale(); err != nil {
		p.centerLat, p.centerLon = oldLat, oldLon
		_ = p.calculateScale()
		return err
	}
	return nil
}

// Pan moves the center by whole cells; positive dy moves south on screen.
func (p *Projection) Pan(dx, dy int) error {
	ll, ok := p.crs.Inverse(p.DataAt(
		float64(p.originX)+float64(p.screenWidth)/2+float64(dx),
		float64(p.originY)+float64(p.screenHeight)/2+float64(dy),
	))
	if !ok || !p.crs.Domain.Contains(ll) {
		return fmt.Errorf("pan leaves %s: %w", p.crs, diag.ErrProjectionFailure)
	}
	return p.UpdateCenter(ll.Y, ll.X)
}

// Zoom scales the radius; factors below 1 zoom in.
func (p *Projection) Zoom(factor float64) error {
	if factor <= 0 {
		return fmt.Errorf("zoom factor %g: %w", factor, diag.ErrInvalidMagnitude)
	}
	p.radiusKm *= factor
	return p.calculateScale()
}

// UpdateDimensions updates the screen dimensions and recalculates scaling
func (p *Projection) UpdateDimensions(width, height int) {
	p.screenWidth = width
	p.screenHeight = height
	_ = p.calculateScale()
}

// SetOrigin moves the block's top-left cell.
func (p *Projection) SetOrigin(x, y int) {
	p.originX = x
	p.originY = y
}

// GetCenter returns the current center point
func (p *Projection) GetCenter() (lat, lon float64) {
	return p.centerLat, p.centerLon
}

func (p *Projection) CRS() *crs.CRS { return p.crs }
func (p *Projection) Radius() float64 { return p.radiusKm }
func (p *Projection) Size() (int, int) { return p.screenWidth, p.screenHeight }
func (p *Projection) Origin() (int, int) { return p.originX, p.originY }

// GetBounds returns the geographic bounds visible on screen, sampled on a
// grid since projected blocks are not lat/lon boxes.
func (p *Projection) GetBounds() *Bounds {
	const steps = 8
	b := &Bounds{MinLat: 90, MaxLat: -90, MinLon: 180, MaxLon: -180}
	found := false
	for i := 0; i <= steps; i++ {
		for j := 0; j <= steps; j++ {
			x := float64(p.originX) + float64(p.screenWidth)*float64(i)/steps
			y := float64(p.originY) + float64(p.screenHeight)*float64(j)/steps
			ll, ok := p.crs.Inverse(p.DataAt(x, y))
			if !ok {
				continue
			}
			found = true
			b.MinLat = math.Min(b.MinLat, ll.Y)
			b.MaxLat = math.Max(b.MaxLat, ll.Y)
			b.MinLon = math.Min(b.MinLon, ll.X)
			b.MaxLon = math.Max(b.MaxLon, ll.X)
		}
	}
	if !found {
		return &Bounds{MinLat: -90, MaxLat: 90, MinLon: -180, MaxLon: 180}
	}

	// Grid samples miss a pole inside the block and wrap at the antimeridian.
	visible := p.DataBounds()
	for _, pole := range []float64{90, -90} {
		if q, ok := p.crs.Forward(crs.Point{X: p.centerLon, Y: pole}); ok && visible.Contains(q) {
			b.MinLat = math.Min(b.MinLat, pole)
			b.MaxLat = math.Max(b.MaxLat, pole)
			b.MinLon, b.MaxLon = -180, 180
		}
	}
	if b.MaxLon-b.MinLon > 180 || b.MinLon < -180 || b.MaxLon > 180 {
		b.MinLon, b.MaxLon = -180, 180
	}
	return b
}
