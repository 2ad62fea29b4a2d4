package ui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"mapdecor/internal/config"
	"mapdecor/internal/crs"
	"mapdecor/internal/debug"
	"mapdecor/internal/diag"
	"mapdecor/internal/geo"
	"mapdecor/internal/inset"
	"mapdecor/internal/northarrow"
	"mapdecor/internal/render"
	"mapdecor/internal/scalebar"
	"mapdecor/internal/surface"
)

// InsetMode selects what the inset map shows
type InsetMode int

const (
	InsetOff    InsetMode = iota
	InsetExtent           // wider overview outlining the main map
	InsetDetail           // close-up linked to its spot on the main map
)

func (m InsetMode) String() string {
	switch m {
	case InsetExtent:
		return "extent"
	case InsetDetail:
		return "detail"
	default:
		return "off"
	}
}

// Decorations holds what the last draw solved.
type Decorations struct {
	Bars        []scalebar.Result
	Arrow       northarrow.Result
	Extent      *inset.Extent
	Linkage     *inset.Linkage
	Diagnostics diag.List
	Errors      []error
}

func (d *Decorations) fail(what string, err error) {
	d.Errors = append(d.Errors, fmt.Errorf("%s: %w", what, err))
	debug.Log("%s failed: %v", what, err)
}

const (
	minRadiusKm = 1.0
	maxRadiusKm = 20000.0
	zoomStep    = 0.75
)

// MapView displays the base map and its decorations
type MapView struct {
	cfg        *config.Config
	provider   crs.Provider
	features   map[geo.FeatureType][]*geo.Feature
	projection *geo.Projection
	insetCRS   *crs.CRS
	canvas     *render.Canvas
	renderer   *render.MapRenderer
	width      int
	height     int
	insetMode  InsetMode
	last       Decorations
}

// mapRows leaves the bottom row for the status bar.
func mapRows(height int) int {
	return max(height-1, 1)
}

// NewMapView creates a new map view filling a width x height screen
func NewMapView(cfg *config.Config, provider crs.Provider, features map[geo.FeatureType][]*geo.Feature, width, height int) (*MapView, error) {
	mapFrame, err := crs.ParseFrame(cfg.Map.CRS)
	if err != nil {
		return nil, err
	}
	insetFrame, err := crs.ParseFrame(cfg.Inset.CRS)
	if err != nil {
		return nil, err
	}
	if mapFrame.IsPseudo() || insetFrame.IsPseudo() {
		return nil, fmt.Errorf("map and inset need real CRSs: %w", diag.ErrUnsupportedCRS)
	}
	lon, lat, err := cfg.Map.CenterLonLat()
	if err != nil {
		return nil, err
	}

	projection, err := geo.NewProjection(mapFrame.CRS(), lat, lon, cfg.Map.Radius, width, mapRows(height), cfg.Map.Aspect)
	if err != nil {
		return nil, err
	}
	canvas := render.NewCanvas(width, mapRows(height))

	mode := InsetOff
	if cfg.Inset.Enabled {
		mode = InsetExtent
		if cfg.Inset.Mode == "detail" {
			mode = InsetDetail
		}
	}

	return &MapView{
		cfg:        cfg,
		provider:   provider,
		features:   features,
		projection: projection,
		insetCRS:   insetFrame.CRS(),
		canvas:     canvas,
		renderer:   render.NewMapRenderer(projection, features, canvas),
		width:      width,
		height:     height,
		insetMode:  mode,
	}, nil
}

func (m *MapView) page() geo.Page {
	return geo.Page{Rows: m.height, DPI: m.cfg.Map.DPI, Aspect: m.cfg.Map.Aspect}
}

// Draw renders the map and decorations to the screen
func (m *MapView) Draw(screen tcell.Screen) {
	m.canvas.Clear()
	m.renderer.RenderMap()

	page := m.page()
	deco := render.NewDecorator(m.canvas, page)
	base := inset.View{
		Viewport: m.projection.Viewport(page),
		Frame:    crs.Real(m.projection.CRS()),
	}

	var d Decorations
	insetCanvas := m.drawInset(&d, deco, page, base)
	m.drawScaleBars(&d, deco, page, base.Viewport)
	m.drawNorthArrow(&d, deco, page, base.Viewport)

	m.canvas.Blit(screen, 0, 0)
	if insetCanvas != nil {
		insetCanvas.Blit(screen, 0, 0)
	}

	m.last = d
	debug.Dump("decorations", d)
}

// decorationPad keeps decorations off the map edge, inches.
const decorationPad = 0.2

func (m *MapView) drawScaleBars(d *Decorations, deco *render.Decorator, page geo.Page, vp surface.Viewport) {
	sb := m.cfg.ScaleBar
	sizing, diags, err := scalebar.Resolve(sb.Options())
	if err != nil {
		d.fail("scale bar", err)
		return
	}
	d.Diagnostics = append(d.Diagnostics, diags...)

	placement, err := sb.Placement()
	if err != nil {
		d.fail("scale bar", err)
		return
	}
	primary, secondary, err := sb.Units()
	if err != nil {
		d.fail("scale bar", err)
		return
	}

	req := scalebar.Request{Sizing: sizing, Rotation: sb.Rotation, MinorPlacement: placement}
	frame := crs.Real(m.projection.CRS())
	if secondary.IsZero() {
		res, err := scalebar.Solve(m.provider, req, vp, frame, primary)
		if err != nil {
			d.fail("scale bar", err)
			return
		}
		d.Bars = []scalebar.Result{res}
	} else {
		a, b, err := scalebar.SolveDual(m.provider, req, vp, frame, primary, secondary)
		if err != nil {
			d.fail("scale bar", err)
			return
		}
		d.Bars = []scalebar.Result{a, b}
	}

	col := 1 / page.DPI
	row := page.Aspect / page.DPI
	var length float64
	labelCols := 0
	for _, res := range d.Bars {
		d.Diagnostics = append(d.Diagnostics, res.Diagnostics...)
		length = math.Max(length, res.Length)
		labels := res.Divisions.Labels("", false)
		labelCols = max(labelCols, runewidth.StringWidth(labels[len(labels)-1]+" "+res.Label))
	}

	// Every bar gets a slot: a label row plus the bar row when horizontal,
	// the bar column plus its labels when vertical.
	n := float64(len(d.Bars))
	vertical := d.Bars[0].Vertical
	w := length + float64(labelCols)*col
	h := (3*n - 1) * row
	if vertical {
		w = n*float64(labelCols+3)*col - col
		h = length + row
	}

	loc, err := inset.ParseLocation(sb.Location)
	if err != nil {
		d.fail("scale bar", err)
		return
	}
	rect, err := inset.Place(vp.Rect, loc, w, h, decorationPad)
	if err != nil {
		d.fail("scale bar", err)
		return
	}

	for i, res := range d.Bars {
		origin := crs.Point{X: rect.X + col/2, Y: rect.Y + row/2}
		if vertical {
			origin.X += float64(i*(labelCols+3)) * col
		} else {
			origin.Y += float64(3*i) * row
		}
		deco.ScaleBar(res, origin)
	}
}

func (m *MapView) arrowReference() northarrow.Reference {
	na := m.cfg.NorthArrow
	switch na.Reference {
	case "axis":
		return northarrow.Axis{Fx: na.X, Fy: na.Y}
	case "data":
		return northarrow.Data{X: na.X, Y: na.Y}
	default:
		return northarrow.Center{}
	}
}

func (m *MapView) drawNorthArrow(d *Decorations, deco *render.Decorator, page geo.Page, vp surface.Viewport) {
	res, err := northarrow.SolveAt(m.provider, m.arrowReference(), vp, crs.Real(m.projection.CRS()))
	if err != nil {
		d.fail("north arrow", err)
		return
	}
	d.Arrow = res
	d.Diagnostics = append(d.Diagnostics, res.Diagnostics...)

	loc, err := inset.ParseLocation(m.cfg.NorthArrow.Location)
	if err != nil {
		d.fail("north arrow", err)
		return
	}
	rect, err := inset.Place(vp.Rect, loc, 5/page.DPI, 3*page.Aspect/page.DPI, decorationPad)
	if err != nil {
		d.fail("north arrow", err)
		return
	}
	deco.NorthArrow(crs.Point{X: rect.X + rect.Width/2, Y: rect.Y + rect.Height/2}, res.Angle)
}

// drawInset frames the inset on the main canvas and returns the inset's own
// canvas, or nil when there is none to show.
func (m *MapView) drawInset(d *Decorations, deco *render.Decorator, page geo.Page, base inset.View) *render.Canvas {
	if m.insetMode == InsetOff {
		return nil
	}
	ic := m.cfg.Inset

	loc, err := inset.ParseLocation(ic.Location)
	if err != nil {
		d.fail("inset", err)
		return nil
	}
	rect, err := inset.Place(base.Viewport.Rect, loc, ic.Size, ic.Size, ic.Pad)
	if err != nil {
		d.fail("inset", err)
		return nil
	}
	x, y, w, h := deco.Frame(rect)
	if w < 2 || h < 2 {
		return nil
	}

	radius := m.projection.Radius() * ic.Zoom
	if m.insetMode == InsetDetail {
		radius = m.projection.Radius() / ic.Zoom
	}
	lat, lon := m.projection.GetCenter()
	proj, err := geo.NewProjection(m.insetCRS, lat, lon, radius, w, h, m.cfg.Map.Aspect)
	if err != nil {
		d.fail("inset", err)
		return nil
	}
	proj.SetOrigin(x, y)

	canvas := render.NewCanvasAt(x, y, w, h)
	r := render.NewMapRenderer(proj, m.features, canvas)
	r.SetLabels(false)
	r.RenderMap()

	view := inset.View{Viewport: proj.Viewport(page), Frame: crs.Real(m.insetCRS)}
	opts := inset.Options{Pad: ic.ExtentPad, Straighten: ic.Straighten}

	switch m.insetMode {
	case InsetExtent:
		ext, err := inset.IndicateExtent(m.provider, view, base, opts)
		if err != nil {
			d.fail("inset extent", err)
			break
		}
		d.Extent = &ext
		d.Diagnostics = append(d.Diagnostics, ext.Diagnostics...)
		render.NewDecorator(canvas, page).Extent(ext)
	case InsetDetail:
		link, err := inset.IndicateDetail(m.provider, base, view, opts)
		if err != nil {
			d.fail("inset detail", err)
			break
		}
		d.Linkage = &link
		d.Diagnostics = append(d.Diagnostics, link.Diagnostics...)
		deco.Extent(link.Extent)
		deco.Connectors(link.Connectors[:])
	}
	return canvas
}

// UpdateDimensions updates the view dimensions when the screen is resized
func (m *MapView) UpdateDimensions(width, height int) {
	m.width = width
	m.height = height

	m.projection.UpdateDimensions(width, mapRows(height))

	m.canvas = render.NewCanvas(width, mapRows(height))
	m.renderer.UpdateCanvas(m.canvas)
}

// ZoomIn decreases the radius (zooms in)
func (m *MapView) ZoomIn() {
	m.zoom(zoomStep)
}

// ZoomOut increases the radius (zooms out)
func (m *MapView) ZoomOut() {
	m.zoom(1 / zoomStep)
}

func (m *MapView) zoom(factor float64) {
	next := m.projection.Radius() * factor
	if next < minRadiusKm || next > maxRadiusKm {
		return
	}
	if err := m.projection.Zoom(factor); err != nil {
		debug.Log("zoom failed: %v", err)
		return
	}
	debug.Log("Map radius changed to %.1f km", m.projection.Radius())
}

// Pan moves the center by a fraction of the screen; dx and dy are -1, 0
// or 1.
func (m *MapView) Pan(dx, dy int) {
	w, h := m.projection.Size()
	if err := m.projection.Pan(dx*max(w/8, 1), dy*max(h/8, 1)); err != nil {
		debug.Log("pan failed: %v", err)
		return
	}
	lat, lon := m.projection.GetCenter()
	debug.Log("Map re-centered at %.4f, %.4f", lat, lon)
}

// CycleInset steps extent -> detail -> off.
func (m *MapView) CycleInset() {
	m.insetMode = (m.insetMode + 1) % 3
}

// InsetMode returns what the inset shows
func (m *MapView) InsetMode() InsetMode {
	return m.insetMode
}

// Last returns the decorations of the last draw
func (m *MapView) Last() Decorations {
	return m.last
}

// GetProjection returns the current projection
func (m *MapView) GetProjection() *geo.Projection {
	return m.projection
}
