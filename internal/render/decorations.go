package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"mapdecor/internal/crs"
	"mapdecor/internal/geo"
	"mapdecor/internal/inset"
	"mapdecor/internal/scalebar"
	"mapdecor/internal/surface"
)

// Decorator draws solved decoration geometry, given in figure inches, onto
// a canvas covering the page.
type Decorator struct {
	canvas *Canvas
	page   geo.Page
}

// NewDecorator creates a decorator for canvas laid out as page.
func NewDecorator(canvas *Canvas, page geo.Page) *Decorator {
	return &Decorator{canvas: canvas, page: page}
}

// cellEps absorbs float noise for points sitting on a cell edge.
const cellEps = 1e-6

func (d *Decorator) cell(p crs.Point) (int, int) {
	x, y := d.page.ToCell(p)
	c := geo.Cell(x+cellEps, y+cellEps)
	return c.X, c.Y
}

// edge rounds a figure point to the nearest cell corner.
func (d *Decorator) edge(p crs.Point) (int, int) {
	x, y := d.page.ToCell(p)
	return int(math.Round(x)), int(math.Round(y))
}

// ScaleBar draws a bar starting at origin (figure inches, the bar's zero
// end) with alternating filled and shaded minor intervals. Major labels go
// above a horizontal bar and right of a vertical one; the last label
// carries the unit.
func (d *Decorator) ScaleBar(res scalebar.Result, origin crs.Point) {
	if res.Total <= 0 {
		return
	}
	x0, y0 := d.cell(origin)
	cells := d.page.Cells(res.Length, res.Vertical)
	if cells < 1 {
		cells = 1
	}
	at := func(v float64) int {
		return int(math.Round(v / res.Total * float64(cells)))
	}
	pos := func(offset int) (int, int) {
		if res.Vertical {
			return x0, y0 - offset
		}
		return x0 + offset, y0
	}

	bounds := res.Divisions.Boundaries()
	for i := 0; i+1 < len(bounds); i++ {
		char, style := '█', StyleScaleDark
		if i%2 == 1 {
			char, style = '░', StyleScaleLight
		}
		for k := at(bounds[i]); k < at(bounds[i+1]); k++ {
			x, y := pos(k)
			d.canvas.Set(x, y, char, style)
		}
	}

	labels := res.Divisions.Labels("", false)
	for i, v := range res.Divisions.Majors {
		text := labels[i]
		if i == len(labels)-1 && res.Label != "" {
			text += " " + res.Label
		}
		x, y := pos(at(v))
		if res.Vertical {
			d.canvas.DrawText(x+2, y, text, StyleLabel)
			continue
		}
		if i == 0 {
			d.canvas.DrawText(x, y-1, text, StyleLabel)
			continue
		}
		if i == len(labels)-1 {
			// keep the number, not the unit, over the end tick
			x -= runewidth.StringWidth(labels[i]) - 1
			d.canvas.DrawText(x, y-1, text, StyleLabel)
			continue
		}
		d.canvas.DrawTextCentered(x, y-1, text, StyleLabel)
	}
}

var arrowGlyphs = [8]rune{'↑', '↗', '→', '↘', '↓', '↙', '←', '↖'}

// ArrowGlyph picks the nearest of eight arrows for a clockwise bearing.
func ArrowGlyph(angle float64) rune {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return arrowGlyphs[int(math.Round(a/45))%8]
}

// NorthArrow draws an arrow at center pointing along angle with an N on
// the side it points to.
func (d *Decorator) NorthArrow(center crs.Point, angle float64) {
	x, y := d.cell(center)
	d.canvas.Set(x, y, ArrowGlyph(angle), StyleArrow)

	rad := angle * math.Pi / 180
	nx := x + int(math.Round(2*math.Sin(rad)))
	ny := y - int(math.Round(math.Cos(rad)))
	d.canvas.Set(nx, ny, 'N', StyleArrow)
}

// Polygon draws a closed outline through figure points.
func (d *Decorator) Polygon(pts []crs.Point, char rune, style tcell.Style) {
	for i := range pts {
		x0, y0 := d.cell(pts[i])
		x1, y1 := d.cell(pts[(i+1)%len(pts)])
		d.canvas.DrawLine(x0, y0, x1, y1, char, style)
	}
}

// Extent draws a projected extent polygon.
func (d *Decorator) Extent(ext inset.Extent) {
	d.Polygon(ext.Figure[:], '#', StyleExtent)
}

// Connectors draws the lines from the extent polygon to the detail frame.
func (d *Decorator) Connectors(conns []inset.Connector) {
	for _, c := range conns {
		x0, y0 := d.cell(c.From)
		x1, y1 := d.cell(c.To)
		d.canvas.DrawLine(x0, y0, x1, y1, '·', StyleConnector)
	}
}

// Frame clears r and draws its border; it returns the interior as a cell
// block (x, y, width, height).
func (d *Decorator) Frame(r surface.Rect) (int, int, int, int) {
	x0, y0 := d.edge(crs.Point{X: r.X, Y: r.Y + r.Height})
	x1, y1 := d.edge(crs.Point{X: r.X + r.Width, Y: r.Y})
	w, h := x1-x0, y1-y0
	d.canvas.ClearRegion(x0, y0, w, h)
	d.canvas.DrawBox(x0, y0, w, h, StyleInsetFrame)
	return x0 + 1, y0 + 1, w - 2, h - 2
}
