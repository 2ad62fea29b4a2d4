package geo

import "mapdecor/internal/crs"

// Page maps terminal cells to figure inches. Inches run up from the bottom
// edge of the screen; a column is 1/DPI wide and a row Aspect/DPI tall.
type Page struct {
	Rows   int
	DPI    float64
	Aspect float64
}

// ToInches converts a fractional cell position to figure inches.
func (g Page) ToInches(col, row float64) crs.Point {
	return crs.Point{
		X: col / g.DPI,
		Y: (float64(g.Rows) - row) * g.Aspect / g.DPI,
	}
}

// ToCell converts figure inches to a fractional cell position.
func (g Page) ToCell(p crs.Point) (float64, float64) {
	return p.X * g.DPI, float64(g.Rows) - p.Y*g.DPI/g.Aspect
}

// Cells converts a length in inches to whole columns or rows.
func (g Page) Cells(inches float64, vertical bool) int {
	if vertical {
		return int(inches*g.DPI/g.Aspect + 0.5)
	}
	return int(inches*g.DPI + 0.5)
}
