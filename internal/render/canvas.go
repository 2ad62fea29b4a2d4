package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Canvas is a grid of styled terminal cells. Map layers and decorations are
// drawn here and copied to the screen in one pass. Coordinates are screen
// cells; a canvas placed at an origin clips everything outside its block.
type Canvas struct {
	x0, y0 int
	width  int
	height int
	cells  [][]Cell
}

// Cell represents a single character cell with style
type Cell struct {
	Char  rune
	Style tcell.Style
}

var blank = Cell{Char: ' ', Style: tcell.StyleDefault}

// NewCanvas creates a new blank canvas at the screen origin
func NewCanvas(width, height int) *Canvas {
	return NewCanvasAt(0, 0, width, height)
}

// NewCanvasAt creates a blank canvas covering width x height cells from
// screen cell (x, y).
func NewCanvasAt(x, y, width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c := &Canvas{x0: x, y0: y, width: width, height: height, cells: make([][]Cell, height)}
	for i := range c.cells {
		c.cells[i] = make([]Cell, width)
	}
	c.Clear()
	return c
}

// Set sets the character and style at the given position; (0,0) is the
// top-left and writes outside the canvas are dropped.
func (c *Canvas) Set(x, y int, char rune, style tcell.Style) {
	if c.In(x, y) {
		c.cells[y-c.y0][x-c.x0] = Cell{Char: char, Style: style}
	}
}

// In reports whether (x, y) is on the canvas.
func (c *Canvas) In(x, y int) bool {
	return x >= c.x0 && x < c.x0+c.width && y >= c.y0 && y < c.y0+c.height
}

// Get retrieves the cell at the given position
func (c *Canvas) Get(x, y int) Cell {
	if c.In(x, y) {
		return c.cells[y-c.y0][x-c.x0]
	}
	return blank
}

// Clear resets the entire canvas to spaces with default style
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = blank
		}
	}
}

// ClearRegion clears a rectangular region
func (c *Canvas) ClearRegion(x, y, width, height int) {
	c.FillRect(x, y, width, height, ' ', tcell.StyleDefault)
}

// DrawText draws a string at the given position and returns the number of
// columns used. Wide runes take two columns.
func (c *Canvas) DrawText(x, y int, text string, style tcell.Style) int {
	col := x
	for _, char := range text {
		w := runewidth.RuneWidth(char)
		if w == 0 {
			continue
		}
		c.Set(col, y, char, style)
		if w == 2 {
			c.Set(col+1, y, ' ', style)
		}
		col += w
	}
	return col - x
}

// DrawTextCentered draws text centered on column x.
func (c *Canvas) DrawTextCentered(x, y int, text string, style tcell.Style) {
	c.DrawText(x-runewidth.StringWidth(text)/2, y, text, style)
}

// DrawLine implements Bresenham's line algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, char rune, style tcell.Style) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)

	sx := -1
	if x0 < x1 {
		sx = 1
	}

	sy := -1
	if y0 < y1 {
		sy = 1
	}

	err := dx - dy

	for {
		c.Set(x0, y0, char, style)

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := 2 * err

		if e2 > -dy {
			err -= dy
			x0 += sx
		}

		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawBox draws a box outline using box-drawing characters
func (c *Canvas) DrawBox(x, y, width, height int, style tcell.Style) {
	if width < 2 || height < 2 {
		return
	}

	c.Set(x, y, '┌', style)
	c.Set(x+width-1, y, '┐', style)
	c.Set(x, y+height-1, '└', style)
	c.Set(x+width-1, y+height-1, '┘', style)

	for i := 1; i < width-1; i++ {
		c.Set(x+i, y, '─', style)
		c.Set(x+i, y+height-1, '─', style)
	}

	for i := 1; i < height-1; i++ {
		c.Set(x, y+i, '│', style)
		c.Set(x+width-1, y+i, '│', style)
	}
}

// FillRect fills a rectangle with a character
func (c *Canvas) FillRect(x, y, width, height int, char rune, style tcell.Style) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			c.Set(x+dx, y+dy, char, style)
		}
	}
}

// Origin returns the screen cell of the top-left corner
func (c *Canvas) Origin() (int, int) {
	return c.x0, c.y0
}

// Width returns the canvas width
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height
func (c *Canvas) Height() int {
	return c.height
}

// Row returns the characters of one row, for tests and logs.
func (c *Canvas) Row(y int) string {
	if y < c.y0 || y >= c.y0+c.height {
		return ""
	}
	var b strings.Builder
	for _, cell := range c.cells[y-c.y0] {
		b.WriteRune(cell.Char)
	}
	return b.String()
}

// Blit renders the canvas to a tcell screen, shifted by an offset
func (c *Canvas) Blit(screen tcell.Screen, offsetX, offsetY int) {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			cell := c.cells[y][x]
			screen.SetContent(c.x0+offsetX+x, c.y0+offsetY+y, cell.Char, nil, cell.Style)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
