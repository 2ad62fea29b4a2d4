package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"mapdecor/internal/render"
)

// panel is an opaque bordered box drawn straight onto the screen.
type panel struct {
	x, y          int
	width, height int
}

// UpdateDimensions updates the panel position and size
func (p *panel) UpdateDimensions(x, y, width, height int) {
	p.x = x
	p.y = y
	p.width = width
	p.height = height
}

// rows is the number of text lines inside the border.
func (p *panel) rows() int {
	return max(p.height-2, 0)
}

// drawFrame clears the panel area, then draws the border and a centered title
func (p *panel) drawFrame(screen tcell.Screen, title string) {
	for row := p.y + 1; row < p.y+p.height-1; row++ {
		for col := p.x + 1; col < p.x+p.width-1; col++ {
			screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}

	style := render.StyleLabel

	screen.SetContent(p.x, p.y, '┌', nil, style)
	screen.SetContent(p.x+p.width-1, p.y, '┐', nil, style)
	screen.SetContent(p.x, p.y+p.height-1, '└', nil, style)
	screen.SetContent(p.x+p.width-1, p.y+p.height-1, '┘', nil, style)

	for i := 1; i < p.width-1; i++ {
		screen.SetContent(p.x+i, p.y, '─', nil, style)
		screen.SetContent(p.x+i, p.y+p.height-1, '─', nil, style)
	}

	for i := 1; i < p.height-1; i++ {
		screen.SetContent(p.x, p.y+i, '│', nil, style)
		screen.SetContent(p.x+p.width-1, p.y+i, '│', nil, style)
	}

	p.drawText(screen, p.x+(p.width-runewidth.StringWidth(title))/2, p.y, title, p.width, style)
}

// drawLine draws text on an inner row, truncated to the panel width
func (p *panel) drawLine(screen tcell.Screen, row int, text string, style tcell.Style) {
	p.drawText(screen, p.x+2, p.y+1+row, text, p.width-4, style)
}

func (p *panel) drawText(screen tcell.Screen, x, y int, text string, width int, style tcell.Style) {
	text = runewidth.Truncate(text, width, "…")
	for _, ch := range text {
		screen.SetContent(x, y, ch, nil, style)
		x += runewidth.RuneWidth(ch)
	}
}

// drawText writes a line at screen position x, y.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		screen.SetContent(x, y, ch, nil, style)
		x += runewidth.RuneWidth(ch)
	}
}
