package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"mapdecor/internal/diag"
	"mapdecor/internal/render"
)

// DiagnosticsView displays a scrollable list of solver notes and errors
type DiagnosticsView struct {
	panel
	items        []string
	warn         []bool
	scrollOffset int
}

// NewDiagnosticsView creates a new diagnostics panel
func NewDiagnosticsView(x, y, width, height int) *DiagnosticsView {
	return &DiagnosticsView{panel: panel{x: x, y: y, width: width, height: height}}
}

// Update refreshes the list
func (v *DiagnosticsView) Update(d Decorations) {
	v.items = v.items[:0]
	v.warn = v.warn[:0]
	for _, err := range d.Errors {
		v.items = append(v.items, fmt.Sprintf("error: %v", err))
		v.warn = append(v.warn, true)
	}
	for _, note := range d.Diagnostics {
		v.items = append(v.items, note.String())
		v.warn = append(v.warn, note.Level == diag.Warning)
	}
	v.adjustScroll()
}

// ScrollDown moves the list one page down
func (v *DiagnosticsView) ScrollDown() {
	v.scrollOffset += max(v.rows(), 1)
	v.adjustScroll()
}

// ScrollUp moves the list one page up
func (v *DiagnosticsView) ScrollUp() {
	v.scrollOffset -= max(v.rows(), 1)
	v.adjustScroll()
}

// adjustScroll keeps the offset inside the list
func (v *DiagnosticsView) adjustScroll() {
	if v.scrollOffset > len(v.items)-v.rows() {
		v.scrollOffset = len(v.items) - v.rows()
	}
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
}

// Items returns the rendered entries
func (v *DiagnosticsView) Items() []string {
	return v.items
}

// Draw renders the diagnostics view to the screen
func (v *DiagnosticsView) Draw(screen tcell.Screen) {
	v.drawFrame(screen, fmt.Sprintf(" Diagnostics (%d) ", len(v.items)))

	if len(v.items) == 0 {
		v.drawLine(screen, v.rows()/2, "No diagnostics", render.StyleListItem)
		return
	}

	for i := 0; i < v.rows() && v.scrollOffset+i < len(v.items); i++ {
		idx := v.scrollOffset + i
		style := render.StyleListItem
		if v.warn[idx] {
			style = render.StyleWarning
		}
		v.drawLine(screen, i, v.items[idx], style)
	}

	if len(v.items) > v.rows() {
		screen.SetContent(v.x+v.width-2, v.y, '↕', nil, render.StyleLabel)
	}
}
