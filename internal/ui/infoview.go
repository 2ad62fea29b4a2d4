package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"mapdecor/internal/geo"
	"mapdecor/internal/render"
	"mapdecor/internal/surface"
)

// InfoView displays the solved decoration geometry
type InfoView struct {
	panel
	lines []string
}

// NewInfoView creates a new info panel
func NewInfoView(x, y, width, height int) *InfoView {
	return &InfoView{panel: panel{x: x, y: y, width: width, height: height}}
}

// Update rebuilds the text from a projection and its decorations
func (v *InfoView) Update(proj *geo.Projection, mode InsetMode, d Decorations) {
	lat, lon := proj.GetCenter()
	c := proj.CRS()
	v.lines = []string{
		fmt.Sprintf("CRS:       %s %s", c.EPSG, c.Name),
		fmt.Sprintf("Center:    %.4f, %.4f", lat, lon),
		fmt.Sprintf("Radius:    %.1f km", proj.Radius()),
	}

	for i, bar := range d.Bars {
		name := "Scale:"
		if i > 0 {
			name = "Scale 2:"
		}
		v.lines = append(v.lines,
			fmt.Sprintf("%-10s %s %s in %d×%d, %.2f in",
				name, trim(bar.Total), bar.Label, bar.Major, bar.Minor, bar.Length),
			fmt.Sprintf("           ticks %s", strings.Join(bar.Divisions.Labels("", false), " ")))
	}

	v.lines = append(v.lines, fmt.Sprintf("North:     %+.2f°", d.Arrow.Angle))
	v.lines = append(v.lines, fmt.Sprintf("Inset:     %s", mode))

	if d.Extent != nil {
		clipped := 0
		for _, c := range d.Extent.Clipped {
			if c {
				clipped++
			}
		}
		v.lines = append(v.lines, fmt.Sprintf("Extent:    %d of 4 corners clipped", clipped))
	}
	if d.Linkage != nil {
		names := make([]string, 0, 2)
		for _, c := range d.Linkage.Connectors {
			names = append(names, fmt.Sprintf("%s %.2f in", surface.CornerNames[c.Corner], c.Length))
		}
		v.lines = append(v.lines, fmt.Sprintf("Links:     %s", strings.Join(names, ", ")))
	}
	if n := len(d.Diagnostics) + len(d.Errors); n > 0 {
		v.lines = append(v.lines, fmt.Sprintf("Notes:     %d (Tab for details)", n))
	}
}

func trim(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.6f", v), "0"), ".")
}

// Lines returns the current text
func (v *InfoView) Lines() []string {
	return v.lines
}

// Draw renders the info view to the screen
func (v *InfoView) Draw(screen tcell.Screen) {
	v.drawFrame(screen, " Decorations ")
	for i, line := range v.lines {
		if i >= v.rows() {
			break
		}
		v.drawLine(screen, i, line, render.StyleLabel)
	}
}
