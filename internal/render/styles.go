package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"mapdecor/internal/geo"
)

// rgb converts a hex color to a terminal color, falling back to the
// terminal default for malformed input.
func rgb(hex string) tcell.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.ColorDefault
	}
	return toTcell(c)
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// blend mixes two hex colors in Lab space; t=0 is a, t=1 is b.
func blend(a, b string, t float64) tcell.Color {
	ca, err := colorful.Hex(a)
	if err != nil {
		return rgb(b)
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return toTcell(ca)
	}
	return toTcell(ca.BlendLab(cb, t))
}

const (
	colorLand      = "#8a8a8a"
	colorWater     = "#3a7bd5"
	colorHighlight = "#ff5f5f"
	colorInk       = "#f0f0f0"
	colorPaper     = "#1c1c1c"
)

// Style definitions for map features and decorations
var (
	StyleCountryBorder = tcell.StyleDefault.Foreground(rgb(colorLand))
	StyleStateBorder   = tcell.StyleDefault.Foreground(blend(colorLand, colorPaper, 0.5))
	StyleRiver         = tcell.StyleDefault.Foreground(blend(colorWater, colorPaper, 0.3))
	StyleCoastline     = tcell.StyleDefault.Foreground(rgb(colorWater))
	StyleCity          = tcell.StyleDefault.Foreground(rgb(colorInk))
	StyleLabel         = tcell.StyleDefault.Foreground(rgb(colorInk))

	StyleScaleDark  = tcell.StyleDefault.Foreground(rgb(colorInk))
	StyleScaleLight = tcell.StyleDefault.Foreground(blend(colorInk, colorPaper, 0.5))
	StyleArrow      = tcell.StyleDefault.Foreground(rgb(colorInk)).Bold(true)
	StyleExtent     = tcell.StyleDefault.Foreground(rgb(colorHighlight)).Bold(true)
	StyleConnector  = tcell.StyleDefault.Foreground(blend(colorHighlight, colorPaper, 0.4))
	StyleInsetFrame = tcell.StyleDefault.Foreground(rgb(colorInk))

	StyleStatus       = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(rgb(colorLand))
	StyleListItem     = tcell.StyleDefault.Foreground(rgb(colorInk))
	StyleListSelected = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(rgb(colorInk))
	StyleWarning      = tcell.StyleDefault.Foreground(rgb("#ffaf00"))
)

// GetStyleForFeature returns the appropriate style for a feature type
func GetStyleForFeature(ftype geo.FeatureType) tcell.Style {
	switch ftype {
	case geo.FeatureCountryBorder:
		return StyleCountryBorder
	case geo.FeatureStateBorder:
		return StyleStateBorder
	case geo.FeatureRiver:
		return StyleRiver
	case geo.FeatureCoastline:
		return StyleCoastline
	case geo.FeatureCity:
		return StyleCity
	default:
		return tcell.StyleDefault
	}
}

// GetCharForFeature returns the appropriate character for drawing a feature
func GetCharForFeature(ftype geo.FeatureType) rune {
	switch ftype {
	case geo.FeatureCountryBorder:
		return '+'
	case geo.FeatureStateBorder:
		return '-'
	case geo.FeatureRiver:
		return '~'
	case geo.FeatureCoastline:
		return '.'
	default:
		return '·'
	}
}
