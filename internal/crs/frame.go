package crs

import (
	"fmt"
	"strings"

	"mapdecor/internal/diag"
)

// PseudoUnit is a non-geographic measuring frame.
type PseudoUnit int

const (
	Pixel PseudoUnit = iota + 1
	PrinterPoint
	AxisUnit
)

func (u PseudoUnit) String() string {
	switch u {
	case Pixel:
		return "px"
	case PrinterPoint:
		return "pt"
	case AxisUnit:
		return "dx"
	default:
		return "unknown"
	}
}

var pseudoAliases = map[string]PseudoUnit{
	"px": Pixel, "pixel": Pixel, "pixels": Pixel,
	"pt": PrinterPoint, "point": PrinterPoint, "points": PrinterPoint,
	"dx": AxisUnit, "axis": AxisUnit, "custom": AxisUnit, "axis-unit": AxisUnit,
}

// Frame is what a surface's data coordinates are measured in: either a real
// CRS or a pseudo-unit. The variant is fixed by the constructor.
type Frame struct {
	crs    *CRS
	pseudo PseudoUnit
}

// Real returns a frame backed by a CRS.
func Real(c *CRS) Frame {
	return Frame{crs: c}
}

// Pseudo returns a frame measured in a pseudo-unit.
func Pseudo(u PseudoUnit) Frame {
	return Frame{pseudo: u}
}

// IsPseudo reports whether the frame bypasses CRS logic.
func (f Frame) IsPseudo() bool {
	return f.crs == nil
}

// CRS returns the backing CRS, nil for pseudo frames.
func (f Frame) CRS() *CRS {
	return f.crs
}

// Pseudo returns the pseudo-unit, zero for real frames.
func (f Frame) Pseudo() PseudoUnit {
	return f.pseudo
}

func (f Frame) String() string {
	if f.crs != nil {
		return f.crs.String()
	}
	return f.pseudo.String()
}

// ParseFrame accepts a pseudo-unit alias (px, pt, dx and spellings), an
// EPSG code or a registered CRS name.
func ParseFrame(s string) (Frame, error) {
	if u, ok := pseudoAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return Pseudo(u), nil
	}
	c, err := Lookup(s)
	if err != nil {
		return Frame{}, fmt.Errorf("frame: %w", err)
	}
	return Real(c), nil
}

// Validate rejects zero frames and pseudo frames with an unknown unit.
func (f Frame) Validate() error {
	if f.crs == nil && (f.pseudo < Pixel || f.pseudo > AxisUnit) {
		return fmt.Errorf("empty frame: %w", diag.ErrUnsupportedCRS)
	}
	return nil
}
