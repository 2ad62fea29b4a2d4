// Package scalebar resolves how long a scale bar is, in real-world units
// and on the page, and where its ticks fall.
package scalebar

import (
	"fmt"

	"mapdecor/internal/diag"
)

// Sizing says how the bar length is chosen. It is one of ByPhysicalLength,
// ByRealWorldMaximum or ByMajorDivisionUnit.
type Sizing interface {
	sizing()
}

// ByPhysicalLength asks for a bar about Length inches long, or that
// fraction of the axis when Length < 1. The real-world total is rounded
// down to a nice number. Major and Minor override the division table.
type ByPhysicalLength struct {
	Length       float64
	Major, Minor int
}

// ByRealWorldMaximum fixes the total at exactly Max label units.
type ByRealWorldMaximum struct {
	Max          float64
	Major, Minor int
}

// ByMajorDivisionUnit builds the bar from Count majors of Length units each,
// every major split into Minor parts.
type ByMajorDivisionUnit struct {
	Length float64
	Count  int
	Minor  int
}

func (ByPhysicalLength) sizing()    {}
func (ByRealWorldMaximum) sizing()  {}
func (ByMajorDivisionUnit) sizing() {}

// DefaultLength is the axis fraction used when nothing is specified.
const DefaultLength = 0.25

// Options are the loose, optional sizing parameters a caller might set
// together. Resolve picks the one that wins.
type Options struct {
	Max       float64 // exact real-world length
	Length    float64 // inches, or axis fraction below 1
	MajorMult float64 // real-world length of one major division
	Major     int     // major division count
	Minor     int     // minor divisions per major
}

// Resolve turns Options into a single Sizing. Precedence is Max, then Length,
// then MajorMult; losers are reported as ConflictingSpecification.
func Resolve(o Options) (Sizing, diag.List, error) {
	var diags diag.List
	if o.Major < 0 || o.Minor < 0 {
		return nil, nil, fmt.Errorf("major %d, minor %d: %w", o.Major, o.Minor, diag.ErrInvalidDivisionCount)
	}

	switch {
	case o.Max != 0:
		if o.Length != 0 {
			diags = append(diags, diag.Warnf(diag.ConflictingSpecification,
				"max %g overrides length %g", o.Max, o.Length))
		}
		if o.MajorMult != 0 {
			diags = append(diags, diag.Warnf(diag.ConflictingSpecification,
				"max %g overrides major multiple %g", o.Max, o.MajorMult))
		}
		return ByRealWorldMaximum{Max: o.Max, Major: o.Major, Minor: o.Minor}, diags, nil

	case o.Length != 0:
		if o.MajorMult != 0 {
			diags = append(diags, diag.Warnf(diag.ConflictingSpecification,
				"length %g overrides major multiple %g", o.Length, o.MajorMult))
		}
		return ByPhysicalLength{Length: o.Length, Major: o.Major, Minor: o.Minor}, diags, nil

	case o.MajorMult != 0:
		if o.Major == 0 {
			return nil, nil, fmt.Errorf("major multiple %g without a major count: %w",
				o.MajorMult, diag.ErrInvalidDivisionCount)
		}
		return ByMajorDivisionUnit{Length: o.MajorMult, Count: o.Major, Minor: o.Minor}, nil, nil
	}

	diags = append(diags, diag.Infof(diag.DefaultLength,
		"no size given, using %g of the axis", DefaultLength))
	return ByPhysicalLength{Length: DefaultLength, Major: o.Major, Minor: o.Minor}, diags, nil
}
