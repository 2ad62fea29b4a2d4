package measure

import (
	"fmt"
	"math"

	"mapdecor/internal/diag"
)

// Direction selects which neighbour NiceNumber returns.
type Direction int

const (
	Down Direction = iota
	Up
)

// NiceMantissas is the preferred sequence, repeated every power of ten.
var NiceMantissas = []float64{1, 2, 2.5, 5, 10}

const niceTolerance = 1e-9

func checkMagnitude(v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%v: %w", v, diag.ErrInvalidMagnitude)
	}
	return nil
}

// scaled returns m x 10^exp, dividing for negative exponents so exact
// decimal values stay exact.
func scaled(m float64, exp int) float64 {
	if exp < 0 {
		return m / math.Pow10(-exp)
	}
	return m * math.Pow10(exp)
}

// Decompose splits v > 0 into mantissa in [1, 10) and a power of ten.
func Decompose(v float64) (float64, int, error) {
	if err := checkMagnitude(v); err != nil {
		return 0, 0, err
	}
	exp := int(math.Floor(math.Log10(v)))
	m := v / scaled(1, exp)
	switch {
	case m >= 10*(1-niceTolerance):
		exp++
		m = v / scaled(1, exp)
	case m < 1:
		exp--
		m = v / scaled(1, exp)
	}
	return m, exp, nil
}

// NiceNumber returns the member of {1, 2, 2.5, 5, 10} x 10^n nearest to v
// from below (Down) or above (Up). Values already nice within tolerance are
// returned unchanged.
func NiceNumber(v float64, dir Direction) (float64, error) {
	_, exp, err := Decompose(v)
	if err != nil {
		return 0, err
	}

	if dir == Up {
		for e := exp - 1; e <= exp+1; e++ {
			for _, m := range NiceMantissas {
				if c := scaled(m, e); c >= v*(1-niceTolerance) {
					return math.Max(c, v), nil
				}
			}
		}
		return scaled(10, exp+1), nil
	}

	best := scaled(1, exp-1)
	for e := exp - 1; e <= exp+1; e++ {
		for _, m := range NiceMantissas {
			if c := scaled(m, e); c <= v*(1+niceTolerance) {
				best = c
			}
		}
	}
	return math.Min(best, v), nil
}

// IsNice reports whether v > 0 is a member of the preferred sequence.
func IsNice(v float64) bool {
	m, _, err := Decompose(v)
	if err != nil {
		return false
	}
	_, ok := NiceMantissa(m)
	return ok
}

// NiceMantissa matches m against the preferred mantissas within tolerance
// and returns the canonical member.
func NiceMantissa(m float64) (float64, bool) {
	for _, n := range NiceMantissas {
		if math.Abs(m-n) <= n*niceTolerance {
			return n, true
		}
	}
	return 0, false
}
