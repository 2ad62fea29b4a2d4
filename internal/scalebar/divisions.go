package scalebar

import (
	"fmt"
	"math"
	"strconv"

	"mapdecor/internal/measure"
)

// MinorPlacement selects which major intervals get minor ticks.
type MinorPlacement int

const (
	// All subdivides every major interval.
	All MinorPlacement = iota
	// First subdivides only the first major interval.
	First
)

// preferredDivisions maps the total's nice mantissa to (major, minor).
// Three-way splits are never used.
var preferredDivisions = map[float64][2]int{
	1:   {5, 2},
	2:   {4, 2},
	2.5: {5, 1},
	5:   {5, 1},
	10:  {5, 2},
}

// preferredCounts are the only automatic major counts, largest first.
var preferredCounts = []int{5, 4, 2, 1}

// chooseDivisions picks major and minor counts for a total length.
func chooseDivisions(total float64) (int, int) {
	if m, _, err := measure.Decompose(total); err == nil {
		if n, ok := measure.NiceMantissa(m); ok {
			if d, ok := preferredDivisions[n]; ok {
				return d[0], d[1]
			}
		}
	}
	for _, c := range preferredCounts {
		if measure.IsNice(total / float64(c)) {
			return c, minorFor(c)
		}
	}
	for _, c := range preferredCounts {
		q := total / float64(c)
		if math.Abs(q-math.Round(q)) <= 1e-9*math.Max(1, q) {
			return c, minorFor(c)
		}
	}
	return 1, 1
}

func minorFor(major int) int {
	if major%2 == 0 {
		return 2
	}
	return 1
}

// Divisions holds tick boundaries as offsets from the bar origin. Majors
// runs from 0 to the total; Minors[i] runs across major interval i.
type Divisions struct {
	Majors []float64
	Minors [][]float64
}

func newDivisions(total float64, major, minor int, placement MinorPlacement) Divisions {
	d := Divisions{
		Majors: make([]float64, major+1),
		Minors: make([][]float64, major),
	}
	for i := range d.Majors {
		d.Majors[i] = total * float64(i) / float64(major)
	}
	d.Majors[major] = total

	for i := 0; i < major; i++ {
		lo, hi := d.Majors[i], d.Majors[i+1]
		n := minor
		if placement == First && i > 0 {
			n = 1
		}
		ticks := make([]float64, n+1)
		for j := range ticks {
			ticks[j] = lo + (hi-lo)*float64(j)/float64(n)
		}
		ticks[n] = hi
		d.Minors[i] = ticks
	}
	return d
}

// Boundaries flattens majors and minors into one sorted sequence without
// repeats.
func (d Divisions) Boundaries() []float64 {
	var out []float64
	for i, ticks := range d.Minors {
		start := 0
		if i > 0 {
			start = 1
		}
		out = append(out, ticks[start:]...)
	}
	if len(out) == 0 {
		out = append(out, d.Majors...)
	}
	return out
}

// Labels formats the major boundaries. format is a fmt verb such as "%.1f";
// empty uses the shortest exact form. integer rounds first.
func (d Divisions) Labels(format string, integer bool) []string {
	out := make([]string, len(d.Majors))
	for i, v := range d.Majors {
		switch {
		case integer:
			out[i] = strconv.FormatInt(int64(math.Round(v)), 10)
		case format != "":
			out[i] = fmt.Sprintf(format, v)
		default:
			out[i] = strconv.FormatFloat(roundLabel(v), 'f', -1, 64)
		}
	}
	return out
}

// roundLabel trims float noise such as 0.30000000000000004.
func roundLabel(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 12, 64), 64)
	if err != nil {
		return v
	}
	return r
}
