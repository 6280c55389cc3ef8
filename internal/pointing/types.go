// Package pointing builds and loads tables of survey observation
// opportunities: exposure epoch, sky position, filter and 5-sigma depth.
package pointing

import (
	"math"
	"sort"
)

// Pointing is a single exposure of a survey.
type Pointing struct {
	MJD            float64
	RADeg          float64
	DecDeg         float64
	Filter         string
	FiveSigmaDepth float64
}

// Table is an ordered set of pointings and where they came from.
type Table struct {
	Source    string
	Pointings []Pointing
}

// Len returns the number of pointings.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Pointings)
}

// Span returns the earliest and latest exposure MJD. Both are zero for an
// empty table.
func (t *Table) Span() (start, end float64) {
	if t.Len() == 0 {
		return 0, 0
	}
	start, end = math.Inf(1), math.Inf(-1)
	for _, p := range t.Pointings {
		start = math.Min(start, p.MJD)
		end = math.Max(end, p.MJD)
	}
	return start, end
}

// DecRange returns the minimum and maximum declination in degrees. Both are
// zero for an empty table.
func (t *Table) DecRange() (lo, hi float64) {
	if t.Len() == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range t.Pointings {
		lo = math.Min(lo, p.DecDeg)
		hi = math.Max(hi, p.DecDeg)
	}
	return lo, hi
}

// Filters returns the distinct filter names in sorted order.
func (t *Table) Filters() []string {
	if t.Len() == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	for _, p := range t.Pointings {
		seen[p.Filter] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Subset returns the pointings at the given indices, in index order.
func (t *Table) Subset(indices []int) []Pointing {
	out := make([]Pointing, 0, len(indices))
	for _, i := range indices {
		out = append(out, t.Pointings[i])
	}
	return out
}
