// Package sky finds which survey pointings cover a transient's position.
//
// Positions are converted to unit vectors and indexed in a k-d tree; an
// angular field-of-view radius becomes a chord length on the unit sphere, so
// a cone search is a plain Euclidean ball query.
package sky

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/cnsetzer/redback/internal/astro"
)

// boundaryTolerance widens the squared chord so that a separation equal to
// the field-of-view radius counts as inside despite rounding in the trig.
const boundaryTolerance = 1e-12

// Coord is an equatorial position in radians.
type Coord struct {
	RA  float64
	Dec float64
}

// Index is a k-d tree over pointing positions, built once and queried per
// transient.
type Index struct {
	tree *kdtree.Tree
	size int
}

// NewIndex builds a spatial index over the given pointing coordinates.
// Coordinates must already be in radians.
func NewIndex(pointings []Coord) *Index {
	pts := make(skyPoints, len(pointings))
	for i, c := range pointings {
		pts[i] = skyPoint{vec: astro.UnitVectorFromEquatorial(c.RA, c.Dec), index: i}
	}
	if len(pts) == 0 {
		return &Index{}
	}
	return &Index{tree: kdtree.New(pts, false), size: len(pts)}
}

// Len returns the number of indexed pointings.
func (ix *Index) Len() int {
	return ix.size
}

// Within returns the sorted indices of pointings whose angular separation
// from target is at most radius (radians). The boundary is closed. A radius
// of zero or less matches nothing.
func (ix *Index) Within(target Coord, radius float64) []int {
	if ix.tree == nil || radius <= 0 {
		return nil
	}

	chord := astro.ChordLength(radius)
	keep := kdtree.NewDistKeeper(chord * chord * (1 + boundaryTolerance))
	q := skyPoint{vec: astro.UnitVectorFromEquatorial(target.RA, target.Dec), index: -1}
	ix.tree.NearestSet(keep, q)

	out := make([]int, 0, len(keep.Heap))
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			// DistKeeper sentinel.
			continue
		}
		out = append(out, c.Comparable.(skyPoint).index)
	}
	sort.Ints(out)
	return out
}

// Overlaps returns, for each target, the sorted indices of pointings within
// radius. It builds one index over pointings and queries it once per target.
func Overlaps(targets, pointings []Coord, radius float64) [][]int {
	ix := NewIndex(pointings)
	out := make([][]int, len(targets))
	for i, t := range targets {
		out[i] = ix.Within(t, radius)
	}
	return out
}

// skyPoint is a kdtree.Comparable carrying the row index of its pointing.
type skyPoint struct {
	vec   astro.UnitVector
	index int
}

func (p skyPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(skyPoint)
	return p.vec[d] - q.vec[d]
}

func (p skyPoint) Dims() int { return 3 }

// Distance returns the squared chord distance, matching kdtree.Point.
func (p skyPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(skyPoint)
	return p.vec.SquaredDistance(q.vec)
}

// skyPoints implements kdtree.Interface.
type skyPoints []skyPoint

func (p skyPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p skyPoints) Len() int { return len(p) }
func (p skyPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

func (p skyPoints) Pivot(d kdtree.Dim) int {
	return plane{dim: d, points: p}.pivot()
}

// plane sorts a skyPoints slice along one dimension for median selection.
type plane struct {
	dim    kdtree.Dim
	points skyPoints
}

func (p plane) Len() int { return len(p.points) }
func (p plane) Less(i, j int) bool {
	return p.points[i].vec[p.dim] < p.points[j].vec[p.dim]
}
func (p plane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}

func (p plane) pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}
