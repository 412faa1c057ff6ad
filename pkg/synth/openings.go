package synth

import (
	"sort"

	"github.com/VibeCAD/roomforge/pkg/geom"
	"github.com/VibeCAD/roomforge/pkg/plan"
)

// interval is a parametric sub-range of one polygon edge.
type interval struct {
	t0, t1 float64
}

// solidIntervals resolves one edge (a, b) against the full opening list
// and returns the ordered sub-intervals of [0,1] that remain solid wall.
//
// Opening endpoints whose parametric position lands in [0,1] become
// breakpoints; openings that straddle the whole edge contribute none but
// still remove it through the midpoint test. Between consecutive
// breakpoints the sub-interval's world midpoint is tested against every
// opening segment: on an opening means gap, otherwise solid. This
// supports multiple non-adjacent openings per edge and openings that only
// partially overlap the edge. Openings belonging to other edges at worst
// insert a breakpoint that splits a solid run in two; they never remove
// wall, because their segments do not contain this edge's midpoints.
func solidIntervals(a, b geom.Vec2, openings []plan.Opening) []interval {
	breaks := []float64{0, 1}
	for _, o := range openings {
		t1 := geom.ParamT(o.Start, a, b)
		t2 := geom.ParamT(o.End, a, b)
		if t1 >= 0 && t1 <= 1 {
			breaks = append(breaks, t1)
		}
		if t2 >= 0 && t2 <= 1 {
			breaks = append(breaks, t2)
		}
	}
	sort.Float64s(breaks)

	var solid []interval
	for i := 0; i+1 < len(breaks); i++ {
		t0, t1 := breaks[i], breaks[i+1]
		if t1-t0 < geom.ParamTol {
			continue // sliver between coincident breakpoints
		}
		mid := geom.Lerp2(a, b, (t0+t1)/2)
		if midInOpening(mid, openings) {
			continue
		}
		solid = append(solid, interval{t0: t0, t1: t1})
	}
	return solid
}

// midInOpening reports whether a world point lies on any opening segment.
func midInOpening(p geom.Vec2, openings []plan.Opening) bool {
	for _, o := range openings {
		if geom.OnSegment(p, o.Start, o.End, geom.LengthTol) {
			return true
		}
	}
	return false
}
