package synth

import (
	"github.com/VibeCAD/roomforge/pkg/geom"
	"github.com/VibeCAD/roomforge/pkg/plan"
)

// matchesPerimeterEdge reports whether a drawn segment coincides with any
// non-degenerate polygon edge, comparing endpoints in both directions
// within the length tolerance. Matching segments were already built as
// perimeter walls and must not be duplicated.
func matchesPerimeterEdge(s plan.Segment, poly []geom.Vec2) bool {
	n := len(poly)
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		if a.Distance(b) < geom.LengthTol {
			continue
		}
		forward := geom.SamePoint(s.Start, a, geom.LengthTol) && geom.SamePoint(s.End, b, geom.LengthTol)
		reverse := geom.SamePoint(s.Start, b, geom.LengthTol) && geom.SamePoint(s.End, a, geom.LengthTol)
		if forward || reverse {
			return true
		}
	}
	return false
}

// interiorWalls builds full-height walls for partition segments that are
// not part of the perimeter. Interior partitions are never cut by
// openings; only perimeter edges are opening-aware.
func interiorWalls(p *plan.Plan, params Params) ([]WallSegment, []ConnectionPoint) {
	var walls []WallSegment
	var points []ConnectionPoint

	for i, s := range p.Partitions() {
		if matchesPerimeterEdge(s, p.Polygon) {
			continue
		}
		// Interior walls have no inside/outside distinction; the normal
		// follows the segment's drawn direction with positive sign.
		w, ok := buildWall(interiorWallID(i), lift(s.Start), lift(s.End), 1, -1, i, params)
		if !ok {
			continue
		}
		walls = append(walls, w)
		points = append(points, topCenterPoint(w))
	}
	return walls, points
}
