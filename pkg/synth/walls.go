package synth

import (
	"fmt"
	"math"

	"github.com/VibeCAD/roomforge/pkg/geom"
)

// lift places a horizontal-plane point into world space at floor level.
func lift(v geom.Vec2) geom.Vec3 {
	return geom.Vec3{X: v.X, Y: 0, Z: v.Y}
}

// buildWall constructs one wall segment between two floor-level points.
// sign is the polygon orientation sign (+1 CCW, -1 CW); edgeIndex is -1
// for interior partitions. Returns ok=false when the segment is shorter
// than the length tolerance, which is expected drawing noise rather than
// an error.
func buildWall(id string, start, end geom.Vec3, sign float64, edgeIndex, segIndex int, p Params) (WallSegment, bool) {
	span := end.Sub(start)
	length := span.Length()
	if length < geom.LengthTol {
		return WallSegment{}, false
	}

	dir := span.Scale(1 / length)
	outward := geom.Up.Cross(dir).Normalize().Scale(sign)

	mid := geom.Lerp3(start, end, 0.5)
	center := mid.Add(outward.Scale(p.WallThickness / 2))
	center.Y = p.WallHeight / 2

	return WallSegment{
		ID:            id,
		Start:         start,
		End:           end,
		Length:        length,
		Direction:     dir,
		OutwardNormal: outward,
		Center:        center,
		// Rotating the box +X long axis by yaw about Y gives
		// (cos yaw, 0, -sin yaw), so yaw = atan2(-z, x) aligns it with dir.
		Yaw:          math.Atan2(-dir.Z, dir.X),
		Height:       p.WallHeight,
		Thickness:    p.WallThickness,
		EdgeIndex:    edgeIndex,
		SegmentIndex: segIndex,
	}, true
}

// topCenterPoint emits the connection point at a wall segment's
// top-center: horizontal midpoint, wall-top height, normal straight up.
func topCenterPoint(w WallSegment) ConnectionPoint {
	mid := geom.Lerp3(w.Start, w.End, 0.5)
	return ConnectionPoint{
		ID:       w.ID,
		Position: geom.Vec3{X: mid.X, Y: w.Height, Z: mid.Z},
		Normal:   geom.Up,
		Kind:     PointEdge,
	}
}

// perimeterWallID tags a wall by edge and sub-segment index so multiple
// sub-walls on one opening-cut edge stay uniquely addressable.
func perimeterWallID(edge, seg int) string {
	return fmt.Sprintf("wall-%d-%d", edge, seg)
}

// interiorWallID tags an interior partition wall by its segment index.
func interiorWallID(i int) string {
	return fmt.Sprintf("interior-%d", i)
}
