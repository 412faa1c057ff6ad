// Package synth converts a validated floor plan into a RoomGeometry: a
// floor slab outline, perimeter walls segmented around door and window
// openings, interior partition walls, and the room's connection-point
// set. Synthesis is a single-pass pure function; it owns no shared state
// and may be called concurrently for independent rooms.
package synth

import (
	"fmt"

	"github.com/VibeCAD/roomforge/pkg/geom"
	"github.com/VibeCAD/roomforge/pkg/plan"
)

// Synthesize builds the room geometry for one plan, already converted to
// world space. The only hard failure is a polygon with fewer than three
// vertices; degenerate edges, sliver segments, and openings that match no
// edge are tolerated silently.
func Synthesize(p *plan.Plan, params Params) (*RoomGeometry, error) {
	if len(p.Polygon) < 3 {
		return nil, fmt.Errorf("synthesize room %q: %w", p.Name, plan.ErrTooFewVertices)
	}
	if params == (Params{}) {
		params = DefaultParams()
	}

	sign := OrientationSign(p.Polygon)

	room := &RoomGeometry{
		Name:           p.Name,
		FloorPolygon:   append([]geom.Vec2(nil), p.Polygon...),
		FloorThickness: params.WallThickness,
		Grid:           gridInfo(p, params),
	}

	// Perimeter walls, edge by edge, cut at openings.
	for i := 0; i < p.EdgeCount(); i++ {
		a, b := p.Edge(i)
		if a.Distance(b) < geom.LengthTol {
			continue // consecutive duplicate vertices produce no wall
		}
		a3, b3 := lift(a), lift(b)
		for segIdx, iv := range solidIntervals(a, b, p.Openings) {
			start := geom.Lerp3(a3, b3, iv.t0)
			end := geom.Lerp3(a3, b3, iv.t1)
			w, ok := buildWall(perimeterWallID(i, segIdx), start, end, sign, i, segIdx, params)
			if !ok {
				continue
			}
			room.PerimeterWalls = append(room.PerimeterWalls, w)
			room.ConnectionPoints = append(room.ConnectionPoints, topCenterPoint(w))
		}
	}

	// Interior partitions that do not duplicate a perimeter edge.
	walls, points := interiorWalls(p, params)
	room.InteriorWalls = walls
	room.ConnectionPoints = append(room.ConnectionPoints, points...)

	// Default boundary points on the floor silhouette corners.
	room.ConnectionPoints = append(room.ConnectionPoints, cornerPoints(p.Polygon, sign)...)

	if p.Name != "" {
		c := Centroid(p.Polygon)
		anchor := geom.Vec3{X: c.X, Y: 0, Z: c.Y}
		room.LabelAnchor = &anchor
	}

	return room, nil
}

// gridInfo derives the tiling-texture alignment for the floor from the
// polygon's world bounds, the drawing bounds, and the world scale.
func gridInfo(p *plan.Plan, params Params) GridInfo {
	g := p.Grid
	if g == (plan.GridSpec{}) {
		g = plan.DefaultGrid()
	}
	min, max := Bounds(p.Polygon)
	cell := g.GridSize * params.WorldScale // world size of one grid cell
	info := GridInfo{
		GridSize:     g.GridSize,
		WorldScale:   params.WorldScale,
		BoundsWidth:  g.BoundsWidth,
		BoundsHeight: g.BoundsHeight,
	}
	if cell > 0 {
		info.UScale = (max.X - min.X) / cell
		info.VScale = (max.Y - min.Y) / cell
	}
	return info
}

// cornerPoints emits a boundary connection point at every vertex joining
// two non-degenerate edges. The corner normal is the normalized sum of
// the adjacent edges' outward normals, so it bisects the corner and
// points away from the solid.
func cornerPoints(poly []geom.Vec2, sign float64) []ConnectionPoint {
	n := len(poly)
	var points []ConnectionPoint
	for i := 0; i < n; i++ {
		prev := poly[(i+n-1)%n]
		curr := poly[i]
		next := poly[(i+1)%n]
		if prev.Distance(curr) < geom.LengthTol || curr.Distance(next) < geom.LengthTol {
			continue
		}
		nIn := edgeOutward(prev, curr, sign)
		nOut := edgeOutward(curr, next, sign)
		normal := nIn.Add(nOut).Normalize()
		if normal == (geom.Vec3{}) {
			// Antiparallel adjacent normals (a spike); fall back to the
			// incoming edge's normal rather than emitting a zero vector.
			normal = nIn
		}
		points = append(points, ConnectionPoint{
			ID:       fmt.Sprintf("corner-%d", i),
			Position: lift(curr),
			Normal:   normal,
			Kind:     PointCorner,
		})
	}
	return points
}

// edgeOutward returns the outward normal of the edge (a, b) under the
// given orientation sign.
func edgeOutward(a, b geom.Vec2, sign float64) geom.Vec3 {
	dir := lift(b).Sub(lift(a)).Normalize()
	return geom.Up.Cross(dir).Normalize().Scale(sign)
}
