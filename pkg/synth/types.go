package synth

import (
	"fmt"

	"github.com/VibeCAD/roomforge/pkg/geom"
)

// PointKind classifies a connection point on the room surface.
type PointKind int

const (
	PointEdge   PointKind = iota // top-center of a wall segment
	PointCorner                  // polygon vertex on the boundary silhouette
)

func (k PointKind) String() string {
	switch k {
	case PointEdge:
		return "edge"
	case PointCorner:
		return "corner"
	default:
		return fmt.Sprintf("PointKind(%d)", int(k))
	}
}

// ConnectionPoint is a named, positioned, oriented anchor used by the
// host application to snap objects to the room. IDs are unique within
// one room; normals are unit vectors pointing away from the solid.
type ConnectionPoint struct {
	ID       string    `json:"id"`
	Position geom.Vec3 `json:"position"`
	Normal   geom.Vec3 `json:"normal"`
	Kind     PointKind `json:"kind"`
}

// WallSegment is one solid stretch of wall: a full polygon edge, a piece
// of an edge left between openings, or an interior partition. Start and
// End sit at floor level; Center is the wall box center, offset half the
// thickness outward and raised half the height.
type WallSegment struct {
	ID            string    `json:"id"`
	Start         geom.Vec3 `json:"start"`
	End           geom.Vec3 `json:"end"`
	Length        float64   `json:"length"`
	Direction     geom.Vec3 `json:"direction"`     // unit, start → end
	OutwardNormal geom.Vec3 `json:"outwardNormal"` // unit, away from the room interior
	Center        geom.Vec3 `json:"center"`
	Yaw           float64   `json:"yaw"` // radians about Y, aligns the box long axis with Direction
	Height        float64   `json:"height"`
	Thickness     float64   `json:"thickness"`
	EdgeIndex     int       `json:"edgeIndex"` // source polygon edge, -1 for interior walls
	SegmentIndex  int       `json:"segmentIndex"`
}

// GridInfo carries the tiling-texture alignment data for the floor. The
// UV scales are the ratio of the floor's world dimensions to one grid
// cell's world size, so grid lines keep a constant real-world spacing
// regardless of room size.
type GridInfo struct {
	GridSize     float64 `json:"gridSize"`    // drawing units per grid cell
	WorldScale   float64 `json:"worldScale"`  // drawing units → world units
	BoundsWidth  float64 `json:"boundsWidth"` // original drawing bounds
	BoundsHeight float64 `json:"boundsHeight"`
	UScale       float64 `json:"uScale"`
	VScale       float64 `json:"vScale"`
}

// RoomGeometry is the complete synthesized room: pure data, immutable
// once returned. The host renders it into meshes and keeps the metadata
// for snapping, collision, and AI use.
type RoomGeometry struct {
	Name             string            `json:"name,omitempty"`
	FloorPolygon     []geom.Vec2       `json:"floorPolygon"` // world-space, (X, Z) on the horizontal plane
	FloorThickness   float64           `json:"floorThickness"`
	PerimeterWalls   []WallSegment     `json:"perimeterWalls"`
	InteriorWalls    []WallSegment     `json:"interiorWalls"`
	ConnectionPoints []ConnectionPoint `json:"connectionPoints"`
	Grid             GridInfo          `json:"grid"`
	LabelAnchor      *geom.Vec3        `json:"labelAnchor,omitempty"` // centroid, facing up; set when Name is non-empty
}

// Walls returns perimeter and interior wall segments in one slice.
func (r *RoomGeometry) Walls() []WallSegment {
	out := make([]WallSegment, 0, len(r.PerimeterWalls)+len(r.InteriorWalls))
	out = append(out, r.PerimeterWalls...)
	return append(out, r.InteriorWalls...)
}

// FloorArea returns the unsigned area of the floor polygon.
func (r *RoomGeometry) FloorArea() float64 {
	a := SignedArea(r.FloorPolygon)
	if a < 0 {
		return -a
	}
	return a
}

// Params are the synthesis dimensions, in world units.
type Params struct {
	WallHeight    float64
	WallThickness float64
	WorldScale    float64 // recorded in GridInfo for texture alignment
}

// DefaultParams returns the standard room dimensions: 2.5 high, 0.1
// thick walls, at the default drawing scale.
func DefaultParams() Params {
	return Params{
		WallHeight:    2.5,
		WallThickness: 0.1,
		WorldScale:    0.05,
	}
}
