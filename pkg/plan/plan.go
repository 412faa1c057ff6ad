// Package plan defines the floor-plan input model for room synthesis:
// the drawn polygon, wall openings, interior partition segments, and the
// grid-texture spec. Plans arrive in a 2D drawing coordinate space
// (pixel-like, +y down) and are converted to world space once, at this
// boundary, before synthesis.
package plan

import (
	"errors"

	"github.com/VibeCAD/roomforge/pkg/geom"
)

// Defaults applied when a plan omits its grid spec.
const (
	DefaultGridSize     = 20
	DefaultBoundsWidth  = 400
	DefaultBoundsHeight = 400
)

// DefaultWorldScale converts drawing units (pixels) to world units.
const DefaultWorldScale = 0.05

// ErrTooFewVertices is returned when a room polygon has fewer than three
// vertices. This is the only hard input failure; all other geometric edge
// cases are resolved with tolerances during synthesis.
var ErrTooFewVertices = errors.New("plan: room polygon requires at least 3 vertices")

// Opening is a door or window gap: a line segment colinear with part of
// one polygon edge. Openings that do not land on any edge are ignored.
type Opening struct {
	Start geom.Vec2 `json:"start"`
	End   geom.Vec2 `json:"end"`
}

// Segment is a raw drawn line. Segments flagged as openings are routed to
// the opening resolver; the rest are interior partition candidates.
type Segment struct {
	Start     geom.Vec2 `json:"start"`
	End       geom.Vec2 `json:"end"`
	IsOpening bool      `json:"isOpening,omitempty"`
}

// GridSpec describes the drawing grid the plan was traced over. It drives
// UV alignment of the tiling floor texture so grid lines keep a constant
// real-world size.
type GridSpec struct {
	GridSize     float64 `json:"gridSize"`
	BoundsWidth  float64 `json:"boundsWidth"`
	BoundsHeight float64 `json:"boundsHeight"`
}

// DefaultGrid returns the grid spec applied when a plan carries none.
func DefaultGrid() GridSpec {
	return GridSpec{
		GridSize:     DefaultGridSize,
		BoundsWidth:  DefaultBoundsWidth,
		BoundsHeight: DefaultBoundsHeight,
	}
}

// Plan is one room's worth of drawing input.
type Plan struct {
	Name     string      `json:"name,omitempty"`
	Polygon  []geom.Vec2 `json:"polygon"`
	Openings []Opening   `json:"openings,omitempty"`
	Segments []Segment   `json:"segments,omitempty"`
	Grid     GridSpec    `json:"grid"`
}

// Partitions returns the plan's non-opening segments.
func (p *Plan) Partitions() []Segment {
	var parts []Segment
	for _, s := range p.Segments {
		if !s.IsOpening {
			parts = append(parts, s)
		}
	}
	return parts
}

// Edge returns the i-th polygon edge. The polygon is implicitly closed, so
// the last edge connects the final vertex back to the first.
func (p *Plan) Edge(i int) (geom.Vec2, geom.Vec2) {
	n := len(p.Polygon)
	return p.Polygon[i%n], p.Polygon[(i+1)%n]
}

// EdgeCount returns the number of polygon edges, including degenerate ones.
func (p *Plan) EdgeCount() int {
	return len(p.Polygon)
}
