// Package snap indexes a room's connection points in an R-tree so the
// host application can find nearby anchors when snapping objects to the
// room. The index is immutable once built; rooms are re-indexed after
// re-synthesis rather than updated in place.
package snap

import (
	"fmt"

	"github.com/VibeCAD/roomforge/pkg/geom"
	"github.com/VibeCAD/roomforge/pkg/synth"
	"github.com/dhconnelly/rtreego"
)

// pointExtent is the tiny box an individual point occupies in the tree;
// rtreego rejects zero-size rectangles.
const pointExtent = 1e-6

// entry adapts a connection point to the rtreego.Spatial interface.
type entry struct {
	cp synth.ConnectionPoint
}

// Bounds implements rtreego.Spatial.
func (e *entry) Bounds() rtreego.Rect {
	p := e.cp.Position
	r, err := rtreego.NewRect(
		rtreego.Point{p.X - pointExtent/2, p.Y - pointExtent/2, p.Z - pointExtent/2},
		[]float64{pointExtent, pointExtent, pointExtent},
	)
	if err != nil {
		// Lengths are a positive constant, so this cannot happen.
		panic(fmt.Sprintf("snap: point rect: %v", err))
	}
	return r
}

// Index is a spatial index over one room's connection points.
type Index struct {
	tree *rtreego.Rtree
	size int
}

// NewIndex builds an index over the given connection points.
func NewIndex(points []synth.ConnectionPoint) *Index {
	tree := rtreego.NewTree(3, 2, 8)
	for _, cp := range points {
		tree.Insert(&entry{cp: cp})
	}
	return &Index{tree: tree, size: len(points)}
}

// ForRoom builds an index over a room's full connection-point set.
func ForRoom(room *synth.RoomGeometry) *Index {
	return NewIndex(room.ConnectionPoints)
}

// Len returns the number of indexed points.
func (ix *Index) Len() int { return ix.size }

// Nearest returns the connection point closest to pos, if any lies
// within maxDist.
func (ix *Index) Nearest(pos geom.Vec3, maxDist float64) (synth.ConnectionPoint, bool) {
	if ix.size == 0 {
		return synth.ConnectionPoint{}, false
	}
	found := ix.tree.NearestNeighbor(rtreego.Point{pos.X, pos.Y, pos.Z})
	if found == nil {
		return synth.ConnectionPoint{}, false
	}
	cp := found.(*entry).cp
	if cp.Position.Distance(pos) > maxDist {
		return synth.ConnectionPoint{}, false
	}
	return cp, true
}

// InRadius returns every connection point within radius of pos.
func (ix *Index) InRadius(pos geom.Vec3, radius float64) []synth.ConnectionPoint {
	if ix.size == 0 || radius <= 0 {
		return nil
	}
	probe, err := rtreego.NewRect(
		rtreego.Point{pos.X - radius, pos.Y - radius, pos.Z - radius},
		[]float64{2 * radius, 2 * radius, 2 * radius},
	)
	if err != nil {
		return nil
	}

	var out []synth.ConnectionPoint
	for _, s := range ix.tree.SearchIntersect(probe) {
		cp := s.(*entry).cp
		// The rectangle probe over-matches at the corners.
		if cp.Position.Distance(pos) <= radius {
			out = append(out, cp)
		}
	}
	return out
}
