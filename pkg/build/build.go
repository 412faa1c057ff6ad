// Package build converts a synthesized RoomGeometry into kernel solids
// and triangle meshes, one named part per floor slab and wall segment.
// It is the mesh-construction adapter between the pure geometry layer
// and the rendering host: it reads the room record and talks to the
// kernel, and never mutates its input.
package build

import (
	"fmt"
	"math"

	"github.com/VibeCAD/roomforge/pkg/kernel"
	"github.com/VibeCAD/roomforge/pkg/synth"
)

// FloorName is the part name given to the floor slab mesh.
const FloorName = "floor"

// FloorSolid extrudes the floor polygon to the room's floor thickness,
// placed so the walkable top sits at y=0 and the underside at y=-T.
func FloorSolid(k kernel.Kernel, room *synth.RoomGeometry) (kernel.Solid, error) {
	slab, err := k.Extrude(room.FloorPolygon, room.FloorThickness)
	if err != nil {
		return nil, fmt.Errorf("build floor: %w", err)
	}
	return k.Translate(slab, 0, -room.FloorThickness, 0), nil
}

// WallSolid places one wall segment's box: long axis along the segment
// direction, base on the ground, top at the wall height, horizontal
// center at the segment's outward-offset center.
func WallSolid(k kernel.Kernel, w synth.WallSegment) kernel.Solid {
	s := k.Box(w.Length, w.Height, w.Thickness)
	// Center the box on the vertical axis, keeping the base at y=0, so
	// the yaw rotation spins it in place before placement.
	s = k.Translate(s, -w.Length/2, 0, -w.Thickness/2)
	s = k.Rotate(s, 0, w.Yaw*180/math.Pi, 0)
	return k.Translate(s, w.Center.X, 0, w.Center.Z)
}

// Build produces one triangle mesh per room part: the floor first, then
// every perimeter and interior wall segment, each tagged with its stable
// segment ID so individual parts stay addressable for editing.
func Build(room *synth.RoomGeometry, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if room == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh

	floor, err := FloorSolid(k, room)
	if err != nil {
		return nil, err
	}
	m, err := k.ToMesh(floor)
	if err != nil {
		return nil, fmt.Errorf("build: mesh floor: %w", err)
	}
	m.PartName = FloorName
	meshes = append(meshes, m)

	for _, w := range room.Walls() {
		m, err := k.ToMesh(WallSolid(k, w))
		if err != nil {
			return nil, fmt.Errorf("build: mesh wall %s: %w", w.ID, err)
		}
		m.PartName = w.ID
		meshes = append(meshes, m)
	}

	return meshes, nil
}
