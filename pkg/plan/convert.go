package plan

import "github.com/VibeCAD/roomforge/pkg/geom"

// FromDrawing converts a plan from drawing space (pixel-like units,
// +y down) to world space on the horizontal plane. The conversion is a
// uniform scale plus the vertical flip that maps drawing +y-down onto
// world +z-forward: worldX = x*scale, worldZ = -y*scale. It happens
// exactly once, here; the synthesizer assumes world-space input.
//
// The grid spec is kept in drawing units, paired with the scale, so the
// composer can derive texture UVs from the original drawing bounds.
func FromDrawing(p Plan, scale float64) Plan {
	if scale <= 0 {
		scale = DefaultWorldScale
	}
	if p.Grid == (GridSpec{}) {
		p.Grid = DefaultGrid()
	}

	out := Plan{
		Name: p.Name,
		Grid: p.Grid,
	}

	out.Polygon = make([]geom.Vec2, len(p.Polygon))
	for i, v := range p.Polygon {
		out.Polygon[i] = toWorld(v, scale)
	}
	for _, o := range p.Openings {
		out.Openings = append(out.Openings, Opening{
			Start: toWorld(o.Start, scale),
			End:   toWorld(o.End, scale),
		})
	}
	for _, s := range p.Segments {
		out.Segments = append(out.Segments, Segment{
			Start:     toWorld(s.Start, scale),
			End:       toWorld(s.End, scale),
			IsOpening: s.IsOpening,
		})
	}
	return out
}

func toWorld(v geom.Vec2, scale float64) geom.Vec2 {
	return geom.Vec2{X: v.X * scale, Y: -v.Y * scale}
}
