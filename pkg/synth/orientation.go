package synth

import "github.com/VibeCAD/roomforge/pkg/geom"

// SignedArea returns the shoelace signed area of a polygon on the
// horizontal plane. Positive for counter-clockwise winding.
func SignedArea(poly []geom.Vec2) float64 {
	n := len(poly)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	return area / 2
}

// OrientationSign returns +1 for counter-clockwise polygons and -1 for
// clockwise ones. The sign is multiplied into every per-edge outward
// normal so that outward always points away from the interior regardless
// of winding, including for concave polygons; a centroid heuristic would
// not survive concavity. Zero-area polygons still get a deterministic +1.
func OrientationSign(poly []geom.Vec2) float64 {
	if SignedArea(poly) >= 0 {
		return 1
	}
	return -1
}

// Centroid returns the area centroid of a polygon. For polygons with
// near-zero area it falls back to the vertex mean so label anchors stay
// finite on degenerate input.
func Centroid(poly []geom.Vec2) geom.Vec2 {
	n := len(poly)
	if n == 0 {
		return geom.Vec2{}
	}
	area := SignedArea(poly)
	if area > -1e-9 && area < 1e-9 {
		var sum geom.Vec2
		for _, v := range poly {
			sum = sum.Add(v)
		}
		return sum.Scale(1 / float64(n))
	}
	var cx, cy float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		f := poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
		cx += (poly[i].X + poly[j].X) * f
		cy += (poly[i].Y + poly[j].Y) * f
	}
	return geom.Vec2{X: cx / (6 * area), Y: cy / (6 * area)}
}

// Bounds returns the axis-aligned bounds of a polygon as (min, max).
func Bounds(poly []geom.Vec2) (geom.Vec2, geom.Vec2) {
	if len(poly) == 0 {
		return geom.Vec2{}, geom.Vec2{}
	}
	min, max := poly[0], poly[0]
	for _, v := range poly[1:] {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
	}
	return min, max
}
