package geom

// ParamT returns the parametric position of p projected onto the segment
// (a, b): 0 at a, 1 at b, values outside [0,1] for points projecting past
// either endpoint. If the segment is degenerate (shorter than LengthTol)
// the projection is undefined and 0 is returned; callers skip such edges
// before resolving openings against them.
func ParamT(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	den := ab.LengthSq()
	if den < LengthTol*LengthTol {
		return 0
	}
	return p.Sub(a).Dot(ab) / den
}

// OnSegment reports whether p lies on the segment (a, b) within tol.
// The test clamps the projection to the segment, so points beyond the
// endpoints are measured against the nearest endpoint.
func OnSegment(p, a, b Vec2, tol float64) bool {
	t := ParamT(p, a, b)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Lerp2(a, b, t).Distance(p) <= tol
}

// SamePoint reports whether two points coincide within tol.
func SamePoint(a, b Vec2, tol float64) bool {
	return a.Distance(b) <= tol
}
