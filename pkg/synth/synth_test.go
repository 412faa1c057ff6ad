package synth

import (
	"math"
	"reflect"
	"sort"
	"testing"

	"github.com/VibeCAD/roomforge/pkg/geom"
	"github.com/VibeCAD/roomforge/pkg/plan"
)

// rectPlan returns the canonical 4x3 test rectangle.
func rectPlan() *plan.Plan {
	return &plan.Plan{
		Polygon: []geom.Vec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3}},
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRectangleNoOpenings(t *testing.T) {
	room, err := Synthesize(rectPlan(), DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(room.PerimeterWalls) != 4 {
		t.Fatalf("expected 4 perimeter walls, got %d", len(room.PerimeterWalls))
	}
	for _, w := range room.PerimeterWalls {
		if !approx(w.Length, 4) && !approx(w.Length, 3) {
			t.Errorf("wall %s: expected length 4 or 3, got %v", w.ID, w.Length)
		}
	}
	if got := room.FloorArea(); !approx(got, 12) {
		t.Errorf("expected floor area 12, got %v", got)
	}
	if len(room.InteriorWalls) != 0 {
		t.Errorf("expected no interior walls, got %d", len(room.InteriorWalls))
	}
}

// Walls must face outward: the dot of each outward normal with the vector
// from the polygon centroid to the wall midpoint is non-negative, for any
// winding and for concave shapes.
func TestOutwardNormals(t *testing.T) {
	ccw := []geom.Vec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3}}
	cw := []geom.Vec2{{X: 0, Y: 0}, {X: 0, Y: 3}, {X: 4, Y: 3}, {X: 4, Y: 0}}
	lshape := []geom.Vec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 4}, {X: 0, Y: 4}}

	for name, poly := range map[string][]geom.Vec2{"ccw": ccw, "cw": cw, "concave": lshape} {
		room, err := Synthesize(&plan.Plan{Polygon: poly}, DefaultParams())
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		c := Centroid(poly)
		for _, w := range room.PerimeterWalls {
			mid := geom.Lerp3(w.Start, w.End, 0.5)
			toMid := geom.Vec2{X: mid.X - c.X, Y: mid.Z - c.Y}
			dot := toMid.X*w.OutwardNormal.X + toMid.Y*w.OutwardNormal.Z
			if dot < -1e-9 {
				t.Errorf("%s: wall %s normal %v points inward (dot %v)", name, w.ID, w.OutwardNormal, dot)
			}
			if !approx(w.OutwardNormal.Length(), 1) {
				t.Errorf("%s: wall %s normal is not unit length", name, w.ID)
			}
		}
	}
}

func TestSingleDoorCut(t *testing.T) {
	p := rectPlan()
	// Opening spanning t in [0.4, 0.6] on the edge (0,0) -> (4,0).
	p.Openings = []plan.Opening{{Start: geom.Vec2{X: 1.6, Y: 0}, End: geom.Vec2{X: 2.4, Y: 0}}}

	room, err := Synthesize(p, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var bottom []WallSegment
	for _, w := range room.PerimeterWalls {
		if w.EdgeIndex == 0 {
			bottom = append(bottom, w)
		}
	}
	if len(bottom) != 2 {
		t.Fatalf("expected 2 wall segments on the cut edge, got %d", len(bottom))
	}
	for _, w := range bottom {
		if !approx(w.Length, 1.6) {
			t.Errorf("wall %s: expected length 1.6, got %v", w.ID, w.Length)
		}
		// No wall midpoint may fall inside the opening interval.
		mid := geom.Lerp3(w.Start, w.End, 0.5)
		if mid.X > 1.6 && mid.X < 2.4 {
			t.Errorf("wall %s sits inside the opening", w.ID)
		}
	}
	// The opening endpoints also project parametrically onto the parallel
	// top edge and split its solid run in three; no wall is removed there.
	// 2 (cut edge) + 1 + 3 (top edge) + 1.
	if len(room.PerimeterWalls) != 7 {
		t.Errorf("expected 7 perimeter walls total, got %d", len(room.PerimeterWalls))
	}
	for _, w := range room.PerimeterWalls {
		if w.EdgeIndex != 0 && w.Length < geom.LengthTol {
			t.Errorf("wall %s is degenerate", w.ID)
		}
	}
}

func TestTwoOpeningsOneEdge(t *testing.T) {
	p := rectPlan()
	p.Openings = []plan.Opening{
		{Start: geom.Vec2{X: 0.5, Y: 0}, End: geom.Vec2{X: 1, Y: 0}},
		{Start: geom.Vec2{X: 2.5, Y: 0}, End: geom.Vec2{X: 3, Y: 0}},
	}
	room, err := Synthesize(p, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count := 0
	for _, w := range room.PerimeterWalls {
		if w.EdgeIndex == 0 {
			count++
		}
	}
	if count != 3 {
		t.Fatalf("expected 3 solid segments between two openings, got %d", count)
	}
}

func TestStraddlingOpeningRemovesEdge(t *testing.T) {
	p := rectPlan()
	p.Openings = []plan.Opening{{Start: geom.Vec2{X: -1, Y: 0}, End: geom.Vec2{X: 5, Y: 0}}}
	room, err := Synthesize(p, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, w := range room.PerimeterWalls {
		if w.EdgeIndex == 0 {
			t.Fatalf("edge 0 is fully covered by an opening, got wall %s", w.ID)
		}
	}
	if len(room.PerimeterWalls) != 3 {
		t.Errorf("expected 3 remaining walls, got %d", len(room.PerimeterWalls))
	}
}

// Closure: solid intervals plus opening-covered intervals must partition
// [0,1] with no gaps and no overlaps beyond tolerance.
func TestIntervalClosure(t *testing.T) {
	a := geom.Vec2{X: 0, Y: 0}
	b := geom.Vec2{X: 4, Y: 0}
	openings := []plan.Opening{
		{Start: geom.Vec2{X: 0.5, Y: 0}, End: geom.Vec2{X: 1, Y: 0}},
		{Start: geom.Vec2{X: 2, Y: 0}, End: geom.Vec2{X: 2.8, Y: 0}},
	}

	solid := solidIntervals(a, b, openings)

	// Re-assemble the full partition: solid intervals plus the opening
	// intervals expressed parametrically.
	all := append([]interval(nil), solid...)
	for _, o := range openings {
		all = append(all, interval{geom.ParamT(o.Start, a, b), geom.ParamT(o.End, a, b)})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].t0 < all[j].t0 })

	cursor := 0.0
	for _, iv := range all {
		if math.Abs(iv.t0-cursor) > geom.ParamTol {
			t.Errorf("gap or overlap at t=%v (next interval starts %v)", cursor, iv.t0)
		}
		cursor = iv.t1
	}
	if math.Abs(cursor-1) > geom.ParamTol {
		t.Errorf("partition ends at %v, expected 1", cursor)
	}
}

func TestInteriorWallDedup(t *testing.T) {
	p := rectPlan()
	p.Segments = []plan.Segment{
		// The four perimeter edges, one drawn reversed.
		{Start: geom.Vec2{X: 0, Y: 0}, End: geom.Vec2{X: 4, Y: 0}},
		{Start: geom.Vec2{X: 4, Y: 0}, End: geom.Vec2{X: 4, Y: 3}},
		{Start: geom.Vec2{X: 0, Y: 3}, End: geom.Vec2{X: 4, Y: 3}},
		{Start: geom.Vec2{X: 0, Y: 3}, End: geom.Vec2{X: 0, Y: 0}},
		// One real partition.
		{Start: geom.Vec2{X: 2, Y: 0}, End: geom.Vec2{X: 2, Y: 3}},
	}
	room, err := Synthesize(p, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(room.PerimeterWalls) != 4 {
		t.Errorf("expected 4 perimeter walls, got %d", len(room.PerimeterWalls))
	}
	if len(room.InteriorWalls) != 1 {
		t.Fatalf("expected 1 interior wall, got %d", len(room.InteriorWalls))
	}
	if got := room.InteriorWalls[0].Length; !approx(got, 3) {
		t.Errorf("interior wall: expected length 3, got %v", got)
	}
	if room.InteriorWalls[0].EdgeIndex != -1 {
		t.Errorf("interior wall must carry edge index -1, got %d", room.InteriorWalls[0].EdgeIndex)
	}
}

func TestInteriorWallReversedStillBuilt(t *testing.T) {
	p := rectPlan()
	p.Segments = []plan.Segment{
		{Start: geom.Vec2{X: 2, Y: 3}, End: geom.Vec2{X: 2, Y: 0}}, // reversed partition
	}
	room, err := Synthesize(p, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(room.InteriorWalls) != 1 {
		t.Fatalf("reversed partition must still be built, got %d interior walls", len(room.InteriorWalls))
	}
}

func TestDegenerateVertexSkipped(t *testing.T) {
	p := &plan.Plan{
		Polygon: []geom.Vec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3}},
	}
	room, err := Synthesize(p, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(room.PerimeterWalls) != 4 {
		t.Errorf("expected 4 walls (zero-length edge skipped), got %d", len(room.PerimeterWalls))
	}
	for _, w := range room.PerimeterWalls {
		if w.Length < geom.LengthTol {
			t.Errorf("wall %s is degenerate (length %v)", w.ID, w.Length)
		}
	}
}

func TestTooFewVertices(t *testing.T) {
	p := &plan.Plan{Polygon: []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}}
	if _, err := Synthesize(p, DefaultParams()); err == nil {
		t.Fatal("expected error for polygon with 2 vertices")
	}
}

func TestDeterminism(t *testing.T) {
	p := rectPlan()
	p.Name = "kitchen"
	p.Openings = []plan.Opening{{Start: geom.Vec2{X: 1, Y: 0}, End: geom.Vec2{X: 2, Y: 0}}}
	p.Segments = []plan.Segment{{Start: geom.Vec2{X: 2, Y: 0}, End: geom.Vec2{X: 2, Y: 3}}}

	r1, err := Synthesize(p, DefaultParams())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	r2, err := Synthesize(p, DefaultParams())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(r1, r2) {
		t.Error("synthesis is not deterministic for identical input")
	}
}

func TestConnectionPointIDsUnique(t *testing.T) {
	p := rectPlan()
	p.Name = "lounge"
	p.Openings = []plan.Opening{{Start: geom.Vec2{X: 1, Y: 0}, End: geom.Vec2{X: 2, Y: 0}}}
	p.Segments = []plan.Segment{{Start: geom.Vec2{X: 2, Y: 0}, End: geom.Vec2{X: 2, Y: 3}}}

	room, err := Synthesize(p, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := make(map[string]bool)
	for _, cp := range room.ConnectionPoints {
		if seen[cp.ID] {
			t.Errorf("duplicate connection point id %q", cp.ID)
		}
		seen[cp.ID] = true
		if !approx(cp.Normal.Length(), 1) {
			t.Errorf("connection point %q normal is not unit length", cp.ID)
		}
	}
	// 7 perimeter wall tops (the opening projects breakpoints onto the
	// parallel edge as well) + 1 interior top + 4 corners.
	if len(room.ConnectionPoints) != 12 {
		t.Errorf("expected 12 connection points, got %d", len(room.ConnectionPoints))
	}
}

func TestWallSegmentPlacement(t *testing.T) {
	params := DefaultParams()
	room, err := Synthesize(rectPlan(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, w := range room.PerimeterWalls {
		if !approx(w.Center.Y, params.WallHeight/2) {
			t.Errorf("wall %s: vertical center %v, expected %v", w.ID, w.Center.Y, params.WallHeight/2)
		}
		// The center must sit half a thickness outward from the midpoint.
		mid := geom.Lerp3(w.Start, w.End, 0.5)
		offset := geom.Vec2{X: w.Center.X - mid.X, Y: w.Center.Z - mid.Z}
		if !approx(offset.Length(), params.WallThickness/2) {
			t.Errorf("wall %s: outward offset %v, expected %v", w.ID, offset.Length(), params.WallThickness/2)
		}
	}
}

func TestGridInfo(t *testing.T) {
	p := rectPlan()
	p.Grid = plan.GridSpec{GridSize: 20, BoundsWidth: 400, BoundsHeight: 400}
	params := DefaultParams() // world scale 0.05 -> one cell is 1 world unit
	room, err := Synthesize(p, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(room.Grid.UScale, 4) || !approx(room.Grid.VScale, 3) {
		t.Errorf("expected UV scale 4x3, got %vx%v", room.Grid.UScale, room.Grid.VScale)
	}
}

func TestLabelAnchorAtCentroid(t *testing.T) {
	p := rectPlan()
	p.Name = "studio"
	room, err := Synthesize(p, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if room.LabelAnchor == nil {
		t.Fatal("named room must carry a label anchor")
	}
	if !approx(room.LabelAnchor.X, 2) || !approx(room.LabelAnchor.Z, 1.5) {
		t.Errorf("label anchor at %v, expected centroid (2, 1.5)", *room.LabelAnchor)
	}

	unnamed, _ := Synthesize(rectPlan(), DefaultParams())
	if unnamed.LabelAnchor != nil {
		t.Error("unnamed room must not carry a label anchor")
	}
}

func TestOrientationSign(t *testing.T) {
	ccw := []geom.Vec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3}}
	cw := []geom.Vec2{{X: 0, Y: 0}, {X: 0, Y: 3}, {X: 4, Y: 3}, {X: 4, Y: 0}}
	if OrientationSign(ccw) != 1 {
		t.Error("CCW polygon must have sign +1")
	}
	if OrientationSign(cw) != -1 {
		t.Error("CW polygon must have sign -1")
	}
	// Degenerate polygons still get a deterministic sign.
	line := []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	if OrientationSign(line) != 1 {
		t.Error("zero-area polygon must default to +1")
	}
}
