package svg

import (
	"strings"
	"testing"

	"github.com/VibeCAD/roomforge/pkg/geom"
)

const planDoc = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300">
  <rect id="Room_kitchen" x="0" y="0" width="80" height="60"/>
  <rect id="Door_1" x="30" y="58" width="16" height="4"/>
  <line id="Wall_split" x1="40" y1="0" x2="40" y2="60"/>
  <rect id="furniture" x="10" y="10" width="5" height="5"/>
</svg>`

func TestParseRectRoom(t *testing.T) {
	plans, err := Parse(strings.NewReader(planDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(plans))
	}

	p := plans[0]
	if p.Name != "kitchen" {
		t.Errorf("expected name kitchen, got %q", p.Name)
	}
	if len(p.Polygon) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(p.Polygon))
	}
	if p.Polygon[2] != (geom.Vec2{X: 80, Y: 60}) {
		t.Errorf("unexpected far corner %+v", p.Polygon[2])
	}
	if p.Grid.BoundsWidth != 400 || p.Grid.BoundsHeight != 300 {
		t.Errorf("expected bounds from svg attributes, got %+v", p.Grid)
	}
}

func TestParseAttachesOpeningsAndWalls(t *testing.T) {
	plans, err := Parse(strings.NewReader(planDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := plans[0]

	if len(p.Openings) != 1 {
		t.Fatalf("expected 1 opening, got %d", len(p.Openings))
	}
	// The thin door rect reduces to its horizontal centerline.
	o := p.Openings[0]
	if o.Start != (geom.Vec2{X: 30, Y: 60}) || o.End != (geom.Vec2{X: 46, Y: 60}) {
		t.Errorf("unexpected opening span %+v -> %+v", o.Start, o.End)
	}

	if len(p.Segments) != 1 {
		t.Fatalf("expected 1 wall segment, got %d", len(p.Segments))
	}
	w := p.Segments[0]
	if w.Start != (geom.Vec2{X: 40, Y: 0}) || w.End != (geom.Vec2{X: 40, Y: 60}) {
		t.Errorf("unexpected wall span %+v -> %+v", w.Start, w.End)
	}
}

func TestParsePathRoom(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
  <path id="Room_hall" d="M 0 0 L 80 0 L 80 60 H 0 Z"/>
</svg>`

	plans, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(plans))
	}
	poly := plans[0].Polygon
	if len(poly) != 4 {
		t.Fatalf("expected 4 vertices, got %d: %+v", len(poly), poly)
	}
	if poly[3] != (geom.Vec2{X: 0, Y: 60}) {
		t.Errorf("unexpected last vertex %+v", poly[3])
	}
}

func TestParsePathRelativeCommands(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
  <path id="Room_rel" d="m 10 10 l 70 0 v 50 h -70 z"/>
</svg>`

	plans, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	poly := plans[0].Polygon
	if len(poly) != 4 {
		t.Fatalf("expected 4 vertices, got %d: %+v", len(poly), poly)
	}
	if poly[2] != (geom.Vec2{X: 80, Y: 60}) {
		t.Errorf("unexpected far corner %+v", poly[2])
	}
}

func TestParsePolygonElement(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
  <polygon id="Room_tri" points="0,0 40,0 20,30"/>
</svg>`

	plans, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(plans[0].Polygon) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(plans[0].Polygon))
	}
}

func TestParseNoRooms(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg"><rect id="Wall_only" x="0" y="0" width="5" height="50"/></svg>`
	if _, err := Parse(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for a document without rooms")
	}
}

func TestParseUnsupportedPathCommand(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
  <path id="Room_curvy" d="M 0 0 C 10 10 20 20 30 30"/>
</svg>`
	if _, err := Parse(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for curve commands")
	}
}

func TestParseWorldConverts(t *testing.T) {
	plans, err := ParseWorld(strings.NewReader(planDoc), 0.05)
	if err != nil {
		t.Fatalf("ParseWorld: %v", err)
	}
	p := plans[0]
	// Drawing (80, 60) maps to world (4, -3): scaled, y-axis flipped.
	if p.Polygon[2] != (geom.Vec2{X: 4, Y: -3}) {
		t.Errorf("unexpected converted corner %+v", p.Polygon[2])
	}
}
