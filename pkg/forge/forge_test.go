package forge

import (
	"strings"
	"sync"
	"testing"
)

const doorRoomScript = `
; 4x3 room with a door on the bottom edge
(room :name "studio"
      :polygon (list (point 0 0) (point 4 0) (point 4 3) (point 0 3))
      :openings (list (opening (point 1.6 0) (point 2.4 0))))
`

// TestE2EDoorRoom exercises the full pipeline: script source, engine,
// plan validation, synthesis, mesh construction.
func TestE2EDoorRoom(t *testing.T) {
	f := New()

	result := f.EvaluateScript(doorRoomScript)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(result.Rooms))
	}

	room := result.Rooms[0]
	if room.Name != "studio" {
		t.Errorf("expected room name studio, got %q", room.Name)
	}

	// One mesh per wall segment plus the floor.
	wantMeshes := len(room.Walls()) + 1
	if len(result.Meshes) != wantMeshes {
		t.Fatalf("expected %d meshes, got %d", wantMeshes, len(result.Meshes))
	}

	seen := make(map[string]bool)
	var foundFloor bool
	for _, m := range result.Meshes {
		if seen[m.PartName] {
			t.Errorf("duplicate part name %q", m.PartName)
		}
		seen[m.PartName] = true
		if m.PartName == "floor" {
			foundFloor = true
		}

		if len(m.Vertices) == 0 {
			t.Errorf("part %q: no vertices", m.PartName)
		}
		if len(m.Normals) == 0 {
			t.Errorf("part %q: no normals", m.PartName)
		}
		if len(m.Indices) == 0 {
			t.Errorf("part %q: no indices", m.PartName)
		}
		if m.Color == "" {
			t.Errorf("part %q: no color assigned", m.PartName)
		}
	}
	if !foundFloor {
		t.Error("missing floor mesh")
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	f := New()
	result := f.EvaluateScript("")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for empty source, got %d", len(result.Errors))
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
	// Ensure slices are non-nil (JSON should serialize as [] not null).
	if result.Meshes == nil {
		t.Error("Meshes should be non-nil empty slice, got nil")
	}
	if result.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
	if result.Warnings == nil {
		t.Error("Warnings should be non-nil empty slice, got nil")
	}
	if result.Rooms == nil {
		t.Error("Rooms should be non-nil empty slice, got nil")
	}
}

// TestE2ESyntaxError verifies unmatched parens produce an eval error and
// no meshes.
func TestE2ESyntaxError(t *testing.T) {
	f := New()
	result := f.EvaluateScript(`(room :name "broken"`)

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for unbalanced parens")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on syntax error, got %d", len(result.Meshes))
	}
}

// TestE2ETwoRoomsPrefixedParts checks multi-room scripts keep part names
// distinct.
func TestE2ETwoRoomsPrefixedParts(t *testing.T) {
	f := New()
	source := `
(def base (list (point 0 0) (point 2 0) (point 2 2) (point 0 2)))
(room :name "a" :polygon base)
(room :name "b" :polygon base)
`
	result := f.EvaluateScript(source)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(result.Rooms))
	}

	seen := make(map[string]bool)
	var aFloor, bFloor bool
	for _, m := range result.Meshes {
		if seen[m.PartName] {
			t.Errorf("duplicate part name %q", m.PartName)
		}
		seen[m.PartName] = true
		switch m.PartName {
		case "a/floor":
			aFloor = true
		case "b/floor":
			bFloor = true
		}
	}
	if !aFloor || !bFloor {
		t.Error("expected room-prefixed floor meshes for both rooms")
	}
}

// TestE2EConcurrentScripts runs overlapping evaluations on one shared
// Forge, the way concurrent HTTP requests hit the service. Every request
// must get its own complete result.
func TestE2EConcurrentScripts(t *testing.T) {
	f := New()

	var wg sync.WaitGroup
	failures := make(chan string, 6)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := f.EvaluateScript(doorRoomScript)
			if len(result.Errors) > 0 {
				failures <- result.Errors[0].Message
				return
			}
			if len(result.Rooms) != 1 {
				failures <- "missing room in concurrent result"
			}
		}()
	}
	wg.Wait()
	close(failures)

	for msg := range failures {
		t.Errorf("concurrent EvaluateScript failed: %s", msg)
	}
}

// TestE2EWarningsSurface checks advisory validation findings ride along
// without blocking synthesis.
func TestE2EWarningsSurface(t *testing.T) {
	f := New()
	source := `
(room :name "warned"
      :polygon (list (point 0 0) (point 4 0) (point 4 3) (point 0 3))
      :openings (list (opening (point 10 10) (point 11 10))))
`
	result := f.EvaluateScript(source)

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(result.Rooms))
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning for the stray opening")
	}
	if !strings.Contains(result.Warnings[0].Message, "opening") {
		t.Errorf("unexpected warning: %s", result.Warnings[0].Message)
	}
}
