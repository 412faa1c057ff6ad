// Package forge runs the full script-to-geometry pipeline: room-script
// source through the engine, plan validation, synthesis, and mesh
// construction. Hosts embed a Forge and call EvaluateScript from their
// editor binding or HTTP handler.
package forge

import (
	"fmt"
	"log"

	"github.com/VibeCAD/roomforge/pkg/build"
	"github.com/VibeCAD/roomforge/pkg/engine"
	"github.com/VibeCAD/roomforge/pkg/kernel"
	"github.com/VibeCAD/roomforge/pkg/kernel/sdfx"
	"github.com/VibeCAD/roomforge/pkg/plan"
	"github.com/VibeCAD/roomforge/pkg/synth"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// MeshData is the JSON-serializable mesh format sent to rendering hosts.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ScriptResult is the full pipeline output for one script evaluation.
type ScriptResult struct {
	Rooms    []*synth.RoomGeometry `json:"rooms"`
	Meshes   []MeshData            `json:"meshes"`
	Errors   []EvalErrorData       `json:"errors"`
	Warnings []EvalErrorData       `json:"warnings"`
}

// Forge owns the engine and kernel for repeated script evaluations.
// It is safe for concurrent use.
type Forge struct {
	engine *engine.Engine
	kernel kernel.Kernel
	params synth.Params
}

// New creates a Forge with a fresh engine and the sdfx kernel.
func New() *Forge {
	return NewWithParams(synth.DefaultParams())
}

// NewWithParams creates a Forge that synthesizes with the given dimensions.
func NewWithParams(params synth.Params) *Forge {
	return &Forge{
		engine: engine.NewEngine(),
		kernel: sdfx.New(),
		params: params,
	}
}

// EvaluateScript takes room-script source and returns synthesized rooms,
// mesh data, and any errors or warnings. All result slices are non-nil
// so JSON encodes them as [] rather than null.
func (f *Forge) EvaluateScript(source string) ScriptResult {
	result := ScriptResult{
		Rooms:    []*synth.RoomGeometry{},
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: evaluate the script into plans.
	plans, evalErrs, err := f.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("EvaluateScript fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: err.Error(),
		})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 2: validate, synthesize, and mesh each plan.
	for i := range plans {
		p := plans[i]

		vr := plan.Validate(&p)
		for _, w := range vr.Warnings {
			result.Warnings = append(result.Warnings, EvalErrorData{
				Message: w.Error(),
			})
		}
		if !vr.OK() {
			result.Errors = append(result.Errors, EvalErrorData{
				Message: vr.Errors[0].Error(),
			})
			return result
		}

		room, err := synth.Synthesize(&p, f.params)
		if err != nil {
			result.Errors = append(result.Errors, EvalErrorData{
				Message: err.Error(),
			})
			return result
		}
		result.Rooms = append(result.Rooms, room)

		meshes, err := build.Build(room, f.kernel)
		if err != nil {
			log.Printf("Build error: %v", err)
			result.Errors = append(result.Errors, EvalErrorData{
				Message: "mesh construction failed: " + err.Error(),
			})
			return result
		}
		// Part names are unique within one room; with several rooms a
		// room prefix keeps them distinct.
		prefix := ""
		if len(plans) > 1 {
			if room.Name != "" {
				prefix = room.Name + "/"
			} else {
				prefix = fmt.Sprintf("room%d/", i)
			}
		}
		for _, m := range meshes {
			color := colorPalette[len(result.Meshes)%len(colorPalette)]
			result.Meshes = append(result.Meshes, MeshData{
				Vertices: m.Vertices,
				Normals:  m.Normals,
				Indices:  m.Indices,
				PartName: prefix + m.PartName,
				Color:    color,
			})
		}
	}

	return result
}
