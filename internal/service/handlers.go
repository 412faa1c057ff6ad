// Package service implements the HTTP surface of the room synthesizer:
// JSON plan synthesis and SVG floor-plan conversion.
package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/VibeCAD/roomforge/pkg/forge"
	"github.com/VibeCAD/roomforge/pkg/plan"
	"github.com/VibeCAD/roomforge/pkg/plan/svg"
	"github.com/VibeCAD/roomforge/pkg/synth"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// ============================================================
// Request / Response Types
// ============================================================

// ParamSpec carries optional synthesis dimensions; zero values fall back
// to the defaults.
type ParamSpec struct {
	WallHeight    float64 `json:"wallHeight"`
	WallThickness float64 `json:"wallThickness"`
	WorldScale    float64 `json:"worldScale"`
}

func (p ParamSpec) params() synth.Params {
	out := synth.DefaultParams()
	if p.WallHeight > 0 {
		out.WallHeight = p.WallHeight
	}
	if p.WallThickness > 0 {
		out.WallThickness = p.WallThickness
	}
	if p.WorldScale > 0 {
		out.WorldScale = p.WorldScale
	}
	return out
}

// SynthesizeRequest is the /synthesize payload: one or more plans, in
// world coordinates unless fromDrawing is set.
type SynthesizeRequest struct {
	Plans       []plan.Plan `json:"plans"`
	Params      ParamSpec   `json:"params"`
	FromDrawing bool        `json:"fromDrawing"`
	Scale       float64     `json:"scale"`
}

// RoomResult pairs a synthesized room with its assigned ID and any
// validation warnings.
type RoomResult struct {
	ID       string              `json:"id"`
	Room     *synth.RoomGeometry `json:"room"`
	Warnings []string            `json:"warnings,omitempty"`
}

// ============================================================
// Handlers
// ============================================================

// Handlers owns the HTTP handlers and their configuration.
type Handlers struct {
	cfg   *Config
	forge *forge.Forge
}

// NewHandlers creates the handler set for the given configuration.
func NewHandlers(cfg *Config) *Handlers {
	return &Handlers{cfg: cfg, forge: forge.New()}
}

// Synthesize handles POST /synthesize: decode plans, run synthesis per
// room, return the geometry list.
func (h *Handlers) Synthesize(c fiber.Ctx) error {
	var req SynthesizeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": fmt.Sprintf("invalid request body: %v", err),
		})
	}
	if len(req.Plans) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": "plans required",
		})
	}

	plans := req.Plans
	if req.FromDrawing {
		scale := req.Scale
		if scale <= 0 {
			scale = h.cfg.WorldScale
		}
		converted := make([]plan.Plan, len(plans))
		for i, p := range plans {
			converted[i] = plan.FromDrawing(p, scale)
		}
		plans = converted
	}

	results, err := synthesizeAll(plans, req.Params.params())
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"rooms": results})
}

// ConvertSVG handles POST /convert: a multipart SVG floor plan is parsed,
// converted to world space, and synthesized.
func (h *Handlers) ConvertSVG(c fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "file required in multipart/form-data",
		})
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "failed to open file",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "failed to read file",
		})
	}

	log.Printf("[CONVERT] %s, %d bytes", file.Filename, len(data))

	plans, err := svg.ParseWorld(bytes.NewReader(data), h.cfg.WorldScale)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	results, err := synthesizeAll(plans, synth.DefaultParams())
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"rooms": results})
}

// EvaluateScript handles POST /script: the request body is room-script
// source, evaluated through the full pipeline to rooms and meshes.
func (h *Handlers) EvaluateScript(c fiber.Ctx) error {
	result := h.forge.EvaluateScript(string(c.Body()))
	if len(result.Errors) > 0 {
		return c.Status(400).JSON(result)
	}
	return c.JSON(result)
}

// synthesizeAll validates and synthesizes each plan independently.
// Blocking validation errors abort the whole request; warnings ride
// along in the result.
func synthesizeAll(plans []plan.Plan, params synth.Params) ([]RoomResult, error) {
	results := make([]RoomResult, 0, len(plans))
	for i := range plans {
		p := plans[i]
		vr := plan.Validate(&p)
		if !vr.OK() {
			return nil, fmt.Errorf("plan %d (%s): %s", i, p.Name, vr.Errors[0].Message)
		}

		room, err := synth.Synthesize(&p, params)
		if err != nil {
			return nil, fmt.Errorf("plan %d (%s): %w", i, p.Name, err)
		}

		var warnings []string
		for _, w := range vr.Warnings {
			warnings = append(warnings, w.Message)
		}
		results = append(results, RoomResult{
			ID:       uuid.NewString(),
			Room:     room,
			Warnings: warnings,
		})
	}
	return results, nil
}
