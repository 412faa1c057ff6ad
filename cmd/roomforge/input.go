package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/VibeCAD/roomforge/pkg/engine"
	"github.com/VibeCAD/roomforge/pkg/plan"
	"github.com/VibeCAD/roomforge/pkg/plan/svg"
)

// loadPlans reads one or more plans from a file, dispatching on the
// extension: .json (a plan or a plan list, world coordinates unless
// fromDrawing is set), .svg (drawing coordinates, always converted),
// or .room (script, world coordinates).
func loadPlans(path string, scale float64, fromDrawing bool) ([]plan.Plan, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSONPlans(path, scale, fromDrawing)
	case ".svg":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return svg.ParseWorld(f, scale)
	case ".room":
		return loadScriptPlans(path)
	}
	return nil, fmt.Errorf("unsupported input format %q (want .json, .svg, or .room)", filepath.Ext(path))
}

func loadJSONPlans(path string, scale float64, fromDrawing bool) ([]plan.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plans []plan.Plan
	if err := json.Unmarshal(data, &plans); err != nil {
		// Allow a single plan object as well as a list.
		var single plan.Plan
		if err2 := json.Unmarshal(data, &single); err2 != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		plans = []plan.Plan{single}
	}

	if fromDrawing {
		for i := range plans {
			plans[i] = plan.FromDrawing(plans[i], scale)
		}
	}
	return plans, nil
}

func loadScriptPlans(path string) ([]plan.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	plans, evalErrs, err := engine.NewEngine().Evaluate(string(data))
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		return nil, fmt.Errorf("evaluate %s: %s", path, evalErrs[0].Error())
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("%s declares no rooms", path)
	}
	return plans, nil
}
