package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/VibeCAD/roomforge/pkg/build"
	"github.com/VibeCAD/roomforge/pkg/export/stl"
	"github.com/VibeCAD/roomforge/pkg/kernel"
	"github.com/VibeCAD/roomforge/pkg/kernel/sdfx"
	"github.com/VibeCAD/roomforge/pkg/plan"
	"github.com/VibeCAD/roomforge/pkg/synth"
	"github.com/spf13/cobra"
)

var (
	synthHeight      float64
	synthThickness   float64
	synthScale       float64
	synthFromDrawing bool
	synthJSONOut     string
	synthSTLOut      string
)

var synthCmd = &cobra.Command{
	Use:   "synth [file]",
	Short: "Synthesize 3D room geometry from a floor plan",
	Long: `Synthesize reads a floor plan (.json, .svg, or .room script), runs room
synthesis, and writes the resulting geometry as JSON and/or binary STL.
With no output flags the geometry JSON goes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runSynth,
}

func init() {
	synthCmd.Flags().Float64Var(&synthHeight, "height", 2.5, "wall height in world units")
	synthCmd.Flags().Float64Var(&synthThickness, "thickness", 0.1, "wall thickness in world units")
	synthCmd.Flags().Float64Var(&synthScale, "scale", plan.DefaultWorldScale, "drawing-to-world scale")
	synthCmd.Flags().BoolVar(&synthFromDrawing, "from-drawing", false, "treat JSON plan coordinates as drawing space")
	synthCmd.Flags().StringVarP(&synthJSONOut, "out", "o", "", "write geometry JSON to this file")
	synthCmd.Flags().StringVar(&synthSTLOut, "stl", "", "write meshes as binary STL to this file")
	rootCmd.AddCommand(synthCmd)
}

func runSynth(cmd *cobra.Command, args []string) error {
	plans, err := loadPlans(args[0], synthScale, synthFromDrawing)
	if err != nil {
		return err
	}

	params := synth.Params{
		WallHeight:    synthHeight,
		WallThickness: synthThickness,
		WorldScale:    synthScale,
	}

	rooms := make([]*synth.RoomGeometry, 0, len(plans))
	for i := range plans {
		p := plans[i]
		vr := plan.Validate(&p)
		if !vr.OK() {
			return fmt.Errorf("plan %d (%s): %s", i, p.Name, vr.Errors[0].Message)
		}
		for _, w := range vr.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w.Error())
		}

		room, err := synth.Synthesize(&p, params)
		if err != nil {
			return fmt.Errorf("plan %d (%s): %w", i, p.Name, err)
		}
		rooms = append(rooms, room)
	}

	if synthSTLOut != "" {
		if err := writeSTL(synthSTLOut, rooms); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", synthSTLOut)
	}

	if synthJSONOut != "" || synthSTLOut == "" {
		data, err := json.MarshalIndent(rooms, "", "  ")
		if err != nil {
			return err
		}
		if synthJSONOut == "" {
			fmt.Println(string(data))
		} else {
			if err := os.WriteFile(synthJSONOut, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "wrote %s\n", synthJSONOut)
		}
	}
	return nil
}

func writeSTL(path string, rooms []*synth.RoomGeometry) error {
	k := sdfx.New()
	var meshes []*kernel.Mesh
	for _, room := range rooms {
		ms, err := build.Build(room, k)
		if err != nil {
			return fmt.Errorf("build %s: %w", room.Name, err)
		}
		meshes = append(meshes, ms...)
	}
	return stl.WriteFile(path, meshes, "roomforge")
}
