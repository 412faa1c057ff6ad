package main

import (
	"fmt"
	"os"

	"github.com/VibeCAD/roomforge/pkg/plan"
	"github.com/VibeCAD/roomforge/pkg/synth"
	"github.com/spf13/cobra"
)

var (
	infoScale       float64
	infoFromDrawing bool
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display statistics about a synthesized floor plan",
	Long:  "Synthesize the plan and print room statistics: wall counts, lengths, floor area, bounds, and connection points.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().Float64Var(&infoScale, "scale", plan.DefaultWorldScale, "drawing-to-world scale")
	infoCmd.Flags().BoolVar(&infoFromDrawing, "from-drawing", false, "treat JSON plan coordinates as drawing space")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	plans, err := loadPlans(args[0], infoScale, infoFromDrawing)
	if err != nil {
		return err
	}

	for i := range plans {
		p := plans[i]
		vr := plan.Validate(&p)
		if !vr.OK() {
			return fmt.Errorf("plan %d (%s): %s", i, p.Name, vr.Errors[0].Message)
		}
		for _, w := range vr.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w.Error())
		}

		room, err := synth.Synthesize(&p, synth.DefaultParams())
		if err != nil {
			return fmt.Errorf("plan %d (%s): %w", i, p.Name, err)
		}
		printRoomInfo(i, room)
	}
	return nil
}

func printRoomInfo(i int, room *synth.RoomGeometry) {
	name := room.Name
	if name == "" {
		name = fmt.Sprintf("room %d", i)
	}
	fmt.Printf("Room: %s\n", name)
	fmt.Println("====================")

	min, max := synth.Bounds(room.FloorPolygon)
	fmt.Println("Floor:")
	fmt.Printf("  Vertices: %d\n", len(room.FloorPolygon))
	fmt.Printf("  Area: %.3f square units\n", room.FloorArea())
	fmt.Printf("  Bounds: (%.3f, %.3f) to (%.3f, %.3f)\n\n", min.X, min.Y, max.X, max.Y)

	var perimeterLen float64
	for _, w := range room.PerimeterWalls {
		perimeterLen += w.Length
	}
	var interiorLen float64
	for _, w := range room.InteriorWalls {
		interiorLen += w.Length
	}

	fmt.Println("Walls:")
	fmt.Printf("  Perimeter segments: %d (total length %.3f)\n", len(room.PerimeterWalls), perimeterLen)
	fmt.Printf("  Interior segments: %d (total length %.3f)\n\n", len(room.InteriorWalls), interiorLen)

	var edges, corners int
	for _, cp := range room.ConnectionPoints {
		switch cp.Kind {
		case synth.PointEdge:
			edges++
		case synth.PointCorner:
			corners++
		}
	}
	fmt.Println("Connection Points:")
	fmt.Printf("  Wall tops: %d\n", edges)
	fmt.Printf("  Corners: %d\n\n", corners)

	g := room.Grid
	fmt.Println("Grid:")
	fmt.Printf("  Cell size: %.1f drawing units (scale %.3f)\n", g.GridSize, g.WorldScale)
	fmt.Printf("  UV scale: %.3f x %.3f\n\n", g.UScale, g.VScale)
}
