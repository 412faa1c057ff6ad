package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "roomforge",
	Short: "A CLI tool for synthesizing 3D room geometry from 2D floor plans",
	Long: `roomforge turns 2D floor plans into 3D room geometry: a floor slab,
perimeter walls with door and window cuts, interior partitions, and
connection points for object snapping. Plans can be JSON documents,
SVG floor-plan exports, or .room scripts.`,
	Version: "1.0.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
