package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jaimeestela/physicode/pkg/stl"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		density float64
		wall    float64
	)

	cmd := &cobra.Command{
		Use:   "analyze <file.stl>",
		Short: "Report geometry metrics for an STL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := stl.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			printAnalysis(args[0], m, density, wall)
			return nil
		},
	}

	cmd.Flags().Float64Var(&density, "density", 0, "material density in g/cm³ for a mass estimate")
	cmd.Flags().Float64Var(&wall, "wall-thickness", 0, "wall thickness in mm for shell prints")
	return cmd
}
