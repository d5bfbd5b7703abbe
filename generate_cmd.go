package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/Jaimeestela/physicode/pkg/analysis"
	"github.com/Jaimeestela/physicode/pkg/field"
	"github.com/Jaimeestela/physicode/pkg/generate"
	"github.com/Jaimeestela/physicode/pkg/mesh"
	"github.com/Jaimeestela/physicode/pkg/stl"
)

func newGenerateCmd() *cobra.Command {
	var (
		fieldName string
		scale     float64
		thickness float64
		radius    float64
		res       int
		iso       float64
		boundsArg []float64
		output    string
		density   float64
		wall      float64
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Extract an iso-surface mesh from a built-in field",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := buildField(fieldName, scale, thickness, radius)
			if err != nil {
				return err
			}

			opts := generate.Options{
				Resolution: res,
				IsoValue:   iso,
				Bounds:     generate.DefaultBounds,
				Workers:    workers,
			}
			if len(boundsArg) > 0 {
				if len(boundsArg) != 6 {
					return fmt.Errorf("--bounds wants 6 values: xmin,xmax,ymin,ymax,zmin,zmax")
				}
				opts.Bounds.Min.X, opts.Bounds.Max.X = boundsArg[0], boundsArg[1]
				opts.Bounds.Min.Y, opts.Bounds.Max.Y = boundsArg[2], boundsArg[3]
				opts.Bounds.Min.Z, opts.Bounds.Max.Z = boundsArg[4], boundsArg[5]
			}

			m, err := generate.Generate(context.Background(), f, opts)
			if err != nil {
				return err
			}

			printAnalysis(fieldName, m, density, wall)

			if output != "" {
				if err := stl.WriteFile(output, m); err != nil {
					return err
				}
				log.Printf("wrote %s (%d triangles)", output, m.FaceCount())
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&fieldName, "field", "gyroid", "field to extract: gyroid, schwarz-p, sphere")
	fl.Float64Var(&scale, "scale", 1.0, "spatial frequency scale for TPMS fields")
	fl.Float64Var(&thickness, "thickness", 0, "shell half-thickness (0 for a solid surface)")
	fl.Float64Var(&radius, "radius", 3.0, "sphere radius")
	fl.IntVar(&res, "resolution", generate.DefaultResolution, "sample points per axis")
	fl.Float64Var(&iso, "iso", 0, "iso-surface level")
	fl.Float64SliceVar(&boundsArg, "bounds", nil, "sampling box: xmin,xmax,ymin,ymax,zmin,zmax")
	fl.StringVarP(&output, "output", "o", "", "STL output path")
	fl.Float64Var(&density, "density", 0, "material density in g/cm³ for a mass estimate")
	fl.Float64Var(&wall, "wall-thickness", 0, "wall thickness in mm for shell prints")
	fl.IntVar(&workers, "workers", 0, "extraction goroutines (0 = all CPUs)")
	return cmd
}

func buildField(name string, scale, thickness, radius float64) (field.Field, error) {
	switch name {
	case "gyroid":
		return field.NewGyroid(scale, thickness), nil
	case "schwarz-p", "schwarz_p":
		return field.NewSchwarzP(scale, thickness), nil
	case "sphere":
		return field.Sphere(radius)
	}
	return nil, fmt.Errorf("unknown field %q", name)
}

func printAnalysis(name string, m *mesh.Mesh, density, wall float64) {
	r := analysis.Analyze(m)
	log.Printf("%s: %d vertices, %d faces, %d edges", name, r.VertexCount, r.FaceCount, r.EdgeCount)
	log.Printf("  watertight: %v, encloses volume: %v", r.IsWatertight, r.IsVolume)
	log.Printf("  surface area: %.3f mm²", r.SurfaceArea)
	if r.IsVolume {
		log.Printf("  volume: %.3f mm³", r.Volume)
	}
	log.Printf("  dimensions: %.3f x %.3f x %.3f mm",
		r.Dimensions.X, r.Dimensions.Y, r.Dimensions.Z)

	if density > 0 {
		mu := analysis.EstimateMaterial(m, density, wall)
		log.Printf("  material: %.3f mm³, mass %.3f g at %.2f g/cm³",
			mu.MaterialVolume, mu.Mass, density)
	}
}
