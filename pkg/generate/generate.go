// Package generate runs the full extraction pipeline: sample a scalar
// field on a grid, march the cubes, and assemble the triangle soup into
// an indexed mesh. It is stateless and reentrant; every call takes all
// parameters explicitly and returns a fresh mesh.
package generate

import (
	"context"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Jaimeestela/physicode/pkg/field"
	"github.com/Jaimeestela/physicode/pkg/grid"
	"github.com/Jaimeestela/physicode/pkg/mc"
	"github.com/Jaimeestela/physicode/pkg/mesh"
)

// DefaultBounds is the sampling region used when none is given,
// matching the original playground's (-5, 5) per axis.
var DefaultBounds = sdf.Box3{
	Min: v3.Vec{X: -5, Y: -5, Z: -5},
	Max: v3.Vec{X: 5, Y: 5, Z: 5},
}

// DefaultResolution is the lattice resolution used when none is given.
const DefaultResolution = 50

// Options control one pipeline run.
type Options struct {
	// Resolution is the number of sample points per axis (≥ 2).
	Resolution int
	// IsoValue is the surface extraction level. Must be finite.
	IsoValue float64
	// Bounds is the sampled box; min < max on every axis.
	Bounds sdf.Box3
	// Workers bounds extraction parallelism; 0 means one goroutine
	// per CPU.
	Workers int
}

// Validate checks the options, wrapping failures in
// grid.ErrInvalidInput. Called by Generate before any sampling.
func (o Options) Validate() error {
	if o.Resolution < 2 {
		return fmt.Errorf("%w: resolution %d, need at least 2", grid.ErrInvalidInput, o.Resolution)
	}
	if math.IsNaN(o.IsoValue) || math.IsInf(o.IsoValue, 0) {
		return fmt.Errorf("%w: non-finite iso-value", grid.ErrInvalidInput)
	}
	return grid.ValidateBounds(o.Bounds)
}

// Generate extracts the iso-surface of f under the given options.
//
// An iso-surface that never intersects the sampled volume produces a
// valid empty mesh, not an error. The sampled grid is released as soon
// as extraction completes; only the mesh survives the call.
func Generate(ctx context.Context, f field.Field, opts Options) (*mesh.Mesh, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	g, err := grid.Sample(f, opts.Bounds, opts.Resolution)
	if err != nil {
		return nil, err
	}

	soup, err := mc.Extract(ctx, g, opts.IsoValue, opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("generate: extraction: %w", err)
	}

	weldEps := 1e-6 * minSpacing(g)
	g = nil // grid buffer is dead past this point

	return mesh.Assemble(soup, weldEps), nil
}

func minSpacing(g *grid.Grid) float64 {
	s := g.Spacing.X
	if g.Spacing.Y < s {
		s = g.Spacing.Y
	}
	if g.Spacing.Z < s {
		s = g.Spacing.Z
	}
	return s
}
