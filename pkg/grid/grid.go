// Package grid samples scalar fields on uniform rectilinear lattices.
// A sampled grid is the input to marching-cubes extraction and is
// discarded once extraction completes.
package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Jaimeestela/physicode/pkg/field"
)

// ErrInvalidInput reports malformed sampling parameters: a degenerate
// bounding box, a resolution below 2, or a non-finite value. It is
// raised before any sampling begins; nothing partial is produced.
var ErrInvalidInput = errors.New("invalid input")

// Grid holds field samples on a uniform lattice.
//
// Values is dense, length Nx*Ny*Nz, with z varying fastest:
//
//	Values[(ix*Ny+iy)*Nz+iz] = f(Origin + (ix*dx, iy*dy, iz*dz))
//
// Both box endpoints are included in the lattice, so spacing along an
// axis is (max-min)/(n-1).
type Grid struct {
	Nx, Ny, Nz int
	Origin     v3.Vec
	Spacing    v3.Vec
	Values     []float64
}

// Index returns the flat Values index of lattice point (ix, iy, iz).
func (g *Grid) Index(ix, iy, iz int) int {
	return (ix*g.Ny+iy)*g.Nz + iz
}

// At returns the sampled value at lattice point (ix, iy, iz).
func (g *Grid) At(ix, iy, iz int) float64 {
	return g.Values[g.Index(ix, iy, iz)]
}

// Point returns the world-space position of lattice point (ix, iy, iz).
func (g *Grid) Point(ix, iy, iz int) v3.Vec {
	return v3.Vec{
		X: g.Origin.X + float64(ix)*g.Spacing.X,
		Y: g.Origin.Y + float64(iy)*g.Spacing.Y,
		Z: g.Origin.Z + float64(iz)*g.Spacing.Z,
	}
}

// ValidateBounds checks that the box is finite with min < max on every
// axis.
func ValidateBounds(bounds sdf.Box3) error {
	lo := [3]float64{bounds.Min.X, bounds.Min.Y, bounds.Min.Z}
	hi := [3]float64{bounds.Max.X, bounds.Max.Y, bounds.Max.Z}
	axes := [3]string{"x", "y", "z"}
	for i := range lo {
		if math.IsNaN(lo[i]) || math.IsInf(lo[i], 0) || math.IsNaN(hi[i]) || math.IsInf(hi[i], 0) {
			return fmt.Errorf("%w: non-finite %s bounds", ErrInvalidInput, axes[i])
		}
		if lo[i] >= hi[i] {
			return fmt.Errorf("%w: %s bounds min %g >= max %g", ErrInvalidInput, axes[i], lo[i], hi[i])
		}
	}
	return nil
}

// Sample evaluates f at every vertex of a resolution³ lattice spanning
// bounds, inclusive of both endpoints on each axis. Identical field,
// bounds and resolution always produce bit-identical output.
func Sample(f field.Field, bounds sdf.Box3, resolution int) (*Grid, error) {
	if resolution < 2 {
		return nil, fmt.Errorf("%w: resolution %d, need at least 2", ErrInvalidInput, resolution)
	}
	if err := ValidateBounds(bounds); err != nil {
		return nil, err
	}

	n := resolution
	g := &Grid{
		Nx:     n,
		Ny:     n,
		Nz:     n,
		Origin: bounds.Min,
		Spacing: v3.Vec{
			X: (bounds.Max.X - bounds.Min.X) / float64(n-1),
			Y: (bounds.Max.Y - bounds.Min.Y) / float64(n-1),
			Z: (bounds.Max.Z - bounds.Min.Z) / float64(n-1),
		},
		Values: make([]float64, n*n*n),
	}

	i := 0
	for ix := 0; ix < n; ix++ {
		x := g.Origin.X + float64(ix)*g.Spacing.X
		for iy := 0; iy < n; iy++ {
			y := g.Origin.Y + float64(iy)*g.Spacing.Y
			for iz := 0; iz < n; iz++ {
				z := g.Origin.Z + float64(iz)*g.Spacing.Z
				g.Values[i] = f.Evaluate(x, y, z)
				i++
			}
		}
	}
	return g, nil
}
