// Package mc extracts iso-surfaces from sampled grids using the
// marching cubes algorithm. The output is an unindexed triangle soup;
// pkg/mesh turns it into an indexed mesh.
package mc

import (
	"context"
	"math"
	"runtime"
	"sync"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Jaimeestela/physicode/pkg/grid"
	"github.com/Jaimeestela/physicode/pkg/mesh"
)

// Extract runs marching cubes over every (n-1)³ cube of the grid and
// returns the triangles of the iso-surface at iso. Extraction is total:
// an iso-value outside the sampled range yields an empty slice, not an
// error. Non-finite samples classify as outside the surface.
//
// The cube index space is partitioned into contiguous x-slabs processed
// by up to workers goroutines, each writing a private buffer; buffers
// are concatenated in slab order so the result is identical for any
// worker count. The context is checked between slabs only; on
// cancellation nothing partial is returned.
func Extract(ctx context.Context, g *grid.Grid, iso float64, workers int) ([]mesh.Triangle, error) {
	nx := g.Nx - 1
	if nx <= 0 || g.Ny < 2 || g.Nz < 2 {
		return nil, nil
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > nx {
		workers = nx
	}

	// Contiguous x-ranges, one per worker.
	bufs := make([][]mesh.Triangle, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		x0 := w * nx / workers
		x1 := (w + 1) * nx / workers
		wg.Add(1)
		go func(w, x0, x1 int) {
			defer wg.Done()
			bufs[w], errs[w] = marchSlab(ctx, g, iso, x0, x1)
		}(w, x0, x1)
	}
	wg.Wait()

	total := 0
	for w := range bufs {
		if errs[w] != nil {
			return nil, errs[w]
		}
		total += len(bufs[w])
	}
	out := make([]mesh.Triangle, 0, total)
	for _, b := range bufs {
		out = append(out, b...)
	}
	return out, nil
}

// marchSlab triangulates all cubes with x index in [x0, x1).
func marchSlab(ctx context.Context, g *grid.Grid, iso float64, x0, x1 int) ([]mesh.Triangle, error) {
	var tris []mesh.Triangle
	var vals [8]float64
	var pos [8]v3.Vec
	var edgePoint [12]v3.Vec

	for ix := x0; ix < x1; ix++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for iy := 0; iy < g.Ny-1; iy++ {
			for iz := 0; iz < g.Nz-1; iz++ {
				idx := 0
				for c := 0; c < 8; c++ {
					off := cornerOffset[c]
					vals[c] = g.At(ix+off[0], iy+off[1], iz+off[2])
					pos[c] = g.Point(ix+off[0], iy+off[1], iz+off[2])
					if vals[c] < iso {
						idx |= 1 << c
					}
				}

				edges := edgeTable[idx]
				if edges == 0 {
					continue
				}
				for e := 0; e < 12; e++ {
					if edges&(1<<e) != 0 {
						a, b := edgeVerts[e][0], edgeVerts[e][1]
						edgePoint[e] = interp(iso, pos[a], pos[b], vals[a], vals[b])
					}
				}

				// The table's winding orients normals toward the
				// inside region; swap two vertices so they face
				// outward instead (positive divergence-theorem
				// volume for closed surfaces).
				row := &triTable[idx]
				for t := 0; row[t] != -1; t += 3 {
					tris = append(tris, mesh.Triangle{
						edgePoint[row[t]],
						edgePoint[row[t+2]],
						edgePoint[row[t+1]],
					})
				}
			}
		}
	}
	return tris, nil
}

// interp places the surface vertex on the edge p0-p1 by linear
// interpolation of the field values. The parameter is clamped to [0, 1]
// to guard against equal or non-finite endpoint values.
func interp(iso float64, p0, p1 v3.Vec, v0, v1 float64) v3.Vec {
	t := (iso - v0) / (v1 - v0)
	if math.IsNaN(t) || t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return v3.Vec{
		X: p0.X + t*(p1.X-p0.X),
		Y: p0.Y + t*(p1.Y-p0.Y),
		Z: p0.Z + t*(p1.Z-p0.Z),
	}
}
