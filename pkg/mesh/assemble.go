package mesh

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultWeldEpsilon is used when the caller passes a non-positive weld
// tolerance. Pipelines should derive the tolerance from their grid
// spacing instead (1e-6 × min spacing).
const DefaultWeldEpsilon = 1e-9

// weldKey quantizes a position onto an integer lattice of cell size
// eps, so positions within eps of each other collapse to the same key.
type weldKey [3]int64

func quantize(p v3.Vec, eps float64) weldKey {
	return weldKey{
		int64(math.Round(p.X / eps)),
		int64(math.Round(p.Y / eps)),
		int64(math.Round(p.Z / eps)),
	}
}

// faceKey is an order-independent identity for a face, used to drop the
// duplicate boundary triangles that two adjoining cubes can both emit.
type faceKey [3]int

func canonicalFace(a, b, c int) faceKey {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return faceKey{a, b, c}
}

// Assemble converts a triangle soup into an indexed Mesh:
//
//   - vertices within weldEps of each other are merged (hash on
//     quantized position, not pairwise comparison)
//   - faces with repeated vertex indices, and faces duplicating an
//     already-emitted face regardless of winding, are dropped
//   - vertices left unreferenced by the surviving faces are removed and
//     indices compacted
//   - per-vertex normals are the normalized sum of adjacent face
//     normals (area weighted, since the cross product is unnormalized)
//
// An empty soup assembles into a valid empty mesh. Assembly is
// idempotent: feeding a mesh's own soup back in reproduces it.
func Assemble(soup []Triangle, weldEps float64) *Mesh {
	if weldEps <= 0 {
		weldEps = DefaultWeldEpsilon
	}

	verts := make([]v3.Vec, 0, len(soup))
	lookup := make(map[weldKey]int, len(soup))
	seen := make(map[faceKey]bool, len(soup))
	faces := make([][3]int, 0, len(soup))

	for _, tri := range soup {
		var f [3]int
		for i, p := range tri {
			key := quantize(p, weldEps)
			vi, ok := lookup[key]
			if !ok {
				vi = len(verts)
				verts = append(verts, p)
				lookup[key] = vi
			}
			f[i] = vi
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue
		}
		key := canonicalFace(f[0], f[1], f[2])
		if seen[key] {
			continue
		}
		seen[key] = true
		faces = append(faces, f)
	}

	verts, faces = compact(verts, faces)

	m := &Mesh{Vertices: verts, Faces: faces}
	m.Normals = vertexNormals(m)
	return m
}

// compact drops vertices not referenced by any face and remaps face
// indices, preserving first-reference order.
func compact(verts []v3.Vec, faces [][3]int) ([]v3.Vec, [][3]int) {
	remap := make([]int, len(verts))
	for i := range remap {
		remap[i] = -1
	}
	kept := make([]v3.Vec, 0, len(verts))
	for fi := range faces {
		for i, vi := range faces[fi] {
			if remap[vi] == -1 {
				remap[vi] = len(kept)
				kept = append(kept, verts[vi])
			}
			faces[fi][i] = remap[vi]
		}
	}
	return kept, faces
}

// vertexNormals accumulates unnormalized face normals onto each face's
// vertices and normalizes the sums. A vertex whose adjacent normals
// cancel exactly keeps a zero normal rather than a NaN.
func vertexNormals(m *Mesh) []v3.Vec {
	normals := make([]v3.Vec, len(m.Vertices))
	for _, f := range m.Faces {
		n := Triangle{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}.Normal()
		for _, vi := range f {
			normals[vi] = normals[vi].Add(n)
		}
	}
	for i, n := range normals {
		if l := n.Length(); l > 1e-12 {
			normals[i] = n.DivScalar(l)
		}
	}
	return normals
}
