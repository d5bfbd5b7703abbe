// Package analysis computes manufacturing-relevant metrics from
// triangle meshes: volume, surface area, bounding box, topology counts,
// watertightness, and material usage estimates.
package analysis

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Jaimeestela/physicode/pkg/mesh"
)

// Result bundles the metrics of a single mesh. Volume is meaningful
// only when the mesh is a consistently oriented closed volume
// (IsVolume); otherwise it is reported as 0. An empty mesh yields
// all-zero metrics. Each field is independently consumable.
type Result struct {
	Volume       float64
	SurfaceArea  float64
	BBox         sdf.Box3
	Dimensions   v3.Vec
	VertexCount  int
	FaceCount    int
	EdgeCount    int
	IsWatertight bool
	IsVolume     bool
}

// Analyze computes the full metric set for a mesh. It is a pure,
// deterministic, non-failing function: a non-watertight mesh is a
// legitimate input and simply reports Volume 0, IsVolume false.
func Analyze(m *mesh.Mesh) Result {
	if m == nil || len(m.Vertices) == 0 {
		return Result{}
	}

	r := Result{
		VertexCount: len(m.Vertices),
		FaceCount:   len(m.Faces),
	}

	r.BBox = boundingBox(m.Vertices)
	r.Dimensions = r.BBox.Max.Sub(r.BBox.Min)
	r.SurfaceArea = surfaceArea(m)

	watertight, oriented, edgeCount := edgeTopology(m)
	r.EdgeCount = edgeCount
	r.IsWatertight = watertight

	if watertight && oriented {
		v := signedVolume(m)
		r.Volume = v
		r.IsVolume = v != 0
	}
	return r
}

// boundingBox is the componentwise min/max over all vertex positions.
func boundingBox(verts []v3.Vec) sdf.Box3 {
	bb := sdf.Box3{Min: verts[0], Max: verts[0]}
	for _, p := range verts[1:] {
		bb.Min = bb.Min.Min(p)
		bb.Max = bb.Max.Max(p)
	}
	return bb
}

// surfaceArea sums the triangle areas (half cross-product magnitude).
func surfaceArea(m *mesh.Mesh) float64 {
	total := 0.0
	for _, f := range m.Faces {
		n := mesh.Triangle{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}.Normal()
		total += 0.5 * n.Length()
	}
	return total
}

// edge is an unordered vertex pair.
type edge struct {
	lo, hi int
}

// edgeTopology counts, for every unordered edge, its incident faces and
// the direction each face traverses it. The mesh is watertight when
// every edge borders exactly two faces, and consistently oriented when
// the two faces traverse it in opposite directions (each directed edge
// used exactly once).
func edgeTopology(m *mesh.Mesh) (watertight, oriented bool, edgeCount int) {
	type use struct {
		faces   int
		forward int // traversals lo->hi
	}
	uses := make(map[edge]*use, len(m.Faces)*3/2)

	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			e := edge{a, b}
			fwd := 1
			if a > b {
				e = edge{b, a}
				fwd = 0
			}
			u := uses[e]
			if u == nil {
				u = &use{}
				uses[e] = u
			}
			u.faces++
			u.forward += fwd
		}
	}

	watertight = len(uses) > 0
	oriented = true
	for _, u := range uses {
		if u.faces != 2 {
			watertight = false
		}
		if u.forward != 1 {
			oriented = false
		}
	}
	return watertight, oriented, len(uses)
}

// signedVolume applies the divergence theorem: the volume enclosed by a
// closed surface is (1/6) Σ v0 · (v1 × v2) over its faces, positive
// when normals face outward.
func signedVolume(m *mesh.Mesh) float64 {
	total := 0.0
	for _, f := range m.Faces {
		v0 := m.Vertices[f[0]]
		v1 := m.Vertices[f[1]]
		v2 := m.Vertices[f[2]]
		total += v0.Dot(v1.Cross(v2))
	}
	return total / 6.0
}

// MaterialUsage is the outcome of a material estimate. Mass follows the
// original unit convention: mesh units are millimeters, density is
// g/cm³, so mass = material volume / 1000 × density.
type MaterialUsage struct {
	Volume         float64 // enclosed volume, mm³
	MaterialVolume float64 // volume actually filled with material, mm³
	Mass           float64 // grams
	Density        float64 // g/cm³
}

// EstimateMaterial estimates material consumption for manufacturing.
// Solid parts use the enclosed volume; when wallThickness > 0 the part
// is treated as a shell and material volume is surface area ×
// thickness.
func EstimateMaterial(m *mesh.Mesh, density, wallThickness float64) MaterialUsage {
	r := Analyze(m)

	materialVolume := r.Volume
	if wallThickness > 0 {
		materialVolume = r.SurfaceArea * wallThickness
	}

	return MaterialUsage{
		Volume:         r.Volume,
		MaterialVolume: materialVolume,
		Mass:           materialVolume / 1000.0 * density,
		Density:        density,
	}
}

// Watertight reports whether every edge of the mesh is shared by
// exactly two faces.
func Watertight(m *mesh.Mesh) bool {
	if m == nil || len(m.Faces) == 0 {
		return false
	}
	w, _, _ := edgeTopology(m)
	return w
}
