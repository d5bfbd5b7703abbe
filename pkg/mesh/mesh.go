// Package mesh defines the indexed triangle mesh produced by the
// extraction pipeline and the assembler that builds it from a triangle
// soup.
package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Triangle is a single surface triangle with explicit vertex positions,
// the raw per-cube output of marching cubes. Winding follows the
// right-hand rule with normals pointing away from the solid.
type Triangle [3]v3.Vec

// Normal returns the triangle's unnormalized face normal (cross product
// of two edge vectors; its magnitude is twice the triangle area).
func (t Triangle) Normal() v3.Vec {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
}

// Mesh is an indexed triangle mesh. Every face index is in range, no
// face repeats a vertex index, and Normals (when present) holds one
// unit vertex normal per vertex. A mesh may be empty; it never has
// dangling face indices. Meshes are immutable once assembled.
type Mesh struct {
	Vertices []v3.Vec
	Normals  []v3.Vec
	Faces    [][3]int
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Faces) == 0 }

// ToSoup expands the indexed mesh back into a triangle soup.
func (m *Mesh) ToSoup() []Triangle {
	soup := make([]Triangle, len(m.Faces))
	for i, f := range m.Faces {
		soup[i] = Triangle{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
	}
	return soup
}
