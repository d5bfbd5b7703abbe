package mesh

import (
	"math"
	"reflect"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func vec(x, y, z float64) v3.Vec { return v3.Vec{X: x, Y: y, Z: z} }

// boxSoup builds the 12-triangle soup of an axis-aligned box from the
// origin to (dx, dy, dz) with outward-facing windings.
func boxSoup(dx, dy, dz float64) []Triangle {
	a := vec(0, 0, 0)
	b := vec(dx, 0, 0)
	c := vec(dx, dy, 0)
	d := vec(0, dy, 0)
	e := vec(0, 0, dz)
	f := vec(dx, 0, dz)
	g := vec(dx, dy, dz)
	h := vec(0, dy, dz)
	return []Triangle{
		{a, d, c}, {a, c, b}, // bottom
		{e, f, g}, {e, g, h}, // top
		{a, b, f}, {a, f, e}, // front
		{d, h, g}, {d, g, c}, // back
		{a, e, h}, {a, h, d}, // left
		{b, c, g}, {b, g, f}, // right
	}
}

func TestAssembleWeldsSharedVertices(t *testing.T) {
	m := Assemble(boxSoup(1, 1, 1), 1e-9)
	if m.VertexCount() != 8 {
		t.Errorf("vertex count = %d, want 8", m.VertexCount())
	}
	if m.FaceCount() != 12 {
		t.Errorf("face count = %d, want 12", m.FaceCount())
	}
}

func TestAssembleWeldTolerance(t *testing.T) {
	// Two triangles sharing an edge, but the second's copy of the edge
	// is perturbed by less than the weld tolerance.
	eps := 1e-6
	soup := []Triangle{
		{vec(0, 0, 0), vec(1, 0, 0), vec(0, 1, 0)},
		{vec(1, eps/10, 0), vec(1, 1, 0), vec(0, 1, -eps/10)},
	}
	m := Assemble(soup, eps)
	if m.VertexCount() != 4 {
		t.Errorf("vertex count = %d, want 4", m.VertexCount())
	}
}

func TestAssembleDropsDegenerate(t *testing.T) {
	soup := []Triangle{
		{vec(0, 0, 0), vec(1, 0, 0), vec(0, 1, 0)},
		// Two corners weld together, collapsing the triangle.
		{vec(5, 5, 5), vec(5, 5, 5), vec(6, 5, 5)},
	}
	m := Assemble(soup, 1e-9)
	if m.FaceCount() != 1 {
		t.Errorf("face count = %d, want 1", m.FaceCount())
	}
	// The dropped triangle's vertices must not survive compaction.
	if m.VertexCount() != 3 {
		t.Errorf("vertex count = %d, want 3", m.VertexCount())
	}
}

func TestAssembleDropsDuplicateFaces(t *testing.T) {
	tri := Triangle{vec(0, 0, 0), vec(1, 0, 0), vec(0, 1, 0)}
	rev := Triangle{tri[0], tri[2], tri[1]}
	m := Assemble([]Triangle{tri, tri, rev}, 1e-9)
	if m.FaceCount() != 1 {
		t.Errorf("face count = %d, want 1 (duplicates dropped regardless of winding)", m.FaceCount())
	}
}

func TestAssembleEmptySoup(t *testing.T) {
	m := Assemble(nil, 1e-9)
	if m == nil {
		t.Fatal("nil mesh from empty soup")
	}
	if !m.IsEmpty() || m.VertexCount() != 0 {
		t.Errorf("empty soup: %d vertices, %d faces", m.VertexCount(), m.FaceCount())
	}
}

func TestAssembleIdempotent(t *testing.T) {
	m1 := Assemble(boxSoup(2, 3, 4), 1e-9)
	m2 := Assemble(m1.ToSoup(), 1e-9)
	if !reflect.DeepEqual(m1.Vertices, m2.Vertices) {
		t.Error("vertices changed on reassembly")
	}
	if !reflect.DeepEqual(m1.Faces, m2.Faces) {
		t.Error("faces changed on reassembly")
	}
}

func TestAssembleNormals(t *testing.T) {
	m := Assemble(boxSoup(1, 1, 1), 1e-9)
	if len(m.Normals) != m.VertexCount() {
		t.Fatalf("normal count = %d, want %d", len(m.Normals), m.VertexCount())
	}
	center := vec(0.5, 0.5, 0.5)
	for i, n := range m.Normals {
		if l := n.Length(); math.Abs(l-1) > 1e-9 {
			t.Errorf("normal %d has length %v", i, l)
		}
		// Box corner normals point away from the center.
		if n.Dot(m.Vertices[i].Sub(center)) <= 0 {
			t.Errorf("normal %d = %v points inward at %v", i, n, m.Vertices[i])
		}
	}
}

func TestTriangleNormal(t *testing.T) {
	tri := Triangle{vec(0, 0, 0), vec(2, 0, 0), vec(0, 2, 0)}
	n := tri.Normal()
	if n != vec(0, 0, 4) {
		t.Errorf("normal = %v, want (0,0,4)", n)
	}
}

func TestToSoupRoundTrip(t *testing.T) {
	soup := boxSoup(1, 2, 3)
	m := Assemble(soup, 1e-9)
	back := m.ToSoup()
	if len(back) != len(soup) {
		t.Fatalf("soup has %d triangles, want %d", len(back), len(soup))
	}
	for i := range soup {
		if back[i] != soup[i] {
			t.Errorf("triangle %d = %v, want %v", i, back[i], soup[i])
		}
	}
}

func TestAssembleDefaultEpsilon(t *testing.T) {
	// Non-positive tolerance falls back to the default.
	m := Assemble(boxSoup(1, 1, 1), 0)
	if m.VertexCount() != 8 {
		t.Errorf("vertex count = %d, want 8", m.VertexCount())
	}
}
