package stl

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Jaimeestela/physicode/pkg/analysis"
	"github.com/Jaimeestela/physicode/pkg/mesh"
)

func tvec(x, y, z float64) v3.Vec { return v3.Vec{X: x, Y: y, Z: z} }

// boxMesh builds a closed 2x3x4 box with outward windings. All
// coordinates are exactly representable in float32 so the round trip is
// exact.
func boxMesh() *mesh.Mesh {
	a := tvec(0, 0, 0)
	b := tvec(2, 0, 0)
	c := tvec(2, 3, 0)
	d := tvec(0, 3, 0)
	e := tvec(0, 0, 4)
	f := tvec(2, 0, 4)
	g := tvec(2, 3, 4)
	h := tvec(0, 3, 4)
	soup := []mesh.Triangle{
		{a, d, c}, {a, c, b},
		{e, f, g}, {e, g, h},
		{a, b, f}, {a, f, e},
		{d, h, g}, {d, g, c},
		{a, e, h}, {a, h, d},
		{b, c, g}, {b, g, f},
	}
	return mesh.Assemble(soup, 1e-9)
}

func TestBinaryRoundTrip(t *testing.T) {
	m := boxMesh()

	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		t.Fatal(err)
	}

	// 80-byte header + 4-byte count + 12 facets of 50 bytes.
	if want := 84 + 12*50; buf.Len() != want {
		t.Errorf("encoded size = %d, want %d", buf.Len(), want)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.VertexCount() != 8 || got.FaceCount() != 12 {
		t.Fatalf("round trip: %d vertices, %d faces", got.VertexCount(), got.FaceCount())
	}

	r := analysis.Analyze(got)
	if !r.IsWatertight {
		t.Error("round-tripped mesh not watertight")
	}
	if math.Abs(r.Volume-24) > 1e-9 {
		t.Errorf("round-tripped volume = %v, want 24", r.Volume)
	}
}

func TestEmptyMeshRoundTrip(t *testing.T) {
	empty := mesh.Assemble(nil, 0)

	var buf bytes.Buffer
	if err := Write(&buf, empty); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 84 {
		t.Errorf("empty STL size = %d, want 84", buf.Len())
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsEmpty() {
		t.Errorf("empty round trip produced %d faces", got.FaceCount())
	}
}

func TestWriteASCII(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteASCII(&buf, boxMesh(), "box"); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	if !strings.HasPrefix(s, "solid box\n") {
		t.Error("missing solid header")
	}
	if !strings.Contains(s, "endsolid box") {
		t.Error("missing endsolid footer")
	}
	if got := strings.Count(s, "facet normal"); got != 12 {
		t.Errorf("%d facets, want 12", got)
	}
	if got := strings.Count(s, "vertex"); got != 36 {
		t.Errorf("%d vertex lines, want 36", got)
	}
}

func TestReadTruncated(t *testing.T) {
	m := boxMesh()
	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		t.Fatal(err)
	}
	truncated := buf.Bytes()[:buf.Len()-10]
	if _, err := Read(bytes.NewReader(truncated)); err == nil {
		t.Error("expected error reading truncated stream")
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.stl")
	if err := WriteFile(path, boxMesh()); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.FaceCount() != 12 {
		t.Errorf("face count = %d, want 12", got.FaceCount())
	}
}
