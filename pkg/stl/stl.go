// Package stl reads and writes triangle meshes in the STL file format,
// binary and ASCII. A zero-face mesh round-trips as a valid file with
// zero triangles.
package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Jaimeestela/physicode/pkg/mesh"
)

// defaultHeader fills the 80-byte binary header.
const defaultHeader = "physicode binary STL"

// binaryTriangle is the 50-byte on-disk layout of one facet.
type binaryTriangle struct {
	Normal [3]float32
	Verts  [3][3]float32
	Attr   uint16
}

// Write encodes the mesh as binary STL: an 80-byte header, a uint32
// triangle count, then 50 bytes per facet, all little-endian. Facet
// normals are recomputed from the winding; STL carries no shared
// vertices, so the mesh is expanded to a soup.
func Write(w io.Writer, m *mesh.Mesh) error {
	var header [80]byte
	copy(header[:], defaultHeader)
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("stl: header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(m.FaceCount())); err != nil {
		return fmt.Errorf("stl: count: %w", err)
	}

	bw := bufio.NewWriter(w)
	for _, tri := range m.ToSoup() {
		bt := binaryTriangle{
			Normal: f32(unitNormal(tri)),
			Verts:  [3][3]float32{f32(tri[0]), f32(tri[1]), f32(tri[2])},
		}
		if err := binary.Write(bw, binary.LittleEndian, &bt); err != nil {
			return fmt.Errorf("stl: facet: %w", err)
		}
	}
	return bw.Flush()
}

// WriteASCII encodes the mesh as ASCII STL under the given solid name.
func WriteASCII(w io.Writer, m *mesh.Mesh, name string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, tri := range m.ToSoup() {
		n := unitNormal(tri)
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", n.X, n.Y, n.Z)
		fmt.Fprintf(bw, "    outer loop\n")
		for _, p := range tri {
			fmt.Fprintf(bw, "      vertex %g %g %g\n", p.X, p.Y, p.Z)
		}
		fmt.Fprintf(bw, "    endloop\n")
		fmt.Fprintf(bw, "  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}

// Read decodes a binary STL stream into an indexed mesh, welding the
// per-facet vertices back together on exact float32 equality.
func Read(r io.Reader) (*mesh.Mesh, error) {
	var header [80]byte
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("stl: header: %w", err)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("stl: count: %w", err)
	}

	br := bufio.NewReader(r)
	soup := make([]mesh.Triangle, 0, count)
	for i := uint32(0); i < count; i++ {
		var bt binaryTriangle
		if err := binary.Read(br, binary.LittleEndian, &bt); err != nil {
			return nil, fmt.Errorf("stl: facet %d: %w", i, err)
		}
		soup = append(soup, mesh.Triangle{
			vec(bt.Verts[0]), vec(bt.Verts[1]), vec(bt.Verts[2]),
		})
	}
	return mesh.Assemble(soup, 0), nil
}

// WriteFile writes m to path as binary STL.
func WriteFile(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	if err := Write(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a binary STL file into a mesh.
func ReadFile(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}
	defer f.Close()
	return Read(f)
}

func unitNormal(t mesh.Triangle) v3.Vec {
	n := t.Normal()
	if l := n.Length(); l > 1e-12 {
		return n.DivScalar(l)
	}
	return v3.Vec{}
}

func f32(p v3.Vec) [3]float32 {
	return [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
}

func vec(p [3]float32) v3.Vec {
	return v3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}
