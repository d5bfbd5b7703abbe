package field

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// sdfField adapts an sdf.SDF3 to the Field interface. Signed-distance
// conventions line up with the extractor's: negative inside, positive
// outside, surface at iso-value 0.
type sdfField struct {
	s sdf.SDF3
}

// FromSDF3 wraps any sdfx solid as a Field. The solid's distance
// function is evaluated directly; no transform is applied.
func FromSDF3(s sdf.SDF3) Field {
	return &sdfField{s: s}
}

// Evaluate implements Field.
func (f *sdfField) Evaluate(x, y, z float64) float64 {
	return f.s.Evaluate(v3.Vec{X: x, Y: y, Z: z})
}

// Sphere returns the signed-distance field of an origin-centered sphere
// with the given radius: f = |p| - radius.
func Sphere(radius float64) (Field, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("field: sphere: %w", err)
	}
	return FromSDF3(s), nil
}

// fieldSDF exposes a Field as an sdf.SDF3 so our fields can feed sdfx
// tooling (renderers, CSG operations). The bounding box must be
// supplied by the caller since a general field has no natural extent.
type fieldSDF struct {
	f  Field
	bb sdf.Box3
}

// AsSDF3 wraps a Field as an sdfx solid over the given bounding box.
func AsSDF3(f Field, bounds sdf.Box3) sdf.SDF3 {
	return &fieldSDF{f: f, bb: bounds}
}

// Evaluate implements sdf.SDF3.
func (s *fieldSDF) Evaluate(p v3.Vec) float64 {
	return s.f.Evaluate(p.X, p.Y, p.Z)
}

// BoundingBox implements sdf.SDF3.
func (s *fieldSDF) BoundingBox() sdf.Box3 {
	return s.bb
}
