// Package field defines scalar fields: pure mathematical functions
// f(x, y, z) -> R whose iso-surfaces describe 3D geometry. The package
// ships the two canonical TPMS fields (Gyroid, Schwarz P) and adapters
// for arbitrary signed-distance functions.
package field

import "math"

// Field is a scalar field over 3D space. Evaluate must be a pure
// function of its arguments: no side effects, no internal state.
// Implementations should return a finite value everywhere they are
// sampled; the extractor treats non-finite samples as outside the
// surface.
type Field interface {
	Evaluate(x, y, z float64) float64
}

// EvaluateBatch evaluates f elementwise over equal-length coordinate
// slices and returns a slice of the same length. It panics if the
// slices differ in length, matching the contract of the scalar form.
func EvaluateBatch(f Field, xs, ys, zs []float64) []float64 {
	if len(ys) != len(xs) || len(zs) != len(xs) {
		panic("field: EvaluateBatch coordinate slices differ in length")
	}
	out := make([]float64, len(xs))
	for i := range xs {
		out[i] = f.Evaluate(xs[i], ys[i], zs[i])
	}
	return out
}

// Offset is a per-axis translation applied to field coordinates.
type Offset struct {
	X, Y, Z float64
}

// Gyroid is the gyroid triply periodic minimal surface:
//
//	f(x, y, z) = sin(x)cos(y) + sin(y)cos(z) + sin(z)cos(x)
//
// The iso-surface at f = 0 is the gyroid. Coordinates are transformed
// as p*Scale + Offset before the formula is applied. When Thickness > 0
// the field becomes |f| - Thickness, turning the zero-thickness surface
// into a shelled solid whose wall half-thickness is Thickness (in field
// units, before any outer scale factor).
type Gyroid struct {
	Scale     float64
	Offset    Offset
	Thickness float64
}

// NewGyroid returns a gyroid field with the given coordinate scale and
// shell thickness. Thickness 0 leaves the field as a plain surface.
func NewGyroid(scale, thickness float64) *Gyroid {
	return &Gyroid{Scale: scale, Thickness: thickness}
}

// Evaluate implements Field.
func (g *Gyroid) Evaluate(x, y, z float64) float64 {
	x = x*g.Scale + g.Offset.X
	y = y*g.Scale + g.Offset.Y
	z = z*g.Scale + g.Offset.Z
	v := math.Sin(x)*math.Cos(y) + math.Sin(y)*math.Cos(z) + math.Sin(z)*math.Cos(x)
	return shell(v, g.Thickness)
}

// SchwarzP is the Schwarz P (primitive) triply periodic minimal
// surface:
//
//	f(x, y, z) = cos(x) + cos(y) + cos(z)
//
// Scale, Offset and Thickness behave exactly as on Gyroid.
type SchwarzP struct {
	Scale     float64
	Offset    Offset
	Thickness float64
}

// NewSchwarzP returns a Schwarz P field with the given coordinate scale
// and shell thickness.
func NewSchwarzP(scale, thickness float64) *SchwarzP {
	return &SchwarzP{Scale: scale, Thickness: thickness}
}

// Evaluate implements Field.
func (s *SchwarzP) Evaluate(x, y, z float64) float64 {
	x = x*s.Scale + s.Offset.X
	y = y*s.Scale + s.Offset.Y
	z = z*s.Scale + s.Offset.Z
	v := math.Cos(x) + math.Cos(y) + math.Cos(z)
	return shell(v, s.Thickness)
}

// shell converts a surface field into a shelled solid: points within
// thickness of the surface evaluate negative. Thickness <= 0 is a
// no-op.
func shell(v, thickness float64) float64 {
	if thickness > 0 {
		return math.Abs(v) - thickness
	}
	return v
}

// Constant is a field with the same value everywhere. Its iso-surface
// is empty for every iso-value other than the constant itself.
type Constant float64

// Evaluate implements Field.
func (c Constant) Evaluate(x, y, z float64) float64 { return float64(c) }

// Func adapts a plain function to the Field interface, for custom
// user-defined fields.
type Func func(x, y, z float64) float64

// Evaluate implements Field.
func (f Func) Evaluate(x, y, z float64) float64 { return f(x, y, z) }

// Transform decorates a Field with the standard affine coordinate
// transform p*Scale + Offset. The TPMS fields carry their own
// transform; Transform exists so custom fields get the same behavior
// without reimplementing it.
type Transform struct {
	Field  Field
	Scale  float64
	Offset Offset
}

// Evaluate implements Field.
func (t *Transform) Evaluate(x, y, z float64) float64 {
	return t.Field.Evaluate(
		x*t.Scale+t.Offset.X,
		y*t.Scale+t.Offset.Y,
		z*t.Scale+t.Offset.Z,
	)
}
