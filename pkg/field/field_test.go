package field

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSchwarzPOrigin(t *testing.T) {
	f := NewSchwarzP(1.0, 0)
	got := f.Evaluate(0, 0, 0)
	if got != 3.0 {
		t.Errorf("SchwarzP(0,0,0) = %v, want 3.0", got)
	}
}

func TestGyroidOrigin(t *testing.T) {
	f := NewGyroid(1.0, 0)
	got := f.Evaluate(0, 0, 0)
	if !almostEqual(got, 0, 1e-10) {
		t.Errorf("Gyroid(0,0,0) = %v, want 0", got)
	}
}

func TestTPMSScale(t *testing.T) {
	// Doubling the scale halves the spatial period: f(p) at scale 2
	// equals f(2p) at scale 1.
	s1 := NewGyroid(1.0, 0)
	s2 := NewGyroid(2.0, 0)
	pts := [][3]float64{{0.3, -1.2, 0.7}, {1, 1, 1}, {-2.5, 0.1, 3.3}}
	for _, p := range pts {
		want := s1.Evaluate(2*p[0], 2*p[1], 2*p[2])
		got := s2.Evaluate(p[0], p[1], p[2])
		if !almostEqual(got, want, 1e-12) {
			t.Errorf("scale 2 at %v = %v, want %v", p, got, want)
		}
	}
}

func TestThicknessShell(t *testing.T) {
	tests := []struct {
		name string
		f    Field
		want float64
	}{
		{"schwarz-p solid origin", NewSchwarzP(1, 0), 3.0},
		{"schwarz-p shell origin", NewSchwarzP(1, 0.5), 2.5},
		{"gyroid shell origin", NewGyroid(1, 0.5), -0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.f.Evaluate(0, 0, 0)
			if !almostEqual(got, tc.want, 1e-10) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestShellNegativeNearSurface(t *testing.T) {
	// Points on the solid surface must be strictly inside the shelled
	// version.
	solid := NewGyroid(1, 0)
	shelled := NewGyroid(1, 0.3)
	// All three terms are sin(pi/2)cos(pi/2) ~ 0 here.
	p := [3]float64{math.Pi / 2, math.Pi / 2, math.Pi / 2}
	v := solid.Evaluate(p[0], p[1], p[2])
	if math.Abs(v) > 0.3 {
		t.Fatalf("test point not near surface: f = %v", v)
	}
	if got := shelled.Evaluate(p[0], p[1], p[2]); got >= 0 {
		t.Errorf("shelled field at surface point = %v, want < 0", got)
	}
}

func TestOffset(t *testing.T) {
	base := NewSchwarzP(1, 0)
	shifted := &SchwarzP{Scale: 1, Offset: Offset{X: math.Pi}}
	// cos(x+pi) = -cos(x), so the shifted field at the origin is
	// -1 + 1 + 1 = 1.
	got := shifted.Evaluate(0, 0, 0)
	if !almostEqual(got, 1.0, 1e-12) {
		t.Errorf("shifted SchwarzP(0,0,0) = %v, want 1.0", got)
	}
	if base.Evaluate(0, 0, 0) == got {
		t.Error("offset had no effect")
	}
}

func TestTransform(t *testing.T) {
	sum := Func(func(x, y, z float64) float64 { return x + y + z })
	tr := &Transform{Field: sum, Scale: 2, Offset: Offset{X: 1}}
	got := tr.Evaluate(1, 1, 1)
	if got != 7 {
		t.Errorf("Transform.Evaluate(1,1,1) = %v, want 7", got)
	}
}

func TestConstant(t *testing.T) {
	c := Constant(5)
	for _, p := range [][3]float64{{0, 0, 0}, {100, -3, 0.5}} {
		if got := c.Evaluate(p[0], p[1], p[2]); got != 5 {
			t.Errorf("Constant(5) at %v = %v", p, got)
		}
	}
}

func TestEvaluateBatch(t *testing.T) {
	f := NewSchwarzP(1, 0)
	xs := []float64{0, math.Pi, 0}
	ys := []float64{0, 0, math.Pi}
	zs := []float64{0, 0, 0}
	got := EvaluateBatch(f, xs, ys, zs)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i := range xs {
		want := f.Evaluate(xs[i], ys[i], zs[i])
		if got[i] != want {
			t.Errorf("batch[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestEvaluateBatchLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on mismatched slice lengths")
		}
	}()
	EvaluateBatch(Constant(0), []float64{1, 2}, []float64{1}, []float64{1, 2})
}

func TestSphereSDF(t *testing.T) {
	f, err := Sphere(3)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		p    [3]float64
		want float64
	}{
		{"center", [3]float64{0, 0, 0}, -3},
		{"surface", [3]float64{3, 0, 0}, 0},
		{"outside", [3]float64{0, 4, 0}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := f.Evaluate(tc.p[0], tc.p[1], tc.p[2])
			if !almostEqual(got, tc.want, 1e-9) {
				t.Errorf("sphere at %v = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestSphereInvalidRadius(t *testing.T) {
	if _, err := Sphere(-1); err == nil {
		t.Error("expected error for negative radius")
	}
}
