package engine

import (
	"strings"
	"testing"

	"github.com/Jaimeestela/physicode/pkg/generate"
)

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"keyword", "(gyroid :scale 2)", `(gyroid "__kw_scale" 2)`},
		{"kebab keyword", ":iso-value 0.5", `"__kw_iso_value" 0.5`},
		{"kebab identifier", "(schwarz-p)", "(schwarz_p)"},
		{"subtraction untouched", "(- 5 3)", "(- 5 3)"},
		{"numeric minus untouched", "(+ x-1 2)", "(+ x-1 2)"},
		{"assignment untouched", "x := 5", "x := 5"},
		{"lisp comment", "; a note", "// a note"},
		{"string untouched", `(job f :name "a-b :c")`, `(job f "__kw_name" "a-b :c")`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := preprocessSource(tc.in); got != tc.want {
				t.Errorf("preprocess(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestEvaluateEmptySource(t *testing.T) {
	eng := NewEngine()
	for _, src := range []string{"", "   \n\t  "} {
		jobs, evalErrs, err := eng.Evaluate(src)
		if err != nil {
			t.Fatalf("source %q: %v", src, err)
		}
		if len(jobs) != 0 || len(evalErrs) != 0 {
			t.Errorf("source %q: %d jobs, %d errors", src, len(jobs), len(evalErrs))
		}
	}
}

func TestEvaluateScript(t *testing.T) {
	src := `
; two lattice variants
(job (schwarz-p :scale 1.0 :thickness 0.5)
     :name "panel"
     :resolution 32
     :iso-value 0.25
     :bounds (bounds -5 5 -5 5 -5 5)
     :output "panel.stl"
     :density 1.24
     :wall-thickness 0.5)
(job (gyroid :scale 2.0) :name "lattice")
`
	eng := NewEngine()
	jobs, evalErrs, err := eng.Evaluate(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(evalErrs) != 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}

	panel := jobs[0]
	if panel.Name != "panel" {
		t.Errorf("name = %q", panel.Name)
	}
	if panel.Options.Resolution != 32 {
		t.Errorf("resolution = %d", panel.Options.Resolution)
	}
	if panel.Options.IsoValue != 0.25 {
		t.Errorf("iso value = %v", panel.Options.IsoValue)
	}
	if panel.Output != "panel.stl" {
		t.Errorf("output = %q", panel.Output)
	}
	if panel.Density != 1.24 || panel.WallThickness != 0.5 {
		t.Errorf("material = %v g/cm³, %v mm", panel.Density, panel.WallThickness)
	}
	if panel.Options.Bounds.Min.X != -5 || panel.Options.Bounds.Max.Z != 5 {
		t.Errorf("bounds = %+v", panel.Options.Bounds)
	}
	// Schwarz P with thickness 0.5 evaluates to 2.5 at the origin.
	if got := panel.Field.Evaluate(0, 0, 0); got != 2.5 {
		t.Errorf("panel field at origin = %v, want 2.5", got)
	}

	lattice := jobs[1]
	if lattice.Name != "lattice" {
		t.Errorf("name = %q", lattice.Name)
	}
	// Defaults apply when the script stays silent.
	if lattice.Options.Resolution != generate.DefaultResolution {
		t.Errorf("resolution = %d, want default", lattice.Options.Resolution)
	}
	if lattice.Options.Bounds != generate.DefaultBounds {
		t.Errorf("bounds = %+v, want default", lattice.Options.Bounds)
	}
	if lattice.Output != "" || lattice.Density != 0 {
		t.Error("unset job fields should stay zero")
	}
}

func TestEvaluateDefaultJobName(t *testing.T) {
	eng := NewEngine()
	jobs, evalErrs, err := eng.Evaluate(`(job (gyroid))`)
	if err != nil || len(evalErrs) != 0 {
		t.Fatalf("err=%v evalErrs=%v", err, evalErrs)
	}
	if len(jobs) != 1 || jobs[0].Name != "gyroid" {
		t.Fatalf("jobs = %+v", jobs)
	}
}

func TestEvaluateParseError(t *testing.T) {
	eng := NewEngine()
	jobs, evalErrs, err := eng.Evaluate(`(job (gyroid`)
	if err != nil {
		t.Fatalf("parse failure should be an eval error, got %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("got %d jobs from broken source", len(jobs))
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
}

func TestEvaluateRuntimeError(t *testing.T) {
	eng := NewEngine()
	jobs, evalErrs, err := eng.Evaluate(`(job 42)`)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 0 {
		t.Errorf("got %d jobs", len(jobs))
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
	if !strings.Contains(evalErrs[0].Message, "field") {
		t.Errorf("message = %q, want mention of the bad field argument", evalErrs[0].Message)
	}
}

func TestEvaluateInvalidJobOptions(t *testing.T) {
	eng := NewEngine()
	jobs, evalErrs, err := eng.Evaluate(`(job (gyroid) :resolution 1)`)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 0 {
		t.Error("invalid job options should not produce a job")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors for resolution below 2")
	}
}

func TestEvaluateIsolation(t *testing.T) {
	// State set in one evaluation must not leak into the next.
	eng := NewEngine()
	if _, _, err := eng.Evaluate(`(defn lensRadius [] 3)`); err != nil {
		t.Fatal(err)
	}
	_, evalErrs, err := eng.Evaluate(`(job (sphere :radius (lensRadius)))`)
	if err != nil {
		t.Fatal(err)
	}
	if len(evalErrs) == 0 {
		t.Error("expected undefined-symbol error in a fresh environment")
	}
}

func TestEvalErrorString(t *testing.T) {
	e := EvalError{Line: 3, Message: "boom"}
	if got := e.Error(); got != "line 3: boom" {
		t.Errorf("Error() = %q", got)
	}
	e = EvalError{Message: "boom"}
	if got := e.Error(); got != "boom" {
		t.Errorf("Error() = %q", got)
	}
}
