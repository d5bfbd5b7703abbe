package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Jaimeestela/physicode/pkg/field"
	"github.com/Jaimeestela/physicode/pkg/generate"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms PhysiCode script source before passing it
// to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals,
//     which would conflict with user-defined variables of the same
//     name.
//
//  2. Kebab-case to underscore: schwarz-p -> schwarz_p, iso-value ->
//     iso_value. zygomys does not allow hyphens in identifiers (it
//     interprets them as the subtraction operator).
//
// Both transformations respect string literal boundaries and line
// comments; traditional Lisp ; comments are rewritten to zygomys //
// comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := strings.ReplaceAll(string(b[i+1:j]), "-", "_")
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when the hyphen sits between identifier characters (not
		// a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpField wraps a field.Field so it can be returned from field
// constructors and consumed by `job`.
type sexpField struct {
	f    field.Field
	name string
}

func (s *sexpField) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(field %s)", s.name)
}
func (s *sexpField) Type() *zygo.RegisteredType { return nil }

// sexpBounds wraps a sampling box.
type sexpBounds struct {
	bb sdf.Box3
}

func (s *sexpBounds) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(bounds %g %g %g %g %g %g)",
		s.bb.Min.X, s.bb.Max.X, s.bb.Min.Y, s.bb.Max.Y, s.bb.Min.Z, s.bb.Max.Z)
}
func (s *sexpBounds) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string, returning the
// keyword name (without prefix) when it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword
// argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// float extracts an optional float64 keyword argument into dst.
func (a kwArgs) float(name string, dst *float64) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = f
	return nil
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toField extracts a field.Field from a sexpField.
func toField(s zygo.Sexp) (*sexpField, error) {
	if f, ok := s.(*sexpField); ok {
		return f, nil
	}
	return nil, fmt.Errorf("expected field, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the PhysiCode DSL builtins into a zygomys
// environment. Field constructors and `bounds` build values; `job`
// appends to the jobs slice collected during evaluation.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, jobs *[]Job) {

	// -----------------------------------------------------------------------
	// (gyroid :scale 10 :thickness 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("gyroid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		scale, thickness := 1.0, 0.0
		if err := pa.float("scale", &scale); err != nil {
			return zygo.SexpNull, fmt.Errorf("gyroid: %w", err)
		}
		if err := pa.float("thickness", &thickness); err != nil {
			return zygo.SexpNull, fmt.Errorf("gyroid: %w", err)
		}
		return &sexpField{f: field.NewGyroid(scale, thickness), name: "gyroid"}, nil
	})

	// -----------------------------------------------------------------------
	// (schwarz-p :scale 8 :thickness 0.3)
	// -----------------------------------------------------------------------
	env.AddFunction("schwarz_p", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		scale, thickness := 1.0, 0.0
		if err := pa.float("scale", &scale); err != nil {
			return zygo.SexpNull, fmt.Errorf("schwarz-p: %w", err)
		}
		if err := pa.float("thickness", &thickness); err != nil {
			return zygo.SexpNull, fmt.Errorf("schwarz-p: %w", err)
		}
		return &sexpField{f: field.NewSchwarzP(scale, thickness), name: "schwarz-p"}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere :radius 3)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		radius := 1.0
		if err := pa.float("radius", &radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		f, err := field.Sphere(radius)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		return &sexpField{f: f, name: "sphere"}, nil
	})

	// -----------------------------------------------------------------------
	// (constant 5.0)
	// -----------------------------------------------------------------------
	env.AddFunction("constant", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("constant: expected one value")
		}
		v, err := toFloat64(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("constant: %w", err)
		}
		return &sexpField{f: field.Constant(v), name: "constant"}, nil
	})

	// -----------------------------------------------------------------------
	// (bounds xmin xmax ymin ymax zmin zmax)
	// -----------------------------------------------------------------------
	env.AddFunction("bounds", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 6 {
			return zygo.SexpNull, fmt.Errorf("bounds: expected 6 values, got %d", len(pa.positional))
		}
		var v [6]float64
		for i, s := range pa.positional {
			f, err := toFloat64(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bounds: %w", err)
			}
			v[i] = f
		}
		return &sexpBounds{bb: sdf.Box3{
			Min: v3.Vec{X: v[0], Y: v[2], Z: v[4]},
			Max: v3.Vec{X: v[1], Y: v[3], Z: v[5]},
		}}, nil
	})

	// -----------------------------------------------------------------------
	// (job (gyroid :scale 10) :name "lattice" :resolution 50 :iso-value 0.0
	//      :bounds (bounds -5 5 -5 5 -5 5) :output "lattice.stl"
	//      :density 1.24 :wall-thickness 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("job", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("job: expected a field argument")
		}
		sf, err := toField(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("job: %w", err)
		}

		j := Job{
			Name:  sf.name,
			Field: sf.f,
			Options: generate.Options{
				Resolution: generate.DefaultResolution,
				Bounds:     generate.DefaultBounds,
			},
		}

		if v, ok := pa.kw["name"]; ok {
			if j.Name, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("job: name: %w", err)
			}
		}
		if v, ok := pa.kw["resolution"]; ok {
			if j.Options.Resolution, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("job: resolution: %w", err)
			}
		}
		if err := pa.float("iso_value", &j.Options.IsoValue); err != nil {
			return zygo.SexpNull, fmt.Errorf("job: %w", err)
		}
		if v, ok := pa.kw["bounds"]; ok {
			b, ok := v.(*sexpBounds)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("job: bounds: expected bounds, got %T", v)
			}
			j.Options.Bounds = b.bb
		}
		if v, ok := pa.kw["output"]; ok {
			if j.Output, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("job: output: %w", err)
			}
		}
		if err := pa.float("density", &j.Density); err != nil {
			return zygo.SexpNull, fmt.Errorf("job: %w", err)
		}
		if err := pa.float("wall_thickness", &j.WallThickness); err != nil {
			return zygo.SexpNull, fmt.Errorf("job: %w", err)
		}

		// Job options are validated here so script errors surface with
		// script context rather than deep in the pipeline.
		if err := j.Options.Validate(); err != nil {
			return zygo.SexpNull, fmt.Errorf("job %q: %w", j.Name, err)
		}

		*jobs = append(*jobs, j)
		return zygo.SexpNull, nil
	})
}
