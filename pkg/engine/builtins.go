package engine

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/tezzeroth/voxcollide/pkg/scene"
	"github.com/tezzeroth/voxcollide/pkg/stl"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms collider script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: voxel-size -> voxel_size
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator).
//
// Both transformations respect string literal boundaries and line comments.
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
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				// Keyword names get the same kebab normalization as
				// identifiers so :voxel-size and voxel_size agree.
				for _, c := range b[i+1 : j] {
					if c == '-' {
						c = '_'
					}
					result = append(result, c)
				}
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus
		// operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
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

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.3f %.3f %.3f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpObjRef wraps a scene object name so builtins can pass objects around.
type sexpObjRef struct {
	name string
}

func (o *sexpObjRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(object %q)", o.name)
}
func (o *sexpObjRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string, returning the
// keyword name without the prefix.
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

// kwArgs holds the result of parsing a mixed positional+keyword argument
// list.
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

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toObjName accepts either an object reference or a plain object name.
func toObjName(s zygo.Sexp) (string, error) {
	switch v := s.(type) {
	case *sexpObjRef:
		return v.name, nil
	case *zygo.SexpStr:
		if !strings.HasPrefix(v.S, kwPrefix) {
			return v.S, nil
		}
	}
	return "", fmt.Errorf("expected object reference or name, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Anonymous object naming
// ---------------------------------------------------------------------------

var objCounter uint64

func nextObjName(prefix string) string {
	n := atomic.AddUint64(&objCounter, 1)
	return fmt.Sprintf("%s_%d", prefix, n)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the collider DSL builtins into a zygomys
// environment. The builtins populate the provided plan during evaluation.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable string
// literals.
func registerBuiltins(env *zygo.Zlisp, plan *Plan) {

	// -----------------------------------------------------------------------
	// (vec3 x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3: want 3 components, got %d", len(args))
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (mesh-box :name "cube" :size (vec3 1 1 1) :center (vec3 0 0 0))
	// Declares an axis-aligned box mesh object and selects it.
	// -----------------------------------------------------------------------
	env.AddFunction("mesh_box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		objName := nextObjName("mesh_box")
		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh-box: name: %w", err)
			}
			objName = s
		}
		size := v3.Vec{X: 1, Y: 1, Z: 1}
		if v, ok := pa.kw["size"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh-box: size: %w", err)
			}
			size = vec
		}
		var center v3.Vec
		if v, ok := pa.kw["center"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh-box: center: %w", err)
			}
			center = vec
		}

		plan.Scene.Add(scene.NewMeshObject(objName, scene.BoxMesh(center, size)))
		return &sexpObjRef{name: objName}, nil
	})

	// -----------------------------------------------------------------------
	// (load-stl "model.stl" :name "hull")
	// Loads a mesh object from an STL file and selects it.
	// -----------------------------------------------------------------------
	env.AddFunction("load_stl", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("load-stl: want a file path")
		}
		path, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-stl: path: %w", err)
		}

		objName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("load-stl: name: %w", err)
			}
			objName = s
		}

		tris, err := stl.Load(path)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-stl: %w", err)
		}
		plan.Scene.Add(scene.NewMeshObject(objName, tris))
		return &sexpObjRef{name: objName}, nil
	})

	// -----------------------------------------------------------------------
	// (translate obj (vec3 10 0 0)) / (scale obj (vec3 2 2 2))
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return applyTransform(plan, args, "translate", (*scene.Object).Translate)
	})
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return applyTransform(plan, args, "scale", (*scene.Object).Scale)
	})

	// -----------------------------------------------------------------------
	// (select obj) / (select "name")
	// -----------------------------------------------------------------------
	env.AddFunction("select", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("select: want one object")
		}
		objName, err := toObjName(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("select: %w", err)
		}
		if err := plan.Scene.Select(objName); err != nil {
			return zygo.SexpNull, fmt.Errorf("select: %w", err)
		}
		return &sexpObjRef{name: objName}, nil
	})

	// -----------------------------------------------------------------------
	// (config :voxel-size 0.5 :resolution 32
	//         :boxes true :spheres false :capsules false
	//         :merge false :workers 4)
	// -----------------------------------------------------------------------
	env.AddFunction("config", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		cfg := &plan.Config

		if v, ok := pa.kw["voxel_size"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("config: voxel-size: %w", err)
			}
			cfg.VoxelSize = f
		}
		if v, ok := pa.kw["resolution"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("config: resolution: %w", err)
			}
			cfg.Resolution = n
			// Asking for a resolution without an explicit size switches
			// the run to resolution-derived sizing; otherwise the default
			// voxel size would always win and the resolution would be
			// ignored.
			if _, ok := pa.kw["voxel_size"]; !ok {
				cfg.VoxelSize = 0
			}
		}
		if v, ok := pa.kw["workers"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("config: workers: %w", err)
			}
			cfg.Workers = n
		}
		for kw, dst := range map[string]*bool{
			"boxes":    &cfg.UseBoxes,
			"spheres":  &cfg.UseSpheres,
			"capsules": &cfg.UseCapsules,
			"merge":    &cfg.MergeOutput,
		} {
			if v, ok := pa.kw[kw]; ok {
				b, err := toBool(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("config: %s: %w", kw, err)
				}
				*dst = b
			}
		}
		return zygo.SexpNull, nil
	})
}

// applyTransform resolves the object argument and applies a transform
// mutation shared by the translate and scale builtins.
func applyTransform(plan *Plan, args []zygo.Sexp, what string, apply func(*scene.Object, v3.Vec)) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("%s: want object and vec3", what)
	}
	objName, err := toObjName(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", what, err)
	}
	vec, err := toVec3(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", what, err)
	}
	obj := plan.Scene.Lookup(objName)
	if obj == nil {
		return zygo.SexpNull, fmt.Errorf("%s: no object named %q", what, objName)
	}
	apply(obj, vec)
	return &sexpObjRef{name: objName}, nil
}
