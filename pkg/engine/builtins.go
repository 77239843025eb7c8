package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/topoview/pkg/kernel"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing geometry through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVertex is an index into the script's shared vertex pool.
type sexpVertex struct {
	index uint32
	point [3]float32
}

func (v *sexpVertex) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vertex %g %g %g)", v.point[0], v.point[1], v.point[2])
}
func (v *sexpVertex) Type() *zygo.RegisteredType { return nil }

// sexpTris is a run of triangles over the vertex pool, three indices each.
type sexpTris struct {
	indices []uint32
}

func (t *sexpTris) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(tri %v)", t.indices)
}
func (t *sexpTris) Type() *zygo.RegisteredType { return nil }

// sexpShape is a kernel solid, tessellated when a solid form or the end of
// the script consumes it.
type sexpShape struct {
	solid kernel.Solid
	desc  string
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string { return s.desc }
func (s *sexpShape) Type() *zygo.RegisteredType           { return nil }

// sexpSolid is a named group of triangles that becomes one topology solid.
type sexpSolid struct {
	name    string
	indices []uint32
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(solid :name %q ; %d triangles)", s.name, len(s.indices)/3)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", describe(s))
}

// toFloats extracts exactly n numbers.
func toFloats(args []zygo.Sexp, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("requires exactly %d numbers, got %d arguments", n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// toShape extracts a kernel solid.
func toShape(s zygo.Sexp) (*sexpShape, error) {
	if sh, ok := s.(*sexpShape); ok {
		return sh, nil
	}
	return nil, fmt.Errorf("expected box, cylinder or boolean shape, got %s", describe(s))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, bool) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		items, err := zygo.ListToArray(v)
		return items, err == nil
	case *zygo.SexpArray:
		return v.Val, true
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, true
		}
	}
	return nil, false
}

func describe(s zygo.Sexp) string {
	if s == nil {
		return "nil"
	}
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Build state
// ---------------------------------------------------------------------------

// buildState accumulates the geometry of one evaluation. Every geometry
// value a builtin returns is recorded in creation order; values passed to
// solid or to a shape operation are consumed. What is left unconsumed when
// the script ends is emitted: each solid as its own range, everything else
// as one trailing unnamed range.
type buildState struct {
	kernel   kernel.Kernel
	pool     *kernel.Mesh
	created  []zygo.Sexp
	consumed map[zygo.Sexp]bool
}

func newBuildState(k kernel.Kernel) *buildState {
	return &buildState{
		kernel:   k,
		pool:     &kernel.Mesh{},
		consumed: make(map[zygo.Sexp]bool),
	}
}

func (st *buildState) record(s zygo.Sexp) zygo.Sexp {
	st.created = append(st.created, s)
	return s
}

// tessellate meshes a shape into the vertex pool and returns its indices.
func (st *buildState) tessellate(sh *sexpShape) ([]uint32, error) {
	m, err := st.kernel.ToMesh(sh.solid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sh.desc, err)
	}
	offset := uint32(st.pool.VertexCount())
	st.pool.Vertices = append(st.pool.Vertices, m.Vertices...)
	out := make([]uint32, len(m.Indices))
	for i, idx := range m.Indices {
		out[i] = idx + offset
	}
	return out, nil
}

// indices flattens s into pool indices, consuming every geometry value it
// reaches. Lists are walked recursively.
func (st *buildState) indices(s zygo.Sexp) ([]uint32, error) {
	switch v := s.(type) {
	case *sexpTris:
		st.consumed[v] = true
		return v.indices, nil
	case *sexpSolid:
		st.consumed[v] = true
		return v.indices, nil
	case *sexpShape:
		st.consumed[v] = true
		return st.tessellate(v)
	}
	items, ok := sexpListToSlice(s)
	if !ok {
		return nil, fmt.Errorf("expected triangles, shapes or solids, got %s", describe(s))
	}
	var out []uint32
	for _, item := range items {
		idx, err := st.indices(item)
		if err != nil {
			return nil, err
		}
		out = append(out, idx...)
	}
	return out, nil
}

// vertexIndex resolves a tri corner: a vertex value or a pool index.
func (st *buildState) vertexIndex(s zygo.Sexp) (uint32, error) {
	switch v := s.(type) {
	case *sexpVertex:
		return v.index, nil
	case *zygo.SexpInt:
		if v.Val < 0 || v.Val >= int64(st.pool.VertexCount()) {
			return 0, fmt.Errorf("vertex index %d out of range [0,%d)", v.Val, st.pool.VertexCount())
		}
		return uint32(v.Val), nil
	}
	return 0, fmt.Errorf("expected vertex or index, got %s", describe(s))
}

// result assembles the final mesh from unconsumed geometry.
func (st *buildState) result() (*kernel.Mesh, error) {
	out := &kernel.Mesh{}
	var loose []uint32
	for _, s := range st.created {
		if st.consumed[s] {
			continue
		}
		if sol, ok := s.(*sexpSolid); ok {
			begin := len(out.Indices)
			out.Indices = append(out.Indices, sol.indices...)
			out.Solids = append(out.Solids, kernel.SolidRange{Begin: begin, End: len(out.Indices), Name: sol.name})
			continue
		}
		idx, err := st.indices(s)
		if err != nil {
			return nil, err
		}
		loose = append(loose, idx...)
	}
	if len(loose) > 0 && len(out.Solids) > 0 {
		begin := len(out.Indices)
		out.Indices = append(out.Indices, loose...)
		out.Solids = append(out.Solids, kernel.SolidRange{Begin: begin, End: len(out.Indices)})
	} else {
		out.Indices = append(out.Indices, loose...)
	}
	out.Vertices = st.pool.Vertices
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the mesh builtins into a zygomys environment.
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, st *buildState) {

	// (vertex x y z)
	env.AddFunction("vertex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		p, err := toFloats(args, 3)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vertex: %w", err)
		}
		v := &sexpVertex{point: [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}}
		v.index = st.pool.AddVertex(v.point[0], v.point[1], v.point[2])
		return v, nil
	})

	// (tri a b c) with vertices or pool indices.
	env.AddFunction("tri", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("tri requires exactly 3 vertices, got %d", len(args))
		}
		t := &sexpTris{indices: make([]uint32, 3)}
		for i, a := range args {
			idx, err := st.vertexIndex(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tri: corner %d: %w", i+1, err)
			}
			t.indices[i] = idx
		}
		return st.record(t), nil
	})

	// (solid :name "body" (tri ...) (box ...) (list ...) ...)
	env.AddFunction("solid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		s := &sexpSolid{}
		if v, ok := pa.kw["name"]; ok {
			n, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("solid: name: %w", err)
			}
			s.name = n
		}
		for i, a := range pa.positional {
			idx, err := st.indices(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("solid: part %d: %w", i+1, err)
			}
			s.indices = append(s.indices, idx...)
		}
		return st.record(s), nil
	})

	// (box x y z) centered on the origin.
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		d, err := toFloats(args, 3)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		if d[0] <= 0 || d[1] <= 0 || d[2] <= 0 {
			return zygo.SexpNull, fmt.Errorf("box: dimensions must be positive, got %v", d)
		}
		if st.kernel == nil {
			return zygo.SexpNull, fmt.Errorf("box: no geometry kernel")
		}
		return st.record(&sexpShape{
			solid: st.kernel.Box(d[0], d[1], d[2]),
			desc:  fmt.Sprintf("(box %g %g %g)", d[0], d[1], d[2]),
		}), nil
	})

	// (cylinder height radius) along Z, centered on the origin.
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		d, err := toFloats(args, 2)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if d[0] <= 0 || d[1] <= 0 {
			return zygo.SexpNull, fmt.Errorf("cylinder: height and radius must be positive, got %v", d)
		}
		if st.kernel == nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: no geometry kernel")
		}
		return st.record(&sexpShape{
			solid: st.kernel.Cylinder(d[0], d[1], 0),
			desc:  fmt.Sprintf("(cylinder %g %g)", d[0], d[1]),
		}), nil
	})

	// (union a b), (difference a b), (intersection a b)
	booleans := map[string]func(a, b kernel.Solid) kernel.Solid{}
	if st.kernel != nil {
		booleans["union"] = st.kernel.Union
		booleans["difference"] = st.kernel.Difference
		booleans["intersection"] = st.kernel.Intersection
	}
	for _, op := range []string{"union", "difference", "intersection"} {
		env.AddFunction(op, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 shapes, got %d", op, len(args))
			}
			a, err := toShape(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			b, err := toShape(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			st.consumed[a], st.consumed[b] = true, true
			return st.record(&sexpShape{
				solid: booleans[op](a.solid, b.solid),
				desc:  fmt.Sprintf("(%s %s %s)", op, a.desc, b.desc),
			}), nil
		})
	}

	// (translate shape x y z), (rotate shape x y z) with angles in degrees.
	transforms := map[string]func(s kernel.Solid, x, y, z float64) kernel.Solid{}
	if st.kernel != nil {
		transforms["translate"] = st.kernel.Translate
		transforms["rotate"] = st.kernel.Rotate
	}
	for _, op := range []string{"translate", "rotate"} {
		env.AddFunction(op, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 4 {
				return zygo.SexpNull, fmt.Errorf("%s requires a shape and 3 numbers, got %d arguments", op, len(args))
			}
			sh, err := toShape(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			v, err := toFloats(args[1:], 3)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			st.consumed[sh] = true
			return st.record(&sexpShape{
				solid: transforms[op](sh.solid, v[0], v[1], v[2]),
				desc:  fmt.Sprintf("(%s %s %g %g %g)", op, sh.desc, v[0], v[1], v[2]),
			}), nil
		})
	}
}
