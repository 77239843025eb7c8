package topology

import "fmt"

// ValidationError describes one broken structural invariant.
type ValidationError struct {
	Code    string
	Message string
	Ref     Ref
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Ref)
}

// Validate checks the structural invariants of a built model. A model
// produced by Build always validates; the check exists for models that
// were edited or deserialized by hand, and as a debugging aid. It is
// read-only.
//
// Dangling or nil references are reported first; when any are found the
// remaining checks, which follow references, are skipped.
func Validate(m *Model) []ValidationError {
	if errs := validateRefs(m); len(errs) > 0 {
		return errs
	}
	var errs []ValidationError
	errs = append(errs, validateEdges(m)...)
	errs = append(errs, validatePartners(m)...)
	errs = append(errs, validateLoops(m)...)
	errs = append(errs, validateSolids(m)...)
	errs = append(errs, validateRegistry(m)...)
	return errs
}

// validateRefs checks that every arena slot is set and every cross
// reference indexes into its arena.
func validateRefs(m *Model) []ValidationError {
	var errs []ValidationError
	dangling := func(owner Ref, field string, target Type, id, n int) {
		if id < 0 || id >= n {
			errs = append(errs, ValidationError{
				Code:    "DANGLING_REF",
				Message: fmt.Sprintf("%s %s#%d outside [0,%d)", field, target, id, n),
				Ref:     owner,
			})
		}
	}
	missing := func(t Type, i int) {
		errs = append(errs, ValidationError{Code: "NIL_ENTITY", Message: "empty arena slot", Ref: Ref{t, i}})
	}
	nv, ne, nh := len(m.Vertices), len(m.Edges), len(m.HalfEdges)
	nl, nf, ns := len(m.Loops), len(m.Faces), len(m.Solids)

	for i, v := range m.Vertices {
		if v == nil {
			missing(TypeVertex, i)
		}
	}
	for i, e := range m.Edges {
		if e == nil {
			missing(TypeEdge, i)
			continue
		}
		ref := Ref{TypeEdge, i}
		dangling(ref, "start", TypeVertex, int(e.St), nv)
		dangling(ref, "end", TypeVertex, int(e.Ed), nv)
		for _, h := range e.HalfEdges {
			dangling(ref, "half-edge", TypeHalfEdge, int(h), nh)
		}
	}
	for i, h := range m.HalfEdges {
		if h == nil {
			missing(TypeHalfEdge, i)
			continue
		}
		ref := Ref{TypeHalfEdge, i}
		dangling(ref, "edge", TypeEdge, int(h.Edge), ne)
		dangling(ref, "loop", TypeLoop, int(h.Loop), nl)
		dangling(ref, "partner", TypeHalfEdge, int(h.Partner), nh)
		dangling(ref, "pre", TypeHalfEdge, int(h.Pre), nh)
		dangling(ref, "next", TypeHalfEdge, int(h.Next), nh)
	}
	for i, l := range m.Loops {
		if l == nil {
			missing(TypeLoop, i)
			continue
		}
		ref := Ref{TypeLoop, i}
		dangling(ref, "start", TypeHalfEdge, int(l.St), nh)
		dangling(ref, "face", TypeFace, int(l.Face), nf)
	}
	for i, f := range m.Faces {
		if f == nil {
			missing(TypeFace, i)
			continue
		}
		ref := Ref{TypeFace, i}
		dangling(ref, "loop", TypeLoop, int(f.Loop), nl)
		dangling(ref, "solid", TypeSolid, int(f.Solid), ns)
	}
	for i, so := range m.Solids {
		if so == nil {
			missing(TypeSolid, i)
			continue
		}
		for _, f := range so.Faces {
			dangling(Ref{TypeSolid, i}, "face", TypeFace, int(f), nf)
		}
	}
	return errs
}

func validateEdges(m *Model) []ValidationError {
	var errs []ValidationError
	seen := make(map[vertexPair]EdgeID)
	for _, e := range m.Edges {
		ref := Ref{TypeEdge, int(e.ID)}
		key := makePair(e.St, e.Ed)
		if prev, dup := seen[key]; dup {
			errs = append(errs, ValidationError{
				Code:    "DUPLICATE_EDGE",
				Message: fmt.Sprintf("vertices %d-%d already joined by edge %d", key.lo, key.hi, prev),
				Ref:     ref,
			})
		}
		seen[key] = e.ID
		if len(e.HalfEdges) == 0 {
			errs = append(errs, ValidationError{Code: "ORPHAN_EDGE", Message: "edge has no half-edges", Ref: ref})
		}
		for _, h := range e.HalfEdges {
			if m.HalfEdges[h].Edge != e.ID {
				errs = append(errs, ValidationError{
					Code:    "EDGE_BACKREF",
					Message: fmt.Sprintf("half-edge %d listed but points at edge %d", h, m.HalfEdges[h].Edge),
					Ref:     ref,
				})
			}
		}
	}
	return errs
}

// validatePartners checks that the partner chain from each half-edge
// closes after exactly as many steps as its edge has half-edges.
func validatePartners(m *Model) []ValidationError {
	var errs []ValidationError
	for _, h := range m.HalfEdges {
		n := len(m.Edges[h.Edge].HalfEdges)
		cur, steps := h.ID, 0
		for steps <= n {
			cur = m.HalfEdges[cur].Partner
			steps++
			if m.HalfEdges[cur].Edge != h.Edge {
				errs = append(errs, ValidationError{
					Code:    "PARTNER_EDGE",
					Message: fmt.Sprintf("partner %d belongs to edge %d", cur, m.HalfEdges[cur].Edge),
					Ref:     Ref{TypeHalfEdge, int(h.ID)},
				})
				break
			}
			if cur == h.ID {
				break
			}
		}
		if cur != h.ID || steps != n {
			errs = append(errs, ValidationError{
				Code:    "PARTNER_CYCLE",
				Message: fmt.Sprintf("partner chain closes after %d steps, want %d", steps, n),
				Ref:     Ref{TypeHalfEdge, int(h.ID)},
			})
		}
	}
	return errs
}

func validateLoops(m *Model) []ValidationError {
	var errs []ValidationError
	for _, l := range m.Loops {
		ref := Ref{TypeLoop, int(l.ID)}
		st := m.HalfEdges[l.St]
		third := m.HalfEdges[m.HalfEdges[st.Next].Next]
		if third.Next != st.ID {
			errs = append(errs, ValidationError{Code: "LOOP_NEXT", Message: "next chain is not a 3-cycle", Ref: ref})
		}
		if st.Pre != third.ID {
			errs = append(errs, ValidationError{Code: "LOOP_PRE", Message: "pre of start is not next of next", Ref: ref})
		}
		for _, h := range []*HalfEdge{st, m.HalfEdges[st.Next], third} {
			if h.Loop != l.ID {
				errs = append(errs, ValidationError{
					Code:    "LOOP_BACKREF",
					Message: fmt.Sprintf("half-edge %d points at loop %d", h.ID, h.Loop),
					Ref:     ref,
				})
			}
		}
		if m.Faces[l.Face].Loop != l.ID {
			errs = append(errs, ValidationError{Code: "FACE_BACKREF", Message: "face does not point back at loop", Ref: ref})
		}
	}
	return errs
}

func validateSolids(m *Model) []ValidationError {
	var errs []ValidationError
	for _, s := range m.Solids {
		seen := make(map[FaceID]bool, len(s.Faces))
		for _, f := range s.Faces {
			if seen[f] {
				errs = append(errs, ValidationError{
					Code:    "DUPLICATE_FACE",
					Message: fmt.Sprintf("face %d listed twice", f),
					Ref:     Ref{TypeSolid, int(s.ID)},
				})
			}
			seen[f] = true
			if m.Faces[f].Solid != s.ID {
				errs = append(errs, ValidationError{
					Code:    "SOLID_BACKREF",
					Message: fmt.Sprintf("face %d points at solid %d", f, m.Faces[f].Solid),
					Ref:     Ref{TypeSolid, int(s.ID)},
				})
			}
		}
	}
	return errs
}

// validateRegistry checks that every entity round-trips through the
// registry to itself and that its registered id is its slice index.
func validateRegistry(m *Model) []ValidationError {
	var errs []ValidationError
	check := func(e Entity, index int) {
		ref, ok := m.registry.LookupRef(e)
		if !ok {
			errs = append(errs, ValidationError{Code: "UNREGISTERED", Message: "entity missing from registry", Ref: Ref{e.Type(), index}})
			return
		}
		if ref.ID != index || ref.Type != e.Type() {
			errs = append(errs, ValidationError{Code: "REGISTRY_ID", Message: fmt.Sprintf("registered as %s", ref), Ref: Ref{e.Type(), index}})
		}
		if back, ok := m.registry.LookupEntity(ref); !ok || back != e {
			errs = append(errs, ValidationError{Code: "REGISTRY_INVERSE", Message: "inverse lookup mismatch", Ref: ref})
		}
	}
	for i, v := range m.Vertices {
		check(v, i)
	}
	for i, e := range m.Edges {
		check(e, i)
	}
	for i, h := range m.HalfEdges {
		check(h, i)
	}
	for i, l := range m.Loops {
		check(l, i)
	}
	for i, f := range m.Faces {
		check(f, i)
	}
	for i, s := range m.Solids {
		check(s, i)
	}
	return errs
}
