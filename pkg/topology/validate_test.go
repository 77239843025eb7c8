package topology

import "testing"

func TestValidateDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(m *Model)
		code    string
	}{
		{"broken partner", func(m *Model) {
			e, _ := m.FindEdge(0, 1)
			h := m.HalfEdges[e.HalfEdges[0]]
			h.Partner = h.ID
		}, "PARTNER_CYCLE"},
		{"partner on another edge", func(m *Model) {
			m.HalfEdges[0].Partner = m.HalfEdges[1].ID
		}, "PARTNER_EDGE"},
		{"open loop", func(m *Model) {
			h := m.HalfEdges[m.Loops[0].St]
			h.Pre = h.ID
		}, "LOOP_PRE"},
		{"duplicate edge", func(m *Model) {
			m.Edges[1].St, m.Edges[1].Ed = m.Edges[0].St, m.Edges[0].Ed
		}, "DUPLICATE_EDGE"},
		{"duplicate face", func(m *Model) {
			s := m.Solids[0]
			s.Faces = append(s.Faces, s.Faces[0])
		}, "DUPLICATE_FACE"},
		{"unregistered vertex", func(m *Model) {
			m.Vertices[0] = &Vertex{Point: m.Vertices[0].Point}
		}, "UNREGISTERED"},
		{"partner out of range", func(m *Model) {
			m.HalfEdges[0].Partner = HalfEdgeID(len(m.HalfEdges))
		}, "DANGLING_REF"},
		{"negative next", func(m *Model) {
			m.HalfEdges[2].Next = -1
		}, "DANGLING_REF"},
		{"loop face out of range", func(m *Model) {
			m.Loops[0].Face = FaceID(99)
		}, "DANGLING_REF"},
		{"solid face out of range", func(m *Model) {
			m.Solids[0].Faces = append(m.Solids[0].Faces, FaceID(len(m.Faces)))
		}, "DANGLING_REF"},
		{"edge vertex out of range", func(m *Model) {
			m.Edges[0].Ed = VertexID(len(m.Vertices) + 3)
		}, "DANGLING_REF"},
		{"nil face", func(m *Model) {
			m.Faces[1] = nil
		}, "NIL_ENTITY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustBuild(t, finMesh())
			tt.corrupt(m)
			errs := Validate(m)
			for _, err := range errs {
				if err.Code == tt.code {
					return
				}
			}
			t.Errorf("Validate() = %v, did not report %s", errs, tt.code)
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	err := ValidationError{Code: "ORPHAN_EDGE", Message: "edge has no half-edges", Ref: Ref{TypeEdge, 4}}
	want := "ORPHAN_EDGE: edge has no half-edges (edge#4)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
