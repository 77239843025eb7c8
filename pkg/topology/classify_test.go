package topology

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		halfEdges int
		want      Class
	}{
		{1, Boundary},
		{2, Manifold},
		{3, NonManifold},
		{4, NonManifold},
	}
	for _, tt := range tests {
		e := &Edge{HalfEdges: make([]HalfEdgeID, tt.halfEdges)}
		if got := Classify(e); got != tt.want {
			t.Errorf("Classify(%d half-edges) = %v, want %v", tt.halfEdges, got, tt.want)
		}
	}
}

func TestClassifyTracksGrowth(t *testing.T) {
	e := &Edge{}
	want := []Class{Boundary, Manifold, NonManifold}
	for i, c := range want {
		e.HalfEdges = append(e.HalfEdges, HalfEdgeID(i))
		if got := Classify(e); got != c {
			t.Errorf("after %d half-edges Classify() = %v, want %v", i+1, got, c)
		}
	}
}

func TestParseClass(t *testing.T) {
	tests := []struct {
		in   string
		want Class
		ok   bool
	}{
		{"boundary", Boundary, true},
		{"red", Boundary, true},
		{"green", Manifold, true},
		{"non-manifold", NonManifold, true},
		{"yellow", NonManifold, true},
		{"blue", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseClass(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseClass(%q) = %v, %v", tt.in, got, ok)
			}
		})
	}
	for _, c := range Classes {
		if got, ok := ParseClass(c.String()); !ok || got != c {
			t.Errorf("ParseClass(%q) does not round-trip", c)
		}
		if got, ok := ParseClass(c.ColorName()); !ok || got != c {
			t.Errorf("ParseClass(%q) does not round-trip", c.ColorName())
		}
	}
}

func TestClassColor(t *testing.T) {
	tests := []struct {
		class Class
		want  [3]float32
	}{
		{Boundary, [3]float32{1, 0, 0}},
		{Manifold, [3]float32{0, 1, 0}},
		{NonManifold, [3]float32{1, 1, 0}},
	}
	for _, tt := range tests {
		if got := tt.class.Color(); got != tt.want {
			t.Errorf("%v.Color() = %v, want %v", tt.class, got, tt.want)
		}
	}
}

func TestEdgesByClass(t *testing.T) {
	m := mustBuild(t, finMesh())
	groups := m.EdgesByClass()

	c := m.Census()
	for _, class := range Classes {
		if got := len(groups[class]); got != c.Count(class) {
			t.Errorf("%v group = %d edges, census says %d", class, got, c.Count(class))
		}
		for _, e := range groups[class] {
			if Classify(e) != class {
				t.Errorf("edge %d in %v group classifies as %v", e.ID, class, Classify(e))
			}
		}
	}
	nm := groups[NonManifold]
	if len(nm) != 1 || makePair(nm[0].St, nm[0].Ed) != (vertexPair{0, 1}) {
		t.Errorf("non-manifold group = %v, want edge 0-1", nm)
	}
}

func TestCensusString(t *testing.T) {
	c := Census{Boundary: 2, Manifold: 5, NonManifold: 1}
	want := "8 edges: 2 boundary, 5 manifold, 1 non-manifold"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if c.Closed() {
		t.Error("Closed() true with boundary edges")
	}
}
