package topology

import (
	"sort"

	"github.com/google/uuid"
)

// vertexPair is an edge key: the two vertex ids with the smaller first.
type vertexPair struct {
	lo, hi VertexID
}

func makePair(a, b VertexID) vertexPair {
	if a > b {
		a, b = b, a
	}
	return vertexPair{lo: a, hi: b}
}

// Model is the topology graph of one loaded mesh. It owns every entity.
// A Model is replaced wholesale on reload; Session distinguishes loads that
// share a Registry, so identifiers held by a GUI can be checked for
// staleness.
type Model struct {
	Session uuid.UUID
	Name    string

	Vertices  []*Vertex
	Edges     []*Edge
	HalfEdges []*HalfEdge
	Loops     []*Loop
	Faces     []*Face
	Solids    []*Solid

	registry *Registry
	edgeMap  map[vertexPair]EdgeID
}

// Registry returns the registry the model was built into.
func (m *Model) Registry() *Registry {
	return m.registry
}

func (m *Model) Vertex(id VertexID) *Vertex       { return m.Vertices[id] }
func (m *Model) Edge(id EdgeID) *Edge             { return m.Edges[id] }
func (m *Model) HalfEdge(id HalfEdgeID) *HalfEdge { return m.HalfEdges[id] }
func (m *Model) Loop(id LoopID) *Loop             { return m.Loops[id] }
func (m *Model) Face(id FaceID) *Face             { return m.Faces[id] }
func (m *Model) Solid(id SolidID) *Solid          { return m.Solids[id] }

// Start returns the vertex h leaves from, honoring its sense.
func (m *Model) Start(h *HalfEdge) *Vertex {
	e := m.Edges[h.Edge]
	if h.Sense {
		return m.Vertices[e.Ed]
	}
	return m.Vertices[e.St]
}

// End returns the vertex h arrives at, honoring its sense.
func (m *Model) End(h *HalfEdge) *Vertex {
	e := m.Edges[h.Edge]
	if h.Sense {
		return m.Vertices[e.St]
	}
	return m.Vertices[e.Ed]
}

// EdgeLength returns the distance between e's endpoints.
func (m *Model) EdgeLength(e *Edge) float64 {
	return m.Vertices[e.St].Point.Dist(m.Vertices[e.Ed].Point)
}

// Midpoint returns the middle of e.
func (m *Model) Midpoint(e *Edge) Coordinate {
	return m.Vertices[e.St].Point.Mid(m.Vertices[e.Ed].Point)
}

// Degenerate reports whether e joins a vertex to itself or has zero length.
func (m *Model) Degenerate(e *Edge) bool {
	return e.St == e.Ed || m.Vertices[e.St].Point.Equal(m.Vertices[e.Ed].Point)
}

// LoopHalfEdges returns the half-edges of l in Next order starting at St.
func (m *Model) LoopHalfEdges(l *Loop) []*HalfEdge {
	var out []*HalfEdge
	h := l.St
	for {
		out = append(out, m.HalfEdges[h])
		h = m.HalfEdges[h].Next
		if h == l.St || len(out) > len(m.HalfEdges) {
			return out
		}
	}
}

// FaceVertices returns the corners of f in loop order.
func (m *Model) FaceVertices(f *Face) []*Vertex {
	hs := m.LoopHalfEdges(m.Loops[f.Loop])
	out := make([]*Vertex, len(hs))
	for i, h := range hs {
		out[i] = m.Start(h)
	}
	return out
}

// FaceNormal returns the unit normal of f by the right-hand rule over
// its first three corners, or the zero vector for a degenerate face.
func (m *Model) FaceNormal(f *Face) Coordinate {
	vs := m.FaceVertices(f)
	if len(vs) < 3 {
		return Coordinate{}
	}
	a, b, c := vs[0].Point, vs[1].Point, vs[2].Point
	return b.Sub(a).Cross(c.Sub(a)).Normalized()
}

// Bounds returns the axis-aligned bounding box of all vertices. ok is
// false for an empty model.
func (m *Model) Bounds() (min, max Coordinate, ok bool) {
	if len(m.Vertices) == 0 {
		return Coordinate{}, Coordinate{}, false
	}
	min, max = m.Vertices[0].Point, m.Vertices[0].Point
	for _, v := range m.Vertices[1:] {
		min = min.Min(v.Point)
		max = max.Max(v.Point)
	}
	return min, max, true
}

// SortedEdges returns the edges ordered by their (smaller, larger) vertex
// id pair.
func (m *Model) SortedEdges() []*Edge {
	out := append([]*Edge(nil), m.Edges...)
	sort.Slice(out, func(i, j int) bool {
		pi, pj := makePair(out[i].St, out[i].Ed), makePair(out[j].St, out[j].Ed)
		if pi.lo != pj.lo {
			return pi.lo < pj.lo
		}
		return pi.hi < pj.hi
	})
	return out
}
