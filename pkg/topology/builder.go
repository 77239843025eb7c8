package topology

import (
	"fmt"

	"github.com/chazu/topoview/pkg/kernel"
	"github.com/google/uuid"
)

// Builder reconstructs half-edge topology from meshes into one Registry.
type Builder struct {
	registry *Registry
}

// NewBuilder returns a builder that registers entities in reg.
func NewBuilder(reg *Registry) *Builder {
	return &Builder{registry: reg}
}

// Build is shorthand for NewBuilder(reg).Build(mesh).
func Build(reg *Registry, mesh *kernel.Mesh) (*Model, error) {
	return NewBuilder(reg).Build(mesh)
}

// Build validates mesh, clears the registry and constructs a new Model:
// one vertex per input point, one face, loop and three half-edges per
// triangle, one edge per unordered vertex pair and one solid per range.
//
// The input is checked in full before anything is created. On error the
// registry keeps its previous contents and no model is returned.
func (b *Builder) Build(mesh *kernel.Mesh) (*Model, error) {
	if err := check(mesh); err != nil {
		return nil, err
	}

	b.registry.Reset()
	m := &Model{
		Session:  uuid.New(),
		Name:     mesh.PartName,
		registry: b.registry,
		edgeMap:  make(map[vertexPair]EdgeID),
	}

	for i := 0; i < mesh.VertexCount(); i++ {
		p := mesh.Point(i)
		v := &Vertex{
			ID:    VertexID(len(m.Vertices)),
			Point: NewCoordinate(float64(p[0]), float64(p[1]), float64(p[2])),
		}
		b.registry.Register(v)
		m.Vertices = append(m.Vertices, v)
	}

	degenerate := 0
	for _, r := range mesh.Ranges() {
		solid := &Solid{Name: r.Name}
		for t := r.Begin; t < r.End; t += 3 {
			i := VertexID(mesh.Indices[t])
			j := VertexID(mesh.Indices[t+1])
			k := VertexID(mesh.Indices[t+2])
			if i == j || j == k || k == i {
				degenerate++
			}

			ij := b.makeHalfEdge(m, i, j)
			jk := b.makeHalfEdge(m, j, k)
			ki := b.makeHalfEdge(m, k, i)
			loop := b.makeLoop(m, ij, jk, ki)
			face := b.makeFace(m, loop)
			solid.AddFace(face.ID)
		}
		b.makeSolid(m, solid)
		if len(solid.Faces) == 0 {
			Logger().Warn("topology: empty solid", "solid", solid.ID, "name", solid.Name)
		}
	}

	if degenerate > 0 {
		Logger().Warn("topology: degenerate triangles accepted", "count", degenerate)
	}
	Logger().Info("topology: built model",
		"name", m.Name,
		"vertices", len(m.Vertices),
		"edges", len(m.Edges),
		"faces", len(m.Faces),
		"solids", len(m.Solids))
	Logger().Debug("topology: registry",
		"halfedges", b.registry.Capacity(TypeHalfEdge),
		"loops", b.registry.Capacity(TypeLoop),
		"entries", b.registry.Len())
	return m, nil
}

// check rejects structurally invalid input before any entity is created.
func check(mesh *kernel.Mesh) error {
	if mesh == nil {
		return fmt.Errorf("topology: nil mesh: %w", ErrMalformedMesh)
	}
	if err := mesh.Check(); err != nil {
		return fmt.Errorf("topology: %v: %w", err, ErrMalformedMesh)
	}
	n := mesh.VertexCount()
	for pos, idx := range mesh.Indices {
		if int64(idx) >= int64(n) {
			return fmt.Errorf("topology: index %d at position %d (triangle %d) exceeds %d vertices: %w",
				idx, pos, pos/3, n, ErrInvalidIndex)
		}
	}
	return nil
}

// resolveEdge returns the edge for the unordered pair {i, j}, creating it
// with St=i, Ed=j on first encounter.
func (b *Builder) resolveEdge(m *Model, i, j VertexID) *Edge {
	key := makePair(i, j)
	if id, ok := m.edgeMap[key]; ok {
		return m.Edges[id]
	}
	e := &Edge{ID: EdgeID(len(m.Edges)), St: i, Ed: j}
	b.registry.Register(e)
	m.Edges = append(m.Edges, e)
	m.edgeMap[key] = e.ID
	return e
}

// makeHalfEdge creates the half-edge i->j, attaches it to its edge and
// relinks the edge's partner cycle.
func (b *Builder) makeHalfEdge(m *Model, i, j VertexID) *HalfEdge {
	e := b.resolveEdge(m, i, j)
	h := &HalfEdge{
		ID:    HalfEdgeID(len(m.HalfEdges)),
		Edge:  e.ID,
		Sense: !(e.St == i && e.Ed == j),
	}
	b.registry.Register(h)
	m.HalfEdges = append(m.HalfEdges, h)

	e.HalfEdges = append(e.HalfEdges, h.ID)
	for n, id := range e.HalfEdges {
		m.HalfEdges[id].Partner = e.HalfEdges[(n+1)%len(e.HalfEdges)]
	}
	return h
}

func (b *Builder) makeLoop(m *Model, a, bh, c *HalfEdge) *Loop {
	a.Next, a.Pre = bh.ID, c.ID
	bh.Next, bh.Pre = c.ID, a.ID
	c.Next, c.Pre = a.ID, bh.ID

	l := &Loop{ID: LoopID(len(m.Loops)), St: a.ID}
	b.registry.Register(l)
	m.Loops = append(m.Loops, l)
	a.Loop, bh.Loop, c.Loop = l.ID, l.ID, l.ID
	return l
}

func (b *Builder) makeFace(m *Model, l *Loop) *Face {
	f := &Face{ID: FaceID(len(m.Faces)), Loop: l.ID}
	b.registry.Register(f)
	m.Faces = append(m.Faces, f)
	l.Face = f.ID
	return f
}

func (b *Builder) makeSolid(m *Model, s *Solid) {
	s.ID = SolidID(len(m.Solids))
	b.registry.Register(s)
	m.Solids = append(m.Solids, s)
	for _, f := range s.Faces {
		m.Faces[f].Solid = s.ID
	}
}
