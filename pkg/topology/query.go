package topology

// FindEdgeBetweenVertices returns the edge joining v1 and v2. Both
// vertices must be registered in the model's registry; the pair is probed
// in both orders.
func (m *Model) FindEdgeBetweenVertices(v1, v2 *Vertex) (*Edge, bool) {
	id1, ok := m.registry.LookupID(v1)
	if !ok {
		return nil, false
	}
	id2, ok := m.registry.LookupID(v2)
	if !ok {
		return nil, false
	}
	return m.FindEdge(VertexID(id1), VertexID(id2))
}

// FindEdge returns the edge joining two vertex ids in either order.
func (m *Model) FindEdge(a, b VertexID) (*Edge, bool) {
	if id, ok := m.edgeMap[vertexPair{lo: a, hi: b}]; ok {
		return m.Edges[id], true
	}
	if id, ok := m.edgeMap[vertexPair{lo: b, hi: a}]; ok {
		return m.Edges[id], true
	}
	return nil, false
}

// GetID returns e's id in the model's registry.
func (m *Model) GetID(e Entity) (int, bool) {
	return m.registry.LookupID(e)
}

// GetType returns e's type in the model's registry, NoExist if absent.
func (m *Model) GetType(e Entity) Type {
	return m.registry.LookupType(e)
}

// GetEntity resolves a (type, id) identifier.
func (m *Model) GetEntity(ref Ref) (Entity, bool) {
	return m.registry.LookupEntity(ref)
}

// LookupVertex resolves a vertex id through the registry.
func (m *Model) LookupVertex(id int) (*Vertex, bool) {
	e, ok := m.registry.LookupEntity(Ref{Type: TypeVertex, ID: id})
	if !ok {
		return nil, false
	}
	v, ok := e.(*Vertex)
	return v, ok
}

// LookupEdge resolves an edge id through the registry.
func (m *Model) LookupEdge(id int) (*Edge, bool) {
	e, ok := m.registry.LookupEntity(Ref{Type: TypeEdge, ID: id})
	if !ok {
		return nil, false
	}
	edge, ok := e.(*Edge)
	return edge, ok
}

// Current reports whether the model's registry still holds this model's
// entities, i.e. the registry has not been rebuilt by a later load.
func (m *Model) Current() bool {
	if len(m.Vertices) > 0 {
		e, ok := m.registry.LookupEntity(Ref{Type: TypeVertex, ID: 0})
		return ok && e == Entity(m.Vertices[0])
	}
	if len(m.Solids) > 0 {
		e, ok := m.registry.LookupEntity(Ref{Type: TypeSolid, ID: 0})
		return ok && e == Entity(m.Solids[0])
	}
	return m.registry.Len() == 0
}
