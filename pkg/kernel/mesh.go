package kernel

import "fmt"

// SolidRange is a half-open [Begin, End) range into Mesh.Indices holding the
// triangles of one solid. Name is optional metadata carried from the source
// file (OBJ object/group name, script solid name).
type SolidRange struct {
	Begin int    `json:"begin"`
	End   int    `json:"end"`
	Name  string `json:"name,omitempty"`
}

// Len returns the number of indices in the range.
func (r SolidRange) Len() int {
	return r.End - r.Begin
}

// Mesh is an indexed triangle mesh partitioned into solids.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32    `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32    `json:"normals"`  // [nx0,ny0,nz0, ...], may be empty
	Indices  []uint32     `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string       `json:"partName"` // source file or script name
	Solids   []SolidRange `json:"solids"`   // empty means one solid over all indices
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Point returns the position of vertex i.
func (m *Mesh) Point(i int) [3]float32 {
	return [3]float32{m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]}
}

// Ranges returns the solid partition of the index array. A mesh without
// explicit ranges is treated as a single solid spanning every index.
func (m *Mesh) Ranges() []SolidRange {
	if len(m.Solids) > 0 {
		return m.Solids
	}
	if len(m.Indices) == 0 {
		return nil
	}
	return []SolidRange{{Begin: 0, End: len(m.Indices), Name: m.PartName}}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(x, y, z float32) uint32 {
	m.Vertices = append(m.Vertices, x, y, z)
	return uint32(m.VertexCount() - 1)
}

// Append copies other's vertices and triangles into m. Each of other's
// ranges becomes a range of m; name replaces an empty range name.
func (m *Mesh) Append(other *Mesh, name string) {
	offset := uint32(m.VertexCount())
	base := len(m.Indices)
	if len(m.Solids) == 0 && base > 0 {
		m.Solids = m.Ranges()
	}

	keepNormals := (m.IsEmpty() || len(m.Normals) == len(m.Vertices)) &&
		len(other.Normals) > 0 && len(other.Normals) == len(other.Vertices)
	m.Vertices = append(m.Vertices, other.Vertices...)
	if keepNormals {
		m.Normals = append(m.Normals, other.Normals...)
	} else {
		m.Normals = nil
	}
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, idx+offset)
	}
	for _, r := range other.Ranges() {
		if r.Name == "" {
			r.Name = name
		}
		m.Solids = append(m.Solids, SolidRange{Begin: r.Begin + base, End: r.End + base, Name: r.Name})
	}
}

// Check verifies the structural shape of the arrays: vertex and index
// lengths divisible by 3, and solid ranges ordered, disjoint and
// triangle-aligned. Vertex index bounds are left to the topology builder.
func (m *Mesh) Check() error {
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("kernel: vertex array length %d is not a multiple of 3", len(m.Vertices))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("kernel: index array length %d is not a multiple of 3", len(m.Indices))
	}
	prev := 0
	for i, r := range m.Solids {
		switch {
		case r.Begin < prev:
			return fmt.Errorf("kernel: solid %d range [%d,%d) overlaps previous range", i, r.Begin, r.End)
		case r.End < r.Begin:
			return fmt.Errorf("kernel: solid %d range [%d,%d) is inverted", i, r.Begin, r.End)
		case r.End > len(m.Indices):
			return fmt.Errorf("kernel: solid %d range [%d,%d) exceeds %d indices", i, r.Begin, r.End, len(m.Indices))
		case r.Len()%3 != 0:
			return fmt.Errorf("kernel: solid %d range [%d,%d) is not a multiple of 3", i, r.Begin, r.End)
		}
		prev = r.End
	}
	return nil
}
