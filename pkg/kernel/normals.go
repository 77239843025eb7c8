package kernel

import "math"

// VertexNormals averages the face normals of the triangles incident on
// each vertex. Vertices that no triangle uses, or whose incident faces
// cancel out, get a zero normal. Indices must be in range.
func VertexNormals(m *Mesh) []float32 {
	normals := make([]float32, len(m.Vertices))
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Point(int(m.Indices[3*t])), m.Point(int(m.Indices[3*t+1])), m.Point(int(m.Indices[3*t+2]))
		e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		n := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		for j := 0; j < 3; j++ {
			idx := m.Indices[3*t+j]
			normals[3*idx] += n[0]
			normals[3*idx+1] += n[1]
			normals[3*idx+2] += n[2]
		}
	}
	for i := 0; i < len(normals); i += 3 {
		l := math.Sqrt(float64(normals[i]*normals[i] + normals[i+1]*normals[i+1] + normals[i+2]*normals[i+2]))
		if l > 1e-12 {
			normals[i] = float32(float64(normals[i]) / l)
			normals[i+1] = float32(float64(normals[i+1]) / l)
			normals[i+2] = float32(float64(normals[i+2]) / l)
		}
	}
	return normals
}
