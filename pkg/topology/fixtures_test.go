package topology

import (
	"testing"

	"github.com/chazu/topoview/pkg/kernel"
)

// tetraVertices are the corners of a unit right tetrahedron.
var tetraVertices = []float32{
	0, 0, 0,
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}

// tetraIndices are its four outward-facing triangles.
var tetraIndices = []uint32{
	0, 2, 1,
	0, 1, 3,
	0, 3, 2,
	1, 2, 3,
}

func tetraMesh() *kernel.Mesh {
	return &kernel.Mesh{
		Vertices: append([]float32(nil), tetraVertices...),
		Indices:  append([]uint32(nil), tetraIndices...),
		PartName: "tetra",
	}
}

func triangleMesh() *kernel.Mesh {
	return &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2},
	}
}

// finMesh is a tetrahedron with an extra fin triangle hung on edge 0-1,
// giving that edge three half-edges.
func finMesh() *kernel.Mesh {
	m := tetraMesh()
	m.AddVertex(0.5, -1, 0)
	m.Indices = append(m.Indices, 0, 1, 4)
	return m
}

func mustBuild(t *testing.T, mesh *kernel.Mesh) *Model {
	t.Helper()
	m, err := Build(NewRegistry(), mesh)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if errs := Validate(m); len(errs) > 0 {
		for _, e := range errs {
			t.Errorf("invariant: %v", e)
		}
		t.FailNow()
	}
	return m
}
