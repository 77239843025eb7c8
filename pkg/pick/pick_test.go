package pick

import (
	"math"
	"math/rand"
	"testing"

	"github.com/chazu/topoview/pkg/kernel"
	"github.com/chazu/topoview/pkg/topology"
)

func newIndex(t *testing.T, mesh *kernel.Mesh) *Index {
	t.Helper()
	m, err := topology.Build(topology.NewRegistry(), mesh)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	x, err := NewIndex(m)
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	return x
}

// square is the unit square in z=0 split along its 0-2 diagonal.
func square() *kernel.Mesh {
	return &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
	}
}

func ends(e *topology.Edge) [2]topology.VertexID {
	if e.St < e.Ed {
		return [2]topology.VertexID{e.St, e.Ed}
	}
	return [2]topology.VertexID{e.Ed, e.St}
}

func TestNearest(t *testing.T) {
	x := newIndex(t, square())
	if x.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", x.Len())
	}

	tests := []struct {
		name string
		p    topology.Coordinate
		want [2]topology.VertexID
		dist float64
	}{
		{"below bottom edge", topology.NewCoordinate(0.5, -0.25, 0), [2]topology.VertexID{0, 1}, 0.25},
		{"right of right edge", topology.NewCoordinate(1.5, 0.5, 0), [2]topology.VertexID{1, 2}, 0.5},
		{"on the diagonal", topology.NewCoordinate(0.5, 0.5, 0), [2]topology.VertexID{0, 2}, 0},
		{"above the diagonal", topology.NewCoordinate(0.3, 0.3, 2), [2]topology.VertexID{0, 2}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := x.Nearest(tt.p, 1)
			if len(hits) != 1 {
				t.Fatalf("Nearest() returned %d hits", len(hits))
			}
			if got := ends(hits[0].Edge); got != tt.want {
				t.Errorf("nearest edge = %v, want %v", got, tt.want)
			}
			if math.Abs(hits[0].Distance-tt.dist) > 1e-6 {
				t.Errorf("distance = %v, want %v", hits[0].Distance, tt.dist)
			}
		})
	}
}

func TestNearestOrdering(t *testing.T) {
	x := newIndex(t, square())
	hits := x.Nearest(topology.NewCoordinate(0.5, -0.1, 0), 10)
	if len(hits) != 5 {
		t.Fatalf("Nearest(k=10) returned %d hits, want all 5", len(hits))
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Errorf("hit %d closer than hit %d", i, i-1)
		}
	}
	if x.Nearest(topology.Coordinate{}, 0) != nil {
		t.Error("Nearest(k=0) returned hits")
	}
}

// TestNearestMatchesBruteForce checks that the refinement loop finds the
// true nearest edges among many long, overlapping boxes.
func TestNearestMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	mesh := &kernel.Mesh{}
	for i := 0; i < 60; i++ {
		mesh.AddVertex(r.Float32()*10, r.Float32()*10, r.Float32()*10)
	}
	for i := 0; i < 40; i++ {
		mesh.Indices = append(mesh.Indices, uint32(r.Intn(20)), uint32(20+r.Intn(20)), uint32(40+r.Intn(20)))
	}
	x := newIndex(t, mesh)

	for trial := 0; trial < 25; trial++ {
		p := topology.NewCoordinate(r.Float64()*10, r.Float64()*10, r.Float64()*10)
		best := math.Inf(1)
		for _, e := range x.Model().Edges {
			a, b := x.Model().Vertices[e.St].Point, x.Model().Vertices[e.Ed].Point
			if d := closest(a, b, p).Dist(p); d < best {
				best = d
			}
		}
		hits := x.Nearest(p, 3)
		if len(hits) != 3 {
			t.Fatalf("trial %d: %d hits", trial, len(hits))
		}
		if math.Abs(hits[0].Distance-best) > 1e-9 {
			t.Errorf("trial %d: nearest distance %v, brute force %v", trial, hits[0].Distance, best)
		}
	}
}

func TestWithin(t *testing.T) {
	x := newIndex(t, square())
	hits := x.Within(topology.NewCoordinate(0.5, -0.1, 0), 0.2)
	if len(hits) != 1 || ends(hits[0].Edge) != [2]topology.VertexID{0, 1} {
		t.Errorf("Within(0.2) = %+v, want only edge 0-1", hits)
	}
	if got := x.Within(topology.NewCoordinate(5, 5, 5), 1); len(got) != 0 {
		t.Errorf("Within() far away = %d hits", len(got))
	}
	if got := x.Within(topology.NewCoordinate(0, 0, 0), 0); len(got) != 3 {
		t.Errorf("Within(corner, 0) = %d hits, want the 3 edges at vertex 0", len(got))
	}
}

func TestClosest(t *testing.T) {
	a, b := topology.NewCoordinate(0, 0, 0), topology.NewCoordinate(2, 0, 0)
	tests := []struct {
		p, want topology.Coordinate
	}{
		{topology.NewCoordinate(1, 1, 0), topology.NewCoordinate(1, 0, 0)},
		{topology.NewCoordinate(-1, 1, 0), a},
		{topology.NewCoordinate(3, 0, 1), b},
	}
	for _, tt := range tests {
		if got := closest(a, b, tt.p); !got.Equal(tt.want) {
			t.Errorf("closest(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if got := closest(a, a, b); !got.Equal(a) {
		t.Errorf("closest on a point = %v", got)
	}
}

func TestIndexFarFromOrigin(t *testing.T) {
	// At 1e11 an absolute 1e-6 margin rounds away on the flat axes of the
	// axis-aligned 0-1 edge.
	const c = 1e11
	x := newIndex(t, &kernel.Mesh{
		Vertices: []float32{c, c, c, 2 * c, c, c, c, 2 * c, c},
		Indices:  []uint32{0, 1, 2},
	})
	if x.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", x.Len())
	}
	hits := x.Nearest(topology.NewCoordinate(1.5*c, float64(float32(c)), float64(float32(c))), 1)
	if len(hits) != 1 || ends(hits[0].Edge) != [2]topology.VertexID{0, 1} {
		t.Fatalf("Nearest() = %+v, want edge 0-1", hits)
	}
	if hits[0].Distance > 1 {
		t.Errorf("distance = %v, want the query to lie on the edge", hits[0].Distance)
	}
}

func TestIndexSkipsNonFiniteEdges(t *testing.T) {
	nan := float32(math.NaN())
	x := newIndex(t, &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, nan, 0, 0},
		Indices:  []uint32{0, 1, 2},
	})
	if x.Len() != 1 {
		t.Fatalf("Len() = %d, want only the finite edge", x.Len())
	}
	hits := x.Nearest(topology.NewCoordinate(0.5, 1, 0), 3)
	if len(hits) != 1 || ends(hits[0].Edge) != [2]topology.VertexID{0, 1} {
		t.Errorf("Nearest() = %+v, want edge 0-1", hits)
	}
}

func TestPadFor(t *testing.T) {
	tests := []struct {
		name string
		a, b topology.Coordinate
		want float64
	}{
		{"origin", topology.NewCoordinate(0, 0, 0), topology.NewCoordinate(1, 0, 0), Pad + RelativePad},
		{"far", topology.NewCoordinate(0, -4e9, 0), topology.NewCoordinate(3, 0, 0), Pad + RelativePad*4e9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := padFor(tt.a, tt.b); got != tt.want {
				t.Errorf("padFor() = %v, want %v", got, tt.want)
			}
		})
	}
}
