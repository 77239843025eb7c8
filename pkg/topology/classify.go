package topology

import "fmt"

// Class is the manifold classification of an edge.
type Class int

const (
	Boundary    Class = iota // one half-edge: open mesh border
	Manifold                 // two half-edges: interior of a closed sheet
	NonManifold              // three or more half-edges
)

// Classes lists every class in the order overlays present them.
var Classes = []Class{Boundary, NonManifold, Manifold}

func (c Class) String() string {
	switch c {
	case Boundary:
		return "boundary"
	case Manifold:
		return "manifold"
	case NonManifold:
		return "non-manifold"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// ParseClass accepts a class name or its overlay color name.
func ParseClass(s string) (Class, bool) {
	switch s {
	case "boundary", "red":
		return Boundary, true
	case "manifold", "green":
		return Manifold, true
	case "non-manifold", "nonmanifold", "yellow":
		return NonManifold, true
	}
	return 0, false
}

// ColorName is the display color name of c.
func (c Class) ColorName() string {
	switch c {
	case Boundary:
		return "red"
	case Manifold:
		return "green"
	default:
		return "yellow"
	}
}

// Color is the RGB display color of c with components in [0, 1].
func (c Class) Color() [3]float32 {
	switch c {
	case Boundary:
		return [3]float32{1, 0, 0}
	case Manifold:
		return [3]float32{0, 1, 0}
	default:
		return [3]float32{1, 1, 0}
	}
}

// Classify buckets e by its half-edge count. It is recomputed on every
// call; nothing is cached on the edge.
func Classify(e *Edge) Class {
	switch len(e.HalfEdges) {
	case 1:
		return Boundary
	case 2:
		return Manifold
	default:
		return NonManifold
	}
}

// Census counts edges per class.
type Census struct {
	Boundary    int `json:"boundary"`
	Manifold    int `json:"manifold"`
	NonManifold int `json:"nonManifold"`
}

// Add counts one edge of class c.
func (c *Census) Add(class Class) {
	switch class {
	case Boundary:
		c.Boundary++
	case Manifold:
		c.Manifold++
	default:
		c.NonManifold++
	}
}

// Count returns the count for one class.
func (c Census) Count(class Class) int {
	switch class {
	case Boundary:
		return c.Boundary
	case Manifold:
		return c.Manifold
	default:
		return c.NonManifold
	}
}

// Total returns the number of edges counted.
func (c Census) Total() int {
	return c.Boundary + c.Manifold + c.NonManifold
}

// Closed reports whether every counted edge is manifold.
func (c Census) Closed() bool {
	return c.Boundary == 0 && c.NonManifold == 0
}

func (c Census) String() string {
	return fmt.Sprintf("%d edges: %d boundary, %d manifold, %d non-manifold",
		c.Total(), c.Boundary, c.Manifold, c.NonManifold)
}

// Census classifies every edge of the model.
func (m *Model) Census() Census {
	var c Census
	for _, e := range m.Edges {
		c.Add(Classify(e))
	}
	return c
}

// SolidCensus classifies the distinct edges used by the faces of one
// solid. An edge shared with another solid is classified by its global
// half-edge count.
func (m *Model) SolidCensus(id SolidID) (Census, bool) {
	if id < 0 || int(id) >= len(m.Solids) {
		return Census{}, false
	}
	var c Census
	seen := make(map[EdgeID]bool)
	for _, f := range m.Solids[id].Faces {
		for _, h := range m.LoopHalfEdges(m.Loops[m.Faces[f].Loop]) {
			if seen[h.Edge] {
				continue
			}
			seen[h.Edge] = true
			c.Add(Classify(m.Edges[h.Edge]))
		}
	}
	return c, true
}

// EdgesByClass groups the edges by class, each group in SortedEdges order.
func (m *Model) EdgesByClass() map[Class][]*Edge {
	out := make(map[Class][]*Edge, len(Classes))
	for _, e := range m.SortedEdges() {
		c := Classify(e)
		out[c] = append(out[c], e)
	}
	return out
}
