// Package overlay turns a topology model into the per-class edge data a
// viewer draws and lists: line-segment buffers colored by classification,
// edge listings with stable identifiers, and export to DXF and PNG.
package overlay

import (
	"github.com/chazu/topoview/pkg/topology"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// EdgeInfo is one row of an edge listing.
type EdgeInfo struct {
	HalfEdgeCount int `json:"halfEdgeCount"`
	EdgeID        int `json:"edgeId"`
	StartID       int `json:"startId"`
	EndID         int `json:"endId"`
}

// Layer holds the edges of one class.
type Layer struct {
	Class topology.Class `json:"class"`
	Name  string         `json:"name"`
	Color [3]float32     `json:"color"`
	// Lines is a flat segment buffer: start xyz then end xyz, per edge.
	Lines []float32  `json:"lines"`
	Edges []EdgeInfo `json:"edges"`
}

// Overlay is the drawable edge classification of one model.
type Overlay struct {
	Session uuid.UUID `json:"session"`
	Layers  []Layer   `json:"layers"`
}

// Build groups the model's edges by class. Layers follow
// topology.Classes; edges within a layer follow SortedEdges.
func Build(m *topology.Model) *Overlay {
	groups := m.EdgesByClass()
	o := &Overlay{Session: m.Session}
	for _, c := range topology.Classes {
		edges := groups[c]
		o.Layers = append(o.Layers, Layer{
			Class: c,
			Name:  c.String(),
			Color: c.Color(),
			Lines: lo.FlatMap(edges, func(e *topology.Edge, _ int) []float32 {
				st, ed := m.Vertices[e.St].Point, m.Vertices[e.Ed].Point
				return []float32{
					float32(st.X), float32(st.Y), float32(st.Z),
					float32(ed.X), float32(ed.Y), float32(ed.Z),
				}
			}),
			Edges: lo.Map(edges, func(e *topology.Edge, _ int) EdgeInfo {
				return Info(m, e)
			}),
		})
	}
	return o
}

// Info describes e by its registry identifiers.
func Info(m *topology.Model, e *topology.Edge) EdgeInfo {
	info := EdgeInfo{HalfEdgeCount: len(e.HalfEdges), EdgeID: -1, StartID: -1, EndID: -1}
	if id, ok := m.GetID(e); ok {
		info.EdgeID = id
	}
	if id, ok := m.GetID(m.Vertices[e.St]); ok {
		info.StartID = id
	}
	if id, ok := m.GetID(m.Vertices[e.Ed]); ok {
		info.EndID = id
	}
	return info
}

// Layer returns the layer for class c.
func (o *Overlay) Layer(c topology.Class) (*Layer, bool) {
	for i := range o.Layers {
		if o.Layers[i].Class == c {
			return &o.Layers[i], true
		}
	}
	return nil, false
}

// Edge returns row i of class c's listing.
func (o *Overlay) Edge(c topology.Class, i int) (EdgeInfo, bool) {
	l, ok := o.Layer(c)
	if !ok || i < 0 || i >= len(l.Edges) {
		return EdgeInfo{}, false
	}
	return l.Edges[i], true
}

// Midpoint resolves info's endpoint identifiers through the model's
// registry and returns the middle of the segment. It reports false when
// the identifiers no longer resolve, e.g. after the model was reloaded.
func Midpoint(m *topology.Model, info EdgeInfo) (topology.Coordinate, bool) {
	if !m.Current() {
		return topology.Coordinate{}, false
	}
	st, ok := m.LookupVertex(info.StartID)
	if !ok {
		return topology.Coordinate{}, false
	}
	ed, ok := m.LookupVertex(info.EndID)
	if !ok {
		return topology.Coordinate{}, false
	}
	return st.Point.Mid(ed.Point), true
}

// CameraTarget maps a model-space point into the viewer's scaled world
// space.
func CameraTarget(p topology.Coordinate, scale float64) topology.Coordinate {
	return p.Scale(scale)
}
