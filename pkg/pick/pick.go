// Package pick finds the edges nearest to a point in model space, for
// click-to-select in the viewer.
package pick

import (
	"math"
	"sort"

	"github.com/chazu/topoview/pkg/topology"
	"github.com/dhconnelly/rtreego"
)

// Pad is the smallest margin added around every edge's bounding box so
// axis-aligned edges still have a volume in the tree.
const Pad = topology.Tolerance

// RelativePad scales the margin with the magnitude of an edge's
// coordinates so it survives rounding far from the origin.
const RelativePad = 1e-12

// R-tree node fan-out.
const (
	minChildren = 4
	maxChildren = 16
)

// Hit is one edge found near a query point.
type Hit struct {
	Edge     *topology.Edge
	Distance float64
	// Closest is the point on the edge nearest the query.
	Closest topology.Coordinate
}

type entry struct {
	edge   *topology.Edge
	a, b   topology.Coordinate
	lo, hi topology.Coordinate // padded box corners
	rect   rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect { return e.rect }

// Index is a spatial index over the edges of one model.
type Index struct {
	model *topology.Model
	tree  *rtreego.Rtree
}

// NewIndex indexes every edge of m. Edges with non-finite coordinates
// cannot be placed in the tree and are left out.
func NewIndex(m *topology.Model) (*Index, error) {
	tree := rtreego.NewTree(3, minChildren, maxChildren)
	skipped := 0
	for _, e := range m.Edges {
		a, b := m.Vertices[e.St].Point, m.Vertices[e.Ed].Point
		if !finite(a) || !finite(b) {
			skipped++
			continue
		}
		p := padFor(a, b)
		pad := topology.NewCoordinate(p, p, p)
		lo, hi := a.Min(b).Sub(pad), a.Max(b).Add(pad)
		size := hi.Sub(lo)
		rect, err := rtreego.NewRect(rtreego.Point{lo.X, lo.Y, lo.Z}, []float64{size.X, size.Y, size.Z})
		if err != nil {
			topology.Logger().Warn("pick: edge not indexed", "edge", e.ID, "err", err)
			skipped++
			continue
		}
		tree.Insert(&entry{edge: e, a: a, b: b, lo: lo, hi: hi, rect: rect})
	}
	if skipped > 0 {
		topology.Logger().Warn("pick: edges left out of index", "count", skipped)
	}
	topology.Logger().Debug("pick: indexed edges", "edges", tree.Size())
	return &Index{model: m, tree: tree}, nil
}

func finite(c topology.Coordinate) bool {
	for i := 0; i < 3; i++ {
		if v := c.At(i); math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// padFor is the box margin for the segment a-b.
func padFor(a, b topology.Coordinate) float64 {
	m := 0.0
	for i := 0; i < 3; i++ {
		m = math.Max(m, math.Max(math.Abs(a.At(i)), math.Abs(b.At(i))))
	}
	return Pad + RelativePad*m
}

// Model returns the indexed model.
func (x *Index) Model() *topology.Model { return x.model }

// Len returns the number of indexed edges.
func (x *Index) Len() int { return x.tree.Size() }

// Nearest returns up to k edges ordered by distance from p. Ties keep
// the tree's order.
func (x *Index) Nearest(p topology.Coordinate, k int) []Hit {
	n := x.tree.Size()
	if k <= 0 || n == 0 {
		return nil
	}
	if k > n {
		k = n
	}
	q := rtreego.Point{p.X, p.Y, p.Z}

	// Box distance never exceeds segment distance, so once the k-th best
	// segment distance is within the farthest candidate box, no unseen
	// edge can be closer.
	for m := 4 * k; ; m *= 2 {
		if m > n {
			m = n
		}
		var hits []Hit
		var farthest float64
		for _, s := range x.tree.NearestNeighbors(m, q) {
			e, ok := s.(*entry)
			if !ok {
				continue
			}
			hits = append(hits, hit(e, p))
			farthest = math.Max(farthest, boxDistance(e, p))
		}
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
		if len(hits) > k {
			hits = hits[:k]
		}
		if m == n || len(hits) == 0 || hits[len(hits)-1].Distance <= farthest {
			return hits
		}
	}
}

// Within returns every edge within r of p, nearest first.
func (x *Index) Within(p topology.Coordinate, r float64) []Hit {
	if r < 0 {
		return nil
	}
	query, err := rtreego.NewRect(
		rtreego.Point{p.X - r - Pad, p.Y - r - Pad, p.Z - r - Pad},
		[]float64{2 * (r + Pad), 2 * (r + Pad), 2 * (r + Pad)},
	)
	if err != nil {
		return nil
	}
	var hits []Hit
	for _, s := range x.tree.SearchIntersect(query) {
		if h := hit(s.(*entry), p); h.Distance <= r {
			hits = append(hits, h)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

func hit(e *entry, p topology.Coordinate) Hit {
	c := closest(e.a, e.b, p)
	return Hit{Edge: e.edge, Distance: c.Dist(p), Closest: c}
}

// closest returns the point of segment ab nearest p.
func closest(a, b, p topology.Coordinate) topology.Coordinate {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Scale(t))
}

// boxDistance is the distance from p to e's padded box, zero inside it.
func boxDistance(e *entry, p topology.Coordinate) float64 {
	nearest := p.Max(e.lo).Min(e.hi)
	return nearest.Dist(p)
}
